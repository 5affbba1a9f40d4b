// Package cpu implements the strided tensor kernels: elementwise, broadcast,
// reduction, gradient accumulation, transpose, slice and reshape copies.
//
// Kernels parallelize the outermost independent dimension with
// parallel.Pool.Parallelize and vectorize the innermost contiguous dimension
// with parallel.Vectorize. Every kernel writes into a caller-provided output
// of the correct shape; only Accumulate mutates an operand in place.
package cpu

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"

	"github.com/born-ml/tensorgrad/internal/parallel"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// Backend runs kernels for element type T on the CPU.
type Backend[T tensor.Float] struct {
	pool *parallel.Pool
}

// New creates a CPU backend with the given parallel configuration.
func New[T tensor.Float](cfg parallel.Config) *Backend[T] {
	return &Backend[T]{pool: parallel.NewPool(cfg)}
}

// NewDefault creates a CPU backend with parallel.DefaultConfig.
func NewDefault[T tensor.Float]() *Backend[T] {
	return New[T](parallel.DefaultConfig())
}

// Name returns the backend name.
func (b *Backend[T]) Name() string {
	return "CPU"
}

// Pool returns the worker pool used for fan-out.
func (b *Backend[T]) Pool() *parallel.Pool {
	return b.pool
}

// Alloc returns a zero-filled tensor of the given shape.
func (b *Backend[T]) Alloc(shape tensor.Shape) (*tensor.Tensor[T], error) {
	return tensor.New[T](shape)
}

// width returns the vector width in lanes.
func (b *Backend[T]) width() int {
	return b.pool.VectorWidth()
}

// forChunks covers [0, n) with vector chunks, fanning blocks of chunks out
// over the pool. lane(i, w) processes elements [i, i+w).
func (b *Backend[T]) forChunks(n int, lane func(i, w int)) {
	width := b.width()
	chunks := (n + width - 1) / width
	b.pool.Parallelize(chunks, 0, func(start, end int) {
		lo, hi := start*width, min(end*width, n)
		parallel.Vectorize(width, hi-lo, func(off, w int) {
			lane(lo+off, w)
		})
	})
}

// run executes a kernel body, converting panics raised inside it (including
// inside parallel partitions) into an error of the call.
func run(op string, body func()) error {
	if err := exceptions.TryCatch[error](body); err != nil {
		return errors.WithMessage(err, op)
	}
	return nil
}

// expectShape checks that t has the wanted shape.
func expectShape[T tensor.Float](op, role string, t *tensor.Tensor[T], want tensor.Shape) error {
	if t == nil {
		return tensor.ShapeErrorf("%s: %s tensor is nil", op, role)
	}
	if !t.Shape().Equal(want) {
		return tensor.ShapeErrorf("%s: %s has shape %s, expected %s", op, role, t.Shape(), want)
	}
	return nil
}

// expectInputs checks that no operand is nil.
func expectInputs[T tensor.Float](op string, inputs ...*tensor.Tensor[T]) error {
	for i, t := range inputs {
		if t == nil {
			return tensor.ShapeErrorf("%s: input %d is nil", op, i)
		}
	}
	return nil
}
