package tensor

import (
	"fmt"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Tensor pairs a Shape with an owned, contiguous buffer of exactly
// Shape.NumElements() elements.
//
// Kernels always write into a freshly sized output; a Tensor never aliases
// another Tensor's buffer.
//
// Example:
//
//	t := tensor.New[float32](tensor.Shape{3, 4})
//	t.Set(1.5, 1, 2) // Row 1, column 2
type Tensor[T Float] struct {
	shape   Shape
	strides []int
	data    []T
}

// New creates a zero-filled tensor.
func New[T Float](shape Shape) (*Tensor[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid shape")
	}
	return &Tensor[T]{
		shape:   shape.Clone(),
		strides: shape.Strides(),
		data:    make([]T, shape.NumElements()),
	}, nil
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T Float](data []T, shape Shape) (*Tensor[T], error) {
	if shape.NumElements() != len(data) {
		return nil, ShapeErrorf("shape %s requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	t, err := New[T](shape)
	if err != nil {
		return nil, err
	}
	copy(t.data, data)
	return t, nil
}

// Shape returns the tensor's shape.
func (t *Tensor[T]) Shape() Shape {
	return t.shape
}

// Strides returns the tensor's row-major strides.
func (t *Tensor[T]) Strides() []int {
	return t.strides
}

// NumElements returns the total number of elements.
func (t *Tensor[T]) NumElements() int {
	return len(t.data)
}

// Data returns the contiguous buffer.
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor[T]) Data() []T {
	return t.data
}

// ByteSize returns the buffer size in bytes.
func (t *Tensor[T]) ByteSize() int {
	var dummy T
	return len(t.data) * int(unsafe.Sizeof(dummy))
}

// Offset converts indices into a flat buffer offset.
func (t *Tensor[T]) Offset(indices ...int) (int, error) {
	if len(indices) != len(t.shape) {
		return 0, ShapeErrorf("expected %d indices, got %d", len(t.shape), len(indices))
	}
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			return 0, BoundsErrorf("index %d out of bounds for axis %d (size %d)", idx, i, t.shape[i])
		}
		offset += idx * t.strides[i]
	}
	return offset, nil
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor[T]) At(indices ...int) T {
	offset, err := t.Offset(indices...)
	if err != nil {
		panic(err)
	}
	return t.data[offset]
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor[T]) Set(value T, indices ...int) {
	offset, err := t.Offset(indices...)
	if err != nil {
		panic(err)
	}
	t.data[offset] = value
}

// Item returns the value of a single-element tensor.
func (t *Tensor[T]) Item() T {
	if len(t.data) != 1 {
		exceptions.Panicf("Tensor.Item() only works for single-element tensors, got shape %s", t.shape)
	}
	return t.data[0]
}

// Fill sets every element to value.
func (t *Tensor[T]) Fill(value T) {
	for i := range t.data {
		t.data[i] = value
	}
}

// Zero resets every element to 0.
func (t *Tensor[T]) Zero() {
	clear(t.data)
}

// Clone creates a deep copy of the tensor.
func (t *Tensor[T]) Clone() *Tensor[T] {
	return &Tensor[T]{
		shape:   t.shape.Clone(),
		strides: append([]int(nil), t.strides...),
		data:    append([]T(nil), t.data...),
	}
}

// WithShape returns a copy of t reinterpreted with shape.
// The element count must not change.
func (t *Tensor[T]) WithShape(shape Shape) (*Tensor[T], error) {
	if shape.NumElements() != len(t.data) {
		return nil, ShapeErrorf("cannot reinterpret %s as %s: element count differs", t.shape, shape)
	}
	out, err := New[T](shape)
	if err != nil {
		return nil, err
	}
	copy(out.data, t.data)
	return out, nil
}

// String returns a human-readable description of the tensor.
func (t *Tensor[T]) String() string {
	return fmt.Sprintf("Tensor[%s]%s (%s)", TypeName[T](), t.shape, humanize.Bytes(uint64(t.ByteSize())))
}
