package cpu

import (
	"math"

	"github.com/born-ml/tensorgrad/internal/parallel"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// UnaryFunc is a lane-wise scalar transform.
type UnaryFunc[T tensor.Float] func(x T) T

// BinaryFunc is a lane-wise scalar combine.
type BinaryFunc[T tensor.Float] func(x, y T) T

// Unary computes out[i] = f(in[i]). out must have in's shape.
func (b *Backend[T]) Unary(out, in *tensor.Tensor[T], f UnaryFunc[T]) error {
	if err := expectInputs("unary", in); err != nil {
		return err
	}
	if err := expectShape("unary", "output", out, in.Shape()); err != nil {
		return err
	}
	src, dst := in.Data(), out.Data()
	return run("unary", func() {
		b.forChunks(len(dst), func(i, w int) {
			for j := i; j < i+w; j++ {
				dst[j] = f(src[j])
			}
		})
	})
}

// Binary computes out = f(a, b) with NumPy-style broadcasting.
//
// Equal shapes take a direct vectorized loop. An operand of scalar shape is
// read once and applied to every lane. Every other combination indexes both
// operands through their broadcast strides one element at a time, since the
// source offsets are not contiguous across a chunk.
func (b *Backend[T]) Binary(out, lhs, rhs *tensor.Tensor[T], f BinaryFunc[T]) error {
	if err := expectInputs("binary", lhs, rhs); err != nil {
		return err
	}
	outShape, err := tensor.BroadcastShapes(lhs.Shape(), rhs.Shape())
	if err != nil {
		return err
	}
	if err := expectShape("binary", "output", out, outShape); err != nil {
		return err
	}

	x, y, dst := lhs.Data(), rhs.Data(), out.Data()
	return run("binary", func() {
		switch {
		case lhs.Shape().Equal(rhs.Shape()):
			b.forChunks(len(dst), func(i, w int) {
				for j := i; j < i+w; j++ {
					dst[j] = f(x[j], y[j])
				}
			})
		case rhs.Shape().IsScalar() && lhs.Shape().Equal(outShape):
			s := y[0]
			b.forChunks(len(dst), func(i, w int) {
				for j := i; j < i+w; j++ {
					dst[j] = f(x[j], s)
				}
			})
		case lhs.Shape().IsScalar() && rhs.Shape().Equal(outShape):
			s := x[0]
			b.forChunks(len(dst), func(i, w int) {
				for j := i; j < i+w; j++ {
					dst[j] = f(s, y[j])
				}
			})
		default:
			li := newBroadcastIndexer(lhs.Shape(), outShape)
			ri := newBroadcastIndexer(rhs.Shape(), outShape)
			b.pool.Parallelize(len(dst), 0, func(start, end int) {
				parallel.Vectorize(1, end-start, func(off, _ int) {
					j := start + off
					dst[j] = f(x[li.index(j)], y[ri.index(j)])
				})
			})
		}
	})
}

// BinaryScalar computes out[i] = f(in[i], s).
func (b *Backend[T]) BinaryScalar(out, in *tensor.Tensor[T], s T, f BinaryFunc[T]) error {
	if err := expectInputs("binary scalar", in); err != nil {
		return err
	}
	if err := expectShape("binary scalar", "output", out, in.Shape()); err != nil {
		return err
	}
	src, dst := in.Data(), out.Data()
	return run("binary scalar", func() {
		b.forChunks(len(dst), func(i, w int) {
			for j := i; j < i+w; j++ {
				dst[j] = f(src[j], s)
			}
		})
	})
}

// Lane functions shared by kernels and operators.
func add[T tensor.Float](x, y T) T { return x + y }
func sub[T tensor.Float](x, y T) T { return x - y }
func mul[T tensor.Float](x, y T) T { return x * y }
func div[T tensor.Float](x, y T) T { return x / y }

// Add computes out = lhs + rhs with broadcasting.
func (b *Backend[T]) Add(out, lhs, rhs *tensor.Tensor[T]) error {
	return b.Binary(out, lhs, rhs, add[T])
}

// Sub computes out = lhs - rhs with broadcasting.
func (b *Backend[T]) Sub(out, lhs, rhs *tensor.Tensor[T]) error {
	return b.Binary(out, lhs, rhs, sub[T])
}

// Mul computes out = lhs * rhs with broadcasting.
func (b *Backend[T]) Mul(out, lhs, rhs *tensor.Tensor[T]) error {
	return b.Binary(out, lhs, rhs, mul[T])
}

// Div computes out = lhs / rhs with broadcasting.
func (b *Backend[T]) Div(out, lhs, rhs *tensor.Tensor[T]) error {
	return b.Binary(out, lhs, rhs, div[T])
}

// Scale computes out = in * s.
func (b *Backend[T]) Scale(out, in *tensor.Tensor[T], s T) error {
	return b.BinaryScalar(out, in, s, mul[T])
}

// Neg computes out = -in.
func (b *Backend[T]) Neg(out, in *tensor.Tensor[T]) error {
	return b.Unary(out, in, func(x T) T { return -x })
}

// Exp computes out = e^in.
func (b *Backend[T]) Exp(out, in *tensor.Tensor[T]) error {
	return b.Unary(out, in, func(x T) T { return T(math.Exp(float64(x))) })
}

// BroadcastTo expands in into out, whose shape in must broadcast into.
func (b *Backend[T]) BroadcastTo(out, in *tensor.Tensor[T]) error {
	if out == nil || in == nil {
		return tensor.ShapeErrorf("broadcast: nil tensor")
	}
	scalar := in.Shape().IsScalar()
	if !scalar && !broadcastsInto(in.Shape(), out.Shape()) {
		return tensor.ShapeErrorf("broadcast: %s does not broadcast into %s", in.Shape(), out.Shape())
	}
	src, dst := in.Data(), out.Data()
	if scalar {
		s := src[0]
		return run("broadcast", func() {
			b.forChunks(len(dst), func(i, w int) {
				for j := i; j < i+w; j++ {
					dst[j] = s
				}
			})
		})
	}
	idx := newBroadcastIndexer(in.Shape(), out.Shape())
	return run("broadcast", func() {
		b.pool.Parallelize(len(dst), 0, func(start, end int) {
			for j := start; j < end; j++ {
				dst[j] = src[idx.index(j)]
			}
		})
	})
}
