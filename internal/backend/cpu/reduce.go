package cpu

import (
	"math"

	"k8s.io/klog/v2"

	"github.com/born-ml/tensorgrad/internal/parallel"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// laneFold folds n elements src[base], src[base+stride], ... .
//
// A running accumulator of width lanes is updated with step(acc, x) one
// vector chunk at a time, and the lanes are then reduced horizontally with
// merge(acc, lane). The lane layout depends only on width, so the result does
// not depend on how the caller's outer loop was partitioned.
func laneFold[T tensor.Float](src []T, base, stride, n, width int, init T, step, merge BinaryFunc[T]) T {
	lanes := make([]T, width)
	for l := range lanes {
		lanes[l] = init
	}
	parallel.Vectorize(width, n, func(off, w int) {
		idx := base + off*stride
		for l := 0; l < w; l++ {
			lanes[l] = step(lanes[l], src[idx])
			idx += stride
		}
	})
	acc := init
	for _, v := range lanes {
		acc = merge(acc, v)
	}
	return acc
}

func maxOf[T tensor.Float](x, y T) T {
	if y > x {
		return y
	}
	return x
}

// reducer reduces n strided elements of src to one value.
type reducer[T tensor.Float] func(src []T, base, stride, n, width int) T

func sumReducer[T tensor.Float](src []T, base, stride, n, width int) T {
	return laneFold(src, base, stride, n, width, 0, add[T], add[T])
}

func maxReducer[T tensor.Float](src []T, base, stride, n, width int) T {
	return laneFold(src, base, stride, n, width, tensor.Lowest[T](), maxOf[T], maxOf[T])
}

func meanReducer[T tensor.Float](src []T, base, stride, n, width int) T {
	return sumReducer(src, base, stride, n, width) / T(n)
}

// stdReducer is the population standard deviation, computed in two passes:
// the mean, then the mean of squared deviations. Both passes work on values
// shifted by the first element, so a constant run yields exactly 0.
func stdReducer[T tensor.Float](src []T, base, stride, n, width int) T {
	if n == 0 {
		return T(math.NaN())
	}
	pivot := src[base]
	shiftedSum := laneFold(src, base, stride, n, width, 0, func(acc, x T) T { return acc + (x - pivot) }, add[T])
	mean := shiftedSum / T(n)
	sq := laneFold(src, base, stride, n, width, 0, func(acc, x T) T {
		d := (x - pivot) - mean
		return acc + d*d
	}, add[T])
	return T(math.Sqrt(float64(sq / T(n))))
}

// reduceAll reduces the whole of in into out, which must hold one element.
// The reduction is sequential.
func (b *Backend[T]) reduceAll(op string, out, in *tensor.Tensor[T], r reducer[T]) error {
	if err := expectInputs(op, in); err != nil {
		return err
	}
	if out == nil || out.NumElements() != 1 {
		return tensor.ShapeErrorf("%s: output must hold a single element", op)
	}
	src := in.Data()
	return run(op, func() {
		out.Data()[0] = r(src, 0, 1, len(src), b.width())
	})
}

// Sum stores the sum of all elements of in into out (shape (1)).
func (b *Backend[T]) Sum(out, in *tensor.Tensor[T]) error {
	return b.reduceAll("sum", out, in, sumReducer[T])
}

// Max stores the largest element of in into out (shape (1)).
// An empty tensor yields the most negative finite value.
func (b *Backend[T]) Max(out, in *tensor.Tensor[T]) error {
	return b.reduceAll("max", out, in, maxReducer[T])
}

// Mean stores the arithmetic mean of in into out (shape (1)).
func (b *Backend[T]) Mean(out, in *tensor.Tensor[T]) error {
	return b.reduceAll("mean", out, in, meanReducer[T])
}

// Std stores the population standard deviation of in into out (shape (1)).
func (b *Backend[T]) Std(out, in *tensor.Tensor[T]) error {
	return b.reduceAll("std", out, in, stdReducer[T])
}

// ReduceShape returns the shape of reducing shape along axis.
// A negative axis counts from the end.
func ReduceShape(shape tensor.Shape, axis int, keepDims bool) (tensor.Shape, int, error) {
	axis, err := tensor.NormalizeAxis(axis, len(shape))
	if err != nil {
		return nil, 0, err
	}
	if keepDims {
		out := shape.Clone()
		out[axis] = 1
		return out, axis, nil
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	out = append(out, shape[:axis]...)
	out = append(out, shape[axis+1:]...)
	return out, axis, nil
}

// reduceAxis reduces in along axis into out.
//
// The loop over every index combination excluding axis is parallelized; each
// output element is reduced by walking along axis with that axis' stride.
// Only the innermost axis has stride 1, so reducing any other axis walks
// memory with a stride and runs with a vector width of 1.
func (b *Backend[T]) reduceAxis(op string, out, in *tensor.Tensor[T], axis int, keepDims bool, r reducer[T]) error {
	if err := expectInputs(op, in); err != nil {
		return err
	}
	shape := in.Shape()
	outShape, axis, err := ReduceShape(shape, axis, keepDims)
	if err != nil {
		return err
	}
	if err := expectShape(op, "output", out, outShape); err != nil {
		return err
	}

	axisLen := shape[axis]
	inner := 1
	for _, d := range shape[axis+1:] {
		inner *= d
	}
	width := b.width()
	if inner != 1 {
		width = 1
		klog.V(2).Infof("%s: axis %d of %s has stride %d, reducing with width 1", op, axis, shape, inner)
	}

	src, dst := in.Data(), out.Data()
	return run(op, func() {
		b.pool.Parallelize(len(dst), 0, func(start, end int) {
			for p := start; p < end; p++ {
				o, i := p/inner, p%inner
				base := o*axisLen*inner + i
				dst[p] = r(src, base, inner, axisLen, width)
			}
		})
	})
}

// SumAxis sums in along axis.
func (b *Backend[T]) SumAxis(out, in *tensor.Tensor[T], axis int, keepDims bool) error {
	return b.reduceAxis("sum axis", out, in, axis, keepDims, sumReducer[T])
}

// MaxAxis takes the maximum of in along axis.
func (b *Backend[T]) MaxAxis(out, in *tensor.Tensor[T], axis int, keepDims bool) error {
	return b.reduceAxis("max axis", out, in, axis, keepDims, maxReducer[T])
}

// MeanAxis averages in along axis.
func (b *Backend[T]) MeanAxis(out, in *tensor.Tensor[T], axis int, keepDims bool) error {
	return b.reduceAxis("mean axis", out, in, axis, keepDims, meanReducer[T])
}

// StdAxis computes the population standard deviation of in along axis.
func (b *Backend[T]) StdAxis(out, in *tensor.Tensor[T], axis int, keepDims bool) error {
	return b.reduceAxis("std axis", out, in, axis, keepDims, stdReducer[T])
}
