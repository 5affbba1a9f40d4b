package cpu

import (
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// SqueezeShape removes the size-1 axes listed in dims from shape.
// With no dims every size-1 axis is removed. Negative dims count from the end
// of the input shape.
func SqueezeShape(shape tensor.Shape, dims []int) (tensor.Shape, error) {
	rank := len(shape)
	drop := make([]bool, rank)
	if len(dims) == 0 {
		for d, n := range shape {
			drop[d] = n == 1
		}
	}
	for _, d := range dims {
		axis, err := tensor.NormalizeAxis(d, rank)
		if err != nil {
			return nil, err
		}
		if drop[axis] {
			return nil, tensor.ShapeErrorf("squeeze: axis %d listed twice", axis)
		}
		if shape[axis] != 1 {
			return nil, tensor.ShapeErrorf("squeeze: axis %d of %s has size %d, not 1", axis, shape, shape[axis])
		}
		drop[axis] = true
	}

	out := make(tensor.Shape, 0, rank)
	for d, n := range shape {
		if !drop[d] {
			out = append(out, n)
		}
	}
	return out, nil
}

// UnsqueezeShape inserts size-1 axes at the positions listed in dims.
// Positions refer to the output shape; negative ones count from its end.
func UnsqueezeShape(shape tensor.Shape, dims []int) (tensor.Shape, error) {
	if len(dims) == 0 {
		return nil, tensor.AttributeErrorf("unsqueeze: no dims given")
	}
	outRank := len(shape) + len(dims)
	if outRank > tensor.MaxRank {
		return nil, tensor.ShapeErrorf("unsqueeze: rank %d exceeds maximum rank %d", outRank, tensor.MaxRank)
	}

	insert := make([]bool, outRank)
	for _, d := range dims {
		axis, err := tensor.NormalizeAxis(d, outRank)
		if err != nil {
			return nil, err
		}
		if insert[axis] {
			return nil, tensor.ShapeErrorf("unsqueeze: axis %d listed twice", axis)
		}
		insert[axis] = true
	}

	out := make(tensor.Shape, outRank)
	next := 0
	for d := range out {
		if insert[d] {
			out[d] = 1
			continue
		}
		out[d] = shape[next]
		next++
	}
	return out, nil
}

// Copy copies the buffer of in into out. Shapes may differ as long as the
// element counts match; row-major order is preserved, which is all squeeze
// and unsqueeze need.
func (b *Backend[T]) Copy(out, in *tensor.Tensor[T]) error {
	if out == nil || in == nil {
		return tensor.ShapeErrorf("copy: nil tensor")
	}
	if out.NumElements() != in.NumElements() {
		return tensor.ShapeErrorf("copy: %s and %s hold different element counts", in.Shape(), out.Shape())
	}
	src, dst := in.Data(), out.Data()
	return run("copy", func() {
		b.forChunks(len(dst), func(i, w int) {
			copy(dst[i:i+w], src[i:i+w])
		})
	})
}
