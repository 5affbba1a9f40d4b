package ops

import (
	"github.com/born-ml/tensorgrad/internal/attrs"
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// Clip attribute names.
const (
	AttrMin = "min"
	AttrMax = "max"
)

// newClip builds CLIP: output = min(max(x, min), max).
//
// Both bounds are optional and default to the lowest and highest finite
// values of T. The gradient passes through where min <= x <= max and is 0
// elsewhere.
func newClip[T tensor.Float](attributes attrs.Vector, backend *cpu.Backend[T]) (Operator[T], error) {
	if err := attributes.Only(AttrMin, AttrMax); err != nil {
		return nil, err
	}
	lo, err := attributes.FloatOr(AttrMin, float64(tensor.Lowest[T]()))
	if err != nil {
		return nil, err
	}
	hi, err := attributes.FloatOr(AttrMax, float64(tensor.Highest[T]()))
	if err != nil {
		return nil, err
	}
	if lo > hi {
		return nil, tensor.AttributeErrorf("%s: min %g is greater than max %g", Clip, lo, hi)
	}

	minV, maxV := T(lo), T(hi)
	return &elementwiseOp[T]{
		base: newBase(Clip, attributes, backend),
		f:    func(x T) T { return min(max(x, minV), maxV) },
		df: func(x T) T {
			if x >= minV && x <= maxV {
				return 1
			}
			return 0
		},
	}, nil
}
