package ops

import (
	"math"

	"github.com/born-ml/tensorgrad/internal/attrs"
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// newSigmoid builds SIGMOID: σ(x) = 1 / (1 + exp(-x)).
//
// For the backward pass:
// dσ/dx = σ(x) * (1 - σ(x))
func newSigmoid[T tensor.Float](attributes attrs.Vector, backend *cpu.Backend[T]) (Operator[T], error) {
	if err := attributes.Only(); err != nil {
		return nil, err
	}
	return &elementwiseOp[T]{
		base: newBase(Sigmoid, attributes, backend),
		f:    sigmoid[T],
		df: func(x T) T {
			s := sigmoid(x)
			return s * (1 - s)
		},
	}, nil
}

// sigmoid evaluates the branch that keeps exp from overflowing.
func sigmoid[T tensor.Float](x T) T {
	v := float64(x)
	if v >= 0 {
		return T(1 / (1 + math.Exp(-v)))
	}
	e := math.Exp(v)
	return T(e / (1 + e))
}
