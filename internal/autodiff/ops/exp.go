package ops

import (
	"math"

	"github.com/born-ml/tensorgrad/internal/attrs"
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// newExp builds EXP: output = e^x, with d(e^x)/dx = e^x.
func newExp[T tensor.Float](attributes attrs.Vector, backend *cpu.Backend[T]) (Operator[T], error) {
	if err := attributes.Only(); err != nil {
		return nil, err
	}
	exp := func(x T) T { return T(math.Exp(float64(x))) }
	return &elementwiseOp[T]{
		base: newBase(Exp, attributes, backend),
		f:    exp,
		df:   exp,
	}, nil
}
