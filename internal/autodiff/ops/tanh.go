package ops

import (
	"math"

	"github.com/born-ml/tensorgrad/internal/attrs"
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// newTanh builds TANH.
//
// For y = tanh(x):
// dy/dx = 1 - tanh²(x)
func newTanh[T tensor.Float](attributes attrs.Vector, backend *cpu.Backend[T]) (Operator[T], error) {
	if err := attributes.Only(); err != nil {
		return nil, err
	}
	return &elementwiseOp[T]{
		base: newBase(Tanh, attributes, backend),
		f:    func(x T) T { return T(math.Tanh(float64(x))) },
		df: func(x T) T {
			y := T(math.Tanh(float64(x)))
			return 1 - y*y
		},
	}, nil
}
