package ops

import (
	"github.com/born-ml/tensorgrad/internal/attrs"
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// newReLU builds RELU: output = max(0, x).
//
// Backward pass:
//   - d(ReLU(x))/dx = 1 if x > 0, else 0 (including x == 0)
func newReLU[T tensor.Float](attributes attrs.Vector, backend *cpu.Backend[T]) (Operator[T], error) {
	if err := attributes.Only(); err != nil {
		return nil, err
	}
	return &elementwiseOp[T]{
		base: newBase(ReLU, attributes, backend),
		f: func(x T) T {
			if x > 0 {
				return x
			}
			return 0
		},
		df: func(x T) T {
			if x > 0 {
				return 1
			}
			return 0
		},
	}, nil
}
