package ops

import (
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// subRule is SUB: d(a-b)/da = 1, d(a-b)/db = -1.
func subRule[T tensor.Float]() binaryRule[T] {
	return binaryRule[T]{
		f:  func(x, y T) T { return x - y },
		dA: passThrough[T],
		dB: func(be *cpu.Backend[T], upstream, _, _ *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
			out, err := be.Alloc(upstream.Shape())
			if err != nil {
				return nil, err
			}
			if err := be.Neg(out, upstream); err != nil {
				return nil, err
			}
			return out, nil
		},
	}
}
