package ops

import (
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// divRule is DIV: d(a/b)/da = 1/b, d(a/b)/db = -a/b².
func divRule[T tensor.Float]() binaryRule[T] {
	return binaryRule[T]{
		f: func(x, y T) T { return x / y },
		dA: func(be *cpu.Backend[T], upstream, _, b *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
			return combine(be, upstream, b, func(g, y T) T { return g / y })
		},
		dB: func(be *cpu.Backend[T], upstream, a, b *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
			ga, err := combine(be, upstream, a, func(g, x T) T { return g * x })
			if err != nil {
				return nil, err
			}
			return combine(be, ga, b, func(gx, y T) T { return -gx / (y * y) })
		},
	}
}
