package ops

import (
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// mulRule is MUL: d(a*b)/da = b, d(a*b)/db = a.
func mulRule[T tensor.Float]() binaryRule[T] {
	mul := func(g, x T) T { return g * x }
	return binaryRule[T]{
		f: func(x, y T) T { return x * y },
		dA: func(be *cpu.Backend[T], upstream, _, b *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
			return combine(be, upstream, b, mul)
		},
		dB: func(be *cpu.Backend[T], upstream, a, _ *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
			return combine(be, upstream, a, mul)
		},
	}
}
