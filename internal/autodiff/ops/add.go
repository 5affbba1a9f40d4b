package ops

import (
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// addRule is ADD: d(a+b)/da = 1, d(a+b)/db = 1.
func addRule[T tensor.Float]() binaryRule[T] {
	return binaryRule[T]{
		f:  func(x, y T) T { return x + y },
		dA: passThrough[T],
		dB: passThrough[T],
	}
}
