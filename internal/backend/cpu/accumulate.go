package cpu

import (
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// Accumulate adds incoming into grad in place.
//
// grad has the operand's original shape; incoming has the shape produced by
// the backward math:
//   - equal layouts are added elementwise;
//   - a scalar incoming is added to every element;
//   - otherwise grad must broadcast into incoming, and incoming is summed over
//     the broadcast axes (the exact reverse of the forward broadcast).
//
// Example:
//
//	Forward:  a(3, 1) + b(3, 4) -> c(3, 4)
//	Backward: Accumulate(grad_a(3, 1), grad_c(3, 4)) sums along axis 1.
//
// The un-broadcast path writes many incoming elements into the same grad
// cell, so it runs sequentially. The caller must hold exclusive access to
// grad for the duration of the call.
func (b *Backend[T]) Accumulate(grad, incoming *tensor.Tensor[T]) error {
	if grad == nil || incoming == nil {
		return tensor.ShapeErrorf("accumulate: nil tensor")
	}
	gShape, iShape := grad.Shape(), incoming.Shape()
	g, src := grad.Data(), incoming.Data()

	switch {
	case sameLayout(gShape, iShape):
		return run("accumulate", func() {
			b.forChunks(len(g), func(i, w int) {
				for j := i; j < i+w; j++ {
					g[j] += src[j]
				}
			})
		})

	case iShape.IsScalar():
		s := src[0]
		return run("accumulate", func() {
			b.forChunks(len(g), func(i, w int) {
				for j := i; j < i+w; j++ {
					g[j] += s
				}
			})
		})

	case broadcastsInto(gShape, iShape):
		idx := newBroadcastIndexer(gShape, iShape)
		return run("accumulate", func() {
			for j, v := range src {
				g[idx.index(j)] += v
			}
		})

	default:
		return tensor.ShapeErrorf("accumulate: cannot reduce gradient of shape %s into %s", iShape, gShape)
	}
}

// Unbroadcast returns incoming reduced to target's shape as a new tensor.
func (b *Backend[T]) Unbroadcast(incoming *tensor.Tensor[T], target tensor.Shape) (*tensor.Tensor[T], error) {
	grad, err := tensor.New[T](target)
	if err != nil {
		return nil, err
	}
	if err := b.Accumulate(grad, incoming); err != nil {
		return nil, err
	}
	return grad, nil
}

// sameLayout reports whether two shapes address the same flat buffer layout:
// equal, or equal after dropping leading axes of size 1.
func sameLayout(a, b tensor.Shape) bool {
	if a.Equal(b) {
		return true
	}
	return a.NumElements() == b.NumElements() && trimLeadingOnes(a).Equal(trimLeadingOnes(b))
}

func trimLeadingOnes(s tensor.Shape) tensor.Shape {
	i := 0
	for i < len(s) && s[i] == 1 {
		i++
	}
	return s[i:]
}
