// Package ops defines the differentiable operator contract and its
// implementations.
//
// Each operator implements the Operator interface, which provides:
//   - ResultShape: the build-time shape gate (attribute and shape errors)
//   - Forward: computed by the CPU backend into a caller-provided output
//   - Backward: computes gradients for inputs given the output gradient
//
// Supported operators:
//   - SIGMOID: σ(x) = 1 / (1 + e^-x) (dσ/dx = σ(x) * (1 - σ(x)))
//   - RELU: max(0, x) (d/dx = 1 if x > 0, else 0)
//   - TANH: tanh(x) (d/dx = 1 - tanh²(x))
//   - CLIP: clamp to [min, max] (d/dx = 1 inside the range, else 0)
//   - SQUEEZE / UNSQUEEZE: drop or insert size-1 axes (gradient copied back)
//   - SLICE: strided sub-range (gradient scattered into zeros)
//   - TRANSPOSE: axis permutation (gradient uses the inverse permutation)
//   - ADD, SUB, MUL, DIV: broadcasting binary ops (gradients un-broadcast)
//   - EXP: e^x (d/dx = e^x)
//   - REDUCE_SUM, REDUCE_MEAN: over the whole tensor or one axis
package ops

import (
	"github.com/born-ml/tensorgrad/internal/attrs"
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// Operator is a differentiable node computation.
//
// An Operator is immutable after construction and holds no tensors, so the
// same value may be used by several graph nodes.
type Operator[T tensor.Float] interface {
	// Kind identifies the operator.
	Kind() Kind

	// Attributes returns the static parameters the operator was built with.
	Attributes() attrs.Vector

	// ResultShape computes the output shape from the input shapes, or fails
	// with a ShapeError.
	ResultShape(inputs ...tensor.Shape) (tensor.Shape, error)

	// Forward writes the result into out, which must have the result shape.
	Forward(out *tensor.Tensor[T], inputs ...*tensor.Tensor[T]) error

	// Backward computes one gradient per input given the gradient of the
	// output. Each returned gradient has its input's shape.
	//
	// Example for ADD:
	//   inputs: [a, b]
	//   upstream: dL/d(a+b)
	//   returns: [dL/d(a+b), dL/d(a+b)], each un-broadcast to its input
	Backward(upstream *tensor.Tensor[T], inputs ...*tensor.Tensor[T]) ([]*tensor.Tensor[T], error)
}

// base carries what every operator shares.
type base[T tensor.Float] struct {
	kind       Kind
	attributes attrs.Vector
	backend    *cpu.Backend[T]
}

// Kind returns the operator kind.
func (o *base[T]) Kind() Kind {
	return o.kind
}

// Attributes returns the operator attributes.
func (o *base[T]) Attributes() attrs.Vector {
	return o.attributes
}

func newBase[T tensor.Float](kind Kind, attributes attrs.Vector, backend *cpu.Backend[T]) base[T] {
	return base[T]{kind: kind, attributes: attributes, backend: backend}
}
