package ops

import (
	"github.com/born-ml/tensorgrad/internal/attrs"
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// AttrDims names the axes SQUEEZE removes or UNSQUEEZE inserts.
const AttrDims = "dims"

// reshapeOp changes only the shape; data is copied in row-major order.
//
// Forward:
//
//	output = copy(input) with the new shape
//
// Backward:
//
//	∂L/∂input = copy(∂L/∂output) with the input shape
type reshapeOp[T tensor.Float] struct {
	base[T]
	dims      []int
	shapeRule func(shape tensor.Shape, dims []int) (tensor.Shape, error)
}

// newSqueeze builds SQUEEZE. Without dims every size-1 axis is removed.
func newSqueeze[T tensor.Float](attributes attrs.Vector, backend *cpu.Backend[T]) (Operator[T], error) {
	if err := attributes.Only(AttrDims); err != nil {
		return nil, err
	}
	dims, err := attributes.IntsOr(AttrDims, nil)
	if err != nil {
		return nil, err
	}
	return &reshapeOp[T]{
		base:      newBase(Squeeze, attributes, backend),
		dims:      dims,
		shapeRule: cpu.SqueezeShape,
	}, nil
}

// newUnsqueeze builds UNSQUEEZE. dims is required and refers to positions in
// the output shape.
func newUnsqueeze[T tensor.Float](attributes attrs.Vector, backend *cpu.Backend[T]) (Operator[T], error) {
	if err := attributes.Only(AttrDims); err != nil {
		return nil, err
	}
	dims, err := attributes.RequireInts(AttrDims)
	if err != nil {
		return nil, err
	}
	if len(dims) == 0 {
		return nil, tensor.AttributeErrorf("%s: %q must not be empty", Unsqueeze, AttrDims)
	}
	return &reshapeOp[T]{
		base:      newBase(Unsqueeze, attributes, backend),
		dims:      dims,
		shapeRule: cpu.UnsqueezeShape,
	}, nil
}

// ResultShape applies the squeeze or unsqueeze rule to the input shape.
func (op *reshapeOp[T]) ResultShape(inputs ...tensor.Shape) (tensor.Shape, error) {
	if err := checkArity(op.kind, len(inputs)); err != nil {
		return nil, err
	}
	return op.shapeRule(inputs[0], op.dims)
}

// Forward copies the input buffer into out.
func (op *reshapeOp[T]) Forward(out *tensor.Tensor[T], inputs ...*tensor.Tensor[T]) error {
	if _, err := resolve[T](op, "output", out, inputs); err != nil {
		return err
	}
	return op.backend.Copy(out, inputs[0])
}

// Backward copies upstream back into the input shape.
func (op *reshapeOp[T]) Backward(upstream *tensor.Tensor[T], inputs ...*tensor.Tensor[T]) ([]*tensor.Tensor[T], error) {
	if _, err := resolve[T](op, "upstream", upstream, inputs); err != nil {
		return nil, err
	}
	grad, err := op.backend.Alloc(inputs[0].Shape())
	if err != nil {
		return nil, err
	}
	if err := op.backend.Copy(grad, upstream); err != nil {
		return nil, err
	}
	return []*tensor.Tensor[T]{grad}, nil
}
