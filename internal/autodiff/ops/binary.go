package ops

import (
	"github.com/born-ml/tensorgrad/internal/attrs"
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// partial computes the gradient of a binary op with respect to one operand,
// at the broadcast output shape.
type partial[T tensor.Float] func(be *cpu.Backend[T], upstream, a, b *tensor.Tensor[T]) (*tensor.Tensor[T], error)

// binaryRule is the forward lane function and per-operand partials of a
// broadcasting binary operator.
type binaryRule[T tensor.Float] struct {
	f      cpu.BinaryFunc[T]
	dA, dB partial[T]
}

// BinaryOp is a broadcasting two-operand operator (ADD, SUB, MUL, DIV).
//
// Backward computes each partial at the output shape and then reduces it to
// the operand's shape by summing over the broadcast axes:
//
//	Forward:  a[3,1] + b[3,4] -> c[3,4]  (a was broadcast along dim 1)
//	Backward: grad_c[3,4] -> grad_a[3,1] (sum along dim 1)
type BinaryOp[T tensor.Float] struct {
	base[T]
	rule binaryRule[T]
}

func newBinary[T tensor.Float](kind Kind) Builder[T] {
	return func(attributes attrs.Vector, backend *cpu.Backend[T]) (Operator[T], error) {
		if err := attributes.Only(); err != nil {
			return nil, err
		}
		var rule binaryRule[T]
		switch kind {
		case Add:
			rule = addRule[T]()
		case Sub:
			rule = subRule[T]()
		case Mul:
			rule = mulRule[T]()
		case Div:
			rule = divRule[T]()
		default:
			return nil, tensor.AttributeErrorf("%s is not a binary operator", kind)
		}
		return &BinaryOp[T]{base: newBase(kind, attributes, backend), rule: rule}, nil
	}
}

// ResultShape broadcasts the two operand shapes.
func (op *BinaryOp[T]) ResultShape(inputs ...tensor.Shape) (tensor.Shape, error) {
	if err := checkArity(op.kind, len(inputs)); err != nil {
		return nil, err
	}
	return tensor.BroadcastShapes(inputs[0], inputs[1])
}

// Forward computes out = f(a, b) with broadcasting.
func (op *BinaryOp[T]) Forward(out *tensor.Tensor[T], inputs ...*tensor.Tensor[T]) error {
	if _, err := resolve[T](op, "output", out, inputs); err != nil {
		return err
	}
	return op.backend.Binary(out, inputs[0], inputs[1], op.rule.f)
}

// Backward returns the gradients of both operands, each in its own shape.
func (op *BinaryOp[T]) Backward(upstream *tensor.Tensor[T], inputs ...*tensor.Tensor[T]) ([]*tensor.Tensor[T], error) {
	if _, err := resolve[T](op, "upstream", upstream, inputs); err != nil {
		return nil, err
	}
	a, b := inputs[0], inputs[1]
	grads := make([]*tensor.Tensor[T], 2)
	for i, d := range []partial[T]{op.rule.dA, op.rule.dB} {
		full, err := d(op.backend, upstream, a, b)
		if err != nil {
			return nil, err
		}
		if grads[i], err = op.backend.Unbroadcast(full, inputs[i].Shape()); err != nil {
			return nil, err
		}
	}
	return grads, nil
}

// passThrough is the partial of an operand the output depends on linearly
// with coefficient 1.
func passThrough[T tensor.Float](_ *cpu.Backend[T], upstream, _, _ *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return upstream, nil
}

// combine computes f(upstream, other) at upstream's shape.
func combine[T tensor.Float](be *cpu.Backend[T], upstream, other *tensor.Tensor[T], f cpu.BinaryFunc[T]) (*tensor.Tensor[T], error) {
	out, err := be.Alloc(upstream.Shape())
	if err != nil {
		return nil, err
	}
	if err := be.Binary(out, upstream, other, f); err != nil {
		return nil, err
	}
	return out, nil
}
