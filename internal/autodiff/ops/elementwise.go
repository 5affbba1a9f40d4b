package ops

import (
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// elementwiseOp is a shape-preserving, single-operand operator defined by a
// lane function and its derivative.
//
// Backward recomputes from the input: grad_input = upstream * df(x).
type elementwiseOp[T tensor.Float] struct {
	base[T]
	f  cpu.UnaryFunc[T]
	df cpu.UnaryFunc[T]
}

// ResultShape returns the input shape.
func (op *elementwiseOp[T]) ResultShape(inputs ...tensor.Shape) (tensor.Shape, error) {
	return unaryShape(op.kind, inputs)
}

// Forward computes out = f(x).
func (op *elementwiseOp[T]) Forward(out *tensor.Tensor[T], inputs ...*tensor.Tensor[T]) error {
	if _, err := resolve[T](op, "output", out, inputs); err != nil {
		return err
	}
	return op.backend.Unary(out, inputs[0], op.f)
}

// Backward computes upstream * df(x).
func (op *elementwiseOp[T]) Backward(upstream *tensor.Tensor[T], inputs ...*tensor.Tensor[T]) ([]*tensor.Tensor[T], error) {
	shape, err := resolve[T](op, "upstream", upstream, inputs)
	if err != nil {
		return nil, err
	}
	grad, err := op.backend.Alloc(shape)
	if err != nil {
		return nil, err
	}
	df := op.df
	err = op.backend.Binary(grad, upstream, inputs[0], func(g, x T) T { return g * df(x) })
	if err != nil {
		return nil, err
	}
	return []*tensor.Tensor[T]{grad}, nil
}
