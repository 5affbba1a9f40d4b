package ops

import (
	"github.com/born-ml/tensorgrad/internal/attrs"
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// AttrPerm is the TRANSPOSE permutation.
const AttrPerm = "perm"

// TransposeOp represents a transpose operation.
//
// Forward:
//
//	output = transpose(input, perm)
//
// Backward:
//
//	∂L/∂input = transpose(∂L/∂output, inverse_perm)
//
// Without perm the axes are reversed.
type TransposeOp[T tensor.Float] struct {
	base[T]
	perm []int
}

func newTranspose[T tensor.Float](attributes attrs.Vector, backend *cpu.Backend[T]) (Operator[T], error) {
	if err := attributes.Only(AttrPerm); err != nil {
		return nil, err
	}
	perm, err := attributes.IntsOr(AttrPerm, nil)
	if err != nil {
		return nil, err
	}
	return &TransposeOp[T]{
		base: newBase(Transpose, attributes, backend),
		perm: perm,
	}, nil
}

// ResultShape returns the permuted input shape.
func (op *TransposeOp[T]) ResultShape(inputs ...tensor.Shape) (tensor.Shape, error) {
	if err := checkArity(op.kind, len(inputs)); err != nil {
		return nil, err
	}
	shape, _, err := cpu.TransposeShape(inputs[0], op.perm)
	return shape, err
}

// Forward writes the permuted input into out.
func (op *TransposeOp[T]) Forward(out *tensor.Tensor[T], inputs ...*tensor.Tensor[T]) error {
	if _, err := resolve[T](op, "output", out, inputs); err != nil {
		return err
	}
	return op.backend.Transpose(out, inputs[0], op.perm)
}

// Backward transposes upstream with the inverse permutation.
func (op *TransposeOp[T]) Backward(upstream *tensor.Tensor[T], inputs ...*tensor.Tensor[T]) ([]*tensor.Tensor[T], error) {
	if _, err := resolve[T](op, "upstream", upstream, inputs); err != nil {
		return nil, err
	}
	_, perm, err := cpu.TransposeShape(inputs[0].Shape(), op.perm)
	if err != nil {
		return nil, err
	}
	grad, err := op.backend.Alloc(inputs[0].Shape())
	if err != nil {
		return nil, err
	}
	if err := op.backend.Transpose(grad, upstream, cpu.InversePermutation(perm)); err != nil {
		return nil, err
	}
	return []*tensor.Tensor[T]{grad}, nil
}
