package ops

import (
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// checkArity verifies the operand count for kind.
func checkArity(kind Kind, n int) error {
	if want := kind.NumInputs(); n != want {
		return tensor.ShapeErrorf("%s: expected %d operand(s), got %d", kind, want, n)
	}
	return nil
}

// shapesOf returns the shapes of inputs; a nil input is a shape error.
func shapesOf[T tensor.Float](kind Kind, inputs []*tensor.Tensor[T]) ([]tensor.Shape, error) {
	shapes := make([]tensor.Shape, len(inputs))
	for i, in := range inputs {
		if in == nil {
			return nil, tensor.ShapeErrorf("%s: operand %d is nil", kind, i)
		}
		shapes[i] = in.Shape()
	}
	return shapes, nil
}

// resolve re-derives the result shape of op for inputs and checks that t (the
// forward output or the upstream gradient) has it.
func resolve[T tensor.Float](op Operator[T], role string, t *tensor.Tensor[T], inputs []*tensor.Tensor[T]) (tensor.Shape, error) {
	shapes, err := shapesOf(op.Kind(), inputs)
	if err != nil {
		return nil, err
	}
	want, err := op.ResultShape(shapes...)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, tensor.ShapeErrorf("%s: %s is nil", op.Kind(), role)
	}
	if !t.Shape().Equal(want) {
		return nil, tensor.ShapeErrorf("%s: %s has shape %s, expected %s", op.Kind(), role, t.Shape(), want)
	}
	return want, nil
}

// unaryShape is ResultShape for shape-preserving single-operand operators.
func unaryShape(kind Kind, inputs []tensor.Shape) (tensor.Shape, error) {
	if err := checkArity(kind, len(inputs)); err != nil {
		return nil, err
	}
	return inputs[0].Clone(), nil
}
