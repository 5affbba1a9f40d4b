package ops

import (
	"github.com/born-ml/tensorgrad/internal/attrs"
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// Reduction attribute names.
const (
	AttrAxis     = "axis"
	AttrKeepDims = "keepdims"
)

// ReduceOp represents REDUCE_SUM or REDUCE_MEAN.
//
// Without an axis the whole tensor is reduced to Shape{1}. With one axis,
// keepdims (0 or 1) selects whether the reduced axis stays as size 1.
//
// Forward:
//
//	y = sum(x, axis) or sum(x, axis) / size[axis]
//
// Backward:
//
//	grad_x = broadcast(grad_y, x.shape)            for REDUCE_SUM
//	grad_x = broadcast(grad_y, x.shape) / size[axis] for REDUCE_MEAN
type ReduceOp[T tensor.Float] struct {
	base[T]
	axis     int
	hasAxis  bool
	keepDims bool
}

func newReduce[T tensor.Float](kind Kind) Builder[T] {
	return func(attributes attrs.Vector, backend *cpu.Backend[T]) (Operator[T], error) {
		if err := attributes.Only(AttrAxis, AttrKeepDims); err != nil {
			return nil, err
		}
		op := &ReduceOp[T]{base: newBase(kind, attributes, backend)}

		axes, ok, err := attributes.Ints(AttrAxis)
		if err != nil {
			return nil, err
		}
		if ok {
			if len(axes) != 1 {
				return nil, tensor.AttributeErrorf("%s: %q must hold exactly one axis, got %v", kind, AttrAxis, axes)
			}
			op.axis, op.hasAxis = axes[0], true
		}

		keep, err := attributes.FloatOr(AttrKeepDims, 0)
		if err != nil {
			return nil, err
		}
		switch keep {
		case 0:
		case 1:
			op.keepDims = true
		default:
			return nil, tensor.AttributeErrorf("%s: %q must be 0 or 1, got %g", kind, AttrKeepDims, keep)
		}
		return op, nil
	}
}

// ResultShape returns Shape{1} for a whole-tensor reduction, otherwise the
// input shape with the axis removed (or kept as size 1).
func (op *ReduceOp[T]) ResultShape(inputs ...tensor.Shape) (tensor.Shape, error) {
	if err := checkArity(op.kind, len(inputs)); err != nil {
		return nil, err
	}
	if !op.hasAxis {
		return tensor.Scalar(), nil
	}
	shape, _, err := cpu.ReduceShape(inputs[0], op.axis, op.keepDims)
	return shape, err
}

// Forward reduces the input into out.
func (op *ReduceOp[T]) Forward(out *tensor.Tensor[T], inputs ...*tensor.Tensor[T]) error {
	if _, err := resolve[T](op, "output", out, inputs); err != nil {
		return err
	}
	in := inputs[0]
	switch {
	case !op.hasAxis && op.kind == ReduceSum:
		return op.backend.Sum(out, in)
	case !op.hasAxis:
		return op.backend.Mean(out, in)
	case op.kind == ReduceSum:
		return op.backend.SumAxis(out, in, op.axis, op.keepDims)
	default:
		return op.backend.MeanAxis(out, in, op.axis, op.keepDims)
	}
}

// Backward broadcasts upstream back over the reduced elements, dividing by
// their count for REDUCE_MEAN.
func (op *ReduceOp[T]) Backward(upstream *tensor.Tensor[T], inputs ...*tensor.Tensor[T]) ([]*tensor.Tensor[T], error) {
	if _, err := resolve[T](op, "upstream", upstream, inputs); err != nil {
		return nil, err
	}
	inShape := inputs[0].Shape()
	grad, err := op.backend.Alloc(inShape)
	if err != nil {
		return nil, err
	}

	src, count := upstream, inShape.NumElements()
	if op.hasAxis {
		keepShape, axis, err := cpu.ReduceShape(inShape, op.axis, true)
		if err != nil {
			return nil, err
		}
		if src, err = upstream.WithShape(keepShape); err != nil {
			return nil, err
		}
		count = inShape[axis]
	}
	if err := op.backend.BroadcastTo(grad, src); err != nil {
		return nil, err
	}
	if op.kind == ReduceMean && count > 0 {
		if err := op.backend.Scale(grad, grad, 1/T(count)); err != nil {
			return nil, err
		}
	}
	return []*tensor.Tensor[T]{grad}, nil
}
