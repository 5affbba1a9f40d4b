package ops

import (
	"github.com/born-ml/tensorgrad/internal/attrs"
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// SLICE attribute names.
const (
	AttrStarts = "starts"
	AttrEnds   = "ends"
	AttrAxes   = "axes"
	AttrSteps  = "steps"
)

// SliceOp extracts a strided sub-range.
//
// starts and ends are required and have the same arity. axes defaults to the
// leading len(starts) axes and steps to 1; every step must be positive.
// Negative starts and ends count from the end of their axis and are clamped.
//
// Backward scatters the upstream gradient into a zero tensor of the input
// shape.
type SliceOp[T tensor.Float] struct {
	base[T]
	starts, ends, axes, steps []int
}

func newSlice[T tensor.Float](attributes attrs.Vector, backend *cpu.Backend[T]) (Operator[T], error) {
	if err := attributes.Only(AttrStarts, AttrEnds, AttrAxes, AttrSteps); err != nil {
		return nil, err
	}
	starts, err := attributes.RequireInts(AttrStarts)
	if err != nil {
		return nil, err
	}
	ends, err := attributes.RequireInts(AttrEnds)
	if err != nil {
		return nil, err
	}
	if len(starts) != len(ends) {
		return nil, tensor.AttributeErrorf("%s: %d starts but %d ends", Slice, len(starts), len(ends))
	}
	axes, err := attributes.IntsOr(AttrAxes, nil)
	if err != nil {
		return nil, err
	}
	if axes != nil && len(axes) != len(starts) {
		return nil, tensor.AttributeErrorf("%s: %d axes for %d starts", Slice, len(axes), len(starts))
	}
	steps, err := attributes.IntsOr(AttrSteps, nil)
	if err != nil {
		return nil, err
	}
	if steps != nil && len(steps) != len(starts) {
		return nil, tensor.AttributeErrorf("%s: %d steps for %d starts", Slice, len(steps), len(starts))
	}
	for _, s := range steps {
		if s <= 0 {
			return nil, tensor.AttributeErrorf("%s: step %d must be positive", Slice, s)
		}
	}

	return &SliceOp[T]{
		base:   newBase(Slice, attributes, backend),
		starts: starts,
		ends:   ends,
		axes:   axes,
		steps:  steps,
	}, nil
}

func (op *SliceOp[T]) plan(shape tensor.Shape) (*cpu.SlicePlan, error) {
	return cpu.NewSlicePlan(shape, op.starts, op.ends, op.axes, op.steps)
}

// ResultShape returns the shape of the selected region.
func (op *SliceOp[T]) ResultShape(inputs ...tensor.Shape) (tensor.Shape, error) {
	if err := checkArity(op.kind, len(inputs)); err != nil {
		return nil, err
	}
	plan, err := op.plan(inputs[0])
	if err != nil {
		return nil, err
	}
	return plan.Out, nil
}

// Forward gathers the selected elements into out.
func (op *SliceOp[T]) Forward(out *tensor.Tensor[T], inputs ...*tensor.Tensor[T]) error {
	if _, err := resolve[T](op, "output", out, inputs); err != nil {
		return err
	}
	plan, err := op.plan(inputs[0].Shape())
	if err != nil {
		return err
	}
	return op.backend.Slice(out, inputs[0], plan)
}

// Backward scatters upstream into a zero gradient of the input shape.
func (op *SliceOp[T]) Backward(upstream *tensor.Tensor[T], inputs ...*tensor.Tensor[T]) ([]*tensor.Tensor[T], error) {
	if _, err := resolve[T](op, "upstream", upstream, inputs); err != nil {
		return nil, err
	}
	plan, err := op.plan(inputs[0].Shape())
	if err != nil {
		return nil, err
	}
	grad, err := op.backend.Alloc(plan.In)
	if err != nil {
		return nil, err
	}
	if err := op.backend.SliceBackward(grad, upstream, plan); err != nil {
		return nil, err
	}
	return []*tensor.Tensor[T]{grad}, nil
}
