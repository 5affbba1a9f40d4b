package cpu

import (
	"github.com/born-ml/tensorgrad/internal/parallel"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// SlicePlan is a validated, fully resolved slice of a tensor: one start and
// step per input axis, plus the resulting shape.
type SlicePlan struct {
	In     tensor.Shape
	Out    tensor.Shape
	Starts []int
	Steps  []int
}

// NewSlicePlan resolves starts/ends (and optional axes and steps) against
// shape.
//
// Negative starts and ends count from the end of their axis; both are then
// clamped to [0, dim]. axes defaults to 0..len(starts)-1 and steps to 1.
// Axes not named keep their full extent.
func NewSlicePlan(shape tensor.Shape, starts, ends, axes, steps []int) (*SlicePlan, error) {
	rank := len(shape)
	if len(starts) != len(ends) {
		return nil, tensor.AttributeErrorf("slice: %d starts but %d ends", len(starts), len(ends))
	}
	if axes != nil && len(axes) != len(starts) {
		return nil, tensor.AttributeErrorf("slice: %d axes for %d starts", len(axes), len(starts))
	}
	if steps != nil && len(steps) != len(starts) {
		return nil, tensor.AttributeErrorf("slice: %d steps for %d starts", len(steps), len(starts))
	}
	if len(starts) > rank {
		return nil, tensor.ShapeErrorf("slice: %d sliced axes exceed rank %d", len(starts), rank)
	}

	plan := &SlicePlan{
		In:     shape.Clone(),
		Out:    shape.Clone(),
		Starts: make([]int, rank),
		Steps:  make([]int, rank),
	}
	for d := range plan.Steps {
		plan.Steps[d] = 1
	}

	seen := make([]bool, rank)
	for i := range starts {
		axis := i
		if axes != nil {
			var err error
			if axis, err = tensor.NormalizeAxis(axes[i], rank); err != nil {
				return nil, err
			}
		}
		if seen[axis] {
			return nil, tensor.ShapeErrorf("slice: axis %d sliced twice", axis)
		}
		seen[axis] = true

		step := 1
		if steps != nil {
			step = steps[i]
		}
		if step <= 0 {
			return nil, tensor.AttributeErrorf("slice: step %d on axis %d must be positive", step, axis)
		}

		dim := shape[axis]
		start, end := clampSliceBound(starts[i], dim), clampSliceBound(ends[i], dim)
		count := 0
		if end > start {
			count = (end - start + step - 1) / step
		}
		plan.Starts[axis] = start
		plan.Steps[axis] = step
		plan.Out[axis] = count
	}
	return plan, nil
}

func clampSliceBound(v, dim int) int {
	if v < 0 {
		v += dim
	}
	return min(max(v, 0), dim)
}

// run describes the innermost part of the walk: the axes from split on are
// read as one run of n elements with input stride stride.
//
// The run starts as the last axis. While every axis inside the run keeps its
// full extent with step 1, the axis in front of it is merged in too (when its
// own step is 1), since the elements are then contiguous in both tensors.
func (p *SlicePlan) run() (split, n, stride int) {
	rank := len(p.Out)
	if rank == 0 {
		return 0, 1, 1
	}
	split = rank - 1
	if p.Steps[split] != 1 {
		return split, p.Out[split], p.Steps[split]
	}
	for split > 0 && p.fullAxis(split) && p.Steps[split-1] == 1 {
		split--
	}
	n = 1
	for _, d := range p.Out[split:] {
		n *= d
	}
	return split, n, 1
}

// fullAxis reports whether axis d is taken whole with step 1.
func (p *SlicePlan) fullAxis(d int) bool {
	return p.Starts[d] == 0 && p.Steps[d] == 1 && p.Out[d] == p.In[d]
}

// walk visits every run of the output and hands visit the output offset of
// the run, the input offset of its first element, the input stride inside the
// run and the run length.
//
// The leading axes, those in front of the run, are enumerated odometer-style
// from a flat run index, and the runs are spread over the pool. Distinct runs
// touch distinct input elements since every step is positive.
func (p *SlicePlan) walk(pool *parallel.Pool, visit func(outOff, inOff, inStride, n int)) {
	split, n, stride := p.run()
	total := p.Out.NumElements()
	if total == 0 {
		return
	}
	if len(p.Out) == 0 {
		visit(0, 0, 1, 1)
		return
	}

	inStrides := p.In.Strides()
	runBase := 0
	for d := split; d < len(p.Out); d++ {
		runBase += p.Starts[d] * inStrides[d]
	}
	inStride := stride * inStrides[len(p.Out)-1]
	inSize := p.In.NumElements()

	pool.Parallelize(total/n, 0, func(start, end int) {
		for r := start; r < end; r++ {
			inOff, rem := runBase, r
			for d := split - 1; d >= 0; d-- {
				k := rem % p.Out[d]
				rem /= p.Out[d]
				inOff += (p.Starts[d] + k*p.Steps[d]) * inStrides[d]
			}
			if last := inOff + (n-1)*inStride; inOff < 0 || last >= inSize {
				panic(tensor.BoundsErrorf("slice: run %d reads [%d, %d] outside %s", r, inOff, last, p.In))
			}
			visit(r*n, inOff, inStride, n)
		}
	})
}

// Slice gathers the elements selected by plan from in into out.
func (b *Backend[T]) Slice(out, in *tensor.Tensor[T], plan *SlicePlan) error {
	if err := expectShape("slice", "input", in, plan.In); err != nil {
		return err
	}
	if err := expectShape("slice", "output", out, plan.Out); err != nil {
		return err
	}
	if out.NumElements() == 0 {
		return nil
	}

	src, dst := in.Data(), out.Data()
	width := b.width()
	return run("slice", func() {
		plan.walk(b.pool, func(outOff, inOff, inStride, n int) {
			parallel.Vectorize(width, n, func(off, w int) {
				idx := inOff + off*inStride
				for j := outOff + off; j < outOff+off+w; j++ {
					dst[j] = src[idx]
					idx += inStride
				}
			})
		})
	})
}

// SliceBackward scatters upstream (shaped like the slice output) into gradIn
// (shaped like the slice input). Positions not selected by the slice are 0.
func (b *Backend[T]) SliceBackward(gradIn, upstream *tensor.Tensor[T], plan *SlicePlan) error {
	if err := expectShape("slice backward", "gradient", gradIn, plan.In); err != nil {
		return err
	}
	if err := expectShape("slice backward", "upstream", upstream, plan.Out); err != nil {
		return err
	}
	gradIn.Zero()
	if upstream.NumElements() == 0 {
		return nil
	}

	src, dst := upstream.Data(), gradIn.Data()
	width := b.width()
	return run("slice backward", func() {
		plan.walk(b.pool, func(outOff, inOff, inStride, n int) {
			parallel.Vectorize(width, n, func(off, w int) {
				idx := inOff + off*inStride
				for j := outOff + off; j < outOff+off+w; j++ {
					dst[idx] = src[j]
					idx += inStride
				}
			})
		})
	})
}
