package cpu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tensorgrad/internal/tensor"
)

func TestNewSlicePlan(t *testing.T) {
	shape := tensor.Shape{3, 4, 5}

	plan, err := NewSlicePlan(shape, []int{1}, []int{3}, []int{0}, nil)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 4, 5}, plan.Out)

	plan, err = NewSlicePlan(shape, []int{-3, 0}, []int{math.MaxInt, -1}, []int{2, 1}, []int{2, 1})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 3, 2}, plan.Out)
	assert.Equal(t, []int{0, 0, 2}, plan.Starts)
	assert.Equal(t, []int{1, 1, 2}, plan.Steps)

	plan, err = NewSlicePlan(shape, []int{3}, []int{1}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{0, 4, 5}, plan.Out)
}

func TestNewSlicePlan_Errors(t *testing.T) {
	shape := tensor.Shape{3, 4}

	_, err := NewSlicePlan(shape, []int{0, 0}, []int{1}, nil, nil)
	assert.ErrorIs(t, err, tensor.ErrAttribute)

	_, err = NewSlicePlan(shape, []int{0}, []int{1}, []int{0}, []int{0})
	assert.ErrorIs(t, err, tensor.ErrAttribute)

	_, err = NewSlicePlan(shape, []int{0}, []int{1}, []int{0, 1}, nil)
	assert.ErrorIs(t, err, tensor.ErrAttribute)

	_, err = NewSlicePlan(shape, []int{0, 0}, []int{1, 1}, []int{1, -1}, nil)
	assert.ErrorIs(t, err, tensor.ErrShape)

	_, err = NewSlicePlan(shape, []int{0}, []int{1}, []int{2}, nil)
	assert.ErrorIs(t, err, tensor.ErrShape)

	_, err = NewSlicePlan(shape, []int{0, 0, 0}, []int{1, 1, 1}, nil, nil)
	assert.ErrorIs(t, err, tensor.ErrShape)
}

func TestSlice_LeadingAxis(t *testing.T) {
	b := fanOut()
	x := tensor.Arange[float32](tensor.Shape{3, 4, 5})
	plan, err := NewSlicePlan(x.Shape(), []int{1}, []int{3}, []int{0}, nil)
	require.NoError(t, err)

	out := tensor.Zeros[float32](plan.Out)
	require.NoError(t, b.Slice(out, x, plan))
	assert.Equal(t, x.Data()[20:60], out.Data())
}

func TestSlice_StridedInnerAxes(t *testing.T) {
	b := fanOut()
	x := tensor.Arange[float32](tensor.Shape{3, 4, 5})
	plan, err := NewSlicePlan(x.Shape(), []int{1, 0}, []int{4, 5}, []int{1, 2}, []int{2, 3})
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{3, 2, 2}, plan.Out)

	out := tensor.Zeros[float32](plan.Out)
	require.NoError(t, b.Slice(out, x, plan))
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				require.Equal(t, x.At(i, 1+2*j, 3*k), out.At(i, j, k))
			}
		}
	}
}

func TestSliceBackward_ScattersIntoZeros(t *testing.T) {
	b := fanOut()
	shape := tensor.Shape{3, 4, 5}
	plan, err := NewSlicePlan(shape, []int{1}, []int{3}, []int{0}, nil)
	require.NoError(t, err)

	grad := tensor.Full[float32](shape, 9)
	require.NoError(t, b.SliceBackward(grad, tensor.Ones[float32](plan.Out), plan))
	for i, v := range grad.Data() {
		if i < 20 {
			require.Zero(t, v, "row 0 at %d", i)
		} else {
			require.Equal(t, float32(1), v, "rows 1-2 at %d", i)
		}
	}
}

func TestSlice_GatherScatterAgree(t *testing.T) {
	b := fanOut()
	x := tensor.Arange[float32](tensor.Shape{4, 6})
	plan, err := NewSlicePlan(x.Shape(), []int{-3, 1}, []int{4, 6}, nil, []int{1, 2})
	require.NoError(t, err)

	out := tensor.Zeros[float32](plan.Out)
	require.NoError(t, b.Slice(out, x, plan))
	back := tensor.Zeros[float32](x.Shape())
	require.NoError(t, b.SliceBackward(back, out, plan))

	for r := 0; r < 4; r++ {
		for c := 0; c < 6; c++ {
			want := float32(0)
			if r >= 1 && c%2 == 1 {
				want = x.At(r, c)
			}
			assert.Equal(t, want, back.At(r, c), "(%d, %d)", r, c)
		}
	}
}

func TestSlice_Empty(t *testing.T) {
	b := sequential()
	x := tensor.Arange[float32](tensor.Shape{3, 4})
	plan, err := NewSlicePlan(x.Shape(), []int{2}, []int{2}, nil, nil)
	require.NoError(t, err)
	out := tensor.Zeros[float32](plan.Out)
	require.NoError(t, b.Slice(out, x, plan))
	assert.Zero(t, out.NumElements())
}

func TestSlicePlan_RunMergesFullTrailingAxes(t *testing.T) {
	shape := tensor.Shape{3, 4, 5}
	tests := []struct {
		name                     string
		starts, ends, axes, steps []int
		split, n, stride         int
	}{
		{"leading axis", []int{1}, []int{3}, []int{0}, nil, 0, 40, 1},
		{"strided leading axis", []int{0}, []int{3}, []int{0}, []int{2}, 1, 20, 1},
		{"middle axis", []int{1}, []int{3}, []int{1}, nil, 1, 10, 1},
		{"partial last axis", []int{1}, []int{4}, []int{2}, nil, 2, 3, 1},
		{"strided last axis", []int{0}, []int{5}, []int{2}, []int{2}, 2, 3, 2},
		{"whole tensor", []int{0}, []int{3}, []int{0}, nil, 0, 60, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := NewSlicePlan(shape, tt.starts, tt.ends, tt.axes, tt.steps)
			require.NoError(t, err)
			split, n, stride := plan.run()
			assert.Equal(t, tt.split, split, "split")
			assert.Equal(t, tt.n, n, "run length")
			assert.Equal(t, tt.stride, stride, "stride")
		})
	}
}

// naiveSlice gathers out[c] = in[starts + c*steps] coordinate by coordinate.
func naiveSlice(x *tensor.Tensor[float32], plan *SlicePlan) []float32 {
	inStrides := x.Shape().Strides()
	out := make([]float32, plan.Out.NumElements())
	for flat := range out {
		off, rem := 0, flat
		for d := len(plan.Out) - 1; d >= 0; d-- {
			k := rem % plan.Out[d]
			rem /= plan.Out[d]
			off += (plan.Starts[d] + k*plan.Steps[d]) * inStrides[d]
		}
		out[flat] = x.Data()[off]
	}
	return out
}

func TestSlice_MatchesNaiveGather(t *testing.T) {
	shape := tensor.Shape{3, 4, 5}
	x := tensor.Arange[float32](shape)
	cases := []struct {
		starts, ends, axes, steps []int
	}{
		{[]int{1}, []int{3}, []int{0}, nil},
		{[]int{0}, []int{3}, []int{0}, []int{2}},
		{[]int{1}, []int{3}, []int{1}, nil},
		{[]int{2, 1}, []int{4, 5}, []int{1, 2}, nil},
		{[]int{0, 1}, []int{3, 5}, []int{0, 2}, []int{2, 3}},
		{[]int{-2, -4, 0}, []int{3, 4, 5}, nil, []int{1, 3, 1}},
	}
	for _, b := range []*Backend[float32]{sequential(), fanOut()} {
		for _, c := range cases {
			plan, err := NewSlicePlan(shape, c.starts, c.ends, c.axes, c.steps)
			require.NoError(t, err)
			out := tensor.Zeros[float32](plan.Out)
			require.NoError(t, b.Slice(out, x, plan))
			assert.Equalf(t, naiveSlice(x, plan), out.Data(), "starts %v ends %v axes %v steps %v", c.starts, c.ends, c.axes, c.steps)
		}
	}
}
