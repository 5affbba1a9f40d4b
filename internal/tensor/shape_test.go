package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeBasics(t *testing.T) {
	tests := []struct {
		shape    Shape
		elements int
		strides  []int
		scalar   bool
		str      string
	}{
		{Shape{}, 1, []int{}, true, "()"},
		{Shape{1}, 1, []int{1}, true, "(1)"},
		{Shape{5}, 5, []int{1}, false, "(5)"},
		{Shape{2, 3}, 6, []int{3, 1}, false, "(2, 3)"},
		{Shape{2, 3, 4}, 24, []int{12, 4, 1}, false, "(2, 3, 4)"},
		{Shape{3, 0, 2}, 0, []int{0, 2, 1}, false, "(3, 0, 2)"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.elements, tt.shape.NumElements())
			assert.Equal(t, tt.strides, tt.shape.Strides())
			assert.Equal(t, tt.scalar, tt.shape.IsScalar())
			assert.Equal(t, tt.str, tt.shape.String())
			assert.Equal(t, len(tt.shape), tt.shape.Rank())
		})
	}
}

func TestShapeValidate(t *testing.T) {
	require.NoError(t, Shape{2, 0, 3}.Validate())
	assert.ErrorIs(t, Shape{2, -1}.Validate(), ErrShape)
	assert.ErrorIs(t, make(Shape, MaxRank+1).Validate(), ErrShape)
}

func TestShapeCloneIsIndependent(t *testing.T) {
	s := Shape{2, 3}
	c := s.Clone()
	c[0] = 7
	assert.Equal(t, Shape{2, 3}, s)
	assert.True(t, s.Equal(Shape{2, 3}))
	assert.False(t, s.Equal(c))
	assert.False(t, s.Equal(Shape{2, 3, 1}))
}

func TestNormalizeAxis(t *testing.T) {
	axis, err := NormalizeAxis(-1, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, axis)

	axis, err = NormalizeAxis(0, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, axis)

	_, err = NormalizeAxis(3, 3)
	assert.ErrorIs(t, err, ErrShape)
	_, err = NormalizeAxis(-4, 3)
	assert.ErrorIs(t, err, ErrShape)
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Shape
		want    Shape
		wantErr bool
	}{
		{"same", Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false},
		{"column", Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, false},
		{"lower rank", Shape{5}, Shape{3, 5}, Shape{3, 5}, false},
		{"both expand", Shape{3, 1}, Shape{1, 4}, Shape{3, 4}, false},
		{"scalar", Shape{1}, Shape{2, 3, 4}, Shape{2, 3, 4}, false},
		{"rank zero", Shape{}, Shape{2}, Shape{2}, false},
		{"zero size", Shape{0, 1}, Shape{1, 3}, Shape{0, 3}, false},
		{"mismatch", Shape{3, 4}, Shape{3, 5}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrShape)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Broadcasting is symmetric.
			rev, err := BroadcastShapes(tt.b, tt.a)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rev)
		})
	}
}

func TestBroadcastAll(t *testing.T) {
	got, err := BroadcastAll(Shape{3, 1, 1}, Shape{4, 1}, Shape{5})
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 4, 5}, got)

	_, err = BroadcastAll()
	assert.ErrorIs(t, err, ErrShape)
}

func TestBroadcastStrides(t *testing.T) {
	target := Shape{2, 3, 4}
	assert.Equal(t, []int{12, 4, 1}, BroadcastStrides(Shape{2, 3, 4}, target))
	assert.Equal(t, []int{0, 1, 0}, BroadcastStrides(Shape{3, 1}, target))
	assert.Equal(t, []int{0, 0, 1}, BroadcastStrides(Shape{4}, target))
	assert.Equal(t, []int{0, 0, 0}, BroadcastStrides(Shape{1}, target))
}

func TestRealIndexMatchesExpansion(t *testing.T) {
	// b of shape (3, 1) broadcast into (2, 3, 4): element (i, j, k) reads b[j].
	target := Shape{2, 3, 4}
	strides := BroadcastStrides(Shape{3, 1}, target)
	flat := 0
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 4; k++ {
				assert.Equal(t, j, RealIndex(flat, strides, target), "index (%d, %d, %d)", i, j, k)
				flat++
			}
		}
	}
	assert.Equal(t, 0, RealIndex(0, []int{0, 1}, Shape{0, 3}))
}
