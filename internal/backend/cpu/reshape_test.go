package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tensorgrad/internal/tensor"
)

func TestSqueezeShape(t *testing.T) {
	s, err := SqueezeShape(tensor.Shape{1, 3, 1, 4}, nil)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 4}, s)

	s, err = SqueezeShape(tensor.Shape{1, 3, 1, 4}, []int{-2})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 3, 4}, s)

	_, err = SqueezeShape(tensor.Shape{1, 3}, []int{1})
	assert.ErrorIs(t, err, tensor.ErrShape)
	_, err = SqueezeShape(tensor.Shape{1, 3}, []int{0, -2})
	assert.ErrorIs(t, err, tensor.ErrShape)
	_, err = SqueezeShape(tensor.Shape{1, 3}, []int{2})
	assert.ErrorIs(t, err, tensor.ErrShape)
}

func TestUnsqueezeShape(t *testing.T) {
	s, err := UnsqueezeShape(tensor.Shape{3, 4}, []int{0, -1})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 3, 4, 1}, s)

	s, err = UnsqueezeShape(tensor.Shape{3, 4}, []int{1})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 1, 4}, s)

	_, err = UnsqueezeShape(tensor.Shape{3}, []int{0, 0})
	assert.ErrorIs(t, err, tensor.ErrShape)
	_, err = UnsqueezeShape(tensor.Shape{3}, nil)
	assert.ErrorIs(t, err, tensor.ErrAttribute)
	_, err = UnsqueezeShape(tensor.Shape{1, 1, 1, 1, 1, 1, 1, 1}, []int{0})
	assert.ErrorIs(t, err, tensor.ErrShape)
}

func TestSqueezeUnsqueeze_RoundTrip(t *testing.T) {
	b := fanOut()
	x := tensor.Arange[float32](tensor.Shape{3, 1, 4})

	sq, err := SqueezeShape(x.Shape(), []int{1})
	require.NoError(t, err)
	y := tensor.Zeros[float32](sq)
	require.NoError(t, b.Copy(y, x))

	unsq, err := UnsqueezeShape(sq, []int{1})
	require.NoError(t, err)
	assert.Equal(t, x.Shape(), unsq)

	z := tensor.Zeros[float32](unsq)
	require.NoError(t, b.Copy(z, y))
	assert.Equal(t, x.Data(), z.Data())
}

func TestCopy_ElementCountMismatch(t *testing.T) {
	b := sequential()
	err := b.Copy(tensor.Zeros[float32](tensor.Shape{5}), tensor.Zeros[float32](tensor.Shape{2, 3}))
	assert.ErrorIs(t, err, tensor.ErrShape)
}
