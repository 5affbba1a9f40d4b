package tensor

import (
	"math"
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndFromSlice(t *testing.T) {
	x, err := New[float32](Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 6), x.Data())
	assert.Equal(t, []int{3, 1}, x.Strides())

	_, err = New[float32](Shape{-1})
	assert.ErrorIs(t, err, ErrShape)

	data := []float64{1, 2, 3, 4}
	y, err := FromSlice(data, Shape{2, 2})
	require.NoError(t, err)
	data[0] = 99
	assert.Equal(t, 1.0, y.At(0, 0), "FromSlice must copy its input")

	_, err = FromSlice([]float64{1, 2, 3}, Shape{2, 2})
	assert.ErrorIs(t, err, ErrShape)
}

func TestCreation(t *testing.T) {
	assert.Equal(t, []float32{0, 0, 0}, Zeros[float32](Shape{3}).Data())
	assert.Equal(t, []float32{1, 1}, Ones[float32](Shape{2}).Data())
	assert.Equal(t, []float64{2.5, 2.5, 2.5, 2.5}, Full(Shape{2, 2}, 2.5).Data())
	assert.Equal(t, []float32{0, 1, 2, 3, 4, 5}, Arange[float32](Shape{2, 3}).Data())
	assert.Panics(t, func() { Zeros[float32](Shape{-2}) })
}

func TestAtSetOffset(t *testing.T) {
	x := Arange[float32](Shape{2, 3, 4})
	assert.Equal(t, float32(23), x.At(1, 2, 3))
	assert.Equal(t, float32(13), x.At(1, 0, 1))

	x.Set(-1, 0, 1, 2)
	assert.Equal(t, float32(-1), x.Data()[6])

	_, err := x.Offset(0, 3, 0)
	assert.ErrorIs(t, err, ErrBounds)
	_, err = x.Offset(0, 0)
	assert.ErrorIs(t, err, ErrShape)
	assert.Panics(t, func() { x.At(2, 0, 0) })
}

func TestItem(t *testing.T) {
	assert.Equal(t, float32(4), Full[float32](Scalar(), 4).Item())

	err := exceptions.TryCatch[error](func() { Zeros[float32](Shape{2}).Item() })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single-element")
}

func TestCloneAndWithShape(t *testing.T) {
	x := Arange[float32](Shape{2, 3})
	c := x.Clone()
	c.Data()[0] = 100
	c.Shape()[0] = 9
	assert.Equal(t, float32(0), x.At(0, 0))
	assert.Equal(t, Shape{2, 3}, x.Shape())

	r, err := x.WithShape(Shape{3, 2})
	require.NoError(t, err)
	assert.Equal(t, x.Data(), r.Data())
	assert.Equal(t, float32(3), r.At(1, 1))
	r.Data()[1] = 50
	assert.Equal(t, float32(1), x.At(0, 1))

	_, err = x.WithShape(Shape{4})
	assert.ErrorIs(t, err, ErrShape)
}

func TestFillZero(t *testing.T) {
	x := Zeros[float64](Shape{3})
	x.Fill(2)
	assert.Equal(t, []float64{2, 2, 2}, x.Data())
	x.Zero()
	assert.Equal(t, []float64{0, 0, 0}, x.Data())
}

func TestElementTypeHelpers(t *testing.T) {
	assert.Equal(t, "float32", TypeName[float32]())
	assert.Equal(t, "float64", TypeName[float64]())
	assert.Equal(t, float32(-math.MaxFloat32), Lowest[float32]())
	assert.Equal(t, float32(math.MaxFloat32), Highest[float32]())
	assert.Equal(t, -math.MaxFloat64, Lowest[float64]())
	assert.Equal(t, math.MaxFloat64, Highest[float64]())
	assert.False(t, math.IsInf(float64(Lowest[float32]()), 0))

	type weight float32
	assert.Equal(t, weight(-math.MaxFloat32), Lowest[weight]())

	assert.Equal(t, 8*4, Zeros[float32](Shape{8}).ByteSize())
	assert.Equal(t, "Tensor[float64](2, 2) (32 B)", Zeros[float64](Shape{2, 2}).String())
}
