package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tensorgrad/internal/tensor"
)

func TestAccumulate_SameShape(t *testing.T) {
	b := fanOut()
	grad := tensor.Ones[float32](tensor.Shape{4, 5})
	require.NoError(t, b.Accumulate(grad, tensor.Arange[float32](tensor.Shape{4, 5})))
	for i, v := range grad.Data() {
		assert.Equal(t, float32(i+1), v)
	}
}

func TestAccumulate_LeadingOnesShareLayout(t *testing.T) {
	b := sequential()
	grad := tensor.Zeros[float32](tensor.Shape{1, 3})
	require.NoError(t, b.Accumulate(grad, fromSlice(t, []float32{1, 2, 3}, 3)))
	assert.Equal(t, []float32{1, 2, 3}, grad.Data())
}

func TestAccumulate_ScalarIncoming(t *testing.T) {
	b := sequential()
	grad := tensor.Zeros[float32](tensor.Shape{2, 2})
	require.NoError(t, b.Accumulate(grad, fromSlice(t, []float32{1.5}, 1)))
	assert.Equal(t, []float32{1.5, 1.5, 1.5, 1.5}, grad.Data())
}

func TestAccumulate_Unbroadcast(t *testing.T) {
	b := sequential()
	incoming := tensor.Arange[float32](tensor.Shape{3, 4})

	// (3, 1): sum along axis 1.
	rows := tensor.Zeros[float32](tensor.Shape{3, 1})
	require.NoError(t, b.Accumulate(rows, incoming))
	assert.Equal(t, []float32{6, 22, 38}, rows.Data())

	// (4): sum along the missing leading axis.
	cols := tensor.Zeros[float32](tensor.Shape{4})
	require.NoError(t, b.Accumulate(cols, incoming))
	assert.Equal(t, []float32{12, 15, 18, 21}, cols.Data())

	// (1): sum of everything.
	all := tensor.Zeros[float32](tensor.Shape{1})
	require.NoError(t, b.Accumulate(all, incoming))
	assert.Equal(t, float32(66), all.Item())
}

func TestAccumulate_AddsToExisting(t *testing.T) {
	b := sequential()
	grad := tensor.Full[float32](tensor.Shape{1, 4}, 10)
	require.NoError(t, b.Accumulate(grad, tensor.Ones[float32](tensor.Shape{2, 4})))
	require.NoError(t, b.Accumulate(grad, tensor.Ones[float32](tensor.Shape{2, 4})))
	assert.Equal(t, []float32{14, 14, 14, 14}, grad.Data())
}

func TestAccumulate_Incompatible(t *testing.T) {
	b := sequential()
	err := b.Accumulate(tensor.Zeros[float32](tensor.Shape{3}), tensor.Zeros[float32](tensor.Shape{2, 4}))
	assert.ErrorIs(t, err, tensor.ErrShape)
}

func TestUnbroadcast(t *testing.T) {
	b := fanOut()
	g, err := b.Unbroadcast(tensor.Ones[float32](tensor.Shape{2, 3, 4}), tensor.Shape{3, 1})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 1}, g.Shape())
	assert.Equal(t, []float32{8, 8, 8}, g.Data())
}
