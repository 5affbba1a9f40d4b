package ops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tensorgrad/internal/attrs"
	"github.com/born-ml/tensorgrad/internal/autodiff/ops"
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

func TestKind_String(t *testing.T) {
	assert.Equal(t, "SIGMOID", ops.Sigmoid.String())
	assert.Equal(t, "REDUCE_MEAN", ops.ReduceMean.String())
	assert.Equal(t, "UNKNOWN", ops.Kind(-1).String())
}

func TestKind_NumInputs(t *testing.T) {
	assert.Equal(t, 2, ops.Div.NumInputs())
	assert.Equal(t, 1, ops.Slice.NumInputs())
}

func TestParseKind(t *testing.T) {
	for _, k := range ops.Kinds() {
		got, err := ops.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	k, err := ops.ParseKind("reduce_sum")
	require.NoError(t, err)
	assert.Equal(t, ops.ReduceSum, k)

	_, err = ops.ParseKind("MATMUL")
	assert.ErrorIs(t, err, tensor.ErrAttribute)
}

func TestRegistry(t *testing.T) {
	r := ops.NewRegistry[float32]()
	assert.Len(t, r.SupportedOps(), len(ops.Kinds()))
	for _, k := range ops.Kinds() {
		_, ok := r.Get(k)
		assert.True(t, ok, k.String())
	}

	_, err := r.Build(ops.Kind(99), attrs.Vector{}, nil)
	assert.ErrorIs(t, err, tensor.ErrAttribute)

	// A registered builder replaces the default one.
	r.Register(ops.ReLU, func(a attrs.Vector, be *cpu.Backend[float32]) (ops.Operator[float32], error) {
		return ops.New[float32](ops.Tanh, a, be)
	})
	op, err := r.Build(ops.ReLU, attrs.Vector{}, nil)
	require.NoError(t, err)
	assert.Equal(t, ops.Tanh, op.Kind())
}
