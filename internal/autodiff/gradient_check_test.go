package autodiff_test

import (
	"math"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tensorgrad/internal/attrs"
	"github.com/born-ml/tensorgrad/internal/autodiff"
	"github.com/born-ml/tensorgrad/internal/autodiff/ops"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// TestNumericalGradient_Composite checks a small network against central
// finite differences:
//
//	loss = mean(sigmoid(x * w + b) / exp(tanh(x)))
func TestNumericalGradient_Composite(t *testing.T) {
	g := autodiff.NewGraph[float64](nil)
	x := must.M1(g.Input("x", tensor.Shape{4, 3}))
	w := must.M1(g.Input("w", tensor.Shape{3}))
	b := must.M1(g.Input("b", tensor.Shape{4, 1}))

	none := attrs.Vector{}
	xw := must.M1(g.Apply(ops.Mul, none, x, w))
	z := must.M1(g.Apply(ops.Add, none, xw, b))
	s := must.M1(g.Apply(ops.Sigmoid, none, z))
	e := must.M1(g.Apply(ops.Exp, none, must.M1(g.Apply(ops.Tanh, none, x))))
	q := must.M1(g.Apply(ops.Div, none, s, e))
	loss := must.M1(g.Apply(ops.ReduceMean, none, q))

	values := map[string]*tensor.Tensor[float64]{
		"x": tensor.Zeros[float64](x.Shape()),
		"w": tensor.Zeros[float64](w.Shape()),
		"b": tensor.Zeros[float64](b.Shape()),
	}
	for name, v := range values {
		for i := range v.Data() {
			v.Data()[i] = math.Sin(float64(3*i+len(name))) * 1.5
		}
	}

	grads := must.M1(autodiff.Gradients(g, loss, values))

	evalLoss := func() float64 {
		require.NoError(t, g.Forward(values))
		return g.Value(loss).Item()
	}

	const epsilon = 1e-6
	for name, v := range values {
		require.Contains(t, grads, name)
		require.Equal(t, v.Shape(), grads[name].Shape())
		for i := range v.Data() {
			orig := v.Data()[i]
			v.Data()[i] = orig + epsilon
			plus := evalLoss()
			v.Data()[i] = orig - epsilon
			minus := evalLoss()
			v.Data()[i] = orig

			numerical := (plus - minus) / (2 * epsilon)
			assert.InDeltaf(t, numerical, grads[name].Data()[i], 1e-6, "d loss / d %s[%d]", name, i)
		}
	}
}
