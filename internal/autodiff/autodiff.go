// Package autodiff evaluates and differentiates static computation graphs.
//
// A Graph holds nodes appended in topological order: inputs declared with
// Input and operator applications added with Apply. Shapes are resolved when a
// node is added, so shape and attribute errors abort construction.
//
// Architecture:
//   - ops.Operator: each operator computes its forward value and the
//     gradients of its inputs (see package ops)
//   - Forward: evaluates nodes in insertion order into fresh buffers
//   - Backward: reverse-mode AD, walking nodes in reverse and accumulating
//     gradients with the backend's Accumulate (un-broadcasting as needed)
//
// Usage:
//
//	g := autodiff.NewGraph[float32](nil)
//	x, _ := g.Input("x", tensor.Shape{2, 3})
//	y, _ := g.Apply(ops.Tanh, attrs.Vector{}, x)
//	loss, _ := g.Apply(ops.ReduceSum, attrs.Vector{}, y)
//	grads, _ := autodiff.Gradients(g, loss, feeds)
//	fmt.Println(grads["x"]) // dloss/dx = 1 - tanh²(x)
package autodiff

import (
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// Gradients runs Forward with feeds, then Backward from root seeded with ones,
// and returns the gradient of every input node by name. Inputs that do not
// reach root are omitted.
func Gradients[T tensor.Float](g *Graph[T], root *Node[T], feeds map[string]*tensor.Tensor[T]) (map[string]*tensor.Tensor[T], error) {
	if err := g.Forward(feeds); err != nil {
		return nil, err
	}
	if err := g.Backward(root, nil); err != nil {
		return nil, err
	}
	grads := make(map[string]*tensor.Tensor[T])
	for _, n := range g.Nodes() {
		if !n.IsInput() {
			continue
		}
		if grad := g.Grad(n); grad != nil {
			grads[n.Name()] = grad
		}
	}
	return grads, nil
}
