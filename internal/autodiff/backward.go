package autodiff

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/tensorgrad/internal/tensor"
)

// Backward computes the gradient of root with respect to every node that
// feeds it, using the values of the last Forward.
//
// Algorithm:
//  1. Reset all gradient buffers; seed root with seed (ones when nil)
//  2. Walk nodes in reverse insertion order, skipping nodes with no gradient
//  3. For each operator node, compute input gradients with the chain rule
//  4. Accumulate into each input's buffer, summing over broadcast axes
//     and over every use of the same node
func (g *Graph[T]) Backward(root *Node[T], seed *tensor.Tensor[T]) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if root == nil || root.graph != g {
		return tensor.ShapeErrorf("backward: root does not belong to this graph")
	}
	if len(g.values) != len(g.nodes) {
		return errors.New("backward: Forward has not been run")
	}

	if seed == nil {
		seed = tensor.Ones[T](root.shape)
	} else if !seed.Shape().Equal(root.shape) {
		return tensor.ShapeErrorf("backward: seed has shape %s, root %s has %s", seed.Shape(), root.name, root.shape)
	}

	grads := make([]*tensor.Tensor[T], len(g.nodes))
	grads[root.index] = seed.Clone()

	for i := root.index; i >= 0; i-- {
		n := g.nodes[i]
		upstream := grads[i]
		if upstream == nil || n.IsInput() {
			continue
		}

		inputGrads, err := n.op.Backward(upstream, g.operands(g.values, n)...)
		if err != nil {
			return errors.WithMessagef(err, "backward %s", n)
		}
		if err := g.accumulateGrads(n, inputGrads, grads); err != nil {
			return err
		}
	}

	g.grads = grads
	klog.V(1).Infof("autodiff: backward from %s", root)
	return nil
}

// accumulateGrads adds each input gradient of n into that input's buffer.
func (g *Graph[T]) accumulateGrads(n *Node[T], inputGrads []*tensor.Tensor[T], grads []*tensor.Tensor[T]) error {
	if len(inputGrads) != len(n.inputs) {
		return tensor.ShapeErrorf("backward %s: %d gradients for %d inputs", n, len(inputGrads), len(n.inputs))
	}
	for j, in := range n.inputs {
		if inputGrads[j] == nil {
			continue
		}
		if grads[in.index] == nil {
			buf, err := g.backend.Alloc(in.shape)
			if err != nil {
				return err
			}
			grads[in.index] = buf
		}
		if err := g.backend.Accumulate(grads[in.index], inputGrads[j]); err != nil {
			return errors.WithMessagef(err, "accumulating gradient of %s", in)
		}
	}
	return nil
}
