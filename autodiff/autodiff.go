// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides automatic differentiation over static graphs.
//
// A Graph is built from inputs and operator applications, evaluated with
// Forward, and differentiated in reverse mode with Backward.
//
// Example:
//
//	import (
//	    "github.com/born-ml/tensorgrad/autodiff"
//	    "github.com/born-ml/tensorgrad/tensor"
//	)
//
//	func main() {
//	    g := autodiff.NewGraph[float32](nil)
//	    x, _ := g.Input("x", tensor.Shape{2, 3})
//	    y, _ := g.Apply(autodiff.Sigmoid, autodiff.Attrs(), x)
//	    loss, _ := g.Apply(autodiff.ReduceMean, autodiff.Attrs(), y)
//
//	    grads, err := autodiff.Gradients(g, loss, map[string]*tensor.Tensor[float32]{
//	        "x": tensor.Ones[float32](tensor.Shape{2, 3}),
//	    })
//	    // grads["x"] holds dloss/dx
//	}
package autodiff

import (
	"github.com/born-ml/tensorgrad/internal/attrs"
	"github.com/born-ml/tensorgrad/internal/autodiff"
	"github.com/born-ml/tensorgrad/internal/autodiff/ops"
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// Graph is a static computation graph.
type Graph[T tensor.Float] = autodiff.Graph[T]

// Node is one vertex of a Graph.
type Node[T tensor.Float] = autodiff.Node[T]

// Operator is the forward/backward contract every operator implements.
type Operator[T tensor.Float] = ops.Operator[T]

// Registry maps operator kinds to builders.
type Registry[T tensor.Float] = ops.Registry[T]

// Kind identifies an operator.
type Kind = ops.Kind

// Attribute is one named operator parameter.
type Attribute = attrs.Attribute

// Attributes is an ordered, name-unique set of operator parameters.
type Attributes = attrs.Vector

// Operator kinds.
const (
	Sigmoid    = ops.Sigmoid
	ReLU       = ops.ReLU
	Tanh       = ops.Tanh
	Clip       = ops.Clip
	Squeeze    = ops.Squeeze
	Unsqueeze  = ops.Unsqueeze
	Slice      = ops.Slice
	Transpose  = ops.Transpose
	Add        = ops.Add
	Sub        = ops.Sub
	Mul        = ops.Mul
	Div        = ops.Div
	Exp        = ops.Exp
	ReduceSum  = ops.ReduceSum
	ReduceMean = ops.ReduceMean
)

// ErrMissingFeed reports a graph input without a value at Forward time.
var ErrMissingFeed = autodiff.ErrMissingFeed

// NewGraph creates an empty graph. A nil backend uses the default CPU backend.
func NewGraph[T tensor.Float](backend *cpu.Backend[T]) *Graph[T] {
	return autodiff.NewGraph(backend)
}

// Gradients evaluates g and returns d(root)/d(input) for every input that
// reaches root, keyed by input name.
func Gradients[T tensor.Float](g *Graph[T], root *Node[T], feeds map[string]*tensor.Tensor[T]) (map[string]*tensor.Tensor[T], error) {
	return autodiff.Gradients(g, root, feeds)
}

// ParseKind returns the kind named s, e.g. "REDUCE_SUM".
func ParseKind(s string) (Kind, error) {
	return ops.ParseKind(s)
}

// Float returns a float attribute.
func Float(name string, v float64) Attribute {
	return attrs.Float(name, v)
}

// Ints returns an integer-list attribute.
func Ints(name string, values ...int) Attribute {
	return attrs.Ints(name, values...)
}

// Attrs builds an attribute set, panicking on duplicate names.
func Attrs(attributes ...Attribute) Attributes {
	return attrs.MustNew(attributes...)
}
