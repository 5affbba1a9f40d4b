package autodiff

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/tensorgrad/internal/attrs"
	"github.com/born-ml/tensorgrad/internal/autodiff/ops"
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// ErrMissingFeed reports a graph input without a value at Forward time.
var ErrMissingFeed = errors.New("missing feed")

// Node is one vertex of a Graph: either an input (leaf) or the application of
// an operator to earlier nodes. Its shape is resolved when the node is added.
type Node[T tensor.Float] struct {
	id     uuid.UUID
	name   string
	index  int
	op     ops.Operator[T] // nil for inputs
	inputs []*Node[T]
	shape  tensor.Shape
	graph  *Graph[T]
}

// ID returns the node's unique identifier.
func (n *Node[T]) ID() uuid.UUID { return n.id }

// Name returns the node name.
func (n *Node[T]) Name() string { return n.name }

// Shape returns the resolved output shape.
func (n *Node[T]) Shape() tensor.Shape { return n.shape }

// Operator returns the node's operator, or nil for an input.
func (n *Node[T]) Operator() ops.Operator[T] { return n.op }

// Inputs returns the operand nodes.
func (n *Node[T]) Inputs() []*Node[T] { return n.inputs }

// IsInput reports whether n is a leaf fed at Forward time.
func (n *Node[T]) IsInput() bool { return n.op == nil }

// String returns "name:KIND(shape)".
func (n *Node[T]) String() string {
	kind := "INPUT"
	if n.op != nil {
		kind = n.op.Kind().String()
	}
	return fmt.Sprintf("%s:%s%s", n.name, kind, n.shape)
}

// Graph is a static computation graph. Nodes are appended in topological
// order, so evaluation walks them in insertion order and differentiation in
// reverse.
//
// Usage:
//
//	g := autodiff.NewGraph[float32](cpu.NewDefault[float32]())
//	x := must.M1(g.Input("x", tensor.Shape{3, 4}))
//	y := must.M1(g.Apply(ops.Sigmoid, attrs.Vector{}, x))
//	err := g.Forward(map[string]*tensor.Tensor[float32]{"x": xValue})
//	err = g.Backward(y, nil)
//	dx := g.Grad(x)
//
// Forward and Backward are serialized by the graph; kernels themselves hold
// no locks.
type Graph[T tensor.Float] struct {
	mu       sync.Mutex
	backend  *cpu.Backend[T]
	registry *ops.Registry[T]
	nodes    []*Node[T]
	byName   map[string]*Node[T]
	values   []*tensor.Tensor[T]
	grads    []*tensor.Tensor[T]
}

// NewGraph creates an empty graph whose operators run on backend.
// A nil backend uses cpu.NewDefault.
func NewGraph[T tensor.Float](backend *cpu.Backend[T]) *Graph[T] {
	if backend == nil {
		backend = cpu.NewDefault[T]()
	}
	return &Graph[T]{
		backend:  backend,
		registry: ops.NewRegistry[T](),
		nodes:    make([]*Node[T], 0, 16),
		byName:   make(map[string]*Node[T]),
	}
}

// Backend returns the backend operators run on.
func (g *Graph[T]) Backend() *cpu.Backend[T] {
	return g.backend
}

// Registry returns the operator registry used by Apply. Builders registered
// on it affect subsequent Apply calls.
func (g *Graph[T]) Registry() *ops.Registry[T] {
	return g.registry
}

// Nodes returns the nodes in insertion order.
func (g *Graph[T]) Nodes() []*Node[T] {
	return g.nodes
}

// Node looks a node up by name.
func (g *Graph[T]) Node(name string) (*Node[T], bool) {
	n, ok := g.byName[name]
	return n, ok
}

// Input declares a leaf node of the given shape.
func (g *Graph[T]) Input(name string, shape tensor.Shape) (*Node[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "input %q", name)
	}
	return g.add(name, nil, nil, shape.Clone())
}

// Apply adds a node computing kind over inputs. The operator is built and its
// result shape resolved immediately, so attribute and shape errors surface
// here rather than at Forward time.
func (g *Graph[T]) Apply(kind ops.Kind, attributes attrs.Vector, inputs ...*Node[T]) (*Node[T], error) {
	return g.ApplyNamed("", kind, attributes, inputs...)
}

// ApplyNamed is Apply with an explicit node name. An empty name is replaced
// by "<kind>_<index>".
func (g *Graph[T]) ApplyNamed(name string, kind ops.Kind, attributes attrs.Vector, inputs ...*Node[T]) (*Node[T], error) {
	shapes := make([]tensor.Shape, len(inputs))
	for i, in := range inputs {
		if in == nil || in.graph != g {
			return nil, tensor.ShapeErrorf("%s: operand %d does not belong to this graph", kind, i)
		}
		shapes[i] = in.shape
	}

	op, err := g.registry.Build(kind, attributes, g.backend)
	if err != nil {
		return nil, errors.WithMessagef(err, "building %s", kind)
	}
	shape, err := op.ResultShape(shapes...)
	if err != nil {
		return nil, errors.WithMessagef(err, "resolving %s%v", kind, shapes)
	}
	if err := shape.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "resolving %s%v", kind, shapes)
	}

	if name == "" {
		name = fmt.Sprintf("%s_%d", kind, len(g.nodes))
	}
	return g.add(name, op, inputs, shape)
}

func (g *Graph[T]) add(name string, op ops.Operator[T], inputs []*Node[T], shape tensor.Shape) (*Node[T], error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if name == "" {
		return nil, tensor.AttributeErrorf("node name must not be empty")
	}
	if _, dup := g.byName[name]; dup {
		return nil, tensor.AttributeErrorf("duplicate node name %q", name)
	}
	n := &Node[T]{
		id:     uuid.New(),
		name:   name,
		index:  len(g.nodes),
		op:     op,
		inputs: append([]*Node[T](nil), inputs...),
		shape:  shape,
		graph:  g,
	}
	g.nodes = append(g.nodes, n)
	g.byName[name] = n
	// Values from an earlier run no longer cover every node.
	g.values, g.grads = nil, nil

	if klog.V(1).Enabled() {
		if op != nil {
			klog.Infof("autodiff: added node %s %v", n, op.Attributes())
		} else {
			klog.Infof("autodiff: added input %s", n)
		}
	}
	return n, nil
}

// Forward evaluates every node in insertion order. feeds maps input node
// names to values of the declared shapes; the values are copied.
func (g *Graph[T]) Forward(feeds map[string]*tensor.Tensor[T]) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	values := make([]*tensor.Tensor[T], len(g.nodes))
	for i, n := range g.nodes {
		if n.IsInput() {
			feed, ok := feeds[n.name]
			if !ok || feed == nil {
				return errors.Wrapf(ErrMissingFeed, "input %q", n.name)
			}
			if !feed.Shape().Equal(n.shape) {
				return tensor.ShapeErrorf("input %q: fed %s, declared %s", n.name, feed.Shape(), n.shape)
			}
			values[i] = feed.Clone()
			continue
		}

		out, err := g.backend.Alloc(n.shape)
		if err != nil {
			return err
		}
		if err := n.op.Forward(out, g.operands(values, n)...); err != nil {
			return errors.WithMessagef(err, "forward %s", n)
		}
		values[i] = out
	}

	g.values, g.grads = values, nil
	klog.V(1).Infof("autodiff: forward evaluated %d nodes", len(g.nodes))
	return nil
}

// Value returns the value of n from the last Forward, or nil.
func (g *Graph[T]) Value(n *Node[T]) *tensor.Tensor[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n == nil || n.graph != g || n.index >= len(g.values) {
		return nil
	}
	return g.values[n.index]
}

// Grad returns dRoot/dn from the last Backward, or nil when n does not
// contribute to the root.
func (g *Graph[T]) Grad(n *Node[T]) *tensor.Tensor[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n == nil || n.graph != g || n.index >= len(g.grads) {
		return nil
	}
	return g.grads[n.index]
}

// operands gathers the values of n's inputs.
func (g *Graph[T]) operands(values []*tensor.Tensor[T], n *Node[T]) []*tensor.Tensor[T] {
	operands := make([]*tensor.Tensor[T], len(n.inputs))
	for j, in := range n.inputs {
		operands[j] = values[in.index]
	}
	return operands
}
