package ops

import (
	"slices"

	"github.com/born-ml/tensorgrad/internal/attrs"
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// Builder validates attributes and constructs an operator.
type Builder[T tensor.Float] func(attributes attrs.Vector, backend *cpu.Backend[T]) (Operator[T], error)

// Registry maps operator kinds to builders.
type Registry[T tensor.Float] struct {
	builders map[Kind]Builder[T]
}

// NewRegistry creates a registry with every supported operator.
func NewRegistry[T tensor.Float]() *Registry[T] {
	r := &Registry[T]{
		builders: make(map[Kind]Builder[T], numKinds),
	}

	r.registerActivations()
	r.registerShapeOps()
	r.registerMathOps()
	r.registerReductions()

	return r
}

func (r *Registry[T]) registerActivations() {
	r.Register(Sigmoid, newSigmoid[T])
	r.Register(ReLU, newReLU[T])
	r.Register(Tanh, newTanh[T])
	r.Register(Clip, newClip[T])
}

func (r *Registry[T]) registerShapeOps() {
	r.Register(Squeeze, newSqueeze[T])
	r.Register(Unsqueeze, newUnsqueeze[T])
	r.Register(Slice, newSlice[T])
	r.Register(Transpose, newTranspose[T])
}

func (r *Registry[T]) registerMathOps() {
	r.Register(Add, newBinary[T](Add))
	r.Register(Sub, newBinary[T](Sub))
	r.Register(Mul, newBinary[T](Mul))
	r.Register(Div, newBinary[T](Div))
	r.Register(Exp, newExp[T])
}

func (r *Registry[T]) registerReductions() {
	r.Register(ReduceSum, newReduce[T](ReduceSum))
	r.Register(ReduceMean, newReduce[T](ReduceMean))
}

// Register adds or replaces the builder for kind.
func (r *Registry[T]) Register(kind Kind, builder Builder[T]) {
	r.builders[kind] = builder
}

// Get returns the builder for kind.
func (r *Registry[T]) Get(kind Kind) (Builder[T], bool) {
	b, ok := r.builders[kind]
	return b, ok
}

// Build validates attributes and constructs the operator for kind.
func (r *Registry[T]) Build(kind Kind, attributes attrs.Vector, backend *cpu.Backend[T]) (Operator[T], error) {
	builder, ok := r.builders[kind]
	if !ok {
		return nil, tensor.AttributeErrorf("unsupported operator: %s", kind)
	}
	if backend == nil {
		backend = cpu.NewDefault[T]()
	}
	return builder(attributes, backend)
}

// SupportedOps returns the names of all registered operators, sorted.
func (r *Registry[T]) SupportedOps() []string {
	names := make([]string, 0, len(r.builders))
	for kind := range r.builders {
		names = append(names, kind.String())
	}
	slices.Sort(names)
	return names
}

// New validates attributes and constructs the operator for kind using the
// default registry. A nil backend uses cpu.NewDefault.
func New[T tensor.Float](kind Kind, attributes attrs.Vector, backend *cpu.Backend[T]) (Operator[T], error) {
	return NewRegistry[T]().Build(kind, attributes, backend)
}
