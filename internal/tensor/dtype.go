// Package tensor provides the shape/stride model and the owned, contiguous
// Tensor buffer used by every kernel and operator.
package tensor

import (
	"math"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Float is the constraint for tensor element types.
// Kernels are instantiated once per element type.
type Float interface {
	constraints.Float
}

// Elem is the default configured element type.
type Elem = float32

// Lowest returns the most negative finite value of T.
func Lowest[T Float]() T {
	var dummy T
	lo := -math.MaxFloat64
	if unsafe.Sizeof(dummy) == 4 {
		lo = -math.MaxFloat32
	}
	return T(lo)
}

// Highest returns the largest finite value of T.
func Highest[T Float]() T {
	return -Lowest[T]()
}

// TypeName returns the Go name of the element type.
func TypeName[T Float]() string {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return "float32"
	case float64:
		return "float64"
	default:
		return "float"
	}
}
