package tensor

import (
	"strconv"
	"strings"
)

// MaxRank is the largest number of axes a Shape may have.
const MaxRank = 8

// Shape represents the dimensions of a tensor.
//
// Dimensions are non-negative; a zero-sized axis describes an empty tensor.
type Shape []int

// Scalar returns the canonical scalar-as-tensor shape, Shape{1}.
func Scalar() Shape {
	return Shape{1}
}

// Rank returns the number of axes.
func (s Shape) Rank() int {
	return len(s)
}

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// IsScalar reports whether s is Shape{1} or the rank-0 shape.
func (s Shape) IsScalar() bool {
	return len(s) == 0 || (len(s) == 1 && s[0] == 1)
}

// Validate checks the rank limit and that all dimensions are non-negative.
func (s Shape) Validate() error {
	if len(s) > MaxRank {
		return ShapeErrorf("rank %d exceeds maximum rank %d", len(s), MaxRank)
	}
	for i, dim := range s {
		if dim < 0 {
			return ShapeErrorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// String formats the shape as "(d0, d1, ...)".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Strides calculates row-major strides for the shape.
// stride[last] = 1 and stride[i] = stride[i+1] * dim[i+1].
func (s Shape) Strides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// NormalizeAxis resolves a possibly negative axis against rank.
func NormalizeAxis(axis, rank int) (int, error) {
	if axis < 0 {
		axis += rank
	}
	if axis < 0 || axis >= rank {
		return 0, ShapeErrorf("axis %d out of range for rank %d", axis, rank)
	}
	return axis, nil
}

// BroadcastShapes implements NumPy-style broadcasting rules.
//
// Shapes are aligned from the right. For each aligned pair (a, b) the result
// is a when a == b, the other dimension when either is 1, and a shape error
// otherwise. Leading axes of the longer shape are copied unchanged.
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5)
//	(5)    + (3, 5) → (3, 5)
//	(3, 4) + (3, 5) → error
func BroadcastShapes(a, b Shape) (Shape, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)

	for i := 0; i < maxLen; i++ {
		aIdx := len(a) - 1 - i
		bIdx := len(b) - 1 - i

		switch {
		case aIdx < 0:
			result[maxLen-1-i] = b[bIdx]
			continue
		case bIdx < 0:
			result[maxLen-1-i] = a[aIdx]
			continue
		}

		aDim, bDim := a[aIdx], b[bIdx]
		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1 || bDim == 1:
			result[maxLen-1-i] = aDim * bDim
		default:
			return nil, ShapeErrorf("shapes not compatible for broadcasting: %s vs %s (axis %d: %d vs %d)",
				a, b, maxLen-1-i, aDim, bDim)
		}
	}

	return result, nil
}

// BroadcastAll folds BroadcastShapes over shapes from left to right.
func BroadcastAll(shapes ...Shape) (Shape, error) {
	if len(shapes) == 0 {
		return nil, ShapeErrorf("no shapes to broadcast")
	}
	result := shapes[0].Clone()
	for _, s := range shapes[1:] {
		var err error
		result, err = BroadcastShapes(result, s)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// BroadcastStrides computes, for every axis of target, the stride used to read
// shape's buffer when shape is broadcast into target.
//
// Axes where shape has size 1, or that are absent because shape has a lower
// rank, get stride 0; the rest keep the contiguous stride of shape.
func BroadcastStrides(shape, target Shape) []int {
	outDim := len(target)
	strides := make([]int, outDim)

	inDim := len(shape)
	offset := outDim - inDim
	origStrides := shape.Strides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		switch {
		case inIdx < 0:
			strides[i] = 0
		case shape[inIdx] == 1:
			strides[i] = 0
		default:
			strides[i] = origStrides[inIdx]
		}
	}

	return strides
}

// RealIndex maps a flat index into target onto the flat offset of the operand
// whose broadcast strides are given.
//
// The index is decomposed digit by digit starting at the lowest-order axis,
// and each digit is multiplied by the (possibly zero) operand stride.
func RealIndex(flat int, strides []int, target Shape) int {
	offset := 0
	for d := len(target) - 1; d >= 0; d-- {
		dim := target[d]
		if dim == 0 {
			return 0
		}
		offset += (flat % dim) * strides[d]
		flat /= dim
	}
	return offset
}
