// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// Float is the constraint for tensor element types.
type Float = tensor.Float

// Elem is the default element type.
type Elem = tensor.Elem

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is an owned, contiguous, row-major buffer with a shape.
type Tensor[T Float] = tensor.Tensor[T]

// MaxRank is the largest supported number of axes.
const MaxRank = tensor.MaxRank

// Error kinds.
var (
	ErrShape     = tensor.ErrShape
	ErrAttribute = tensor.ErrAttribute
	ErrBounds    = tensor.ErrBounds
)

// Scalar returns Shape{1}.
func Scalar() Shape {
	return tensor.Scalar()
}

// New creates a zero-filled tensor.
func New[T Float](shape Shape) (*Tensor[T], error) {
	return tensor.New[T](shape)
}

// FromSlice creates a tensor holding a copy of data.
func FromSlice[T Float](data []T, shape Shape) (*Tensor[T], error) {
	return tensor.FromSlice(data, shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T Float](shape Shape) *Tensor[T] {
	return tensor.Zeros[T](shape)
}

// Ones creates a tensor filled with ones.
func Ones[T Float](shape Shape) *Tensor[T] {
	return tensor.Ones[T](shape)
}

// Full creates a tensor filled with value.
func Full[T Float](shape Shape, value T) *Tensor[T] {
	return tensor.Full(shape, value)
}

// Arange creates a tensor holding 0, 1, ..., n-1 in row-major order.
func Arange[T Float](shape Shape) *Tensor[T] {
	return tensor.Arange[T](shape)
}

// BroadcastShapes returns the NumPy-style broadcast of a and b.
func BroadcastShapes(a, b Shape) (Shape, error) {
	return tensor.BroadcastShapes(a, b)
}
