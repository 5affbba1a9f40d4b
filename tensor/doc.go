// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the shape/stride model and the owned tensor buffer
// used by the tensorgrad kernels and operators.
//
// # Overview
//
// This package provides:
//   - Generic tensors over one float element type (Tensor[T])
//   - Row-major strides and NumPy-style broadcasting
//   - An error taxonomy matched with errors.Is (ErrShape, ErrAttribute, ErrBounds)
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/tensorgrad/tensor"
//	)
//
//	func main() {
//	    x := tensor.Arange[float32](tensor.Shape{2, 3})
//	    fmt.Println(x)            // Tensor[float32](2, 3) (24 B)
//	    fmt.Println(x.At(1, 2))   // 5
//	}
//
// # Supported Data Types
//
// Kernels are instantiated per element type via the Float constraint:
//   - float32 (default, Elem)
//   - float64
//
// # Broadcasting
//
// Shapes are aligned from the right. Two dimensions are compatible when they
// are equal or one of them is 1; missing leading dimensions behave as 1:
//
//	(3, 1) + (3, 5) → (3, 5)
//	(5)    + (3, 5) → (3, 5)
//	(3, 4) + (3, 5) → error
//
// # Scalars
//
// A scalar is represented as a tensor of Shape{1} (see Scalar). Rank-0 shapes
// are also treated as scalars.
package tensor
