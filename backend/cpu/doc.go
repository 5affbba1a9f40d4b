// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor kernels.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Lane-vectorized inner loops and row-partitioned parallelism
//   - Float32 and Float64 support
//   - NumPy-compatible broadcasting
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/tensorgrad/backend/cpu"
//	    "github.com/born-ml/tensorgrad/tensor"
//	)
//
//	func main() {
//	    backend := cpu.NewDefault[float32]()
//
//	    a := tensor.Arange[float32](tensor.Shape{2, 3})
//	    b := tensor.Ones[float32](tensor.Shape{3})
//	    c := tensor.Zeros[float32](tensor.Shape{2, 3})
//	    if err := backend.Add(c, a, b); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Configuration
//
// Parallelism is controlled by Config. ConfigFromEnv reads
// TENSORGRAD_NUM_WORKERS, TENSORGRAD_MIN_CHUNK and TENSORGRAD_VECTOR_WIDTH.
// SequentialConfig disables fan-out; results are identical either way.
//
// # Thread Safety
//
// Kernels hold no locks. Concurrent calls are safe as long as they do not
// write the same output tensor.
package cpu
