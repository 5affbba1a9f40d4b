// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	"github.com/born-ml/tensorgrad/internal/backend/cpu"
	"github.com/born-ml/tensorgrad/internal/parallel"
	"github.com/born-ml/tensorgrad/internal/tensor"
)

// Backend is the CPU kernel set for element type T.
type Backend[T tensor.Float] = cpu.Backend[T]

// Config controls worker count, vector width and partition grain.
type Config = parallel.Config

// New creates a CPU backend with the given parallelism configuration.
func New[T tensor.Float](cfg Config) *Backend[T] {
	return cpu.New[T](cfg)
}

// NewDefault creates a CPU backend using DefaultConfig.
func NewDefault[T tensor.Float]() *Backend[T] {
	return cpu.NewDefault[T]()
}

// DefaultConfig returns one worker per CPU.
func DefaultConfig() Config {
	return parallel.DefaultConfig()
}

// SequentialConfig returns a configuration that never fans out.
func SequentialConfig() Config {
	return parallel.SequentialConfig()
}

// ConfigFromEnv returns DefaultConfig overridden by TENSORGRAD_* variables.
func ConfigFromEnv() (Config, error) {
	return parallel.ConfigFromEnv()
}
