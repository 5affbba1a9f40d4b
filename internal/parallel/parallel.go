// Package parallel provides the two execution primitives every kernel is
// built on: Vectorize for the innermost contiguous loop and Pool.Parallelize
// for the outer, independent loop.
package parallel

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvNumWorkers   = "TENSORGRAD_NUM_WORKERS"
	EnvMinChunkSize = "TENSORGRAD_MIN_CHUNK"
	EnvVectorWidth  = "TENSORGRAD_VECTOR_WIDTH"
)

// DefaultVectorWidth is the number of lanes processed per Vectorize call.
const DefaultVectorWidth = 8

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum outer iterations per goroutine to avoid overhead.
	VectorWidth  int  // Lanes per vectorized chunk.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64, // Typical cache line aware chunk.
		VectorWidth:  DefaultVectorWidth,
	}
}

// SequentialConfig returns a configuration that never fans out.
func SequentialConfig() Config {
	cfg := DefaultConfig()
	cfg.Enabled = false
	cfg.NumWorkers = 1
	return cfg
}

// ConfigFromEnv returns DefaultConfig overridden by the TENSORGRAD_*
// environment variables. Malformed values are reported as errors.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	for _, v := range []struct {
		name string
		dst  *int
	}{
		{EnvNumWorkers, &cfg.NumWorkers},
		{EnvMinChunkSize, &cfg.MinChunkSize},
		{EnvVectorWidth, &cfg.VectorWidth},
	} {
		raw, ok := os.LookupEnv(v.name)
		if !ok || raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, errors.Errorf("%s=%q: expected a positive integer", v.name, raw)
		}
		*v.dst = n
	}
	cfg.Enabled = cfg.NumWorkers > 1
	return cfg, nil
}

// normalize clamps the configuration to usable values.
func (cfg Config) normalize() Config {
	cfg.NumWorkers = min(max(cfg.NumWorkers, 1), runtime.NumCPU())
	cfg.MinChunkSize = max(cfg.MinChunkSize, 1)
	if cfg.VectorWidth <= 0 {
		cfg.VectorWidth = DefaultVectorWidth
	}
	if cfg.NumWorkers == 1 {
		cfg.Enabled = false
	}
	return cfg
}

// Pool fans out independent outer-loop partitions across a bounded number of
// goroutines. A Pool holds no mutable state and may be shared.
type Pool struct {
	cfg Config
}

// NewPool creates a pool from cfg.
func NewPool(cfg Config) *Pool {
	cfg = cfg.normalize()
	klog.V(2).Infof("parallel: pool enabled=%v workers=%d minChunk=%d vectorWidth=%d",
		cfg.Enabled, cfg.NumWorkers, cfg.MinChunkSize, cfg.VectorWidth)
	return &Pool{cfg: cfg}
}

// Config returns the normalized configuration of the pool.
func (p *Pool) Config() Config {
	return p.cfg
}

// VectorWidth returns the configured lane count.
func (p *Pool) VectorWidth() int {
	return p.cfg.VectorWidth
}

// Parallelize partitions [0, outerN) into contiguous ranges and calls
// body(start, end) once per range. hint is the advisory number of partitions;
// values <= 0 mean one partition per worker.
//
// Partitions must write disjoint output regions. Parallelize returns only
// after every partition has finished. A panic in any partition is re-raised
// on the calling goroutine after the join.
func (p *Pool) Parallelize(outerN, hint int, body func(start, end int)) {
	if outerN <= 0 {
		return
	}
	parts := p.cfg.NumWorkers
	if hint > 0 {
		parts = min(parts, hint)
	}
	parts = min(parts, max(outerN/p.cfg.MinChunkSize, 1))
	if !p.cfg.Enabled || parts <= 1 {
		body(0, outerN)
		return
	}

	chunkSize := (outerN + parts - 1) / parts
	klog.V(3).Infof("parallel: outerN=%d partitions=%d chunk=%d", outerN, parts, chunkSize)

	var g errgroup.Group
	g.SetLimit(p.cfg.NumWorkers)
	for start := 0; start < outerN; start += chunkSize {
		s, e := start, min(start+chunkSize, outerN)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &partitionPanic{value: r}
				}
			}()
			body(s, e)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(err.(*partitionPanic).value)
	}
}

// For executes f(i) for i in [0, n), fanning out like Parallelize.
func (p *Pool) For(n int, f func(i int)) {
	p.Parallelize(n, 0, func(start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	})
}

// partitionPanic carries a recovered panic value through errgroup.
type partitionPanic struct {
	value any
}

func (pp *partitionPanic) Error() string {
	return fmt.Sprintf("panic in parallel partition: %v", pp.value)
}

// Vectorize calls body(offset, width) over successive chunks covering
// [0, n). Every call but the last has the given width; the remainder
// (n mod width) is handled by one narrower trailing call.
//
// Chunks have no cross-chunk dependency.
func Vectorize(width, n int, body func(offset, width int)) {
	if width <= 0 {
		width = 1
	}
	offset := 0
	for ; offset+width <= n; offset += width {
		body(offset, width)
	}
	if offset < n {
		body(offset, n-offset)
	}
}
