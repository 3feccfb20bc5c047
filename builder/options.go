// SPDX-License-Identifier: MIT

package builder

import (
	"math/rand/v2"

	"github.com/katalvlaran/probgraph/core"
	"github.com/katalvlaran/probgraph/ops"
)

// UnaryFunc derives one vertex from another, e.g. ops.Identity or ops.Sin.
type UnaryFunc func(x *core.Vertex, opts ...core.VertexOption) (*core.Vertex, error)

// BinaryFunc joins two vertices, e.g. ops.Add or ops.Multiply.
type BinaryFunc func(a, b *core.Vertex, opts ...core.VertexOption) (*core.Vertex, error)

// BuilderOption customizes a constructor call.
type BuilderOption func(*builderConfig)

type builderConfig struct {
	rng         *rand.Rand
	idFn        func(int) string
	passThrough UnaryFunc
	combine     BinaryFunc
	fanIn       float64 // RandomDAG: probability a new vertex is binary
}

// DefaultFanIn is the RandomDAG probability of a binary vertex.
const DefaultFanIn = 0.5

func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		passThrough: ops.Identity,
		combine:     ops.Add,
		fanIn:       DefaultFanIn,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(1, 1))
	}

	return cfg
}

// label returns the vertex options for the k-th created vertex.
func (c builderConfig) label(k int) []core.VertexOption {
	if c.idFn == nil {
		return nil
	}

	return []core.VertexOption{core.WithLabel(c.idFn(k))}
}

// WithSeed fixes the RandomDAG source.
func WithSeed(seed uint64) BuilderOption {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithIDScheme labels the k-th created vertex fn(k). Labels must be unique
// in the graph, so reusing a scheme across calls fails with
// core.ErrDuplicateLabel. Panics on nil.
func WithIDScheme(fn func(int) string) BuilderOption {
	if fn == nil {
		panic("builder: WithIDScheme(nil)")
	}
	return func(c *builderConfig) { c.idFn = fn }
}

// WithPassThrough sets the fan-out link function. Panics on nil.
func WithPassThrough(fn UnaryFunc) BuilderOption {
	if fn == nil {
		panic("builder: WithPassThrough(nil)")
	}
	return func(c *builderConfig) { c.passThrough = fn }
}

// WithCombine sets the fan-in link function. Panics on nil.
func WithCombine(fn BinaryFunc) BuilderOption {
	if fn == nil {
		panic("builder: WithCombine(nil)")
	}
	return func(c *builderConfig) { c.combine = fn }
}

// WithFanIn sets the RandomDAG probability of a binary vertex.
// Panics outside [0,1].
func WithFanIn(p float64) BuilderOption {
	if !(p >= 0 && p <= 1) {
		panic("builder: WithFanIn(p outside [0,1])")
	}
	return func(c *builderConfig) { c.fanIn = p }
}
