// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Kind, Vertex, Graph, GraphOption, VertexOption and the NewGraph
// constructor.

package core

import (
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"github.com/katalvlaran/probgraph/tensor"
	"github.com/katalvlaran/probgraph/vertexid"
)

// Kind is the capability split of a vertex.
type Kind int

const (
	// NonProbabilistic vertices compute their value from their operands.
	NonProbabilistic Kind = iota
	// Probabilistic vertices hold a sampled, set or observed value.
	Probabilistic
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == Probabilistic {
		return "probabilistic"
	}
	return "deterministic"
}

// Vertex is a node of the model graph. Vertices are created through a Graph
// and live as long as it does.
type Vertex struct {
	g     *Graph
	index int // arena index; equals creation order
	id    vertexid.ID
	label string
	kind  Kind

	spec     *OpSpec // nil for probabilistic vertices
	params   Params
	sampler  Sampler // optional, probabilistic only
	operands []int   // ordered, may repeat
	parents  []int   // sorted, unique
	children []int   // sorted, unique
	shape    []int

	value      *tensor.Tensor // free value cell; placeholder when unset
	observed   *tensor.Tensor
	isObserved bool
}

// Graph is an arena of vertices plus the ambient collaborators used while
// evaluating them (logger, random source, observers).
//
// mu guards the arena (vertices, byID, labels, children slices) during
// construction; value cells are not guarded.
type Graph struct {
	mu sync.RWMutex

	name      string
	alloc     *vertexid.Allocator
	logger    *slog.Logger
	src       rand.Source
	observers observers

	vertices []*Vertex
	byID     map[vertexid.ID]int
	labels   map[string]int
}

// GraphOption configures a Graph at construction.
type GraphOption func(g *Graph)

// WithLogger sets the structured logger. Panics on nil.
func WithLogger(l *slog.Logger) GraphOption {
	if l == nil {
		panic("core: WithLogger(nil)")
	}
	return func(g *Graph) { g.logger = l }
}

// WithAllocator sets the ID allocator. Panics on nil.
func WithAllocator(a *vertexid.Allocator) GraphOption {
	if a == nil {
		panic("core: WithAllocator(nil)")
	}
	return func(g *Graph) { g.alloc = a }
}

// WithSeed seeds the graph's PCG random source, making sampling reproducible.
func WithSeed(seed uint64) GraphOption {
	return func(g *Graph) { g.src = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15) }
}

// WithSource sets the random source used by samplers. Panics on nil.
func WithSource(src rand.Source) GraphOption {
	if src == nil {
		panic("core: WithSource(nil)")
	}
	return func(g *Graph) { g.src = src }
}

// WithName sets the graph name used in logs and metric labels.
func WithName(name string) GraphOption {
	return func(g *Graph) {
		if name != "" {
			g.name = name
		}
	}
}

// WithObserver registers an Observer. May be given several times.
func WithObserver(o Observer) GraphOption {
	if o == nil {
		panic("core: WithObserver(nil)")
	}
	return func(g *Graph) { g.observers = append(g.observers, o) }
}

// NewGraph creates an empty Graph. Defaults: process-wide allocator, discard
// logger, randomly seeded PCG source, random UUID name.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		name:   uuid.NewString(),
		alloc:  vertexid.Default(),
		logger: slog.New(slog.DiscardHandler),
		src:    rand.NewPCG(rand.Uint64(), rand.Uint64()),
		byID:   make(map[vertexid.ID]int),
		labels: make(map[string]int),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// VertexOption configures a vertex at creation.
type VertexOption func(*vertexConfig)

type vertexConfig struct {
	label string
	value *tensor.Tensor
}

// WithLabel attaches a human-readable label, unique within the graph.
func WithLabel(label string) VertexOption {
	return func(c *vertexConfig) { c.label = label }
}

// WithInitialValue sets the free value cell of a probabilistic vertex at creation.
func WithInitialValue(t *tensor.Tensor) VertexOption {
	return func(c *vertexConfig) { c.value = t }
}
