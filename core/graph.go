// SPDX-License-Identifier: MIT
//
// File: graph.go
// Role: Vertex construction and arena queries.
//
// Determinism:
//   - Vertices() returns vertices in ascending ID order.
//
// Concurrency:
//   - Construction and queries take mu; value cells are left to the caller.

package core

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"

	"github.com/katalvlaran/probgraph/tensor"
	"github.com/katalvlaran/probgraph/vertexid"
)

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// Logger returns the graph logger.
func (g *Graph) Logger() *slog.Logger { return g.logger }

// Source returns the random source samplers draw from.
func (g *Graph) Source() rand.Source { return g.src }

// Observer returns the registered observers as one Observer. Never nil.
func (g *Graph) Observer() Observer { return g.observers }

// Allocator returns the ID allocator in effect.
func (g *Graph) Allocator() *vertexid.Allocator {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.alloc
}

// NewProbabilistic adds a random variable of the given shape. parents are the
// vertices the sampler reads (e.g. mean and deviation); sampler may be nil for
// an input whose value is always supplied externally.
//
// Complexity: O(len(parents)·log) for the adjacency update.
func (g *Graph) NewProbabilistic(shape []int, sampler Sampler, parents []*Vertex, opts ...VertexOption) (*Vertex, error) {
	if hasNegative(shape) {
		return nil, fmt.Errorf("core.NewProbabilistic: %w: %v", tensor.ErrBadShape, shape)
	}
	cfg := applyVertexOptions(opts)
	v := &Vertex{kind: Probabilistic, sampler: sampler, shape: append([]int{}, shape...), label: cfg.label}
	v.value = tensor.Placeholder(shape...)
	if cfg.value != nil {
		if err := checkInitial("NewProbabilistic", cfg.value, v.shape); err != nil {
			return nil, err
		}
		v.value = cfg.value
	}
	if err := g.attach(v, parents); err != nil {
		return nil, err
	}
	g.logger.Debug("vertex added", "graph", g.name, "id", v.id.String(), "kind", v.kind.String())

	return v, nil
}

// NewInput adds a probabilistic vertex without parents or sampler: a
// placeholder to be fed with SetValue or Observe.
func (g *Graph) NewInput(shape []int, opts ...VertexOption) (*Vertex, error) {
	return g.NewProbabilistic(shape, nil, nil, opts...)
}

// NewOperation adds a deterministic vertex computing spec over operands. The
// output shape is inferred by spec.Shape. A vertex without operands is a
// constant and is calculated immediately.
func (g *Graph) NewOperation(spec *OpSpec, params Params, operands []*Vertex, opts ...VertexOption) (*Vertex, error) {
	if spec == nil || spec.Calculate == nil {
		return nil, ErrNilOp
	}
	for _, o := range operands {
		if o == nil {
			return nil, fmt.Errorf("core.NewOperation(%s): %w", spec.Tag, ErrNilVertex)
		}
	}
	shapes := make([][]int, len(operands))
	for i, o := range operands {
		shapes[i] = o.Shape()
	}
	var shape []int
	if spec.Shape != nil {
		s, err := spec.Shape(shapes, params)
		if err != nil {
			return nil, fmt.Errorf("core.NewOperation(%s): %w", spec.Tag, err)
		}
		shape = s
	} else if len(shapes) > 0 {
		shape = shapes[0]
	} else if params.Value != nil {
		shape = params.Value.Shape()
	}

	cfg := applyVertexOptions(opts)
	v := &Vertex{
		kind:   NonProbabilistic,
		spec:   spec,
		params: params,
		shape:  append([]int{}, shape...),
		label:  cfg.label,
		value:  tensor.Placeholder(shape...),
	}
	// A constant is computed before it is linked so a failure leaves the
	// graph untouched.
	constant := len(operands) == 0
	if constant {
		t, err := spec.Calculate(Operands{Params: params})
		if err != nil {
			return nil, fmt.Errorf("core.NewOperation(%s): %w", spec.Tag, err)
		}
		if err := checkInitial("NewOperation", t, v.shape); err != nil {
			return nil, err
		}
		v.value = t
	}
	if err := g.attach(v, operands); err != nil {
		return nil, err
	}
	if constant {
		g.observers.OnCalculate(v)
	}
	g.logger.Debug("vertex added", "graph", g.name, "id", v.id.String(), "op", string(spec.Tag))

	return v, nil
}

// attach validates operands, allocates an ID and links v into the arena.
func (g *Graph) attach(v *Vertex, operands []*Vertex) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, o := range operands {
		if o == nil {
			return ErrNilVertex
		}
		if o.g != g {
			return fmt.Errorf("core.attach: %w: %s", ErrForeignVertex, o)
		}
	}
	if v.label != "" {
		if _, dup := g.labels[v.label]; dup {
			return fmt.Errorf("core.attach: %w: %q", ErrDuplicateLabel, v.label)
		}
	}

	v.g = g
	v.id = g.alloc.Next()
	v.index = len(g.vertices)
	v.operands = make([]int, len(operands))
	for i, o := range operands {
		if !o.id.Less(v.id) {
			return fmt.Errorf("core.attach: %w: parent %s, child %s", ErrIDOrder, o.id, v.id)
		}
		v.operands[i] = o.index
	}
	v.parents = uniqueSorted(v.operands)

	g.vertices = append(g.vertices, v)
	g.byID[v.id] = v.index
	if v.label != "" {
		g.labels[v.label] = v.index
	}
	for _, p := range v.parents {
		parent := g.vertices[p]
		parent.children = append(parent.children, v.index)
	}

	return nil
}

// Len returns the number of vertices.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.vertices)
}

// Vertices returns all vertices in ascending ID order.
func (g *Graph) Vertices() []*Vertex {
	g.mu.RLock()
	out := append([]*Vertex(nil), g.vertices...)
	g.mu.RUnlock()
	sortByID(out)

	return out
}

// Lookup returns the vertex with the given ID.
func (g *Graph) Lookup(id vertexid.ID) (*Vertex, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	i, ok := g.byID[id]
	if !ok {
		return nil, false
	}

	return g.vertices[i], true
}

// ByLabel returns the vertex with the given label.
func (g *Graph) ByLabel(label string) (*Vertex, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	i, ok := g.labels[label]
	if !ok {
		return nil, false
	}

	return g.vertices[i], true
}

// Nested runs build with a nested ID scope: every vertex created inside gets
// an ID prefixed by a freshly allocated scope ID, so a repeated sub-model's
// vertices sort together and after everything created before the scope. The
// scope ID is returned. Scopes may nest.
func (g *Graph) Nested(build func() error) (vertexid.ID, error) {
	g.mu.Lock()
	outer := g.alloc
	prefix := outer.Next()
	g.alloc = outer.Nested(prefix)
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.alloc = outer
		g.mu.Unlock()
	}()

	return prefix, build()
}

// Validate re-checks the structural invariants of the whole graph: sorted,
// symmetric adjacency; parent IDs smaller than child IDs; no dependency cycle.
func (g *Graph) Validate() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, v := range g.vertices {
		if !isSortedUnique(v.parents) || !isSortedUnique(v.children) {
			return fmt.Errorf("core.Validate(%s): %w: unsorted adjacency", v, ErrAdjacency)
		}
		for _, p := range v.parents {
			parent := g.vertices[p]
			if !parent.id.Less(v.id) {
				return fmt.Errorf("core.Validate(%s): %w: parent %s", v, ErrIDOrder, parent)
			}
			if !containsSorted(parent.children, v.index) {
				return fmt.Errorf("core.Validate(%s): %w: missing from children of %s", v, ErrAdjacency, parent)
			}
		}
		for _, c := range v.children {
			if !containsSorted(g.vertices[c].parents, v.index) {
				return fmt.Errorf("core.Validate(%s): %w: missing from parents of %s", v, ErrAdjacency, g.vertices[c])
			}
		}
	}

	return g.checkAcyclic()
}

// At returns the vertex at arena index i (see Vertex.Index), or nil when i is
// out of range.
func (g *Graph) At(i int) *Vertex {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if i < 0 || i >= len(g.vertices) {
		return nil
	}

	return g.vertices[i]
}

// vertexAt returns the vertex at arena index i.
func (g *Graph) vertexAt(i int) *Vertex {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.vertices[i]
}

// checkInitial validates a value supplied before the vertex exists.
func checkInitial(tag string, t *tensor.Tensor, shape []int) error {
	if t == nil {
		return fmt.Errorf("core.%s: %w", tag, tensor.ErrNilTensor)
	}
	if !tensor.SameShape(t.Shape(), shape) {
		return fmt.Errorf("core.%s: %w: got %v, vertex shape %v", tag, tensor.ErrShapeMismatch, t.Shape(), shape)
	}

	return nil
}

func applyVertexOptions(opts []VertexOption) vertexConfig {
	var cfg vertexConfig
	for _, o := range opts {
		o(&cfg)
	}

	return cfg
}

func hasNegative(shape []int) bool {
	for _, d := range shape {
		if d < 0 {
			return true
		}
	}

	return false
}

func uniqueSorted(xs []int) []int {
	out := append([]int(nil), xs...)
	sort.Ints(out)
	w := 0
	for i, x := range out {
		if i == 0 || x != out[w-1] {
			out[w] = x
			w++
		}
	}

	return out[:w]
}

func isSortedUnique(xs []int) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return false
		}
	}

	return true
}

func containsSorted(xs []int, x int) bool {
	i := sort.SearchInts(xs, x)
	return i < len(xs) && xs[i] == x
}

func sortByID(vs []*Vertex) {
	sort.Slice(vs, func(i, j int) bool { return vs[i].id.Less(vs[j].id) })
}
