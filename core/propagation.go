// SPDX-License-Identifier: MIT
//
// File: propagation.go
// Role: Value propagation passes over the vertex graph.
//
//	LazyEval      iterative post-order toward parents lacking a value
//	Eval          iterative post-order over all deterministic ancestors
//	CascadeUpdate ascending-ID queue over deterministic descendants
//	Discover      breadth-first search over parents ∪ children
//
// Every pass computes each vertex at most once: the post-order walks colour
// vertices Black on exit, and the cascade queue is a set keyed by ID.

package core

import (
	"errors"
	"fmt"

	"github.com/tidwall/btree"

	"github.com/katalvlaran/probgraph/bfs"
	"github.com/katalvlaran/probgraph/dfs"
)

// LazyEval ensures every vs has a value, computing only vertices that lack one.
// A vertex that already has a value is never recomputed and its ancestors are
// not visited. Probabilistic vertices lacking a value are sampled from their
// parents' values; without a sampler that is ErrUnresolvedPlaceholder.
func LazyEval(vs ...*Vertex) error {
	g, roots, err := arenaOf("LazyEval", vs)
	if err != nil || g == nil {
		return err
	}

	computed := 0
	deps := func(i int) []int {
		v := g.vertexAt(i)
		if v.HasValue() {
			return nil
		}
		var missing []int
		for _, p := range v.parents {
			if !g.vertexAt(p).HasValue() {
				missing = append(missing, p)
			}
		}
		return missing
	}
	exit := func(v *Vertex) error {
		if v.HasValue() {
			return nil
		}
		computed++
		if v.kind == Probabilistic {
			return v.sample()
		}
		return v.calculate()
	}
	if err := g.postOrder(roots, deps, exit); err != nil {
		return err
	}
	g.logger.Debug("lazy eval", "graph", g.name, "roots", len(roots), "computed", computed)

	return nil
}

// Eval recomputes every deterministic vertex reachable from vs toward parents.
// The walk stops at probabilistic vertices: they keep their value and are only
// sampled when they have none, after their missing parents are computed in the
// same walk. Observed deterministic vertices keep their
// observation.
func Eval(vs ...*Vertex) error {
	g, roots, err := arenaOf("Eval", vs)
	if err != nil || g == nil {
		return err
	}

	computed := 0
	deps := func(i int) []int {
		v := g.vertexAt(i)
		if v.kind != Probabilistic {
			return v.parents
		}
		if v.HasValue() {
			return nil
		}
		// A random variable about to be sampled needs only its missing
		// parents, and they join this walk so each is computed once.
		var missing []int
		for _, p := range v.parents {
			if !g.vertexAt(p).HasValue() {
				missing = append(missing, p)
			}
		}
		return missing
	}
	exit := func(v *Vertex) error {
		switch {
		case v.kind == Probabilistic:
			if v.HasValue() {
				return nil
			}
			computed++
			return v.sample()
		case v.isObserved:
			return nil
		default:
			computed++
			return v.calculate()
		}
	}
	if err := g.postOrder(roots, deps, exit); err != nil {
		return err
	}
	g.logger.Debug("eval", "graph", g.name, "roots", len(roots), "computed", computed)

	return nil
}

// CascadeUpdate recomputes the deterministic descendants of sources after their
// values changed. Vertices are processed in ascending ID order, so each one is
// recomputed exactly once, after all of its updated parents. Sources themselves
// are not recomputed. Propagation stops at probabilistic vertices and at
// observed deterministic vertices, whose values cannot change.
func CascadeUpdate(sources ...*Vertex) error {
	g, roots, err := arenaOf("CascadeUpdate", sources)
	if err != nil || g == nil {
		return err
	}

	queue := btree.NewBTreeG[*Vertex](func(a, b *Vertex) bool { return a.id.Less(b.id) })
	queued := make(map[int]bool, len(roots))
	for _, r := range roots {
		queued[r] = true
	}
	enqueueChildren := func(v *Vertex) {
		for _, c := range v.Children() {
			if c.kind == Probabilistic || queued[c.index] {
				continue
			}
			queued[c.index] = true
			queue.Set(c)
		}
	}
	for _, r := range roots {
		enqueueChildren(g.vertexAt(r))
	}

	recomputed := 0
	for {
		v, ok := queue.PopMin()
		if !ok {
			break
		}
		if v.isObserved {
			continue
		}
		if err := v.ensureOperands(); err != nil {
			return err
		}
		if err := v.calculate(); err != nil {
			return err
		}
		recomputed++
		enqueueChildren(v)
	}
	g.logger.Debug("cascade", "graph", g.name, "sources", len(roots), "recomputed", recomputed)

	return nil
}

// Discover returns the connected component of seed over parent and child
// edges, in ascending ID order.
func Discover(seed *Vertex) ([]*Vertex, error) {
	if seed == nil {
		return nil, ErrNilVertex
	}
	g := seed.g
	res, err := bfs.BFS([]int{seed.index}, func(i int) []int {
		v := g.vertexAt(i)
		g.mu.RLock()
		out := make([]int, 0, len(v.parents)+len(v.children))
		out = append(append(out, v.parents...), v.children...)
		g.mu.RUnlock()
		return out
	})
	if err != nil {
		return nil, fmt.Errorf("core.Discover(%s): %w", seed, err)
	}
	out := g.resolve(res.Order)
	sortByID(out)

	return out, nil
}

// ensureOperands lazily evaluates operands that have no value yet, e.g. a
// branch of the graph never evaluated before the cascade reached it.
func (v *Vertex) ensureOperands() error {
	var missing []*Vertex
	for _, o := range v.Parents() {
		if !o.HasValue() {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	return LazyEval(missing...)
}

// postOrder runs dfs.PostOrder and unwraps errors raised by exit.
func (g *Graph) postOrder(roots []int, deps dfs.Deps, exit func(*Vertex) error) error {
	var hookErr error
	_, err := dfs.PostOrder(roots, deps, dfs.WithOnExit(func(i int) error {
		if e := exit(g.vertexAt(i)); e != nil {
			hookErr = e
			return e
		}
		return nil
	}))
	if hookErr != nil {
		return hookErr
	}
	if errors.Is(err, dfs.ErrCycleDetected) {
		return fmt.Errorf("%w: %w", ErrCycleDetected, err)
	}

	return err
}

// checkAcyclic walks every vertex toward its parents and reports a cycle.
// The caller holds g.mu.
func (g *Graph) checkAcyclic() error {
	roots := make([]int, len(g.vertices))
	for i := range roots {
		roots[i] = i
	}
	_, err := dfs.PostOrder(roots, func(i int) []int { return g.vertices[i].parents })
	if errors.Is(err, dfs.ErrCycleDetected) {
		return fmt.Errorf("core.Validate: %w: %w", ErrCycleDetected, err)
	}

	return err
}

// arenaOf checks that vs are non-nil vertices of one graph and returns it with
// their arena indices. An empty vs yields a nil graph.
func arenaOf(tag string, vs []*Vertex) (*Graph, []int, error) {
	if len(vs) == 0 {
		return nil, nil, nil
	}
	var g *Graph
	idx := make([]int, len(vs))
	for i, v := range vs {
		if v == nil {
			return nil, nil, fmt.Errorf("core.%s: %w", tag, ErrNilVertex)
		}
		if g == nil {
			g = v.g
		} else if v.g != g {
			return nil, nil, fmt.Errorf("core.%s: %w: %s", tag, ErrForeignVertex, v)
		}
		idx[i] = v.index
	}

	return g, idx, nil
}
