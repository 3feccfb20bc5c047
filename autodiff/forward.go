// SPDX-License-Identifier: MIT
//
// File: forward.go
// Role: Forward-mode differentiation.
//
// Complexity:
//   - Time:  O(V + E) traversal plus one local Forward call per differentiable
//     operator on a path from a latent to the output.
//   - Space: O(V) partials held until the sweep ends.

package autodiff

import (
	"fmt"

	"github.com/tidwall/btree"

	"github.com/katalvlaran/probgraph/core"
	"github.com/katalvlaran/probgraph/dfs"
	"github.com/katalvlaran/probgraph/partial"
	"github.com/katalvlaran/probgraph/tensor"
	"github.com/katalvlaran/probgraph/vertexid"
)

// ForwardModeAutoDiff returns the partials of v with respect to every latent
// random variable it depends on, keyed by their IDs.
//
// Implementation:
//   - Stage 1: lazily evaluate v so every ancestor holds a value.
//   - Stage 2: iterative post-order over differentiable parents; random
//     variables, constants, observed and non-differentiable vertices are
//     leaves.
//   - Stage 3: on exit, combine the operand partials through the operator's
//     Forward function. Each vertex is differentiated once.
func ForwardModeAutoDiff(v *core.Vertex) (partial.Derivatives, error) {
	if v == nil {
		return partial.Derivatives{}, fmt.Errorf("autodiff.ForwardModeAutoDiff: %w", core.ErrNilVertex)
	}
	if err := core.LazyEval(v); err != nil {
		return partial.Derivatives{}, err
	}
	g := v.Graph()

	partials := make(map[int]partial.Derivatives)
	lookup := func(o *core.Vertex) partial.Derivatives { return partials[o.Index()] }
	deps := func(i int) []int {
		u := g.At(i)
		if isLeaf(u) {
			return nil
		}
		return u.ParentIndices()
	}
	differentiable := func(_, p int) bool { return g.At(p).IsDifferentiable() }

	var hookErr error
	res, err := dfs.PostOrder([]int{v.Index()}, deps,
		dfs.WithFilterNeighbor(differentiable),
		dfs.WithOnExit(func(i int) error {
			d, err := forwardLocal(g.At(i), lookup)
			if err != nil {
				hookErr = err
				return err
			}
			partials[i] = d
			return nil
		}),
	)
	if hookErr != nil {
		return partial.Derivatives{}, hookErr
	}
	if err != nil {
		return partial.Derivatives{}, fmt.Errorf("autodiff.ForwardModeAutoDiff(%s): %w", v, err)
	}
	g.Logger().Debug("forward mode", "graph", g.Name(), "of", v.String(),
		"wrt", partials[v.Index()].Len(), "pruned", res.SkippedNeighbors)

	return partials[v.Index()], nil
}

// ForwardModeWithRespectTo pushes the identity partial of wrt through its
// differentiable descendants in ascending ID order and returns, for each of
// the given outputs reached, its partial with respect to wrt. Outputs are
// sinks; an output not reached is absent from the result.
func ForwardModeWithRespectTo(wrt *core.Vertex, of ...*core.Vertex) (map[vertexid.ID]partial.Derivatives, error) {
	if wrt == nil {
		return nil, fmt.Errorf("autodiff.ForwardModeWithRespectTo: %w", core.ErrNilVertex)
	}
	g := wrt.Graph()
	sinks := make(map[int]bool, len(of))
	for _, o := range of {
		if err := sameGraph("ForwardModeWithRespectTo", g, o); err != nil {
			return nil, err
		}
		sinks[o.Index()] = true
	}
	if err := core.LazyEval(wrt); err != nil {
		return nil, err
	}

	partials := map[int]partial.Derivatives{
		wrt.Index(): partial.WithRespectToSelf(wrt.ID(), wrt.Shape()),
	}
	lookup := func(o *core.Vertex) partial.Derivatives { return partials[o.Index()] }
	queue := btree.NewBTreeG[*core.Vertex](byID)
	queued := map[int]bool{wrt.Index(): true}
	out := make(map[vertexid.ID]partial.Derivatives, len(of))

	for u := wrt; u != nil; u = popMin(queue) {
		if u != wrt {
			if !u.HasValue() {
				if err := core.LazyEval(u); err != nil {
					return nil, err
				}
			}
			d, err := forwardLocal(u, lookup)
			if err != nil {
				return nil, err
			}
			partials[u.Index()] = d
		}
		if sinks[u.Index()] {
			out[u.ID()] = partials[u.Index()]
			continue
		}
		for _, c := range u.Children() {
			if c.IsProbabilistic() || !c.IsDifferentiable() || queued[c.Index()] {
				continue
			}
			queued[c.Index()] = true
			queue.Set(c)
		}
	}
	g.Logger().Debug("forward mode wrt", "graph", g.Name(), "wrt", wrt.String(), "reached", len(out))

	return out, nil
}

// forwardLocal computes the forward partial of u from its operands' partials.
func forwardLocal(u *core.Vertex, lookup func(*core.Vertex) partial.Derivatives) (partial.Derivatives, error) {
	if u.IsProbabilistic() {
		if u.IsObserved() {
			return partial.Empty(), nil
		}
		return partial.WithRespectToSelf(u.ID(), u.Shape()), nil
	}
	if isLeaf(u) {
		return partial.Empty(), nil
	}

	operands := u.Operands()
	dIn := make([]partial.Derivatives, len(operands))
	live := false
	for i, o := range operands {
		dIn[i] = lookup(o)
		live = live || !dIn[i].IsEmpty()
	}
	if !live {
		return partial.Empty(), nil
	}
	spec := u.Op()
	if spec.Forward == nil {
		return partial.Derivatives{}, fmt.Errorf("autodiff.forward(%s): %w: %s", u, ErrDifferentiationUnsupported, spec.Tag)
	}
	in, err := u.OperandsValue()
	if err != nil {
		return partial.Derivatives{}, err
	}
	d, err := spec.Forward(in, dIn)
	if err != nil {
		return partial.Derivatives{}, fmt.Errorf("autodiff.forward(%s): %w", u, err)
	}
	u.Graph().Observer().OnDifferentiate(u, core.ForwardMode)
	if err := checkOfBlock(u, d); err != nil {
		return partial.Derivatives{}, err
	}

	return d, nil
}

// isLeaf reports whether u stops a differentiation sweep: random variables,
// constants, observed values and non-differentiable operators.
func isLeaf(u *core.Vertex) bool {
	return u.IsProbabilistic() || u.IsConstant() || u.IsObserved() || !u.IsDifferentiable()
}

// checkOfBlock verifies that every entry of d starts with u's shape.
func checkOfBlock(u *core.Vertex, d partial.Derivatives) error {
	of := u.Shape()
	for _, id := range d.IDs() {
		t, _ := d.WithRespectTo(id)
		s := t.Shape()
		if len(s) < len(of) || !tensor.SameShape(s[:len(of)], of) {
			return fmt.Errorf("autodiff.forward(%s): %w: %v wrt %s, want of-block %v", u, ErrPartialShape, s, id, of)
		}
	}

	return nil
}

func byID(a, b *core.Vertex) bool { return a.ID().Less(b.ID()) }

func popMin(q *btree.BTreeG[*core.Vertex]) *core.Vertex {
	v, ok := q.PopMin()
	if !ok {
		return nil
	}

	return v
}

func sameGraph(tag string, g *core.Graph, v *core.Vertex) error {
	if v == nil {
		return fmt.Errorf("autodiff.%s: %w", tag, core.ErrNilVertex)
	}
	if v.Graph() != g {
		return fmt.Errorf("autodiff.%s: %w: %s", tag, core.ErrForeignVertex, v)
	}

	return nil
}
