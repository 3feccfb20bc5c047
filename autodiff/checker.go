// SPDX-License-Identifier: MIT
//
// File: checker.go
// Role: Differentiability check with respect to latent random variables.

package autodiff

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/probgraph/bfs"
	"github.com/katalvlaran/probgraph/core"
)

// errStop aborts a breadth-first search from a visit hook.
var errStop = errors.New("autodiff: stop")

// IsDifferentiableWrtLatents reports whether the values of vs can be
// differentiated with respect to the latent random variables they depend on:
// walking up from their parents to the next random variable, every
// non-differentiable vertex met must be constant valued.
//
//	latent  latent              const  const
//	    \    /                     \    /
//	  greaterThan  → false       greaterThan  → true
//	       |                          |
//	      (v)                        (v)
//
// A vertex is constant valued when it is a constant, observed, or all of its
// ancestors up to the next random variables are constants or observed.
func IsDifferentiableWrtLatents(vs ...*core.Vertex) (bool, error) {
	if len(vs) == 0 {
		return true, nil
	}
	g := vs[0].Graph()
	seen := make(map[int]bool)
	var starts []int
	for _, v := range vs {
		if err := sameGraph("IsDifferentiableWrtLatents", g, v); err != nil {
			return false, err
		}
		for _, p := range v.ParentIndices() {
			if !seen[p] {
				seen[p] = true
				starts = append(starts, p)
			}
		}
	}
	if len(starts) == 0 {
		return true, nil
	}

	constant := make(map[int]bool)
	parents := func(i int) []int { return g.At(i).ParentIndices() }
	belowRandom := func(curr, _ int) bool { return !g.At(curr).IsProbabilistic() }
	blocker := -1
	res, err := bfs.BFS(starts, parents,
		bfs.WithFilterNeighbor(belowRandom),
		bfs.WithOnVisit(func(i, _ int) error {
			u := g.At(i)
			if u.IsDifferentiable() {
				return nil
			}
			ok, err := isConstantValued(g, u, constant)
			if err != nil {
				return err
			}
			if !ok {
				blocker = i
				return errStop
			}
			return nil
		}),
	)
	if errors.Is(err, errStop) {
		if path, perr := res.PathTo(blocker); perr == nil {
			via := make([]string, len(path))
			for k, i := range path {
				via[k] = g.At(i).String()
			}
			g.Logger().Debug("not differentiable wrt latents", "graph", g.Name(), "path", via)
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("autodiff.IsDifferentiableWrtLatents: %w", err)
	}

	return true, nil
}

// isConstantValued searches the ancestors of u for an unobserved random
// variable. Vertices proven constant are cached.
func isConstantValued(g *core.Graph, u *core.Vertex, cache map[int]bool) (bool, error) {
	known := func(v *core.Vertex) bool {
		return v.IsConstant() || v.IsObserved() || cache[v.Index()]
	}
	if known(u) {
		return true, nil
	}
	parents := func(i int) []int { return g.At(i).ParentIndices() }
	res, err := bfs.BFS([]int{u.Index()}, parents,
		bfs.WithFilterNeighbor(func(curr, _ int) bool { return !known(g.At(curr)) }),
		bfs.WithOnVisit(func(i, _ int) error {
			v := g.At(i)
			if v.IsProbabilistic() && !v.IsObserved() {
				return errStop
			}
			return nil
		}),
	)
	if errors.Is(err, errStop) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	for _, i := range res.Order {
		cache[i] = true
	}

	return true, nil
}
