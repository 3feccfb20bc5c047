// SPDX-License-Identifier: MIT
//
// File: reverse.go
// Role: Reverse-mode differentiation.
//
// Complexity:
//   - Time:  O((V + E)·log V) queue work plus one local Reverse call per
//     differentiable operator between the output and the targets.
//   - Space: O(V) adjoints; each is released once its vertex is popped.

package autodiff

import (
	"fmt"

	"github.com/tidwall/btree"

	"github.com/katalvlaran/probgraph/core"
	"github.com/katalvlaran/probgraph/partial"
	"github.com/katalvlaran/probgraph/tensor"
	"github.com/katalvlaran/probgraph/vertexid"
)

// ReverseModeAutoDiff returns ∂of/∂w for every w in wrt that of depends on
// through differentiable operators, keyed by w's ID with shape
// [of-shape..., w-shape...]. Targets are sinks: the sweep does not continue
// past them. An observed output is constant and yields an empty result.
//
// Implementation:
//   - Stage 1: lazily evaluate of; seed its adjoint with the identity
//     (or Options.Adjoint).
//   - Stage 2: pop vertices in descending ID order. A popped vertex has
//     received the adjoint contributions of all its consumers, since they
//     carry larger IDs.
//   - Stage 3: targets move their adjoint into the result; differentiable
//     operators pass theirs to their parents through Reverse.
func ReverseModeAutoDiff(of *core.Vertex, wrt []*core.Vertex, opts ...Option) (partial.Derivatives, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return partial.Derivatives{}, err
	}
	if of == nil {
		return partial.Derivatives{}, fmt.Errorf("autodiff.ReverseModeAutoDiff: %w", core.ErrNilVertex)
	}
	g := of.Graph()
	targets := make(map[int]bool, len(wrt))
	for _, w := range wrt {
		if err := sameGraph("ReverseModeAutoDiff", g, w); err != nil {
			return partial.Derivatives{}, err
		}
		targets[w.Index()] = true
	}
	if err := core.LazyEval(of); err != nil {
		return partial.Derivatives{}, err
	}
	if of.IsObserved() {
		return partial.Empty(), nil
	}

	seed, lead, err := reverseSeed(of, o.Adjoint)
	if err != nil {
		return partial.Derivatives{}, err
	}
	key := of.ID()
	adjoints := map[int]partial.Derivatives{
		of.Index(): partial.New(map[vertexid.ID]*tensor.Tensor{key: seed}),
	}
	queue := btree.NewBTreeG[*core.Vertex](byID)
	queue.Set(of)
	queued := map[int]bool{of.Index(): true}
	result := make(map[vertexid.ID]*tensor.Tensor, len(wrt))

	for {
		u, ok := queue.PopMax()
		if !ok {
			break
		}
		adj := adjoints[u.Index()]
		delete(adjoints, u.Index())

		if targets[u.Index()] {
			if t, ok := adj.WithRespectTo(key); ok {
				want := append(append([]int{}, lead...), u.Shape()...)
				if !tensor.SameShape(t.Shape(), want) {
					return partial.Derivatives{}, fmt.Errorf("autodiff.reverse(%s): %w: %v, want %v", u, ErrPartialShape, t.Shape(), want)
				}
				result[u.ID()] = t
			}
			continue
		}
		if isLeaf(u) || adj.IsEmpty() {
			continue
		}

		parents, err := reverseLocal(u, adj)
		if err != nil {
			return partial.Derivatives{}, err
		}
		for i, p := range u.Operands() {
			if !p.IsDifferentiable() || parents[i].IsEmpty() {
				continue
			}
			sum, err := adjoints[p.Index()].Add(parents[i])
			if err != nil {
				return partial.Derivatives{}, fmt.Errorf("autodiff.reverse(%s): %w", p, err)
			}
			adjoints[p.Index()] = sum
			if !queued[p.Index()] {
				queued[p.Index()] = true
				queue.Set(p)
			}
		}
	}
	g.Logger().Debug("reverse mode", "graph", g.Name(), "of", of.String(), "requested", len(wrt), "reached", len(result))

	return partial.New(result), nil
}

// reverseLocal pulls u's adjoint back to one adjoint per operand.
func reverseLocal(u *core.Vertex, adj partial.Derivatives) ([]partial.Derivatives, error) {
	spec := u.Op()
	if spec.Reverse == nil {
		return nil, fmt.Errorf("autodiff.reverse(%s): %w: %s", u, ErrDifferentiationUnsupported, spec.Tag)
	}
	in, err := u.OperandsValue()
	if err != nil {
		return nil, err
	}
	parents, err := spec.Reverse(in, adj)
	if err != nil {
		return nil, fmt.Errorf("autodiff.reverse(%s): %w", u, err)
	}
	u.Graph().Observer().OnDifferentiate(u, core.ReverseMode)
	if len(parents) != len(in.Inputs) {
		return nil, fmt.Errorf("autodiff.reverse(%s): %w: %d adjoints for %d operands", u, ErrPartialShape, len(parents), len(in.Inputs))
	}

	return parents, nil
}

// reverseSeed returns the starting adjoint and its leading block.
func reverseSeed(of *core.Vertex, adjoint *tensor.Tensor) (*tensor.Tensor, []int, error) {
	shape := of.Shape()
	if adjoint == nil {
		return tensor.Identity(shape), shape, nil
	}
	s := adjoint.Shape()
	if len(s) < len(shape) || !tensor.SameShape(s[len(s)-len(shape):], shape) {
		return nil, nil, fmt.Errorf("autodiff.ReverseModeAutoDiff(%s): %w: adjoint %v for output %v", of, ErrPartialShape, s, shape)
	}

	return adjoint, s[:len(s)-len(shape)], nil
}
