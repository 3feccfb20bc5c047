// SPDX-License-Identifier: MIT

package builder

import (
	"fmt"

	"github.com/katalvlaran/probgraph/core"
)

// Chain appends n links to start. Each link fans the current head out
// through two pass-through vertices and joins them with combine, so with the
// defaults the result is 2ⁿ·start built from 3n operations.
//
// Errors: core.ErrNilVertex, ErrTooFewVertices (n < 1), ErrConstructFailed.
func Chain(start *core.Vertex, n int, opts ...BuilderOption) (*core.Vertex, error) {
	if start == nil {
		return nil, wrapf(MethodChain, "%w", core.ErrNilVertex)
	}
	if n < 1 {
		return nil, wrapf(MethodChain, "n=%d: %w", n, ErrTooFewVertices)
	}
	cfg := newBuilderConfig(opts...)
	head, k := start, 0
	var err error
	for i := 0; i < n; i++ {
		if head, err = cfg.link(head, &k); err != nil {
			return nil, wrapf(MethodChain, "link %d: %w", i, err)
		}
	}

	return head, nil
}

// Diamond is a single Chain link: top fans out into two pass-through
// vertices which combine into the returned bottom.
func Diamond(top *core.Vertex, opts ...BuilderOption) (*core.Vertex, error) {
	if top == nil {
		return nil, wrapf(MethodDiamond, "%w", core.ErrNilVertex)
	}
	k := 0
	bottom, err := newBuilderConfig(opts...).link(top, &k)
	if err != nil {
		return nil, wrapf(MethodDiamond, "%w", err)
	}

	return bottom, nil
}

// RandomDAG grows n vertices from root. Each new vertex draws its operands
// uniformly from root and the vertices created before it: with probability
// fan-in it combines two, otherwise it passes one through. The same seed and
// options reproduce the same topology. The returned slice is in creation
// order, so its last element has the largest ID.
func RandomDAG(root *core.Vertex, n int, opts ...BuilderOption) ([]*core.Vertex, error) {
	if root == nil {
		return nil, wrapf(MethodRandomDAG, "%w", core.ErrNilVertex)
	}
	if n < 1 {
		return nil, wrapf(MethodRandomDAG, "n=%d: %w", n, ErrTooFewVertices)
	}
	cfg := newBuilderConfig(opts...)
	pool := make([]*core.Vertex, 1, n+1)
	pool[0] = root
	for k := 0; k < n; k++ {
		var (
			v   *core.Vertex
			err error
		)
		a := pool[cfg.rng.IntN(len(pool))]
		if cfg.rng.Float64() < cfg.fanIn {
			b := pool[cfg.rng.IntN(len(pool))]
			v, err = cfg.combine(a, b, cfg.label(k)...)
		} else {
			v, err = cfg.passThrough(a, cfg.label(k)...)
		}
		if err != nil {
			return nil, wrapf(MethodRandomDAG, "vertex %d: %w", k, joinConstruct(err))
		}
		pool = append(pool, v)
	}

	return pool[1:], nil
}

// link builds one fan-out/fan-in link below head; k counts created vertices
// for labelling.
func (c builderConfig) link(head *core.Vertex, k *int) (*core.Vertex, error) {
	left, err := c.passThrough(head, c.label(*k)...)
	if err != nil {
		return nil, joinConstruct(err)
	}
	right, err := c.passThrough(head, c.label(*k+1)...)
	if err != nil {
		return nil, joinConstruct(err)
	}
	out, err := c.combine(left, right, c.label(*k+2)...)
	if err != nil {
		return nil, joinConstruct(err)
	}
	*k += 3

	return out, nil
}

func joinConstruct(err error) error {
	return fmt.Errorf("%w: %w", ErrConstructFailed, err)
}
