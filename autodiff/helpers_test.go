// SPDX-License-Identifier: MIT

package autodiff_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/probgraph/core"
	"github.com/katalvlaran/probgraph/tensor"
	"github.com/katalvlaran/probgraph/vertexid"
)

const tol = 1e-5

// counts tallies local computations by kind.
type counts struct {
	calc, sample int
	diff         map[core.DiffMode]int
}

func (c *counts) OnCalculate(*core.Vertex) { c.calc++ }
func (c *counts) OnSample(*core.Vertex)    { c.sample++ }
func (c *counts) OnDifferentiate(_ *core.Vertex, m core.DiffMode) {
	c.diff[m]++
}

func newGraph(t *testing.T) (*core.Graph, *counts) {
	t.Helper()
	c := &counts{diff: map[core.DiffMode]int{}}
	g := core.NewGraph(core.WithAllocator(vertexid.NewAllocator()), core.WithObserver(c), core.WithSeed(3))
	return g, c
}

// latent adds an unobserved random variable holding value.
func latent(t *testing.T, g *core.Graph, value *tensor.Tensor, label string) *core.Vertex {
	t.Helper()
	v, err := g.NewInput(value.Shape(), core.WithInitialValue(value), core.WithLabel(label))
	require.NoError(t, err)
	return v
}

func must(t *testing.T) func(*core.Vertex, error) *core.Vertex {
	return func(v *core.Vertex, err error) *core.Vertex {
		t.Helper()
		require.NoError(t, err)
		return v
	}
}
