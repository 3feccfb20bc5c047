// SPDX-License-Identifier: MIT
// Package core_test contains fixtures shared by the core tests.

package core_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/probgraph/core"
	"github.com/katalvlaran/probgraph/tensor"
	"github.com/katalvlaran/probgraph/vertexid"
)

// passSpec forwards its single operand.
var passSpec = &core.OpSpec{
	Tag: "pass",
	Calculate: func(in core.Operands) (*tensor.Tensor, error) {
		return in.Inputs[0], nil
	},
}

// addSpec adds two operands with broadcasting.
var addSpec = &core.OpSpec{
	Tag: "add",
	Shape: func(in [][]int, _ core.Params) ([]int, error) {
		return tensor.BroadcastShapes(in...)
	},
	Calculate: func(in core.Operands) (*tensor.Tensor, error) {
		return tensor.Add(in.Inputs[0], in.Inputs[1])
	},
}

// constSpec returns Params.Value.
var constSpec = &core.OpSpec{
	Tag: "const",
	Calculate: func(in core.Operands) (*tensor.Tensor, error) {
		return in.Params.Value, nil
	},
}

// counter counts local computations per vertex.
type counter struct {
	calc   map[vertexid.ID]int
	sample map[vertexid.ID]int
	diff   int
}

func newCounter() *counter {
	return &counter{calc: map[vertexid.ID]int{}, sample: map[vertexid.ID]int{}}
}

func (c *counter) OnCalculate(v *core.Vertex)                   { c.calc[v.ID()]++ }
func (c *counter) OnSample(v *core.Vertex)                      { c.sample[v.ID()]++ }
func (c *counter) OnDifferentiate(*core.Vertex, core.DiffMode) { c.diff++ }

func (c *counter) totalCalc() int {
	n := 0
	for _, k := range c.calc {
		n += k
	}
	return n
}

func (c *counter) reset() {
	c.calc = map[vertexid.ID]int{}
	c.sample = map[vertexid.ID]int{}
	c.diff = 0
}

// newTestGraph returns a graph with a private allocator and a counter.
func newTestGraph(t *testing.T) (*core.Graph, *counter) {
	t.Helper()
	c := newCounter()
	g := core.NewGraph(
		core.WithAllocator(vertexid.NewAllocator()),
		core.WithObserver(c),
		core.WithSeed(1),
		core.WithName("test"),
	)
	return g, c
}

func scalarInput(t *testing.T, g *core.Graph, v float64, label string) *core.Vertex {
	t.Helper()
	in, err := g.NewInput(nil, core.WithLabel(label))
	require.NoError(t, err)
	require.NoError(t, in.SetValue(tensor.Scalar(v)))
	return in
}

func op(t *testing.T, g *core.Graph, spec *core.OpSpec, operands ...*core.Vertex) *core.Vertex {
	t.Helper()
	v, err := g.NewOperation(spec, core.Params{}, operands)
	require.NoError(t, err)
	return v
}

func scalarOf(t *testing.T, v *core.Vertex) float64 {
	t.Helper()
	val, err := v.Value()
	require.NoError(t, err)
	return val.ScalarValue()
}

// constSampler always draws the same value and counts its calls.
type constSampler struct {
	value float64
	calls int
}

func (s *constSampler) Sample(_ []*tensor.Tensor, shape []int, _ rand.Source) (*tensor.Tensor, error) {
	s.calls++
	return tensor.Fill(s.value, shape...), nil
}
