// SPDX-License-Identifier: MIT
//
// File: op.go
// Role: Contracts between the graph engine and the outside world: operator
// specs (value, forward and reverse derivative functions), samplers for random
// variables, and observers notified of every local computation.

package core

import (
	"math/rand/v2"

	"github.com/katalvlaran/probgraph/partial"
	"github.com/katalvlaran/probgraph/tensor"
)

// OpTag names an operator, e.g. "add" or "matmul".
type OpTag string

// Params carries the static (non-vertex) arguments of an operator.
type Params struct {
	// Dims lists the dimensions an operator reduces over (sum).
	Dims []int

	// Scalar is a constant scalar argument (exponent of pow).
	Scalar float64

	// Shape is a target shape (reshape).
	Shape []int

	// Value is a constant payload (constant).
	Value *tensor.Tensor
}

// Operands bundles everything a local operator function may read.
type Operands struct {
	// Inputs holds the operand values, in operand order.
	Inputs []*tensor.Tensor

	// Output holds the vertex's current value. It is nil during Calculate.
	Output *tensor.Tensor

	// Params are the static arguments of the operator.
	Params Params
}

// ShapeFunc infers an operator's output shape from its operand shapes.
type ShapeFunc func(inputs [][]int, p Params) ([]int, error)

// CalculateFunc computes an operator's value from its operands.
type CalculateFunc func(in Operands) (*tensor.Tensor, error)

// ForwardFunc maps the forward-mode partials of every operand (in operand
// order, [operand-shape..., wrt...]) to the partials of the output
// ([output-shape..., wrt...]).
type ForwardFunc func(in Operands, operandPartials []partial.Derivatives) (partial.Derivatives, error)

// ReverseFunc maps the adjoint of the output ([of..., output-shape...]) to one
// adjoint per operand ([of..., operand-shape...]), in operand order.
type ReverseFunc func(in Operands, outputPartial partial.Derivatives) ([]partial.Derivatives, error)

// OpSpec describes one operator. A nil Forward or Reverse on a differentiable
// operator means that differentiation mode is unsupported and must fail.
type OpSpec struct {
	Tag       OpTag
	Shape     ShapeFunc
	Calculate CalculateFunc
	Forward   ForwardFunc
	Reverse   ReverseFunc

	// NonDifferentiable marks operators through which no gradient flows
	// (comparisons, rounding). Their outputs are treated as constants.
	NonDifferentiable bool
}

// Sampler draws a value for a probabilistic vertex from its parents' values.
type Sampler interface {
	Sample(parents []*tensor.Tensor, shape []int, src rand.Source) (*tensor.Tensor, error)
}

// SamplerFunc adapts a plain function to the Sampler interface.
type SamplerFunc func(parents []*tensor.Tensor, shape []int, src rand.Source) (*tensor.Tensor, error)

// Sample calls f.
func (f SamplerFunc) Sample(parents []*tensor.Tensor, shape []int, src rand.Source) (*tensor.Tensor, error) {
	return f(parents, shape, src)
}

// DiffMode identifies a differentiation sweep.
type DiffMode int

const (
	// ForwardMode pushes partials from inputs toward an output.
	ForwardMode DiffMode = iota
	// ReverseMode pulls an output's adjoint back to its inputs.
	ReverseMode
)

// String implements fmt.Stringer.
func (m DiffMode) String() string {
	if m == ReverseMode {
		return "reverse"
	}
	return "forward"
}

// Observer is notified of every local computation performed on a graph.
// Hooks run synchronously inside the pass and must not mutate the graph.
type Observer interface {
	OnCalculate(v *Vertex)
	OnSample(v *Vertex)
	OnDifferentiate(v *Vertex, mode DiffMode)
}

// observers fans a notification out to several observers.
type observers []Observer

func (o observers) OnCalculate(v *Vertex) {
	for _, x := range o {
		x.OnCalculate(v)
	}
}

func (o observers) OnSample(v *Vertex) {
	for _, x := range o {
		x.OnSample(v)
	}
}

func (o observers) OnDifferentiate(v *Vertex, mode DiffMode) {
	for _, x := range o {
		x.OnDifferentiate(v, mode)
	}
}
