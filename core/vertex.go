// SPDX-License-Identifier: MIT
//
// File: vertex.go
// Role: Vertex accessors and the value cell (set, observe, local compute).

package core

import (
	"fmt"

	"github.com/katalvlaran/probgraph/tensor"
	"github.com/katalvlaran/probgraph/vertexid"
)

// ID returns the vertex identifier.
func (v *Vertex) ID() vertexid.ID { return v.id }

// Index returns the arena index: the creation position of v within its graph.
// Traversals over integer node sets (bfs, dfs) use it together with Graph.At.
func (v *Vertex) Index() int { return v.index }

// ParentIndices returns the arena indices of the distinct parents, ascending.
func (v *Vertex) ParentIndices() []int { return append([]int(nil), v.parents...) }

// Label returns the vertex label, possibly empty.
func (v *Vertex) Label() string { return v.label }

// Graph returns the owning graph.
func (v *Vertex) Graph() *Graph { return v.g }

// Kind returns the capability kind.
func (v *Vertex) Kind() Kind { return v.kind }

// IsProbabilistic reports whether v is a random variable.
func (v *Vertex) IsProbabilistic() bool { return v.kind == Probabilistic }

// IsDifferentiable reports whether gradients can flow through v. Random
// variables are differentiable leaves; operators are unless marked otherwise.
func (v *Vertex) IsDifferentiable() bool {
	return v.kind == Probabilistic || !v.spec.NonDifferentiable
}

// IsConstant reports whether v is a deterministic vertex without parents.
func (v *Vertex) IsConstant() bool {
	return v.kind == NonProbabilistic && len(v.parents) == 0
}

// Op returns the operator spec, or nil for a probabilistic vertex.
func (v *Vertex) Op() *OpSpec { return v.spec }

// Params returns the static operator arguments.
func (v *Vertex) Params() Params { return v.params }

// Shape returns a copy of the vertex shape.
func (v *Vertex) Shape() []int { return append([]int(nil), v.shape...) }

// Parents returns the distinct parents in ascending ID order.
func (v *Vertex) Parents() []*Vertex { return v.g.resolve(v.parents) }

// Children returns the distinct children in ascending ID order.
func (v *Vertex) Children() []*Vertex {
	v.g.mu.RLock()
	idx := append([]int(nil), v.children...)
	v.g.mu.RUnlock()

	return v.g.resolve(idx)
}

// Operands returns the operands in operator order; a vertex used twice
// (x*x) appears twice.
func (v *Vertex) Operands() []*Vertex { return v.g.resolve(v.operands) }

// String renders "id" or "id(label)".
func (v *Vertex) String() string {
	if v == nil {
		return "<nil>"
	}
	if v.label != "" {
		return fmt.Sprintf("%s(%s)", v.id, v.label)
	}
	return v.id.String()
}

// current returns the visible value: the observation if any, else the free cell.
func (v *Vertex) current() *tensor.Tensor {
	if v.isObserved {
		return v.observed
	}
	return v.value
}

// HasValue reports whether v holds data, as opposed to a shape-only placeholder.
func (v *Vertex) HasValue() bool {
	c := v.current()
	return c != nil && !c.IsPlaceholder()
}

// Value returns the current value, lazily evaluating missing ancestors first.
func (v *Vertex) Value() (*tensor.Tensor, error) {
	if v.HasValue() {
		return v.current(), nil
	}
	if err := LazyEval(v); err != nil {
		return nil, err
	}

	return v.current(), nil
}

// SetValue replaces the free value cell. It is a no-op while v is observed.
// The shape must match the vertex shape.
func (v *Vertex) SetValue(t *tensor.Tensor) error {
	if err := v.checkShape("SetValue", t); err != nil {
		return err
	}
	if v.isObserved {
		return nil
	}
	v.value = t

	return nil
}

// SetAndCascade sets the value and propagates it to deterministic descendants.
func (v *Vertex) SetAndCascade(t *tensor.Tensor) error {
	if err := v.SetValue(t); err != nil {
		return err
	}

	return CascadeUpdate(v)
}

// Observe pins t as the value of v. Only another Observe can change it.
func (v *Vertex) Observe(t *tensor.Tensor) error {
	if err := v.checkShape("Observe", t); err != nil {
		return err
	}
	v.observed, v.isObserved = t, true

	return nil
}

// ObserveOwnValue observes the vertex's current value, computing it if needed.
func (v *Vertex) ObserveOwnValue() error {
	t, err := v.Value()
	if err != nil {
		return err
	}

	return v.Observe(t)
}

// Unobserve clears the observation; the free value cell becomes visible again.
func (v *Vertex) Unobserve() {
	v.observed, v.isObserved = nil, false
}

// IsObserved reports whether v is observed.
func (v *Vertex) IsObserved() bool { return v.isObserved }

// ObservedValue returns the observed value and whether there is one.
func (v *Vertex) ObservedValue() (*tensor.Tensor, bool) { return v.observed, v.isObserved }

// LazyEval computes v and any missing ancestors. See the package-level LazyEval.
func (v *Vertex) LazyEval() error { return LazyEval(v) }

// Eval recomputes v and its deterministic ancestors. See the package-level Eval.
func (v *Vertex) Eval() error { return Eval(v) }

func (v *Vertex) checkShape(tag string, t *tensor.Tensor) error {
	if t == nil {
		return vertexErrorf(tag, v, tensor.ErrNilTensor)
	}
	if !tensor.SameShape(t.Shape(), v.shape) {
		return vertexErrorf(tag, v, fmt.Errorf("%w: got %v, vertex shape %v", tensor.ErrShapeMismatch, t.Shape(), v.shape))
	}

	return nil
}

// operandValues collects the operand values in operand order.
func (v *Vertex) operandValues() ([]*tensor.Tensor, error) {
	in := make([]*tensor.Tensor, len(v.operands))
	for i, o := range v.operands {
		ov := v.g.vertexAt(o)
		if !ov.HasValue() {
			return nil, vertexErrorf("operands", v, fmt.Errorf("%w: operand %s has no value", ErrUnresolvedPlaceholder, ov))
		}
		in[i] = ov.current()
	}

	return in, nil
}

// OperandsValue bundles operand values, the current output and params for the
// local operator functions. Every operand must already hold a value.
func (v *Vertex) OperandsValue() (Operands, error) {
	in, err := v.operandValues()
	if err != nil {
		return Operands{}, err
	}
	var out *tensor.Tensor
	if v.HasValue() {
		out = v.current()
	}

	return Operands{Inputs: in, Output: out, Params: v.params}, nil
}

// calculate recomputes a deterministic vertex from its operands and stores
// the result in the free cell (observed vertices keep their observation).
func (v *Vertex) calculate() error {
	in, err := v.operandValues()
	if err != nil {
		return err
	}
	t, err := v.spec.Calculate(Operands{Inputs: in, Params: v.params})
	if err != nil {
		return vertexErrorf("calculate", v, err)
	}
	if err := v.checkShape("calculate", t); err != nil {
		return err
	}
	v.value = t
	v.g.observers.OnCalculate(v)

	return nil
}

// sample draws a value for a probabilistic vertex.
func (v *Vertex) sample() error {
	if v.sampler == nil {
		return vertexErrorf("sample", v, ErrUnresolvedPlaceholder)
	}
	in, err := v.operandValues()
	if err != nil {
		return err
	}
	t, err := v.sampler.Sample(in, v.Shape(), v.g.src)
	if err != nil {
		return vertexErrorf("sample", v, err)
	}
	if err := v.checkShape("sample", t); err != nil {
		return err
	}
	v.value = t
	v.g.observers.OnSample(v)

	return nil
}

// resolve maps arena indices to vertices.
func (g *Graph) resolve(idx []int) []*Vertex {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Vertex, len(idx))
	for i, x := range idx {
		out[i] = g.vertices[x]
	}

	return out
}
