// SPDX-License-Identifier: MIT

// Package tensor - element-wise kernels.
//
// Binary kernels broadcast both operands to the common shape first and then run
// a flat gonum/floats loop over the aligned buffers. Unary kernels map over the
// flat buffer directly.

package tensor

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// binary broadcasts a and b and applies kernel to the aligned buffers.
func binary(a, b *Tensor, kernel func(dst, s, t []float64)) (*Tensor, error) {
	if a == nil || b == nil {
		return nil, tensorErrorf(opElementwise, ErrNilTensor)
	}
	shape, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		return nil, tensorErrorf(opElementwise, err)
	}
	ab, err := a.BroadcastTo(shape)
	if err != nil {
		return nil, err
	}
	bb, err := b.BroadcastTo(shape)
	if err != nil {
		return nil, err
	}
	dst := make([]float64, len(ab.data))
	kernel(dst, ab.data, bb.data)

	return &Tensor{shape: shape, data: dst}, nil
}

// Add returns a + b with broadcasting.
func Add(a, b *Tensor) (*Tensor, error) {
	return binary(a, b, func(dst, s, t []float64) { floats.AddTo(dst, s, t) })
}

// Sub returns a - b with broadcasting.
func Sub(a, b *Tensor) (*Tensor, error) {
	return binary(a, b, func(dst, s, t []float64) { floats.SubTo(dst, s, t) })
}

// Mul returns the element-wise product a ⊙ b with broadcasting.
func Mul(a, b *Tensor) (*Tensor, error) {
	return binary(a, b, func(dst, s, t []float64) { floats.MulTo(dst, s, t) })
}

// Div returns the element-wise quotient a / b with broadcasting.
func Div(a, b *Tensor) (*Tensor, error) {
	return binary(a, b, func(dst, s, t []float64) { floats.DivTo(dst, s, t) })
}

// GreaterThan returns 1 where a > b and 0 elsewhere, with broadcasting.
func GreaterThan(a, b *Tensor) (*Tensor, error) {
	return binary(a, b, func(dst, s, t []float64) {
		for i := range dst {
			if s[i] > t[i] {
				dst[i] = 1
			}
		}
	})
}

// Map returns a new tensor with fn applied to every element.
func (t *Tensor) Map(fn func(float64) float64) *Tensor {
	out := make([]float64, len(t.data))
	for i, v := range t.data {
		out[i] = fn(v)
	}

	return &Tensor{shape: cloneInts(t.shape), data: out}
}

// Scale returns c·t.
func (t *Tensor) Scale(c float64) *Tensor {
	out := t.Data()
	floats.Scale(c, out)

	return &Tensor{shape: cloneInts(t.shape), data: out}
}

// AddScalar returns t + c.
func (t *Tensor) AddScalar(c float64) *Tensor {
	out := t.Data()
	floats.AddConst(c, out)

	return &Tensor{shape: cloneInts(t.shape), data: out}
}

// Neg returns -t.
func (t *Tensor) Neg() *Tensor { return t.Scale(-1) }

// Sin returns sin(t) element-wise.
func (t *Tensor) Sin() *Tensor { return t.Map(math.Sin) }

// Cos returns cos(t) element-wise.
func (t *Tensor) Cos() *Tensor { return t.Map(math.Cos) }

// Exp returns e^t element-wise.
func (t *Tensor) Exp() *Tensor { return t.Map(math.Exp) }

// Log returns ln(t) element-wise.
func (t *Tensor) Log() *Tensor { return t.Map(math.Log) }

// Pow returns t^p element-wise.
func (t *Tensor) Pow(p float64) *Tensor {
	return t.Map(func(v float64) float64 { return math.Pow(v, p) })
}

// Reciprocal returns 1/t element-wise.
func (t *Tensor) Reciprocal() *Tensor {
	return t.Map(func(v float64) float64 { return 1 / v })
}
