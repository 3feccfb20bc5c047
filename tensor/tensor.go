// SPDX-License-Identifier: MIT

package tensor

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Tensor is an immutable, row-major n-dimensional array of float64.
//
// A placeholder tensor carries a shape but no meaningful data; it stands for a
// value that has not been supplied yet (an unobserved input). Reading its data
// through At or ScalarValue yields ErrPlaceholder / NaN respectively.
type Tensor struct {
	shape       []int
	data        []float64
	placeholder bool
}

// New returns a tensor of the given shape holding a copy of data.
// len(data) must equal the product of shape; an empty shape denotes a scalar.
func New(shape []int, data []float64) (*Tensor, error) {
	n, err := numel(shape)
	if err != nil {
		return nil, tensorErrorf(opNew, err)
	}
	if n != len(data) {
		return nil, tensorErrorf(opNew, fmt.Errorf("%w: shape %v needs %d elements, got %d", ErrBadShape, shape, n, len(data)))
	}

	return &Tensor{shape: cloneInts(shape), data: append([]float64(nil), data...)}, nil
}

// MustNew is like New but panics on error. Intended for literals in tests and
// examples.
func MustNew(shape []int, data []float64) *Tensor {
	t, err := New(shape, data)
	if err != nil {
		panic(err)
	}

	return t
}

// Scalar returns a rank-0 tensor holding v.
func Scalar(v float64) *Tensor {
	return &Tensor{shape: []int{}, data: []float64{v}}
}

// Vector returns a rank-1 tensor holding vs.
func Vector(vs ...float64) *Tensor {
	return &Tensor{shape: []int{len(vs)}, data: append([]float64(nil), vs...)}
}

// Zeros returns a zero-filled tensor. Panics on a negative dimension.
func Zeros(shape ...int) *Tensor { return Fill(0, shape...) }

// Ones returns a tensor filled with 1. Panics on a negative dimension.
func Ones(shape ...int) *Tensor { return Fill(1, shape...) }

// Fill returns a tensor of the given shape with every element set to v.
// Panics on a negative dimension.
func Fill(v float64, shape ...int) *Tensor {
	n, err := numel(shape)
	if err != nil {
		panic(tensorErrorf(opNew, err))
	}
	data := make([]float64, n)
	if v != 0 {
		for i := range data {
			data[i] = v
		}
	}

	return &Tensor{shape: cloneInts(shape), data: data}
}

// Eye returns the n×n identity matrix.
func Eye(n int) *Tensor {
	t := Zeros(n, n)
	for i := 0; i < n; i++ {
		t.data[i*n+i] = 1
	}

	return t
}

// Identity returns the tensor of shape shape++shape whose element at
// (i..., j...) is 1 when i == j and 0 otherwise. It is the derivative of a
// tensor of the given shape with respect to itself.
func Identity(shape []int) *Tensor {
	n, err := numel(shape)
	if err != nil {
		panic(tensorErrorf(opNew, err))
	}
	full := append(cloneInts(shape), shape...)
	t := Zeros(full...)
	for i := 0; i < n; i++ {
		t.data[i*n+i] = 1
	}

	return t
}

// Placeholder returns a tensor that only carries a shape.
func Placeholder(shape ...int) *Tensor {
	t := Zeros(shape...)
	t.placeholder = true

	return t
}

// Shape returns a copy of the tensor shape.
func (t *Tensor) Shape() []int { return cloneInts(t.shape) }

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int { return len(t.shape) }

// Len returns the number of elements.
func (t *Tensor) Len() int { return len(t.data) }

// Data returns a copy of the flat row-major buffer.
func (t *Tensor) Data() []float64 { return append([]float64(nil), t.data...) }

// IsScalar reports whether t has rank 0.
func (t *Tensor) IsScalar() bool { return len(t.shape) == 0 }

// IsLengthOne reports whether t holds exactly one element, whatever its rank.
func (t *Tensor) IsLengthOne() bool { return len(t.data) == 1 }

// IsPlaceholder reports whether t stands in for a value not supplied yet.
func (t *Tensor) IsPlaceholder() bool { return t.placeholder }

// At returns the element at the given multi-index.
func (t *Tensor) At(idx ...int) (float64, error) {
	if t.placeholder {
		return 0, tensorErrorf(opAt, ErrPlaceholder)
	}
	if len(idx) != len(t.shape) {
		return 0, tensorErrorf(opAt, fmt.Errorf("%w: %d indices for rank %d", ErrOutOfRange, len(idx), len(t.shape)))
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= t.shape[i] {
			return 0, tensorErrorf(opAt, fmt.Errorf("%w: index %v for shape %v", ErrOutOfRange, idx, t.shape))
		}
		off = off*t.shape[i] + v
	}

	return t.data[off], nil
}

// ScalarValue returns the single element of a length-one tensor, or NaN when t
// holds more than one element or is a placeholder.
func (t *Tensor) ScalarValue() float64 {
	if t.placeholder || len(t.data) != 1 {
		return math.NaN()
	}

	return t.data[0]
}

// SumAll returns the sum of all elements.
func (t *Tensor) SumAll() float64 { return floats.Sum(t.data) }

// Clone returns a deep copy of t.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{shape: cloneInts(t.shape), data: t.Data(), placeholder: t.placeholder}
}

// Equal reports whether t and o have the same shape and all elements agree
// within tol.
func (t *Tensor) Equal(o *Tensor, tol float64) bool {
	if t == nil || o == nil {
		return t == o
	}
	if !SameShape(t.shape, o.shape) {
		return false
	}

	return floats.EqualApprox(t.data, o.data, tol)
}

// String renders the tensor as "Tensor[shape]{data}".
func (t *Tensor) String() string {
	if t == nil {
		return "Tensor<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Tensor%v", t.shape)
	if t.placeholder {
		b.WriteString("{placeholder}")
		return b.String()
	}
	b.WriteByte('{')
	for i, v := range t.data {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%g", v)
	}
	b.WriteByte('}')

	return b.String()
}

// SameShape reports whether two shapes are identical.
func SameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// Numel returns the number of elements a tensor of the given shape holds.
// Negative dimensions count as zero.
func Numel(shape []int) int {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0
		}
		n *= d
	}

	return n
}

// numel validates shape and returns its element count.
func numel(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative dimension in %v", ErrBadShape, shape)
		}
		n *= d
	}

	return n, nil
}

// strides returns row-major strides for shape.
func strides(shape []int) []int {
	s := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= shape[i]
	}

	return s
}

// nextIndex advances a multi-index over shape in row-major order.
// It returns false once the index wraps around.
func nextIndex(idx, shape []int) bool {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < shape[i] {
			return true
		}
		idx[i] = 0
	}

	return false
}

func cloneInts(s []int) []int {
	out := make([]int, len(s))
	copy(out, s)

	return out
}
