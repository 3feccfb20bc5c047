// SPDX-License-Identifier: MIT

// Package tensor - linear algebra.
//
// Purpose:
//   - MatMul: rank-2 product backed by gonum's pure-Go BLAS (Dgemm).
//   - TensorDot: general contraction over paired axes; reduces to MatMul after a
//     permute+reshape of each operand. Every matrix differentiation rule in
//     package ops is expressed with it.
//   - Inverse, Det, Cholesky: thin adapters over gonum/mat.
//
// Notes:
//   - Zero-sized operands short-circuit before reaching BLAS, which rejects
//     leading dimensions < 1.

package tensor

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/gonum"
	"gonum.org/v1/gonum/mat"
)

var blasImpl gonum.Implementation

// MatMul returns the matrix product a·b for a of shape [m,k] and b of shape [k,n].
//
// Complexity: O(m·k·n).
func MatMul(a, b *Tensor) (*Tensor, error) {
	if a == nil || b == nil {
		return nil, tensorErrorf(opMatMul, ErrNilTensor)
	}
	if a.Rank() != 2 || b.Rank() != 2 {
		return nil, tensorErrorf(opMatMul, fmt.Errorf("%w: %v · %v", ErrNotMatrix, a.shape, b.shape))
	}
	m, k, n := a.shape[0], a.shape[1], b.shape[1]
	if b.shape[0] != k {
		return nil, tensorErrorf(opMatMul, fmt.Errorf("%w: %v · %v", ErrShapeMismatch, a.shape, b.shape))
	}
	out := Zeros(m, n)
	if m == 0 || n == 0 || k == 0 {
		return out, nil
	}
	blasImpl.Dgemm(blas.NoTrans, blas.NoTrans, m, n, k, 1, a.data, k, b.data, n, 0, out.data, n)

	return out, nil
}

// TensorDot contracts a and b over the paired axes axesA[i] ↔ axesB[i].
// The result shape is the free dimensions of a (in order) followed by the free
// dimensions of b. Empty axes give the outer product.
//
// Implementation:
//   - Stage 1: validate axes and matching lengths.
//   - Stage 2: permute a to [free..., contracted...] and b to
//     [contracted..., free...], flatten both to matrices.
//   - Stage 3: MatMul and reshape back.
func TensorDot(a, b *Tensor, axesA, axesB []int) (*Tensor, error) {
	if a == nil || b == nil {
		return nil, tensorErrorf(opTensorDot, ErrNilTensor)
	}
	if len(axesA) != len(axesB) {
		return nil, tensorErrorf(opTensorDot, fmt.Errorf("%w: %d vs %d contraction axes", ErrAxis, len(axesA), len(axesB)))
	}
	ca, err := resolveAxes(axesA, a.Rank())
	if err != nil {
		return nil, tensorErrorf(opTensorDot, err)
	}
	cb, err := resolveAxes(axesB, b.Rank())
	if err != nil {
		return nil, tensorErrorf(opTensorDot, err)
	}
	contracted := 1
	for i := range ca {
		if a.shape[ca[i]] != b.shape[cb[i]] {
			return nil, tensorErrorf(opTensorDot, fmt.Errorf("%w: axis %d of %v vs axis %d of %v",
				ErrShapeMismatch, ca[i], a.shape, cb[i], b.shape))
		}
		contracted *= a.shape[ca[i]]
	}

	freeA, freeShapeA := freeAxes(a.shape, ca)
	freeB, freeShapeB := freeAxes(b.shape, cb)

	pa, err := a.Permute(append(append([]int{}, freeA...), ca...)...)
	if err != nil {
		return nil, tensorErrorf(opTensorDot, err)
	}
	pb, err := b.Permute(append(append([]int{}, cb...), freeB...)...)
	if err != nil {
		return nil, tensorErrorf(opTensorDot, err)
	}
	ma := &Tensor{shape: []int{Numel(freeShapeA), contracted}, data: pa.data}
	mb := &Tensor{shape: []int{contracted, Numel(freeShapeB)}, data: pb.data}

	prod, err := MatMul(ma, mb)
	if err != nil {
		return nil, tensorErrorf(opTensorDot, err)
	}
	prod.shape = append(freeShapeA, freeShapeB...)

	return prod, nil
}

// Inverse returns the inverse of a square matrix.
func Inverse(a *Tensor) (*Tensor, error) {
	n, err := squareSide(opInverse, a)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return Zeros(0, 0), nil
	}
	var inv mat.Dense
	if err := inv.Inverse(mat.NewDense(n, n, a.Data())); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, tensorErrorf(opInverse, fmt.Errorf("%w: %v", ErrSingular, err))
		}
	}

	return &Tensor{shape: []int{n, n}, data: denseData(&inv, n)}, nil
}

// Det returns the determinant of a square matrix.
func Det(a *Tensor) (float64, error) {
	n, err := squareSide(opDet, a)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 1, nil
	}

	return mat.Det(mat.NewDense(n, n, a.Data())), nil
}

// Cholesky returns the lower-triangular factor L with a = L·Lᵀ. Only the upper
// triangle of a is read.
func Cholesky(a *Tensor) (*Tensor, error) {
	n, err := squareSide(opCholesky, a)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return Zeros(0, 0), nil
	}
	var ch mat.Cholesky
	if ok := ch.Factorize(mat.NewSymDense(n, a.Data())); !ok {
		return nil, tensorErrorf(opCholesky, ErrNotPositiveDefinite)
	}
	var l mat.TriDense
	ch.LTo(&l)

	return &Tensor{shape: []int{n, n}, data: denseData(&l, n)}, nil
}

func squareSide(tag string, a *Tensor) (int, error) {
	if a == nil {
		return 0, tensorErrorf(tag, ErrNilTensor)
	}
	if a.Rank() != 2 {
		return 0, tensorErrorf(tag, fmt.Errorf("%w: shape %v", ErrNotMatrix, a.shape))
	}
	if a.shape[0] != a.shape[1] {
		return 0, tensorErrorf(tag, fmt.Errorf("%w: shape %v", ErrNotSquare, a.shape))
	}

	return a.shape[0], nil
}

func denseData(m mat.Matrix, n int) []float64 {
	out := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[i*n+j] = m.At(i, j)
		}
	}

	return out
}

// resolveAxes normalizes negative axes and rejects repeats; order is preserved
// because it defines the pairing with the other operand.
func resolveAxes(axes []int, rank int) ([]int, error) {
	out := make([]int, len(axes))
	seen := make(map[int]bool, len(axes))
	for i, ax := range axes {
		if ax < 0 {
			ax += rank
		}
		if ax < 0 || ax >= rank || seen[ax] {
			return nil, fmt.Errorf("%w: axis %d for rank %d", ErrAxis, axes[i], rank)
		}
		seen[ax] = true
		out[i] = ax
	}

	return out, nil
}

func freeAxes(shape, contracted []int) (axes, dims []int) {
	skip := make(map[int]bool, len(contracted))
	for _, c := range contracted {
		skip[c] = true
	}
	axes, dims = []int{}, []int{}
	for i, d := range shape {
		if !skip[i] {
			axes = append(axes, i)
			dims = append(dims, d)
		}
	}

	return axes, dims
}
