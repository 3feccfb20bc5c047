// SPDX-License-Identifier: MIT

// Package tensor - shape manipulation: reshape, permute, transpose and
// summation over dimensions.

package tensor

import (
	"fmt"
	"sort"
)

// Reshape returns t with a new shape holding the same elements in the same
// row-major order.
func (t *Tensor) Reshape(shape ...int) (*Tensor, error) {
	n, err := numel(shape)
	if err != nil {
		return nil, tensorErrorf(opReshape, err)
	}
	if n != len(t.data) {
		return nil, tensorErrorf(opReshape, fmt.Errorf("%w: %v to %v", ErrBadShape, t.shape, shape))
	}

	return &Tensor{shape: cloneInts(shape), data: t.Data(), placeholder: t.placeholder}, nil
}

// Permute reorders dimensions: dimension i of the result is dimension perm[i]
// of t. perm must be a permutation of 0..rank-1.
func (t *Tensor) Permute(perm ...int) (*Tensor, error) {
	if err := validatePerm(perm, len(t.shape)); err != nil {
		return nil, tensorErrorf(opPermute, err)
	}
	identity := true
	for i, p := range perm {
		if p != i {
			identity = false
			break
		}
	}
	if identity {
		return t, nil
	}

	src := strides(t.shape)
	shape := make([]int, len(perm))
	eff := make([]int, len(perm))
	for i, p := range perm {
		shape[i] = t.shape[p]
		eff[i] = src[p]
	}
	out := make([]float64, len(t.data))
	if len(out) > 0 {
		idx := make([]int, len(shape))
		k := 0
		for {
			o := 0
			for i, v := range idx {
				o += v * eff[i]
			}
			out[k] = t.data[o]
			k++
			if !nextIndex(idx, shape) {
				break
			}
		}
	}

	return &Tensor{shape: shape, data: out}, nil
}

// Transpose swaps the last two dimensions.
func (t *Tensor) Transpose() (*Tensor, error) {
	r := len(t.shape)
	if r < 2 {
		return nil, tensorErrorf(opTranspose, fmt.Errorf("%w: rank %d", ErrAxis, r))
	}
	perm := make([]int, r)
	for i := range perm {
		perm[i] = i
	}
	perm[r-1], perm[r-2] = perm[r-2], perm[r-1]

	return t.Permute(perm...)
}

// Sum adds up the elements along dims and removes those dimensions from the
// result. With no dims every element is summed into a scalar. Negative dims
// count from the end.
func (t *Tensor) Sum(dims ...int) (*Tensor, error) {
	if len(dims) == 0 {
		return Scalar(t.SumAll()), nil
	}
	kept, err := t.SumKeepDims(dims...)
	if err != nil {
		return nil, err
	}
	norm, _ := normalizeAxes(dims, len(t.shape))
	drop := make(map[int]bool, len(norm))
	for _, d := range norm {
		drop[d] = true
	}
	shape := make([]int, 0, len(t.shape)-len(norm))
	for i, d := range t.shape {
		if !drop[i] {
			shape = append(shape, d)
		}
	}
	kept.shape = shape

	return kept, nil
}

// SumKeepDims adds up the elements along dims, leaving each summed dimension in
// place with length 1.
func (t *Tensor) SumKeepDims(dims ...int) (*Tensor, error) {
	norm, err := normalizeAxes(dims, len(t.shape))
	if err != nil {
		return nil, tensorErrorf(opSum, err)
	}
	shape := cloneInts(t.shape)
	for _, d := range norm {
		shape[d] = 1
	}
	out := Zeros(shape...)
	if len(t.data) == 0 {
		return out, nil
	}
	dst := strides(shape)
	idx := make([]int, len(t.shape))
	k := 0
	for {
		o := 0
		for i, v := range idx {
			if shape[i] != 1 {
				o += v * dst[i]
			}
		}
		out.data[o] += t.data[k]
		k++
		if !nextIndex(idx, t.shape) {
			break
		}
	}

	return out, nil
}

// normalizeAxes resolves negative axes, rejects out-of-range and repeated ones
// and returns them sorted.
func normalizeAxes(axes []int, rank int) ([]int, error) {
	out := make([]int, len(axes))
	seen := make(map[int]bool, len(axes))
	for i, a := range axes {
		if a < 0 {
			a += rank
		}
		if a < 0 || a >= rank {
			return nil, fmt.Errorf("%w: axis %d for rank %d", ErrAxis, axes[i], rank)
		}
		if seen[a] {
			return nil, fmt.Errorf("%w: repeated axis %d", ErrAxis, a)
		}
		seen[a] = true
		out[i] = a
	}
	sort.Ints(out)

	return out, nil
}

func validatePerm(perm []int, rank int) error {
	if len(perm) != rank {
		return fmt.Errorf("%w: permutation %v for rank %d", ErrAxis, perm, rank)
	}
	seen := make([]bool, rank)
	for _, p := range perm {
		if p < 0 || p >= rank || seen[p] {
			return fmt.Errorf("%w: permutation %v", ErrAxis, perm)
		}
		seen[p] = true
	}

	return nil
}
