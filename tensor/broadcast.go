// SPDX-License-Identifier: MIT

// Package tensor - NumPy-style broadcasting.
//
// Rules:
//   - Shapes are aligned on their trailing dimensions.
//   - Two aligned dimensions are compatible when equal or when one of them is 1.
//   - Missing leading dimensions behave as 1.
//
// Example: [2,2] with [1,2] → [2,2]; [3] with [4,1] → [4,3].

package tensor

import "fmt"

// BroadcastShapes returns the shape that all inputs broadcast to, or
// ErrShapeMismatch when any pair is incompatible.
func BroadcastShapes(shapes ...[]int) ([]int, error) {
	rank := 0
	for _, s := range shapes {
		if len(s) > rank {
			rank = len(s)
		}
	}
	out := make([]int, rank)
	for i := range out {
		out[i] = 1
	}
	for _, s := range shapes {
		off := rank - len(s)
		for i, d := range s {
			switch {
			case out[off+i] == d, d == 1:
			case out[off+i] == 1:
				out[off+i] = d
			default:
				return nil, fmt.Errorf("%w: cannot broadcast %v with %v", ErrShapeMismatch, s, out)
			}
		}
	}

	return out, nil
}

// BroadcastTo expands t to shape by repeating it along dimensions where t has
// length 1 (or is missing). The result shares nothing with t; when t already
// has the requested shape, t itself is returned.
//
// Complexity: O(numel(shape)).
func (t *Tensor) BroadcastTo(shape []int) (*Tensor, error) {
	if SameShape(t.shape, shape) {
		return t, nil
	}
	if len(shape) < len(t.shape) {
		return nil, tensorErrorf(opBroadcast, fmt.Errorf("%w: %v to %v", ErrShapeMismatch, t.shape, shape))
	}
	n, err := numel(shape)
	if err != nil {
		return nil, tensorErrorf(opBroadcast, err)
	}

	// Effective source strides aligned to the target rank; 0 repeats.
	src := strides(t.shape)
	eff := make([]int, len(shape))
	off := len(shape) - len(t.shape)
	for i := range shape {
		j := i - off
		if j < 0 {
			continue
		}
		switch d := t.shape[j]; {
		case d == shape[i]:
			eff[i] = src[j]
		case d == 1:
			eff[i] = 0
		default:
			return nil, tensorErrorf(opBroadcast, fmt.Errorf("%w: %v to %v", ErrShapeMismatch, t.shape, shape))
		}
	}

	out := make([]float64, n)
	if n > 0 {
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

	return &Tensor{shape: cloneInts(shape), data: out, placeholder: t.placeholder}, nil
}
