// SPDX-License-Identifier: MIT

// Package partial - block reshape and broadcast correction.

package partial

import (
	"fmt"

	"github.com/katalvlaran/probgraph/tensor"
	"github.com/katalvlaran/probgraph/vertexid"
)

// BroadcastOf lifts every entry's of-block from fromOf to toOf following the
// trailing-alignment broadcast rule. Entries keep their wrt-block. Used in
// forward mode before an operand's partial is combined into the output's.
func (d Derivatives) BroadcastOf(fromOf, toOf []int) (Derivatives, error) {
	if tensor.SameShape(fromOf, toOf) {
		return d, nil
	}
	target, err := tensor.BroadcastShapes(fromOf, toOf)
	if err != nil || !tensor.SameShape(target, toOf) {
		return Derivatives{}, fmt.Errorf("partial.%s: %w: %v to %v", opBcastOf, ErrShapeMismatch, fromOf, toOf)
	}
	padded := append(ones(len(toOf)-len(fromOf)), fromOf...)

	return d.Apply(func(id vertexid.ID, t *tensor.Tensor) (*tensor.Tensor, error) {
		wrt, err := splitWrt(t, len(fromOf))
		if err != nil {
			return nil, partialErrorf(opBcastOf, id, err)
		}
		if !tensor.SameShape(t.Shape()[:len(fromOf)], fromOf) {
			return nil, partialErrorf(opBcastOf, id, fmt.Errorf("%w: partial %v has no of-block %v", ErrShapeMismatch, t.Shape(), fromOf))
		}
		r, err := t.Reshape(concat(padded, wrt)...)
		if err != nil {
			return nil, partialErrorf(opBcastOf, id, err)
		}
		r, err = r.BroadcastTo(concat(toOf, wrt))
		if err != nil {
			return nil, partialErrorf(opBcastOf, id, err)
		}

		return r, nil
	})
}

// ReduceWrt sums every entry's wrt-block from fromWrt down to toWrt over exactly
// the dimensions a broadcast from toWrt to fromWrt would have expanded. Used in
// reverse mode to recover an operand's own shape from the output's.
func (d Derivatives) ReduceWrt(fromWrt, toWrt []int) (Derivatives, error) {
	if tensor.SameShape(fromWrt, toWrt) {
		return d, nil
	}
	target, err := tensor.BroadcastShapes(toWrt, fromWrt)
	if err != nil || !tensor.SameShape(target, fromWrt) {
		return Derivatives{}, fmt.Errorf("partial.%s: %w: %v to %v", opReduce, ErrShapeMismatch, fromWrt, toWrt)
	}
	extra := len(fromWrt) - len(toWrt)

	return d.Apply(func(id vertexid.ID, t *tensor.Tensor) (*tensor.Tensor, error) {
		shape := t.Shape()
		ofRank := len(shape) - len(fromWrt)
		if ofRank < 0 || !tensor.SameShape(shape[ofRank:], fromWrt) {
			return nil, partialErrorf(opReduce, id, fmt.Errorf("%w: partial %v has no wrt-block %v", ErrShapeMismatch, shape, fromWrt))
		}
		dims := make([]int, 0, len(fromWrt))
		for i := 0; i < extra; i++ {
			dims = append(dims, ofRank+i)
		}
		for j, dim := range toWrt {
			if dim == 1 && fromWrt[extra+j] != 1 {
				dims = append(dims, ofRank+extra+j)
			}
		}
		summed := t
		if len(dims) > 0 {
			s, sumErr := t.SumKeepDims(dims...)
			if sumErr != nil {
				return nil, partialErrorf(opReduce, id, sumErr)
			}
			summed = s
		}
		r, reshapeErr := summed.Reshape(concat(shape[:ofRank], toWrt)...)
		if reshapeErr != nil {
			return nil, partialErrorf(opReduce, id, reshapeErr)
		}

		return r, nil
	})
}

// BroadcastWrt expands every entry's wrt-block to toWrt. The current wrt-block
// must have the same rank as toWrt with ones wherever it differs.
func (d Derivatives) BroadcastWrt(toWrt []int) (Derivatives, error) {
	return d.Apply(func(id vertexid.ID, t *tensor.Tensor) (*tensor.Tensor, error) {
		shape := t.Shape()
		ofRank := len(shape) - len(toWrt)
		if ofRank < 0 {
			return nil, partialErrorf(opBcastW, id, ErrRank)
		}
		r, err := t.BroadcastTo(concat(shape[:ofRank], toWrt))
		if err != nil {
			return nil, partialErrorf(opBcastW, id, err)
		}

		return r, nil
	})
}

// ReshapeOf replaces every entry's leading of-block (of rank ofRank) by toOf.
// The element count of the block must be preserved.
func (d Derivatives) ReshapeOf(ofRank int, toOf []int) (Derivatives, error) {
	return d.Apply(func(id vertexid.ID, t *tensor.Tensor) (*tensor.Tensor, error) {
		wrt, err := splitWrt(t, ofRank)
		if err != nil {
			return nil, partialErrorf(opReshape, id, err)
		}
		r, err := t.Reshape(concat(toOf, wrt)...)
		if err != nil {
			return nil, partialErrorf(opReshape, id, err)
		}

		return r, nil
	})
}

// ReshapeWrt replaces every entry's trailing wrt-block (of rank wrtRank) by toWrt.
func (d Derivatives) ReshapeWrt(wrtRank int, toWrt []int) (Derivatives, error) {
	return d.Apply(func(id vertexid.ID, t *tensor.Tensor) (*tensor.Tensor, error) {
		shape := t.Shape()
		if wrtRank > len(shape) {
			return nil, partialErrorf(opReshape, id, ErrRank)
		}
		r, err := t.Reshape(concat(shape[:len(shape)-wrtRank], toWrt)...)
		if err != nil {
			return nil, partialErrorf(opReshape, id, err)
		}

		return r, nil
	})
}

func splitWrt(t *tensor.Tensor, ofRank int) ([]int, error) {
	shape := t.Shape()
	if ofRank > len(shape) {
		return nil, ErrRank
	}

	return shape[ofRank:], nil
}

func concat(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))

	return append(append(out, a...), b...)
}
