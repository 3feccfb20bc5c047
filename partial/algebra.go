// SPDX-License-Identifier: MIT

// Package partial - arithmetic and chain-rule products.
//
// Layout reminder: a stored tensor P has shape [of..., wrt...].
//
//   - MultiplyAlongOfDimensions(m):  P ⊙ m, with m aligned to the of-block
//     (m.shape == of-shape; ones are implied over the wrt-block).
//   - MultiplyAlongWrtDimensions(m): P ⊙ m, with m aligned to the wrt-block
//     (m.shape == wrt-shape; ones are implied over the of-block).
//
// Forward mode uses the former on dOperand/dW after broadcast correction;
// reverse mode uses the latter on dOut/dY before reducing to the operand shape.

package partial

import (
	"fmt"

	"github.com/katalvlaran/probgraph/tensor"
	"github.com/katalvlaran/probgraph/vertexid"
)

const (
	opAdd     = "Add"
	opMulOf   = "MultiplyAlongOfDimensions"
	opMulWrt  = "MultiplyAlongWrtDimensions"
	opSumOf   = "SumOverOfDimensions"
	opSumWrt  = "SumOverWrtDimensions"
	opBcastOf = "BroadcastOf"
	opReduce  = "ReduceWrt"
	opReshape = "Reshape"
	opBcastW  = "BroadcastWrt"
)

// Add returns the key-wise sum of d and o; a key present in only one side is
// carried over unchanged. Shared keys must hold identically shaped tensors.
func (d Derivatives) Add(o Derivatives) (Derivatives, error) {
	return d.combine(o, false)
}

// Subtract returns d - o, key-wise.
func (d Derivatives) Subtract(o Derivatives) (Derivatives, error) {
	return d.combine(o, true)
}

func (d Derivatives) combine(o Derivatives, negate bool) (Derivatives, error) {
	if len(o.m) == 0 {
		return d, nil
	}
	out := make(map[vertexid.ID]*tensor.Tensor, len(d.m)+len(o.m))
	for k, v := range d.m {
		out[k] = v
	}
	for k, w := range o.m {
		if negate {
			w = w.Neg()
		}
		v, ok := out[k]
		if !ok {
			out[k] = w
			continue
		}
		if !tensor.SameShape(v.Shape(), w.Shape()) {
			return Derivatives{}, partialErrorf(opAdd, k, fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, v.Shape(), w.Shape()))
		}
		sum, err := tensor.Add(v, w)
		if err != nil {
			return Derivatives{}, partialErrorf(opAdd, k, err)
		}
		out[k] = sum
	}

	return Derivatives{m: out}, nil
}

// Negate returns -d.
func (d Derivatives) Negate() Derivatives { return d.MultiplyBy(-1) }

// MultiplyBy returns c·d.
func (d Derivatives) MultiplyBy(c float64) Derivatives {
	out, _ := d.Apply(func(_ vertexid.ID, t *tensor.Tensor) (*tensor.Tensor, error) {
		return t.Scale(c), nil
	})

	return out
}

// MultiplyAlongOfDimensions multiplies every entry element-wise by m aligned to
// the leading (of) block. m.shape must equal the of-shape of every entry.
func (d Derivatives) MultiplyAlongOfDimensions(m *tensor.Tensor) (Derivatives, error) {
	if m == nil {
		return Derivatives{}, fmt.Errorf("partial.%s: %w", opMulOf, ErrNilFactor)
	}
	mShape := m.Shape()

	return d.Apply(func(id vertexid.ID, t *tensor.Tensor) (*tensor.Tensor, error) {
		shape := t.Shape()
		if len(shape) < len(mShape) || !tensor.SameShape(shape[:len(mShape)], mShape) {
			return nil, partialErrorf(opMulOf, id, fmt.Errorf("%w: factor %v vs partial %v", ErrShapeMismatch, mShape, shape))
		}
		padded := append(append([]int{}, mShape...), ones(len(shape)-len(mShape))...)
		mp, err := m.Reshape(padded...)
		if err != nil {
			return nil, partialErrorf(opMulOf, id, err)
		}
		r, err := tensor.Mul(t, mp)
		if err != nil {
			return nil, partialErrorf(opMulOf, id, err)
		}

		return r, nil
	})
}

// MultiplyAlongWrtDimensions multiplies every entry element-wise by m aligned to
// the trailing (wrt) block. m.shape must equal the wrt-shape of every entry.
func (d Derivatives) MultiplyAlongWrtDimensions(m *tensor.Tensor) (Derivatives, error) {
	if m == nil {
		return Derivatives{}, fmt.Errorf("partial.%s: %w", opMulWrt, ErrNilFactor)
	}
	mShape := m.Shape()

	return d.Apply(func(id vertexid.ID, t *tensor.Tensor) (*tensor.Tensor, error) {
		shape := t.Shape()
		if len(shape) < len(mShape) || !tensor.SameShape(shape[len(shape)-len(mShape):], mShape) {
			return nil, partialErrorf(opMulWrt, id, fmt.Errorf("%w: factor %v vs partial %v", ErrShapeMismatch, mShape, shape))
		}
		r, err := tensor.Mul(t, m)
		if err != nil {
			return nil, partialErrorf(opMulWrt, id, err)
		}

		return r, nil
	})
}

// SumOverOfDimensions sums every entry over the given of-block dimensions and
// removes them. dims are indices into the of-block; negative values count
// back from ofRank.
func (d Derivatives) SumOverOfDimensions(dims []int, ofRank int) (Derivatives, error) {
	abs := make([]int, len(dims))
	for i, dim := range dims {
		if dim < 0 {
			dim += ofRank
		}
		if dim < 0 || dim >= ofRank {
			return Derivatives{}, fmt.Errorf("partial.%s: %w: dim %d for of-rank %d", opSumOf, ErrRank, dims[i], ofRank)
		}
		abs[i] = dim
	}

	return d.Apply(func(id vertexid.ID, t *tensor.Tensor) (*tensor.Tensor, error) {
		if t.Rank() < ofRank {
			return nil, partialErrorf(opSumOf, id, ErrRank)
		}
		if len(abs) == 0 {
			return t, nil
		}
		r, err := t.Sum(abs...)
		if err != nil {
			return nil, partialErrorf(opSumOf, id, err)
		}

		return r, nil
	})
}

// SumOverWrtDimensions sums every entry over the given wrt-block dimensions and
// removes them. Non-negative dims index the wrt-block (which starts at ofRank);
// negative dims count back from the end of the tensor.
func (d Derivatives) SumOverWrtDimensions(dims []int, ofRank int) (Derivatives, error) {
	return d.Apply(func(id vertexid.ID, t *tensor.Tensor) (*tensor.Tensor, error) {
		rank := t.Rank()
		if rank < ofRank {
			return nil, partialErrorf(opSumWrt, id, ErrRank)
		}
		if len(dims) == 0 {
			return t, nil
		}
		abs := make([]int, len(dims))
		for i, dim := range dims {
			if dim < 0 {
				dim += rank
			} else {
				dim += ofRank
			}
			if dim < ofRank || dim >= rank {
				return nil, partialErrorf(opSumWrt, id, fmt.Errorf("%w: dim %d outside wrt-block of rank %d", ErrRank, dims[i], rank-ofRank))
			}
			abs[i] = dim
		}
		r, err := t.Sum(abs...)
		if err != nil {
			return nil, partialErrorf(opSumWrt, id, err)
		}

		return r, nil
	})
}

func ones(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = 1
	}

	return out
}
