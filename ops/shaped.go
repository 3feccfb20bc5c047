// SPDX-License-Identifier: MIT
//
// File: shaped.go
// Role: constant, sum and reshape.

package ops

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/probgraph/core"
	"github.com/katalvlaran/probgraph/partial"
	"github.com/katalvlaran/probgraph/tensor"
)

// constantSpec returns Params.Value. It has no operands and no partials.
var constantSpec = register(&core.OpSpec{
	Tag: TagConstant,
	Shape: func(in [][]int, p core.Params) ([]int, error) {
		if len(in) != 0 {
			return nil, fmt.Errorf("ops.%s: %w", TagConstant, ErrArity)
		}
		if p.Value == nil {
			return nil, fmt.Errorf("ops.%s: %w", TagConstant, tensor.ErrNilTensor)
		}
		return p.Value.Shape(), nil
	},
	Calculate: func(in core.Operands) (*tensor.Tensor, error) { return in.Params.Value, nil },
	Forward: func(core.Operands, []partial.Derivatives) (partial.Derivatives, error) {
		return partial.Empty(), nil
	},
	Reverse: func(core.Operands, partial.Derivatives) ([]partial.Derivatives, error) {
		return nil, nil
	},
})

// sumSpec adds up its operand over Params.Dims, removing them; no dims sums
// everything into a scalar.
var sumSpec = register(&core.OpSpec{
	Tag: TagSum,
	Shape: func(in [][]int, p core.Params) ([]int, error) {
		if len(in) != 1 {
			return nil, fmt.Errorf("ops.%s: %w", TagSum, ErrArity)
		}
		_, out, err := sumShapes(in[0], p.Dims)
		return out, err
	},
	Calculate: func(in core.Operands) (*tensor.Tensor, error) {
		return in.Inputs[0].Sum(in.Params.Dims...)
	},
	Forward: func(in core.Operands, dIn []partial.Derivatives) (partial.Derivatives, error) {
		xShape := in.Inputs[0].Shape()
		dims, _, err := sumShapes(xShape, in.Params.Dims)
		if err != nil {
			return partial.Derivatives{}, err
		}
		return dIn[0].SumOverOfDimensions(dims, len(xShape))
	},
	Reverse: func(in core.Operands, dOut partial.Derivatives) ([]partial.Derivatives, error) {
		xShape := in.Inputs[0].Shape()
		dims, outShape, err := sumShapes(xShape, in.Params.Dims)
		if err != nil {
			return nil, err
		}
		keep := append([]int(nil), xShape...)
		for _, d := range dims {
			keep[d] = 1
		}
		d, err := dOut.ReshapeWrt(len(outShape), keep)
		if err != nil {
			return nil, fmt.Errorf("ops.%s: %w", TagSum, err)
		}
		if d, err = d.BroadcastWrt(xShape); err != nil {
			return nil, fmt.Errorf("ops.%s: %w", TagSum, err)
		}
		return []partial.Derivatives{d}, nil
	},
})

// sumShapes resolves the summed dims of shape (all of them when dims is empty)
// and returns them sorted along with the output shape.
func sumShapes(shape, dims []int) (abs, out []int, err error) {
	rank := len(shape)
	if len(dims) == 0 {
		abs = make([]int, rank)
		for i := range abs {
			abs[i] = i
		}
		return abs, []int{}, nil
	}
	drop := make(map[int]bool, len(dims))
	for _, d := range dims {
		a := d
		if a < 0 {
			a += rank
		}
		if a < 0 || a >= rank || drop[a] {
			return nil, nil, fmt.Errorf("ops.%s: %w: dim %d for rank %d", TagSum, tensor.ErrAxis, d, rank)
		}
		drop[a] = true
		abs = append(abs, a)
	}
	sort.Ints(abs)
	out = make([]int, 0, rank-len(abs))
	for i, n := range shape {
		if !drop[i] {
			out = append(out, n)
		}
	}

	return abs, out, nil
}

// reshapeSpec reinterprets its operand with shape Params.Shape.
var reshapeSpec = register(&core.OpSpec{
	Tag: TagReshape,
	Shape: func(in [][]int, p core.Params) ([]int, error) {
		if len(in) != 1 {
			return nil, fmt.Errorf("ops.%s: %w", TagReshape, ErrArity)
		}
		for _, d := range p.Shape {
			if d < 0 {
				return nil, fmt.Errorf("ops.%s: %w: %v", TagReshape, tensor.ErrBadShape, p.Shape)
			}
		}
		if tensor.Numel(in[0]) != tensor.Numel(p.Shape) {
			return nil, fmt.Errorf("ops.%s: %w: %v to %v", TagReshape, tensor.ErrShapeMismatch, in[0], p.Shape)
		}
		return append([]int{}, p.Shape...), nil
	},
	Calculate: func(in core.Operands) (*tensor.Tensor, error) {
		return in.Inputs[0].Reshape(in.Params.Shape...)
	},
	Forward: func(in core.Operands, dIn []partial.Derivatives) (partial.Derivatives, error) {
		return dIn[0].ReshapeOf(in.Inputs[0].Rank(), in.Params.Shape)
	},
	Reverse: func(in core.Operands, dOut partial.Derivatives) ([]partial.Derivatives, error) {
		d, err := dOut.ReshapeWrt(len(in.Params.Shape), in.Inputs[0].Shape())
		if err != nil {
			return nil, err
		}
		return []partial.Derivatives{d}, nil
	},
})
