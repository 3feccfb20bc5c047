// SPDX-License-Identifier: MIT
//
// File: pointwise.go
// Role: Element-wise operators with broadcasting, described by their local
// gradient factors.
//
// A pointwise operator f(x₀, x₁, ...) has ∂f/∂xᵢ = gᵢ, a tensor of the output
// shape. Then
//
//	forward:  dOut = Σᵢ BroadcastOf(dxᵢ) ⊙ₒ gᵢ
//	reverse:  dxᵢ  = ReduceWrt(dOut ⊙_w gᵢ)
//
// where ⊙ₒ multiplies along the of-block and ⊙_w along the wrt-block.

package ops

import (
	"fmt"
	"math"

	"github.com/katalvlaran/probgraph/core"
	"github.com/katalvlaran/probgraph/partial"
	"github.com/katalvlaran/probgraph/tensor"
)

// gradFunc returns one factor per operand; a nil factor stands for ones.
// in.Output is always set.
type gradFunc func(in core.Operands) ([]*tensor.Tensor, error)

type pointwise struct {
	tag   core.OpTag
	arity int
	calc  core.CalculateFunc
	grad  gradFunc
}

func (p pointwise) spec() *core.OpSpec {
	return &core.OpSpec{
		Tag:       p.tag,
		Shape:     p.shape,
		Calculate: p.calculate,
		Forward:   p.forward,
		Reverse:   p.reverse,
	}
}

func (p pointwise) shape(in [][]int, _ core.Params) ([]int, error) {
	if len(in) != p.arity {
		return nil, fmt.Errorf("ops.%s: %w: got %d, want %d", p.tag, ErrArity, len(in), p.arity)
	}

	return tensor.BroadcastShapes(in...)
}

func (p pointwise) calculate(in core.Operands) (*tensor.Tensor, error) {
	if len(in.Inputs) != p.arity {
		return nil, fmt.Errorf("ops.%s: %w: got %d, want %d", p.tag, ErrArity, len(in.Inputs), p.arity)
	}

	return p.calc(in)
}

// factors evaluates the local gradient factors, broadcast to the output shape.
func (p pointwise) factors(in core.Operands) ([]*tensor.Tensor, []int, error) {
	if in.Output == nil {
		out, err := p.calculate(in)
		if err != nil {
			return nil, nil, err
		}
		in.Output = out
	}
	outShape := in.Output.Shape()
	gs, err := p.grad(in)
	if err != nil {
		return nil, nil, fmt.Errorf("ops.%s: %w", p.tag, err)
	}
	for i, g := range gs {
		if g == nil || tensor.SameShape(g.Shape(), outShape) {
			continue
		}
		if gs[i], err = g.BroadcastTo(outShape); err != nil {
			return nil, nil, fmt.Errorf("ops.%s: %w", p.tag, err)
		}
	}

	return gs, outShape, nil
}

func (p pointwise) forward(in core.Operands, dIn []partial.Derivatives) (partial.Derivatives, error) {
	gs, outShape, err := p.factors(in)
	if err != nil {
		return partial.Derivatives{}, err
	}
	var out partial.Derivatives
	for i, d := range dIn {
		if d.IsEmpty() {
			continue
		}
		d, err = d.BroadcastOf(in.Inputs[i].Shape(), outShape)
		if err != nil {
			return partial.Derivatives{}, fmt.Errorf("ops.%s: %w", p.tag, err)
		}
		if gs[i] != nil {
			if d, err = d.MultiplyAlongOfDimensions(gs[i]); err != nil {
				return partial.Derivatives{}, fmt.Errorf("ops.%s: %w", p.tag, err)
			}
		}
		if out, err = out.Add(d); err != nil {
			return partial.Derivatives{}, fmt.Errorf("ops.%s: %w", p.tag, err)
		}
	}

	return out, nil
}

func (p pointwise) reverse(in core.Operands, dOut partial.Derivatives) ([]partial.Derivatives, error) {
	gs, outShape, err := p.factors(in)
	if err != nil {
		return nil, err
	}
	res := make([]partial.Derivatives, len(in.Inputs))
	for i, x := range in.Inputs {
		d := dOut
		if gs[i] != nil {
			if d, err = d.MultiplyAlongWrtDimensions(gs[i]); err != nil {
				return nil, fmt.Errorf("ops.%s: %w", p.tag, err)
			}
		}
		if res[i], err = d.ReduceWrt(outShape, x.Shape()); err != nil {
			return nil, fmt.Errorf("ops.%s: %w", p.tag, err)
		}
	}

	return res, nil
}

var (
	identitySpec = register(pointwise{
		tag: TagIdentity, arity: 1,
		calc: func(in core.Operands) (*tensor.Tensor, error) { return in.Inputs[0], nil },
		grad: func(core.Operands) ([]*tensor.Tensor, error) { return []*tensor.Tensor{nil}, nil },
	}.spec())

	addSpec = register(pointwise{
		tag: TagAdd, arity: 2,
		calc: func(in core.Operands) (*tensor.Tensor, error) { return tensor.Add(in.Inputs[0], in.Inputs[1]) },
		grad: func(core.Operands) ([]*tensor.Tensor, error) { return []*tensor.Tensor{nil, nil}, nil },
	}.spec())

	subtractSpec = register(pointwise{
		tag: TagSubtract, arity: 2,
		calc: func(in core.Operands) (*tensor.Tensor, error) { return tensor.Sub(in.Inputs[0], in.Inputs[1]) },
		grad: func(in core.Operands) ([]*tensor.Tensor, error) {
			return []*tensor.Tensor{nil, tensor.Fill(-1, in.Output.Shape()...)}, nil
		},
	}.spec())

	multiplySpec = register(pointwise{
		tag: TagMultiply, arity: 2,
		calc: func(in core.Operands) (*tensor.Tensor, error) { return tensor.Mul(in.Inputs[0], in.Inputs[1]) },
		grad: func(in core.Operands) ([]*tensor.Tensor, error) {
			return []*tensor.Tensor{in.Inputs[1], in.Inputs[0]}, nil
		},
	}.spec())

	divideSpec = register(pointwise{
		tag: TagDivide, arity: 2,
		calc: func(in core.Operands) (*tensor.Tensor, error) { return tensor.Div(in.Inputs[0], in.Inputs[1]) },
		grad: func(in core.Operands) ([]*tensor.Tensor, error) {
			y := in.Inputs[1]
			// ∂(x/y)/∂y = -(x/y)/y
			dy, err := tensor.Div(in.Output, y)
			if err != nil {
				return nil, err
			}
			return []*tensor.Tensor{y.Reciprocal(), dy.Neg()}, nil
		},
	}.spec())

	negateSpec = register(pointwise{
		tag: TagNegate, arity: 1,
		calc: func(in core.Operands) (*tensor.Tensor, error) { return in.Inputs[0].Neg(), nil },
		grad: func(in core.Operands) ([]*tensor.Tensor, error) {
			return []*tensor.Tensor{tensor.Fill(-1, in.Output.Shape()...)}, nil
		},
	}.spec())

	sinSpec = register(pointwise{
		tag: TagSin, arity: 1,
		calc: func(in core.Operands) (*tensor.Tensor, error) { return in.Inputs[0].Sin(), nil },
		grad: func(in core.Operands) ([]*tensor.Tensor, error) { return []*tensor.Tensor{in.Inputs[0].Cos()}, nil },
	}.spec())

	cosSpec = register(pointwise{
		tag: TagCos, arity: 1,
		calc: func(in core.Operands) (*tensor.Tensor, error) { return in.Inputs[0].Cos(), nil },
		grad: func(in core.Operands) ([]*tensor.Tensor, error) {
			return []*tensor.Tensor{in.Inputs[0].Sin().Neg()}, nil
		},
	}.spec())

	expSpec = register(pointwise{
		tag: TagExp, arity: 1,
		calc: func(in core.Operands) (*tensor.Tensor, error) { return in.Inputs[0].Exp(), nil },
		grad: func(in core.Operands) ([]*tensor.Tensor, error) { return []*tensor.Tensor{in.Output}, nil },
	}.spec())

	logSpec = register(pointwise{
		tag: TagLog, arity: 1,
		calc: func(in core.Operands) (*tensor.Tensor, error) { return in.Inputs[0].Log(), nil },
		grad: func(in core.Operands) ([]*tensor.Tensor, error) {
			return []*tensor.Tensor{in.Inputs[0].Reciprocal()}, nil
		},
	}.spec())

	// pow raises to the constant exponent Params.Scalar.
	powSpec = register(pointwise{
		tag: TagPow, arity: 1,
		calc: func(in core.Operands) (*tensor.Tensor, error) { return in.Inputs[0].Pow(in.Params.Scalar), nil },
		grad: func(in core.Operands) ([]*tensor.Tensor, error) {
			p := in.Params.Scalar
			return []*tensor.Tensor{in.Inputs[0].Map(func(x float64) float64 { return p * math.Pow(x, p-1) })}, nil
		},
	}.spec())
)

// greaterThanSpec yields 1 where x > y and 0 elsewhere. No gradient flows
// through it.
var greaterThanSpec = register(&core.OpSpec{
	Tag: TagGreaterThan,
	Shape: func(in [][]int, _ core.Params) ([]int, error) {
		if len(in) != 2 {
			return nil, fmt.Errorf("ops.%s: %w", TagGreaterThan, ErrArity)
		}
		return tensor.BroadcastShapes(in...)
	},
	Calculate: func(in core.Operands) (*tensor.Tensor, error) {
		return tensor.GreaterThan(in.Inputs[0], in.Inputs[1])
	},
	NonDifferentiable: true,
})
