// SPDX-License-Identifier: MIT
//
// File: linalg.go
// Role: matmul, inverse, determinant and cholesky.
//
// Every rule is a tensor contraction over the partial layout [of..., wrt...]:
//
//	C = A·B      forward:  dC = dA·B + A·dB
//	             reverse:  Ā = C̄·Bᵀ,  B̄ = Aᵀ·C̄
//	Y = X⁻¹      forward:  dY = -Y·dX·Y
//	             reverse:  X̄ = -Yᵀ·Ȳ·Yᵀ
//	d = det(X)   forward:  dd = ⟨d·X⁻ᵀ, dX⟩
//	             reverse:  X̄ = d̄ ⊗ d·X⁻ᵀ

package ops

import (
	"fmt"

	"github.com/katalvlaran/probgraph/core"
	"github.com/katalvlaran/probgraph/partial"
	"github.com/katalvlaran/probgraph/tensor"
	"github.com/katalvlaran/probgraph/vertexid"
)

var matMulSpec = register(&core.OpSpec{
	Tag: TagMatMul,
	Shape: func(in [][]int, _ core.Params) ([]int, error) {
		if len(in) != 2 {
			return nil, fmt.Errorf("ops.%s: %w", TagMatMul, ErrArity)
		}
		a, b := in[0], in[1]
		if len(a) != 2 || len(b) != 2 {
			return nil, fmt.Errorf("ops.%s: %w: %v · %v", TagMatMul, tensor.ErrNotMatrix, a, b)
		}
		if a[1] != b[0] {
			return nil, fmt.Errorf("ops.%s: %w: %v · %v", TagMatMul, tensor.ErrShapeMismatch, a, b)
		}
		return []int{a[0], b[1]}, nil
	},
	Calculate: func(in core.Operands) (*tensor.Tensor, error) {
		return tensor.MatMul(in.Inputs[0], in.Inputs[1])
	},
	Forward: matMulForward,
	Reverse: matMulReverse,
})

func matMulForward(in core.Operands, dIn []partial.Derivatives) (partial.Derivatives, error) {
	a, b := in.Inputs[0], in.Inputs[1]
	// dA·B: [m, k, w...] × [k, n] → [m, w..., n] → [m, n, w...]
	left, err := dIn[0].Apply(func(_ vertexid.ID, p *tensor.Tensor) (*tensor.Tensor, error) {
		t, err := tensor.TensorDot(p, b, []int{1}, []int{0})
		if err != nil {
			return nil, err
		}
		return moveLast(t, 1)
	})
	if err != nil {
		return partial.Derivatives{}, fmt.Errorf("ops.%s: %w", TagMatMul, err)
	}
	// A·dB: [m, k] × [k, n, w...] → [m, n, w...]
	right, err := dIn[1].Apply(func(_ vertexid.ID, p *tensor.Tensor) (*tensor.Tensor, error) {
		return tensor.TensorDot(a, p, []int{1}, []int{0})
	})
	if err != nil {
		return partial.Derivatives{}, fmt.Errorf("ops.%s: %w", TagMatMul, err)
	}

	return left.Add(right)
}

func matMulReverse(in core.Operands, dOut partial.Derivatives) ([]partial.Derivatives, error) {
	a, b := in.Inputs[0], in.Inputs[1]
	// Ā = C̄·Bᵀ: [of..., m, n] × [k, n] → [of..., m, k]
	da, err := dOut.Apply(func(_ vertexid.ID, g *tensor.Tensor) (*tensor.Tensor, error) {
		return tensor.TensorDot(g, b, []int{g.Rank() - 1}, []int{1})
	})
	if err != nil {
		return nil, fmt.Errorf("ops.%s: %w", TagMatMul, err)
	}
	// B̄ = Aᵀ·C̄: [of..., m, n] × [m, k] → [of..., n, k] → [of..., k, n]
	db, err := dOut.Apply(func(_ vertexid.ID, g *tensor.Tensor) (*tensor.Tensor, error) {
		t, err := tensor.TensorDot(g, a, []int{g.Rank() - 2}, []int{0})
		if err != nil {
			return nil, err
		}
		return t.Transpose()
	})
	if err != nil {
		return nil, fmt.Errorf("ops.%s: %w", TagMatMul, err)
	}

	return []partial.Derivatives{da, db}, nil
}

var inverseSpec = register(&core.OpSpec{
	Tag:       TagInverse,
	Shape:     squareShape(TagInverse, false),
	Calculate: func(in core.Operands) (*tensor.Tensor, error) { return tensor.Inverse(in.Inputs[0]) },
	Forward: func(in core.Operands, dIn []partial.Derivatives) (partial.Derivatives, error) {
		y, err := outputOf(in, tensor.Inverse)
		if err != nil {
			return partial.Derivatives{}, err
		}
		d, err := dIn[0].Apply(func(_ vertexid.ID, p *tensor.Tensor) (*tensor.Tensor, error) {
			// Y·dX: [n, n] × [n, n, w...] → [n, n, w...]
			t, err := tensor.TensorDot(y, p, []int{1}, []int{0})
			if err != nil {
				return nil, err
			}
			// ·Y: [n, n, w...] × [n, n] → [n, w..., n]
			if t, err = tensor.TensorDot(t, y, []int{1}, []int{0}); err != nil {
				return nil, err
			}
			if t, err = moveLast(t, 1); err != nil {
				return nil, err
			}
			return t.Neg(), nil
		})
		if err != nil {
			return partial.Derivatives{}, fmt.Errorf("ops.%s: %w", TagInverse, err)
		}
		return d, nil
	},
	Reverse: func(in core.Operands, dOut partial.Derivatives) ([]partial.Derivatives, error) {
		y, err := outputOf(in, tensor.Inverse)
		if err != nil {
			return nil, err
		}
		d, err := dOut.Apply(func(_ vertexid.ID, g *tensor.Tensor) (*tensor.Tensor, error) {
			ofRank := g.Rank() - 2
			// X̄_ab = -Σ_ij Ȳ_ij Y_ia Y_bj
			t, err := tensor.TensorDot(g, y, []int{ofRank}, []int{0})
			if err != nil {
				return nil, err
			}
			if t, err = tensor.TensorDot(t, y, []int{ofRank}, []int{1}); err != nil {
				return nil, err
			}
			return t.Neg(), nil
		})
		if err != nil {
			return nil, fmt.Errorf("ops.%s: %w", TagInverse, err)
		}
		return []partial.Derivatives{d}, nil
	},
})

var determinantSpec = register(&core.OpSpec{
	Tag:   TagDeterminant,
	Shape: squareShape(TagDeterminant, true),
	Calculate: func(in core.Operands) (*tensor.Tensor, error) {
		d, err := tensor.Det(in.Inputs[0])
		if err != nil {
			return nil, err
		}
		return tensor.Scalar(d), nil
	},
	Forward: func(in core.Operands, dIn []partial.Derivatives) (partial.Derivatives, error) {
		m, err := detGradient(in.Inputs[0])
		if err != nil {
			return partial.Derivatives{}, err
		}
		return dIn[0].Apply(func(_ vertexid.ID, p *tensor.Tensor) (*tensor.Tensor, error) {
			return tensor.TensorDot(m, p, []int{0, 1}, []int{0, 1})
		})
	},
	Reverse: func(in core.Operands, dOut partial.Derivatives) ([]partial.Derivatives, error) {
		m, err := detGradient(in.Inputs[0])
		if err != nil {
			return nil, err
		}
		d, err := dOut.Apply(func(_ vertexid.ID, g *tensor.Tensor) (*tensor.Tensor, error) {
			return tensor.TensorDot(g, m, nil, nil)
		})
		if err != nil {
			return nil, fmt.Errorf("ops.%s: %w", TagDeterminant, err)
		}
		return []partial.Derivatives{d}, nil
	},
})

// detGradient returns ∂det(X)/∂X = det(X)·X⁻ᵀ.
func detGradient(x *tensor.Tensor) (*tensor.Tensor, error) {
	det, err := tensor.Det(x)
	if err != nil {
		return nil, fmt.Errorf("ops.%s: %w", TagDeterminant, err)
	}
	inv, err := tensor.Inverse(x)
	if err != nil {
		return nil, fmt.Errorf("ops.%s: %w", TagDeterminant, err)
	}
	invT, err := inv.Transpose()
	if err != nil {
		return nil, fmt.Errorf("ops.%s: %w", TagDeterminant, err)
	}

	return invT.Scale(det), nil
}

// choleskySpec computes the lower factor only; both differentiation modes are
// unsupported.
var choleskySpec = register(&core.OpSpec{
	Tag:       TagCholesky,
	Shape:     squareShape(TagCholesky, false),
	Calculate: func(in core.Operands) (*tensor.Tensor, error) { return tensor.Cholesky(in.Inputs[0]) },
})

// squareShape validates a single square-matrix operand. scalar selects a
// scalar output instead of the operand shape.
func squareShape(tag core.OpTag, scalar bool) core.ShapeFunc {
	return func(in [][]int, _ core.Params) ([]int, error) {
		if len(in) != 1 {
			return nil, fmt.Errorf("ops.%s: %w", tag, ErrArity)
		}
		s := in[0]
		if len(s) != 2 {
			return nil, fmt.Errorf("ops.%s: %w: %v", tag, tensor.ErrNotMatrix, s)
		}
		if s[0] != s[1] {
			return nil, fmt.Errorf("ops.%s: %w: %v", tag, tensor.ErrNotSquare, s)
		}
		if scalar {
			return []int{}, nil
		}
		return []int{s[0], s[1]}, nil
	}
}

// outputOf returns in.Output, recomputing it from the single input if unset.
func outputOf(in core.Operands, calc func(*tensor.Tensor) (*tensor.Tensor, error)) (*tensor.Tensor, error) {
	if in.Output != nil {
		return in.Output, nil
	}

	return calc(in.Inputs[0])
}

// moveLast moves the last axis of t to position pos.
func moveLast(t *tensor.Tensor, pos int) (*tensor.Tensor, error) {
	r := t.Rank()
	if pos == r-1 {
		return t, nil
	}
	perm := make([]int, 0, r)
	for i := 0; i < pos; i++ {
		perm = append(perm, i)
	}
	perm = append(perm, r-1)
	for i := pos; i < r-1; i++ {
		perm = append(perm, i)
	}

	return t.Permute(perm...)
}
