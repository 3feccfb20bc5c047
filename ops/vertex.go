// SPDX-License-Identifier: MIT
//
// File: vertex.go
// Role: Vertex constructors over the operator table. Each creates the operation
// on the graph of its first operand.

package ops

import (
	"fmt"

	"github.com/katalvlaran/probgraph/core"
	"github.com/katalvlaran/probgraph/tensor"
)

// Apply creates a vertex computing the operator registered under tag.
func Apply(tag core.OpTag, params core.Params, operands []*core.Vertex, opts ...core.VertexOption) (*core.Vertex, error) {
	spec, ok := Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("ops.Apply: %w: %q", ErrUnknownOp, tag)
	}
	if len(operands) == 0 || operands[0] == nil {
		return nil, fmt.Errorf("ops.Apply(%s): %w", tag, core.ErrNilVertex)
	}

	return operands[0].Graph().NewOperation(spec, params, operands, opts...)
}

// Constant adds a constant vertex holding value to g.
func Constant(g *core.Graph, value *tensor.Tensor, opts ...core.VertexOption) (*core.Vertex, error) {
	return g.NewOperation(constantSpec, core.Params{Value: value}, nil, opts...)
}

// Identity returns a vertex forwarding x.
func Identity(x *core.Vertex, opts ...core.VertexOption) (*core.Vertex, error) {
	return Apply(TagIdentity, core.Params{}, []*core.Vertex{x}, opts...)
}

// Add returns a + b.
func Add(a, b *core.Vertex, opts ...core.VertexOption) (*core.Vertex, error) {
	return Apply(TagAdd, core.Params{}, []*core.Vertex{a, b}, opts...)
}

// Subtract returns a - b.
func Subtract(a, b *core.Vertex, opts ...core.VertexOption) (*core.Vertex, error) {
	return Apply(TagSubtract, core.Params{}, []*core.Vertex{a, b}, opts...)
}

// Multiply returns the element-wise product a ⊙ b.
func Multiply(a, b *core.Vertex, opts ...core.VertexOption) (*core.Vertex, error) {
	return Apply(TagMultiply, core.Params{}, []*core.Vertex{a, b}, opts...)
}

// Divide returns the element-wise quotient a / b.
func Divide(a, b *core.Vertex, opts ...core.VertexOption) (*core.Vertex, error) {
	return Apply(TagDivide, core.Params{}, []*core.Vertex{a, b}, opts...)
}

// Negate returns -x.
func Negate(x *core.Vertex, opts ...core.VertexOption) (*core.Vertex, error) {
	return Apply(TagNegate, core.Params{}, []*core.Vertex{x}, opts...)
}

// Sin returns the element-wise sine of x.
func Sin(x *core.Vertex, opts ...core.VertexOption) (*core.Vertex, error) {
	return Apply(TagSin, core.Params{}, []*core.Vertex{x}, opts...)
}

// Cos returns the element-wise cosine of x.
func Cos(x *core.Vertex, opts ...core.VertexOption) (*core.Vertex, error) {
	return Apply(TagCos, core.Params{}, []*core.Vertex{x}, opts...)
}

// Exp returns e raised element-wise to x.
func Exp(x *core.Vertex, opts ...core.VertexOption) (*core.Vertex, error) {
	return Apply(TagExp, core.Params{}, []*core.Vertex{x}, opts...)
}

// Log returns the natural logarithm of x.
func Log(x *core.Vertex, opts ...core.VertexOption) (*core.Vertex, error) {
	return Apply(TagLog, core.Params{}, []*core.Vertex{x}, opts...)
}

// Pow returns x raised element-wise to the constant p.
func Pow(x *core.Vertex, p float64, opts ...core.VertexOption) (*core.Vertex, error) {
	return Apply(TagPow, core.Params{Scalar: p}, []*core.Vertex{x}, opts...)
}

// Sum adds up x over dims, removing them. Without dims every element is summed.
func Sum(x *core.Vertex, dims []int, opts ...core.VertexOption) (*core.Vertex, error) {
	return Apply(TagSum, core.Params{Dims: append([]int(nil), dims...)}, []*core.Vertex{x}, opts...)
}

// Reshape reinterprets x with the given shape.
func Reshape(x *core.Vertex, shape []int, opts ...core.VertexOption) (*core.Vertex, error) {
	return Apply(TagReshape, core.Params{Shape: append([]int{}, shape...)}, []*core.Vertex{x}, opts...)
}

// MatMul returns the matrix product a·b.
func MatMul(a, b *core.Vertex, opts ...core.VertexOption) (*core.Vertex, error) {
	return Apply(TagMatMul, core.Params{}, []*core.Vertex{a, b}, opts...)
}

// Inverse returns x⁻¹.
func Inverse(x *core.Vertex, opts ...core.VertexOption) (*core.Vertex, error) {
	return Apply(TagInverse, core.Params{}, []*core.Vertex{x}, opts...)
}

// Determinant returns det(x) as a scalar vertex.
func Determinant(x *core.Vertex, opts ...core.VertexOption) (*core.Vertex, error) {
	return Apply(TagDeterminant, core.Params{}, []*core.Vertex{x}, opts...)
}

// Cholesky returns the lower Cholesky factor of x. Not differentiable in
// either mode.
func Cholesky(x *core.Vertex, opts ...core.VertexOption) (*core.Vertex, error) {
	return Apply(TagCholesky, core.Params{}, []*core.Vertex{x}, opts...)
}

// GreaterThan returns 1 where a > b and 0 elsewhere.
func GreaterThan(a, b *core.Vertex, opts ...core.VertexOption) (*core.Vertex, error) {
	return Apply(TagGreaterThan, core.Params{}, []*core.Vertex{a, b}, opts...)
}
