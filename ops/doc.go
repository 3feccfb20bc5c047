// SPDX-License-Identifier: MIT

// Package ops is the operator table of probgraph: every deterministic vertex
// refers to one *core.OpSpec registered here, looked up by tag.
//
// Each spec bundles four local functions:
//
//   - Shape:     output shape from operand shapes (validates at construction).
//   - Calculate: output value from operand values.
//   - Forward:   output partials from operand partials, [shape..., wrt...].
//   - Reverse:   operand adjoints from the output adjoint, [of..., shape...].
//
// Operators:
//
//	constant identity                       no operands / pass-through
//	add subtract multiply divide            broadcasting binary
//	negate sin cos exp log pow              unary element-wise
//	sum reshape                             shape transforms
//	matmul inverse determinant              matrix calculus via TensorDot
//	cholesky                                value only (differentiation unsupported)
//	greaterThan                             non-differentiable comparison
//
// The vertex constructors (Add, MatMul, Sum, ...) create the operation on the
// graph of their first operand and return the new vertex.
//
// Broadcasting:
//
//	Binary element-wise operators broadcast with the trailing-alignment rule
//	of tensor.BroadcastShapes. Forward mode lifts each operand partial to the
//	output shape (partial.BroadcastOf); reverse mode sums the adjoint back to
//	the operand shape (partial.ReduceWrt).
package ops
