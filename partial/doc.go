// SPDX-License-Identifier: MIT

// Package partial implements the partial-derivative algebra used by the
// differentiator.
//
// What:
//
//   - Derivatives: an immutable sparse map from a "with-respect-to" vertex ID to
//     a tensor whose axes are the concatenation [of-shape..., wrt-shape...].
//     A missing key is an implicit zero; absence is how "no differentiable path"
//     is represented, never an error.
//   - Algebra: Add/Subtract/Negate/MultiplyBy, elementwise products along the
//     of-block or the wrt-block (the tensor form of the chain rule), summation
//     over either block, reshape of either block, and broadcast correction.
//
// Broadcast correction mirrors tensor.BroadcastShapes (trailing alignment):
//
//   - forward mode: BroadcastOf lifts the of-block of an operand's partial up to
//     the operation's output shape before it is combined;
//   - reverse mode: ReduceWrt sums the wrt-block back down over exactly the
//     dimensions that were broadcast, recovering the operand's own shape.
//
// Every method returns a fresh value; the receiver is never modified. The zero
// value is an empty, ready-to-use Derivatives.
package partial
