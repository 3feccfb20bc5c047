// SPDX-License-Identifier: MIT

// Package tensor provides the immutable n-dimensional float64 array that every
// vertex value and every partial derivative in probgraph is made of.
//
// What:
//
//   - Tensor: a shape ([]int, row-major) plus a flat data buffer. Rank 0 is a
//     scalar, rank 1 a vector, rank 2 a matrix, and so on.
//   - Element-wise kernels with NumPy-style broadcasting: Add, Sub, Mul, Div,
//     Neg, Sin, Cos, Exp, Log, Pow, Scale, Map, GreaterThan.
//   - Shape manipulation: Reshape, BroadcastTo, Permute, Transpose, Sum over
//     dimensions, Identity.
//   - Linear algebra on rank-2 tensors: MatMul, Inverse, Det, Cholesky, and the
//     general contraction TensorDot which the differentiation rules build on.
//
// Why:
//
//   - A single value type lets the graph engine stay agnostic of what an
//     operation computes; shapes are the only thing it ever checks.
//
// Determinism & Safety:
//
//   - Every operation allocates a fresh result; inputs are never mutated.
//     A *Tensor may therefore be shared freely between vertices and goroutines.
//   - Public operations return sentinel errors (see errors.go) instead of
//     panicking on user-triggered shape problems. The Must*/Zeros/Ones helpers
//     panic only on programmer errors such as a negative dimension.
//
// Backing libraries:
//
//   - gonum.org/v1/gonum/floats for flat element-wise kernels,
//   - gonum.org/v1/gonum/blas/gonum for the Dgemm matrix product,
//   - gonum.org/v1/gonum/mat for inverse, determinant and Cholesky.
package tensor
