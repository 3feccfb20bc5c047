// SPDX-License-Identifier: MIT

// Package tensor: sentinel error set.
//
// Every message is prefixed with "tensor: ...". Operations wrap these with an
// operation tag via tensorErrorf; callers match with errors.Is.

package tensor

import (
	"errors"
	"fmt"
)

var (
	// ErrNilTensor indicates that a nil *Tensor was passed as an operand.
	ErrNilTensor = errors.New("tensor: nil tensor")

	// ErrBadShape is returned when a shape has a negative dimension or does not
	// match the number of supplied elements.
	ErrBadShape = errors.New("tensor: invalid shape")

	// ErrShapeMismatch indicates operands whose shapes cannot be combined, either
	// because they are not broadcast-compatible or because a contraction axis
	// differs in length.
	ErrShapeMismatch = errors.New("tensor: shape mismatch")

	// ErrOutOfRange indicates an element index outside the tensor bounds.
	ErrOutOfRange = errors.New("tensor: index out of range")

	// ErrAxis indicates an invalid, repeated or out-of-range axis argument.
	ErrAxis = errors.New("tensor: invalid axis")

	// ErrNotMatrix signals that a rank-2 operand was required.
	ErrNotMatrix = errors.New("tensor: rank-2 tensor required")

	// ErrNotSquare signals that a square matrix was required.
	ErrNotSquare = errors.New("tensor: matrix is not square")

	// ErrSingular is returned by Inverse for a singular matrix.
	ErrSingular = errors.New("tensor: singular matrix")

	// ErrNotPositiveDefinite is returned by Cholesky when the factorization fails.
	ErrNotPositiveDefinite = errors.New("tensor: matrix is not positive definite")

	// ErrPlaceholder indicates that a placeholder tensor was read as if it held data.
	ErrPlaceholder = errors.New("tensor: placeholder has no data")
)

// Operation tags for error wrapping.
const (
	opNew         = "New"
	opAt          = "At"
	opBroadcast   = "BroadcastTo"
	opReshape     = "Reshape"
	opPermute     = "Permute"
	opTranspose   = "Transpose"
	opSum         = "Sum"
	opMatMul      = "MatMul"
	opTensorDot   = "TensorDot"
	opInverse     = "Inverse"
	opDet         = "Det"
	opCholesky    = "Cholesky"
	opElementwise = "Elementwise"
)

// tensorErrorf wraps err with an operation tag, preserving it for errors.Is.
// Call only with a non-nil err.
func tensorErrorf(tag string, err error) error {
	return fmt.Errorf("tensor.%s: %w", tag, err)
}
