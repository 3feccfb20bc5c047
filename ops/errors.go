// SPDX-License-Identifier: MIT

package ops

import "errors"

var (
	// ErrArity indicates a wrong number of operands for an operator.
	ErrArity = errors.New("ops: wrong number of operands")

	// ErrUnknownOp indicates a tag that is not registered.
	ErrUnknownOp = errors.New("ops: unknown operator")
)
