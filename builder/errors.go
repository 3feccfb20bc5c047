// SPDX-License-Identifier: MIT

package builder

import (
	"errors"
	"fmt"
)

var (
	// ErrTooFewVertices indicates a size parameter below its minimum.
	ErrTooFewVertices = errors.New("builder: parameter too small")

	// ErrConstructFailed indicates that a link function rejected its operands.
	ErrConstructFailed = errors.New("builder: construction failed")
)

// Method names used as error prefixes.
const (
	MethodChain     = "Chain"
	MethodDiamond   = "Diamond"
	MethodRandomDAG = "RandomDAG"
)

// wrapf prefixes err with the constructor name, keeping it for errors.Is.
func wrapf(method, format string, args ...any) error {
	return fmt.Errorf("builder.%s: "+format, append([]any{method}, args...)...)
}
