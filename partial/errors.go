// SPDX-License-Identifier: MIT

package partial

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch indicates partials that cannot be combined: different
	// shapes under one key, or a local factor that does not match the block it
	// is applied to.
	ErrShapeMismatch = errors.New("partial: shape mismatch")

	// ErrRank indicates a block rank larger than the stored tensor rank.
	ErrRank = errors.New("partial: block rank exceeds tensor rank")

	// ErrNilFactor indicates a nil local factor tensor.
	ErrNilFactor = errors.New("partial: nil factor")
)

func partialErrorf(tag string, id fmt.Stringer, err error) error {
	return fmt.Errorf("partial.%s[%s]: %w", tag, id, err)
}
