// SPDX-License-Identifier: MIT

package autodiff

import "errors"

var (
	// ErrDifferentiationUnsupported indicates a differentiable operator that
	// has no local function for the requested mode.
	ErrDifferentiationUnsupported = errors.New("autodiff: differentiation unsupported")

	// ErrPartialShape indicates a local function produced a partial whose
	// shape does not follow the [of..., wrt...] layout.
	ErrPartialShape = errors.New("autodiff: partial has wrong shape")

	// ErrObservedWrt indicates a finite-difference probe of an observed vertex,
	// whose value cannot be perturbed.
	ErrObservedWrt = errors.New("autodiff: cannot perturb an observed vertex")

	// ErrOptionViolation indicates an invalid option value.
	ErrOptionViolation = errors.New("autodiff: invalid option")
)
