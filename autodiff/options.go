// SPDX-License-Identifier: MIT

package autodiff

import (
	"fmt"

	"github.com/katalvlaran/probgraph/tensor"
)

// Option configures a differentiation call.
type Option func(*Options)

// Options holds the tunables of the differentiation entry points.
type Options struct {
	// Adjoint replaces the identity seed of reverse mode. Its trailing block
	// must equal the output shape; the result then has shape
	// [leading..., wrt...]. A scalar loss over a vector output, for instance,
	// is seeded with a [n]-shaped tensor of ones.
	Adjoint *tensor.Tensor

	// Step is the finite-difference perturbation. Default 1e-6.
	Step float64

	err error
}

// DefaultOptions returns identity seeding and a 1e-6 step.
func DefaultOptions() Options {
	return Options{Step: 1e-6}
}

// WithAdjoint seeds reverse mode with t instead of the identity.
func WithAdjoint(t *tensor.Tensor) Option {
	return func(o *Options) {
		if t == nil {
			o.err = fmt.Errorf("%w: nil adjoint", ErrOptionViolation)
			return
		}
		o.Adjoint = t
	}
}

// WithStep sets the finite-difference step; it must be positive.
func WithStep(h float64) Option {
	return func(o *Options) {
		if !(h > 0) {
			o.err = fmt.Errorf("%w: step %g", ErrOptionViolation, h)
			return
		}
		o.Step = h
	}
}

func buildOptions(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o, o.err
}
