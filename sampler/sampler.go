// SPDX-License-Identifier: MIT

package sampler

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/probgraph/core"
	"github.com/katalvlaran/probgraph/tensor"
)

var (
	// ErrParents indicates a wrong number of parameter parents.
	ErrParents = errors.New("sampler: wrong number of parameters")

	// ErrParameter indicates an invalid distribution parameter (σ ≤ 0, hi ≤ lo).
	ErrParameter = errors.New("sampler: invalid parameter")
)

// Gaussian returns a sampler reading parents [μ, σ].
func Gaussian() core.Sampler {
	return core.SamplerFunc(func(parents []*tensor.Tensor, shape []int, src rand.Source) (*tensor.Tensor, error) {
		return draw("Gaussian", parents, shape, func(mu, sigma float64) (float64, error) {
			if !(sigma > 0) {
				return 0, fmt.Errorf("%w: sigma %g", ErrParameter, sigma)
			}
			return distuv.Normal{Mu: mu, Sigma: sigma, Src: src}.Rand(), nil
		})
	})
}

// Uniform returns a sampler reading parents [lo, hi].
func Uniform() core.Sampler {
	return core.SamplerFunc(func(parents []*tensor.Tensor, shape []int, src rand.Source) (*tensor.Tensor, error) {
		return draw("Uniform", parents, shape, func(lo, hi float64) (float64, error) {
			if !(hi > lo) {
				return 0, fmt.Errorf("%w: [%g, %g)", ErrParameter, lo, hi)
			}
			return distuv.Uniform{Min: lo, Max: hi, Src: src}.Rand(), nil
		})
	})
}

// draw broadcasts the two parameter tensors to shape and draws one value per
// element.
func draw(tag string, parents []*tensor.Tensor, shape []int, one func(a, b float64) (float64, error)) (*tensor.Tensor, error) {
	if len(parents) != 2 {
		return nil, fmt.Errorf("sampler.%s: %w: got %d, want 2", tag, ErrParents, len(parents))
	}
	a, err := parents[0].BroadcastTo(shape)
	if err != nil {
		return nil, fmt.Errorf("sampler.%s: %w", tag, err)
	}
	b, err := parents[1].BroadcastTo(shape)
	if err != nil {
		return nil, fmt.Errorf("sampler.%s: %w", tag, err)
	}
	av, bv := a.Data(), b.Data()
	out := make([]float64, len(av))
	for i := range out {
		if out[i], err = one(av[i], bv[i]); err != nil {
			return nil, fmt.Errorf("sampler.%s: %w", tag, err)
		}
	}

	return tensor.New(shape, out)
}

// NewGaussian adds a Gaussian random variable of the given shape with
// parameter vertices mu and sigma to their graph.
func NewGaussian(mu, sigma *core.Vertex, shape []int, opts ...core.VertexOption) (*core.Vertex, error) {
	if mu == nil || sigma == nil {
		return nil, fmt.Errorf("sampler.NewGaussian: %w", core.ErrNilVertex)
	}

	return mu.Graph().NewProbabilistic(shape, Gaussian(), []*core.Vertex{mu, sigma}, opts...)
}

// NewUniform adds a Uniform random variable over [lo, hi).
func NewUniform(lo, hi *core.Vertex, shape []int, opts ...core.VertexOption) (*core.Vertex, error) {
	if lo == nil || hi == nil {
		return nil, fmt.Errorf("sampler.NewUniform: %w", core.ErrNilVertex)
	}

	return lo.Graph().NewProbabilistic(shape, Uniform(), []*core.Vertex{lo, hi}, opts...)
}
