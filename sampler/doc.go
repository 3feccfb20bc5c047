// SPDX-License-Identifier: MIT

// Package sampler provides core.Sampler implementations for random variables:
// Gaussian(μ, σ) and Uniform(lo, hi), both drawing element-wise from gonum's
// distuv with the graph's random source.
//
// Parameters are the values of the vertex's parents, broadcast to the vertex
// shape, so a scalar σ can drive a [n]-shaped Gaussian.
package sampler
