// SPDX-License-Identifier: MIT

// Package probgraph is an in-memory probabilistic computation graph with
// lazy evaluation, cascading updates and automatic differentiation.
//
// 🚀 What is probgraph?
//
//	A thread-safe library for building models out of tensor-valued vertices:
//		• Probabilistic vertices (random variables) and deterministic operations
//		• Lazy evaluation, forced re-evaluation and change cascades
//		• Observation: pin any vertex to data
//		• Forward- and reverse-mode automatic differentiation
//		• Finite-difference gradient checks
//
// ✨ Why choose probgraph?
//
//   - Deterministic ordering – vertex IDs are hierarchical and totally ordered,
//     so every traversal is reproducible
//   - Minimal recomputation – each vertex is recalculated at most once per
//     evaluation or cascade
//   - Hooks – an Observer sees every calculation, sample and differentiation
//
// Packages:
//
//	vertexid/   hierarchical vertex IDs and the allocator
//	tensor/     dense N-d float64 tensors with placeholders and broadcasting
//	partial/    partial-derivative tensors and their algebra
//	bfs/, dfs/  traversals over the vertex arena
//	core/       Graph, Vertex, LazyEval, Eval and cascade
//	ops/        the operator registry and vertex constructors
//	sampler/    Gaussian and Uniform random variables
//	autodiff/   forward/reverse mode, differentiability checks, finite differences
//	metrics/    Prometheus counters fed by the Observer hook
//	config/     YAML configuration, logger and graph options
//	builder/    reproducible model topologies for tests and benchmarks
//
// Quick example:
//
//	a ─┐
//	   ├─ add ── sin
//	b ─┘
//
//	g := core.NewGraph()
//	a, _ := g.NewInput(nil, core.WithInitialValue(tensor.Scalar(1)))
//	b, _ := g.NewInput(nil, core.WithInitialValue(tensor.Scalar(0.7)))
//	s, _ := ops.Add(a, b)
//	y, _ := ops.Sin(s)
//	d, _ := autodiff.ReverseModeAutoDiff(y, []*core.Vertex{a})
//	da, _ := d.WithRespectTo(a.ID()) // cos(1.7)
package probgraph
