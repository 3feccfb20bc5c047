// SPDX-License-Identifier: MIT

// Package core provides the vertex graph of a probabilistic model and the
// value-propagation engine that runs over it.
//
// The Graph is an arena of vertices addressed by integer index; adjacency is
// stored as sorted index sets, and every vertex carries a vertexid.ID that is
// strictly greater than the IDs of all of its parents. Sorting by ID is
// therefore always a valid topological order, which the cascade and the
// reverse-mode differentiator (package autodiff) rely on.
//
// Vertices come in two kinds:
//
//   - NonProbabilistic: the value is a pure function of the operands,
//     computed by the vertex's OpSpec.Calculate (operator table in package ops).
//   - Probabilistic: the value is supplied externally (SetValue, Observe) or drawn
//     from an optional Sampler; it is never recomputed from parents.
//
// Value cell:
//
//   - A vertex starts with a shape-only placeholder; HasValue reports false
//     until a value is calculated, sampled, set or observed.
//   - Observation is held separately from the free value cell: Observe pins a
//     value that SetValue cannot change, Unobserve reveals the free cell again.
//
// Propagation (propagation.go):
//
//	LazyEval(vs...)       compute only what is missing, walking toward parents
//	Eval(vs...)           recompute every deterministic ancestor; stop at random variables
//	CascadeUpdate(src...) push changed values down to deterministic descendants
//	Discover(seed)        connected component over parents ∪ children
//
// Each pass computes every vertex at most once, however many paths reach it.
//
// Concurrency:
//
//   - Construction (NewOperation, NewProbabilistic, ...) is guarded by an
//     internal lock, so several goroutines may add vertices to one graph.
//   - Value access and traversal are not synchronized: callers serialize passes
//     over a graph, as one inference step naturally does.
//
// Errors:
//
//	ErrNilVertex             – nil *Vertex argument
//	ErrForeignVertex         – vertex belongs to another graph
//	ErrIDOrder               – a parent ID is not smaller than its child's
//	ErrAdjacency             – parent/child sets out of sync (Validate)
//	ErrCycleDetected         – Validate found a dependency cycle
//	ErrNilOp                 – operation without an OpSpec or Calculate
//	ErrUnresolvedPlaceholder – a required input was never supplied
//	ErrDuplicateLabel        – label already used in the graph
package core
