// SPDX-License-Identifier: MIT

// Package autodiff differentiates a probgraph vertex graph.
//
// What:
//
//   - ForwardModeAutoDiff(v): partials of v with respect to every latent
//     random variable it depends on, by an iterative post-order over
//     differentiable parents (package dfs).
//   - ForwardModeWithRespectTo(wrt, of...): one ascending-ID sweep from a
//     single input to several outputs.
//   - ReverseModeAutoDiff(of, wrt): adjoint of one output pulled back to a
//     set of targets through a descending-ID priority queue.
//   - IsDifferentiableWrtLatents(vs): reachability check that every path up
//     to the next random variable is differentiable or constant (package bfs).
//   - FiniteDifference(of, wrt): central-difference Jacobian, a gradient check.
//
// Layout:
//
//	Every partial tensor has shape [of..., wrt...]: the differentiated
//	vertex's shape followed by the differentiating vertex's shape, in both
//	modes.
//
// Rules:
//
//   - Random variables are leaves: a latent one has the identity partial
//     with respect to itself; an observed one is constant.
//   - Constants, observed deterministic vertices and non-differentiable
//     operators contribute no partial.
//   - Parent IDs precede child IDs, so descending ID order is a valid reverse
//     topological order and every adjoint is complete when popped.
//   - A target with no differentiable path is absent from the result, never
//     an error. An operator without the required local function fails with
//     ErrDifferentiationUnsupported.
//
// Every local derivative evaluation is reported to the graph's observers
// (core.Observer.OnDifferentiate).
package autodiff
