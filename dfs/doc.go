// SPDX-License-Identifier: MIT

// Package dfs implements an iterative depth-first post-order walk over integer
// nodes whose dependencies are supplied by a callback.
//
// Key features:
//   - PostOrder(roots, deps, opts...): every node reachable from roots exits
//     exactly once, after all of its dependencies have exited.
//   - Explicit stack, no recursion: deep dependency chains (tens of thousands of
//     links) cannot overflow the goroutine stack.
//   - White/Gray/Black colouring: meeting a Gray node is a back edge and aborts
//     the walk with ErrCycleDetected.
//   - OnExit (post-order) hook with error abort.
//   - FilterNeighbor prunes dependency edges; SkippedNeighbors counts them.
//
// This is the traversal behind value propagation (core.LazyEval, core.Eval)
// and forward-mode differentiation: deps returns the nodes that still need
// work, and OnExit performs the node's own computation once they are done.
//
// Complexity:
//
//   - Time:   O(V + E) plus the cost of hooks and the deps callback.
//   - Memory: O(V) for the explicit stack and state maps.
//
// Errors:
//
//   - ErrNilDeps               if deps is nil.
//   - ErrStartVertexNotFound   if a root is negative.
//   - ErrCycleDetected         if a dependency cycle is reached.
//   - any error returned by OnExit (wrapped).
package dfs
