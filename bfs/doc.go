// SPDX-License-Identifier: MIT

// Package bfs provides breadth-first search over an implicit graph of integer
// nodes, returning visit order, depth and parent links.
//
// What
//
//   - Explore nodes in non-decreasing distance (edge count) from one or more
//     start nodes. Neighbors are supplied by a callback, so the same walker
//     serves directed, undirected and "parents ∪ children" exploration.
//   - Returns a BFSResult containing:
//   - Order: visit sequence
//   - Depth: map from node → distance (edges) from the nearest start
//   - Parent: map from node → its predecessor in the BFS tree
//   - OnVisit hook (when visiting; may abort with an error).
//   - Filtering of individual neighbor edges via WithFilterNeighbor, e.g. to
//     stop at random variables without hiding them from the visit.
//   - PathTo rebuilds the tree path from the start set to any reached node.
//
// Why
//
//   - Discover the connected component of a vertex (core.Discover).
//   - Reachability checks that stop on the first offending node: OnVisit returns
//     an error, the walk aborts, and PathTo on the partial result shows how the
//     node was reached (autodiff.IsDifferentiableWrtLatents).
//
// Determinism
//
//	Neighbors are enqueued in the order the callback returns them, so a
//	callback that returns sorted slices gives a fully reproducible order.
//
// Complexity (V = |nodes reached|, E = |edges inspected|)
//
//   - Time:   O(V + E)   (each node enqueued at most once)
//   - Memory: O(V)       (queue, Depth map, Parent map, visited set)
//
// Usage
//
//	res, err := bfs.BFS([]int{start}, func(n int) []int { return adj[n] },
//	    bfs.WithFilterNeighbor(func(curr, n int) bool { return !stop[curr] }),
//	    bfs.WithOnVisit(func(n, depth int) error { return nil }),
//	)
//
// Errors
//
//   - ErrNilNeighbors        if the neighbor callback is nil.
//   - ErrStartVertexNotFound if no start node is given or one is negative.
//   - Wrapped user-supplied hook errors from OnVisit.
package bfs
