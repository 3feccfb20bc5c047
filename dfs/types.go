// SPDX-License-Identifier: MIT

// Package dfs defines types and options for depth-first traversal,
// including the post-order hook, neighbor filtering and a skip count.
package dfs

import "errors"

// VertexState represents the DFS visitation state of a node.
const (
	White = iota // White: the node has not been visited yet.
	Gray         // Gray: the node is on the stack (visiting).
	Black        // Black: the node and all its dependencies have exited.
)

var (
	// ErrNilDeps is returned when a nil dependency callback is passed.
	ErrNilDeps = errors.New("dfs: dependency function is nil")

	// ErrStartVertexNotFound indicates an invalid (negative) root.
	ErrStartVertexNotFound = errors.New("dfs: start vertex not found")

	// ErrCycleDetected indicates that a dependency cycle was encountered.
	ErrCycleDetected = errors.New("dfs: cycle detected")
)

// Deps returns the nodes that must exit before n can exit.
// It is called once per node, when the node is first discovered.
type Deps func(n int) []int

// Option configures optional behavior of DFS traversal.
type Option func(*DFSOptions)

// DFSOptions holds configurable parameters for DFS traversal.
// Complexity remains O(V+E) when filters and hooks are O(1).
type DFSOptions struct {
	// OnExit, if non-nil, is invoked once all dependencies of a node have
	// exited (post-order), before appending to result.Order.
	// Returning an error aborts traversal.
	OnExit func(n int) error

	// FilterNeighbor, if non-nil, is called for each dependency edge n→dep.
	// Return true to traverse into dep, false to skip it.
	FilterNeighbor func(n, dep int) bool
}

// DefaultOptions returns a DFSOptions with no hook and no filtering.
func DefaultOptions() DFSOptions {
	return DFSOptions{}
}

// WithOnExit returns an Option that installs fn as a post-order hook.
func WithOnExit(fn func(n int) error) Option {
	return func(o *DFSOptions) {
		o.OnExit = fn
	}
}

// WithFilterNeighbor returns an Option that filters dependency edges.
// If fn(n, dep) == false, that edge is skipped and counted in
// DFSResult.SkippedNeighbors.
func WithFilterNeighbor(fn func(n, dep int) bool) Option {
	return func(o *DFSOptions) {
		o.FilterNeighbor = fn
	}
}

// DFSResult captures the outcome of a depth-first traversal.
type DFSResult struct {
	// Order records nodes in the sequence they exited (post-order).
	Order []int

	// SkippedNeighbors reports how many edges were skipped
	// because FilterNeighbor returned false.
	SkippedNeighbors int
}
