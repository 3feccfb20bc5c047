// SPDX-License-Identifier: MIT

// Package bfs provides tunable options and error definitions
// for breadth-first search over integer nodes.
package bfs

import (
	"errors"
	"fmt"
)

// Sentinel errors for BFS execution.
var (
	// ErrStartVertexNotFound is returned when no valid start node is supplied.
	ErrStartVertexNotFound = errors.New("bfs: start vertex not found")

	// ErrNilNeighbors is returned if a nil neighbor callback is passed.
	ErrNilNeighbors = errors.New("bfs: neighbor function is nil")
)

// NoParent marks a start node in BFSResult.Parent lookups.
const NoParent = -1

// Neighbors returns the nodes adjacent to n.
type Neighbors func(n int) []int

// Option configures BFS behavior via functional arguments.
type Option func(*BFSOptions)

// BFSOptions holds the callbacks that customize BFS execution.
type BFSOptions struct {
	// OnVisit is called when visiting a node. If it returns an error,
	// BFS aborts and propagates that error.
	OnVisit func(n int, depth int) error

	// FilterNeighbor can skip edges by returning false.
	// Called for each edge curr→neighbor.
	FilterNeighbor func(curr, neighbor int) bool
}

// DefaultOptions returns a BFSOptions with a no-op OnVisit and no filtering.
func DefaultOptions() BFSOptions {
	return BFSOptions{
		OnVisit:        func(int, int) error { return nil },
		FilterNeighbor: func(_, _ int) bool { return true },
	}
}

// WithOnVisit registers a callback to run on visit; returning an error
// from this callback stops the BFS.
func WithOnVisit(fn func(n int, depth int) error) Option {
	return func(o *BFSOptions) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// WithFilterNeighbor skips neighbors when fn returns false. A node whose
// outgoing edges are all filtered is still visited; the walk just does not
// continue past it.
func WithFilterNeighbor(fn func(curr, neighbor int) bool) Option {
	return func(o *BFSOptions) {
		if fn != nil {
			o.FilterNeighbor = fn
		}
	}
}

// BFSResult holds the outcome of a BFS traversal:
//   - Order: nodes visited, in visit sequence.
//   - Depth: map from node to its distance (in edges) from the start set.
//   - Parent: map from node to its predecessor in the BFS tree (starts absent).
type BFSResult struct {
	Order  []int
	Depth  map[int]int
	Parent map[int]int
}

// Reached reports whether n was enqueued during the walk.
func (r *BFSResult) Reached(n int) bool {
	_, ok := r.Depth[n]
	return ok
}

// PathTo reconstructs the path from the start set to dest.
// Returns an error if dest was not reached.
func (r *BFSResult) PathTo(dest int) ([]int, error) {
	if !r.Reached(dest) {
		return nil, fmt.Errorf("bfs: no path to %d", dest)
	}
	path := []int{}
	for cur := dest; ; {
		path = append(path, cur)
		prev, ok := r.Parent[cur]
		if !ok {
			break
		}
		cur = prev
	}
	// reverse to get start → dest
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}
