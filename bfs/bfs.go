// SPDX-License-Identifier: MIT

// Package bfs provides breadth-first search over integer nodes,
// returning unweighted distances, parent links, and visit order.
package bfs

import "fmt"

// queueItem pairs a node with its BFS depth.
type queueItem struct {
	n     int
	depth int
}

// walker encapsulates mutable BFS state.
type walker struct {
	neighbors Neighbors
	opts      BFSOptions
	queue     []queueItem
	visited   map[int]bool
	res       *BFSResult
}

// BFS runs breadth-first search from every node in starts (all at depth 0),
// expanding each node through neighbors and applying any number of Options.
// Returns ErrNilNeighbors or ErrStartVertexNotFound for invalid input, or
// any user-supplied hook error.
// On a hook error the partial result gathered so far is returned with it.
func BFS(starts []int, neighbors Neighbors, opts ...Option) (*BFSResult, error) {
	if neighbors == nil {
		return nil, ErrNilNeighbors
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if len(starts) == 0 {
		return nil, ErrStartVertexNotFound
	}
	for _, s := range starts {
		if s < 0 {
			return nil, fmt.Errorf("%w: %d", ErrStartVertexNotFound, s)
		}
	}

	w := &walker{
		neighbors: neighbors,
		opts:      o,
		queue:     make([]queueItem, 0, len(starts)),
		visited:   make(map[int]bool, len(starts)),
		res: &BFSResult{
			Order:  make([]int, 0, len(starts)),
			Depth:  make(map[int]int, len(starts)),
			Parent: make(map[int]int, len(starts)),
		},
	}
	for _, s := range starts {
		if !w.visited[s] {
			w.enqueue(s, 0, NoParent)
		}
	}

	return w.res, w.loop()
}

// enqueue marks n visited at depth d, records its parent and adds it to the
// queue.
func (w *walker) enqueue(n, d, parent int) {
	w.visited[n] = true
	w.res.Depth[n] = d
	if parent != NoParent {
		w.res.Parent[n] = parent
	}
	w.queue = append(w.queue, queueItem{n: n, depth: d})
}

// loop processes the queue until empty or a hook error.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		item := w.dequeue()
		if err := w.visit(item); err != nil {
			return err
		}
		w.enqueueNeighbors(item)
	}

	return nil
}

// dequeue pops the first item.
func (w *walker) dequeue() queueItem {
	item := w.queue[0]
	w.queue = w.queue[1:]

	return item
}

// visit records the node in Order and calls OnVisit.
func (w *walker) visit(item queueItem) error {
	w.res.Order = append(w.res.Order, item.n)
	if err := w.opts.OnVisit(item.n, item.depth); err != nil {
		return fmt.Errorf("bfs: OnVisit error at %d: %w", item.n, err)
	}

	return nil
}

// enqueueNeighbors applies filtering and enqueues each unseen neighbor.
func (w *walker) enqueueNeighbors(item queueItem) {
	nextDepth := item.depth + 1
	for _, nbr := range w.neighbors(item.n) {
		if !w.opts.FilterNeighbor(item.n, nbr) {
			continue
		}
		if !w.visited[nbr] {
			w.enqueue(nbr, nextDepth, item.n)
		}
	}
}
