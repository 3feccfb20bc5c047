// SPDX-License-Identifier: MIT

package dfs

import "fmt"

// frame is one entry of the explicit DFS stack.
type frame struct {
	n    int
	deps []int
	next int // index of the next dependency to inspect
}

// dfsWalker encapsulates state during DFS.
type dfsWalker struct {
	deps  Deps
	opts  DFSOptions
	state map[int]int
	stack []frame
	res   *DFSResult
}

// PostOrder walks the dependency graph from each root in turn and returns the
// nodes in post-order: a node exits only after every dependency reachable
// through FilterNeighbor has exited. Nodes already exited from an earlier
// root are not revisited.
//
// Implementation:
//   - Stage 1: validate inputs and apply options.
//   - Stage 2: for each White root, push a frame and loop: inspect the next
//     dependency of the top frame, pushing it if White and failing on Gray;
//     once all dependencies are inspected, pop, run OnExit, mark Black.
//
// On error the partial result is returned together with the error.
func PostOrder(roots []int, deps Deps, opts ...Option) (*DFSResult, error) {
	if deps == nil {
		return nil, ErrNilDeps
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	for _, r := range roots {
		if r < 0 {
			return nil, fmt.Errorf("%w: %d", ErrStartVertexNotFound, r)
		}
	}

	w := &dfsWalker{
		deps:  deps,
		opts:  o,
		state: make(map[int]int, len(roots)),
		res:   &DFSResult{Order: make([]int, 0, len(roots))},
	}
	for _, r := range roots {
		if w.state[r] != White {
			continue
		}
		if err := w.run(r); err != nil {
			return w.res, err
		}
	}

	return w.res, nil
}

// run drives the explicit stack from a single root.
func (w *dfsWalker) run(root int) error {
	w.push(root)
	for len(w.stack) > 0 {
		top := &w.stack[len(w.stack)-1]
		if top.next < len(top.deps) {
			dep := top.deps[top.next]
			top.next++
			if err := w.inspect(top.n, dep); err != nil {
				return err
			}
			continue
		}
		n := top.n
		w.stack = w.stack[:len(w.stack)-1]
		if err := w.exit(n); err != nil {
			return err
		}
	}

	return nil
}

// inspect handles one dependency edge n→dep.
func (w *dfsWalker) inspect(n, dep int) error {
	if w.opts.FilterNeighbor != nil && !w.opts.FilterNeighbor(n, dep) {
		w.res.SkippedNeighbors++
		return nil
	}
	switch w.state[dep] {
	case Gray:
		return fmt.Errorf("%w: %d -> %d", ErrCycleDetected, n, dep)
	case Black:
		return nil
	}
	w.push(dep)

	return nil
}

// push marks n Gray and fetches its dependencies.
func (w *dfsWalker) push(n int) {
	w.state[n] = Gray
	w.stack = append(w.stack, frame{n: n, deps: w.deps(n)})
}

// exit runs the post-order hook, marks n Black and records it.
func (w *dfsWalker) exit(n int) error {
	if w.opts.OnExit != nil {
		if err := w.opts.OnExit(n); err != nil {
			return fmt.Errorf("dfs: OnExit hook for %d: %w", n, err)
		}
	}
	w.state[n] = Black
	w.res.Order = append(w.res.Order, n)

	return nil
}
