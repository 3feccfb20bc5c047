// SPDX-License-Identifier: MIT

package core

import "github.com/katalvlaran/probgraph/tensor"

// Snapshot records the value cells of a set of vertices so that a proposal
// (set, cascade, evaluate) can be rolled back.
type Snapshot struct {
	entries []snapshotEntry
}

type snapshotEntry struct {
	v          *Vertex
	value      *tensor.Tensor
	observed   *tensor.Tensor
	isObserved bool
}

// TakeSnapshot captures the value and observation state of vs. Tensors are
// immutable, so no data is copied.
func TakeSnapshot(vs ...*Vertex) *Snapshot {
	s := &Snapshot{entries: make([]snapshotEntry, 0, len(vs))}
	for _, v := range vs {
		if v == nil {
			continue
		}
		s.entries = append(s.entries, snapshotEntry{v: v, value: v.value, observed: v.observed, isObserved: v.isObserved})
	}

	return s
}

// Restore puts every captured vertex back into its recorded state.
func (s *Snapshot) Restore() {
	for _, e := range s.entries {
		e.v.value, e.v.observed, e.v.isObserved = e.value, e.observed, e.isObserved
	}
}

// Len returns the number of captured vertices.
func (s *Snapshot) Len() int { return len(s.entries) }
