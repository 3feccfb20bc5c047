// SPDX-License-Identifier: MIT

package vertexid

import "sync/atomic"

// Allocator hands out strictly increasing IDs.
//
// Nested allocators created via Nested share the counter of their parent, so
// values stay unique across all scopes of one allocator family.
type Allocator struct {
	counter *atomic.Uint64 // shared monotonic counter
	prefix  ID             // prepended to every allocated ID
}

// defaultAllocator is the process-wide allocator used when a graph is built
// without an explicit one. It is initialized once and never reset.
var defaultAllocator = NewAllocator()

// NewAllocator returns an independent allocator whose first ID is 1.
func NewAllocator() *Allocator {
	return &Allocator{counter: new(atomic.Uint64)}
}

// Default returns the process-wide allocator.
func Default() *Allocator { return defaultAllocator }

// Next allocates the next ID. Safe for concurrent use.
func (a *Allocator) Next() ID {
	n := a.counter.Add(1)

	return New(n).WithPrefix(a.prefix)
}

// Nested returns an allocator that prepends prefix to every ID it allocates
// while sharing this allocator's counter. The prefix is absolute; callers that
// want a fresh scope usually pass a value just returned by Next, so that every
// nested ID sorts after all IDs allocated before the scope was opened.
func (a *Allocator) Nested(prefix ID) *Allocator {
	return &Allocator{counter: a.counter, prefix: prefix}
}

// Prefix reports the prefix applied by this allocator.
func (a *Allocator) Prefix() ID { return a.prefix }

// Peek returns the value the counter will use next, without allocating it.
func (a *Allocator) Peek() uint64 { return a.counter.Load() + 1 }
