// SPDX-License-Identifier: MIT

// Package vertexid defines the identifier carried by every vertex of a
// probgraph model, and the allocator that hands identifiers out.
//
// What:
//
//   - ID: a comparable, possibly multi-level identifier. A top-level vertex has
//     a single level ("7"); a vertex created inside a nested scope carries the
//     scope prefix in front of its own level ("7.12").
//   - Allocator: a monotonic counter (atomic) that never reuses a value.
//
// Ordering:
//
//   - IDs compare lexicographically level by level; a shorter ID that is a
//     prefix of a longer one sorts first.
//   - Because an allocator only ever increases, every vertex created after
//     another one (within the same scope) compares greater. The graph relies on
//     this: for every edge parent→child, parent.ID < child.ID, which makes
//     "sort by ID" a valid topological order.
//
// Concurrency:
//
//   - Allocator.Next is safe for concurrent use, so independent models may be
//     built on different goroutines while sharing the process-wide allocator.
//
// There is deliberately no reset operation: reusing a value could let a new
// vertex sort before an existing parent and silently break the ordering contract.
package vertexid
