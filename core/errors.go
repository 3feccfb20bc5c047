// SPDX-License-Identifier: MIT

package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for core graph operations.
var (
	// ErrNilVertex indicates that a nil *Vertex was passed.
	ErrNilVertex = errors.New("core: vertex is nil")

	// ErrForeignVertex indicates a vertex that belongs to a different graph.
	ErrForeignVertex = errors.New("core: vertex belongs to another graph")

	// ErrIDOrder indicates a parent whose ID is not smaller than its child's.
	ErrIDOrder = errors.New("core: parent id must precede child id")

	// ErrAdjacency indicates asymmetric or unsorted parent/child sets.
	ErrAdjacency = errors.New("core: adjacency invariant violated")

	// ErrCycleDetected indicates a dependency cycle among vertices.
	ErrCycleDetected = errors.New("core: cycle detected")

	// ErrNilOp indicates an operation vertex without an OpSpec or Calculate func.
	ErrNilOp = errors.New("core: operation spec is nil")

	// ErrUnresolvedPlaceholder indicates that a value was requested whose inputs
	// were never supplied: a probabilistic vertex without value or sampler.
	ErrUnresolvedPlaceholder = errors.New("core: unresolved placeholder")

	// ErrDuplicateLabel indicates a label already used in the same graph.
	ErrDuplicateLabel = errors.New("core: duplicate label")
)

// vertexErrorf wraps err with the operation tag and the vertex it concerns.
func vertexErrorf(tag string, v *Vertex, err error) error {
	return fmt.Errorf("core.%s(%s): %w", tag, v, err)
}
