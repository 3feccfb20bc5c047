// SPDX-License-Identifier: MIT

package dfs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/probgraph/dfs"
)

func depsOf(m map[int][]int) dfs.Deps {
	return func(n int) []int { return m[n] }
}

// TestPostOrder_Errors verifies input validation.
func TestPostOrder_Errors(t *testing.T) {
	_, err := dfs.PostOrder([]int{0}, nil)
	assert.ErrorIs(t, err, dfs.ErrNilDeps)

	_, err = dfs.PostOrder([]int{-3}, depsOf(nil))
	assert.ErrorIs(t, err, dfs.ErrStartVertexNotFound)
}

// TestPostOrder_Diamond checks that a shared dependency exits exactly once and
// before both of its dependants.
func TestPostOrder_Diamond(t *testing.T) {
	// 3 depends on 1 and 2, both depend on 0.
	deps := depsOf(map[int][]int{3: {1, 2}, 1: {0}, 2: {0}})

	exits := map[int]int{}
	res, err := dfs.PostOrder([]int{3}, deps, dfs.WithOnExit(func(n int) error {
		exits[n]++
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, res.Order)
	assert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1, 3: 1}, exits)
}

// TestPostOrder_SharedAcrossRoots skips nodes finished from an earlier root.
func TestPostOrder_SharedAcrossRoots(t *testing.T) {
	deps := depsOf(map[int][]int{5: {4}, 6: {4}})

	res, err := dfs.PostOrder([]int{5, 6, 5}, deps)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5, 6}, res.Order)
}

// TestPostOrder_Cycle detects a back edge.
func TestPostOrder_Cycle(t *testing.T) {
	deps := depsOf(map[int][]int{0: {1}, 1: {2}, 2: {0}})

	_, err := dfs.PostOrder([]int{0}, deps)
	assert.ErrorIs(t, err, dfs.ErrCycleDetected)
}

// TestPostOrder_DeepChain runs a chain far deeper than a recursive walk
// would comfortably handle.
func TestPostOrder_DeepChain(t *testing.T) {
	const n = 200_000
	deps := func(i int) []int {
		if i > 0 {
			return []int{i - 1}
		}
		return nil
	}
	res, err := dfs.PostOrder([]int{n - 1}, deps)
	require.NoError(t, err)
	require.Len(t, res.Order, n)
	assert.Equal(t, 0, res.Order[0])
	assert.Equal(t, n-1, res.Order[n-1])
}

// TestPostOrder_Filter prunes an edge and counts it.
func TestPostOrder_Filter(t *testing.T) {
	deps := depsOf(map[int][]int{0: {1, 2}, 1: {3}, 2: {4}})

	res, err := dfs.PostOrder([]int{0}, deps,
		dfs.WithFilterNeighbor(func(_, dep int) bool { return dep != 2 }),
	)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 0}, res.Order)
	assert.Equal(t, 1, res.SkippedNeighbors)
}

// TestPostOrder_HookErrors aborts on hook failure.
func TestPostOrder_HookErrors(t *testing.T) {
	boom := errors.New("boom")
	deps := depsOf(map[int][]int{1: {0}})

	_, err := dfs.PostOrder([]int{1}, deps, dfs.WithOnExit(func(n int) error {
		if n == 0 {
			return boom
		}
		return nil
	}))
	assert.ErrorIs(t, err, boom)
}
