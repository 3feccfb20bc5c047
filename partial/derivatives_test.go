// SPDX-License-Identifier: MIT

package partial_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/probgraph/partial"
	"github.com/katalvlaran/probgraph/tensor"
	"github.com/katalvlaran/probgraph/vertexid"
)

var (
	idA = vertexid.New(1)
	idB = vertexid.New(2)
)

func TestZeroValueIsEmpty(t *testing.T) {
	var d partial.Derivatives
	assert.True(t, d.IsEmpty())
	_, ok := d.WithRespectTo(idA)
	assert.False(t, ok)

	sum, err := d.Add(partial.WithRespectToSelf(idA, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Len())
}

func TestWithRespectToSelf(t *testing.T) {
	d := partial.WithRespectToSelf(idA, []int{2})
	got, ok := d.WithRespectTo(idA)
	require.True(t, ok)
	assert.True(t, got.Equal(tensor.Eye(2), 0))
}

func TestAdd_UnionAndSum(t *testing.T) {
	a := partial.New(map[vertexid.ID]*tensor.Tensor{idA: tensor.Vector(1, 2)})
	b := partial.New(map[vertexid.ID]*tensor.Tensor{idA: tensor.Vector(10, 20), idB: tensor.Scalar(3)})

	sum, err := a.Add(b)
	require.NoError(t, err)
	if diff := cmp.Diff([]vertexid.ID{idA, idB}, sum.IDs(), cmp.Comparer(func(x, y vertexid.ID) bool { return x == y })); diff != "" {
		t.Fatalf("IDs mismatch (-want +got):\n%s", diff)
	}
	va, _ := sum.WithRespectTo(idA)
	assert.Equal(t, []float64{11, 22}, va.Data())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	vb, _ := diff.WithRespectTo(idB)
	assert.Equal(t, -3.0, vb.ScalarValue())

	// The receiver is untouched.
	va, _ = a.WithRespectTo(idA)
	assert.Equal(t, []float64{1, 2}, va.Data())

	_, err = a.Add(partial.New(map[vertexid.ID]*tensor.Tensor{idA: tensor.Vector(1, 2, 3)}))
	assert.ErrorIs(t, err, partial.ErrShapeMismatch)
}

func TestNegateAndMultiplyBy(t *testing.T) {
	a := partial.New(map[vertexid.ID]*tensor.Tensor{idA: tensor.Vector(1, -2)})
	n, _ := a.Negate().WithRespectTo(idA)
	assert.Equal(t, []float64{-1, 2}, n.Data())
	m, _ := a.MultiplyBy(3).WithRespectTo(idA)
	assert.Equal(t, []float64{3, -6}, m.Data())
}

func TestMultiplyAlongBlocks(t *testing.T) {
	// of = [2], wrt = [3]
	p := tensor.MustNew([]int{2, 3}, []float64{1, 1, 1, 1, 1, 1})
	d := partial.New(map[vertexid.ID]*tensor.Tensor{idA: p})

	of, err := d.MultiplyAlongOfDimensions(tensor.Vector(2, 5))
	require.NoError(t, err)
	got, _ := of.WithRespectTo(idA)
	assert.Equal(t, []float64{2, 2, 2, 5, 5, 5}, got.Data())

	wrt, err := d.MultiplyAlongWrtDimensions(tensor.Vector(1, 2, 3))
	require.NoError(t, err)
	got, _ = wrt.WithRespectTo(idA)
	assert.Equal(t, []float64{1, 2, 3, 1, 2, 3}, got.Data())

	_, err = d.MultiplyAlongOfDimensions(tensor.Vector(1, 2, 3))
	assert.ErrorIs(t, err, partial.ErrShapeMismatch)
	_, err = d.MultiplyAlongWrtDimensions(tensor.Vector(1, 2))
	assert.ErrorIs(t, err, partial.ErrShapeMismatch)
	_, err = d.MultiplyAlongWrtDimensions(nil)
	assert.ErrorIs(t, err, partial.ErrNilFactor)
}

func TestSumOverBlocks(t *testing.T) {
	// of = [2], wrt = [2,3]
	p := tensor.MustNew([]int{2, 2, 3}, []float64{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	})
	d := partial.New(map[vertexid.ID]*tensor.Tensor{idA: p})

	of, err := d.SumOverOfDimensions([]int{0}, 1)
	require.NoError(t, err)
	got, _ := of.WithRespectTo(idA)
	assert.Equal(t, []int{2, 3}, got.Shape())
	assert.Equal(t, []float64{8, 10, 12, 14, 16, 18}, got.Data())

	wrt, err := d.SumOverWrtDimensions([]int{0}, 1)
	require.NoError(t, err)
	got, _ = wrt.WithRespectTo(idA)
	assert.Equal(t, []int{2, 3}, got.Shape())
	assert.Equal(t, []float64{5, 7, 9, 17, 19, 21}, got.Data())

	last, err := d.SumOverWrtDimensions([]int{-1}, 1)
	require.NoError(t, err)
	got, _ = last.WithRespectTo(idA)
	assert.Equal(t, []float64{6, 15, 24, 33}, got.Data())

	_, err = d.SumOverOfDimensions([]int{1}, 1)
	assert.ErrorIs(t, err, partial.ErrRank)
	_, err = d.SumOverWrtDimensions([]int{2}, 1)
	assert.ErrorIs(t, err, partial.ErrRank)
}

func TestBroadcastOf(t *testing.T) {
	// d(b)/d(b) with b of shape [1,2], lifted to the output of shape [2,2].
	d := partial.WithRespectToSelf(idB, []int{1, 2})
	up, err := d.BroadcastOf([]int{1, 2}, []int{2, 2})
	require.NoError(t, err)
	got, _ := up.WithRespectTo(idB)
	assert.Equal(t, []int{2, 2, 1, 2}, got.Shape())
	assert.Equal(t, []float64{1, 0, 0, 1, 1, 0, 0, 1}, got.Data())

	// Scalar of-block to a vector.
	s := partial.WithRespectToSelf(idA, nil)
	up, err = s.BroadcastOf(nil, []int{3})
	require.NoError(t, err)
	got, _ = up.WithRespectTo(idA)
	assert.Equal(t, []float64{1, 1, 1}, got.Data())

	_, err = d.BroadcastOf([]int{1, 2}, []int{2, 3})
	assert.ErrorIs(t, err, partial.ErrShapeMismatch)
}

func TestReduceWrt(t *testing.T) {
	// Adjoint of a scalar output w.r.t. a [2,2] intermediate.
	d := partial.New(map[vertexid.ID]*tensor.Tensor{idA: tensor.MustNew([]int{2, 2}, []float64{1, 2, 3, 4})})

	down, err := d.ReduceWrt([]int{2, 2}, []int{1, 2})
	require.NoError(t, err)
	got, _ := down.WithRespectTo(idA)
	assert.Equal(t, []int{1, 2}, got.Shape())
	assert.Equal(t, []float64{4, 6}, got.Data())

	down, err = d.ReduceWrt([]int{2, 2}, []int{2})
	require.NoError(t, err)
	got, _ = down.WithRespectTo(idA)
	assert.Equal(t, []float64{4, 6}, got.Data())

	down, err = d.ReduceWrt([]int{2, 2}, nil)
	require.NoError(t, err)
	got, _ = down.WithRespectTo(idA)
	assert.True(t, got.IsScalar())
	assert.Equal(t, 10.0, got.ScalarValue())

	_, err = d.ReduceWrt([]int{2, 2}, []int{3})
	assert.ErrorIs(t, err, partial.ErrShapeMismatch)
}

func TestReshapeAndBroadcastWrt(t *testing.T) {
	d := partial.New(map[vertexid.ID]*tensor.Tensor{idA: tensor.Ones(4, 2)})

	r, err := d.ReshapeOf(1, []int{2, 2})
	require.NoError(t, err)
	got, _ := r.WithRespectTo(idA)
	assert.Equal(t, []int{2, 2, 2}, got.Shape())

	w, err := d.ReshapeWrt(1, []int{1, 2})
	require.NoError(t, err)
	got, _ = w.WithRespectTo(idA)
	assert.Equal(t, []int{4, 1, 2}, got.Shape())

	b, err := partial.New(map[vertexid.ID]*tensor.Tensor{idA: tensor.Ones(4, 1)}).BroadcastWrt([]int{3})
	require.NoError(t, err)
	got, _ = b.WithRespectTo(idA)
	assert.Equal(t, []int{4, 3}, got.Shape())

	_, err = d.ReshapeOf(1, []int{3})
	assert.ErrorIs(t, err, tensor.ErrBadShape)
}

func TestEqualAndString(t *testing.T) {
	a := partial.New(map[vertexid.ID]*tensor.Tensor{idA: tensor.Scalar(1)})
	b := partial.New(map[vertexid.ID]*tensor.Tensor{idA: tensor.Scalar(1 + 1e-12)})
	assert.True(t, a.Equal(b, 1e-9))
	assert.False(t, a.Equal(partial.Empty(), 1e-9))
	assert.Equal(t, "Derivatives{1: Tensor[]{1}}", a.String())
}
