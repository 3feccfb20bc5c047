// SPDX-License-Identifier: MIT

package tensor_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/probgraph/tensor"
)

func TestBroadcastShapes(t *testing.T) {
	cases := []struct {
		name string
		in   [][]int
		want []int
		err  bool
	}{
		{"same", [][]int{{2, 2}, {2, 2}}, []int{2, 2}, false},
		{"row", [][]int{{2, 2}, {1, 2}}, []int{2, 2}, false},
		{"scalar", [][]int{{}, {3, 4}}, []int{3, 4}, false},
		{"outer", [][]int{{3}, {4, 1}}, []int{4, 3}, false},
		{"incompatible", [][]int{{2, 3}, {3, 2}}, nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tensor.BroadcastShapes(tc.in...)
			if tc.err {
				require.ErrorIs(t, err, tensor.ErrShapeMismatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBroadcastTo(t *testing.T) {
	row := tensor.MustNew([]int{1, 2}, []float64{1, 2})
	got, err := row.BroadcastTo([]int{3, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 1, 2, 1, 2}, got.Data())

	col := tensor.MustNew([]int{2, 1}, []float64{1, 2})
	got, err = col.BroadcastTo([]int{2, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1, 2, 2, 2}, got.Data())

	_, err = col.BroadcastTo([]int{3, 3})
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestElementwise(t *testing.T) {
	a := tensor.MustNew([]int{2, 2}, []float64{1, 2, 3, 4})
	b := tensor.MustNew([]int{1, 2}, []float64{10, 20})

	sum, err := tensor.Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 22, 13, 24}, sum.Data())

	diff, err := tensor.Sub(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{-9, -18, -7, -16}, diff.Data())

	prod, err := tensor.Mul(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 40, 30, 80}, prod.Data())

	quot, err := tensor.Div(b, tensor.Scalar(10))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, quot.Data())

	gt, err := tensor.GreaterThan(a, tensor.Scalar(2))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1, 1}, gt.Data())

	_, err = tensor.Add(a, tensor.Vector(1, 2, 3))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
	_, err = tensor.Add(a, nil)
	assert.ErrorIs(t, err, tensor.ErrNilTensor)
}

func TestUnary(t *testing.T) {
	x := tensor.Vector(0, 1)
	assert.True(t, x.Sin().Equal(tensor.Vector(0, math.Sin(1)), eps))
	assert.True(t, x.Cos().Equal(tensor.Vector(1, math.Cos(1)), eps))
	assert.True(t, x.Exp().Equal(tensor.Vector(1, math.E), eps))
	assert.True(t, tensor.Vector(1, math.E).Log().Equal(x, eps))
	assert.True(t, tensor.Vector(2, 3).Pow(2).Equal(tensor.Vector(4, 9), eps))
	assert.True(t, x.Neg().Equal(tensor.Vector(0, -1), eps))
	assert.True(t, x.AddScalar(1).Equal(tensor.Vector(1, 2), eps))
	assert.True(t, tensor.Vector(2, 4).Reciprocal().Equal(tensor.Vector(0.5, 0.25), eps))
}

func TestPermuteAndTranspose(t *testing.T) {
	x := tensor.MustNew([]int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	tr, err := x.Transpose()
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, tr.Shape())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, tr.Data())

	y := tensor.MustNew([]int{1, 2, 3}, []float64{1, 2, 3, 4, 5, 6})
	p, err := y.Permute(2, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, p.Shape())
	v, _ := p.At(2, 0, 1)
	assert.Equal(t, 6.0, v)

	_, err = y.Permute(0, 0, 1)
	assert.ErrorIs(t, err, tensor.ErrAxis)
	_, err = tensor.Vector(1).Transpose()
	assert.ErrorIs(t, err, tensor.ErrAxis)
}

func TestReshapeAndSum(t *testing.T) {
	x := tensor.MustNew([]int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	r, err := x.Reshape(3, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, r.Shape())
	_, err = x.Reshape(4)
	assert.ErrorIs(t, err, tensor.ErrBadShape)

	s0, err := x.Sum(0)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, s0.Shape())
	assert.Equal(t, []float64{5, 7, 9}, s0.Data())

	s1, err := x.Sum(-1)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 15}, s1.Data())

	all, err := x.Sum()
	require.NoError(t, err)
	assert.True(t, all.IsScalar())
	assert.Equal(t, 21.0, all.ScalarValue())

	k, err := x.SumKeepDims(1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, k.Shape())

	_, err = x.Sum(0, 0)
	assert.ErrorIs(t, err, tensor.ErrAxis)
	_, err = x.Sum(2)
	assert.ErrorIs(t, err, tensor.ErrAxis)
}

func TestMatMulAndTensorDot(t *testing.T) {
	a := tensor.MustNew([]int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	b := tensor.MustNew([]int{3, 2}, []float64{7, 8, 9, 10, 11, 12})

	c, err := tensor.MatMul(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{58, 64, 139, 154}, c.Data())

	d, err := tensor.TensorDot(a, b, []int{1}, []int{0})
	require.NoError(t, err)
	assert.True(t, c.Equal(d, eps))

	// Full contraction: sum(a ⊙ bᵀ).
	bt, _ := b.Transpose()
	full, err := tensor.TensorDot(a, bt, []int{0, 1}, []int{0, 1})
	require.NoError(t, err)
	assert.True(t, full.IsScalar())
	assert.Equal(t, 7.0+18+33+32+50+72, full.ScalarValue())

	outer, err := tensor.TensorDot(tensor.Vector(1, 2), tensor.Vector(3, 4, 5), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, outer.Shape())
	assert.Equal(t, []float64{3, 4, 5, 6, 8, 10}, outer.Data())

	_, err = tensor.MatMul(a, a)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
	_, err = tensor.MatMul(tensor.Vector(1), a)
	assert.ErrorIs(t, err, tensor.ErrNotMatrix)
	_, err = tensor.TensorDot(a, b, []int{0}, []int{0})
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)

	empty, err := tensor.MatMul(tensor.Zeros(2, 0), tensor.Zeros(0, 3))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0}, empty.Data())
}

func TestInverseDetCholesky(t *testing.T) {
	a := tensor.MustNew([]int{2, 2}, []float64{4, 2, 2, 3})

	inv, err := tensor.Inverse(a)
	require.NoError(t, err)
	prod, _ := tensor.MatMul(a, inv)
	assert.True(t, prod.Equal(tensor.Eye(2), 1e-12))

	det, err := tensor.Det(a)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, det, 1e-12)

	l, err := tensor.Cholesky(a)
	require.NoError(t, err)
	lt, _ := l.Transpose()
	llt, _ := tensor.MatMul(l, lt)
	assert.True(t, llt.Equal(a, 1e-12))
	upper, _ := l.At(0, 1)
	assert.Equal(t, 0.0, upper)

	_, err = tensor.Inverse(tensor.MustNew([]int{2, 2}, []float64{1, 2, 2, 4}))
	assert.ErrorIs(t, err, tensor.ErrSingular)
	_, err = tensor.Cholesky(tensor.MustNew([]int{2, 2}, []float64{1, 2, 2, 1}))
	assert.ErrorIs(t, err, tensor.ErrNotPositiveDefinite)
	_, err = tensor.Det(tensor.Zeros(2, 3))
	assert.ErrorIs(t, err, tensor.ErrNotSquare)
}
