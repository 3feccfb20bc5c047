// SPDX-License-Identifier: MIT

package autodiff_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/probgraph/autodiff"
	"github.com/katalvlaran/probgraph/builder"
	"github.com/katalvlaran/probgraph/core"
	"github.com/katalvlaran/probgraph/ops"
	"github.com/katalvlaran/probgraph/sampler"
	"github.com/katalvlaran/probgraph/tensor"
	"github.com/katalvlaran/probgraph/vertexid"
)

// TestSinOfSum: d(sin(a+b))/da agrees across reverse, forward and finite
// differences.
func TestSinOfSum(t *testing.T) {
	g, _ := newGraph(t)
	m := must(t)
	a := latent(t, g, tensor.Scalar(0.5), "a")
	b := latent(t, g, tensor.Scalar(1.2), "b")
	y := m(ops.Sin(m(ops.Add(a, b))))
	want := math.Cos(1.7)

	rev, err := autodiff.ReverseModeAutoDiff(y, []*core.Vertex{a, b})
	require.NoError(t, err)
	fwd, err := autodiff.ForwardModeAutoDiff(y)
	require.NoError(t, err)
	fd, err := autodiff.FiniteDifference(y, a)
	require.NoError(t, err)

	for _, w := range []*core.Vertex{a, b} {
		r, ok := rev.WithRespectTo(w.ID())
		require.True(t, ok)
		f, ok := fwd.WithRespectTo(w.ID())
		require.True(t, ok)
		assert.InDelta(t, want, r.ScalarValue(), tol)
		assert.InDelta(t, want, f.ScalarValue(), tol)
	}
	assert.InDelta(t, want, fd.ScalarValue(), tol)
	assert.InDelta(t, math.Sin(1.7), mustValue(t, y).ScalarValue(), 1e-12, "value restored after probing")
}

// TestCompositeAgreement compares the three Jacobians of a tensor-valued
// model: sin(W·x) ⊙ s / exp(Σx) with broadcasting.
func TestCompositeAgreement(t *testing.T) {
	g, _ := newGraph(t)
	m := must(t)
	w := latent(t, g, tensor.MustNew([]int{2, 3}, []float64{0.2, -0.4, 0.1, 0.7, 0.3, -0.2}), "W")
	x := latent(t, g, tensor.MustNew([]int{3, 1}, []float64{1.0, 0.5, -1.5}), "x")
	s := latent(t, g, tensor.MustNew([]int{1, 1}, []float64{1.3}), "s")
	h := m(ops.MatMul(w, x))
	z := m(ops.Multiply(m(ops.Sin(h)), s))
	x0 := m(ops.Sum(x, nil))
	out := m(ops.Divide(z, m(ops.Exp(x0))))

	latents := []*core.Vertex{w, x, s}
	rev, err := autodiff.ReverseModeAutoDiff(out, latents)
	require.NoError(t, err)
	fwd, err := autodiff.ForwardModeAutoDiff(out)
	require.NoError(t, err)
	assert.Equal(t, 3, fwd.Len())

	for _, v := range latents {
		fd, err := autodiff.FiniteDifference(out, v)
		require.NoError(t, err)
		r, ok := rev.WithRespectTo(v.ID())
		require.True(t, ok, "reverse %s", v)
		f, ok := fwd.WithRespectTo(v.ID())
		require.True(t, ok, "forward %s", v)

		wantShape := append(out.Shape(), v.Shape()...)
		assert.Equal(t, wantShape, r.Shape())
		assert.True(t, fd.Equal(r, tol), "reverse %s:\n got %v\nwant %v", v, r, fd)
		assert.True(t, fd.Equal(f, tol), "forward %s:\n got %v\nwant %v", v, f, fd)
	}
}

// TestBroadcastGradientShape: [2,2]*[1,2] differentiated with respect to the
// [1,2] operand keeps the wrt-block [1,2].
func TestBroadcastGradientShape(t *testing.T) {
	g, _ := newGraph(t)
	m := must(t)
	x := latent(t, g, tensor.MustNew([]int{2, 2}, []float64{1, 2, 3, 4}), "x")
	y := latent(t, g, tensor.MustNew([]int{1, 2}, []float64{5, 6}), "y")
	prod := m(ops.Multiply(x, y))
	total := m(ops.Sum(prod, nil))

	rev, err := autodiff.ReverseModeAutoDiff(prod, []*core.Vertex{y})
	require.NoError(t, err)
	dy, ok := rev.WithRespectTo(y.ID())
	require.True(t, ok)
	assert.Equal(t, []int{2, 2, 1, 2}, dy.Shape())

	rev, err = autodiff.ReverseModeAutoDiff(total, []*core.Vertex{y})
	require.NoError(t, err)
	dy, ok = rev.WithRespectTo(y.ID())
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, dy.Shape())
	assert.Equal(t, []float64{4, 6}, dy.Data())

	fwd, err := autodiff.ForwardModeAutoDiff(total)
	require.NoError(t, err)
	fy, ok := fwd.WithRespectTo(y.ID())
	require.True(t, ok)
	assert.True(t, dy.Equal(fy, tol))
}

// TestChain_ThreeEvaluationsPerLink covers value propagation and both AD
// modes.
func TestChain_ThreeEvaluationsPerLink(t *testing.T) {
	for _, n := range []int{1, 5, 40} {
		g, c := newGraph(t)
		x := latent(t, g, tensor.Scalar(1.0001), "x")
		last, err := builder.Chain(x, n)
		require.NoError(t, err)

		require.NoError(t, core.LazyEval(last))
		assert.Equal(t, 3*n, c.calc, "lazy eval, n=%d", n)

		_, err = autodiff.ForwardModeAutoDiff(last)
		require.NoError(t, err)
		assert.Equal(t, 3*n, c.diff[core.ForwardMode], "forward, n=%d", n)

		rev, err := autodiff.ReverseModeAutoDiff(last, []*core.Vertex{x})
		require.NoError(t, err)
		assert.Equal(t, 3*n, c.diff[core.ReverseMode], "reverse, n=%d", n)

		// last = 2ⁿ·x
		dx, ok := rev.WithRespectTo(x.ID())
		require.True(t, ok)
		assert.Equal(t, math.Pow(2, float64(n)), dx.ScalarValue())
	}
}

// TestUnreachableIsAbsent: no path, or a path through a random variable,
// gives an absent key rather than an error.
func TestUnreachableIsAbsent(t *testing.T) {
	g, _ := newGraph(t)
	m := must(t)
	a := latent(t, g, tensor.Scalar(1), "a")
	b := latent(t, g, tensor.Scalar(2), "b")
	other := latent(t, g, tensor.Scalar(3), "other")
	sigma := m(ops.Constant(g, tensor.Scalar(1)))
	r := m(sampler.NewGaussian(a, sigma, nil, core.WithLabel("r")))
	y := m(ops.Add(m(ops.Multiply(r, b)), b))

	rev, err := autodiff.ReverseModeAutoDiff(y, []*core.Vertex{a, b, other, r})
	require.NoError(t, err)
	_, ok := rev.WithRespectTo(a.ID())
	assert.False(t, ok, "random variables stop the sweep")
	_, ok = rev.WithRespectTo(other.ID())
	assert.False(t, ok)
	_, ok = rev.WithRespectTo(r.ID())
	assert.True(t, ok)
	db, ok := rev.WithRespectTo(b.ID())
	require.True(t, ok)
	rv := mustValue(t, r).ScalarValue()
	assert.InDelta(t, rv+1, db.ScalarValue(), tol)

	fwd, err := autodiff.ForwardModeAutoDiff(y)
	require.NoError(t, err)
	assert.ElementsMatch(t, []vertexid.ID{r.ID(), b.ID()}, fwd.IDs())
}

// TestUnsupported: cholesky has no local derivative in either mode.
func TestUnsupported(t *testing.T) {
	g, _ := newGraph(t)
	m := must(t)
	x := latent(t, g, tensor.MustNew([]int{2, 2}, []float64{4, 2, 2, 3}), "x")
	l := m(ops.Cholesky(x))

	_, err := autodiff.ReverseModeAutoDiff(l, []*core.Vertex{x})
	assert.ErrorIs(t, err, autodiff.ErrDifferentiationUnsupported)
	_, err = autodiff.ForwardModeAutoDiff(l)
	assert.ErrorIs(t, err, autodiff.ErrDifferentiationUnsupported)
}

// TestNonDifferentiableAndObserved: comparisons pass no gradient; an observed
// output is constant.
func TestNonDifferentiableAndObserved(t *testing.T) {
	g, _ := newGraph(t)
	m := must(t)
	a := latent(t, g, tensor.Scalar(2), "a")
	b := latent(t, g, tensor.Scalar(1), "b")
	gt := m(ops.GreaterThan(a, b))
	y := m(ops.Multiply(gt, a))

	rev, err := autodiff.ReverseModeAutoDiff(y, []*core.Vertex{a, b})
	require.NoError(t, err)
	da, ok := rev.WithRespectTo(a.ID())
	require.True(t, ok)
	assert.Equal(t, 1.0, da.ScalarValue())
	_, ok = rev.WithRespectTo(b.ID())
	assert.False(t, ok)

	require.NoError(t, y.ObserveOwnValue())
	rev, err = autodiff.ReverseModeAutoDiff(y, []*core.Vertex{a})
	require.NoError(t, err)
	assert.True(t, rev.IsEmpty())
	fwd, err := autodiff.ForwardModeAutoDiff(y)
	require.NoError(t, err)
	assert.True(t, fwd.IsEmpty())
}

func TestForwardModeWithRespectTo(t *testing.T) {
	g, c := newGraph(t)
	m := must(t)
	a := latent(t, g, tensor.Vector(1, 2), "a")
	b := latent(t, g, tensor.Vector(3, 4), "b")
	sq := m(ops.Multiply(a, a))
	sum := m(ops.Add(sq, b))
	unrelated := m(ops.Exp(b))

	got, err := autodiff.ForwardModeWithRespectTo(a, sum, unrelated)
	require.NoError(t, err)
	require.Contains(t, got, sum.ID())
	assert.NotContains(t, got, unrelated.ID())

	d, ok := got[sum.ID()].WithRespectTo(a.ID())
	require.True(t, ok)
	assert.Equal(t, []float64{2, 0, 0, 4}, d.Data())
	assert.Equal(t, 2, c.diff[core.ForwardMode])
}

func TestWithAdjoint(t *testing.T) {
	g, _ := newGraph(t)
	m := must(t)
	x := latent(t, g, tensor.Vector(1, 2, 3), "x")
	y := m(ops.Pow(x, 2))

	rev, err := autodiff.ReverseModeAutoDiff(y, []*core.Vertex{x}, autodiff.WithAdjoint(tensor.Ones(3)))
	require.NoError(t, err)
	dx, ok := rev.WithRespectTo(x.ID())
	require.True(t, ok)
	assert.Equal(t, []int{3}, dx.Shape())
	assert.True(t, tensor.Vector(2, 4, 6).Equal(dx, tol))

	_, err = autodiff.ReverseModeAutoDiff(y, []*core.Vertex{x}, autodiff.WithAdjoint(tensor.Ones(2)))
	assert.ErrorIs(t, err, autodiff.ErrPartialShape)
	_, err = autodiff.ReverseModeAutoDiff(y, []*core.Vertex{x}, autodiff.WithAdjoint(nil))
	assert.ErrorIs(t, err, autodiff.ErrOptionViolation)
}

func TestFiniteDifference_Errors(t *testing.T) {
	g, _ := newGraph(t)
	other, _ := newGraph(t)
	m := must(t)
	x := latent(t, g, tensor.Scalar(1), "x")
	y := m(ops.Exp(x))
	z := latent(t, other, tensor.Scalar(1), "z")

	_, err := autodiff.FiniteDifference(y, z)
	assert.ErrorIs(t, err, core.ErrForeignVertex)
	_, err = autodiff.FiniteDifference(y, x, autodiff.WithStep(0))
	assert.ErrorIs(t, err, autodiff.ErrOptionViolation)

	require.NoError(t, x.Observe(tensor.Scalar(1)))
	_, err = autodiff.FiniteDifference(y, x)
	assert.ErrorIs(t, err, autodiff.ErrObservedWrt)
}

func TestArgumentErrors(t *testing.T) {
	g, _ := newGraph(t)
	other, _ := newGraph(t)
	x := latent(t, g, tensor.Scalar(1), "x")
	z := latent(t, other, tensor.Scalar(1), "z")

	_, err := autodiff.ReverseModeAutoDiff(nil, nil)
	assert.ErrorIs(t, err, core.ErrNilVertex)
	_, err = autodiff.ReverseModeAutoDiff(x, []*core.Vertex{z})
	assert.ErrorIs(t, err, core.ErrForeignVertex)
	_, err = autodiff.ForwardModeAutoDiff(nil)
	assert.ErrorIs(t, err, core.ErrNilVertex)
	_, err = autodiff.ForwardModeWithRespectTo(x, z)
	assert.ErrorIs(t, err, core.ErrForeignVertex)
}

func mustValue(t *testing.T, v *core.Vertex) *tensor.Tensor {
	t.Helper()
	val, err := v.Value()
	require.NoError(t, err)
	return val
}
