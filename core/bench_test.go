// SPDX-License-Identifier: MIT

package core_test

import (
	"testing"

	"github.com/katalvlaran/probgraph/core"
	"github.com/katalvlaran/probgraph/tensor"
	"github.com/katalvlaran/probgraph/vertexid"
)

// chainGraph builds x → add(x,x) → add(.,.) → ... of length n.
func chainGraph(b *testing.B, n int) (x, last *core.Vertex) {
	b.Helper()
	g := core.NewGraph(core.WithAllocator(vertexid.NewAllocator()))
	x, err := g.NewInput(nil, core.WithInitialValue(tensor.Scalar(1)))
	if err != nil {
		b.Fatal(err)
	}
	last = x
	for i := 0; i < n; i++ {
		if last, err = g.NewOperation(addSpec, core.Params{}, []*core.Vertex{last, x}); err != nil {
			b.Fatal(err)
		}
	}

	return x, last
}

func BenchmarkEval_Chain1k(b *testing.B) {
	_, last := chainGraph(b, 1000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := core.Eval(last); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCascade_Chain1k(b *testing.B) {
	x, _ := chainGraph(b, 1000)
	v := tensor.Scalar(2)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := x.SetAndCascade(v); err != nil {
			b.Fatal(err)
		}
	}
}
