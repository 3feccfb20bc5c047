// SPDX-License-Identifier: MIT

package tensor_test

import (
	"testing"

	"github.com/katalvlaran/probgraph/tensor"
)

func BenchmarkMatMul64(b *testing.B) {
	x := tensor.Ones(64, 64)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tensor.MatMul(x, x)
	}
}

func BenchmarkAddBroadcast(b *testing.B) {
	x := tensor.Ones(128, 128)
	row := tensor.Ones(1, 128)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tensor.Add(x, row)
	}
}
