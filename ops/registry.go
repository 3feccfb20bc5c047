// SPDX-License-Identifier: MIT
//
// File: registry.go
// Role: tag → *core.OpSpec table.

package ops

import (
	"sort"

	"github.com/katalvlaran/probgraph/core"
)

// Operator tags.
const (
	TagConstant    core.OpTag = "constant"
	TagIdentity    core.OpTag = "identity"
	TagAdd         core.OpTag = "add"
	TagSubtract    core.OpTag = "subtract"
	TagMultiply    core.OpTag = "multiply"
	TagDivide      core.OpTag = "divide"
	TagNegate      core.OpTag = "negate"
	TagSin         core.OpTag = "sin"
	TagCos         core.OpTag = "cos"
	TagExp         core.OpTag = "exp"
	TagLog         core.OpTag = "log"
	TagPow         core.OpTag = "pow"
	TagSum         core.OpTag = "sum"
	TagReshape     core.OpTag = "reshape"
	TagMatMul      core.OpTag = "matmul"
	TagInverse     core.OpTag = "inverse"
	TagDeterminant core.OpTag = "determinant"
	TagCholesky    core.OpTag = "cholesky"
	TagGreaterThan core.OpTag = "greaterThan"
)

var registry = map[core.OpTag]*core.OpSpec{}

func register(s *core.OpSpec) *core.OpSpec {
	if _, dup := registry[s.Tag]; dup {
		panic("ops: duplicate operator " + string(s.Tag))
	}
	registry[s.Tag] = s

	return s
}

// Lookup returns the OpSpec registered under tag.
func Lookup(tag core.OpTag) (*core.OpSpec, bool) {
	s, ok := registry[tag]

	return s, ok
}

// Tags returns every registered tag in lexical order.
func Tags() []core.OpTag {
	out := make([]core.OpTag, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}
