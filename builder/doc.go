// SPDX-License-Identifier: MIT

// Package builder assembles reproducible model topologies on a core.Graph:
// linear chains of fan-out/fan-in links, diamonds and seeded random DAGs.
//
// Every constructor takes the vertex it grows from and returns the vertex
// (or vertices) it created, so fixtures compose:
//
//	x, _ := g.NewInput(nil, core.WithInitialValue(tensor.Scalar(1)))
//	top, _ := builder.Chain(x, 10)                        // 2¹⁰·x
//	out, _ := builder.Diamond(top, builder.WithCombine(ops.Multiply))
//
// Link functions default to ops.Identity (pass-through) and ops.Add
// (combine). Options resolve into a builderConfig once per call; option
// constructors panic on meaningless inputs and constructors return sentinel
// errors, never panic.
package builder
