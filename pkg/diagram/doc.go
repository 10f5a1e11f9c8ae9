// Package diagram turns a resolved family into node and edge declarations
// for a graph-rendering engine.
//
// # Overview
//
// The [Assembler] walks a [family.Family] and emits exactly one node per
// household and one edge per person with at least one known parent. The edge
// runs from the parents' household node to the child's household node. All
// nodes are emitted before the first edge, so a sink never sees an edge that
// references an undeclared node.
//
// Declarations go to a [Sink]. The [Recorder] sink keeps them in memory;
// package render/dot turns them into Graphviz DOT source.
//
// # Appearance
//
// The assembler never formats text itself. Labels and edge endpoints come
// from an [Appearance]:
//
//   - [RecordAppearance] draws Graphviz record boxes with one port per member
//   - [DetailedAppearance] does the same and appends each person's id
//
// Ports are named by person ids so that edges can anchor on a specific member
// or on the middle field of a couple: [PersonPort] gives "p<id>" and
// [CouplePort] gives "c<first>_<second>".
//
// # Usage
//
//	rec := &diagram.Recorder{}
//	stats, err := diagram.NewAssembler(diagram.RecordAppearance{}).Assemble(f, rec)
package diagram
