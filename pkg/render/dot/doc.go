// Package dot writes diagram declarations as Graphviz DOT source and renders
// that source in-process.
//
// # Usage
//
// [Writer] is a [diagram.Sink]. Hand it to the assembler, then render:
//
//	w := dot.NewWriter(dot.Options{})
//	if _, err := diagram.NewAssembler(diagram.RecordAppearance{}).Assemble(f, w); err != nil {
//	    return err
//	}
//	svg, err := dot.Render(ctx, w.String(), dot.FormatSVG)
//
// # DOT Format
//
// The generated graph is a top-to-bottom digraph whose nodes are record
// shapes, so labels such as "<p1> Piero | <c1_2> | <p2> Pina" are split
// into fields with named ports. Edges reference those ports as
// "node-1-2:c1_2".
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], which embeds Graphviz as
// WebAssembly; no system Graphviz install is needed.
package dot
