// Package render turns diagram declarations into files.
//
// The [dot] subpackage collects node and edge declarations as Graphviz DOT
// source and lays them out in-process with go-graphviz. This package adds
// [ToPDF], which converts the SVG output with the external rsvg-convert
// tool (from librsvg):
//
//	svg, err := dot.Render(ctx, src, dot.FormatSVG)
//	pdf, err := render.ToPDF(svg)
//
// [dot]: github.com/matzehuels/familytree/pkg/render/dot
package render
