// Package render turns compiled pipelines into pictures and summaries.
//
// # Overview
//
// The subpackages cover different outputs:
//
//   - [nodelink]: the job dependency graph as Graphviz DOT and SVG
//   - [board]: a text picture of the drop surface for terminals
//   - [summary]: a Markdown description of a document, optionally styled
//     for the terminal
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//
// [nodelink]: github.com/matzehuels/pipecanvas/pkg/render/nodelink
// [board]: github.com/matzehuels/pipecanvas/pkg/render/board
// [summary]: github.com/matzehuels/pipecanvas/pkg/render/summary
package render
