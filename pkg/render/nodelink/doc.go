// Package nodelink renders the job graph of a pipeline document as a
// node-link diagram.
//
// # Overview
//
// Jobs are boxes grouped into one cluster per stage, in stage order. Every
// need becomes an arrow from the needed job to the job that needs it. A need
// that names no job is drawn as a dashed ghost node so that dangling
// dependencies are visible instead of silently missing.
//
// # Usage
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: node labels include image, when and only
//   - LeftToRight: lay stages out horizontally
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
