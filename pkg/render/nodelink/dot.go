package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pipecanvas/pkg/document"
	"github.com/matzehuels/pipecanvas/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds image, when and only to node labels.
	// When false, only the job name is shown.
	Detailed bool

	// LeftToRight lays stages out horizontally instead of top to bottom.
	LeftToRight bool
}

// ToDOT converts a document to Graphviz DOT. Output is deterministic: stages
// and jobs appear in document order.
func ToDOT(doc *document.Document, opts Options) string {
	rankdir := "TB"
	if opts.LeftToRight {
		rankdir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for i, stage := range doc.Stages {
		fmt.Fprintf(&buf, "\n  subgraph \"cluster_%d\" {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", stage)
		buf.WriteString("    style=\"rounded,dashed\";\n    color=grey50;\n")
		for _, name := range doc.JobsInStage(stage) {
			job, _ := doc.Jobs.Get(name)
			fmt.Fprintf(&buf, "    %q [label=%q];\n", name, fmtLabel(name, job, opts.Detailed))
		}
		buf.WriteString("  }\n")
	}

	ghosts := make(map[string]bool)
	var edges []string
	doc.Jobs.Each(func(name string, job document.Job) {
		for _, need := range job.Needs {
			if _, ok := doc.Jobs.Get(need); !ok && !ghosts[need] {
				ghosts[need] = true
				edges = append(edges, fmt.Sprintf("  %q [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey, fontcolor=grey30];", need, need+"?"))
			}
			edges = append(edges, fmt.Sprintf("  %q -> %q;", need, name))
		}
	})
	if len(edges) > 0 {
		buf.WriteString("\n")
		buf.WriteString(strings.Join(edges, "\n"))
		buf.WriteString("\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(name string, job document.Job, detailed bool) string {
	if !detailed {
		return name
	}
	parts := []string{name}
	if job.Image != "" {
		parts = append(parts, "image: "+job.Image)
	}
	if job.When != "" {
		parts = append(parts, "when: "+job.When)
	}
	if len(job.Only) > 0 {
		parts = append(parts, "only: "+strings.Join(job.Only, ", "))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one that
// scales in a browser.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
