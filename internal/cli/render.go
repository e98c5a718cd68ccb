package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipecanvas/pkg/render/nodelink"
)

// Render output formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
)

// renderCommand draws the job dependency graph.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output, format string
		detailed, lr   bool
		scale          float64
	)

	cmd := &cobra.Command{
		Use:   "render <snapshot|document>",
		Short: "Render the job dependency graph",
		Long: `Render the job dependency graph of a snapshot or document.

Stages become clusters, jobs become nodes and needs become edges. Needs that
name no job are drawn as dashed nodes. PDF and PNG require rsvg-convert.`,
		Example: `  pipecanvas render .gitlab-ci.yml -f svg -o graph.svg
  pipecanvas render canvas.json -f dot --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := c.loadDocument(args[0])
			if err != nil {
				return err
			}
			dot := nodelink.ToDOT(doc, nodelink.Options{Detailed: detailed, LeftToRight: lr})

			prog := newProgress(c.Logger)
			var data []byte
			switch strings.ToLower(format) {
			case formatDOT:
				data = []byte(dot)
			case formatSVG:
				data, err = nodelink.RenderSVG(dot)
			case formatPDF:
				data, err = nodelink.RenderPDF(dot)
			case formatPNG:
				data, err = nodelink.RenderPNG(dot, scale)
			default:
				return fmt.Errorf("unknown format %q (must be dot, svg, pdf or png)", format)
			}
			if err != nil {
				return err
			}
			if err := c.writeOutput(output, data); err != nil {
				return err
			}
			prog.done("Rendered "+format, "jobs", doc.Jobs.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: dot, svg, pdf or png")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show image and when on job nodes")
	cmd.Flags().BoolVar(&lr, "lr", false, "lay the graph out left to right")
	cmd.Flags().Float64Var(&scale, "scale", 2, "PNG scale factor")
	return cmd
}
