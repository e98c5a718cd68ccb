package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipecanvas/pkg/render/summary"
)

// describeCommand prints a summary of stages, jobs and warnings.
func (c *CLI) describeCommand() *cobra.Command {
	var (
		raw   bool
		width int
	)

	cmd := &cobra.Command{
		Use:   "describe <snapshot|document>...",
		Short: "Summarize a pipeline in the terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandArgs(args)
			if err != nil {
				return err
			}
			for _, file := range files {
				doc, rep, err := c.loadDocument(file)
				if err != nil {
					return err
				}
				md := summary.Markdown(doc, rep)
				if raw {
					fmt.Fprint(c.out(), md)
					continue
				}
				out, err := summary.Terminal(md, width)
				if err != nil {
					return err
				}
				if len(files) > 1 {
					fmt.Fprintln(c.out(), StyleTitle.Render(file))
				}
				fmt.Fprint(c.out(), out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print Markdown without terminal styling")
	cmd.Flags().IntVar(&width, "width", 100, "word wrap width")
	return cmd
}
