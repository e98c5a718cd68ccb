package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	pio "github.com/matzehuels/pipecanvas/pkg/io"
)

// compileCommand compiles snapshots (or re-encodes documents) into
// pipeline documents.
func (c *CLI) compileCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "compile <snapshot>...",
		Short: "Compile block snapshots into pipeline documents",
		Long: `Compile block snapshots into pipeline documents.

With one input the document goes to --output or stdout. With several inputs
--output names a directory that receives one document per input.`,
		Example: `  pipecanvas compile canvas.json
  pipecanvas compile canvas.json -f json -o .gitlab-ci.json
  pipecanvas compile 'boards/**/*.json' -o out/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := pio.ParseFormat(format)
			if err != nil {
				return err
			}
			files, err := expandArgs(args)
			if err != nil {
				return err
			}
			if len(files) > 1 && (output == "" || output == "-") {
				return fmt.Errorf("--output directory is required for %d inputs", len(files))
			}

			for _, file := range files {
				prog := newProgress(c.Logger)
				doc, rep, err := c.loadDocument(file)
				if err != nil {
					return err
				}
				for _, w := range rep.Warnings {
					c.Logger.Warn(w.Message, "kind", w.Kind, "file", file)
				}
				data, err := pio.Encode(doc, f)
				if err != nil {
					return err
				}
				dest := output
				if len(files) > 1 {
					dest = outputPath(output, file, f.Ext())
				}
				if err := c.writeOutput(dest, data); err != nil {
					return err
				}
				prog.done(fmt.Sprintf("Compiled %d jobs", doc.Jobs.Len()), "file", file)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or directory for several inputs (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "document format: yaml or json")
	return cmd
}
