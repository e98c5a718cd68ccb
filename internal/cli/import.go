package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipecanvas/pkg/layout"
)

// importCommand turns a pipeline document into a block snapshot.
func (c *CLI) importCommand() *cobra.Command {
	var output, mode, slotKey, backend string

	cmd := &cobra.Command{
		Use:   "import <document>",
		Short: "Import a pipeline document as blocks",
		Long: `Import a pipeline document (YAML or JSON) as blocks.

Positions are not part of a document; imported blocks are stacked top to
bottom in stage order and the resulting positions are printed. The snapshot
is written to --output, or saved to a slot with --slot.`,
		Example: `  pipecanvas import .gitlab-ci.yml -o canvas.json
  pipecanvas import .gitlab-ci.yml --mode multi --slot main`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			ed, err := c.newEditor()
			if err != nil {
				return err
			}
			if mode != "" {
				m, err := layout.ParseMode(mode)
				if err != nil {
					return err
				}
				if err := ed.SetMode(m); err != nil {
					return err
				}
			}
			if err := ed.Import(data); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			w := c.out()
			switch {
			case slotKey != "":
				sl, err := c.openSlot(cmd.Context(), backend, slotKey)
				if err != nil {
					return err
				}
				defer sl.Close()
				if err := ed.Save(cmd.Context(), sl); err != nil {
					return err
				}
				printSuccess(w, "Saved %d blocks to slot %s", len(ed.Blocks()), sl.Key())
			default:
				snap, err := ed.Snapshot()
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					return c.writeOutput("", append(snap, '\n'))
				}
				if err := c.writeOutput(output, snap); err != nil {
					return err
				}
				printSuccess(w, "Imported %d blocks", len(ed.Blocks()))
				printFile(w, output)
			}
			printPositions(w, ed.Blocks())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot file (default stdout)")
	cmd.Flags().StringVar(&mode, "mode", "", "layout mode: single or multi (default from config)")
	cmd.Flags().StringVar(&slotKey, "slot", "", "save to this slot key instead of a file")
	cmd.Flags().StringVar(&backend, "backend", "", "slot backend (default from config)")
	return cmd
}
