package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipecanvas/pkg/errors"
	"github.com/matzehuels/pipecanvas/pkg/slot"
)

// slotCommand manages persisted snapshots.
func (c *CLI) slotCommand() *cobra.Command {
	var key, backend string

	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Save, load and clear persisted snapshots",
	}
	cmd.PersistentFlags().StringVar(&key, "key", "", "slot key (default from config)")
	cmd.PersistentFlags().StringVar(&backend, "backend", "", "slot backend (default from config)")

	save := &cobra.Command{
		Use:   "save <snapshot|document>",
		Short: "Store a snapshot, or a document imported as blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := c.loadEditor(args[0])
			if err != nil {
				return err
			}
			sl, err := c.openSlot(cmd.Context(), backend, key)
			if err != nil {
				return err
			}
			defer sl.Close()
			if err := ed.Save(cmd.Context(), sl); err != nil {
				return err
			}
			printSuccess(c.out(), "Saved %d blocks to %s slot %s", len(ed.Blocks()), sl.Backend().Name(), sl.Key())
			return nil
		},
	}

	var output string
	load := &cobra.Command{
		Use:   "load",
		Short: "Write the stored snapshot to a file or stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sl, err := c.openSlot(cmd.Context(), backend, key)
			if err != nil {
				return err
			}
			defer sl.Close()
			data, ok, err := sl.Load(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "slot %s is empty", sl.Key())
			}
			if output == "" || output == "-" {
				return c.writeOutput("", append(data, '\n'))
			}
			if err := c.writeOutput(output, data); err != nil {
				return err
			}
			printFile(c.out(), output)
			return nil
		},
	}
	load.Flags().StringVarP(&output, "output", "o", "", "snapshot file (default stdout)")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sl, err := c.openSlot(cmd.Context(), backend, key)
			if err != nil {
				return err
			}
			defer sl.Close()
			if err := sl.Clear(cmd.Context()); err != nil {
				return err
			}
			printSuccess(c.out(), "Cleared slot %s", sl.Key())
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print where the file backend stores the slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sl, err := c.openSlot(cmd.Context(), slot.BackendFile, key)
			if err != nil {
				return err
			}
			defer sl.Close()
			fb, ok := sl.Backend().(*slot.FileBackend)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "slot path is only defined for the file backend")
			}
			p := fb.Path(sl.Key())
			if _, err := os.Stat(p); err != nil {
				c.Logger.Debug("Slot file does not exist yet", "path", p)
			}
			fmt.Fprintln(c.out(), p)
			return nil
		},
	}

	cmd.AddCommand(save, load, clearCmd, pathCmd)
	return cmd
}
