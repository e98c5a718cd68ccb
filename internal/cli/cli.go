package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pipecanvas/internal/config"
	"github.com/matzehuels/pipecanvas/pkg/buildinfo"
	"github.com/matzehuels/pipecanvas/pkg/document"
	"github.com/matzehuels/pipecanvas/pkg/editor"
	"github.com/matzehuels/pipecanvas/pkg/errors"
	pio "github.com/matzehuels/pipecanvas/pkg/io"
	"github.com/matzehuels/pipecanvas/pkg/slot"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "pipecanvas"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output; nil means os.Stdout.
	Out io.Writer

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Pipecanvas turns block layouts into CI pipeline documents",
		Long: `Pipecanvas keeps a visual block layout and a CI pipeline document in sync.
Blocks placed on a canvas compile to stages and jobs; documents import back
into blocks.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/pipecanvas/config.toml)")

	root.AddCommand(c.compileCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.describeCommand())
	root.AddCommand(c.lintCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.boardCommand())
	root.AddCommand(c.slotCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) out() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

// config loads the configuration once per invocation.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// newEditor creates an editor seeded from the configuration.
func (c *CLI) newEditor() (*editor.Editor, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	return editor.New(editor.Options{Catalog: cat, Mode: cfg.Mode(), AutoSnap: cfg.Editor.AutoSnap}), nil
}

// openSlot opens the configured backend; backend overrides the configured
// backend name when non-empty.
func (c *CLI) openSlot(ctx context.Context, backend, key string) (*slot.Slot, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	opts := cfg.SlotOptions()
	if backend != "" {
		opts.Backend = backend
	}
	if key == "" {
		key = cfg.Storage.Key
	}
	b, err := slot.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("Opened slot", "backend", b.Name(), "key", key)
	return slot.New(b, key), nil
}

// =============================================================================
// Inputs
// =============================================================================

// expandArgs resolves doublestar patterns. Arguments without glob
// metacharacters are kept as given so that missing files still produce a
// read error.
func expandArgs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if !hasMeta(arg) {
			out = append(out, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad pattern %q", arg)
		}
		if len(matches) == 0 {
			return nil, errors.New(errors.ErrCodeNotFound, "no files match %q", arg)
		}
		out = append(out, matches...)
	}
	return out, nil
}

func hasMeta(s string) bool {
	for _, r := range s {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// isSnapshot reports whether data looks like a serialized block snapshot
// rather than a pipeline document.
func isSnapshot(data []byte) bool {
	var probe struct {
		Version int             `json:"version"`
		Blocks  json.RawMessage `json:"blocks"`
	}
	if pio.Sniff(data) != pio.FormatJSON {
		return false
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Version > 0 && probe.Blocks != nil
}

// loadEditor reads a snapshot or a document file into a fresh editor.
func (c *CLI) loadEditor(path string) (*editor.Editor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read %s", path)
	}
	ed, err := c.newEditor()
	if err != nil {
		return nil, err
	}
	if isSnapshot(data) {
		err = ed.Restore(data)
	} else {
		err = ed.Import(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ed, nil
}

// loadDocument reads a document, or compiles one from a snapshot.
func (c *CLI) loadDocument(path string) (*document.Document, *document.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeNotFound, err, "read %s", path)
	}
	if !isSnapshot(data) {
		doc, err := pio.Decode(data)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		return doc, &document.Report{}, nil
	}
	ed, err := c.newEditor()
	if err != nil {
		return nil, nil, err
	}
	if err := ed.Restore(data); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return ed.Document(), ed.Report(), nil
}

// =============================================================================
// Outputs
// =============================================================================

// writeOutput writes data to path, or to the command output when path is
// empty or "-".
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := c.out().Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// outputPath derives the output file for input when compiling several
// files into a directory.
func outputPath(dir, input, ext string) string {
	base := filepath.Base(input)
	base = base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(dir, base+ext)
}
