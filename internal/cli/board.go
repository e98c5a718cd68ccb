package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pipecanvas/pkg/editor"
	"github.com/matzehuels/pipecanvas/pkg/errors"
	"github.com/matzehuels/pipecanvas/pkg/layout"
	"github.com/matzehuels/pipecanvas/pkg/render/board"
)

// =============================================================================
// BoardModel - Interactive board viewer
// =============================================================================

// saver writes the board back to where it came from.
type saver func(ctx context.Context, ed *editor.Editor) error

// BoardModel is the bubbletea model of the board viewer.
type BoardModel struct {
	ed     *editor.Editor
	save   saver
	ctx    context.Context
	cursor int
	status string
	dirty  bool
	width  int
}

func newBoardModel(ctx context.Context, ed *editor.Editor, save saver) BoardModel {
	return BoardModel{ed: ed, save: save, ctx: ctx}
}

func (m BoardModel) Init() tea.Cmd {
	return nil
}

func (m BoardModel) selected() string {
	ids := board.Order(m.ed)
	if len(ids) == 0 {
		return ""
	}
	return ids[min(m.cursor, len(ids)-1)]
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		ids := board.Order(m.ed)
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(ids)-1 {
				m.cursor++
			}
		case "s":
			m.apply("Snapped", m.ed.Snap())
		case "m":
			mode, err := m.ed.ToggleLayoutMode()
			m.apply("Layout "+string(mode), err)
		case "d", "x":
			id := m.selected()
			if id == "" {
				break
			}
			m.apply("Deleted "+id, m.ed.Delete(id))
			if n := len(board.Order(m.ed)); m.cursor >= n && n > 0 {
				m.cursor = n - 1
			}
		case "w":
			if m.save == nil {
				m.status = "nowhere to write"
				break
			}
			if err := m.save(m.ctx, m.ed); err != nil {
				m.status = "write failed: " + errors.UserMessage(err)
				break
			}
			m.dirty = false
			m.status = "Written"
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m *BoardModel) apply(done string, err error) {
	if err != nil {
		m.status = errors.UserMessage(err)
		return
	}
	m.dirty = true
	m.status = done
}

func (m BoardModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Pipeline Board"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s mode · %d jobs", m.ed.Mode(), m.ed.Document().Jobs.Len())))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ select  s snap  m mode  d delete  w write  q quit"))
	b.WriteString("\n\n")

	width := 36
	if m.width > 0 && m.ed.Mode() == layout.ModeMulti {
		width = max(24, m.width/2-2)
	}
	b.WriteString(board.Render(m.ed, board.Options{Selected: m.selected(), Width: width}))
	b.WriteString("\n")

	if id := m.selected(); id != "" {
		if blk, ok := m.ed.Block(id); ok {
			b.WriteString(StyleHighlight.Render(blk.Name))
			if blk.Needs != "" {
				b.WriteString(StyleDim.Render("  needs " + blk.Needs))
			}
			b.WriteString("\n")
		}
	}
	for _, w := range m.ed.Warnings() {
		b.WriteString(StyleWarning.Render(iconWarning + " " + w.Message))
		b.WriteString("\n")
	}
	if m.status != "" {
		status := m.status
		if m.dirty {
			status += " (unsaved)"
		}
		b.WriteString(StyleDim.Render(status))
	}
	return b.String()
}

// boardCommand opens the interactive board viewer.
func (c *CLI) boardCommand() *cobra.Command {
	var slotKey, backend string

	cmd := &cobra.Command{
		Use:   "board [snapshot|document]",
		Short: "Browse and tidy a board in the terminal",
		Long: `Browse and tidy a board in the terminal.

The board is read from a snapshot or document file, or from a slot with
--slot. Pressing w writes it back: as a snapshot to the same file, or to the
slot.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				ed   *editor.Editor
				save saver
				err  error
			)
			switch {
			case len(args) == 1:
				if ed, err = c.loadEditor(args[0]); err != nil {
					return err
				}
				path := args[0]
				save = func(_ context.Context, ed *editor.Editor) error {
					data, err := ed.Snapshot()
					if err != nil {
						return err
					}
					return c.writeOutput(path, data)
				}
			case slotKey != "":
				sl, err := c.openSlot(ctx, backend, slotKey)
				if err != nil {
					return err
				}
				defer sl.Close()
				if ed, err = c.newEditor(); err != nil {
					return err
				}
				if _, err := ed.Load(ctx, sl); err != nil {
					return err
				}
				save = func(ctx context.Context, ed *editor.Editor) error { return ed.Save(ctx, sl) }
			default:
				return errors.New(errors.ErrCodeInvalidInput, "give a file or --slot")
			}

			final, err := tea.NewProgram(newBoardModel(ctx, ed, save), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(BoardModel); ok && m.dirty {
				printWarning(c.out(), "Board had unwritten changes")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&slotKey, "slot", "", "read the board from this slot key")
	cmd.Flags().StringVar(&backend, "backend", "", "slot backend (default from config)")
	return cmd
}
