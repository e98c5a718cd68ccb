// Package board draws the drop surface of an editor as terminal text.
//
// Every container becomes a bordered box listing its blocks top to bottom
// with their grid positions; nested blocks are indented under their group.
// In multi mode the cells of a column are stacked and the two columns sit
// side by side.
package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pipecanvas/pkg/block"
	"github.com/matzehuels/pipecanvas/pkg/layout"
)

// Source is the read side of an editor.
type Source interface {
	Mode() layout.Mode
	Containers() []layout.Container
	Columns() map[string][]block.Block
	Children(id string) []block.Block
}

// Options configures the board.
type Options struct {
	// Selected is the ID of the block to highlight.
	Selected string

	// Width is the width of one container box; zero means 36.
	Width int
}

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Render draws the board.
func Render(src Source, opts Options) string {
	if opts.Width <= 0 {
		opts.Width = 36
	}
	cols := src.Columns()

	if src.Mode() == layout.ModeSingle {
		c := src.Containers()[0]
		return box(src, c, cols[c.Name], opts)
	}

	columns := make([][]string, layout.Columns)
	for _, c := range src.Containers() {
		columns[c.Column] = append(columns[c.Column], box(src, c, cols[c.Name], opts))
	}
	rendered := make([]string, 0, len(columns))
	for _, boxes := range columns {
		rendered = append(rendered, lipgloss.JoinVertical(lipgloss.Left, boxes...))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// Order returns the block IDs in the order the board shows them, for cursor
// navigation.
func Order(src Source) []string {
	cols := src.Columns()
	var ids []string
	for _, c := range src.Containers() {
		for _, b := range layout.Stack(cols[c.Name]) {
			ids = append(ids, b.ID)
			for _, child := range src.Children(b.ID) {
				ids = append(ids, child.ID)
			}
		}
	}
	return ids
}

func box(src Source, c layout.Container, blocks []block.Block, opts Options) string {
	lines := []string{titleStyle.Render(c.Name)}
	if len(blocks) == 0 {
		lines = append(lines, dimStyle.Render("(empty)"))
	}
	// Stack returns copies sorted by Y; positions are restored for display.
	pos := make(map[string]block.Position, len(blocks))
	for _, b := range blocks {
		pos[b.ID] = b.Position
	}
	for _, b := range layout.Stack(blocks) {
		p := pos[b.ID]
		lines = append(lines, line(b, fmt.Sprintf("%s (%s) @%d,%d", b.Name, b.Type, p.X, p.Y), opts))
		for _, child := range src.Children(b.ID) {
			lines = append(lines, line(child, "  └ "+child.Name, opts))
		}
	}
	return boxStyle.Width(opts.Width).Render(strings.Join(lines, "\n"))
}

func line(b block.Block, text string, opts Options) string {
	if b.ID == opts.Selected {
		return selectedStyle.Render(text)
	}
	return text
}
