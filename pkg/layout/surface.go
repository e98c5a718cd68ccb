package layout

import (
	"fmt"

	"github.com/matzehuels/pipecanvas/pkg/errors"
)

// Mode selects the structure of the drop surface.
type Mode string

const (
	// ModeSingle is one free-placement canvas.
	ModeSingle Mode = "single"

	// ModeMulti is two columns of fixed cells.
	ModeMulti Mode = "multi"
)

// Surface geometry.
const (
	Canvas         = "canvas"
	Columns        = 2
	CellsPerColumn = 5
)

// ParseMode parses a mode name. The empty string means ModeSingle.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeSingle:
		return ModeSingle, nil
	case ModeMulti:
		return ModeMulti, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown layout mode %q (must be single or multi)", s)
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeMulti {
		return ModeSingle
	}
	return ModeMulti
}

// Container is a drop target: the canvas, or one cell of a column.
type Container struct {
	Name   string `json:"name"`
	Column int    `json:"column"`
	Cell   int    `json:"cell"`
}

// CellName returns the container name of a cell.
func CellName(column, cell int) string {
	return fmt.Sprintf("col%d/cell%d", column, cell)
}

// Surface is the set of containers available in a mode.
type Surface struct {
	mode Mode
}

// NewSurface returns a surface in the given mode.
func NewSurface(mode Mode) *Surface {
	if mode == "" {
		mode = ModeSingle
	}
	return &Surface{mode: mode}
}

// Mode returns the current mode.
func (s *Surface) Mode() Mode { return s.mode }

// SetMode switches the surface structure. Blocks are not touched; use
// [Engine.Restructure] to migrate them.
func (s *Surface) SetMode(m Mode) { s.mode = m }

// Containers lists the containers in column-major order.
func (s *Surface) Containers() []Container {
	if s.mode != ModeMulti {
		return []Container{{Name: Canvas}}
	}
	out := make([]Container, 0, Columns*CellsPerColumn)
	for c := 0; c < Columns; c++ {
		for i := 0; i < CellsPerColumn; i++ {
			out = append(out, Container{Name: CellName(c, i), Column: c, Cell: i})
		}
	}
	return out
}

// Default returns the container blocks land in when they have none.
func (s *Surface) Default() Container {
	return s.Containers()[0]
}

// Resolve looks up a container by name.
func (s *Surface) Resolve(name string) (Container, bool) {
	for _, c := range s.Containers() {
		if c.Name == name {
			return c, true
		}
	}
	return Container{}, false
}

// Index returns the position of a container in [Surface.Containers], or -1.
func (s *Surface) Index(name string) int {
	for i, c := range s.Containers() {
		if c.Name == name {
			return i
		}
	}
	return -1
}
