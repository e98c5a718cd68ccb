package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/pipecanvas/pkg/block"
)

// Engine applies layout algorithms to the blocks of a store.
type Engine struct {
	Surface *Surface
}

// NewEngine creates an engine over a surface in the given mode.
func NewEngine(mode Mode) *Engine {
	return &Engine{Surface: NewSurface(mode)}
}

// Drop places a block at a pointer position inside the named container.
// It returns false, and leaves the store untouched, when the container is
// not part of the surface.
func (e *Engine) Drop(s *block.Store, id, container string, pointer, origin Point, size Size) (block.Position, bool, error) {
	c, ok := e.Surface.Resolve(container)
	if !ok {
		return block.Position{}, false, nil
	}
	pos := Place(pointer, origin, size)
	if err := s.Place(id, c.Name, pos); err != nil {
		return block.Position{}, false, err
	}
	return pos, true, nil
}

// Columns groups the top-level blocks by container, in surface order.
// Blocks whose slot is not a container of the current surface are treated
// as members of the default container.
func (e *Engine) Columns(s *block.Store) map[string][]block.Block {
	def := e.Surface.Default().Name
	out := make(map[string][]block.Block)
	for _, b := range s.TopLevel() {
		slot := b.Slot
		if _, ok := e.Surface.Resolve(slot); !ok {
			slot = def
		}
		out[slot] = append(out[slot], b)
	}
	return out
}

// StackAll runs [Stack] independently inside every container.
func (e *Engine) StackAll(s *block.Store) error {
	cols := e.Columns(s)
	for _, c := range e.Surface.Containers() {
		for _, b := range Stack(cols[c.Name]) {
			if err := s.Place(b.ID, c.Name, b.Position); err != nil {
				return err
			}
		}
	}
	return nil
}

// Restructure switches the surface to mode and migrates every top-level
// block into the new structure, then re-stacks. Entering multi mode moves
// all blocks into the first cell; leaving it gathers them back onto the
// canvas ordered by cell, then by vertical position.
func (e *Engine) Restructure(s *block.Store, mode Mode) error {
	if e.Surface.Mode() == mode {
		return nil
	}
	ordered := e.ordered(s)
	e.Surface.SetMode(mode)
	target := e.Surface.Default().Name
	for i, b := range ordered {
		if err := s.Place(b.ID, target, block.Position{Y: i * StackSpacing}); err != nil {
			return err
		}
	}
	return e.StackAll(s)
}

// ordered returns top-level blocks sorted by container order, then by Y,
// with insertion order breaking the remaining ties.
func (e *Engine) ordered(s *block.Store) []block.Block {
	blocks := s.TopLevel()
	idx := func(b block.Block) int {
		if i := e.Surface.Index(b.Slot); i >= 0 {
			return i
		}
		return 0
	}
	slices.SortStableFunc(blocks, func(a, b block.Block) int {
		if c := cmp.Compare(idx(a), idx(b)); c != 0 {
			return c
		}
		return cmp.Compare(a.Position.Y, b.Position.Y)
	})
	return blocks
}

// Positions returns the position of every top-level block keyed by ID.
func (e *Engine) Positions(s *block.Store) map[string]block.Position {
	out := make(map[string]block.Position)
	for _, b := range s.TopLevel() {
		out[b.ID] = b.Position
	}
	return out
}
