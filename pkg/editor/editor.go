package editor

import (
	"context"
	"time"

	"github.com/matzehuels/pipecanvas/pkg/block"
	"github.com/matzehuels/pipecanvas/pkg/document"
	"github.com/matzehuels/pipecanvas/pkg/errors"
	pio "github.com/matzehuels/pipecanvas/pkg/io"
	"github.com/matzehuels/pipecanvas/pkg/layout"
	"github.com/matzehuels/pipecanvas/pkg/needs"
	"github.com/matzehuels/pipecanvas/pkg/observability"
)

// Options configures a new editor.
type Options struct {
	// Catalog lists the block kinds; nil means [block.DefaultCatalog].
	Catalog *block.Catalog

	// Mode is the initial layout mode.
	Mode layout.Mode

	// AutoSnap stacks every container after each drop and move.
	AutoSnap bool
}

// Persister stores serialized snapshots. [slot.Slot] implements it.
type Persister interface {
	Load(ctx context.Context) ([]byte, bool, error)
	Save(ctx context.Context, data []byte) error
}

// Editor is one editing session.
type Editor struct {
	catalog  *block.Catalog
	store    *block.Store
	engine   *layout.Engine
	autoSnap bool

	doc    *document.Document
	report *document.Report

	listeners map[int]func(Change)
	nextSub   int
}

// New creates an editor with an empty store.
func New(opts Options) *Editor {
	if opts.Catalog == nil {
		opts.Catalog = block.DefaultCatalog()
	}
	e := &Editor{
		catalog:   opts.Catalog,
		store:     block.NewStore(opts.Catalog),
		engine:    layout.NewEngine(opts.Mode),
		autoSnap:  opts.AutoSnap,
		listeners: make(map[int]func(Change)),
	}
	e.recompile()
	return e
}

// =============================================================================
// Input events
// =============================================================================

// Drop creates a block of ev.Type at the pointer position inside
// ev.Container. Dropping outside any container of the current surface is a
// no-op. Dropping the catalog's multi-column type creates no block; it
// switches the surface to multi mode instead.
func (e *Editor) Drop(ev DropEvent) (res DropResult, err error) {
	defer func() { observability.Editor().OnMutation(OpDrop, res.Block.ID, err) }()

	if ev.Type == "" {
		return DropResult{}, errors.New(errors.ErrCodeInvalidInput, "drop without block type")
	}
	if _, ok := e.engine.Surface.Resolve(ev.Container); !ok {
		return DropResult{}, nil
	}
	if e.catalog.IsMultiColumn(ev.Type) {
		if e.engine.Surface.Mode() == layout.ModeMulti {
			return DropResult{}, nil
		}
		if err := e.stage(func(s *block.Store) error { return e.engine.Restructure(s, layout.ModeMulti) }); err != nil {
			return DropResult{}, err
		}
		e.commit(Change{Kind: OpMode})
		return DropResult{Restructured: true}, nil
	}

	var b block.Block
	err = e.stage(func(s *block.Store) error {
		b = s.Create(ev.Type)
		if _, _, err := e.engine.Drop(s, b.ID, ev.Container, ev.Pointer, ev.Origin, ev.Size); err != nil {
			return err
		}
		if e.autoSnap {
			if err := e.engine.StackAll(s); err != nil {
				return err
			}
		}
		b, _ = s.Get(b.ID)
		return nil
	})
	if err != nil {
		return DropResult{}, err
	}
	e.commit(Change{Kind: OpDrop, BlockID: b.ID})
	return DropResult{Block: b, Placed: true, Position: b.Position}, nil
}

// Move relocates an existing top-level block. It reports false, changing
// nothing, when the target container is not part of the surface.
func (e *Editor) Move(id string, ev DropEvent) (moved bool, err error) {
	defer func() { observability.Editor().OnMutation(OpMove, id, err) }()

	if _, ok := e.store.Get(id); !ok {
		return false, errors.New(errors.ErrCodeBlockNotFound, "block %s not found", id)
	}
	err = e.stage(func(s *block.Store) error {
		_, ok, err := e.engine.Drop(s, id, ev.Container, ev.Pointer, ev.Origin, ev.Size)
		if err != nil || !ok {
			return err
		}
		moved = true
		if e.autoSnap {
			return e.engine.StackAll(s)
		}
		return nil
	})
	if err != nil || !moved {
		return false, err
	}
	e.commit(Change{Kind: OpMove, BlockID: id})
	return true, nil
}

// EditSave applies the edit form to a block. A rename onto the name of
// another block is rejected with DUPLICATE_NAME, and names cannot be empty.
// The needs value is stored as given, resolved or not.
func (e *Editor) EditSave(id string, p block.Patch) (err error) {
	defer func() { observability.Editor().OnMutation(OpEdit, id, err) }()

	cur, ok := e.store.Get(id)
	if !ok {
		return errors.New(errors.ErrCodeBlockNotFound, "block %s not found", id)
	}
	if p.Name != nil && *p.Name != cur.Name {
		if *p.Name == "" {
			return errors.New(errors.ErrCodeInvalidInput, "block name cannot be empty")
		}
		if other := e.store.FindByName(*p.Name); other != nil && other.ID != id {
			return errors.New(errors.ErrCodeDuplicateName, "name %q is already used by block %s", *p.Name, other.ID)
		}
	}
	if err := e.stage(func(s *block.Store) error { return s.Update(id, p) }); err != nil {
		return err
	}
	e.commit(Change{Kind: OpEdit, BlockID: id})
	return nil
}

// Delete removes a block and its nested children. Needs referring to the
// deleted names are left in place and surface as dangling warnings.
func (e *Editor) Delete(id string) (err error) {
	defer func() { observability.Editor().OnMutation(OpDelete, id, err) }()

	if err := e.stage(func(s *block.Store) error { return s.Delete(id) }); err != nil {
		return err
	}
	e.commit(Change{Kind: OpDelete, BlockID: id})
	return nil
}

// Import replaces the editor content with the blocks of a YAML or JSON
// document. On any error the editor is left exactly as it was.
func (e *Editor) Import(raw []byte) error {
	doc, err := pio.Decode(raw)
	if err != nil {
		observability.Editor().OnImport(0, 0, err)
		return err
	}
	return e.ImportDocument(doc)
}

// ImportDocument is [Editor.Import] for an already decoded document.
func (e *Editor) ImportDocument(doc *document.Document) (err error) {
	start := time.Now()
	defer func() {
		jobs := 0
		if doc != nil {
			jobs = doc.Jobs.Len()
		}
		observability.Editor().OnImport(jobs, time.Since(start), err)
	}()

	s := block.NewStore(e.catalog)
	s.Reserve(e.store.Counter())
	if err := document.ImportInto(s, doc, layout.NewEngine(e.Mode())); err != nil {
		return err
	}
	e.store = s
	e.commit(Change{Kind: OpImport})
	return nil
}

// ToggleLayoutMode flips between the single canvas and the multi-column
// surface, migrating blocks, and returns the new mode.
func (e *Editor) ToggleLayoutMode() (layout.Mode, error) {
	if err := e.SetMode(e.Mode().Toggle()); err != nil {
		return e.Mode(), err
	}
	return e.Mode(), nil
}

// SetMode switches the layout mode. Blocks are migrated, never dropped.
func (e *Editor) SetMode(m layout.Mode) (err error) {
	defer func() { observability.Editor().OnMutation(OpMode, "", err) }()

	if m == e.Mode() {
		return nil
	}
	if err := e.stage(func(s *block.Store) error { return e.engine.Restructure(s, m) }); err != nil {
		return err
	}
	e.commit(Change{Kind: OpMode})
	return nil
}

// Snap stacks the blocks of every container.
func (e *Editor) Snap() (err error) {
	defer func() { observability.Editor().OnMutation(OpSnap, "", err) }()

	if err := e.stage(func(s *block.Store) error { return e.engine.StackAll(s) }); err != nil {
		return err
	}
	e.commit(Change{Kind: OpSnap})
	return nil
}

// Recompile rebuilds the document without changing the store.
func (e *Editor) Recompile() {
	e.recompile()
}

// =============================================================================
// Outputs
// =============================================================================

// Document returns the current compiled document. It is rebuilt on every
// mutation; callers must not modify it.
func (e *Editor) Document() *document.Document { return e.doc }

// Report returns the warnings of the last compilation.
func (e *Editor) Report() *document.Report { return e.report }

// Warnings returns the warnings of the last compilation.
func (e *Editor) Warnings() []document.Warning { return e.report.Warnings }

// Positions returns the position of every top-level block keyed by ID.
func (e *Editor) Positions() map[string]block.Position {
	return e.engine.Positions(e.store)
}

// DependencyCandidates returns the needs picker options for a block.
func (e *Editor) DependencyCandidates(id string) ([]needs.Candidate, error) {
	cs, ok := needs.Candidates(e.store, id)
	if !ok {
		return nil, errors.New(errors.ErrCodeBlockNotFound, "block %s not found", id)
	}
	return cs, nil
}

// Blocks returns every block in insertion order.
func (e *Editor) Blocks() []block.Block { return e.store.List() }

// Block returns one block.
func (e *Editor) Block(id string) (block.Block, bool) { return e.store.Get(id) }

// Children returns the nested blocks of a group.
func (e *Editor) Children(id string) []block.Block { return e.store.Children(id) }

// Columns returns the top-level blocks grouped by container name.
func (e *Editor) Columns() map[string][]block.Block { return e.engine.Columns(e.store) }

// Mode returns the current layout mode.
func (e *Editor) Mode() layout.Mode { return e.engine.Surface.Mode() }

// Containers returns the drop targets of the current surface.
func (e *Editor) Containers() []layout.Container { return e.engine.Surface.Containers() }

// Catalog returns the block catalog.
func (e *Editor) Catalog() *block.Catalog { return e.catalog }

// Palette returns the kinds offered in the current mode: the predefined
// palette on the canvas, the SYAC palette in multi mode.
func (e *Editor) Palette() []block.Kind {
	if e.Mode() == layout.ModeMulti {
		return e.catalog.Palette(block.PaletteSYAC)
	}
	return e.catalog.Palette(block.PalettePredefined)
}

// =============================================================================
// Listeners
// =============================================================================

// OnChange registers fn to run after every committed mutation and returns a
// function that unregisters it.
func (e *Editor) OnChange(fn func(Change)) (cancel func()) {
	id := e.nextSub
	e.nextSub++
	e.listeners[id] = fn
	return func() { delete(e.listeners, id) }
}

func (e *Editor) recompile() {
	start := time.Now()
	e.doc, e.report = document.Compile(e.store)
	observability.Editor().OnCompile(e.doc.Jobs.Len(), len(e.report.Warnings), time.Since(start))
}

// stage runs fn on a copy of the store and swaps it in only when fn
// succeeds. A failed restructure also puts the surface mode back.
func (e *Editor) stage(fn func(s *block.Store) error) error {
	s := e.store.Clone()
	mode := e.engine.Surface.Mode()
	if err := fn(s); err != nil {
		e.engine.Surface.SetMode(mode)
		return err
	}
	e.store = s
	return nil
}

func (e *Editor) commit(c Change) {
	e.recompile()
	c.Document = e.doc
	c.Warnings = e.report.Warnings
	c.Mode = e.Mode()
	for _, fn := range e.listenersInOrder() {
		fn(c)
	}
}

func (e *Editor) listenersInOrder() []func(Change) {
	out := make([]func(Change), 0, len(e.listeners))
	for i := 0; i < e.nextSub; i++ {
		if fn, ok := e.listeners[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}
