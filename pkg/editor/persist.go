package editor

import (
	"context"

	"github.com/matzehuels/pipecanvas/pkg/block"
	"github.com/matzehuels/pipecanvas/pkg/layout"
)

// Snapshot serializes the store and the layout mode.
func (e *Editor) Snapshot() ([]byte, error) {
	snap := e.store.Snapshot()
	snap.Mode = string(e.Mode())
	return snap.Serialize()
}

// Restore replaces the editor content with a serialized snapshot. IDs keep
// counting from the higher of the snapshot's and the session's counters.
// On error the editor is unchanged.
func (e *Editor) Restore(data []byte) error {
	snap, err := block.Deserialize(data)
	if err != nil {
		return err
	}
	mode, err := layout.ParseMode(snap.Mode)
	if err != nil {
		return err
	}
	s, err := block.FromSnapshot(snap, e.catalog)
	if err != nil {
		return err
	}
	s.Reserve(e.store.Counter())
	e.store = s
	e.engine.Surface.SetMode(mode)
	e.commit(Change{Kind: OpLoad})
	return nil
}

// Save writes a snapshot to p.
func (e *Editor) Save(ctx context.Context, p Persister) error {
	data, err := e.Snapshot()
	if err != nil {
		return err
	}
	return p.Save(ctx, data)
}

// Load restores the snapshot held by p. It reports false, leaving the
// editor unchanged, when p is empty.
func (e *Editor) Load(ctx context.Context, p Persister) (bool, error) {
	data, ok, err := p.Load(ctx)
	if err != nil || !ok {
		return false, err
	}
	if err := e.Restore(data); err != nil {
		return false, err
	}
	return true, nil
}
