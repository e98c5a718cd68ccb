package block

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/matzehuels/pipecanvas/pkg/errors"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

// Snapshot is the persisted form of a [Store]: every block with its
// attributes, placement and nesting, plus the ID counter so that IDs stay
// unique across save and load.
type Snapshot struct {
	Version int     `json:"version"`
	NextID  int     `json:"next_id"`
	Mode    string  `json:"mode,omitempty"`
	Blocks  []Block `json:"blocks"`
}

// Snapshot captures the store's current content.
func (s *Store) Snapshot() *Snapshot {
	return &Snapshot{
		Version: SnapshotVersion,
		NextID:  s.next,
		Blocks:  s.List(),
	}
}

// FromSnapshot rebuilds a store from a snapshot, keeping block IDs.
// It rejects duplicate IDs, parent/child links that point nowhere and
// nesting deeper than one level, which also rules out cycles.
func FromSnapshot(snap *Snapshot, c *Catalog) (*Store, error) {
	if snap == nil {
		return nil, errors.New(errors.ErrCodeCorruptSnapshot, "nil snapshot")
	}
	if snap.Version > SnapshotVersion {
		return nil, errors.New(errors.ErrCodeUnsupported, "snapshot version %d is newer than supported version %d", snap.Version, SnapshotVersion)
	}

	s := NewStore(c)
	for _, b := range snap.Blocks {
		if b.ID == "" {
			return nil, errors.New(errors.ErrCodeCorruptSnapshot, "block without id")
		}
		if _, dup := s.blocks[b.ID]; dup {
			return nil, errors.New(errors.ErrCodeCorruptSnapshot, "duplicate block id %s", b.ID)
		}
		cp := b.clone()
		s.blocks[b.ID] = &cp
		s.order = append(s.order, b.ID)
		if n, ok := idNumber(b.ID); ok && n > s.next {
			s.next = n
		}
	}
	for _, b := range s.blocks {
		if b.Parent != "" {
			if b.Parent == b.ID {
				return nil, errors.New(errors.ErrCodeCorruptSnapshot, "block %s is its own parent", b.ID)
			}
			p, ok := s.blocks[b.Parent]
			if !ok || !slices.Contains(p.Children, b.ID) {
				return nil, errors.New(errors.ErrCodeCorruptSnapshot, "block %s has dangling parent %s", b.ID, b.Parent)
			}
			if p.Parent != "" {
				return nil, errors.New(errors.ErrCodeCorruptSnapshot, "block %s is nested more than one level", b.ID)
			}
			if len(b.Children) > 0 {
				return nil, errors.New(errors.ErrCodeCorruptSnapshot, "nested block %s has children", b.ID)
			}
		}
		for _, c := range b.Children {
			child, ok := s.blocks[c]
			if !ok || child.Parent != b.ID {
				return nil, errors.New(errors.ErrCodeCorruptSnapshot, "block %s has dangling child %s", b.ID, c)
			}
		}
	}
	s.Reserve(snap.NextID)
	return s, nil
}

// Serialize encodes the snapshot as JSON.
func (snap *Snapshot) Serialize() ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Deserialize decodes a snapshot produced by [Snapshot.Serialize].
func Deserialize(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCorruptSnapshot, err, "decode snapshot")
	}
	if snap.Version == 0 {
		return nil, errors.New(errors.ErrCodeCorruptSnapshot, "snapshot has no version")
	}
	return &snap, nil
}

func idNumber(id string) (int, bool) {
	if len(id) < 2 || id[0] != 'b' {
		return 0, false
	}
	n := 0
	for _, r := range id[1:] {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
