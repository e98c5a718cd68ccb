package editor

import (
	"github.com/matzehuels/pipecanvas/pkg/block"
	"github.com/matzehuels/pipecanvas/pkg/document"
	"github.com/matzehuels/pipecanvas/pkg/layout"
)

// Operation names used in changes and hooks.
const (
	OpDrop   = "drop"
	OpMove   = "move"
	OpEdit   = "edit"
	OpDelete = "delete"
	OpImport = "import"
	OpMode   = "mode"
	OpSnap   = "snap"
	OpLoad   = "load"
)

// DropEvent is a pointer release over the drop surface, in viewport
// coordinates.
type DropEvent struct {
	// Type is the palette type being dropped. Move ignores it.
	Type string `json:"type,omitempty"`

	// Container names the drop target under the pointer.
	Container string `json:"container"`

	Pointer layout.Point `json:"pointer"`
	Origin  layout.Point `json:"origin"`
	Size    layout.Size  `json:"size"`
}

// DropResult describes what a drop did.
type DropResult struct {
	Block block.Block `json:"block"`

	// Position is where the block ended up, after auto-snap if enabled.
	Position     block.Position `json:"position"`
	Placed       bool           `json:"placed"`
	Restructured bool           `json:"restructured"`
}

// Change is delivered to listeners after each committed mutation.
type Change struct {
	Kind     string             `json:"kind"`
	BlockID  string             `json:"block_id,omitempty"`
	Mode     layout.Mode        `json:"mode"`
	Document *document.Document `json:"document"`
	Warnings []document.Warning `json:"warnings"`
}
