// Package pkg provides the libraries behind pipecanvas, a visual editor
// model that keeps a block layout and a CI pipeline document in sync.
//
// # Overview
//
// Blocks are placed on a drop surface (one free canvas, or two columns of
// fixed cells). Compiling the blocks yields a document of ordered stages
// and jobs; importing a document rebuilds the blocks.
//
//	drop / edit / delete events
//	         ↓
//	    [block] store (blocks, groups, IDs)
//	         ↓
//	    [layout] engine (snapping, stacking, containers)
//	         ↓
//	    [document] compiler  ←→  importer
//	         ↓
//	    [io] YAML / JSON
//
// # Main Packages
//
//   - [block]: the block store, kinds catalog and snapshots
//   - [layout]: drop surfaces, grid snapping and stacking
//   - [needs]: parsing and resolving job dependencies
//   - [document]: compiling blocks to documents and importing them back
//   - [io]: document codecs
//   - [editor]: one editing session tying the above together
//   - [slot]: snapshot persistence over file, SQL, Redis and MongoDB backends
//   - [render]: dependency graphs, terminal boards and summaries
//   - [integrations]: GitLab CI lint
//
// # Quick Start
//
//	ed := editor.New(editor.Options{})
//	ed.Drop(editor.DropEvent{
//	    Type:      "build",
//	    Container: layout.Canvas,
//	    Pointer:   layout.Point{X: 40, Y: 20},
//	    Size:      layout.Size{W: 160, H: 40},
//	})
//	pio.WriteYAML(ed.Document(), os.Stdout)
//
// # Supporting Packages
//
//   - [errors]: structured error codes
//   - [observability]: hooks for editor, slot and HTTP events
//   - [buildinfo]: version information
//
// [block]: github.com/matzehuels/pipecanvas/pkg/block
// [layout]: github.com/matzehuels/pipecanvas/pkg/layout
// [needs]: github.com/matzehuels/pipecanvas/pkg/needs
// [document]: github.com/matzehuels/pipecanvas/pkg/document
// [io]: github.com/matzehuels/pipecanvas/pkg/io
// [editor]: github.com/matzehuels/pipecanvas/pkg/editor
// [slot]: github.com/matzehuels/pipecanvas/pkg/slot
// [render]: github.com/matzehuels/pipecanvas/pkg/render
// [integrations]: github.com/matzehuels/pipecanvas/pkg/integrations
// [errors]: github.com/matzehuels/pipecanvas/pkg/errors
// [observability]: github.com/matzehuels/pipecanvas/pkg/observability
// [buildinfo]: github.com/matzehuels/pipecanvas/pkg/buildinfo
package pkg
