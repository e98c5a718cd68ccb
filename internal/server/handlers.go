package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pipecanvas/pkg/block"
	"github.com/matzehuels/pipecanvas/pkg/document"
	"github.com/matzehuels/pipecanvas/pkg/editor"
	"github.com/matzehuels/pipecanvas/pkg/errors"
	pio "github.com/matzehuels/pipecanvas/pkg/io"
	"github.com/matzehuels/pipecanvas/pkg/layout"
	"github.com/matzehuels/pipecanvas/pkg/needs"
	"github.com/matzehuels/pipecanvas/pkg/render/nodelink"
	"github.com/matzehuels/pipecanvas/pkg/slot"
)

// state is the full view of a workspace.
type state struct {
	ID         string             `json:"id"`
	Containers []layout.Container `json:"containers"`
	Palette    []block.Kind       `json:"palette"`
	Blocks     []block.Block      `json:"blocks"`
	update
}

func (s *Server) snapshotState(ws *workspace, ed *editor.Editor) state {
	return state{
		ID:         ws.id,
		Containers: ed.Containers(),
		Palette:    ed.Palette(),
		Blocks:     ed.Blocks(),
		update:     newUpdate(ed, "state", ""),
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ws := newWorkspace(s.newEditor())
	s.workspaces.add(ws)
	s.logger.Info("Workspace created", "id", ws.id)

	var st state
	_ = ws.do(func(ed *editor.Editor) error {
		st = s.snapshotState(ws, ed)
		return nil
	})
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	var st state
	_ = ws.do(func(ed *editor.Editor) error {
		st = s.snapshotState(ws, ed)
		return nil
	})
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	if ws, ok := s.workspaces.remove(workspaceFrom(r).id); ok {
		ws.close()
		s.logger.Info("Workspace closed", "id", ws.id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Mutations
// =============================================================================

func (s *Server) withSize(ev editor.DropEvent) editor.DropEvent {
	if ev.Size.W <= 0 || ev.Size.H <= 0 {
		ev.Size = s.opts.BlockSize
	}
	return ev
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var ev editor.DropEvent
	if err := decode(r, &ev); err != nil {
		s.writeError(w, r, err)
		return
	}
	var res editor.DropResult
	err := workspaceFrom(r).do(func(ed *editor.Editor) error {
		var err error
		res, err = ed.Drop(s.withSize(ev))
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type moveRequest struct {
	ID string `json:"id"`
	editor.DropEvent
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var moved bool
	err := workspaceFrom(r).do(func(ed *editor.Editor) error {
		var err error
		moved, err = ed.Move(req.ID, s.withSize(req.DropEvent))
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"moved": moved})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var patch block.Patch
	if err := decode(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "block")
	var b block.Block
	err := workspaceFrom(r).do(func(ed *editor.Editor) error {
		if err := ed.EditSave(id, patch); err != nil {
			return err
		}
		b, _ = ed.Block(id)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "block")
	err := workspaceFrom(r).do(func(ed *editor.Editor) error {
		return ed.Delete(id)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSnap(w http.ResponseWriter, r *http.Request) {
	var positions map[string]block.Position
	err := workspaceFrom(r).do(func(ed *editor.Editor) error {
		if err := ed.Snap(); err != nil {
			return err
		}
		positions = ed.Positions()
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, positions)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var mode layout.Mode
	err := workspaceFrom(r).do(func(ed *editor.Editor) error {
		var err error
		mode, err = ed.ToggleLayoutMode()
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]layout.Mode{"mode": mode})
}

// handleImport accepts a YAML or JSON document body. An invalid document
// leaves the workspace untouched.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ws := workspaceFrom(r)
	var st state
	err = ws.do(func(ed *editor.Editor) error {
		if err := ed.Import(raw); err != nil {
			return err
		}
		st = s.snapshotState(ws, ed)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// =============================================================================
// Persistence
// =============================================================================

type slotRequest struct {
	Key string `json:"key"`
}

func (s *Server) slotFor(r *http.Request, ws *workspace) (*slot.Slot, error) {
	if s.opts.Backend == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no storage backend configured")
	}
	var req slotRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	if req.Key == "" {
		req.Key = ws.slotKey()
	}
	return slot.New(s.opts.Backend, req.Key), nil
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	sl, err := s.slotFor(r, ws)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	err = ws.do(func(ed *editor.Editor) error {
		return ed.Save(r.Context(), sl)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": sl.Key()})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	sl, err := s.slotFor(r, ws)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var st state
	err = ws.do(func(ed *editor.Editor) error {
		found, err := ed.Load(r.Context(), sl)
		if err != nil {
			return err
		}
		if !found {
			return errors.New(errors.ErrCodeNotFound, "slot %q is empty", sl.Key())
		}
		st = s.snapshotState(ws, ed)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// =============================================================================
// Queries
// =============================================================================

// handleDocument serves the compiled document as YAML (default) or JSON,
// tagged with an ETag derived from the encoded bytes.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	format := pio.FormatYAML
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := pio.ParseFormat(q)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		format = f
	}

	var data []byte
	err := workspaceFrom(r).do(func(ed *editor.Editor) error {
		var err error
		data, err = pio.Encode(ed.Document(), format)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	etag := `"` + slot.Digest(data) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	_, _ = w.Write(data)
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	var positions map[string]block.Position
	_ = workspaceFrom(r).do(func(ed *editor.Editor) error {
		positions = ed.Positions()
		return nil
	})
	writeJSON(w, http.StatusOK, positions)
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "block")
	var cands []needs.Candidate
	err := workspaceFrom(r).do(func(ed *editor.Editor) error {
		var err error
		cands, err = ed.DependencyCandidates(id)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if cands == nil {
		cands = []needs.Candidate{}
	}
	writeJSON(w, http.StatusOK, cands)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var dot string
	_ = workspaceFrom(r).do(func(ed *editor.Editor) error {
		dot = nodelink.ToDOT(ed.Document(), nodelink.Options{
			Detailed:    r.URL.Query().Get("detailed") == "true",
			LeftToRight: r.URL.Query().Get("rankdir") == "LR",
		})
		return nil
	})
	svg, err := nodelink.RenderSVG(dot)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render graph"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	if s.opts.Linter == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "gitlab linting is not configured"))
		return
	}
	var doc *document.Document
	_ = workspaceFrom(r).do(func(ed *editor.Editor) error {
		doc = ed.Document()
		return nil
	})
	res, err := s.opts.Linter.Lint(r.Context(), doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
