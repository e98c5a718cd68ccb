package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/pipecanvas/pkg/editor"
	"github.com/matzehuels/pipecanvas/pkg/errors"
)

// workspace is one editing session. mu serializes all access to ed.
type workspace struct {
	id string

	mu     sync.Mutex
	ed     *editor.Editor
	cancel func()

	subsMu sync.Mutex
	subs   map[*subscriber]struct{}
}

func newWorkspace(ed *editor.Editor) *workspace {
	w := &workspace{
		id:   uuid.NewString(),
		ed:   ed,
		subs: make(map[*subscriber]struct{}),
	}
	w.cancel = ed.OnChange(w.broadcast)
	return w
}

// do runs fn with exclusive access to the editor.
func (w *workspace) do(fn func(ed *editor.Editor) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn(w.ed)
}

func (w *workspace) slotKey() string { return "workspace/" + w.id }

type workspaces struct {
	mu sync.RWMutex
	m  map[string]*workspace
}

func newWorkspaces() *workspaces {
	return &workspaces{m: make(map[string]*workspace)}
}

func (ws *workspaces) add(w *workspace) {
	ws.mu.Lock()
	ws.m[w.id] = w
	ws.mu.Unlock()
}

func (ws *workspaces) get(id string) (*workspace, bool) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	w, ok := ws.m[id]
	return w, ok
}

func (ws *workspaces) remove(id string) (*workspace, bool) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	w, ok := ws.m[id]
	delete(ws.m, id)
	return w, ok
}

func (ws *workspaces) closeAll() {
	ws.mu.Lock()
	all := ws.m
	ws.m = make(map[string]*workspace)
	ws.mu.Unlock()
	for _, w := range all {
		w.close()
	}
}

func (w *workspace) close() {
	w.cancel()
	w.subsMu.Lock()
	defer w.subsMu.Unlock()
	for sub := range w.subs {
		sub.close()
		delete(w.subs, sub)
	}
}

type ctxKey int

const workspaceKey ctxKey = 0

func (s *Server) withWorkspace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		ws, ok := s.workspaces.get(id)
		if !ok {
			s.writeError(w, r, errors.New(errors.ErrCodeWorkspaceNotFound, "workspace %q not found", id))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), workspaceKey, ws)))
	})
}

func workspaceFrom(r *http.Request) *workspace {
	return r.Context().Value(workspaceKey).(*workspace)
}
