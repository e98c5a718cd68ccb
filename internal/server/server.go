// Package server exposes editing sessions over HTTP and WebSocket.
//
// Each workspace owns one [editor.Editor]. Events for a workspace are
// applied one at a time under the workspace lock; after every committed
// mutation the new document, positions and warnings are pushed to the
// workspace's WebSocket subscribers.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pipecanvas/internal/config"
	"github.com/matzehuels/pipecanvas/pkg/block"
	"github.com/matzehuels/pipecanvas/pkg/editor"
	"github.com/matzehuels/pipecanvas/pkg/integrations/gitlab"
	"github.com/matzehuels/pipecanvas/pkg/layout"
	"github.com/matzehuels/pipecanvas/pkg/slot"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	maxBodyBytes           = 1 << 20
)

// Options configures a server.
type Options struct {
	Addr            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration

	// Catalog, Mode and AutoSnap seed every new workspace's editor.
	Catalog  *block.Catalog
	Mode     layout.Mode
	AutoSnap bool

	// BlockSize is assumed for drop events that carry no size.
	BlockSize layout.Size

	// Backend stores workspace snapshots; nil disables save and load.
	Backend slot.Backend

	// Linter validates documents against GitLab; nil disables linting.
	Linter *gitlab.Linter
}

// OptionsFromConfig maps the loaded configuration onto server options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Addr:            cfg.Server.Addr,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Mode:            cfg.Mode(),
		AutoSnap:        cfg.Editor.AutoSnap,
		BlockSize:       cfg.BlockSize(),
	}
}

// Server serves the workspace API.
type Server struct {
	opts       Options
	logger     *log.Logger
	workspaces *workspaces
	upgrader   websocket.Upgrader
	router     chi.Router
}

// New creates a server. A nil logger uses log.Default().
func New(opts Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	s := &Server{
		opts:       opts,
		logger:     logger,
		workspaces: newWorkspaces(),
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.allowOrigin}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.cors)

	r.Post("/generate-yaml", s.handleGenerateYAML)

	r.Route("/api/workspaces", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.withWorkspace)
			r.Get("/", s.handleState)
			r.Delete("/", s.handleClose)

			r.Post("/drop", s.handleDrop)
			r.Post("/move", s.handleMove)
			r.Post("/snap", s.handleSnap)
			r.Post("/toggle", s.handleToggle)
			r.Post("/import", s.handleImport)
			r.Post("/save", s.handleSave)
			r.Post("/load", s.handleLoad)
			r.Post("/lint", s.handleLint)

			r.Patch("/blocks/{block}", s.handleEdit)
			r.Delete("/blocks/{block}", s.handleDelete)
			r.Get("/blocks/{block}/candidates", s.handleCandidates)

			r.Get("/document", s.handleDocument)
			r.Get("/positions", s.handlePositions)
			r.Get("/graph.svg", s.handleGraph)
			r.Get("/ws", s.handleWebSocket)
		})
	})
	return r
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		s.workspaces.closeAll()
		s.logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) newEditor() *editor.Editor {
	return editor.New(editor.Options{
		Catalog:  s.opts.Catalog,
		Mode:     s.opts.Mode,
		AutoSnap: s.opts.AutoSnap,
	})
}
