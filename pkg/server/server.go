// Package server exposes highlight sessions over HTTP.
//
// Each session is a [pipeline.Workspace] kept in a [session.Registry]. A
// front end shares a computation once and then drives the highlighter with
// small POST requests, fetching the rendered overlay and CSV exports as it
// goes:
//
//	POST   /sessions                       share a computation, returns the ID
//	GET    /sessions/{id}                  highlight state
//	PUT    /sessions/{id}                  share another computation
//	DELETE /sessions/{id}                  reset and forget the session
//	POST   /sessions/{id}/traceback/{index} toggle a traceback path
//	POST   /sessions/{id}/flow             show the flow of a cell
//	POST   /sessions/{id}/rows/{index}     toggle a results row
//	POST   /sessions/{id}/redraw           resize cells and redraw lines
//	GET    /sessions/{id}/overlay.svg      grid and overlay as SVG
//	GET    /sessions/{id}/overlay.png      grid and overlay as PNG
//	GET    /sessions/{id}/scene.json       grid and overlay as JSON
//	GET    /sessions/{id}/graph.svg        traceback graph
//	GET    /sessions/{id}/export/{matrix}  matrix 0, 1 or 2 as CSV
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/export"
	"github.com/matzehuels/tracegrid/pkg/pipeline"
	"github.com/matzehuels/tracegrid/pkg/session"
)

// Default server settings.
const (
	DefaultCleanupInterval = time.Minute
	DefaultMaxBodyBytes    = 8 << 20
	shutdownTimeout        = 10 * time.Second
)

// Server serves highlight sessions.
type Server struct {
	runner   *pipeline.Runner
	sessions *session.Registry[*pipeline.Workspace]
	logger   *log.Logger
	router   chi.Router

	render   pipeline.Options
	codec    align.Codec
	filename string
	ttl      time.Duration
	maxBody  int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSessionTTL sets how long an idle session survives.
func WithSessionTTL(ttl time.Duration) Option { return func(s *Server) { s.ttl = ttl } }

// WithRenderOptions sets the layout and style used for new sessions and
// rendered overlays. Formats and highlights in opts are ignored.
func WithRenderOptions(opts pipeline.Options) Option {
	return func(s *Server) {
		opts.Formats, opts.Traceback, opts.Flow = nil, nil, nil
		s.render = opts
	}
}

// WithExport sets the codec and the download filename of CSV exports.
func WithExport(codec align.Codec, filename string) Option {
	return func(s *Server) {
		s.codec = codec
		if filename != "" {
			s.filename = filename
		}
	}
}

// New creates a server. A nil runner disables artifact caching.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:   runner,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		codec:    align.DefaultCodec,
		filename: export.DefaultFilename,
		maxBody:  DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	s.sessions = session.NewRegistry[*pipeline.Workspace](s.ttl)
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions is the number of live sessions.
func (s *Server) Sessions() int { return s.sessions.Len() }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handleShare)
			r.Delete("/", s.handleDelete)
			r.Post("/traceback/{index}", s.handleTraceback)
			r.Post("/flow", s.handleFlow)
			r.Post("/rows/{index}", s.handleRow)
			r.Post("/redraw", s.handleRedraw)
			r.Get("/overlay.svg", s.handleOverlay(pipeline.FormatSVG, "image/svg+xml"))
			r.Get("/overlay.png", s.handleOverlay(pipeline.FormatPNG, "image/png"))
			r.Get("/scene.json", s.handleOverlay(pipeline.FormatJSON, "application/json"))
			r.Get("/graph.svg", s.handleGraph)
			r.Get("/export/{matrix}", s.handleExport)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Idle sessions are swept while the server runs.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweep(ctx, DefaultCleanupInterval)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down", "sessions", s.sessions.Len())
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) sweep(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.sessions.Cleanup(); n > 0 {
				s.logger.Debug("expired sessions", "count", n)
			}
		}
	}
}
