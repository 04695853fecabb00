package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/errors"
	"github.com/matzehuels/tracegrid/pkg/export"
	"github.com/matzehuels/tracegrid/pkg/highlight"
	"github.com/matzehuels/tracegrid/pkg/observability"
	"github.com/matzehuels/tracegrid/pkg/pipeline"
)

// sessionResponse describes a session after every state-changing request.
type sessionResponse struct {
	ID        string             `json:"id"`
	Algorithm string             `json:"algorithm,omitempty"`
	Paths     int                `json:"paths"`
	Highlight highlight.Snapshot `json:"highlight"`
}

type toggleResponse struct {
	sessionResponse
	Shown bool `json:"shown"`
}

type flowResponse struct {
	sessionResponse
	Flows int `json:"flows"`
}

type redrawRequest struct {
	CellWidth  float64 `json:"cell_width"`
	CellHeight float64 `json:"cell_height"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	comp, err := s.readComputation(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ws, err := pipeline.NewWorkspace(comp, s.workspaceOptions())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.sessions.Put(ws.ID(), ws)
	s.logger.Debug("session created", "id", ws.ID(), "algorithm", comp.Algorithm)
	writeJSON(w, http.StatusCreated, describe(ws))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, describe(ws))
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	comp, err := s.readComputation(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := ws.Share(comp); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, describe(ws))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	ws.Reset()
	s.sessions.Delete(ws.ID())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTraceback(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	index, err := intParam(r, "index")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	shown, err := ws.ShowTraceback(index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{sessionResponse: describe(ws), Shown: shown})
}

func (s *Server) handleFlow(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	var cell align.Cell
	if err := s.decode(w, r, &cell); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := ws.ShowFlow(cell)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, flowResponse{sessionResponse: describe(ws), Flows: n})
}

func (s *Server) handleRow(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	index, err := intParam(r, "index")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	selected, err := ws.HighlightRow(index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{sessionResponse: describe(ws), Shown: selected})
}

func (s *Server) handleRedraw(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	var req redrawRequest
	if r.ContentLength != 0 {
		if err := s.decode(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.CellWidth < 0 || req.CellHeight < 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "cell size must not be negative"))
		return
	}
	ws.Resize(req.CellWidth, req.CellHeight)
	writeJSON(w, http.StatusOK, describe(ws))
}

func (s *Server) handleOverlay(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := s.workspace(w, r)
		if !ok {
			return
		}
		opts := s.workspaceOptions()
		opts.Formats = []string{format}
		if err := opts.ValidateAndSetDefaults(); err != nil {
			s.writeError(w, r, err)
			return
		}
		artifacts, err := pipeline.RenderScene(ws.Scene(), opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(artifacts[format])
	}
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	comp := ws.Computation()
	if comp == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "session has no computation"))
		return
	}
	res, err := s.runner.Execute(r.Context(), comp, pipeline.Options{Formats: []string{pipeline.FormatGraphSVG}})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(res.Artifacts[pipeline.FormatGraphSVG])
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	n, err := intParam(r, "matrix")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	comp := ws.Computation()
	if comp == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "session has no computation"))
		return
	}

	codec := s.codec
	if v := r.URL.Query().Get("swap"); v != "" {
		swap, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid swap flag %q", v))
			return
		}
		codec.SwapSigns = swap
	}

	data, _, err := s.runner.Export(r.Context(), comp, n, codec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", export.MIMEType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.filename))
	_, _ = w.Write(data)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) workspaceOptions() pipeline.Options {
	opts := s.render
	opts.Logger = s.logger
	return opts
}

func (s *Server) workspace(w http.ResponseWriter, r *http.Request) (*pipeline.Workspace, bool) {
	ws, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return ws, true
}

func (s *Server) readComputation(w http.ResponseWriter, r *http.Request) (*align.Computation, error) {
	return align.ReadComputation(http.MaxBytesReader(w, r.Body, s.maxBody))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func describe(ws *pipeline.Workspace) sessionResponse {
	resp := sessionResponse{ID: ws.ID(), Highlight: ws.Highlighter.Snapshot()}
	if comp := ws.Computation(); comp != nil {
		resp.Algorithm = comp.Algorithm
		resp.Paths = len(comp.Output.TracebackPaths)
	}
	return resp
}

func intParam(r *http.Request, name string) (int, error) {
	v := chi.URLParam(r, name)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", name, v)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

// observe logs every request and reports it to the server hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		d := time.Since(start)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", d)
		observability.Server().OnRequest(r.Context(), r.Method, route, status, d)
	})
}
