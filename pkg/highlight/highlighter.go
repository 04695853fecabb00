package highlight

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/errors"
	"github.com/matzehuels/tracegrid/pkg/geometry"
	"github.com/matzehuels/tracegrid/pkg/grid"
	"github.com/matzehuels/tracegrid/pkg/observability"
	"github.com/matzehuels/tracegrid/pkg/overlay"
	"github.com/matzehuels/tracegrid/pkg/session"
)

// Highlighter drives the traceback and flow highlights of one view.
type Highlighter struct {
	mu        sync.Mutex
	state     *session.State
	table     grid.Table
	canvas    *overlay.Canvas
	marker    Marker
	fractions geometry.Fractions
	logger    *log.Logger

	// rows is the results list of the last HighlightRow call.
	rows grid.Rows
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithFractions sets the line anchor fractions.
func WithFractions(f geometry.Fractions) Option {
	return func(h *Highlighter) { h.fractions = f }
}

// WithLogger sets the logger. Toggles, redraws and stale cells are logged at
// debug level.
func WithLogger(l *log.Logger) Option {
	return func(h *Highlighter) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a highlighter over a session state, a rendered table and an
// overlay canvas.
func New(state *session.State, table grid.Table, canvas *overlay.Canvas, opts ...Option) *Highlighter {
	h := &Highlighter{
		state:     state,
		table:     table,
		canvas:    canvas,
		fractions: geometry.DefaultFractions(),
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// State returns the session state. Callers must not mutate it while
// highlighter operations may run concurrently.
func (h *Highlighter) State() *session.State { return h.state }

// Share hides everything currently shown and replaces the session bundle.
func (h *Highlighter) Share(alg align.Algorithm, in align.Input, out align.Output) {
	h.ShareWith(alg, in, out, nil)
}

// ShareWith is [Highlighter.Share] followed by reshape under the same lock.
// Callers rebuild the grid in reshape so that no operation sees the new
// bundle on the old grid.
func (h *Highlighter) ShareWith(alg align.Algorithm, in align.Input, out align.Output, reshape func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reset()
	h.state.Share(alg, in, out)
	if reshape != nil {
		reshape()
	}
}

// ShowTraceback toggles the traceback path at index. It reports whether the
// path is shown afterwards.
func (h *Highlighter) ShowTraceback(index int) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	path, ok := h.state.TracebackPath(index)
	if !ok {
		return false, errors.New(errors.ErrCodeNotFound, "traceback path %d not found (%d paths)",
			index, len(h.state.Output.TracebackPaths))
	}

	if h.state.PathShown() && h.state.LastPathIndex == index && h.originSelected() {
		h.hidePath()
		h.logger.Debug("traceback hidden", "index", index)
		observability.Highlight().OnShow("traceback", index, 0)
		return false, nil
	}

	if h.state.PathShown() {
		h.hidePath()
	}
	if path.Empty() {
		return false, nil
	}

	p := path.Reversed()
	h.state.LastPath = p
	h.state.LastPathIndex = index
	h.markPath(p, None, overlay.Traceback)

	h.logger.Debug("traceback shown", "index", index, "cells", len(p), "lines", len(h.state.Lines))
	observability.Highlight().OnShow("traceback", index, len(p))
	return true, nil
}

// ShowFlow replaces the shown flow set with the one-step predecessor paths of
// origin. It returns the number of flow paths shown.
func (h *Highlighter) ShowFlow(origin align.Cell) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state.Algorithm == nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "no computation shared")
	}
	traces := h.state.Algorithm.Traces([]align.Cell{origin}, h.state.Input, h.state.Output, 1)

	if h.state.FlowsShown() {
		h.hideFlows()
	}

	flows := make(align.FlowSet, 0, len(traces))
	for _, t := range traces {
		if !t.Empty() {
			flows = append(flows, t.Reversed())
		}
	}
	if len(flows) == 0 {
		h.state.LastFlows = nil
		return 0, nil
	}
	h.state.LastFlows = flows
	h.markFlows()

	h.logger.Debug("flow shown", "origin", origin, "paths", len(flows), "lines", len(h.state.Lines))
	observability.Highlight().OnShow("flow", 0, len(flows))
	return len(flows), nil
}

// Redraw rebuilds every long line from the shown path and flow set, e.g.
// after the cell size changed. Cell styles are left alone and glyphs are
// only placed where missing.
func (h *Highlighter) Redraw() {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := time.Now()
	h.clearLines()
	if h.state.PathShown() {
		h.drawArrows(h.state.LastPath, overlay.Traceback)
	}
	for _, f := range h.state.LastFlows {
		h.drawArrows(f, overlay.Flow)
	}

	h.logger.Debug("overlay redrawn", "lines", len(h.state.Lines))
	observability.Highlight().OnRedraw(len(h.state.Lines), time.Since(start))
}

// Reset hides both highlight kinds, deselects the results row and clears
// the session bundle.
func (h *Highlighter) Reset() {
	h.ResetWith(nil)
}

// ResetWith is [Highlighter.Reset] followed by reshape under the same lock.
func (h *Highlighter) ResetWith(reshape func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reset()
	h.state.Clear()
	if reshape != nil {
		reshape()
	}
}

// HighlightRow toggles the selected style on a results row. At most one row
// is selected; selecting another row moves the style. It reports whether the
// row is selected afterwards.
func (h *Highlighter) HighlightRow(index int, rows grid.Rows) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	row, ok := rows.Row(index)
	if !ok {
		return false, errors.New(errors.ErrCodeNotFound, "results row %d not found", index)
	}

	if h.state.LastRow == index && h.rows == rows && row.HasClass(ClassSelected) {
		row.RemoveClass(ClassSelected)
		h.state.LastRow = session.NoIndex
		return false, nil
	}

	h.deselectRow()
	row.AddClass(ClassSelected)
	h.state.LastRow = index
	h.rows = rows
	return true, nil
}

// Snapshot is a read-only summary of the highlight state.
type Snapshot struct {
	PathIndex int            `json:"path_index"`
	PathCells int            `json:"path_cells"`
	Flows     int            `json:"flows"`
	Row       int            `json:"row"`
	Lines     []overlay.Line `json:"lines"`
}

// PathShown reports whether a traceback path is highlighted.
func (s Snapshot) PathShown() bool { return s.PathIndex != session.NoIndex }

// Snapshot returns the current highlight state.
func (h *Highlighter) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Snapshot{
		PathIndex: h.state.LastPathIndex,
		PathCells: len(h.state.LastPath),
		Flows:     len(h.state.LastFlows),
		Row:       h.state.LastRow,
		Lines:     h.canvas.Lines(),
	}
}

// Lock runs fn while holding the highlighter's lock, so renderers observe a
// consistent grid and overlay.
func (h *Highlighter) Lock(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn()
}

func (h *Highlighter) reset() {
	if h.state.PathShown() {
		h.demark(h.state.LastPath, None)
	}
	for i, f := range h.state.LastFlows {
		h.demark(f, Tier(i))
	}
	h.state.LastPath = nil
	h.state.LastPathIndex = session.NoIndex
	h.state.LastFlows = nil
	h.clearLines()
	h.deselectRow()
}

// originSelected reports whether the origin of the shown path, looked up in
// the default matrix, still carries the selected style.
func (h *Highlighter) originSelected() bool {
	origin, ok := h.state.LastPath.Origin()
	if !ok {
		return false
	}
	origin.Matrix = align.Default
	cell, ok := grid.Lookup(h.table, origin)
	return ok && cell.HasClass(ClassSelected)
}

// hidePath demarks the shown path, then restores the flow set whose terminal
// style and glyphs may have been shared with it.
func (h *Highlighter) hidePath() {
	h.demark(h.state.LastPath, None)
	h.state.LastPath = nil
	h.state.LastPathIndex = session.NoIndex
	h.clearLines()
	h.markFlows()
}

// hideFlows demarks every shown flow by its tier, then restores the path.
func (h *Highlighter) hideFlows() {
	for i, f := range h.state.LastFlows {
		h.demark(f, Tier(i))
	}
	h.state.LastFlows = nil
	h.clearLines()
	if h.state.PathShown() {
		h.markPath(h.state.LastPath, None, overlay.Traceback)
	}
}

func (h *Highlighter) markFlows() {
	for i, f := range h.state.LastFlows {
		h.markPath(f, Tier(i), overlay.Flow)
	}
}

func (h *Highlighter) markPath(p align.Path, c ColorClass, kind overlay.Kind) {
	last := len(p) - 1
	for i, ac := range p {
		if cell, ok := h.lookup(ac); ok {
			h.marker.Mark(cell, c, i == last)
		}
	}
	h.drawArrows(p, kind)
}

func (h *Highlighter) demark(p align.Path, c ColorClass) {
	for _, ac := range p {
		if cell, ok := h.lookup(ac); ok {
			h.marker.Demark(cell, c)
			h.marker.ClearArrows(cell)
		}
	}
}

// drawArrows walks p in order and connects every consecutive pair.
func (h *Highlighter) drawArrows(p align.Path, kind overlay.Kind) {
	for i := 1; i < len(p); i++ {
		h.drawArrow(p[i-1], p[i], kind)
	}
}

func (h *Highlighter) drawArrow(from, to align.Cell, kind overlay.Kind) {
	move := geometry.Classify(from, to)
	switch {
	case move.IsShort():
		cell, ok := h.lookup(to)
		if !ok {
			return
		}
		h.marker.PlaceShortArrow(cell, glyphFor(move))
	case move.IsLong():
		toCell, ok := h.lookup(to)
		if !ok {
			return
		}
		fromCell, ok := h.lookup(from)
		if !ok {
			return
		}
		seg, ok := geometry.Anchors(move, toCell.Bounds(), fromCell.Bounds(), h.fractions)
		if !ok {
			return
		}
		h.state.Track(h.canvas.Add(kind, seg))
	}
}

// clearLines removes every tracked line from the canvas.
func (h *Highlighter) clearLines() {
	for _, id := range h.state.Lines {
		h.canvas.Remove(id)
	}
	h.state.Untrack()
}

func (h *Highlighter) deselectRow() {
	if h.rows == nil || h.state.LastRow == session.NoIndex {
		return
	}
	if row, ok := h.rows.Row(h.state.LastRow); ok {
		row.RemoveClass(ClassSelected)
	}
	h.state.LastRow = session.NoIndex
}

func (h *Highlighter) lookup(c align.Cell) (grid.Cell, bool) {
	cell, ok := grid.Lookup(h.table, c)
	if !ok {
		err := errors.New(errors.ErrCodeStaleCell, "cell %s is not in the rendered grid", c)
		h.logger.Debug("skipping cell", "cell", c, "code", errors.GetCode(err), "err", err)
		observability.Highlight().OnStaleCell(c)
	}
	return cell, ok
}

func glyphFor(m geometry.Move) grid.Glyph {
	switch m {
	case geometry.StepUp:
		return grid.GlyphUp
	case geometry.StepLeft:
		return grid.GlyphLeft
	}
	return grid.GlyphDiagonal
}
