package pipeline

import (
	"sync"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/errors"
	"github.com/matzehuels/tracegrid/pkg/grid"
	"github.com/matzehuels/tracegrid/pkg/highlight"
	"github.com/matzehuels/tracegrid/pkg/overlay"
	"github.com/matzehuels/tracegrid/pkg/render/sink"
	"github.com/matzehuels/tracegrid/pkg/session"
)

// Workspace is one interactive view of a computation. All methods are safe
// for concurrent use.
type Workspace struct {
	mu   sync.RWMutex
	comp *align.Computation
	rows *grid.ResultRows

	Layout      *grid.Layout
	Canvas      *overlay.Canvas
	State       *session.State
	Highlighter *highlight.Highlighter
}

// NewWorkspace lays out comp and shares it with a fresh session state.
func NewWorkspace(comp *align.Computation, opts Options) (*Workspace, error) {
	if comp == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no computation")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := comp.Validate(); err != nil {
		return nil, err
	}

	layout := grid.NewLayout(comp.Input, comp.Output, opts.LayoutOptions()...)
	canvas := overlay.New(layout.DocumentSize)
	state := session.New()
	w := &Workspace{
		comp:   comp,
		rows:   grid.RowsForPaths(comp.Output.TracebackPaths),
		Layout: layout,
		Canvas: canvas,
		State:  state,
		Highlighter: highlight.New(state, layout, canvas,
			highlight.WithFractions(opts.Fractions),
			highlight.WithLogger(opts.Logger)),
	}
	state.ShareComputation(comp)
	return w, nil
}

// ID is the session ID of the workspace.
func (w *Workspace) ID() string { return w.State.ID }

// Computation returns the shared computation, nil after [Workspace.Reset].
func (w *Workspace) Computation() *align.Computation {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.comp
}

// Rows returns the results list, one row per traceback path.
func (w *Workspace) Rows() *grid.ResultRows {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.rows
}

// Share hides every highlight and replaces the computation. Cells that exist
// in both shapes are reused.
func (w *Workspace) Share(comp *align.Computation) error {
	if err := comp.Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	w.Highlighter.ShareWith(comp.TraceTable(), comp.Input, comp.Output, func() {
		w.Layout.Reshape(comp.Input, comp.Output)
	})
	w.comp = comp
	w.rows = grid.RowsForPaths(comp.Output.TracebackPaths)
	return nil
}

// Apply shows the traceback path and flow named by opts, in that order.
func (w *Workspace) Apply(opts Options) error {
	if opts.Traceback != nil {
		if _, err := w.Highlighter.ShowTraceback(*opts.Traceback); err != nil {
			return err
		}
	}
	if opts.Flow != nil {
		if _, err := w.Highlighter.ShowFlow(*opts.Flow); err != nil {
			return err
		}
	}
	return nil
}

// ShowTraceback toggles a traceback path and selects its results row with it.
func (w *Workspace) ShowTraceback(index int) (bool, error) {
	shown, err := w.Highlighter.ShowTraceback(index)
	if err != nil {
		return false, err
	}
	if rows := w.Rows(); rows != nil && index < rows.Len() {
		row, _ := rows.Row(index)
		if row.HasClass(highlight.ClassSelected) != shown {
			if _, err := w.Highlighter.HighlightRow(index, rows); err != nil {
				return shown, err
			}
		}
	}
	return shown, nil
}

// ShowFlow shows the one-step predecessors of a cell.
func (w *Workspace) ShowFlow(c align.Cell) (int, error) {
	return w.Highlighter.ShowFlow(c)
}

// HighlightRow toggles a results row.
func (w *Workspace) HighlightRow(index int) (bool, error) {
	return w.Highlighter.HighlightRow(index, w.Rows())
}

// Resize changes the cell size and rebuilds the overlay lines.
func (w *Workspace) Resize(cellWidth, cellHeight float64) {
	w.Highlighter.Lock(func() { w.Layout.Resize(cellWidth, cellHeight) })
	w.Highlighter.Redraw()
}

// Reset hides every highlight and forgets the computation. The grid is
// emptied to the header cells.
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Highlighter.ResetWith(func() { w.Layout.Reshape(align.Input{}, align.Output{}) })
	w.comp = nil
	w.rows = grid.NewResultRows(nil)
}

// Scene captures the grid and overlay for rendering.
func (w *Workspace) Scene() sink.Scene {
	var s sink.Scene
	w.Highlighter.Lock(func() { s = sink.BuildScene(w.Layout, w.Canvas) })
	return s
}
