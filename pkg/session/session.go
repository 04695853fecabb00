// Package session holds the state shared between a highlighter and its front
// end.
//
// A [State] is the explicit replacement for a process-wide singleton: the
// current algorithm collaborator, the computation it produced, the path and
// flow set currently shown, the selected results row and the IDs of every
// long line on the overlay. Each view owns one State; a [Registry] keeps
// several independent states for the HTTP server.
//
// # Usage
//
//	st := session.New()
//	st.Share(comp.TraceTable(), comp.Input, comp.Output)
//	// ... hand st to a highlight.Highlighter
package session

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/overlay"
)

// NoIndex marks a hidden path or an unselected row.
const NoIndex = -1

// State is the bundle shared by one view.
type State struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Algorithm align.Algorithm `json:"-"`
	Input     align.Input     `json:"input"`
	Output    align.Output    `json:"output"`

	// LastPath is the shown traceback path in origin-first order, nil when hidden.
	LastPath      align.Path `json:"last_path,omitempty"`
	LastPathIndex int        `json:"last_path_index"`
	// LastFlows is the shown flow set in origin-first order; index = tier.
	LastFlows align.FlowSet `json:"last_flows,omitempty"`
	LastRow   int           `json:"last_row"`

	// Lines mirrors the long lines currently on the overlay.
	Lines []overlay.LineID `json:"lines,omitempty"`
}

// New creates an empty state with a fresh ID.
func New() *State {
	s := &State{ID: uuid.NewString(), CreatedAt: time.Now()}
	s.Clear()
	return s
}

// Share replaces the bundle wholesale. Anything shown before is forgotten, so
// the caller must reset its overlay first.
func (s *State) Share(alg align.Algorithm, in align.Input, out align.Output) {
	s.Clear()
	s.Algorithm = alg
	s.Input = in
	s.Output = out
}

// ShareComputation shares a decoded computation bundle.
func (s *State) ShareComputation(c *align.Computation) {
	s.Share(c.TraceTable(), c.Input, c.Output)
}

// Clear resets the bundle to empty. The ID is kept.
func (s *State) Clear() {
	s.Algorithm = nil
	s.Input = align.Input{}
	s.Output = align.Output{}
	s.LastPath = nil
	s.LastPathIndex = NoIndex
	s.LastFlows = nil
	s.LastRow = NoIndex
	s.Lines = nil
}

// PathShown reports whether a traceback path is highlighted.
func (s *State) PathShown() bool { return s.LastPath != nil }

// FlowsShown reports whether a flow set is highlighted.
func (s *State) FlowsShown() bool { return len(s.LastFlows) > 0 }

// TracebackPath returns path index from the shared output, in traceback order.
func (s *State) TracebackPath(index int) (align.Path, bool) {
	if index < 0 || index >= len(s.Output.TracebackPaths) {
		return nil, false
	}
	return s.Output.TracebackPaths[index], true
}

// Track records a line drawn on the overlay.
func (s *State) Track(id overlay.LineID) { s.Lines = append(s.Lines, id) }

// Untrack forgets every tracked line.
func (s *State) Untrack() { s.Lines = nil }

// Tracking returns a copy of the tracked line IDs.
func (s *State) Tracking() []overlay.LineID { return slices.Clone(s.Lines) }
