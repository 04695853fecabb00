// Package overlay owns the drawing surface layered over the grid.
//
// There is exactly one [Canvas] per view. Long-distance lines are added and
// removed by ID; the highlighter keeps the IDs it created so that the set of
// tracked lines always equals the set of visible ones. Every [Canvas.Add]
// first resizes the surface to the current document size.
package overlay

import (
	"slices"

	"github.com/matzehuels/tracegrid/pkg/geometry"
)

// Kind distinguishes traceback lines from flow lines. Each kind has its own
// colour and end marker.
type Kind int

const (
	Traceback Kind = iota
	Flow
)

func (k Kind) String() string {
	if k == Flow {
		return "flow"
	}
	return "traceback"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// LineID identifies a line on a canvas.
type LineID int

// Line is one arrow on the overlay.
type Line struct {
	ID   LineID `json:"id"`
	Kind Kind   `json:"kind"`
	geometry.Segment
}

// SizeFunc reports the current document size.
type SizeFunc func() (w, h float64)

// Canvas is the overlay surface.
type Canvas struct {
	size          SizeFunc
	width, height float64
	lines         []Line
	next          LineID
}

// New creates a canvas sized by size. A nil size keeps the surface at 0x0.
func New(size SizeFunc) *Canvas {
	return &Canvas{size: size, next: 1}
}

// SetSizeFunc replaces the document size source, e.g. after the grid was rebuilt.
func (c *Canvas) SetSizeFunc(size SizeFunc) { c.size = size }

// Add draws a line and returns its ID.
func (c *Canvas) Add(kind Kind, seg geometry.Segment) LineID {
	c.fit()
	id := c.next
	c.next++
	c.lines = append(c.lines, Line{ID: id, Kind: kind, Segment: seg})
	return id
}

// Remove deletes a line. Unknown IDs are ignored.
func (c *Canvas) Remove(id LineID) bool {
	n := len(c.lines)
	c.lines = slices.DeleteFunc(c.lines, func(l Line) bool { return l.ID == id })
	return len(c.lines) != n
}

// Clear removes every line.
func (c *Canvas) Clear() { c.lines = c.lines[:0] }

// Lines returns a copy of the visible lines in drawing order.
func (c *Canvas) Lines() []Line { return slices.Clone(c.lines) }

// Len is the number of visible lines.
func (c *Canvas) Len() int { return len(c.lines) }

// Contains reports whether a line is visible.
func (c *Canvas) Contains(id LineID) bool {
	return slices.ContainsFunc(c.lines, func(l Line) bool { return l.ID == id })
}

// Size returns the surface size as of the last draw.
func (c *Canvas) Size() (w, h float64) { return c.width, c.height }

func (c *Canvas) fit() {
	if c.size != nil {
		c.width, c.height = c.size()
	}
}
