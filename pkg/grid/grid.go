// Package grid is the rendered-table collaborator of the highlighter.
//
// The highlighter never walks a document tree. It asks a [Table] for the
// cell at (matrix, display row, display column) and receives a [Cell] handle
// that already knows which matrix it belongs to. Row and column 0 of every
// table are the sequence headers.
//
// [Layout] is an in-memory implementation used by the renderers, the TUI and
// the HTTP server. It places the three matrices side by side and keeps each
// cell's classes and glyphs.
package grid

import (
	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/geometry"
)

// Glyph is a short directional arrow attached to a cell.
type Glyph int

const (
	GlyphDiagonal Glyph = iota
	GlyphUp
	GlyphLeft
)

func (g Glyph) String() string {
	switch g {
	case GlyphDiagonal:
		return "diagonal"
	case GlyphUp:
		return "up"
	case GlyphLeft:
		return "left"
	}
	return "unknown"
}

// MarshalText encodes the glyph by name.
func (g Glyph) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

// Arrow returns the glyph character drawn by the text and image sinks.
func (g Glyph) Arrow() string {
	switch g {
	case GlyphDiagonal:
		return "↖"
	case GlyphUp:
		return "↑"
	case GlyphLeft:
		return "←"
	}
	return "?"
}

// Cell is an opaque handle to one rendered table cell.
type Cell interface {
	// Matrix is the matrix the cell was created for.
	Matrix() align.Matrix

	AddClass(class string)
	RemoveClass(class string)
	HasClass(class string) bool
	// Classes returns the cell's classes in insertion order.
	Classes() []string

	HasGlyph(g Glyph) bool
	AttachGlyph(g Glyph)
	DetachGlyphs()
	// Glyphs returns the attached glyphs in attachment order.
	Glyphs() []Glyph

	// Bounds is the pixel box of the cell relative to the document.
	Bounds() geometry.Rect
}

// Table looks up rendered cells. ok is false when the cell does not exist in
// the currently rendered grid, e.g. after the input shrank.
type Table interface {
	Cell(m align.Matrix, row, col int) (c Cell, ok bool)
}

// Rows is a results list whose rows can be styled.
type Rows interface {
	// Row returns the first cell of a results row.
	Row(index int) (c Cell, ok bool)
}

// Lookup resolves an alignment cell, applying the header offset.
func Lookup(t Table, c align.Cell) (Cell, bool) {
	return t.Cell(c.Matrix, c.DisplayRow(), c.DisplayCol())
}
