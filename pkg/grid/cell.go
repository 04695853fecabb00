package grid

import (
	"slices"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/geometry"
)

// MemCell is the in-memory [Cell] used by [Layout].
type MemCell struct {
	matrix   align.Matrix
	row, col int
	label    string
	classes  []string
	glyphs   []Glyph
	layout   *Layout
}

// Matrix returns the matrix the cell belongs to.
func (c *MemCell) Matrix() align.Matrix { return c.matrix }

// Position returns the display row and column.
func (c *MemCell) Position() (row, col int) { return c.row, c.col }

// Label is the text shown in the cell.
func (c *MemCell) Label() string { return c.label }

func (c *MemCell) AddClass(class string) {
	if !slices.Contains(c.classes, class) {
		c.classes = append(c.classes, class)
	}
}

func (c *MemCell) RemoveClass(class string) {
	c.classes = slices.DeleteFunc(c.classes, func(s string) bool { return s == class })
}

func (c *MemCell) HasClass(class string) bool { return slices.Contains(c.classes, class) }

func (c *MemCell) Classes() []string { return slices.Clone(c.classes) }

func (c *MemCell) HasGlyph(g Glyph) bool { return slices.Contains(c.glyphs, g) }

// AttachGlyph adds a glyph. Attaching one that is already present is a no-op.
func (c *MemCell) AttachGlyph(g Glyph) {
	if !c.HasGlyph(g) {
		c.glyphs = append(c.glyphs, g)
	}
}

func (c *MemCell) DetachGlyphs() { c.glyphs = nil }

func (c *MemCell) Glyphs() []Glyph { return slices.Clone(c.glyphs) }

// Bounds is computed from the layout's current cell size, so it follows resizes.
func (c *MemCell) Bounds() geometry.Rect {
	return c.layout.bounds(c.matrix, c.row, c.col)
}

var _ Cell = (*MemCell)(nil)
