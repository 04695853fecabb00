package grid

import (
	"slices"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/geometry"
)

// Default layout metrics in pixels.
const (
	DefaultCellWidth  = 56.0
	DefaultCellHeight = 32.0
	DefaultTableGap   = 48.0
	DefaultMargin     = 16.0
)

// Layout places the tables of one computation side by side in display order
// (vertical, default, horizontal). Gap tables are only present for affine runs.
type Layout struct {
	cellW, cellH float64
	gap, margin  float64

	matrices []align.Matrix
	rows     int // display rows including the header
	cols     int // display columns including the header
	tables   map[align.Matrix][][]*MemCell
}

// Option configures a [Layout].
type Option func(*Layout)

// WithCellSize sets the cell size in pixels.
func WithCellSize(w, h float64) Option { return func(l *Layout) { l.cellW, l.cellH = w, h } }

// WithTableGap sets the horizontal distance between two tables.
func WithTableGap(gap float64) Option { return func(l *Layout) { l.gap = gap } }

// WithMargin sets the document margin around all tables.
func WithMargin(m float64) Option { return func(l *Layout) { l.margin = m } }

// NewLayout builds the tables for a computation.
func NewLayout(in align.Input, out align.Output, opts ...Option) *Layout {
	l := &Layout{
		cellW:  DefaultCellWidth,
		cellH:  DefaultCellHeight,
		gap:    DefaultTableGap,
		margin: DefaultMargin,
		tables: make(map[align.Matrix][][]*MemCell),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.Reshape(in, out)
	return l
}

// Reshape rebuilds the tables for a new input and output. Cells that still
// exist keep their classes and glyphs; cells outside the new shape vanish.
func (l *Layout) Reshape(in align.Input, out align.Output) {
	l.matrices = l.matrices[:0]
	for _, m := range align.Matrices {
		if r, _ := out.Dims(m); r > 0 || m == align.Default {
			l.matrices = append(l.matrices, m)
		}
	}
	for m := range l.tables {
		if !slices.Contains(l.matrices, m) {
			delete(l.tables, m)
		}
	}

	a, b := []rune(in.SequenceA), []rune(in.SequenceB)
	l.rows, l.cols = len(b)+2, len(a)+2
	symbols := map[align.Matrix]align.Symbols{
		align.Default:    align.LabelCodec.Symbolic(out.Matrix),
		align.Vertical:   out.VerticalGaps,
		align.Horizontal: out.HorizontalGaps,
	}

	for _, m := range l.matrices {
		old := l.tables[m]
		table := make([][]*MemCell, l.rows)
		for r := range table {
			table[r] = make([]*MemCell, l.cols)
			for c := range table[r] {
				cell := l.reuse(old, r, c)
				if cell == nil {
					cell = &MemCell{matrix: m, row: r, col: c, layout: l}
				}
				cell.label = cellLabel(m, r, c, a, b, symbols[m])
				table[r][c] = cell
			}
		}
		l.tables[m] = table
	}
}

func (l *Layout) reuse(old [][]*MemCell, r, c int) *MemCell {
	if r < len(old) && c < len(old[r]) {
		return old[r][c]
	}
	return nil
}

func cellLabel(m align.Matrix, r, c int, a, b []rune, symbols align.Symbols) string {
	switch {
	case r == 0 && c == 0:
		return m.String()
	case r == 0 && c == 1, r == 1 && c == 0:
		return ""
	case r == 0:
		return align.CharLabel(a[c-2], c-1)
	case c == 0:
		return align.CharLabel(b[r-2], r-1)
	}
	i, j := r-1, c-1
	if i < len(symbols) && j < len(symbols[i]) {
		return align.DisplaySymbol(symbols[i][j])
	}
	return ""
}

// Cell returns the cell at a display position.
func (l *Layout) Cell(m align.Matrix, row, col int) (Cell, bool) {
	c, ok := l.MemCell(m, row, col)
	if !ok {
		return nil, false
	}
	return c, true
}

// MemCell is [Layout.Cell] without the interface conversion.
func (l *Layout) MemCell(m align.Matrix, row, col int) (*MemCell, bool) {
	table, ok := l.tables[m]
	if !ok || row < 0 || col < 0 || row >= len(table) || col >= len(table[row]) {
		return nil, false
	}
	return table[row][col], true
}

// Matrices returns the displayed matrices in display order.
func (l *Layout) Matrices() []align.Matrix { return slices.Clone(l.matrices) }

// Dims returns the display row and column count of every table.
func (l *Layout) Dims() (rows, cols int) { return l.rows, l.cols }

// CellSize returns the current cell size.
func (l *Layout) CellSize() (w, h float64) { return l.cellW, l.cellH }

// Resize changes the cell size. Cell bounds follow immediately.
func (l *Layout) Resize(w, h float64) {
	if w > 0 {
		l.cellW = w
	}
	if h > 0 {
		l.cellH = h
	}
}

// TableOrigin returns the top-left pixel of a matrix table.
func (l *Layout) TableOrigin(m align.Matrix) (x, y float64, ok bool) {
	idx := slices.Index(l.matrices, m)
	if idx < 0 {
		return 0, 0, false
	}
	return l.margin + float64(idx)*(float64(l.cols)*l.cellW+l.gap), l.margin, true
}

// DocumentSize is the pixel size of the whole document.
func (l *Layout) DocumentSize() (w, h float64) {
	n := float64(len(l.matrices))
	w = 2*l.margin + n*float64(l.cols)*l.cellW
	if n > 1 {
		w += (n - 1) * l.gap
	}
	return w, 2*l.margin + float64(l.rows)*l.cellH
}

// Each visits every cell of every table in display order.
func (l *Layout) Each(fn func(c *MemCell)) {
	for _, m := range l.matrices {
		for _, row := range l.tables[m] {
			for _, c := range row {
				fn(c)
			}
		}
	}
}

func (l *Layout) bounds(m align.Matrix, row, col int) geometry.Rect {
	x, y, _ := l.TableOrigin(m)
	return geometry.Rect{
		Left:   x + float64(col)*l.cellW,
		Top:    y + float64(row)*l.cellH,
		Width:  l.cellW,
		Height: l.cellH,
	}
}

var _ Table = (*Layout)(nil)
