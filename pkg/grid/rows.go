package grid

import (
	"fmt"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/geometry"
)

// ResultRows is an in-memory results list, one row per traceback path.
type ResultRows struct {
	rows []*rowCell
}

// NewResultRows creates a list with one row per label.
func NewResultRows(labels []string) *ResultRows {
	r := &ResultRows{rows: make([]*rowCell, len(labels))}
	for i, label := range labels {
		r.rows[i] = &rowCell{MemCell: MemCell{matrix: align.Default, row: i, label: label}}
	}
	return r
}

// RowsForPaths labels one row per traceback path.
func RowsForPaths(paths []align.Path) *ResultRows {
	labels := make([]string, len(paths))
	for i, p := range paths {
		labels[i] = fmt.Sprintf("path %d (%d cells)", i+1, len(p))
	}
	return NewResultRows(labels)
}

// Row returns the first cell of a row.
func (r *ResultRows) Row(index int) (Cell, bool) {
	if index < 0 || index >= len(r.rows) {
		return nil, false
	}
	return r.rows[index], true
}

// Len is the number of rows.
func (r *ResultRows) Len() int { return len(r.rows) }

// Label returns the text of a row.
func (r *ResultRows) Label(index int) string {
	if index < 0 || index >= len(r.rows) {
		return ""
	}
	return r.rows[index].label
}

// rowCell has no place in the table layout.
type rowCell struct {
	MemCell
}

func (c *rowCell) Bounds() geometry.Rect { return geometry.Rect{} }

var _ Rows = (*ResultRows)(nil)
