package align

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/tracegrid/pkg/errors"
)

// Matrix identifies one of the three coupled DP matrices.
type Matrix int

const (
	// Default is the main alignment matrix.
	Default Matrix = iota
	// Vertical holds the affine-gap state for vertical gap extension.
	Vertical
	// Horizontal holds the affine-gap state for horizontal gap extension.
	Horizontal
)

// Matrix tags as written in the CSV header and in computation bundles.
const (
	TagDefault    = "X"
	TagVertical   = "P"
	TagHorizontal = "Q"
)

// Matrix numbers used by the export surface.
const (
	NumberVertical   = 0
	NumberDefault    = 1
	NumberHorizontal = 2
)

// Matrices lists every matrix in display order (left to right).
var Matrices = []Matrix{Vertical, Default, Horizontal}

// String returns the matrix tag.
func (m Matrix) String() string {
	switch m {
	case Default:
		return TagDefault
	case Vertical:
		return TagVertical
	case Horizontal:
		return TagHorizontal
	}
	return fmt.Sprintf("Matrix(%d)", int(m))
}

// Number returns the export number of the matrix.
func (m Matrix) Number() int {
	switch m {
	case Vertical:
		return NumberVertical
	case Horizontal:
		return NumberHorizontal
	}
	return NumberDefault
}

// Valid reports whether m is one of the three known matrices.
func (m Matrix) Valid() bool {
	return m == Default || m == Vertical || m == Horizontal
}

// MatrixFromNumber resolves an export number.
func MatrixFromNumber(n int) (Matrix, error) {
	switch n {
	case NumberVertical:
		return Vertical, nil
	case NumberDefault:
		return Default, nil
	case NumberHorizontal:
		return Horizontal, nil
	}
	return Default, errors.New(errors.ErrCodeInvalidMatrix, "unknown matrix number %d (must be 0, 1 or 2)", n)
}

// ParseMatrix resolves a matrix tag (X, P, Q) or a lower-case name.
func ParseMatrix(s string) (Matrix, error) {
	switch strings.ToLower(s) {
	case "x", "default", "main":
		return Default, nil
	case "p", "vertical":
		return Vertical, nil
	case "q", "horizontal":
		return Horizontal, nil
	}
	return Default, errors.New(errors.ErrCodeInvalidMatrix, "unknown matrix %q", s)
}

// MarshalText encodes the matrix as its tag.
func (m Matrix) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "unknown matrix %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a matrix tag.
func (m *Matrix) UnmarshalText(b []byte) error {
	v, err := ParseMatrix(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Cell addresses one DP entry. Row and Col are matrix-local, zero-based.
type Cell struct {
	Row    int    `json:"i"`
	Col    int    `json:"j"`
	Matrix Matrix `json:"label"`
}

// At is shorthand for a cell in the given matrix.
func At(m Matrix, row, col int) Cell {
	return Cell{Row: row, Col: col, Matrix: m}
}

// DisplayRow is the grid row of the cell; row 0 of the grid is the header.
func (c Cell) DisplayRow() int { return c.Row + 1 }

// DisplayCol is the grid column of the cell; column 0 of the grid is the header.
func (c Cell) DisplayCol() int { return c.Col + 1 }

func (c Cell) String() string {
	return fmt.Sprintf("%s(%d,%d)", c.Matrix, c.Row, c.Col)
}

// Path is an ordered sequence of cells.
type Path []Cell

// Reversed returns a reversed copy; the receiver is not modified.
func (p Path) Reversed() Path {
	if p == nil {
		return nil
	}
	r := slices.Clone(p)
	slices.Reverse(r)
	return r
}

// Empty reports whether the path has nothing to highlight.
func (p Path) Empty() bool { return len(p) == 0 }

// Origin returns the first cell of the path.
func (p Path) Origin() (Cell, bool) {
	if len(p) == 0 {
		return Cell{}, false
	}
	return p[0], true
}

// Equal reports whether both paths visit the same cells in the same order.
func (p Path) Equal(q Path) bool {
	return slices.Equal(p, q)
}

// FlowSet holds the one-step predecessor paths of a clicked cell.
// The index of a path is its highlight intensity tier.
type FlowSet []Path

// Input holds the two sequences of an alignment run.
// SequenceA labels the columns, SequenceB the rows.
type Input struct {
	SequenceA string `json:"sequence_a"`
	SequenceB string `json:"sequence_b"`
}

// Validate checks both sequences.
func (in Input) Validate() error {
	if err := errors.ValidateSequence("sequence_a", in.SequenceA); err != nil {
		return err
	}
	return errors.ValidateSequence("sequence_b", in.SequenceB)
}

// Output holds the matrices and traceback paths of an alignment run.
type Output struct {
	Matrix         Grid    `json:"matrix"`
	VerticalGaps   Symbols `json:"vertical_gaps,omitempty"`
	HorizontalGaps Symbols `json:"horizontal_gaps,omitempty"`
	TracebackPaths []Path  `json:"traceback_paths"`
}

// Affine reports whether the run carries gap matrices.
func (o Output) Affine() bool {
	return len(o.VerticalGaps) > 0 || len(o.HorizontalGaps) > 0
}

// Dims returns the row and column count of the given matrix, or zeros if absent.
func (o Output) Dims(m Matrix) (rows, cols int) {
	switch m {
	case Vertical:
		return o.VerticalGaps.Dims()
	case Horizontal:
		return o.HorizontalGaps.Dims()
	}
	return o.Matrix.Dims()
}

// Algorithm is the alignment algorithm collaborator.
type Algorithm interface {
	// Name identifies the algorithm in logs and cache keys.
	Name() string

	// Traces returns the up-to-depth-step predecessor paths ending at each
	// seed cell, in traceback order (seed first).
	Traces(seeds []Cell, in Input, out Output, depth int) []Path
}
