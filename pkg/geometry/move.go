package geometry

import (
	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/errors"
)

// Move classifies the transition between two consecutive path cells.
type Move int

const (
	// None is returned for same-matrix pairs that are neither adjacent nor a
	// long jump along one axis (including a cell paired with itself).
	None Move = iota
	Diagonal
	StepLeft
	StepUp
	LongVertical
	LongHorizontal
	// PToX leaves the vertical gap matrix for the main matrix.
	PToX
	// QToX leaves the horizontal gap matrix for the main matrix.
	QToX
	// XToP enters the vertical gap matrix from the main matrix.
	XToP
	// XToQ enters the horizontal gap matrix from the main matrix.
	XToQ
)

var moveNames = [...]string{
	None:           "none",
	Diagonal:       "diagonal",
	StepLeft:       "step-left",
	StepUp:         "step-up",
	LongVertical:   "long-vertical",
	LongHorizontal: "long-horizontal",
	PToX:           "p-to-x",
	QToX:           "q-to-x",
	XToP:           "x-to-p",
	XToQ:           "x-to-q",
}

func (m Move) String() string {
	if m < 0 || int(m) >= len(moveNames) {
		return "unknown"
	}
	return moveNames[m]
}

// IsShort reports whether the move is drawn as a glyph on the destination cell.
func (m Move) IsShort() bool {
	return m == Diagonal || m == StepLeft || m == StepUp
}

// IsLong reports whether the move is drawn as an overlay line.
func (m Move) IsLong() bool {
	return m >= LongVertical && m <= XToQ
}

// Crosses reports whether the move switches matrices.
func (m Move) Crosses() bool {
	return m >= PToX && m <= XToQ
}

// Classify returns the move from one path cell to the next.
//
// Pairs of matrices other than the four gap-open/gap-close couplings violate
// the caller's contract; Classify panics with an INVALID_TRANSITION error.
func Classify(from, to align.Cell) Move {
	if from.Matrix == to.Matrix {
		dr, dc := to.Row-from.Row, to.Col-from.Col
		switch {
		case dr == 1 && dc == 1:
			return Diagonal
		case dc == 1 && dr == 0:
			return StepLeft
		case dr == 1 && dc == 0:
			return StepUp
		case dr > 1:
			return LongVertical
		case dc > 1:
			return LongHorizontal
		}
		return None
	}

	switch {
	case from.Matrix == align.Vertical && to.Matrix == align.Default:
		return PToX
	case from.Matrix == align.Horizontal && to.Matrix == align.Default:
		return QToX
	case from.Matrix == align.Default && to.Matrix == align.Vertical:
		return XToP
	case from.Matrix == align.Default && to.Matrix == align.Horizontal:
		return XToQ
	}
	panic(errors.New(errors.ErrCodeInvalidTransition, "no coupling from %s to %s", from, to))
}
