package align

import (
	"math"
	"strconv"

	"github.com/matzehuels/tracegrid/pkg/errors"
)

// LaTeX infinity markers used by the labeling layer.
const (
	LatexInfinity         = `\infty`
	LatexNegativeInfinity = `-\infty`
)

// Codec converts between numeric and symbolic matrices.
//
// With SwapSigns set, the negative marker maps to +Inf and the positive
// marker to -Inf. Gap matrices are handed over with this inverted sign
// convention, and the export layer keeps it so that exported tables match
// what the algorithm stored. [Codec.Symbolic] and [Codec.Numeric] are exact
// inverses for the same codec.
type Codec struct {
	SwapSigns bool
}

// DefaultCodec keeps the inverted sign convention of gap matrices.
var DefaultCodec = Codec{SwapSigns: true}

// Numeric replaces infinity markers with numeric infinities and parses every
// other cell. The input is not modified.
func (c Codec) Numeric(s Symbols) (Grid, error) {
	out := make(Grid, len(s))
	for i, row := range s {
		out[i] = make([]float64, len(row))
		for j, cell := range row {
			switch cell {
			case LatexNegativeInfinity:
				out[i][j] = c.infinity(true)
			case LatexInfinity:
				out[i][j] = c.infinity(false)
			default:
				v, err := ParseScore(cell)
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "cell (%d,%d)", i, j)
				}
				out[i][j] = v
			}
		}
	}
	return out, nil
}

// Symbolic replaces numeric infinities with LaTeX markers and formats every
// other cell. The input is not modified.
func (c Codec) Symbolic(g Grid) Symbols {
	out := make(Symbols, len(g))
	for i, row := range g {
		out[i] = make([]string, len(row))
		for j, v := range row {
			switch {
			case math.IsInf(v, 1):
				out[i][j] = c.marker(false)
			case math.IsInf(v, -1):
				out[i][j] = c.marker(true)
			default:
				out[i][j] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
	}
	return out
}

// infinity returns the numeric value of the negative or positive marker.
func (c Codec) infinity(negativeMarker bool) float64 {
	if negativeMarker != c.SwapSigns {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

// marker returns the marker for -Inf (negative) or +Inf.
func (c Codec) marker(negative bool) string {
	if negative != c.SwapSigns {
		return LatexNegativeInfinity
	}
	return LatexInfinity
}
