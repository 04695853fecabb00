package align

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/matzehuels/tracegrid/pkg/errors"
)

// Display symbols for numeric infinities in text output.
const (
	SymbolInfinity         = "∞"
	SymbolNegativeInfinity = "-∞"
)

// Grid is a numeric DP matrix, indexed [row][col]. Values may be ±Inf.
type Grid [][]float64

// Dims returns the row and column count. Columns are taken from the first row.
func (g Grid) Dims() (rows, cols int) {
	if len(g) == 0 {
		return 0, 0
	}
	return len(g), len(g[0])
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// FormatScore renders a numeric cell for text output.
// Infinities become [SymbolInfinity] and [SymbolNegativeInfinity].
func FormatScore(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return SymbolInfinity
	case math.IsInf(v, -1):
		return SymbolNegativeInfinity
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParseScore is the inverse of [FormatScore]. It also accepts the spellings
// produced by JSON encoders of other languages ("Infinity", "-Infinity").
func ParseScore(s string) (float64, error) {
	switch s {
	case SymbolInfinity, "Infinity", "+Infinity", "inf", "+inf":
		return math.Inf(1), nil
	case SymbolNegativeInfinity, "-Infinity", "-inf":
		return math.Inf(-1), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "invalid matrix value %q", s)
	}
	return v, nil
}

// MarshalJSON writes finite values as numbers and infinities as symbols,
// since JSON has no literal for them.
func (g Grid) MarshalJSON() ([]byte, error) {
	rows := make([][]any, len(g))
	for i, row := range g {
		rows[i] = make([]any, len(row))
		for j, v := range row {
			if math.IsInf(v, 0) {
				rows[i][j] = FormatScore(v)
			} else {
				rows[i][j] = v
			}
		}
	}
	return json.Marshal(rows)
}

// UnmarshalJSON accepts numbers and infinity strings per cell.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var raw [][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidMatrix, err, "decode matrix")
	}
	out := make(Grid, len(raw))
	for i, row := range raw {
		out[i] = make([]float64, len(row))
		for j, cell := range row {
			var f float64
			if err := json.Unmarshal(cell, &f); err == nil {
				out[i][j] = f
				continue
			}
			var s string
			if err := json.Unmarshal(cell, &s); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidMatrix, err, "matrix[%d][%d]", i, j)
			}
			v, err := ParseScore(s)
			if err != nil {
				return err
			}
			out[i][j] = v
		}
	}
	*g = out
	return nil
}

// Symbols is a symbolic DP matrix as handed to the labeling layer.
// Finite values are decimal strings; infinities are LaTeX markers.
type Symbols [][]string

// Dims returns the row and column count. Columns are taken from the first row.
func (s Symbols) Dims() (rows, cols int) {
	if len(s) == 0 {
		return 0, 0
	}
	return len(s), len(s[0])
}

// UnmarshalJSON accepts numbers and strings per cell.
func (s *Symbols) UnmarshalJSON(data []byte) error {
	var raw [][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidMatrix, err, "decode symbolic matrix")
	}
	out := make(Symbols, len(raw))
	for i, row := range raw {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			var str string
			if err := json.Unmarshal(cell, &str); err == nil {
				out[i][j] = str
				continue
			}
			var f float64
			if err := json.Unmarshal(cell, &f); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidMatrix, err, "symbolic matrix[%d][%d]", i, j)
			}
			out[i][j] = strconv.FormatFloat(f, 'g', -1, 64)
		}
	}
	*s = out
	return nil
}
