package align

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/matzehuels/tracegrid/pkg/errors"
)

// Computation is the serialized bundle of one alignment run: the algorithm
// name, its input and output, and the predecessor table used for flows.
type Computation struct {
	Algorithm    string         `json:"algorithm"`
	Input        Input          `json:"input"`
	Output       Output         `json:"output"`
	Predecessors []Predecessors `json:"predecessors,omitempty"`
}

// TraceTable returns the algorithm collaborator of the computation.
func (c *Computation) TraceTable() *TraceTable {
	return NewTraceTable(c.Algorithm, c.Predecessors)
}

// Validate checks the input sequences, the matrix shapes, that every
// traceback cell lies inside its matrix and that paths and predecessor
// entries only step between coupled matrices.
func (c *Computation) Validate() error {
	if err := c.Input.Validate(); err != nil {
		return err
	}
	wantRows := utf8.RuneCountInString(c.Input.SequenceB) + 1
	wantCols := utf8.RuneCountInString(c.Input.SequenceA) + 1
	for _, m := range Matrices {
		rows, cols := c.Output.Dims(m)
		if rows == 0 && m != Default {
			continue
		}
		if rows != wantRows || cols != wantCols {
			return errors.New(errors.ErrCodeInvalidMatrix,
				"matrix %s is %dx%d, want %dx%d", m, rows, cols, wantRows, wantCols)
		}
		if err := checkRagged(c.Output, m, cols); err != nil {
			return err
		}
	}
	for i, p := range c.Output.TracebackPaths {
		for _, cell := range p {
			rows, cols := c.Output.Dims(cell.Matrix)
			if cell.Row < 0 || cell.Col < 0 || cell.Row >= rows || cell.Col >= cols {
				return errors.New(errors.ErrCodeInvalidInput, "traceback path %d leaves its matrix at %s", i, cell)
			}
		}
		for j := 1; j < len(p); j++ {
			if !Coupled(p[j-1].Matrix, p[j].Matrix) {
				return errors.New(errors.ErrCodeInvalidInput,
					"traceback path %d steps from %s to %s", i, p[j-1], p[j])
			}
		}
	}
	for _, e := range c.Predecessors {
		for _, from := range e.From {
			if !Coupled(from.Matrix, e.Cell.Matrix) {
				return errors.New(errors.ErrCodeInvalidInput,
					"predecessor %s of %s is in an uncoupled matrix", from, e.Cell)
			}
		}
	}
	return nil
}

// Coupled reports whether a path may step between cells of a and b: within
// one matrix, or between the main matrix and a gap matrix.
func Coupled(a, b Matrix) bool {
	return a == b || a == Default || b == Default
}

func checkRagged(o Output, m Matrix, cols int) error {
	var lens []int
	switch m {
	case Vertical:
		for _, r := range o.VerticalGaps {
			lens = append(lens, len(r))
		}
	case Horizontal:
		for _, r := range o.HorizontalGaps {
			lens = append(lens, len(r))
		}
	default:
		for _, r := range o.Matrix {
			lens = append(lens, len(r))
		}
	}
	for i, n := range lens {
		if n != cols {
			return errors.New(errors.ErrCodeInvalidMatrix, "matrix %s row %d has %d columns, want %d", m, i, n, cols)
		}
	}
	return nil
}

// ReadComputation decodes and validates a computation bundle.
func ReadComputation(r io.Reader) (*Computation, error) {
	var c Computation
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode computation")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ImportJSON reads a computation bundle from a file.
func ImportJSON(path string) (*Computation, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadComputation(f)
}

// MarshalComputation encodes a bundle as indented JSON.
func MarshalComputation(c *Computation) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
