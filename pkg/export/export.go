package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/errors"
	"github.com/matzehuels/tracegrid/pkg/session"
)

// MIMEType is the content type of exported tables.
const MIMEType = "text/csv"

// Exporter serializes the matrices of a session.
type Exporter struct {
	Codec align.Codec
}

// New creates an exporter with the default codec.
func New() Exporter {
	return Exporter{Codec: align.DefaultCodec}
}

// ExportMatrix exports matrix number n (0 vertical, 1 default, 2 horizontal)
// of the session with the default codec.
func ExportMatrix(st *session.State, n int) ([]byte, error) {
	return New().Export(st, n)
}

// Export exports matrix number n of the session.
func (e Exporter) Export(st *session.State, n int) ([]byte, error) {
	m, err := align.MatrixFromNumber(n)
	if err != nil {
		return nil, err
	}
	g, err := e.Matrix(st.Output, m)
	if err != nil {
		return nil, err
	}
	return TableToCSV(m.String(), g, st.Input.SequenceA, st.Input.SequenceB)
}

// Matrix returns matrix m of out as numbers.
func (e Exporter) Matrix(out align.Output, m align.Matrix) (align.Grid, error) {
	var sym align.Symbols
	switch m {
	case align.Default:
		if len(out.Matrix) == 0 {
			return nil, errors.New(errors.ErrCodeNotFound, "no %s matrix to export", m)
		}
		return out.Matrix, nil
	case align.Vertical:
		sym = out.VerticalGaps
	case align.Horizontal:
		sym = out.HorizontalGaps
	default:
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "unknown matrix %d", m)
	}
	if len(sym) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no %s matrix to export", m)
	}
	g, err := e.Codec.Numeric(sym)
	if err != nil {
		return nil, fmt.Errorf("convert %s matrix: %w", m, err)
	}
	return g, nil
}

// TableToCSV serializes a matrix. upper labels the columns and left the
// rows, one character each; the first data row has an empty label.
func TableToCSV(tag string, g align.Grid, upper, left string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{tag, ""}
	for _, ch := range upper {
		header = append(header, string(ch))
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	labels := []rune(left)
	for i, row := range g {
		record := make([]string, 0, len(row)+1)
		if i > 0 && i-1 < len(labels) {
			record = append(record, string(labels[i-1]))
		} else {
			record = append(record, "")
		}
		for _, v := range row {
			record = append(record, align.FormatScore(v))
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}
	return buf.Bytes(), nil
}
