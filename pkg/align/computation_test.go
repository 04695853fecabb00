package align

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/tracegrid/pkg/errors"
)

const sampleComputation = `{
  "algorithm": "gotoh",
  "input": {"sequence_a": "AG", "sequence_b": "AC"},
  "output": {
    "matrix": [[0, "-Infinity", "-Infinity"], ["-∞", 1, 0], ["-∞", 0, 0]],
    "vertical_gaps": [["-\\infty", "-\\infty", "-\\infty"], [0, -3, -4], [-1, -2, -3]],
    "horizontal_gaps": [["\\infty", 0, -1], ["\\infty", -3, -2], ["\\infty", -4, -3]],
    "traceback_paths": [[{"i":2,"j":2,"label":"X"},{"i":1,"j":1,"label":"X"},{"i":0,"j":0,"label":"X"}]]
  },
  "predecessors": [
    {"cell": {"i":2,"j":2,"label":"X"}, "from": [{"i":1,"j":1,"label":"X"}]}
  ]
}`

func TestReadComputation(t *testing.T) {
	c, err := ReadComputation(strings.NewReader(sampleComputation))
	if err != nil {
		t.Fatalf("ReadComputation: %v", err)
	}

	if c.Algorithm != "gotoh" {
		t.Errorf("Algorithm = %q", c.Algorithm)
	}
	if !math.IsInf(c.Output.Matrix[0][1], -1) || !math.IsInf(c.Output.Matrix[1][0], -1) {
		t.Errorf("infinities not decoded: %v", c.Output.Matrix)
	}
	if c.Output.VerticalGaps[1][1] != "-3" {
		t.Errorf("numeric symbol = %q, want -3", c.Output.VerticalGaps[1][1])
	}
	if !c.Output.Affine() {
		t.Error("Affine() = false, want true")
	}
	if len(c.Output.TracebackPaths) != 1 || len(c.Output.TracebackPaths[0]) != 3 {
		t.Fatalf("traceback paths = %v", c.Output.TracebackPaths)
	}

	flows := c.TraceTable().Traces([]Cell{At(Default, 2, 2)}, c.Input, c.Output, 1)
	if len(flows) != 1 {
		t.Errorf("flows = %v, want 1 path", flows)
	}
}

func TestReadComputationInvalid(t *testing.T) {
	tests := []struct {
		name string
		json string
		code errors.Code
	}{
		{"not json", `{`, errors.ErrCodeInvalidInput},
		{"shape mismatch", `{"input":{"sequence_a":"A","sequence_b":"C"},"output":{"matrix":[[0]]}}`, errors.ErrCodeInvalidMatrix},
		{"ragged", `{"input":{"sequence_a":"A","sequence_b":"C"},"output":{"matrix":[[0,1],[2]]}}`, errors.ErrCodeInvalidMatrix},
		{"path out of range", `{"input":{"sequence_a":"A","sequence_b":"C"},"output":{"matrix":[[0,1],[2,3]],"traceback_paths":[[{"i":5,"j":0,"label":"X"}]]}}`, errors.ErrCodeInvalidInput},
		{"bad sequence", `{"input":{"sequence_a":"A,","sequence_b":"C"},"output":{"matrix":[[0]]}}`, errors.ErrCodeInvalidInput},
		{"gap to gap path", `{"input":{"sequence_a":"A","sequence_b":"C"},"output":{"matrix":[[0,1],[2,3]],` +
			`"vertical_gaps":[[0,0],[0,0]],"horizontal_gaps":[[0,0],[0,0]],` +
			`"traceback_paths":[[{"i":1,"j":1,"label":"Q"},{"i":1,"j":0,"label":"P"},{"i":0,"j":0,"label":"X"}]]}}`, errors.ErrCodeInvalidInput},
		{"gap to gap predecessor", `{"input":{"sequence_a":"A","sequence_b":"C"},"output":{"matrix":[[0,1],[2,3]],` +
			`"vertical_gaps":[[0,0],[0,0]],"horizontal_gaps":[[0,0],[0,0]]},` +
			`"predecessors":[{"cell":{"i":1,"j":1,"label":"P"},"from":[{"i":0,"j":1,"label":"Q"}]}]}`, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadComputation(strings.NewReader(tt.json))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestImportJSONRoundTrip(t *testing.T) {
	c, err := ReadComputation(strings.NewReader(sampleComputation))
	if err != nil {
		t.Fatalf("ReadComputation: %v", err)
	}
	data, err := MarshalComputation(c)
	if err != nil {
		t.Fatalf("MarshalComputation: %v", err)
	}
	path := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	back, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if !math.IsInf(back.Output.Matrix[0][2], -1) {
		t.Errorf("infinity lost in round trip: %v", back.Output.Matrix[0])
	}

	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestValidateCountsCharacters(t *testing.T) {
	c := &Computation{
		Input:  Input{SequenceA: "ÉG", SequenceB: "Ü"},
		Output: Output{Matrix: Grid{{0, -1, -2}, {-1, 1, 0}}},
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate with non-ASCII labels: %v", err)
	}

	c.Output.Matrix = Grid{{0, -1, -2, -3}, {-1, 1, 0, -1}, {-2, 0, 0, 0}}
	if err := c.Validate(); !errors.Is(err, errors.ErrCodeInvalidMatrix) {
		t.Errorf("byte-sized matrix error = %v, want %s", err, errors.ErrCodeInvalidMatrix)
	}
}

func TestCoupled(t *testing.T) {
	tests := []struct {
		a, b Matrix
		want bool
	}{
		{Default, Default, true},
		{Vertical, Vertical, true},
		{Vertical, Default, true},
		{Default, Horizontal, true},
		{Vertical, Horizontal, false},
		{Horizontal, Vertical, false},
	}

	for _, tt := range tests {
		if got := Coupled(tt.a, tt.b); got != tt.want {
			t.Errorf("Coupled(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
