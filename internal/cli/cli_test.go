package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/errors"
	"github.com/matzehuels/tracegrid/pkg/pipeline"
)

func d(r, c int) align.Cell { return align.At(align.Default, r, c) }

func testComputation() *align.Computation {
	return &align.Computation{
		Algorithm: "needleman-wunsch",
		Input:     align.Input{SequenceA: "AG", SequenceB: "AC"},
		Output: align.Output{
			Matrix: align.Grid{
				{0, -1, -2},
				{-1, 1, 0},
				{-2, 0, 0},
			},
			TracebackPaths: []align.Path{{d(2, 2), d(1, 1), d(0, 0)}},
		},
		Predecessors: []align.Predecessors{
			{Cell: d(2, 2), From: []align.Cell{d(1, 1), d(1, 2), d(2, 1)}},
			{Cell: d(1, 1), From: []align.Cell{d(0, 0)}},
		},
	}
}

// writeComputation stores the test bundle in a temp dir and returns its path.
func writeComputation(t *testing.T) string {
	t.Helper()
	data, err := align.MarshalComputation(testComputation())
	if err != nil {
		t.Fatalf("MarshalComputation: %v", err)
	}
	path := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"show", "graph", "export", "tui", "serve", "cache", "version", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag not registered")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg, json,", []string{"svg", "json"}},
		{"dot,graph.svg", []string{"dot", "graph.svg"}},
	}

	for _, tt := range tests {
		got := parseFormats(tt.input)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		input   string
		want    align.Cell
		wantErr bool
	}{
		{"3,2", d(3, 2), false},
		{" 0 , 1 ", d(0, 1), false},
		{"X(1,1)", d(1, 1), false},
		{"P(2,0)", align.At(align.Vertical, 2, 0), false},
		{"q(0,4)", align.At(align.Horizontal, 0, 4), false},
		{"3", align.Cell{}, true},
		{"a,b", align.Cell{}, true},
		{"-1,2", align.Cell{}, true},
		{"Z(1,1)", align.Cell{}, true},
		{"P(1,1", align.Cell{}, true},
	}

	for _, tt := range tests {
		got, err := parseCell(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseCell(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseCell(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseMatrixNumber(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"1", align.NumberDefault, false},
		{"0", align.NumberVertical, false},
		{"Q", align.NumberHorizontal, false},
		{"x", align.NumberDefault, false},
		{"3", 0, true},
		{"main-ish", 0, true},
	}

	for _, tt := range tests {
		got, err := parseMatrixNumber(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseMatrixNumber(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseMatrixNumber(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, format string
		multiple              bool
		want                  string
	}{
		{"", "runs/run.json", "svg", false, "run.svg"},
		{"grid.svg", "run.json", "svg", false, "grid.svg"},
		{"out/grid", "run.json", "png", true, "out/grid.png"},
		{"out/grid.svg", "run.json", "json", true, "out/grid.json"},
		{"paths.graph.svg", "run.json", "dot", true, "paths.dot"},
		{"", "-", "svg", false, "tracegrid.svg"},
	}

	for _, tt := range tests {
		if got := outputPath(tt.output, tt.input, tt.format, tt.multiple); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q, %v) = %q, want %q",
				tt.output, tt.input, tt.format, tt.multiple, got, tt.want)
		}
	}
}

func TestBuildPipelineOptions(t *testing.T) {
	opts := showOpts{formats: "svg,png", traceback: 2, flow: "P(1,1)", cellWidth: 40, scale: 3}
	got, err := buildPipelineOptions(pipeline.Options{CellWidth: 10, CellHeight: 20}, opts, false)
	if err != nil {
		t.Fatalf("buildPipelineOptions: %v", err)
	}
	if got.Traceback == nil || *got.Traceback != 2 {
		t.Errorf("Traceback = %v, want 2", got.Traceback)
	}
	if got.Flow == nil || *got.Flow != align.At(align.Vertical, 1, 1) {
		t.Errorf("Flow = %v, want P(1,1)", got.Flow)
	}
	if got.CellWidth != 40 || got.CellHeight != 20 {
		t.Errorf("cell size = %gx%g, want 40x20", got.CellWidth, got.CellHeight)
	}
	if got.Scale != 3 {
		t.Errorf("Scale = %g, want 3", got.Scale)
	}

	opts = showOpts{formats: "svg", traceback: -1}
	got, err = buildPipelineOptions(pipeline.Options{}, opts, false)
	if err != nil {
		t.Fatalf("buildPipelineOptions: %v", err)
	}
	if got.Traceback != nil {
		t.Errorf("traceback -1 must show no path, got %d", *got.Traceback)
	}

	if _, err := buildPipelineOptions(pipeline.Options{}, showOpts{formats: "pdf"}, false); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("pdf format error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
	if _, err := buildPipelineOptions(pipeline.Options{}, showOpts{formats: "svg"}, true); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("graph with svg error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestShowCommand(t *testing.T) {
	input := writeComputation(t)
	base := filepath.Join(t.TempDir(), "out", "grid")

	if err := execute(t, "show", input, "-t", "0", "-f", "svg,json", "-o", base, "--no-cache"); err != nil {
		t.Fatalf("show: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !strings.Contains(string(svg), "selected_green") {
		t.Error("svg lacks the terminal cell style")
	}
	if _, err := os.Stat(base + ".json"); err != nil {
		t.Errorf("json scene not written: %v", err)
	}
}

func TestShowCommandErrors(t *testing.T) {
	input := writeComputation(t)
	out := filepath.Join(t.TempDir(), "grid.svg")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing input", []string{"show", filepath.Join(t.TempDir(), "none.json"), "--no-cache"}, errors.ErrCodeFileNotFound},
		{"bad format", []string{"show", input, "-f", "pdf", "--no-cache"}, errors.ErrCodeInvalidFormat},
		{"bad flow", []string{"show", input, "--flow", "1", "-o", out, "--no-cache"}, errors.ErrCodeInvalidInput},
		{"unknown path", []string{"show", input, "-t", "9", "-o", out, "--no-cache"}, errors.ErrCodeNotFound},
		{"missing config", []string{"show", input, "--config", filepath.Join(t.TempDir(), "none.toml")}, errors.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestShowCommandWithConfig(t *testing.T) {
	input := writeComputation(t)
	dir := t.TempDir()
	cfg := filepath.Join(dir, "tracegrid.toml")
	toml := "[overlay]\ntraceback_color = \"#123456\"\n\n[cache]\nbackend = \"none\"\n"
	if err := os.WriteFile(cfg, []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "grid.svg")

	if err := execute(t, "show", input, "-t", "0", "--config", cfg, "-o", out); err != nil {
		t.Fatalf("show: %v", err)
	}
	svg, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "#123456") {
		t.Error("configured traceback color not used")
	}
}

func TestExportCommand(t *testing.T) {
	input := writeComputation(t)
	dir := t.TempDir()

	if err := execute(t, "export", input, "--dir", dir, "--no-cache"); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "table.csv"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "X,,A,G\n") {
		t.Errorf("export starts with %q, want the X header", strings.SplitN(string(data), "\n", 2)[0])
	}

	if err := execute(t, "export", input, "-m", "7", "--dir", dir); !errors.Is(err, errors.ErrCodeInvalidMatrix) {
		t.Errorf("export -m 7 error = %v, want %s", err, errors.ErrCodeInvalidMatrix)
	}
	if err := execute(t, "export", input, "--filename", "../up.csv", "--dir", dir, "--no-cache"); err == nil {
		t.Error("export with a path in --filename succeeded")
	}
}

func TestGraphCommand(t *testing.T) {
	input := writeComputation(t)
	out := filepath.Join(t.TempDir(), "paths.dot")

	if err := execute(t, "graph", input, "-f", "dot", "-o", out, "--no-cache"); err != nil {
		t.Fatalf("graph: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph traceback") {
		t.Errorf("dot output starts with %q", strings.SplitN(string(data), "\n", 2)[0])
	}

	if err := execute(t, "graph", input, "-f", "png"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("graph -f png error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestCompletionCommand(t *testing.T) {
	var out strings.Builder
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion bash: %v", err)
	}
	if !strings.Contains(out.String(), "tracegrid") {
		t.Error("bash completion does not mention the binary")
	}

	exts, directive := completeComputationFiles(nil, nil, "")
	if len(exts) != 1 || exts[0] != "json" || directive != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("completeComputationFiles = %v, %v", exts, directive)
	}
}
