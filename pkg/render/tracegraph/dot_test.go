package tracegraph

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/tracegrid/pkg/align"
)

func affineOutput() align.Output {
	d := func(r, c int) align.Cell { return align.At(align.Default, r, c) }
	v := func(r, c int) align.Cell { return align.At(align.Vertical, r, c) }
	return align.Output{
		Matrix:         align.Grid{{0, -2}, {-2, 1}},
		VerticalGaps:   align.Symbols{{"-∞", "-∞"}, {"-3", "-4"}},
		HorizontalGaps: align.Symbols{{"-∞", "-3"}, {"-∞", "-4"}},
		TracebackPaths: []align.Path{
			{d(1, 1), d(0, 0)},
			{d(1, 1), v(1, 0), d(0, 0)},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(affineOutput(), Options{})

	for _, want := range []string{
		"digraph traceback {",
		`subgraph "cluster_X"`,
		`subgraph "cluster_P"`,
		`"X(1,1)" -> "X(0,0)";`,
		`"X(1,1)" -> "P(1,0)" [style=dashed];`,
		`"P(1,0)" -> "X(0,0)" [style=dashed];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "cluster_Q") {
		t.Error("DOT has a cluster for an unvisited matrix")
	}
	if got := strings.Count(dot, `"X(1,1)" [label=`); got != 1 {
		t.Errorf("shared cell declared %d times, want 1", got)
	}
}

func TestToDOTOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    []string
		notWant []string
	}{
		{
			name:    "first path only",
			opts:    Options{Paths: []int{0}},
			want:    []string{`"X(1,1)" -> "X(0,0)";`},
			notWant: []string{"P(1,0)"},
		},
		{
			name: "scores",
			opts: Options{Scores: true},
			want: []string{`label="X(1,1)\n1"`, `label="P(1,0)\n-3"`},
		},
		{
			name:    "unknown index",
			opts:    Options{Paths: []int{7}},
			notWant: []string{"->"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := ToDOT(affineOutput(), tt.opts)
			for _, w := range tt.want {
				if !strings.Contains(dot, w) {
					t.Errorf("DOT missing %q\n%s", w, dot)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(dot, w) {
					t.Errorf("DOT contains %q\n%s", w, dot)
				}
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); !bytes.Equal(got, plain) {
		t.Errorf("normalizeViewBox() without viewBox = %s", got)
	}
}

func TestRender(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in short mode")
	}
	ctx := context.Background()
	dot := ToDOT(affineOutput(), Options{})

	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("RenderSVG() output has no <svg> element")
	}

	png, err := RenderPNG(ctx, dot)
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("RenderPNG() output is not a PNG")
	}

	if _, err := RenderSVG(ctx, "digraph {"); err == nil {
		t.Error("RenderSVG(invalid) succeeded, want error")
	}
}
