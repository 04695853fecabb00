package grid

import (
	"math"
	"testing"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/geometry"
)

func affineRun() (align.Input, align.Output) {
	in := align.Input{SequenceA: "AG", SequenceB: "AC"}
	inf := math.Inf(-1)
	out := align.Output{
		Matrix:         align.Grid{{0, inf, inf}, {inf, 1, 0}, {inf, 0, 0}},
		VerticalGaps:   align.Symbols{{"a", `\infty`, "c"}, {"d", "e", "f"}, {"g", "h", `-\infty`}},
		HorizontalGaps: align.Symbols{{"1", "2", "3"}, {"4", "5", "6"}, {"7", "8", "9"}},
	}
	return in, out
}

func TestLayoutTables(t *testing.T) {
	in, out := affineRun()
	l := NewLayout(in, out)

	if got := l.Matrices(); len(got) != 3 || got[0] != align.Vertical || got[1] != align.Default || got[2] != align.Horizontal {
		t.Errorf("Matrices() = %v", got)
	}
	rows, cols := l.Dims()
	if rows != 4 || cols != 4 {
		t.Errorf("Dims() = %d x %d, want 4 x 4", rows, cols)
	}

	tests := []struct {
		m        align.Matrix
		row, col int
		want     string
	}{
		{align.Default, 0, 0, "X"},
		{align.Vertical, 0, 0, "P"},
		{align.Default, 0, 1, ""},
		{align.Default, 0, 2, "A₁"},
		{align.Default, 0, 3, "G₂"},
		{align.Default, 3, 0, "C₂"},
		{align.Default, 1, 1, "0"},
		{align.Default, 1, 2, "-∞"},
		{align.Vertical, 2, 2, "e"},
		{align.Vertical, 1, 2, "∞"},
		{align.Vertical, 3, 3, "-∞"},
		{align.Horizontal, 3, 3, "9"},
	}
	for _, tt := range tests {
		c, ok := l.MemCell(tt.m, tt.row, tt.col)
		if !ok {
			t.Errorf("MemCell(%v,%d,%d) missing", tt.m, tt.row, tt.col)
			continue
		}
		if c.Label() != tt.want {
			t.Errorf("label %v(%d,%d) = %q, want %q", tt.m, tt.row, tt.col, c.Label(), tt.want)
		}
		if c.Matrix() != tt.m {
			t.Errorf("cell matrix = %v, want %v", c.Matrix(), tt.m)
		}
	}
}

func TestLayoutWithoutGaps(t *testing.T) {
	in, out := affineRun()
	out.VerticalGaps, out.HorizontalGaps = nil, nil
	l := NewLayout(in, out)

	if got := l.Matrices(); len(got) != 1 || got[0] != align.Default {
		t.Errorf("Matrices() = %v, want [X]", got)
	}
	if _, ok := l.Cell(align.Vertical, 1, 1); ok {
		t.Error("vertical table should not exist")
	}
}

func TestLayoutBoundsAndResize(t *testing.T) {
	in, out := affineRun()
	l := NewLayout(in, out, WithCellSize(10, 5), WithTableGap(20), WithMargin(2))

	c, _ := l.Cell(align.Default, 1, 2)
	// default is the second table: 2 + (4*10 + 20) = 62
	want := geometry.Rect{Left: 82, Top: 7, Width: 10, Height: 5}
	if got := c.Bounds(); got != want {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}

	w, h := l.DocumentSize()
	if w != 2*2+3*40+2*20 || h != 2*2+4*5 {
		t.Errorf("DocumentSize() = %v x %v", w, h)
	}

	l.Resize(20, 10)
	want = geometry.Rect{Left: 2 + 100 + 40, Top: 12, Width: 20, Height: 10}
	if got := c.Bounds(); got != want {
		t.Errorf("Bounds() after resize = %+v, want %+v", got, want)
	}
}

func TestLayoutReshapeKeepsSurvivors(t *testing.T) {
	in, out := affineRun()
	l := NewLayout(in, out)

	c, _ := l.Cell(align.Default, 2, 2)
	c.AddClass("selected")
	far, _ := l.Cell(align.Default, 3, 3)
	far.AddClass("selected")

	small := align.Input{SequenceA: "A", SequenceB: "A"}
	l.Reshape(small, align.Output{Matrix: align.Grid{{0, 1}, {1, 2}}})

	again, ok := l.Cell(align.Default, 2, 2)
	if !ok || !again.HasClass("selected") {
		t.Error("surviving cell should keep its classes")
	}
	if _, ok := l.Cell(align.Default, 3, 3); ok {
		t.Error("cell outside the new shape should vanish")
	}
	if _, ok := l.Cell(align.Vertical, 1, 1); ok {
		t.Error("gap table should vanish for a linear run")
	}
}

func TestLookupAppliesHeaderOffset(t *testing.T) {
	in, out := affineRun()
	l := NewLayout(in, out)

	c, ok := Lookup(l, align.At(align.Horizontal, 0, 0))
	if !ok {
		t.Fatal("Lookup failed")
	}
	mc := c.(*MemCell)
	if r, col := mc.Position(); r != 1 || col != 1 {
		t.Errorf("Position() = (%d,%d), want (1,1)", r, col)
	}
}

func TestMemCellIdempotence(t *testing.T) {
	c := &MemCell{}
	c.AddClass("selected")
	c.AddClass("selected")
	if len(c.Classes()) != 1 {
		t.Errorf("Classes() = %v", c.Classes())
	}
	c.AttachGlyph(GlyphUp)
	c.AttachGlyph(GlyphUp)
	c.AttachGlyph(GlyphLeft)
	if got := c.Glyphs(); len(got) != 2 {
		t.Errorf("Glyphs() = %v", got)
	}
	c.DetachGlyphs()
	if c.HasGlyph(GlyphUp) {
		t.Error("DetachGlyphs left a glyph")
	}
	c.RemoveClass("selected")
	c.RemoveClass("selected")
	if c.HasClass("selected") {
		t.Error("RemoveClass left the class")
	}
}

func TestResultRows(t *testing.T) {
	rows := RowsForPaths([]align.Path{{align.At(align.Default, 0, 0)}, {}})
	if rows.Len() != 2 {
		t.Fatalf("Len() = %d", rows.Len())
	}
	if rows.Label(0) != "path 1 (1 cells)" {
		t.Errorf("Label(0) = %q", rows.Label(0))
	}
	if _, ok := rows.Row(2); ok {
		t.Error("Row(2) should not exist")
	}
}
