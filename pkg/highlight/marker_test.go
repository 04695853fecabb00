package highlight

import (
	"slices"
	"testing"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/grid"
)

func testCell(t *testing.T) *grid.MemCell {
	t.Helper()
	l := grid.NewLayout(align.Input{SequenceA: "A", SequenceB: "A"}, align.Output{Matrix: align.Grid{{0, 0}, {0, 0}}})
	c, ok := l.MemCell(align.Default, 2, 2)
	if !ok {
		t.Fatal("layout has no cell (2,2)")
	}
	return c
}

func TestTierClass(t *testing.T) {
	tests := []struct {
		c    ColorClass
		want string
	}{
		{None, ClassSelected},
		{Tier(0), ClassLightRed},
		{Tier(1), ClassVeryLightRed},
		{Tier(2), ClassRed},
		{Tier(7), ClassRed},
		{Tier(-3), ClassSelected},
	}
	for _, tt := range tests {
		if got := tt.c.Class(); got != tt.want {
			t.Errorf("ColorClass(%d).Class() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestMarkIdempotent(t *testing.T) {
	var m Marker
	for _, c := range []ColorClass{None, Tier(0), Tier(1), Tier(2)} {
		for _, terminal := range []bool{false, true} {
			once, twice := testCell(t), testCell(t)
			m.Mark(once, c, terminal)
			m.Mark(twice, c, terminal)
			m.Mark(twice, c, terminal)
			if !slices.Equal(once.Classes(), twice.Classes()) {
				t.Errorf("Mark(%d, %v) twice = %v, once = %v", c, terminal, twice.Classes(), once.Classes())
			}
		}
	}
}

func TestMarkTerminalReplacesTier(t *testing.T) {
	var m Marker
	c := testCell(t)
	m.Mark(c, Tier(1), false)
	m.Mark(c, Tier(0), true)
	if c.HasClass(ClassLightRed) || c.HasClass(ClassVeryLightRed) {
		t.Errorf("terminal cell kept tier classes: %v", c.Classes())
	}
	if !c.HasClass(ClassTerminal) {
		t.Errorf("terminal cell lacks %s: %v", ClassTerminal, c.Classes())
	}
}

func TestDemark(t *testing.T) {
	var m Marker

	c := testCell(t)
	m.Mark(c, None, true)
	m.Mark(c, Tier(2), false)
	m.Demark(c, None)
	if c.HasClass(ClassSelected) || c.HasClass(ClassTerminal) {
		t.Errorf("Demark(None) left %v", c.Classes())
	}
	if !c.HasClass(ClassRed) {
		t.Error("Demark(None) must not touch tier classes")
	}

	c = testCell(t)
	m.Mark(c, None, false)
	m.Mark(c, Tier(0), false)
	m.Mark(c, Tier(2), true)
	m.Demark(c, Tier(0))
	m.Demark(c, Tier(0))
	if got := c.Classes(); !slices.Equal(got, []string{ClassSelected}) {
		t.Errorf("Demark(tier) classes = %v, want only %s", got, ClassSelected)
	}
}

func TestShortArrows(t *testing.T) {
	var m Marker
	c := testCell(t)
	m.PlaceShortArrow(c, grid.GlyphDiagonal)
	m.PlaceShortArrow(c, grid.GlyphDiagonal)
	m.PlaceShortArrow(c, grid.GlyphUp)
	if got := c.Glyphs(); !slices.Equal(got, []grid.Glyph{grid.GlyphDiagonal, grid.GlyphUp}) {
		t.Errorf("Glyphs() = %v, want one diagonal and one up", got)
	}
	m.ClearArrows(c)
	if len(c.Glyphs()) != 0 {
		t.Errorf("ClearArrows left %v", c.Glyphs())
	}
}
