package geometry

import (
	"testing"

	"github.com/matzehuels/tracegrid/pkg/align"
)

func TestAnchors(t *testing.T) {
	to := Rect{Left: 100, Top: 200, Width: 40, Height: 20}
	from := Rect{Left: 20, Top: 120, Width: 40, Height: 20}
	f := Fractions{Line: 0.25, HeadPenetration: 0.1}

	tests := []struct {
		move Move
		want Segment
	}{
		{LongHorizontal, Segment{110, 205, 56, 125}},
		{LongVertical, Segment{110, 205, 30, 138}},
		{PToX, Segment{110, 205, 30, 135}},
		{QToX, Segment{110, 215, 30, 125}},
		{XToP, Segment{130, 215, 50, 125}},
		{XToQ, Segment{110, 205, 50, 135}},
	}

	for _, tt := range tests {
		t.Run(tt.move.String(), func(t *testing.T) {
			got, ok := Anchors(tt.move, to, from, f)
			if !ok {
				t.Fatalf("Anchors(%v) not ok", tt.move)
			}
			if got != tt.want {
				t.Errorf("Anchors(%v) = %+v, want %+v", tt.move, got, tt.want)
			}
		})
	}
}

// A gap opened at X(0,0) into P(1,0) with 56x32 cells, the P table left of
// the main one.
func TestAnchorsGapOpen(t *testing.T) {
	from := align.At(align.Default, 0, 0)
	to := align.At(align.Vertical, 1, 0)
	move := Classify(from, to)
	if move != XToP {
		t.Fatalf("Classify(%v, %v) = %v, want %v", from, to, move, XToP)
	}

	toBox := Rect{Left: 72, Top: 80, Width: 56, Height: 32}
	fromBox := Rect{Left: 288, Top: 48, Width: 56, Height: 32}
	got, _ := Anchors(move, toBox, fromBox, DefaultFractions())
	if want := (Segment{X1: 114, Y1: 104, X2: 330, Y2: 56}); got != want {
		t.Errorf("gap-open line = %+v, want %+v", got, want)
	}
}

func TestAnchorsShortMoves(t *testing.T) {
	for _, m := range []Move{None, Diagonal, StepLeft, StepUp} {
		if _, ok := Anchors(m, Rect{}, Rect{}, DefaultFractions()); ok {
			t.Errorf("Anchors(%v) should not produce a line", m)
		}
	}
}

func TestAnchorsScaleWithCellSize(t *testing.T) {
	small := Rect{Width: 10, Height: 10}
	big := Rect{Width: 20, Height: 20}
	f := DefaultFractions()

	a, _ := Anchors(LongVertical, small, small, f)
	b, _ := Anchors(LongVertical, big, big, f)
	if b.X1 != 2*a.X1 || b.Y2 != 2*a.Y2 {
		t.Errorf("anchors do not scale: %+v vs %+v", a, b)
	}
}
