package highlight

import "github.com/matzehuels/tracegrid/pkg/grid"

// Cell style classes.
const (
	ClassSelected     = "selected"
	ClassLightRed     = "selected_light_red"
	ClassVeryLightRed = "selected_very_light_red"
	ClassRed          = "selected_red"
	ClassTerminal     = "selected_green"
)

var tierClasses = []string{ClassLightRed, ClassVeryLightRed, ClassRed}

// ColorClass selects the style of a marked cell: None for the plain selected
// style of a traceback path, or a flow intensity tier.
type ColorClass int

// None is the plain selected style.
const None ColorClass = -1

// Tier returns the color class of the i-th flow path. Tiers beyond the
// second share the strongest style.
func Tier(i int) ColorClass {
	if i < 0 {
		return None
	}
	return ColorClass(i)
}

// Class is the style class a cell receives for c.
func (c ColorClass) Class() string {
	if c == None {
		return ClassSelected
	}
	return tierClasses[min(int(c), len(tierClasses)-1)]
}

// Marker styles grid cells. All methods are idempotent.
type Marker struct{}

// Mark styles cell with c. A terminal cell drops any tier style in favor of
// the terminal style.
func (Marker) Mark(cell grid.Cell, c ColorClass, terminal bool) {
	cell.AddClass(c.Class())
	if terminal {
		for _, t := range tierClasses {
			cell.RemoveClass(t)
		}
		cell.AddClass(ClassTerminal)
	}
}

// Demark removes the styles added by Mark with the same color class.
// None removes the plain and terminal styles; any tier removes every tier and
// the terminal style.
func (Marker) Demark(cell grid.Cell, c ColorClass) {
	if c == None {
		cell.RemoveClass(ClassSelected)
	} else {
		for _, t := range tierClasses {
			cell.RemoveClass(t)
		}
	}
	cell.RemoveClass(ClassTerminal)
}

// PlaceShortArrow attaches g unless the cell already carries it.
func (Marker) PlaceShortArrow(cell grid.Cell, g grid.Glyph) {
	if !cell.HasGlyph(g) {
		cell.AttachGlyph(g)
	}
}

// ClearArrows removes every glyph from a cell.
func (Marker) ClearArrows(cell grid.Cell) {
	cell.DetachGlyphs()
}
