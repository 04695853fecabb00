package geometry

// Default anchor fractions.
const (
	DefaultLineOffset      = 0.25
	DefaultHeadPenetration = 0.1
)

// Rect is the pixel bounding box of a rendered cell.
type Rect struct {
	Left, Top, Width, Height float64
}

// Segment is a directed line. (X1,Y1) lies in the later cell of the move and
// (X2,Y2), where the arrowhead sits, in the earlier one.
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// Fractions are the cell-relative offsets shared by all line rules.
type Fractions struct {
	// Line is the offset of an anchor from the cell edge.
	Line float64 `toml:"line" json:"line"`
	// HeadPenetration is how far the arrowhead reaches into the origin cell.
	HeadPenetration float64 `toml:"head_penetration" json:"head_penetration"`
}

// DefaultFractions returns the default anchor fractions.
func DefaultFractions() Fractions {
	return Fractions{Line: DefaultLineOffset, HeadPenetration: DefaultHeadPenetration}
}

// anchor is a fraction of the box extent measured from its left or top edge.
type anchor func(f Fractions) float64

var (
	near     anchor = func(f Fractions) float64 { return f.Line }
	far      anchor = func(f Fractions) float64 { return 1 - f.Line }
	headEdge anchor = func(f Fractions) float64 { return 1 - f.HeadPenetration }
)

// lineRule positions both ends of a line: to-x, to-y, from-x, from-y.
type lineRule [4]anchor

// Cross-matrix rules depend on where the two cells sit on the page. A gap
// opened from the main matrix into P ends in the lower right of the P cell;
// closing P back into the main matrix starts in its upper left.
var lineRules = map[Move]lineRule{
	LongHorizontal: {near, near, headEdge, near},
	LongVertical:   {near, near, near, headEdge},
	PToX:           {near, near, near, far},
	QToX:           {near, far, near, near},
	XToP:           {far, far, far, near},
	XToQ:           {near, near, far, far},
}

// Anchors computes the line for a long move. Both ends are scaled by the
// size of the to-cell. It returns false for short moves and [None].
func Anchors(m Move, to, from Rect, f Fractions) (Segment, bool) {
	rule, ok := lineRules[m]
	if !ok {
		return Segment{}, false
	}
	w, h := to.Width, to.Height
	return Segment{
		X1: to.Left + w*rule[0](f),
		Y1: to.Top + h*rule[1](f),
		X2: from.Left + w*rule[2](f),
		Y2: from.Top + h*rule[3](f),
	}, true
}
