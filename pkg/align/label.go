package align

import (
	"strconv"
	"strings"
	"unicode"
)

var subscriptDigits = []rune("₀₁₂₃₄₅₆₇₈₉")

// CharLabel formats a sequence header: the upper-cased character followed by
// its one-based position as subscript digits, e.g. ('a', 3) -> "A₃".
func CharLabel(ch rune, index int) string {
	var b strings.Builder
	b.WriteRune(unicode.ToUpper(ch))
	for _, d := range strconv.Itoa(index) {
		if d == '-' {
			b.WriteRune('₋')
			continue
		}
		b.WriteRune(subscriptDigits[d-'0'])
	}
	return b.String()
}

// HeaderLabels returns the labels of a sequence header, one per character.
func HeaderLabels(seq string) []string {
	labels := make([]string, 0, len(seq))
	for i, r := range []rune(seq) {
		labels = append(labels, CharLabel(r, i+1))
	}
	return labels
}

// LabelCodec turns the main matrix into symbols for cell labels. Unlike
// [DefaultCodec] it keeps the numeric signs.
var LabelCodec = Codec{}

// DisplaySymbol renders an infinity marker as the glyph shown in a cell.
// Other symbols are returned unchanged.
func DisplaySymbol(s string) string {
	switch s {
	case LatexInfinity:
		return SymbolInfinity
	case LatexNegativeInfinity:
		return SymbolNegativeInfinity
	}
	return s
}
