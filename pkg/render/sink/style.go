package sink

import (
	"bytes"
	"encoding/xml"
	"image/color"
	"strconv"
	"strings"

	"github.com/matzehuels/tracegrid/pkg/overlay"
)

// Default overlay style.
const (
	DefaultTracebackColor = "#1f2937"
	DefaultFlowColor      = "#dc2626"
	DefaultDashArray      = "5,3"
	DefaultStrokeWidth    = 2.0
)

// Style colours the overlay lines.
type Style struct {
	TracebackColor string
	FlowColor      string
	DashArray      string
	StrokeWidth    float64
}

// DefaultStyle returns the built-in style.
func DefaultStyle() Style {
	return Style{
		TracebackColor: DefaultTracebackColor,
		FlowColor:      DefaultFlowColor,
		DashArray:      DefaultDashArray,
		StrokeWidth:    DefaultStrokeWidth,
	}
}

// LineColor returns the colour of a line kind.
func (s Style) LineColor(k overlay.Kind) string {
	if k == overlay.Flow {
		return s.FlowColor
	}
	return s.TracebackColor
}

// dashes parses the dash array into lengths; an empty or invalid array
// yields a solid line.
func (s Style) dashes() []float64 {
	var out []float64
	for _, f := range strings.FieldsFunc(s.DashArray, func(r rune) bool { return r == ',' || r == ' ' }) {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || v < 0 {
			return nil
		}
		out = append(out, v)
	}
	return out
}

// cellFills maps a fill class to its colour.
var cellFills = map[string]string{
	"":                        "#ffffff",
	"header":                  "#f3f4f6",
	"selected":                "#c7d2fe",
	"selected_very_light_red": "#fee2e2",
	"selected_light_red":      "#fecaca",
	"selected_red":            "#f87171",
	"selected_green":          "#86efac",
}

// parseHex converts #rgb or #rrggbb; anything else is black.
func parseHex(s string) color.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if len(s) != 6 || err != nil {
		return color.Black
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
