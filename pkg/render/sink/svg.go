package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/tracegrid/pkg/grid"
	"github.com/matzehuels/tracegrid/pkg/overlay"
)

const cellCSS = `
    .cell { fill: #ffffff; stroke: #d1d5db; stroke-width: 1; }
    .cell.header { fill: #f3f4f6; }
    .cell.selected { fill: #c7d2fe; }
    .cell.selected_very_light_red { fill: #fee2e2; }
    .cell.selected_light_red { fill: #fecaca; }
    .cell.selected_red { fill: #f87171; }
    .cell.selected_green { fill: #86efac; }
    .cell-text { font-family: monospace; font-size: 13px; fill: #111827; }
    .cell-text.header { font-weight: bold; }
    .glyph { font-family: monospace; font-size: 10px; fill: #374151; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style Style
	title string
}

func WithStyle(s Style) SVGOption      { return func(r *svgRenderer) { r.style = s } }
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// RenderSVG renders the scene as a standalone SVG document.
func RenderSVG(s Scene, opts ...SVGOption) []byte {
	r := svgRenderer{style: DefaultStyle()}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", cellCSS)
	r.renderDefs(&buf)

	for _, t := range s.Tables {
		fmt.Fprintf(&buf, `  <g class="table" id="table-%s">`+"\n", t.Matrix)
		for _, c := range t.Cells {
			renderCell(&buf, c, s.CellWidth, s.CellHeight)
		}
		buf.WriteString("  </g>\n")
	}
	for _, l := range s.Lines {
		r.renderLine(&buf, l)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	for _, k := range []overlay.Kind{overlay.Traceback, overlay.Flow} {
		fmt.Fprintf(buf, `    <marker id="%s" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">`+"\n",
			markerID(k))
		fmt.Fprintf(buf, `      <path d="M0,0 L10,5 L0,10 z" fill="%s"/>`+"\n", escapeXML(r.style.LineColor(k)))
		buf.WriteString("    </marker>\n")
	}
	buf.WriteString("  </defs>\n")
}

func (r *svgRenderer) renderLine(buf *bytes.Buffer, l overlay.Line) {
	dash := ""
	if r.style.DashArray != "" {
		dash = fmt.Sprintf(` stroke-dasharray="%s"`, escapeXML(r.style.DashArray))
	}
	fmt.Fprintf(buf, `  <line class="line %s" id="line-%d" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"%s marker-end="url(#%s)"/>`+"\n",
		l.Kind, l.ID, l.X1, l.Y1, l.X2, l.Y2,
		escapeXML(r.style.LineColor(l.Kind)), r.style.StrokeWidth, dash, markerID(l.Kind))
}

func renderCell(buf *bytes.Buffer, c Cell, w, h float64) {
	class := cellClass(c)
	fmt.Fprintf(buf, `    <rect class="%s" data-row="%d" data-col="%d" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
		class, c.Row, c.Col, c.X, c.Y, w, h)
	if c.Label != "" {
		textClass := "cell-text"
		if c.Header {
			textClass += " header"
		}
		fmt.Fprintf(buf, `    <text class="%s" x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			textClass, c.X+w/2, c.Y+h/2, escapeXML(c.Label))
	}
	if len(c.Glyphs) > 0 {
		fmt.Fprintf(buf, `    <text class="glyph" x="%.1f" y="%.1f">%s</text>`+"\n",
			c.X+3, c.Y+11, glyphText(c.Glyphs))
	}
}

func cellClass(c Cell) string {
	parts := []string{"cell"}
	if c.Header {
		parts = append(parts, "header")
	}
	parts = append(parts, c.Classes...)
	return escapeXML(strings.Join(parts, " "))
}

func glyphText(gs []grid.Glyph) string {
	var sb strings.Builder
	for _, g := range gs {
		sb.WriteString(g.Arrow())
	}
	return sb.String()
}

func markerID(k overlay.Kind) string { return "arrow-" + k.String() }
