package sink

import (
	"bytes"
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/matzehuels/tracegrid/pkg/errors"
	"github.com/matzehuels/tracegrid/pkg/grid"
	"github.com/matzehuels/tracegrid/pkg/overlay"
)

// DefaultPNGScale is the raster scale relative to document pixels.
const DefaultPNGScale = 2.0

const (
	pngFontSize   = 13.0
	pngArrowSize  = 7.0
	pngArrowAngle = 0.5
	glyphSize     = 7.0
)

// PNGOption configures [RenderPNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	style Style
	scale float64
}

// WithPNGStyle sets the line style.
func WithPNGStyle(s Style) PNGOption { return func(r *pngRenderer) { r.style = s } }

// WithScale sets the raster scale. Non-positive values are ignored.
func WithScale(scale float64) PNGOption {
	return func(r *pngRenderer) {
		if scale > 0 {
			r.scale = scale
		}
	}
}

// RenderPNG rasterises the scene.
func RenderPNG(s Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{style: DefaultStyle(), scale: DefaultPNGScale}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := int(math.Ceil(s.Width*r.scale)), int(math.Ceil(s.Height*r.scale))
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty scene (%dx%d)", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()
	dc.Scale(r.scale, r.scale)

	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse font")
	}
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{
		Size:    pngFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	for _, t := range s.Tables {
		for _, c := range t.Cells {
			drawCellPNG(dc, c, s.CellWidth, s.CellHeight)
		}
	}
	for _, l := range s.Lines {
		r.drawLinePNG(dc, l)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func drawCellPNG(dc *gg.Context, c Cell, w, h float64) {
	fill := cellFills[FillClass(c.Classes)]
	if fill == cellFills[""] && c.Header {
		fill = cellFills["header"]
	}
	dc.DrawRectangle(c.X, c.Y, w, h)
	dc.SetColor(parseHex(fill))
	dc.FillPreserve()
	dc.SetColor(parseHex("#d1d5db"))
	dc.SetLineWidth(1)
	dc.Stroke()

	if c.Label != "" {
		dc.SetColor(parseHex("#111827"))
		dc.DrawStringAnchored(plainDigits(c.Label), c.X+w/2, c.Y+h/2, 0.5, 0.35)
	}

	// Glyphs are drawn as vector arrows; the bundled face has no ↖.
	dc.SetColor(parseHex("#374151"))
	dc.SetLineWidth(1)
	for i, g := range c.Glyphs {
		ox := c.X + 3 + float64(i)*(glyphSize+3)
		oy := c.Y + 3
		drawGlyphPNG(dc, g, ox, oy)
	}
}

// drawGlyphPNG draws a short arrow into the glyphSize box at (x, y).
func drawGlyphPNG(dc *gg.Context, g grid.Glyph, x, y float64) {
	var fx, fy, tx, ty float64
	switch g {
	case grid.GlyphUp:
		fx, fy, tx, ty = x+glyphSize/2, y+glyphSize, x+glyphSize/2, y
	case grid.GlyphLeft:
		fx, fy, tx, ty = x+glyphSize, y+glyphSize/2, x, y+glyphSize/2
	default:
		fx, fy, tx, ty = x+glyphSize, y+glyphSize, x, y
	}
	dc.DrawLine(fx, fy, tx, ty)
	dc.Stroke()
	drawArrowHead(dc, fx, fy, tx, ty, 3)
}

func (r *pngRenderer) drawLinePNG(dc *gg.Context, l overlay.Line) {
	dc.SetColor(parseHex(r.style.LineColor(l.Kind)))
	dc.SetLineWidth(r.style.StrokeWidth)
	dc.SetDash(r.style.dashes()...)
	dc.DrawLine(l.X1, l.Y1, l.X2, l.Y2)
	dc.Stroke()
	dc.SetDash()
	drawArrowHead(dc, l.X1, l.Y1, l.X2, l.Y2, pngArrowSize)
}

// drawArrowHead fills a triangle whose tip sits at (tx, ty).
func drawArrowHead(dc *gg.Context, fx, fy, tx, ty, size float64) {
	dx, dy := tx-fx, ty-fy
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	dc.MoveTo(tx, ty)
	dc.LineTo(tx-size*dx+size*dy*pngArrowAngle, ty-size*dy-size*dx*pngArrowAngle)
	dc.LineTo(tx-size*dx-size*dy*pngArrowAngle, ty-size*dy+size*dx*pngArrowAngle)
	dc.ClosePath()
	dc.Fill()
}

var subscripts = strings.NewReplacer(
	"₀", "0", "₁", "1", "₂", "2", "₃", "3", "₄", "4",
	"₅", "5", "₆", "6", "₇", "7", "₈", "8", "₉", "9",
)

// plainDigits replaces subscript digits, which the bundled face lacks.
func plainDigits(s string) string { return subscripts.Replace(s) }
