package sink

import (
	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/grid"
	"github.com/matzehuels/tracegrid/pkg/overlay"
)

// Scene is a render-ready snapshot of a grid and its overlay.
type Scene struct {
	Width      float64        `json:"width"`
	Height     float64        `json:"height"`
	CellWidth  float64        `json:"cell_width"`
	CellHeight float64        `json:"cell_height"`
	Tables     []Table        `json:"tables"`
	Lines      []overlay.Line `json:"lines"`
}

// Table is one matrix of the scene.
type Table struct {
	Matrix align.Matrix `json:"matrix"`
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	Cells  []Cell       `json:"cells"`
}

// Cell is one table cell in document coordinates.
type Cell struct {
	Row     int          `json:"row"`
	Col     int          `json:"col"`
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	Label   string       `json:"label,omitempty"`
	Header  bool         `json:"header,omitempty"`
	Classes []string     `json:"classes,omitempty"`
	Glyphs  []grid.Glyph `json:"glyphs,omitempty"`
}

// BuildScene snapshots a layout and canvas.
func BuildScene(l *grid.Layout, c *overlay.Canvas) Scene {
	w, h := l.DocumentSize()
	cw, ch := l.CellSize()
	s := Scene{Width: w, Height: h, CellWidth: cw, CellHeight: ch}
	if c != nil {
		s.Lines = c.Lines()
	}

	rows, cols := l.Dims()
	for _, m := range l.Matrices() {
		x, y, _ := l.TableOrigin(m)
		t := Table{Matrix: m, X: x, Y: y, Cells: make([]Cell, 0, rows*cols)}
		for r := 0; r < rows; r++ {
			for col := 0; col < cols; col++ {
				mc, ok := l.MemCell(m, r, col)
				if !ok {
					continue
				}
				b := mc.Bounds()
				t.Cells = append(t.Cells, Cell{
					Row:     r,
					Col:     col,
					X:       b.Left,
					Y:       b.Top,
					Label:   mc.Label(),
					Header:  r == 0 || col == 0,
					Classes: mc.Classes(),
					Glyphs:  mc.Glyphs(),
				})
			}
		}
		s.Tables = append(s.Tables, t)
	}
	return s
}

// FillClass returns the class that decides a cell's fill. The terminal
// style wins over the flow tiers, which win over the plain selection.
func FillClass(classes []string) string {
	best, rank := "", -1
	for _, c := range classes {
		if r, ok := classRank[c]; ok && r > rank {
			best, rank = c, r
		}
	}
	return best
}

var classRank = map[string]int{
	"selected":                0,
	"selected_very_light_red": 1,
	"selected_light_red":      2,
	"selected_red":            3,
	"selected_green":          4,
}
