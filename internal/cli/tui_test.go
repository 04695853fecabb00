package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/errors"
	"github.com/matzehuels/tracegrid/pkg/export"
	"github.com/matzehuels/tracegrid/pkg/pipeline"
)

func newTestGrid(t *testing.T, gridOpts ...GridOption) GridModel {
	t.Helper()
	ws, err := pipeline.NewWorkspace(testComputation(), pipeline.Options{})
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	m, err := NewGridModel(ws, pipeline.Options{}, gridOpts...)
	if err != nil {
		t.Fatalf("NewGridModel: %v", err)
	}
	return m
}

func press(m GridModel, keys ...string) GridModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(GridModel)
	}
	return m
}

func TestNewGridModelRejectsInvalidOptions(t *testing.T) {
	ws, err := pipeline.NewWorkspace(testComputation(), pipeline.Options{})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		opts pipeline.Options
		code errors.Code
	}{
		{"negative cell width", pipeline.Options{CellWidth: -1}, errors.ErrCodeInvalidInput},
		{"unknown format", pipeline.Options{Formats: []string{"pdf"}}, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGridModel(ws, tt.opts); !errors.Is(err, tt.code) {
				t.Errorf("NewGridModel error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestGridModelCursor(t *testing.T) {
	m := newTestGrid(t)
	if c, ok := m.Cursor(); !ok || c != d(0, 0) {
		t.Fatalf("initial cursor = %v, want %v", c, d(0, 0))
	}

	m = press(m, "down", "down", "down", "right", "l", "l")
	if c, _ := m.Cursor(); c != d(2, 2) {
		t.Errorf("cursor = %v, want clamped to %v", c, d(2, 2))
	}

	m = press(m, "k", "h")
	if c, _ := m.Cursor(); c != d(1, 1) {
		t.Errorf("cursor = %v, want %v", c, d(1, 1))
	}
}

func TestGridModelTraceback(t *testing.T) {
	m := newTestGrid(t)

	m = press(m, "0")
	if !strings.Contains(m.Status, "path 0 shown") {
		t.Errorf("status = %q after 0", m.Status)
	}
	snap := m.ws.Highlighter.Snapshot()
	if !snap.PathShown() || snap.Row != 0 {
		t.Errorf("snapshot = %+v, want path 0 and row 0 selected", snap)
	}
	if !strings.Contains(m.View(), "▸") {
		t.Error("view does not mark the selected results row")
	}

	m = press(m, "0")
	if !strings.Contains(m.Status, "hidden") || m.ws.Highlighter.Snapshot().PathShown() {
		t.Errorf("second 0 must hide the path, status %q", m.Status)
	}

	m = press(m, "7")
	if !strings.HasPrefix(m.Status, "error:") {
		t.Errorf("status = %q for a missing path", m.Status)
	}
}

func TestGridModelFlow(t *testing.T) {
	m := newTestGrid(t)
	m = press(m, "j", "j", "l", "l", "enter")

	if want := "3 flow path(s) into X(2,2)"; m.Status != want {
		t.Errorf("status = %q, want %q", m.Status, want)
	}
	if got := m.ws.Highlighter.Snapshot().Flows; got != 3 {
		t.Errorf("flows = %d, want 3", got)
	}
}

func TestGridModelResize(t *testing.T) {
	m := newTestGrid(t)
	w, h := m.ws.Layout.CellSize()

	m = press(m, "+")
	if gw, gh := m.ws.Layout.CellSize(); gw != w*resizeStep || gh != h*resizeStep {
		t.Errorf("cell size after + = %gx%g, want %gx%g", gw, gh, w*resizeStep, h*resizeStep)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: referenceWidth / 2, Height: 40})
	m = next.(GridModel)
	if gw, _ := m.ws.Layout.CellSize(); gw != w/2 {
		t.Errorf("cell width after half-width window = %g, want %g", gw, w/2)
	}
}

func TestGridModelWriteAndExport(t *testing.T) {
	dir := t.TempDir()
	saver, err := export.NewFileSaver(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	svgPath := filepath.Join(dir, "grid.svg")
	m := newTestGrid(t, WithGridExport(align.DefaultCodec, saver), WithGridSVGPath(svgPath))

	m = press(m, "0", "w")
	if m.Written != svgPath {
		t.Fatalf("Written = %q, status %q", m.Written, m.Status)
	}
	svg, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "selected_green") {
		t.Error("written svg lacks the highlighted path")
	}

	m = press(m, "x")
	csv, err := os.ReadFile(filepath.Join(dir, export.DefaultFilename))
	if err != nil {
		t.Fatalf("export: %v (status %q)", err, m.Status)
	}
	if !strings.HasPrefix(string(csv), "X,") {
		t.Errorf("export starts with %q", strings.SplitN(string(csv), "\n", 2)[0])
	}
}

func TestGridModelQuit(t *testing.T) {
	m := newTestGrid(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
