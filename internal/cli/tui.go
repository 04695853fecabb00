package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/errors"
	"github.com/matzehuels/tracegrid/pkg/export"
	"github.com/matzehuels/tracegrid/pkg/highlight"
	"github.com/matzehuels/tracegrid/pkg/pipeline"
	"github.com/matzehuels/tracegrid/pkg/render/sink"
)

// referenceWidth is the terminal width at which cells keep their configured
// pixel size. Wider or narrower terminals scale the cells.
const referenceWidth = 120

// resizeStep is the factor applied by the + and - keys.
const resizeStep = 1.25

// Grid styles
var (
	gridHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	gridCellStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	gridBorderStyle = lipgloss.NewStyle().Foreground(colorDim)

	gridFillStyles = map[string]lipgloss.Style{
		highlight.ClassSelected:     lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("110")),
		highlight.ClassVeryLightRed: lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("224")),
		highlight.ClassLightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("217")),
		highlight.ClassRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(colorRed),
		highlight.ClassTerminal:     lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(colorGreen),
	}

	rowSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	rowNormalStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// tuiCommand creates the interactive grid command.
func (c *CLI) tuiCommand() *cobra.Command {
	var svgPath string

	cmd := &cobra.Command{
		Use:   "tui [computation.json]",
		Short: "Explore traceback paths interactively",
		Long: `Open the alignment grid in the terminal.

Keys:
  arrows/hjkl  move the cursor        tab    next matrix
  enter        show the cell's flow   0-9    toggle a traceback path
  + / -        resize cells           w      write the overlay as SVG
  x            export the matrix      q      quit`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeComputationFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context(), args[0], svgPath)
		},
	}

	cmd.Flags().StringVarP(&svgPath, "output", "o", "", "file written by the w key (default <input>.svg)")

	return cmd
}

func (c *CLI) runTUI(ctx context.Context, input, svgPath string) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	comp, err := readComputation(input)
	if err != nil {
		return err
	}

	// The workspace logs to a discard logger while the alternate screen is up.
	opts := renderOptions(cfg)
	ws, err := pipeline.NewWorkspace(comp, opts)
	if err != nil {
		return err
	}
	saver, err := export.NewFileSaver(cfg.Export.Directory, cfg.Export.Filename)
	if err != nil {
		return err
	}
	if svgPath == "" {
		svgPath = outputPath("", input, pipeline.FormatSVG, false)
	}

	m, err := NewGridModel(ws, opts,
		WithGridExport(cfg.Export.Codec(), saver),
		WithGridSVGPath(svgPath))
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	if gm, ok := final.(GridModel); ok && gm.Written != "" {
		logger.Debug("tui wrote files", "last", gm.Written)
	}
	return nil
}

// =============================================================================
// GridModel - Interactive grid
// =============================================================================

// GridModel is the bubbletea model of the interactive grid.
type GridModel struct {
	ws    *pipeline.Workspace
	opts  pipeline.Options
	scene sink.Scene

	codec   align.Codec
	saver   export.Saver
	svgPath string

	// Table is the index of the focused table in the scene.
	Table int
	// Row and Col are the display position of the cursor; 0 is the header.
	Row, Col int

	Status  string
	Written string

	baseW, baseH float64
}

// GridOption configures a GridModel.
type GridOption func(*GridModel)

// WithGridExport sets the codec and destination of the x key.
func WithGridExport(codec align.Codec, saver export.Saver) GridOption {
	return func(m *GridModel) { m.codec, m.saver = codec, saver }
}

// WithGridSVGPath sets the file written by the w key.
func WithGridSVGPath(path string) GridOption {
	return func(m *GridModel) { m.svgPath = path }
}

// NewGridModel creates a grid model over ws with the cursor on the first
// cell of the main matrix. opts are the render options used by the w key.
func NewGridModel(ws *pipeline.Workspace, opts pipeline.Options, gridOpts ...GridOption) (GridModel, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return GridModel{}, err
	}
	w, h := ws.Layout.CellSize()
	m := GridModel{
		ws:     ws,
		opts:   opts,
		codec:  align.DefaultCodec,
		Row:    1,
		Col:    1,
		Status: "press 0-9 for a traceback path, enter for a flow",
		baseW:  w,
		baseH:  h,
	}
	for _, opt := range gridOpts {
		opt(&m)
	}
	m.scene = ws.Scene()
	for i, t := range m.scene.Tables {
		if t.Matrix == align.Default {
			m.Table = i
		}
	}
	return m, nil
}

func (m GridModel) Init() tea.Cmd {
	return nil
}

func (m GridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.Row = max(m.Row-1, 1)
		case "down", "j":
			m.Row = min(m.Row+1, m.rows()-1)
		case "left", "h":
			m.Col = max(m.Col-1, 1)
		case "right", "l":
			m.Col = min(m.Col+1, m.cols()-1)
		case "tab":
			if n := len(m.scene.Tables); n > 0 {
				m.Table = (m.Table + 1) % n
			}
		case "enter", " ":
			m.showFlow()
		case "+", "=":
			m.resize(resizeStep)
		case "-":
			m.resize(1 / resizeStep)
		case "w":
			m.writeSVG()
		case "x":
			m.export()
		default:
			if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
				m.showTraceback(int(key[0] - '0'))
			}
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			scale := float64(msg.Width) / referenceWidth
			m.ws.Resize(m.baseW*scale, m.baseH*scale)
		}
	}
	m.scene = m.ws.Scene()
	return m, nil
}

// Cursor returns the cell under the cursor in matrix coordinates.
func (m GridModel) Cursor() (align.Cell, bool) {
	if m.Table < 0 || m.Table >= len(m.scene.Tables) || m.Row < 1 || m.Col < 1 {
		return align.Cell{}, false
	}
	return align.At(m.scene.Tables[m.Table].Matrix, m.Row-1, m.Col-1), true
}

func (m *GridModel) showTraceback(index int) {
	shown, err := m.ws.ShowTraceback(index)
	switch {
	case err != nil:
		m.Status = "error: " + errors.UserMessage(err)
	case shown:
		m.Status = fmt.Sprintf("traceback path %d shown", index)
	default:
		m.Status = fmt.Sprintf("traceback path %d hidden", index)
	}
}

func (m *GridModel) showFlow() {
	cell, ok := m.Cursor()
	if !ok {
		return
	}
	n, err := m.ws.ShowFlow(cell)
	if err != nil {
		m.Status = "error: " + errors.UserMessage(err)
		return
	}
	m.Status = fmt.Sprintf("%d flow path(s) into %s", n, cell)
}

func (m *GridModel) resize(factor float64) {
	w, h := m.ws.Layout.CellSize()
	m.ws.Resize(w*factor, h*factor)
	w, h = m.ws.Layout.CellSize()
	m.Status = fmt.Sprintf("cells %.0fx%.0f px, %d lines redrawn", w, h, m.ws.Canvas.Len())
}

func (m *GridModel) writeSVG() {
	if m.svgPath == "" {
		return
	}
	opts := m.opts
	opts.Formats = []string{pipeline.FormatSVG}
	artifacts, err := pipeline.RenderScene(m.ws.Scene(), opts)
	if err == nil {
		err = writeArtifact(m.svgPath, artifacts[pipeline.FormatSVG])
	}
	if err != nil {
		m.Status = "error: " + errors.UserMessage(err)
		return
	}
	m.Written = m.svgPath
	m.Status = "wrote " + m.svgPath
}

func (m *GridModel) export() {
	if m.saver == nil || m.Table >= len(m.scene.Tables) {
		return
	}
	mat := m.scene.Tables[m.Table].Matrix
	data, err := export.Exporter{Codec: m.codec}.Export(m.ws.State, mat.Number())
	var path string
	if err == nil {
		path, err = m.saver.Save(context.Background(), data)
	}
	if err != nil {
		m.Status = "error: " + errors.UserMessage(err)
		return
	}
	m.Written = path
	m.Status = fmt.Sprintf("exported %s to %s", mat, path)
}

func (m GridModel) rows() int {
	rows, _ := m.ws.Layout.Dims()
	return max(rows, 2)
}

func (m GridModel) cols() int {
	_, cols := m.ws.Layout.Dims()
	return max(cols, 2)
}

func (m GridModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Traceback Grid"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓/←/→ move  tab matrix  ⏎ flow  0-9 path  +/- size  w svg  x export  q quit"))
	b.WriteString("\n\n")

	tables := make([]string, 0, len(m.scene.Tables))
	for i, t := range m.scene.Tables {
		tables = append(tables, m.renderTable(i, t))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tables...))
	b.WriteString("\n")

	rows := m.ws.Rows()
	for i := 0; i < rows.Len(); i++ {
		row, _ := rows.Row(i)
		line := fmt.Sprintf("  %d  %s", i, rows.Label(i))
		if row.HasClass(highlight.ClassSelected) {
			b.WriteString(rowSelectedStyle.Render("▸" + line[1:]))
		} else {
			b.WriteString(rowNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(m.Status))
	return b.String()
}

// renderTable draws one matrix. Row 0 of the scene table becomes the header.
func (m GridModel) renderTable(index int, t sink.Table) string {
	nrows, ncols := 0, 0
	for _, c := range t.Cells {
		nrows, ncols = max(nrows, c.Row+1), max(ncols, c.Col+1)
	}
	cells := make([][]sink.Cell, nrows)
	text := make([][]string, nrows)
	for r := range cells {
		cells[r] = make([]sink.Cell, ncols)
		text[r] = make([]string, ncols)
	}
	for _, c := range t.Cells {
		cells[c.Row][c.Col] = c
		text[c.Row][c.Col] = cellText(c)
	}
	if nrows == 0 {
		return ""
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(gridBorderStyle).
		Headers(text[0]...).
		Rows(text[1:]...).
		StyleFunc(func(row, col int) lipgloss.Style {
			r := row + 1
			if row == table.HeaderRow {
				r = 0
			}
			if r >= nrows || col >= ncols {
				return lipgloss.NewStyle()
			}
			base := gridCellStyle
			c := cells[r][col]
			if c.Header {
				base = gridHeaderStyle
			}
			if s, ok := gridFillStyles[sink.FillClass(c.Classes)]; ok {
				base = s
			}
			if index == m.Table && r == m.Row && col == m.Col {
				base = base.Reverse(true).Bold(true)
			}
			return base.Padding(0, 1)
		})

	return tbl.Render()
}

func cellText(c sink.Cell) string {
	var b strings.Builder
	for _, g := range c.Glyphs {
		b.WriteString(g.Arrow())
	}
	if b.Len() > 0 {
		b.WriteString(" ")
	}
	b.WriteString(c.Label)
	return b.String()
}
