package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette shared by the status lines and the TUI grid. The reds and the
// green mirror the cell classes of a highlighted path.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings such as the TUI title bar.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink renders URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue renders file paths and values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning renders warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

// statusLine prints one line starting with a styled icon.
func statusLine(icon lipgloss.Style, glyph, msg string) {
	fmt.Println(icon.Render(glyph) + " " + msg)
}

func printSuccess(format string, args ...any) {
	statusLine(styleIconSuccess, "✓", fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	statusLine(styleIconWarning, "!", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	statusLine(styleIconInfo, "›", fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a written artifact.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

// printStats summarizes a render: highlighted path cells, overlay lines and
// whether every artifact came from the cache.
func printStats(pathCells, lines int, cached bool) {
	var parts []string
	if pathCells > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d path cells", pathCells)))
	}
	if lines > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d lines", lines)))
	}
	if cached {
		parts = append(parts, styleIconSuccess.Render("cached"))
	} else {
		parts = append(parts, styleIconInfo.Render("fresh"))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
