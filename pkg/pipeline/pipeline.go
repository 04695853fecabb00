// Package pipeline renders highlighted computations for the CLI and the
// session server.
//
// A [Workspace] owns everything one view needs: the grid layout, the overlay
// canvas, the highlighter and the results rows. The [Runner] builds a
// workspace per request, applies the requested highlights and renders every
// requested format, caching artifacts by computation hash and options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	idx := 0
//	result, err := runner.Execute(ctx, comp, pipeline.Options{
//	    Formats:   []string{pipeline.FormatSVG},
//	    Traceback: &idx,
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// Exports go through the same cache:
//
//	csv, hit, err := runner.Export(ctx, comp, align.NumberDefault, align.DefaultCodec)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/cache"
	"github.com/matzehuels/tracegrid/pkg/errors"
	"github.com/matzehuels/tracegrid/pkg/geometry"
	"github.com/matzehuels/tracegrid/pkg/grid"
	"github.com/matzehuels/tracegrid/pkg/highlight"
	"github.com/matzehuels/tracegrid/pkg/render/sink"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultCellWidth is the default cell width in pixels.
	DefaultCellWidth = grid.DefaultCellWidth

	// DefaultCellHeight is the default cell height in pixels.
	DefaultCellHeight = grid.DefaultCellHeight

	// DefaultScale is the default PNG scale.
	DefaultScale = sink.DefaultPNGScale
)

// Format constants for output formats. The graph formats draw the
// traceback paths with Graphviz instead of the grid.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatGraphSVG = "graph.svg"
	FormatGraphPNG = "graph.png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatJSON:     true,
	FormatDOT:      true,
	FormatGraphSVG: true,
	FormatGraphPNG: true,
}

// IsGraphFormat reports whether format renders the traceback graph.
func IsGraphFormat(format string) bool {
	return format == FormatDOT || format == FormatGraphSVG || format == FormatGraphPNG
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	Formats []string `json:"formats,omitempty"`

	// Traceback is the traceback path to show; nil shows none.
	Traceback *int `json:"traceback,omitempty"`
	// Flow is the cell whose one-step predecessors are shown; nil shows none.
	Flow *align.Cell `json:"flow,omitempty"`

	CellWidth  float64            `json:"cell_width,omitempty"`
	CellHeight float64            `json:"cell_height,omitempty"`
	TableGap   float64            `json:"table_gap,omitempty"`
	Margin     float64            `json:"margin,omitempty"`
	Fractions  geometry.Fractions `json:"fractions"`
	Style      sink.Style         `json:"style"`
	Scale      float64            `json:"scale,omitempty"`
	Title      string             `json:"title,omitempty"`

	// Refresh skips cache reads; fresh artifacts are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Hash is the content hash of the computation.
	Hash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Highlight is the highlight state the artifacts were rendered from.
	Highlight highlight.Snapshot

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Cells      int
	Lines      int
	RenderTime time.Duration
}

// CacheInfo tracks which artifacts came from the cache.
type CacheInfo struct {
	Hits   []string // formats served from cache
	Misses []string // formats rendered in this run
}

// AllHit reports whether every artifact came from the cache.
func (c CacheInfo) AllHit() bool { return len(c.Misses) == 0 && len(c.Hits) > 0 }

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		names := make([]string, 0, len(ValidFormats))
		for f := range ValidFormats {
			names = append(names, f)
		}
		slices.Sort(names)
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(names, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Traceback != nil && *o.Traceback < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "traceback index %d is negative", *o.Traceback)
	}
	if o.Flow != nil && !o.Flow.Matrix.Valid() {
		return errors.New(errors.ErrCodeInvalidMatrix, "flow cell has unknown matrix %d", int(o.Flow.Matrix))
	}
	if o.CellWidth < 0 || o.CellHeight < 0 || o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cell size and scale must not be negative")
	}

	if o.CellWidth == 0 {
		o.CellWidth = DefaultCellWidth
	}
	if o.CellHeight == 0 {
		o.CellHeight = DefaultCellHeight
	}
	if o.TableGap == 0 {
		o.TableGap = grid.DefaultTableGap
	}
	if o.Margin == 0 {
		o.Margin = grid.DefaultMargin
	}
	if o.Fractions == (geometry.Fractions{}) {
		o.Fractions = geometry.DefaultFractions()
	}
	if o.Style == (sink.Style{}) {
		o.Style = sink.DefaultStyle()
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LayoutOptions returns the grid options of the run.
func (o *Options) LayoutOptions() []grid.Option {
	return []grid.Option{
		grid.WithCellSize(o.CellWidth, o.CellHeight),
		grid.WithTableGap(o.TableGap),
		grid.WithMargin(o.Margin),
	}
}

// ArtifactKeyOpts returns cache key options for a scene format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:     format,
		PathIndex:  -1,
		CellWidth:  o.CellWidth,
		CellHeight: o.CellHeight,
		Line:       o.Fractions.Line,
		Head:       o.Fractions.HeadPenetration,
		Style: fmt.Sprintf("%s|%s|%s|%g|%g|%g|%s", o.Style.TracebackColor, o.Style.FlowColor,
			o.Style.DashArray, o.Style.StrokeWidth, o.TableGap, o.Margin, o.Title),
	}
	if o.Traceback != nil {
		k.PathIndex = *o.Traceback
	}
	if o.Flow != nil {
		k.FlowCell = o.Flow.String()
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
