package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tracegrid/pkg/errors"
	"github.com/matzehuels/tracegrid/pkg/pipeline"
)

// showOpts holds the flags of the show and graph commands.
type showOpts struct {
	output     string
	formats    string
	traceback  int // -1 shows no path
	flow       string
	cellWidth  float64
	cellHeight float64
	scale      float64
	title      string
	noCache    bool
	refresh    bool
}

// showCommand creates the show command for rendering a highlighted grid.
func (c *CLI) showCommand() *cobra.Command {
	opts := showOpts{traceback: -1}

	cmd := &cobra.Command{
		Use:   "show [computation.json]",
		Short: "Render the alignment grid with highlighted paths",
		Long: `Render the matrices of a computation bundle with a traceback path and/or
the one-step flow of a cell highlighted.

Cells are written as row,col in the main matrix or as P(row,col) and
Q(row,col) in the affine gap matrices. Use "-" to read the bundle from stdin.`,
		Example: `  tracegrid show result.json -t 0
  tracegrid show result.json --flow 3,2 -f svg,png -o out/grid
  cat result.json | tracegrid show - -t 1 -f json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeComputationFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShow(cmd.Context(), args[0], opts, false)
		},
	}

	c.addRenderFlags(cmd, &opts, pipeline.FormatSVG)
	cmd.Flags().IntVarP(&opts.traceback, "traceback", "t", opts.traceback, "traceback path to highlight (-1 for none)")
	cmd.Flags().StringVar(&opts.flow, "flow", "", "show the one-step flow into a cell (row,col or P(row,col))")
	cmd.Flags().Float64Var(&opts.cellWidth, "cell-width", 0, "cell width in pixels (default from config)")
	cmd.Flags().Float64Var(&opts.cellHeight, "cell-height", 0, "cell height in pixels (default from config)")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().StringVar(&opts.title, "title", "", "SVG document title")

	return cmd
}

// addRenderFlags registers the flags shared by show and graph.
func (c *CLI) addRenderFlags(cmd *cobra.Command, opts *showOpts, defaultFormat string) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", defaultFormat, "output format(s), comma-separated")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
}

// runShow renders every requested format and writes one file per format.
// graphOnly restricts formats to the traceback graph formats.
func (c *CLI) runShow(ctx context.Context, input string, opts showOpts, graphOnly bool) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	popts, err := buildPipelineOptions(renderOptions(cfg), opts, graphOnly)
	if err != nil {
		return err
	}
	popts.Logger = logger

	comp, err := readComputation(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded %s: %q x %q, %d traceback paths",
		input, comp.Input.SequenceA, comp.Input.SequenceB, len(comp.Output.TracebackPaths))

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	var spinner *Spinner
	if graphOnly {
		spinner = newSpinner(ctx, os.Stderr, "Running Graphviz...")
		spinner.Start()
	}
	result, err := runner.Execute(ctx, comp, popts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(result.Artifacts)))

	snap := result.Highlight
	if popts.Traceback != nil && !snap.PathShown() {
		printWarning("Traceback path %d is empty, nothing highlighted", *popts.Traceback)
	}
	if popts.Flow != nil && snap.Flows == 0 {
		printWarning("Cell %s has no predecessors", popts.Flow)
	}

	multiple := len(popts.Formats) > 1
	printSuccess("Rendered %s", input)
	for _, format := range popts.Formats {
		path := outputPath(opts.output, input, format, multiple)
		if err := writeArtifact(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	printStats(result.Stats.Cells, result.Stats.Lines, result.CacheInfo.AllHit())
	if !graphOnly && popts.Traceback == nil && popts.Flow == nil {
		printNextStep("Highlight the first traceback path", "tracegrid show "+input+" -t 0")
	}
	return nil
}

// buildPipelineOptions applies the command flags on top of the configured
// defaults.
func buildPipelineOptions(base pipeline.Options, opts showOpts, graphOnly bool) (pipeline.Options, error) {
	popts := base
	popts.Formats = parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(popts.Formats); err != nil {
		return popts, err
	}
	if graphOnly {
		if i := slices.IndexFunc(popts.Formats, func(f string) bool { return !pipeline.IsGraphFormat(f) }); i >= 0 {
			return popts, errors.New(errors.ErrCodeInvalidFormat, "graph renders %s, not %q",
				strings.Join([]string{pipeline.FormatDOT, pipeline.FormatGraphSVG, pipeline.FormatGraphPNG}, ", "),
				popts.Formats[i])
		}
	}

	if opts.traceback >= 0 {
		idx := opts.traceback
		popts.Traceback = &idx
	}
	if opts.flow != "" {
		cell, err := parseCell(opts.flow)
		if err != nil {
			return popts, err
		}
		popts.Flow = &cell
	}
	if opts.cellWidth > 0 {
		popts.CellWidth = opts.cellWidth
	}
	if opts.cellHeight > 0 {
		popts.CellHeight = opts.cellHeight
	}
	popts.Scale = opts.scale
	popts.Title = opts.title
	popts.Refresh = opts.refresh
	return popts, nil
}

// writeArtifact writes data to path, creating the parent directory.
func writeArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
