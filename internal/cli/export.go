package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/export"
)

type exportOpts struct {
	matrix   string
	dir      string
	filename string
	swap     bool
	stdout   bool
	noCache  bool
}

// exportCommand creates the export command for writing one matrix as CSV.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export [computation.json]",
		Short: "Export a matrix as CSV",
		Long: `Export one matrix of a computation bundle as CSV. The first row holds the
matrix tag and the columns' characters, every further row starts with the
row's character.

Matrices are selected by number (0 vertical, 1 main, 2 horizontal) or by
tag (P, X, Q). Infinite scores are written as symbols; --swap-signs swaps
the symbol of positive and negative infinity.`,
		Example: `  tracegrid export result.json
  tracegrid export result.json -m P --dir out
  tracegrid export result.json -m 2 --stdout`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeComputationFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], opts, cmd.Flags().Changed("swap-signs"))
		},
	}

	cmd.Flags().StringVarP(&opts.matrix, "matrix", "m", strconv.Itoa(align.NumberDefault), "matrix number (0, 1, 2) or tag (P, X, Q)")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "output directory (default from config)")
	cmd.Flags().StringVar(&opts.filename, "filename", "", "output file name (default from config)")
	cmd.Flags().BoolVar(&opts.swap, "swap-signs", false, "swap the infinity symbols (default from config)")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "write the CSV to stdout instead of a file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input string, opts exportOpts, swapSet bool) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	n, err := parseMatrixNumber(opts.matrix)
	if err != nil {
		return err
	}
	codec := cfg.Export.Codec()
	if swapSet {
		codec.SwapSigns = opts.swap
	}

	comp, err := readComputation(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	data, cached, err := runner.Export(ctx, comp, n, codec)
	if err != nil {
		return err
	}
	logger.Debug("exported", "matrix", n, "bytes", len(data), "cached", cached)

	if opts.stdout {
		_, err := os.Stdout.Write(data)
		return err
	}

	dir, filename := cfg.Export.Directory, cfg.Export.Filename
	if opts.dir != "" {
		dir = opts.dir
	}
	if opts.filename != "" {
		filename = opts.filename
	}
	saver, err := export.NewFileSaver(dir, filename)
	if err != nil {
		return err
	}
	path, err := saver.Save(ctx, data)
	if err != nil {
		return err
	}

	m, _ := align.MatrixFromNumber(n)
	printSuccess("Exported matrix %s", m)
	printFile(path)
	return nil
}

// parseMatrixNumber accepts an export number or a matrix tag.
func parseMatrixNumber(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if _, err := align.MatrixFromNumber(n); err != nil {
			return 0, err
		}
		return n, nil
	}
	m, err := align.ParseMatrix(s)
	if err != nil {
		return 0, fmt.Errorf("--matrix: %w", err)
	}
	return m.Number(), nil
}
