// Package cli implements the tracegrid command-line interface.
//
// The commands read a computation bundle (JSON with the sequences, the DP
// matrices and the traceback paths) and render it:
//   - show: the highlighted grid as SVG, PNG or a JSON scene
//   - graph: the traceback paths as a Graphviz graph
//   - export: one matrix as CSV
//   - tui: an interactive grid in the terminal
//   - serve: the HTTP session server
//   - cache: manage the artifact cache
//
// All commands support --verbose (-v) for debug-level logging and --config
// for a TOML settings file. Loggers are passed through context.Context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/buildinfo"
	"github.com/matzehuels/tracegrid/pkg/cache"
	"github.com/matzehuels/tracegrid/pkg/config"
	"github.com/matzehuels/tracegrid/pkg/errors"
	"github.com/matzehuels/tracegrid/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "tracegrid"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Tracegrid highlights traceback paths in alignment matrices",
		Long:         `Tracegrid renders the dynamic-programming matrices of a pairwise sequence alignment and highlights traceback paths and one-step flows with styled cells and arrows.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a TOML config file")

	root.AddCommand(c.showCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig reads the --config file, or the defaults when none is given.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.configPath != "" {
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache opens the configured backend. The file backend falls back to no
// cache when no cache directory can be determined.
func newCache(ctx context.Context, cfg config.Cache, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tracegrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderOptions builds pipeline options from the config file.
func renderOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		CellWidth:  cfg.Grid.CellWidth,
		CellHeight: cfg.Grid.CellHeight,
		TableGap:   cfg.Grid.TableGap,
		Margin:     cfg.Grid.Margin,
		Fractions:  cfg.Geometry,
		Style:      cfg.Overlay.Style(),
	}
}

// readComputation loads a bundle from path, or from stdin when path is "-".
func readComputation(path string) (*align.Computation, error) {
	if path == "-" {
		return align.ReadComputation(os.Stdin)
	}
	return align.ImportJSON(path)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// parseCell parses a cell written as "row,col" in the main matrix or as
// "M(row,col)" with a matrix tag such as P or Q.
func parseCell(s string) (align.Cell, error) {
	s = strings.TrimSpace(s)
	m := align.Default
	if i := strings.IndexByte(s, '('); i >= 0 {
		if !strings.HasSuffix(s, ")") {
			return align.Cell{}, errors.New(errors.ErrCodeInvalidInput, "invalid cell %q", s)
		}
		var err error
		if m, err = align.ParseMatrix(s[:i]); err != nil {
			return align.Cell{}, err
		}
		s = s[i+1 : len(s)-1]
	}
	rs, cs, ok := strings.Cut(s, ",")
	if !ok {
		return align.Cell{}, errors.New(errors.ErrCodeInvalidInput, "invalid cell %q (want row,col)", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return align.Cell{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid cell row %q", rs)
	}
	col, err := strconv.Atoi(strings.TrimSpace(cs))
	if err != nil {
		return align.Cell{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid cell column %q", cs)
	}
	if row < 0 || col < 0 {
		return align.Cell{}, errors.New(errors.ErrCodeInvalidInput, "cell %q has a negative index", s)
	}
	return align.At(m, row, col), nil
}

// outputPath derives the file for one format from the -o flag and the input
// path. With several formats, -o is a base path.
func outputPath(output, input, format string, multiple bool) string {
	if output != "" && !multiple {
		return output
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		if input == "-" {
			base = appName
		}
	} else {
		base = trimFormatExt(base)
	}
	return base + "." + format
}

// trimFormatExt strips a known format extension, preferring the longest
// match so "out.graph.svg" loses ".graph.svg".
func trimFormatExt(path string) string {
	longest := ""
	for f := range pipeline.ValidFormats {
		if ext := "." + f; strings.HasSuffix(path, ext) && len(ext) > len(longest) {
			longest = ext
		}
	}
	return strings.TrimSuffix(path, longest)
}
