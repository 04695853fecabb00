package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/render/sink"
	"github.com/matzehuels/tracegrid/pkg/render/tracegraph"
)

// RenderScene renders the scene formats of opts.Formats. Graph formats are
// skipped.
func RenderScene(s sink.Scene, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(s, buildSVGOptions(opts)...)
		case FormatPNG:
			data, err = sink.RenderPNG(s, sink.WithPNGStyle(opts.Style), sink.WithScale(opts.Scale))
		case FormatJSON:
			data, err = sink.RenderJSON(s)
		default:
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderGraph renders the graph formats of opts.Formats from the traceback
// paths of out. Scene formats are skipped.
func RenderGraph(ctx context.Context, out align.Output, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)
	var dot string

	for _, format := range opts.Formats {
		if !IsGraphFormat(format) {
			continue
		}
		if dot == "" {
			dot = tracegraph.ToDOT(out, tracegraph.Options{Scores: true})
		}

		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatGraphSVG:
			data, err = tracegraph.RenderSVG(ctx, dot)
		case FormatGraphPNG:
			data, err = tracegraph.RenderPNG(ctx, dot)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithStyle(opts.Style)}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts
}
