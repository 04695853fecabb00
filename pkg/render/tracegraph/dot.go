package tracegraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/errors"
)

// Options configures graph generation.
type Options struct {
	// Scores adds the cell value below the node name.
	Scores bool
	// Paths restricts the graph to the given path indices. Empty means all.
	Paths []int
}

// ToDOT converts the traceback paths of an output to DOT. Unknown indices in
// opts.Paths are ignored.
func ToDOT(out align.Output, opts Options) string {
	paths := selectPaths(out.TracebackPaths, opts.Paths)

	var cells []align.Cell
	seen := make(map[align.Cell]bool)
	for _, p := range paths {
		for _, c := range p {
			if !seen[c] {
				seen[c] = true
				cells = append(cells, c)
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph traceback {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=14];\n")
	buf.WriteString("\n")

	for _, m := range align.Matrices {
		var members []align.Cell
		for _, c := range cells {
			if c.Matrix == m {
				members = append(members, c)
			}
		}
		if len(members) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph \"cluster_%s\" {\n", m)
		fmt.Fprintf(&buf, "    label=%q;\n", m.String())
		buf.WriteString("    style=dashed;\n")
		for _, c := range members {
			fmt.Fprintf(&buf, "    %q [label=%q];\n", c.String(), nodeLabel(c, out, opts.Scores))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	edges := make(map[[2]align.Cell]bool)
	for _, p := range paths {
		for i := 1; i < len(p); i++ {
			e := [2]align.Cell{p[i-1], p[i]}
			if edges[e] {
				continue
			}
			edges[e] = true
			attrs := ""
			if e[0].Matrix != e[1].Matrix {
				attrs = " [style=dashed]"
			}
			fmt.Fprintf(&buf, "  %q -> %q%s;\n", e[0].String(), e[1].String(), attrs)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func selectPaths(all []align.Path, indices []int) []align.Path {
	if len(indices) == 0 {
		return all
	}
	var out []align.Path
	for i, p := range all {
		if slices.Contains(indices, i) {
			out = append(out, p)
		}
	}
	return out
}

func nodeLabel(c align.Cell, out align.Output, scores bool) string {
	if !scores {
		return c.String()
	}
	v, ok := cellValue(c, out)
	if !ok {
		return c.String()
	}
	return c.String() + "\n" + v
}

func cellValue(c align.Cell, out align.Output) (string, bool) {
	var s align.Symbols
	switch c.Matrix {
	case align.Vertical:
		s = out.VerticalGaps
	case align.Horizontal:
		s = out.HorizontalGaps
	default:
		if c.Row < len(out.Matrix) && c.Col < len(out.Matrix[c.Row]) {
			return align.FormatScore(out.Matrix[c.Row][c.Col]), true
		}
		return "", false
	}
	if c.Row < len(s) && c.Col < len(s[c.Row]) {
		return s[c.Row][c.Col], true
	}
	return "", false
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	data, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with one whose
// width and height equal the viewBox, so the graph scales like the grid SVG.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
