// Package tracegraph draws traceback paths as a Graphviz graph.
//
// Every distinct cell visited by a path becomes a node named after the cell,
// e.g. "X(2,3)", grouped in one cluster per matrix. Consecutive cells of a
// path are joined by an edge in traceback order. Edges that leave their
// matrix are dashed, matching the long lines of the grid overlay.
//
//	dot := tracegraph.ToDOT(out, tracegraph.Options{Scores: true})
//	svg, err := tracegraph.RenderSVG(ctx, dot)
package tracegraph
