// Package pkg provides the core libraries for tracegrid traceback
// visualization.
//
// # Overview
//
// Tracegrid draws the dynamic-programming matrices of a pairwise sequence
// alignment as tables and highlights how a score was reached: a traceback
// path marks its cells and connects them with arrows, a flow shows the
// one-step predecessors of a single cell. The pkg directory is organized as:
//
//  1. [align] - Computation bundles: sequences, matrices, paths, predecessors
//  2. [geometry], [grid], [overlay] - Cell bounds, move kinds, arrow anchors and the line overlay
//  3. [highlight], [session] - Marking cells and drawing arrows for one view
//  4. [render] - SVG, PNG and JSON scenes plus the Graphviz traceback graph
//  5. [pipeline], [cache] - Orchestration with artifact caching
//  6. [export] - CSV export of one matrix
//  7. [server] - HTTP sessions for interactive front ends
//
// # Architecture
//
// The typical data flow:
//
//	computation bundle (JSON)
//	         ↓
//	    [grid] layout (one table per matrix)
//	         ↓
//	    [highlight] traceback / flow (cell classes, glyphs, overlay lines)
//	         ↓
//	    [render/sink] scene → SVG/PNG/JSON
//
// # Quick Start
//
//	comp, _ := align.ImportJSON("run.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	idx := 0
//	result, _ := runner.Execute(ctx, comp, pipeline.Options{Traceback: &idx})
//	os.WriteFile("run.svg", result.Artifacts[pipeline.FormatSVG], 0o644)
package pkg
