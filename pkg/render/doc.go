// Package render holds the output formats of tracegrid.
//
// # Grid scenes
//
// The [sink] subpackage renders the highlighted grid together with its
// overlay lines. A scene is captured once and can then be written as SVG,
// PNG or JSON:
//
//	scene := sink.BuildScene(layout, canvas)
//	svg := sink.RenderSVG(scene, sink.WithStyle(cfg.Overlay.Style()))
//	png, err := sink.RenderPNG(scene, sink.WithScale(2))
//
// # Traceback graphs
//
// The [tracegraph] subpackage lays the traceback paths out as a directed
// graph with Graphviz, one cluster per matrix:
//
//	dot := tracegraph.ToDOT(out, tracegraph.Options{})
//	svg, err := tracegraph.RenderSVG(ctx, dot)
//
// [sink]: github.com/matzehuels/tracegrid/pkg/render/sink
// [tracegraph]: github.com/matzehuels/tracegrid/pkg/render/tracegraph
package render
