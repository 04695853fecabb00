// Package sink renders a highlighted grid and its overlay.
//
// A [Scene] is a snapshot of a [grid.Layout] and an [overlay.Canvas]: every
// table cell with its label, classes and glyphs, plus every long line. The
// renderers read only the scene, so a caller can take it under the
// highlighter's lock and render outside of it.
//
//   - [RenderSVG]: the view as the browser shows it, with CSS classes and
//     line markers per kind
//   - [RenderPNG]: a raster of the same view drawn with gg
//   - [RenderJSON]: the scene itself, for external tools and tests
//
// Basic usage:
//
//	var scene sink.Scene
//	h.Lock(func() { scene = sink.BuildScene(layout, canvas) })
//	svg := sink.RenderSVG(scene, sink.WithStyle(style))
package sink
