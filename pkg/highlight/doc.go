// Package highlight marks traceback paths and flows on a rendered DP grid.
//
// A [Highlighter] keeps two independent highlight kinds, the traceback path
// and the flow set, each either hidden or shown. It walks a path in origin
// order, marks every cell through a [Marker] and connects consecutive cells:
// adjacent moves inside one matrix become short glyphs on the destination
// cell, longer or cross-matrix moves become lines on the overlay canvas.
//
// # Toggling
//
// Showing the traceback path that is already shown hides it again, as long
// as its origin cell still carries the selected style. Showing a new flow
// always replaces the previous flow set. Hiding one kind clears the overlay
// and redraws the other kind, so the lines tracked in the session are always
// exactly the lines on the canvas.
//
// # Stale cells
//
// When the grid shrank after a path was computed, cells of that path may no
// longer exist. They are skipped one by one and logged at debug level with
// code STALE_CELL; the rest of the path is still highlighted.
//
// # Concurrency
//
// All operations are serialized by a mutex, so the HTTP server and the TUI
// can drive the same highlighter.
package highlight
