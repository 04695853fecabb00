// Package geometry classifies moves between consecutive traceback cells and
// computes the anchor points of the overlay lines that draw long moves.
//
// [Classify] is the single dispatch point: it turns a pair of cells into one
// [Move] value. Adjacent moves inside one matrix ([Diagonal], [StepLeft],
// [StepUp]) are drawn as glyphs attached to the destination cell and never
// reach [Anchors]. Every other move is drawn as a line whose end points are
// placed at fixed fractions of the cell boxes, so the drawing scales with
// the cell size.
package geometry
