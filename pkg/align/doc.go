// Package align defines the data exchanged between an alignment algorithm and
// the traceback visualizer.
//
// A pairwise alignment run produces up to three coupled dynamic-programming
// matrices: the main matrix ([Default]) and, for affine-gap algorithms, the
// vertical ([Vertical]) and horizontal ([Horizontal]) gap matrices. Traceback
// paths walk through them cell by cell and may jump between matrices at
// gap-open and gap-close boundaries.
//
// # Coordinates
//
// A [Cell] addresses one DP entry with matrix-local indices. The rendered grid
// reserves row and column 0 for the sequence headers, so [Cell.DisplayRow] and
// [Cell.DisplayCol] add a uniform +1 offset.
//
// # Path order
//
// Algorithms emit paths in traceback order, destination first. Rendering walks
// them origin first so that arrows point from the origin toward the
// destination; use [Path.Reversed] to get that order.
//
// # Infinities
//
// Numeric matrices ([Grid]) may contain ±Inf. The labeling layer works on
// symbolic matrices ([Symbols]) where infinities are LaTeX markers. [Codec]
// converts between the two.
package align
