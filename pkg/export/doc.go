// Package export writes DP matrices as CSV tables.
//
// # Format
//
// The first row holds the matrix tag (X, P or Q), an empty cell and one
// column per character of the first sequence. Every following row starts
// with a character of the second sequence (empty for the first data row)
// and lists the matrix row. Infinite scores are written as ∞ and -∞.
//
//	X,,A
//	,0,-∞
//	C,-∞,5
//
// # Infinities
//
// The gap matrices arrive as symbols with LaTeX infinity markers. They are
// converted to numbers through an [align.Codec] before serialization, and
// the default codec swaps the signs of the two markers. The main matrix is
// already numeric and is written as is.
package export
