package align

// Predecessors lists the cells a DP cell can trace back to in one step.
type Predecessors struct {
	Cell Cell   `json:"cell"`
	From []Cell `json:"from"`
}

// TraceTable is an [Algorithm] backed by a precomputed predecessor table.
// It lets the visualizer query flows without linking the algorithm that
// filled the matrices.
type TraceTable struct {
	name  string
	preds map[Cell][]Cell
}

// NewTraceTable builds a table from predecessor entries. Later entries for
// the same cell replace earlier ones.
func NewTraceTable(name string, entries []Predecessors) *TraceTable {
	t := &TraceTable{name: name, preds: make(map[Cell][]Cell, len(entries))}
	for _, e := range entries {
		t.preds[e.Cell] = append([]Cell(nil), e.From...)
	}
	return t
}

// Name returns the algorithm name.
func (t *TraceTable) Name() string { return t.name }

// Predecessors returns the one-step predecessors of c.
func (t *TraceTable) Predecessors(c Cell) []Cell { return t.preds[c] }

// Traces returns every path of at most depth steps that ends at one of the
// seeds, in traceback order. Paths stop early at cells without predecessors.
// A seed without predecessors yields no path.
func (t *TraceTable) Traces(seeds []Cell, _ Input, _ Output, depth int) []Path {
	if depth < 1 {
		return nil
	}
	var out []Path
	for _, seed := range seeds {
		for _, p := range t.preds[seed] {
			out = t.extend(out, Path{seed, p}, depth-1)
		}
	}
	return out
}

func (t *TraceTable) extend(out []Path, path Path, depth int) []Path {
	last := path[len(path)-1]
	next := t.preds[last]
	if depth == 0 || len(next) == 0 {
		return append(out, path)
	}
	for _, p := range next {
		extended := append(path[:len(path):len(path)], p)
		out = t.extend(out, extended, depth-1)
	}
	return out
}

var _ Algorithm = (*TraceTable)(nil)
