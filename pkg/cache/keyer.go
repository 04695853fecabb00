package cache

// Keyer builds cache keys. Every key starts with a type prefix followed by
// a hash of all inputs that influence the cached bytes.
type Keyer interface {
	// ArtifactKey identifies a rendered highlight scene.
	ArtifactKey(computationHash string, opts ArtifactKeyOpts) string
	// ExportKey identifies an exported CSV table.
	ExportKey(computationHash string, opts ExportKeyOpts) string
	// GraphKey identifies a rendered traceback graph.
	GraphKey(computationHash string, opts GraphKeyOpts) string
}

// ArtifactKeyOpts are the options that change a rendered scene.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	PathIndex  int     `json:"path_index"`
	FlowCell   string  `json:"flow_cell,omitempty"`
	CellWidth  float64 `json:"cell_width"`
	CellHeight float64 `json:"cell_height"`
	Line       float64 `json:"line"`
	Head       float64 `json:"head"`
	Style      string  `json:"style,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
}

// ExportKeyOpts are the options that change an exported table.
type ExportKeyOpts struct {
	Matrix    int  `json:"matrix"`
	SwapSigns bool `json:"swap_signs"`
}

// GraphKeyOpts are the options that change a traceback graph.
type GraphKeyOpts struct {
	Format string `json:"format"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ArtifactKey(computationHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", computationHash, opts)
}

func (DefaultKeyer) ExportKey(computationHash string, opts ExportKeyOpts) string {
	return hashKey("export", computationHash, opts)
}

func (DefaultKeyer) GraphKey(computationHash string, opts GraphKeyOpts) string {
	return hashKey("graph", computationHash, opts)
}
