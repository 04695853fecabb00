package cache

// ScopedKeyer wraps a Keyer with a prefix so that several users of one
// backend get separate namespaces, e.g. one per server session:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "session:"+id+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ArtifactKey generates a prefixed key for scene caching.
func (k *ScopedKeyer) ArtifactKey(computationHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(computationHash, opts)
}

// ExportKey generates a prefixed key for table caching.
func (k *ScopedKeyer) ExportKey(computationHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(computationHash, opts)
}

// GraphKey generates a prefixed key for graph caching.
func (k *ScopedKeyer) GraphKey(computationHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(computationHash, opts)
}
