package cache

// ScopedKeyer wraps a Keyer with a prefix. The CLI scopes keys by build
// version so an upgrade never serves layouts from an older simulation.
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

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(datasetHash, opts)
}

// ArtifactKey generates a prefixed artifact key. layoutKey already carries
// the prefix.
func (k *ScopedKeyer) ArtifactKey(layoutKey string, format string) string {
	return k.prefix + k.inner.ArtifactKey(layoutKey, format)
}
