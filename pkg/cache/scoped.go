package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tenants (for
// example preview servers for different projects) can share one Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "mapvis:project-a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer is replaced by DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}

func (k *ScopedKeyer) SeriesKey(collectionHash string, opts SeriesKeyOpts) string {
	return k.prefix + k.inner.SeriesKey(collectionHash, opts)
}
