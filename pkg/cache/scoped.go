package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The server uses this to keep per-surface elevation caches and per-user
// result caches from colliding on a shared Redis backend.
//
// Example usage:
//
//	// Keys for one named surface
//	surfaceKeyer := NewScopedKeyer(NewDefaultKeyer(), "surface:watershed12:")
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

// ElevationKey generates a prefixed key for an elevation read.
func (k *ScopedKeyer) ElevationKey(surface string, x, y float64) string {
	return k.prefix + k.inner.ElevationKey(surface, x, y)
}

// ResultKey generates a prefixed key for an operation result.
func (k *ScopedKeyer) ResultKey(op, inputHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(op, inputHash, opts)
}
