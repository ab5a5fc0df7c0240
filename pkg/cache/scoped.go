package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when one cache backend serves several projects or
// branches that must not share entries.
//
// Example usage:
//
//	// Branch-specific keys for a balance rework in progress
//	branchKeyer := NewScopedKeyer(NewDefaultKeyer(), "branch:rework-2:")
//
//	// Shared keys for the main balance data
//	mainKeyer := NewDefaultKeyer()
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(itemsHash, opts)
}

// RenderKey generates a prefixed key for render artifact caching.
func (k *ScopedKeyer) RenderKey(layoutHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(layoutHash, opts)
}

// SimKey generates a prefixed key for simulation run caching.
func (k *ScopedKeyer) SimKey(itemsHash string, opts SimKeyOpts) string {
	return k.prefix + k.inner.SimKey(itemsHash, opts)
}
