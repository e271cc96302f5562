package cache

// Store is the contract the inflight layer needs from a key-value backend.
// Capacity and eviction are the implementation's concern. Implementations
// must be safe for concurrent use.
type Store[K comparable, V any] interface {
	// Get returns the value stored for k and whether it was found.
	Get(k K) (V, bool)
	// Set adds or replaces the value for k.
	Set(k K, v V)
	// Remove deletes k. It does nothing if k is absent.
	Remove(k K)
	// Clear removes every key.
	Clear()
}

var _ Store[string, int] = (*Cache[string, int])(nil)
