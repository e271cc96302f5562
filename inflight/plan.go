package inflight

import cache "github.com/barrett370/inflightcache"

// RequestPlan is a snapshot of which requested keys the store can serve.
type RequestPlan[K comparable, V any] struct {
	// Missing holds keys that are absent or failed, in request order and
	// without duplicates.
	Missing []K
	// Hits holds the in-flight or resolved entry of every other key.
	Hits map[K]Entry[V]
}

// GetStatus partitions keys into hits and misses against store. It does not
// modify store.
func GetStatus[K comparable, V any](keys []K, store cache.Store[K, Entry[V]]) RequestPlan[K, V] {
	plan := RequestPlan[K, V]{Hits: make(map[K]Entry[V], len(keys))}
	seen := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if e, ok := store.Get(k); ok && e.Valid() {
			plan.Hits[k] = e
			continue
		}
		plan.Missing = append(plan.Missing, k)
	}
	return plan
}
