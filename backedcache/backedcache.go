package backedcache

import (
	"context"

	"github.com/barrett370/inflightcache/inflight"
	"tailscale.com/util/singleflight"
)

type Getter[K comparable, V any] interface {
	Get(context.Context, K) (V, error)
}

type Cacher[K comparable, V any] interface {
	Getter[K, V]
	Forget(K)
}

var _ Cacher[string, int] = (*Cache[string, int])(nil)

type Cache[K comparable, V any] struct {
	cache *inflight.Cache[K, V]
	sf    singleflight.Group[K, V]
}

func New[K comparable, V any](c *inflight.Cache[K, V]) *Cache[K, V] {
	return &Cache[K, V]{cache: c}
}

// Get returns the value for key, fetching it through the underlying cache
// if needed. If ctx is done first, Get returns ctx.Err() and the fetch
// carries on for other callers.
func (c *Cache[K, V]) Get(ctx context.Context, key K) (V, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(key, func() (V, error) {
		return c.cache.RequestValues(fetchCtx, []K{key})[key].Get()
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var z V
			return z, res.Err
		}
		return res.Val, nil
	case <-ctx.Done():
		var z V
		return z, ctx.Err()
	}
}

// Forget drops key from the underlying cache so the next Get fetches it.
func (c *Cache[K, V]) Forget(key K) {
	c.cache.Forget(key)
}
