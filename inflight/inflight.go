package inflight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	cache "github.com/barrett370/inflightcache"
)

// Cache answers batch lookups from its store, fetching missing keys from a
// Source. Concurrent requests never start two fetches for the same key:
// partitioning a request and publishing its in-flight entries happen under
// one lock, so any later request sees those keys as hits.
type Cache[K comparable, V any] struct {
	// mu serializes store mutation. It is never held while waiting on a
	// fetch.
	mu      sync.RWMutex
	store   cache.Store[K, Entry[V]]
	src     Source[K, V]
	logger  *slog.Logger
	metrics *Metrics
}

// New returns a Cache over a fresh bounded store.
func New[K comparable, V any](src Source[K, V], opts ...Option) *Cache[K, V] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newCache(src, cache.New[K, Entry[V]](o.capacity), o)
}

// NewFrom returns a Cache over store, which may already hold entries.
// The Cache must be the only writer of store from then on.
func NewFrom[K comparable, V any](src Source[K, V], store cache.Store[K, Entry[V]], opts ...Option) *Cache[K, V] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newCache(src, store, o)
}

func newCache[K comparable, V any](src Source[K, V], store cache.Store[K, Entry[V]], o options) *Cache[K, V] {
	c := &Cache[K, V]{
		store:   store,
		logger:  o.logger,
		metrics: o.metrics,
	}
	c.src = &observedSource[K, V]{Source: src, c: c}
	return c
}

// RequestValues returns a Result for every distinct key in keys.
//
// Keys already resolved or in flight are served from the store; the rest
// are fetched in one call to the Source. Each key's outcome is independent.
// Resolved keys are kept in the store and failed keys are removed so the
// next request retries them.
//
// If ctx is done before every key settles, the unsettled keys fail with
// ctx.Err(). The fetch itself keeps running and its outcome is still stored.
func (c *Cache[K, V]) RequestValues(ctx context.Context, keys []K) map[K]Result[V] {
	c.mu.Lock()
	work := GetTasksFor(ctx, keys, c.store, c.src)
	for k, e := range work.New {
		c.store.Set(k, e)
	}
	c.mu.Unlock()
	c.metrics.lookup(len(work.Hits), len(work.New))

	done := make(chan map[K]Result[V], 1)
	go func() {
		results := work.Execute(context.WithoutCancel(ctx))
		c.commit(work, results)
		done <- results
	}()

	select {
	case results := <-done:
		return results
	case <-ctx.Done():
		return c.abandon(ctx, work)
	}
}

// abandon returns whatever is settled already and ctx.Err() for the rest.
func (c *Cache[K, V]) abandon(ctx context.Context, work CoalescedWork[K, V]) map[K]Result[V] {
	requested := work.Requested()
	results := make(map[K]Result[V], len(requested))
	for k, e := range requested {
		if e.State() == StateInFlight {
			select {
			case <-e.flight.Done():
			default:
				results[k] = Failure[V](ctx.Err())
				continue
			}
		}
		results[k] = resultOf(e.Value(context.WithoutCancel(ctx)))
	}
	return results
}

const maxLoggedKeys = 10

// commit stores the outcome of each requested key. An entry is only
// replaced if it is still the one this request waited on, so a newer
// in-flight entry for the same key is left alone.
func (c *Cache[K, V]) commit(work CoalescedWork[K, V], results map[K]Result[V]) {
	requested := work.Requested()
	var missing []K

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, r := range results {
		e := requested[k]
		cur, found := c.store.Get(k)
		owned := found && cur.sameFlight(e)
		v, err := r.Get()
		if err != nil {
			if _, isNew := work.New[k]; isNew && errors.Is(err, ErrMissingOutput) {
				missing = append(missing, k)
			}
			if owned || (found && !cur.Valid()) {
				c.store.Remove(k)
			}
			continue
		}
		if owned || !found || !cur.Valid() {
			c.store.Set(k, Resolved(v))
		}
	}
	if len(missing) > 0 {
		c.metrics.missing(len(missing))
		c.logger.Warn("fetch omitted requested keys",
			"missing_count", len(missing),
			"missing_keys", missing[:min(len(missing), maxLoggedKeys)])
	}
}

// CacheState reports which of keys are hits and misses without fetching
// anything.
func (c *Cache[K, V]) CacheState(keys []K) RequestPlan[K, V] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return GetStatus(keys, c.store)
}

// Prime stores v for key unless the key is already resolved or in flight.
// It reports whether v was stored.
func (c *Cache[K, V]) Prime(key K, v V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.store.Get(key); ok && e.Valid() {
		return false
	}
	c.store.Set(key, Resolved(v))
	return true
}

// Forget removes key from the store. A fetch already in flight for key still
// stores its value when it succeeds.
func (c *Cache[K, V]) Forget(key K) {
	c.mu.Lock()
	c.store.Remove(key)
	c.mu.Unlock()
}

// Purge removes every key from the store.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	c.store.Clear()
	c.mu.Unlock()
}

// observedSource logs and records metrics around each fetch.
type observedSource[K comparable, V any] struct {
	Source[K, V]
	c *Cache[K, V]
}

// A panicking fetch is recorded as failed and the panic is passed on.
func (s *observedSource[K, V]) Fetch(ctx context.Context, keys []K) (out []V, err error) {
	s.c.logger.Debug("starting shared fetch", "key_count", len(keys))
	start := time.Now()
	defer func() {
		r := recover()
		failure := err
		if r != nil {
			failure = fmt.Errorf("panic: %v", r)
		}
		d := time.Since(start)
		s.c.metrics.fetched(d, failure)
		if failure != nil {
			s.c.logger.Warn("shared fetch failed", "key_count", len(keys), "duration", d, "error", failure)
		} else {
			s.c.logger.Debug("shared fetch settled", "key_count", len(keys), "output_count", len(out), "duration", d)
		}
		if r != nil {
			panic(r)
		}
	}()
	return s.Source.Fetch(ctx, keys)
}
