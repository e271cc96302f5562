package inflight

import "context"

// Source is the batch backing store behind a Cache.
type Source[K comparable, V any] interface {
	// IDOf returns the key a fetched value belongs to.
	IDOf(v V) K
	// Fetch returns values for keys in a single call. It may omit keys; an
	// omitted key fails with ErrMissingOutput. An error fails every key with
	// the same *FetchError wrapping it, so compare with errors.Is rather
	// than ==.
	Fetch(ctx context.Context, keys []K) ([]V, error)
}

// SourceFuncs adapts a pair of functions to Source.
type SourceFuncs[K comparable, V any] struct {
	ID        func(V) K
	FetchFunc func(ctx context.Context, keys []K) ([]V, error)
}

func (s SourceFuncs[K, V]) IDOf(v V) K { return s.ID(v) }

func (s SourceFuncs[K, V]) Fetch(ctx context.Context, keys []K) ([]V, error) {
	return s.FetchFunc(ctx, keys)
}
