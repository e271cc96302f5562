package inflight

import (
	"context"
	"fmt"
	"sync"

	cache "github.com/barrett370/inflightcache"
	"golang.org/x/sync/errgroup"
)

// CoalescedWork is everything needed to answer one batch request.
type CoalescedWork[K comparable, V any] struct {
	// Shared is the single fetch covering every missing key. It is nil when
	// nothing was missing.
	Shared *Flight[[]V]
	// New holds an in-flight entry for each missing key, fed by Shared.
	New map[K]Entry[V]
	// Hits is passed through from the plan.
	Hits map[K]Entry[V]
}

// GetTasksFor partitions keys against store and plans the work for them.
func GetTasksFor[K comparable, V any](ctx context.Context, keys []K, store cache.Store[K, Entry[V]], src Source[K, V]) CoalescedWork[K, V] {
	return GetTasks(ctx, GetStatus(keys, store), src)
}

// GetTasks starts one fetch for plan.Missing and derives a per-key entry
// from it. The fetch runs detached from ctx cancellation, but keeps its
// values.
func GetTasks[K comparable, V any](ctx context.Context, plan RequestPlan[K, V], src Source[K, V]) CoalescedWork[K, V] {
	work := CoalescedWork[K, V]{
		New:  make(map[K]Entry[V], len(plan.Missing)),
		Hits: plan.Hits,
	}
	if len(plan.Missing) == 0 {
		return work
	}

	keys := make([]K, len(plan.Missing))
	copy(keys, plan.Missing)
	fetchCtx := context.WithoutCancel(ctx)
	work.Shared = Go(func() ([]V, error) {
		return fetchBatch(fetchCtx, src, keys)
	})

	flights := make(map[K]*Flight[V], len(keys))
	for _, k := range keys {
		f := pending[V]()
		flights[k] = f
		work.New[k] = InFlight(f)
	}
	go distribute(work.Shared, src, flights)
	return work
}

func fetchBatch[K comparable, V any](ctx context.Context, src Source[K, V], keys []K) (out []V, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			err = &FetchError{Keys: len(keys), Err: err}
		}
	}()
	return src.Fetch(ctx, keys)
}

// distribute waits for shared and settles each per-key flight with the
// output whose ID matches its key. The first matching output wins.
func distribute[K comparable, V any](shared *Flight[[]V], src Source[K, V], flights map[K]*Flight[V]) {
	outs, err := shared.Wait()
	if err == nil {
		err = index(src, outs, flights)
	}
	if err != nil {
		var zero V
		for _, f := range flights {
			f.settle(zero, err)
		}
	}
}

// index settles every flight whose key appears in outs and fails the rest
// with a MissingOutputError. A panic in IDOf is returned as an error before
// any flight is settled.
func index[K comparable, V any](src Source[K, V], outs []V, flights map[K]*Flight[V]) (err error) {
	byKey := make(map[K]V, len(outs))
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		for _, v := range outs {
			k := src.IDOf(v)
			if _, dup := byKey[k]; !dup {
				byKey[k] = v
			}
		}
	}()
	if err != nil {
		return err
	}
	for k, f := range flights {
		v, ok := byKey[k]
		if !ok {
			f.settle(v, &MissingOutputError[K]{Key: k})
			continue
		}
		f.settle(v, nil)
	}
	return nil
}

// Requested returns every entry the request depends on: hits and new
// in-flight entries.
func (w CoalescedWork[K, V]) Requested() map[K]Entry[V] {
	all := make(map[K]Entry[V], len(w.Hits)+len(w.New))
	for k, e := range w.Hits {
		all[k] = e
	}
	for k, e := range w.New {
		all[k] = e
	}
	return all
}

// Execute waits for the shared fetch and then every requested entry,
// returning one Result per key. A failed shared fetch is not reported here;
// it reaches callers through the per-key results.
func (w CoalescedWork[K, V]) Execute(ctx context.Context) map[K]Result[V] {
	if w.Shared != nil {
		_, _ = w.Shared.WaitContext(ctx)
	}

	requested := w.Requested()
	var (
		mu      sync.Mutex
		results = make(map[K]Result[V], len(requested))
		g       errgroup.Group
	)
	for k, e := range requested {
		g.Go(func() error {
			r := resultOf(e.Value(ctx))
			mu.Lock()
			results[k] = r
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}
