// Package inflight implements a get-or-fetch cache for keyed values whose
// backing source can fetch many keys in one call.
//
// A request for a batch of keys is split into hits (resolved or already in
// flight) and misses. All misses are fetched together by a single call to
// [Source.Fetch], and each missing key gets an in-flight [Entry] derived from
// that call. The entries are published to the store before the lock guarding
// it is released, so a concurrent request for an overlapping set of keys
// waits on the same fetch instead of starting another one:
//
//	src := inflight.SourceFuncs[int, *User]{
//		ID:        func(u *User) int { return u.ID },
//		FetchFunc: db.UsersByID,
//	}
//	c := inflight.New[int, *User](src, inflight.WithCapacity(10_000))
//
//	for id, r := range c.RequestValues(ctx, []int{1, 2, 3}) {
//		u, err := r.Get()
//		...
//	}
//
// Failures are per key and are not cached: a failed key is removed from the
// store so the next request fetches it again. There is no expiry and no
// retry; callers own their Source's failure policy.
package inflight
