// backedcache is a single-key view of an inflight.Cache. Concurrent Gets for
// the same key are collapsed (via a singleflight group) before they reach the
// batch cache, so hot keys do not contend on its lock.
package backedcache
