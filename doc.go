// Package cache provides a bounded, concurrency-safe in-memory key-value
// store and the Store interface that package inflight builds on.
//
// See package inflight for a get-or-fetch cache that coalesces concurrent
// batch lookups, and package backedcache for a single-key facade over it.
package cache
