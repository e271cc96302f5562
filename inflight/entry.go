package inflight

import (
	"context"
	"errors"
)

var errInvalidEntry = errors.New("invalid cache entry")

// State is the lifecycle stage of an Entry.
type State int

const (
	// StateInFlight means the value is being fetched.
	StateInFlight State = iota + 1
	// StateResolved means the value is available.
	StateResolved
	// StateFailed means the fetch failed.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInFlight:
		return "in-flight"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Entry is the per-key value held in the store. Build one with InFlight,
// Resolved or Failed; the zero Entry is not meaningful.
type Entry[V any] struct {
	state  State
	flight *Flight[V]
	value  V
	err    error
}

// InFlight returns an entry whose value will come from f.
func InFlight[V any](f *Flight[V]) Entry[V] {
	return Entry[V]{state: StateInFlight, flight: f}
}

// Resolved returns an entry holding v.
func Resolved[V any](v V) Entry[V] {
	return Entry[V]{state: StateResolved, value: v}
}

// Failed returns an entry holding err.
func Failed[V any](err error) Entry[V] {
	return Entry[V]{state: StateFailed, err: err}
}

// State reports the entry's state.
func (e Entry[V]) State() State { return e.state }

// Valid reports whether the entry can be served as a hit.
// Failed and zero entries are never valid.
func (e Entry[V]) Valid() bool {
	return (e.state == StateInFlight && e.flight != nil) || e.state == StateResolved
}

// ResolvedValue returns the value of a resolved entry.
func (e Entry[V]) ResolvedValue() (V, bool) {
	if e.state != StateResolved {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Value returns the entry's value, blocking on an in-flight entry until its
// flight settles or ctx is done.
func (e Entry[V]) Value(ctx context.Context) (V, error) {
	switch e.state {
	case StateResolved:
		return e.value, nil
	case StateInFlight:
		if e.flight != nil {
			return e.flight.WaitContext(ctx)
		}
	case StateFailed:
		var zero V
		return zero, e.err
	}
	var zero V
	return zero, errInvalidEntry
}

// sameFlight reports whether e and o are in-flight entries backed by the
// same flight.
func (e Entry[V]) sameFlight(o Entry[V]) bool {
	return e.state == StateInFlight && o.state == StateInFlight && e.flight != nil && e.flight == o.flight
}
