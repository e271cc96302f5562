package inflight

import (
	"context"
	"fmt"
)

// Flight is a value computed once and observed by any number of waiters.
// Every waiter sees the same value and error.
type Flight[V any] struct {
	done chan struct{}

	// Written once before done is closed, read only after.
	val V
	err error
}

// Go starts fn in a new goroutine and returns the Flight tracking it.
// A panic in fn settles the flight with an error instead of leaving
// waiters blocked.
func Go[V any](fn func() (V, error)) *Flight[V] {
	f := pending[V]()
	go f.run(fn)
	return f
}

func pending[V any]() *Flight[V] {
	return &Flight[V]{done: make(chan struct{})}
}

// Settled returns a Flight that has already completed with v and err.
func Settled[V any](v V, err error) *Flight[V] {
	f := &Flight[V]{done: make(chan struct{}), val: v, err: err}
	close(f.done)
	return f
}

func (f *Flight[V]) run(fn func() (V, error)) {
	var (
		v   V
		err error
	)
	defer func() {
		if r := recover(); r != nil {
			var zero V
			v, err = zero, fmt.Errorf("panic: %v", r)
		}
		f.settle(v, err)
	}()
	v, err = fn()
}

// settle must be called exactly once.
func (f *Flight[V]) settle(v V, err error) {
	f.val, f.err = v, err
	close(f.done)
}

// Done returns a channel closed once the flight settles.
func (f *Flight[V]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the flight settles and returns its outcome.
func (f *Flight[V]) Wait() (V, error) {
	<-f.done
	return f.val, f.err
}

// WaitContext is Wait that gives up when ctx is done. Giving up does not
// affect the flight.
func (f *Flight[V]) WaitContext(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}
