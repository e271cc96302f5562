package inflight

// Result is the outcome for one requested key: a value or an error, never both.
type Result[V any] struct {
	value V
	err   error
}

// Success returns a successful Result.
func Success[V any](v V) Result[V] {
	return Result[V]{value: v}
}

// Failure returns a failed Result. err must be non-nil.
func Failure[V any](err error) Result[V] {
	return Result[V]{err: err}
}

// OK reports whether r holds a value.
func (r Result[V]) OK() bool { return r.err == nil }

// Err returns the failure, or nil.
func (r Result[V]) Err() error { return r.err }

// Get returns the value and error.
func (r Result[V]) Get() (V, error) { return r.value, r.err }

func resultOf[V any](v V, err error) Result[V] {
	if err != nil {
		return Failure[V](err)
	}
	return Success(v)
}
