package inflight

import (
	"errors"
	"fmt"
)

// ErrMissingOutput reports that a fetch succeeded but returned nothing for a
// requested key.
var ErrMissingOutput = errors.New("fetch returned no output for key")

// MissingOutputError carries the key omitted by a fetch.
// It matches ErrMissingOutput with errors.Is.
type MissingOutputError[K comparable] struct {
	Key K
}

func (e *MissingOutputError[K]) Error() string {
	return fmt.Sprintf("%v: %v", ErrMissingOutput, e.Key)
}

func (e *MissingOutputError[K]) Is(target error) bool {
	return target == ErrMissingOutput
}

// FetchError wraps an error returned by Source.Fetch. Every key of the
// failed batch receives the same *FetchError.
type FetchError struct {
	// Keys is the number of keys the failed fetch covered.
	Keys int
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %d keys: %v", e.Keys, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
