package inflight

import (
	"io"
	"log/slog"

	cache "github.com/barrett370/inflightcache"
)

type options struct {
	capacity int
	logger   *slog.Logger
	metrics  *Metrics
}

func defaultOptions() options {
	return options{
		capacity: cache.DefaultCapacity,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option configures a Cache.
type Option func(*options)

// WithCapacity bounds the store created by New. It has no effect on NewFrom.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithLogger sets the logger for fetch events. Nil keeps the default, which
// discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records lookups and fetches in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}
