package inflight

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for a Cache. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	lookups        *prometheus.CounterVec
	fetches        prometheus.Counter
	fetchErrors    prometheus.Counter
	missingOutputs prometheus.Counter
	fetchDuration  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg, if non-nil.
// It panics if registration fails, like prometheus.MustRegister.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inflight_cache_lookups_total",
			Help: "Total requested keys by cache result",
		}, []string{"result"}),
		fetches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inflight_cache_fetches_total",
			Help: "Total shared batch fetches started",
		}),
		fetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inflight_cache_fetch_errors_total",
			Help: "Total shared batch fetches that failed",
		}),
		missingOutputs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inflight_cache_missing_outputs_total",
			Help: "Total keys a successful fetch returned no output for",
		}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "inflight_cache_fetch_duration_seconds",
			Help:    "Shared batch fetch latency",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.lookups, m.fetches, m.fetchErrors, m.missingOutputs, m.fetchDuration)
	}
	return m
}

func (m *Metrics) lookup(hits, misses int) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues("hit").Add(float64(hits))
	m.lookups.WithLabelValues("miss").Add(float64(misses))
}

func (m *Metrics) fetched(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.fetches.Inc()
	m.fetchDuration.Observe(d.Seconds())
	if err != nil {
		m.fetchErrors.Inc()
	}
}

func (m *Metrics) missing(n int) {
	if m == nil || n == 0 {
		return
	}
	m.missingOutputs.Add(float64(n))
}
