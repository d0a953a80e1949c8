package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for one cache instance.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Lookup metrics
	Hits   prometheus.Counter
	Misses prometheus.Counter

	// Recency metrics
	Evictions  prometheus.Counter
	Promotions prometheus.Counter
	Size       prometheus.Gauge

	// Overflow tier metrics (Tiered only)
	OverflowHits      prometheus.Counter
	OverflowReclaimed prometheus.Counter
	OverflowSize      prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// name is attached as the constant label "cache" so several caches can share
// a registry. A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer, namespace, name string) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"cache": name}

	return &Metrics{
		Hits: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "cache_hits_total",
			Help:        "Total number of lookups that found the key",
			ConstLabels: labels,
		}),
		Misses: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "cache_misses_total",
			Help:        "Total number of lookups that did not find the key",
			ConstLabels: labels,
		}),
		Evictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "cache_evictions_total",
			Help:        "Total number of entries evicted to stay within capacity",
			ConstLabels: labels,
		}),
		Promotions: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "cache_promotions_total",
			Help:        "Total number of entries moved to the most-recently-used position",
			ConstLabels: labels,
		}),
		Size: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "cache_entries",
			Help:        "Current number of live entries",
			ConstLabels: labels,
		}),

		OverflowHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "cache_overflow_hits_total",
			Help:        "Total number of overflow tier hits promoted back into the hot tier",
			ConstLabels: labels,
		}),
		OverflowReclaimed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "cache_overflow_reclaimed_total",
			Help:        "Total number of overflow entries found reclaimed by the garbage collector",
			ConstLabels: labels,
		}),
		OverflowSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "cache_overflow_entries",
			Help:        "Current number of overflow tier entries not yet swept",
			ConstLabels: labels,
		}),
	}
}

func (m *Metrics) record(o observation) {
	if m == nil {
		return
	}
	if o.hit {
		m.Hits.Inc()
	}
	if o.miss {
		m.Misses.Inc()
	}
	if o.promoted {
		m.Promotions.Inc()
	}
	if o.evicted {
		m.Evictions.Inc()
	}
	if o.overflowHit {
		m.OverflowHits.Inc()
	}
	if o.reclaimed > 0 {
		m.OverflowReclaimed.Add(float64(o.reclaimed))
	}
}

// setSizes publishes tier sizes. Callers hold the cache lock so concurrent
// operations cannot publish out of order; a negative size is skipped.
func (m *Metrics) setSizes(size, overflowSize int) {
	if m == nil {
		return
	}
	if size >= 0 {
		m.Size.Set(float64(size))
	}
	if overflowSize >= 0 {
		m.OverflowSize.Set(float64(overflowSize))
	}
}
