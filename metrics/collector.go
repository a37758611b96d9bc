// SPDX-License-Identifier: MIT
// Package metrics exports container builds and bulk copies as Prometheus
// metrics. A *Collector is an array.Observer:
//
//	col := metrics.New(prometheus.DefaultRegisterer)
//	b, _ := array.For[*Point](n, array.WithObserver(col))

package metrics

import (
	"time"

	"github.com/katalvlaran/structarray/array"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "structarray"

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Collector records build and copy events.
type Collector struct {
	builds        *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	slotsBuilt    *prometheus.CounterVec
	copies        *prometheus.CounterVec
	slotsCopied   prometheus.Counter
}

var _ array.Observer = (*Collector)(nil)

// New registers the collector's metrics with reg. A nil reg leaves them
// unregistered, which is useful in tests.
// Panics if the metrics are already registered with reg.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		builds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Container builds by element kind and outcome.",
		}, []string{"kind", "outcome"}),
		buildDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Wall time of container builds.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8),
		}, []string{"kind"}),
		slotsBuilt: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slots_built_total",
			Help:      "Slots stored by builds, nested slots included.",
		}, []string{"kind"}),
		copies: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shallow_copies_total",
			Help:      "ShallowCopy calls by outcome.",
		}, []string{"outcome"}),
		slotsCopied: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slots_copied_total",
			Help:      "Slots copied by successful ShallowCopy calls.",
		}),
	}
}

// BuildFinished implements array.Observer.
func (c *Collector) BuildFinished(m *array.Model, slots uint64, elapsed time.Duration, err error) {
	kind := kindOf(m)
	c.builds.WithLabelValues(kind, outcome(err)).Inc()
	c.buildDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	c.slotsBuilt.WithLabelValues(kind).Add(float64(slots))
}

// RangeCopied implements array.Observer.
func (c *Collector) RangeCopied(_ *array.Model, count uint64, err error) {
	c.copies.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		c.slotsCopied.Add(float64(count))
	}
}

func kindOf(m *array.Model) string {
	if m == nil {
		return "unknown"
	}
	return m.Kind().String()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
