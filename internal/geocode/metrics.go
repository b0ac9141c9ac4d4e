package geocode

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup outcomes, used as the "outcome" metric label.
const (
	outcomeResolved   = "resolved"
	outcomeTooShort   = "too_short"
	outcomeNoResult   = "no_result"
	outcomeIrrelevant = "irrelevant"
	outcomeError      = "error"
)

// Metrics records resolver activity. A nil *Metrics records nothing.
type Metrics struct {
	lookups  *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates the resolver metrics and registers them with reg.
// It panics if they are already registered, like prometheus.MustRegister.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trips",
			Subsystem: "geocode",
			Name:      "lookups_total",
			Help:      "Destination lookups by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trips",
			Subsystem: "geocode",
			Name:      "lookup_duration_seconds",
			Help:      "Time spent resolving a destination, retries included.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.lookups, m.duration)
	return m
}

func (m *Metrics) observe(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(outcome).Inc()
	m.duration.Observe(d.Seconds())
}
