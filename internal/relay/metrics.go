package relay

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OutcomeSuccess is the outcome label recorded for successful invocations.
const OutcomeSuccess = "success"

// Metrics holds the Prometheus collectors for relay activity.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	inflight    prometheus.Gauge
	queued      prometheus.Gauge
}

// NewMetrics registers the relay collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		invocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reader",
			Subsystem: "relay",
			Name:      "invocations_total",
			Help:      "External process invocations by endpoint and terminal outcome.",
		}, []string{"endpoint", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reader",
			Subsystem: "relay",
			Name:      "duration_seconds",
			Help:      "Wall-clock time from admission to terminal outcome.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}, []string{"endpoint"}),
		inflight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "reader",
			Subsystem: "relay",
			Name:      "inflight",
			Help:      "External processes currently running.",
		}),
		queued: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "reader",
			Subsystem: "relay",
			Name:      "queued",
			Help:      "Requests waiting for a process slot.",
		}),
	}
}

func (m *Metrics) observe(endpoint string, out Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(endpoint, out.Label()).Inc()
	m.duration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Metrics) addInflight(delta float64) {
	if m != nil {
		m.inflight.Add(delta)
	}
}

func (m *Metrics) addQueued(delta float64) {
	if m != nil {
		m.queued.Add(delta)
	}
}
