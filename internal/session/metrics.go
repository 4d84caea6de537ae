package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	lookupHit     = "hit"
	lookupMiss    = "miss"
	lookupExpired = "expired"
	lookupError   = "error"
)

// Metrics counts session lifecycle events.
type Metrics struct {
	createdTotal   prometheus.Counter
	destroyedTotal prometheus.Counter
	lookups        *prometheus.CounterVec
}

// NewMetrics registers the session collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		createdTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "sessions_created_total",
			Help: "Total number of sessions created at login",
		}),
		destroyedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "sessions_destroyed_total",
			Help: "Total number of sessions destroyed at logout",
		}),
		lookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "session_lookups_total",
			Help: "Total number of session lookups by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) created() {
	if m != nil {
		m.createdTotal.Inc()
	}
}

func (m *Metrics) destroyed() {
	if m != nil {
		m.destroyedTotal.Inc()
	}
}

func (m *Metrics) lookup(result string) {
	if m != nil {
		m.lookups.WithLabelValues(result).Inc()
	}
}
