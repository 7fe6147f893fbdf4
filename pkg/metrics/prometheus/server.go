// Package prometheus is the Prometheus-backed implementation of
// pkg/metrics.Metrics.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/trtpd/trtpd/pkg/metrics"
)

// serverMetrics is the Prometheus implementation of metrics.Metrics. Every
// method is nil-receiver safe so callers can pass a nil *serverMetrics
// wherever metrics are disabled without branching.
type serverMetrics struct {
	connectionsActive     prometheus.Gauge
	connectionsTotal      prometheus.Counter
	transactionsTotal     *prometheus.CounterVec
	broadcastDroppedTotal prometheus.Counter
	sessionsAuthenticated prometheus.Counter
}

// NewServerMetrics creates a new Prometheus-backed metrics.Metrics
// implementation, registered against the registry passed to
// metrics.InitRegistry. Returns nil if metrics are not enabled, so callers
// can pass the result straight through to components expecting a
// metrics.Metrics without an extra nil check at the call site.
func NewServerMetrics() metrics.Metrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg, _ := metrics.GetRegistry().(*prometheus.Registry)
	factory := promauto.With(reg)
	if reg == nil {
		factory = promauto.With(prometheus.DefaultRegisterer)
	}

	return &serverMetrics{
		connectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "trtpd_connections_active",
			Help: "Number of currently open TRTP connections.",
		}),
		connectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "trtpd_connections_total",
			Help: "Total number of TRTP connections accepted.",
		}),
		transactionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trtpd_transactions_total",
			Help: "Total number of TRTP transactions dispatched, by type.",
		}, []string{"type"}),
		broadcastDroppedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "trtpd_broadcast_drops_total",
			Help: "Total number of broadcast events dropped for a full subscriber channel.",
		}),
		sessionsAuthenticated: factory.NewCounter(prometheus.CounterOpts{
			Name: "trtpd_sessions_authenticated_total",
			Help: "Total number of sessions that completed login, guest or named.",
		}),
	}
}

func (m *serverMetrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.connectionsActive.Inc()
	m.connectionsTotal.Inc()
}

func (m *serverMetrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.connectionsActive.Dec()
}

func (m *serverMetrics) TransactionHandled(transactionType string) {
	if m == nil {
		return
	}
	m.transactionsTotal.WithLabelValues(transactionType).Inc()
}

func (m *serverMetrics) BroadcastDropped() {
	if m == nil {
		return
	}
	m.broadcastDroppedTotal.Inc()
}

func (m *serverMetrics) SessionAuthenticated() {
	if m == nil {
		return
	}
	m.sessionsAuthenticated.Inc()
}
