package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects relay observability counters. They never influence
// control flow.
type Metrics struct {
	registry *prometheus.Registry

	bytesForwarded *prometheus.CounterVec
	connections    *prometheus.CounterVec
	parseErrors    prometheus.Counter
	activeRelays   prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		bytesForwarded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "relay_pls",
				Name:      "bytes_forwarded_total",
				Help:      "Bytes forwarded through the relay per direction",
			},
			[]string{"direction"},
		),

		connections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "relay_pls",
				Name:      "connections_total",
				Help:      "Accepted connections per handler",
			},
			[]string{"handler"},
		),

		parseErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "relay_pls",
				Name:      "parse_errors_total",
				Help:      "Fatal HTTP parse errors",
			},
		),

		activeRelays: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "relay_pls",
				Name:      "active_relays",
				Help:      "Relays currently pumping bytes",
			},
		),
	}

	m.registry.MustRegister(
		m.bytesForwarded,
		m.connections,
		m.parseErrors,
		m.activeRelays,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordExchange(toTarget, toClient int64) {
	m.bytesForwarded.WithLabelValues("to_target").Add(float64(toTarget))
	m.bytesForwarded.WithLabelValues("to_client").Add(float64(toClient))
}

func (m *Metrics) RecordConnection(handler string) {
	m.connections.WithLabelValues(handler).Inc()
}

func (m *Metrics) RecordParseError() {
	m.parseErrors.Inc()
}

func (m *Metrics) RelayStarted() {
	m.activeRelays.Inc()
}

func (m *Metrics) RelayFinished() {
	m.activeRelays.Dec()
}
