package observability

import (
	"context"

	"github.com/aretw0/musicbox-realtime/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the echo service collectors.
type Metrics struct {
	Connections  prometheus.Counter
	Active       prometheus.Gauge
	Messages     prometheus.Counter
	MessageBytes prometheus.Histogram
	DecodeErrors prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Connections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "musicbox_ws_connections_total",
			Help: "Total number of accepted WebSocket connections",
		}),
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "musicbox_ws_active_connections",
			Help: "Number of open WebSocket connections",
		}),
		Messages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "musicbox_ws_messages_total",
			Help: "Total number of inbound messages",
		}),
		MessageBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "musicbox_ws_message_bytes",
			Help:    "Size of inbound messages",
			Buckets: prometheus.ExponentialBuckets(16, 4, 7),
		}),
		DecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "musicbox_ws_decode_errors_total",
			Help: "Inbound messages that were not valid JSON",
		}),
	}
	reg.MustRegister(m.Connections, m.Active, m.Messages, m.MessageBytes, m.DecodeErrors)
	return m
}

// Hooks returns connection hooks that update the collectors.
func (m *Metrics) Hooks() domain.ConnectionHooks {
	return domain.ConnectionHooks{
		OnConnect: func(context.Context, *domain.ConnectionEvent) {
			m.Connections.Inc()
			m.Active.Inc()
		},
		OnMessage: func(_ context.Context, e *domain.ConnectionEvent) {
			m.Messages.Inc()
			m.MessageBytes.Observe(float64(e.Size))
		},
		OnDecodeError: func(context.Context, *domain.ConnectionEvent) {
			m.DecodeErrors.Inc()
		},
		OnDisconnect: func(context.Context, *domain.ConnectionEvent) {
			m.Active.Dec()
		},
	}
}
