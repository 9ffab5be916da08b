package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/eleven-am/voice-bridge/internal/live"
	"github.com/eleven-am/voice-bridge/internal/protocol"
)

// Metrics holds the gateway's Prometheus instruments. All record helpers
// are nil-safe so tests can run bridges without a registry.
type Metrics struct {
	ActiveConnections prometheus.Gauge
	ConnectionsTotal  prometheus.Counter
	ConnectFailures   prometheus.Counter
	FramesReceived    *prometheus.CounterVec
	FramesSent        *prometheus.CounterVec
	DecodeErrors      prometheus.Counter
	BackendEvents     *prometheus.CounterVec
	Broadcasts        *prometheus.CounterVec
	SessionDuration   prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ActiveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "voice_bridge_active_connections",
			Help: "Number of currently active client connections",
		}),
		ConnectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "voice_bridge_connections_total",
			Help: "Total number of client connections that reached the active state",
		}),
		ConnectFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "voice_bridge_connect_failures_total",
			Help: "Total number of backend session opens that failed",
		}),
		FramesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_bridge_frames_received_total",
			Help: "Total client frames decoded, by envelope type",
		}, []string{"type"}),
		FramesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_bridge_frames_sent_total",
			Help: "Total server frames queued for delivery, by envelope type",
		}, []string{"type"}),
		DecodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "voice_bridge_decode_errors_total",
			Help: "Total client frames rejected by the codec",
		}),
		BackendEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_bridge_backend_events_total",
			Help: "Total backend session events, by kind",
		}, []string{"kind"}),
		Broadcasts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_bridge_broadcast_deliveries_total",
			Help: "Total broadcast deliveries, by result",
		}, []string{"result"}),
		SessionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voice_bridge_session_duration_seconds",
			Help:    "Duration of bridged sessions from active to closed",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
		}),
	}
}

func (m *Metrics) RecordConnected() {
	if m == nil {
		return
	}
	m.ConnectionsTotal.Inc()
	m.ActiveConnections.Inc()
}

func (m *Metrics) RecordDisconnected(durationSeconds float64) {
	if m == nil {
		return
	}
	m.ActiveConnections.Dec()
	m.SessionDuration.Observe(durationSeconds)
}

func (m *Metrics) RecordConnectFailure() {
	if m == nil {
		return
	}
	m.ConnectFailures.Inc()
}

func (m *Metrics) RecordFrameReceived(t protocol.Type) {
	if m == nil {
		return
	}
	m.FramesReceived.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) RecordFrameSent(t protocol.Type) {
	if m == nil {
		return
	}
	m.FramesSent.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) RecordDecodeError() {
	if m == nil {
		return
	}
	m.DecodeErrors.Inc()
}

func (m *Metrics) RecordBackendEvent(kind live.EventKind) {
	if m == nil {
		return
	}
	m.BackendEvents.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) RecordBroadcast(delivered, failed int) {
	if m == nil {
		return
	}
	m.Broadcasts.WithLabelValues("delivered").Add(float64(delivered))
	m.Broadcasts.WithLabelValues("failed").Add(float64(failed))
}
