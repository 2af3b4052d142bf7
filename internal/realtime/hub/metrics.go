package hub

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the hub's Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Connections       prometheus.Gauge
	ConnectionsDenied prometheus.Counter
	Dropped           *prometheus.CounterVec
	Broadcasts        *prometheus.CounterVec
	Deliveries        prometheus.Counter
	InboundFrames     *prometheus.CounterVec
}

// NewMetrics registers the hub collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Connections: f.NewGauge(prometheus.GaugeOpts{
			Name: "clinicdesk_hub_connections",
			Help: "Number of live push connections",
		}),
		ConnectionsDenied: f.NewCounter(prometheus.CounterOpts{
			Name: "clinicdesk_hub_connections_denied_total",
			Help: "Push connections refused because the hub was at capacity",
		}),
		Dropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clinicdesk_hub_connections_dropped_total",
			Help: "Push connections removed after a failed or stalled delivery",
		}, []string{"reason"}),
		Broadcasts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clinicdesk_hub_broadcasts_total",
			Help: "Events fanned out to local connections",
		}, []string{"kind"}),
		Deliveries: f.NewCounter(prometheus.CounterOpts{
			Name: "clinicdesk_hub_deliveries_total",
			Help: "Event frames enqueued to individual connections",
		}),
		InboundFrames: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clinicdesk_hub_inbound_frames_total",
			Help: "Frames received from clients by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) setConnections(n int) {
	if m == nil {
		return
	}
	m.Connections.Set(float64(n))
}

func (m *Metrics) incRejected() {
	if m == nil {
		return
	}
	m.ConnectionsDenied.Inc()
}

func (m *Metrics) incDropped(reason string) {
	if m == nil {
		return
	}
	m.Dropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) observeBroadcast(kind string, delivered int) {
	if m == nil {
		return
	}
	m.Broadcasts.WithLabelValues(kind).Inc()
	m.Deliveries.Add(float64(delivered))
}

func (m *Metrics) incInbound(outcome string) {
	if m == nil {
		return
	}
	m.InboundFrames.WithLabelValues(outcome).Inc()
}
