package collector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons used as the reason label.
const (
	reasonReceive   = "receive"
	reasonMalformed = "malformed"
	reasonStore     = "store"
)

// Metrics holds the collector's Prometheus metrics
type Metrics struct {
	cardsReceivedTotal  prometheus.Counter
	cardsRejectedTotal  *prometheus.CounterVec
	cardBytes           prometheus.Histogram
	connectionsInFlight prometheus.Gauge
}

// NewMetrics creates the collector metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		cardsReceivedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cardazim_cards_received_total",
				Help: "Total number of cards received and accepted",
			},
		),

		cardsRejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardazim_cards_rejected_total",
				Help: "Total number of connections that did not yield a stored card",
			},
			[]string{"reason"},
		),

		cardBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cardazim_card_bytes",
				Help:    "Size of accepted cards in bytes",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
			},
		),

		connectionsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cardazim_connections_in_flight",
				Help: "Number of connections currently being handled",
			},
		),
	}
}

func (m *Metrics) recordReceived(size int) {
	if m == nil {
		return
	}
	m.cardsReceivedTotal.Inc()
	m.cardBytes.Observe(float64(size))
}

func (m *Metrics) recordRejected(reason string) {
	if m == nil {
		return
	}
	m.cardsRejectedTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) connectionOpened() {
	if m != nil {
		m.connectionsInFlight.Inc()
	}
}

func (m *Metrics) connectionClosed() {
	if m != nil {
		m.connectionsInFlight.Dec()
	}
}
