// Package metrics exposes Prometheus counters for gate outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// deliveries tracks processed deliveries by event type and outcome.
	deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hookgate_deliveries_total",
			Help: "Total webhook deliveries by event type and outcome",
		},
		[]string{"event", "outcome"},
	)

	// signatureFailures tracks rejected signatures. Missing header, unset
	// secret and mismatch are deliberately not distinguished.
	signatureFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hookgate_signature_failures_total",
			Help: "Total deliveries rejected by signature verification",
		},
	)
)

// RecordDelivery increments the delivery counter.
func RecordDelivery(event, outcome string) {
	deliveries.WithLabelValues(event, outcome).Inc()
}

// RecordSignatureFailure increments the signature failure counter.
func RecordSignatureFailure() {
	signatureFailures.Inc()
}

// Handler returns the Prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
