// Package metrics adapts the ticketing context's Metrics port onto the
// process-wide Prometheus collectors.
package metrics

import (
	"ticketaggregator/internal/platform/metrics"
)

// Reporter implements ports.Metrics against the shared prometheus registry.
type Reporter struct{}

func (Reporter) SetOutboxPending(n int) {
	metrics.OutboxPendingGauge.Set(float64(n))
}

func (Reporter) IncOutboxOutcome(outcome string) {
	metrics.OutboxOutcomesTotal.WithLabelValues(outcome).Inc()
}
