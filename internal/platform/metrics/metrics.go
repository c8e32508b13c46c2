// Package metrics exposes the process's prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the Prometheus scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

var (
	// HTTPRequestDuration tracks request latency by method, path, and status.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// ProviderRequestsTotal counts provider HTTP calls by endpoint and outcome.
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of upstream provider requests",
		},
		[]string{"endpoint", "outcome"},
	)

	// ProviderRetriesTotal counts retry attempts issued by the provider client.
	ProviderRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_retries_total",
			Help: "Total number of provider request retries",
		},
		[]string{"endpoint"},
	)

	// SyncRunDuration tracks how long a full sync run takes.
	SyncRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_run_duration_seconds",
			Help:    "Duration of a sync engine run",
			Buckets: prometheus.DefBuckets,
		},
	)

	// SyncWatermarkUnixSeconds reports the last advanced changed_at watermark.
	SyncWatermarkUnixSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_watermark_unix_seconds",
			Help: "Unix timestamp of the last advanced sync watermark",
		},
	)

	// OutboxPendingGauge reports the outbox rows claimed in the last tick.
	OutboxPendingGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "outbox_pending_records",
			Help: "Number of pending outbox records claimed in the last worker tick",
		},
	)

	// OutboxOutcomesTotal counts terminal outcomes reached by outbox records.
	OutboxOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbox_outcomes_total",
			Help: "Total outbox records reaching a sent/failed/retry outcome",
		},
		[]string{"outcome"},
	)
)
