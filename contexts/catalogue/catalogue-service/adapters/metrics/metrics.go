// Package metrics adapts the catalogue context's Metrics port onto the
// process-wide Prometheus collectors.
package metrics

import (
	"time"

	"ticketaggregator/internal/platform/metrics"
)

// Reporter implements ports.Metrics against the shared prometheus registry.
type Reporter struct{}

func (Reporter) ObserveSyncRunDuration(d time.Duration) {
	metrics.SyncRunDuration.Observe(d.Seconds())
}

func (Reporter) SetSyncWatermark(t time.Time) {
	metrics.SyncWatermarkUnixSeconds.Set(float64(t.Unix()))
}
