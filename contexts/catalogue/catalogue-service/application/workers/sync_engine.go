// Package workers holds the catalogue context's long-running and
// on-demand background jobs.
package workers

import (
	"context"
	"log/slog"
	"time"

	"ticketaggregator/contexts/catalogue/catalogue-service/application"
	"ticketaggregator/contexts/catalogue/catalogue-service/ports"
)

// defaultChangedAtFloor is used when no SyncMetadata row and no forced
// override are available — spec.md §4.5 step 2's "2000-01-01" fallback.
const defaultChangedAtFloor = "2000-01-01"

// SyncEngine is the incremental sync engine (C5): a scheduled, singleton
// puller that walks provider pagination with a monotonic changed_at
// watermark and upserts places/events.
type SyncEngine struct {
	Places   ports.PlaceRepository
	Events   ports.EventRepository
	Metadata ports.SyncMetadataStore
	Source   ports.EventSource
	Clock    ports.Clock
	Metrics  ports.Metrics
	Logger   *slog.Logger
}

// RunOnce implements scheduler.Job, running a sync pass with no forced
// changed_at override. It never returns an error for lock contention —
// spec.md §4.5 step 1: "if not acquired, return silently."
func (e SyncEngine) RunOnce(ctx context.Context) error {
	_, err := e.RunWithOverride(ctx, nil)
	return err
}

// RunWithOverride runs one sync pass, optionally forcing the changed_at
// filter instead of reading the stored watermark. acquired reports whether
// this call held the sync lock; when false, no work was done and err is
// nil — another syncer is already running.
func (e SyncEngine) RunWithOverride(ctx context.Context, forcedChangedAt *string) (acquired bool, err error) {
	logger := application.ResolveLogger(e.Logger)
	now := e.Clock.Now().UTC()
	runStarted := now

	acquired, lastChangedAt, err := e.Metadata.AcquireLock(ctx, now)
	if err != nil {
		return false, err
	}
	if !acquired {
		logger.Info("sync lock held by another syncer, skipping run",
			"event", "sync_lock_contended",
			"module", "catalogue/catalogue-service",
			"layer", "worker",
		)
		return false, nil
	}
	if e.Metrics != nil {
		defer func() { e.Metrics.ObserveSyncRunDuration(e.Clock.Now().UTC().Sub(runStarted)) }()
	}

	maxChangedAt, runErr := e.pull(ctx, logger, forcedChangedAt, lastChangedAt)
	if runErr != nil {
		logger.Error("sync run failed",
			"event", "sync_run_failed",
			"module", "catalogue/catalogue-service",
			"layer", "worker",
			"error", runErr.Error(),
		)
		if releaseErr := e.Metadata.ReleaseLock(ctx, false, nil); releaseErr != nil {
			logger.Error("sync lock release failed after run failure",
				"event", "sync_lock_release_failed",
				"module", "catalogue/catalogue-service",
				"layer", "worker",
				"error", releaseErr.Error(),
			)
		}
		return true, runErr
	}

	if err := e.Metadata.ReleaseLock(ctx, true, maxChangedAt); err != nil {
		return true, err
	}
	if maxChangedAt != nil {
		logger.Info("sync run completed",
			"event", "sync_run_completed",
			"module", "catalogue/catalogue-service",
			"layer", "worker",
			"watermark", maxChangedAt.Format(time.RFC3339),
		)
		if e.Metrics != nil {
			e.Metrics.SetSyncWatermark(*maxChangedAt)
		}
	}
	return true, nil
}

func (e SyncEngine) pull(
	ctx context.Context,
	logger *slog.Logger,
	forcedChangedAt *string,
	lastChangedAt *time.Time,
) (*time.Time, error) {
	changedAt := defaultChangedAtFloor
	switch {
	case forcedChangedAt != nil && *forcedChangedAt != "":
		changedAt = *forcedChangedAt
	case lastChangedAt != nil:
		changedAt = lastChangedAt.Format("2006-01-02")
	}

	var maxChangedAt *time.Time
	cursor := e.Source.NewCursor(changedAt)
	for {
		page, ok, err := cursor.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		if lastChangedAt != nil && !page.Event.ChangedAt.After(*lastChangedAt) {
			continue
		}

		if err := e.Places.UpsertPlace(ctx, page.Place); err != nil {
			return nil, err
		}
		if err := e.Events.UpsertEvent(ctx, page.Event); err != nil {
			return nil, err
		}

		changedAtCopy := page.Event.ChangedAt
		if maxChangedAt == nil || changedAtCopy.After(*maxChangedAt) {
			maxChangedAt = &changedAtCopy
		}
	}
	return maxChangedAt, nil
}
