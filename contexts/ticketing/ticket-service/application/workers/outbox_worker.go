package workers

import (
	"context"
	"encoding/json"
	"log/slog"

	"ticketaggregator/contexts/ticketing/ticket-service/application"
	"ticketaggregator/contexts/ticketing/ticket-service/ports"
)

const (
	defaultOutboxBatchSize   = 10
	defaultOutboxMaxRetries  = 5
	defaultOutboxDaysToKeep  = 7
)

// OutboxWorker is the long-running cooperative task (C8) that drains
// pending outbox rows to the notifier, parking permanently-failed rows and
// trimming old sent rows each tick.
type OutboxWorker struct {
	Outbox     ports.OutboxStore
	Notifier   ports.Notifier
	Clock      ports.Clock
	Metrics    ports.Metrics
	BatchSize  int
	MaxRetries int
	DaysToKeep int
	Logger     *slog.Logger
}

type ticketCreatedOutboxPayload struct {
	TicketID string `json:"ticket_id"`
}

// RunOnce implements scheduler.Job, running one tick.
func (w OutboxWorker) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(w.Logger)
	batchSize := w.BatchSize
	if batchSize <= 0 {
		batchSize = defaultOutboxBatchSize
	}
	maxRetries := w.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultOutboxMaxRetries
	}
	daysToKeep := w.DaysToKeep
	if daysToKeep <= 0 {
		daysToKeep = defaultOutboxDaysToKeep
	}

	pending, err := w.Outbox.GetPending(ctx, batchSize)
	if err != nil {
		logger.Error("outbox list pending failed",
			"event", "ticket_outbox_list_failed",
			"module", "ticketing/ticket-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return nil
	}

	if w.Metrics != nil {
		w.Metrics.SetOutboxPending(len(pending))
	}
	for _, row := range pending {
		w.processRecord(ctx, logger, row, maxRetries)
	}

	now := w.Clock.Now().UTC()
	cutoff := now.AddDate(0, 0, -daysToKeep)
	deleted, err := w.Outbox.DeleteOlderThanSent(ctx, cutoff)
	if err != nil {
		logger.Error("outbox retention trim failed",
			"event", "ticket_outbox_trim_failed",
			"module", "ticketing/ticket-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return nil
	}
	if deleted > 0 {
		logger.Info("outbox retention trim completed",
			"event", "ticket_outbox_trim_completed",
			"module", "ticketing/ticket-service",
			"layer", "worker",
			"deleted_count", deleted,
		)
	}
	return nil
}

func (w OutboxWorker) processRecord(ctx context.Context, logger *slog.Logger, row ports.OutboxRecord, maxRetries int) {
	if row.RetryCount >= maxRetries {
		w.observeOutcome("failed")
		if err := w.Outbox.MarkFailed(ctx, row.ID); err != nil {
			logger.Error("outbox mark failed failed",
				"event", "ticket_outbox_mark_failed_failed",
				"module", "ticketing/ticket-service",
				"layer", "worker",
				"outbox_id", row.ID,
				"error", err.Error(),
			)
		}
		return
	}

	var payload ticketCreatedOutboxPayload
	ticket := "unknown"
	if err := json.Unmarshal(row.Payload, &payload); err == nil && payload.TicketID != "" {
		ticket = payload.TicketID
	}

	message := "Вы успешно зарегистрированы на мероприятие (билет " + ticket + ")"
	sent, retryable, err := w.Notifier.SendNotification(ctx, message, ticket, "outbox_"+row.ID)
	if err != nil || (!sent && !retryable) {
		w.observeOutcome("permanent_failure")
		logger.Error("outbox notifier call failed permanently",
			"event", "ticket_outbox_notifier_permanent_failure",
			"module", "ticketing/ticket-service",
			"layer", "worker",
			"outbox_id", row.ID,
		)
		if incErr := w.Outbox.IncrementRetry(ctx, row.ID); incErr != nil {
			logger.Error("outbox increment retry failed",
				"event", "ticket_outbox_increment_retry_failed",
				"module", "ticketing/ticket-service",
				"layer", "worker",
				"outbox_id", row.ID,
				"error", incErr.Error(),
			)
		}
		return
	}

	if sent {
		w.observeOutcome("sent")
		if err := w.Outbox.MarkSent(ctx, row.ID); err != nil {
			logger.Error("outbox mark sent failed",
				"event", "ticket_outbox_mark_sent_failed",
				"module", "ticketing/ticket-service",
				"layer", "worker",
				"outbox_id", row.ID,
				"error", err.Error(),
			)
		}
		return
	}

	w.observeOutcome("retry")
	if err := w.Outbox.IncrementRetry(ctx, row.ID); err != nil {
		logger.Error("outbox increment retry failed",
			"event", "ticket_outbox_increment_retry_failed",
			"module", "ticketing/ticket-service",
			"layer", "worker",
			"outbox_id", row.ID,
			"error", err.Error(),
		)
	}
}

func (w OutboxWorker) observeOutcome(outcome string) {
	if w.Metrics != nil {
		w.Metrics.IncOutboxOutcome(outcome)
	}
}
