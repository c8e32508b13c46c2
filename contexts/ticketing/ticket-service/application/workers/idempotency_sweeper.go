package workers

import (
	"context"
	"log/slog"

	"ticketaggregator/contexts/ticketing/ticket-service/application"
	"ticketaggregator/contexts/ticketing/ticket-service/ports"
)

// IdempotencySweeper periodically deletes expired idempotency records (C6
// sweep_expired).
type IdempotencySweeper struct {
	Idempotency ports.IdempotencyStore
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (s IdempotencySweeper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(s.Logger)
	removed, err := s.Idempotency.SweepExpired(ctx, s.Clock.Now().UTC())
	if err != nil {
		logger.Error("idempotency sweep failed",
			"event", "ticket_idempotency_sweep_failed",
			"module", "ticketing/ticket-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if removed > 0 {
		logger.Info("idempotency sweep completed",
			"event", "ticket_idempotency_sweep_completed",
			"module", "ticketing/ticket-service",
			"layer", "worker",
			"removed_count", removed,
		)
	}
	return nil
}
