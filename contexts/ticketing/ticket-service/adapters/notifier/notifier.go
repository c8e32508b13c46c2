// Package notifieradapter wraps the shared notifier client so the outbox
// worker depends only on ticket-service's own ports.
package notifieradapter

import (
	"context"

	"ticketaggregator/internal/platform/notifier"
)

// Client adapts notifier.Client into ports.Notifier.
type Client struct {
	Inner *notifier.Client
}

func (c Client) SendNotification(ctx context.Context, message, referenceID, idempotencyKey string) (sent bool, retryable bool, err error) {
	outcome, sendErr := c.Inner.SendNotification(ctx, message, referenceID, idempotencyKey)
	switch outcome {
	case notifier.OutcomeSent:
		return true, false, nil
	case notifier.OutcomeRetryable:
		return false, true, sendErr
	default:
		return false, false, sendErr
	}
}
