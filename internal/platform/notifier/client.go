// Package notifier is the typed client to the downstream notification
// service (Capashino), consumed only by the outbox worker.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config controls the notifier HTTP client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client sends registration notifications to the downstream service. Unlike
// the events provider client it does not retry: the outbox worker owns
// retry/backoff across ticks, so a single failed attempt here just bumps
// the outbox record's retry_count on the next tick.
type Client struct {
	http *resty.Client
}

// NewClient builds a notifier client. An empty baseURL is valid: the outbox
// worker then treats every send as a permanent failure, since no downstream
// notification endpoint has been configured for this deployment.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("X-API-Key", cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	return &Client{http: httpClient}
}

type sendNotificationRequest struct {
	Message        string `json:"message"`
	ReferenceID    string `json:"reference_id"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Outcome classifies how the downstream notification service responded.
type Outcome int

const (
	// OutcomeSent means the notification was accepted (HTTP 201).
	OutcomeSent Outcome = iota
	// OutcomeRetryable means the send failed in a way the outbox worker
	// should retry on its next tick (network error or 5xx).
	OutcomeRetryable
	// OutcomePermanent means the send failed in a way retrying will never
	// fix (malformed body, bad API key, or an idempotency-key collision
	// with a previously sent notification).
	OutcomePermanent
)

// SendNotification posts one registration notification. It never returns a
// Go error for a well-formed HTTP response: the outcome alone tells the
// caller whether to mark the record sent, retry it, or fail it outright.
func (c *Client) SendNotification(ctx context.Context, message, referenceID, idempotencyKey string) (Outcome, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sendNotificationRequest{
			Message:        message,
			ReferenceID:    referenceID,
			IdempotencyKey: idempotencyKey,
		}).
		Post("/api/notifications")
	if err != nil {
		return OutcomeRetryable, nil
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusCreated:
		return OutcomeSent, nil
	case status == http.StatusBadRequest:
		return OutcomePermanent, fmt.Errorf("notifier rejected request body: %s", bodyOrStatus(resp))
	case status == http.StatusUnauthorized:
		return OutcomePermanent, fmt.Errorf("notifier rejected api key: %s", bodyOrStatus(resp))
	case status == http.StatusConflict:
		return OutcomePermanent, fmt.Errorf("notifier already has a notification for this idempotency key: %s", bodyOrStatus(resp))
	case status >= 500:
		return OutcomeRetryable, fmt.Errorf("notifier server error: %s", bodyOrStatus(resp))
	default:
		return OutcomePermanent, fmt.Errorf("unexpected notifier response: %s", bodyOrStatus(resp))
	}
}

func bodyOrStatus(resp *resty.Response) string {
	var decoded map[string]any
	if err := json.Unmarshal(resp.Body(), &decoded); err == nil && len(decoded) > 0 {
		encoded, _ := json.Marshal(decoded)
		return fmt.Sprintf("%d %s", resp.StatusCode(), encoded)
	}
	return fmt.Sprintf("%d %s", resp.StatusCode(), resp.Status())
}
