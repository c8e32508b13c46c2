// Package provider is the typed RPC client to the upstream events provider,
// shared by the paginator, the seats cache and the ticket pipeline.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"ticketaggregator/internal/platform/metrics"
)

// Config controls transport timeouts and the retry/backoff policy.
type Config struct {
	BaseURL       string
	APIKey        string
	MaxRetries    int
	BackoffFactor time.Duration
	ConnectTimeout time.Duration
	TotalTimeout   time.Duration
}

// Client is a retry-aware HTTP client for the events provider.
type Client struct {
	http          *resty.Client
	breaker       *gobreaker.CircuitBreaker
	baseURL       string
	maxRetries    int
	backoffFactor time.Duration
	logger        *slog.Logger
}

var retryableStatuses = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// NewClient builds a provider client with the connect/total timeouts,
// retry policy and circuit breaker settings from spec.md §4.1, grounded on
// architeacher-svc-web-analyzer's resty+gobreaker WebFetcher.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	totalTimeout := cfg.TotalTimeout
	if totalTimeout <= 0 {
		totalTimeout = 10 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	backoffFactor := cfg.BackoffFactor
	if backoffFactor <= 0 {
		backoffFactor = 500 * time.Millisecond
	}

	dialer := &net.Dialer{Timeout: connectTimeout}
	transport := &http.Transport{DialContext: dialer.DialContext}

	httpClient := resty.New().
		SetTransport(transport).
		SetTimeout(totalTimeout).
		SetHeader("x-api-key", cfg.APIKey).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "events-provider",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("provider circuit breaker state changed",
				"event", "provider_breaker_state_changed",
				"module", "platform/provider",
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &Client{
		http:          httpClient,
		breaker:       breaker,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		maxRetries:    maxRetries,
		backoffFactor: backoffFactor,
		logger:        logger,
	}
}

// backoffDelay returns backoff_factor * 2^attempt, capped at 5s.
func (c *Client) backoffDelay(attempt int) time.Duration {
	delay := c.backoffFactor * time.Duration(1<<uint(attempt))
	if cap := 5 * time.Second; delay > cap {
		delay = cap
	}
	return delay
}

// doWithRetry executes one logical GET/DELETE call, retrying on transport
// errors and retryable statuses up to maxRetries times with exponential
// backoff. The endpoint label is used for error classification and metrics.
func (c *Client) doWithRetry(ctx context.Context, endpoint string, do func() (*resty.Response, error)) (*resty.Response, error) {
	return c.execute(ctx, endpoint, do, true)
}

// doWithTransportRetryOnly executes one logical POST call, retrying only on
// transport failures (connect/timeout/reset), never on an HTTP status code —
// spec.md §4.1: "every retry must hit the same idempotent endpoint", so a
// 5xx response body is surfaced to the caller rather than retried here.
func (c *Client) doWithTransportRetryOnly(ctx context.Context, endpoint string, do func() (*resty.Response, error)) (*resty.Response, error) {
	return c.execute(ctx, endpoint, do, false)
}

func (c *Client) execute(ctx context.Context, endpoint string, do func() (*resty.Response, error), retryOnStatus bool) (*resty.Response, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		var lastErr error
		for attempt := 0; attempt <= c.maxRetries; attempt++ {
			resp, reqErr := do()
			if reqErr != nil {
				lastErr = reqErr
				if attempt == c.maxRetries {
					metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
					return nil, &NetworkError{Err: reqErr}
				}
				metrics.ProviderRetriesTotal.WithLabelValues(endpoint).Inc()
				if !sleep(ctx, c.backoffDelay(attempt)) {
					return nil, ctx.Err()
				}
				continue
			}

			status := resp.StatusCode()
			if status < 300 {
				metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
				return resp, nil
			}
			if !retryOnStatus {
				if status >= 400 && status < 500 {
					metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "permanent_error").Inc()
					return nil, &PermanentError{Status: status, Message: resp.Status()}
				}
				metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "temporary_error").Inc()
				return nil, &TemporaryError{Status: status}
			}
			if status >= 400 && status < 500 && !retryableStatuses[status] {
				metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "permanent_error").Inc()
				return nil, &PermanentError{Status: status, Message: resp.Status()}
			}
			if attempt == c.maxRetries {
				metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "temporary_error").Inc()
				return nil, &TemporaryError{Status: status}
			}
			lastErr = fmt.Errorf("retryable status %d", status)
			metrics.ProviderRetriesTotal.WithLabelValues(endpoint).Inc()
			if !sleep(ctx, c.backoffDelay(attempt)) {
				return nil, ctx.Err()
			}
		}
		return nil, lastErr
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &TemporaryError{Status: http.StatusServiceUnavailable}
		}
		return nil, err
	}
	return result.(*resty.Response), nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// GetEventsPage fetches one page of events filtered by changed_at, or
// follows an opaque next URL when provided.
func (c *Client) GetEventsPage(ctx context.Context, changedAt string, nextURL string) (*PagePayload, error) {
	resp, err := c.doWithRetry(ctx, "get_events_page", func() (*resty.Response, error) {
		req := c.http.R().SetContext(ctx)
		if nextURL != "" {
			return req.Get(nextURL)
		}
		return req.SetQueryParam("changed_at", changedAt).Get("/api/events/")
	})
	if err != nil {
		return nil, err
	}
	var page PagePayload
	if err := json.Unmarshal(resp.Body(), &page); err != nil {
		return nil, &UnexpectedResponseError{Reason: "events page body did not decode: " + err.Error()}
	}
	return &page, nil
}

// GetEventSeats fetches the list of free seat identifiers for an event.
func (c *Client) GetEventSeats(ctx context.Context, eventID string) ([]string, error) {
	resp, err := c.doWithRetry(ctx, "get_event_seats", func() (*resty.Response, error) {
		return c.http.R().SetContext(ctx).Get(fmt.Sprintf("/api/events/%s/seats/", eventID))
	})
	if err != nil {
		return nil, err
	}
	var seats SeatsPayload
	if err := json.Unmarshal(resp.Body(), &seats); err != nil {
		return nil, &UnexpectedResponseError{Reason: "seats body did not decode: " + err.Error()}
	}
	return seats.Seats, nil
}

// Register creates a ticket registration with the provider. Retries are
// permitted only on transport errors; every attempt (including retries)
// carries the same idempotency key so the provider can de-duplicate a
// retried POST against a non-naturally-idempotent endpoint.
func (c *Client) Register(ctx context.Context, input RegisterInput, idempotencyKey string) (string, error) {
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	resp, err := c.doWithTransportRetryOnly(ctx, "register", func() (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetHeader("Idempotency-Key", idempotencyKey).
			SetBody(input).
			Post(fmt.Sprintf("/api/events/%s/register/", input.EventID))
	})
	if err != nil {
		return "", err
	}
	var out RegisterResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil || out.TicketID == "" {
		return "", &UnexpectedResponseError{Reason: "register response missing ticket_id"}
	}
	return out.TicketID, nil
}

// Unregister cancels a ticket registration with the provider.
func (c *Client) Unregister(ctx context.Context, eventID, ticketID string) (bool, error) {
	resp, err := c.doWithRetry(ctx, "unregister", func() (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetBody(UnregisterInput{TicketID: ticketID}).
			Delete(fmt.Sprintf("/api/events/%s/unregister/", eventID))
	})
	if err != nil {
		return false, err
	}
	var out UnregisterResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return false, &UnexpectedResponseError{Reason: "unregister response did not decode"}
	}
	return out.Success, nil
}

// CheckAvailability probes upstream reachability without retrying; a
// failure or non-200 response reports "fault" rather than an error.
func (c *Client) CheckAvailability(ctx context.Context) string {
	resp, err := c.http.R().SetContext(ctx).Get("/")
	if err != nil || resp.StatusCode() != http.StatusOK {
		return "fault"
	}
	return "ok"
}
