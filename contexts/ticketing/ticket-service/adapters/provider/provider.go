// Package provideradapter wraps the shared provider client so the ticket
// pipeline depends only on ticket-service's own ports.
package provideradapter

import (
	"context"
	"errors"

	"ticketaggregator/contexts/ticketing/ticket-service/ports"
	"ticketaggregator/internal/platform/provider"
)

// Client adapts provider.Client into ports.ProviderClient.
type Client struct {
	Inner *provider.Client
}

func (c Client) Register(ctx context.Context, input ports.RegisterInput) (string, error) {
	ticketID, err := c.Inner.Register(ctx, provider.RegisterInput{
		EventID:   input.EventID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Seat:      input.Seat,
	}, input.IdempotencyKey)
	if err != nil {
		return "", translateError(err)
	}
	return ticketID, nil
}

func (c Client) Unregister(ctx context.Context, input ports.UnregisterInput) (bool, error) {
	success, err := c.Inner.Unregister(ctx, input.EventID, input.TicketID)
	if err != nil {
		return false, translateError(err)
	}
	return success, nil
}

// SeatsLookup wraps the shared provider-backed seats cache, translating its
// transport-level errors into ports.ErrProvider* the same way Client does,
// so the ticket pipeline's mapProviderError can classify a failed seat
// lookup instead of surfacing a raw provider error.
type SeatsLookup struct {
	Inner *provider.SeatsCache
}

func (s SeatsLookup) Get(ctx context.Context, eventID string) ([]string, error) {
	seats, err := s.Inner.Get(ctx, eventID)
	if err != nil {
		return nil, translateError(err)
	}
	return seats, nil
}

func (s SeatsLookup) Invalidate(eventID string) {
	s.Inner.Invalidate(eventID)
}

func translateError(err error) error {
	var netErr *provider.NetworkError
	var tempErr *provider.TemporaryError
	var permErr *provider.PermanentError
	var unexpectedErr *provider.UnexpectedResponseError
	switch {
	case errors.As(err, &netErr), errors.As(err, &tempErr):
		return ports.ErrProviderNetwork
	case errors.As(err, &permErr):
		return ports.ErrProviderPermanent
	case errors.As(err, &unexpectedErr):
		return ports.ErrProviderUnexpectedResponse
	default:
		return err
	}
}
