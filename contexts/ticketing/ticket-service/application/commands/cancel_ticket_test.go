package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketaggregator/contexts/ticketing/ticket-service/domain/entities"
	domainerrors "ticketaggregator/contexts/ticketing/ticket-service/domain/errors"
	"ticketaggregator/contexts/ticketing/ticket-service/ports"
)

func TestCancelTicketDeletesAfterProviderUnregister(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	tickets := &stubTicketRepository{savedTicket: entities.Ticket{ID: "tix-1", EventID: "evt-1"}}
	seats := &fakeSeatsLookup{}
	uc := CancelTicketUseCase{
		Tickets: tickets,
		Events: fakeEventReader{event: ports.EventSnapshot{
			ID:                   "evt-1",
			Status:               "published",
			RegistrationDeadline: now.Add(24 * time.Hour),
		}},
		Provider: fakeProviderClient{},
		Seats:    seats,
		Clock:    fakeClock{now: now},
	}

	err := uc.Execute(context.Background(), "tix-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"evt-1"}, seats.invalidated, "a successful unregister must invalidate the cached seat list")
}

func TestCancelTicketRejectsAfterRegistrationDeadline(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	tickets := &stubTicketRepository{savedTicket: entities.Ticket{ID: "tix-1", EventID: "evt-1"}}
	uc := CancelTicketUseCase{
		Tickets: tickets,
		Events: fakeEventReader{event: ports.EventSnapshot{
			ID:                   "evt-1",
			Status:               "published",
			RegistrationDeadline: now.Add(-time.Hour),
		}},
		Provider: fakeProviderClient{},
		Seats:    &fakeSeatsLookup{},
		Clock:    fakeClock{now: now},
	}

	err := uc.Execute(context.Background(), "tix-1")

	assert.ErrorIs(t, err, domainerrors.ErrEventPassed)
}

type unregisterFailingProvider struct {
	success bool
	err     error
}

func (p unregisterFailingProvider) Register(context.Context, ports.RegisterInput) (string, error) {
	return "", nil
}

func (p unregisterFailingProvider) Unregister(context.Context, ports.UnregisterInput) (bool, error) {
	return p.success, p.err
}

func TestCancelTicketPropagatesUnsuccessfulUnregister(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	tickets := &stubTicketRepository{savedTicket: entities.Ticket{ID: "tix-1", EventID: "evt-1"}}
	uc := CancelTicketUseCase{
		Tickets: tickets,
		Events: fakeEventReader{event: ports.EventSnapshot{
			ID:                   "evt-1",
			Status:               "published",
			RegistrationDeadline: now.Add(24 * time.Hour),
		}},
		Provider: unregisterFailingProvider{success: false},
		Seats:    &fakeSeatsLookup{},
		Clock:    fakeClock{now: now},
	}

	err := uc.Execute(context.Background(), "tix-1")

	assert.ErrorIs(t, err, domainerrors.ErrProviderUnexpectedResp)
}
