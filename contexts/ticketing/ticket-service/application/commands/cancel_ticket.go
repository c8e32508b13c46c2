package commands

import (
	"context"
	"log/slog"

	"ticketaggregator/contexts/ticketing/ticket-service/application"
	domainerrors "ticketaggregator/contexts/ticketing/ticket-service/domain/errors"
	"ticketaggregator/contexts/ticketing/ticket-service/ports"
)

// CancelTicketUseCase cancels a ticket's provider registration and removes
// it locally (C9 cancel). It does not write to the outbox.
type CancelTicketUseCase struct {
	Tickets  ports.TicketRepository
	Events   ports.EventReader
	Provider ports.ProviderClient
	Seats    ports.SeatsLookup
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (uc CancelTicketUseCase) Execute(ctx context.Context, ticketID string) error {
	logger := application.ResolveLogger(uc.Logger)

	ticket, err := uc.Tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return err
	}

	event, err := uc.Events.GetEvent(ctx, ticket.EventID)
	if err != nil {
		return err
	}
	if event.RegistrationDeadline.Before(uc.Clock.Now().UTC()) {
		return domainerrors.ErrEventPassed
	}

	success, err := uc.Provider.Unregister(ctx, ports.UnregisterInput{
		EventID:  ticket.EventID,
		TicketID: ticketID,
	})
	if err != nil {
		return mapProviderError(err)
	}
	if !success {
		return domainerrors.ErrProviderUnexpectedResp
	}
	uc.Seats.Invalidate(ticket.EventID)

	if err := uc.Tickets.DeleteTicket(ctx, ticketID); err != nil {
		return err
	}
	logger.Info("ticket cancelled",
		"event", "ticket_cancelled",
		"module", "ticketing/ticket-service",
		"layer", "application",
		"ticket_id", ticketID,
	)
	return nil
}
