package httpadapter

import (
	"context"
	"log/slog"

	"ticketaggregator/contexts/ticketing/ticket-service/application/commands"
	httptransport "ticketaggregator/contexts/ticketing/ticket-service/transport/http"
)

// Handler exposes the ticket context's operations as framework-agnostic
// methods; the composition root wires them onto HTTP routes.
type Handler struct {
	CreateTicket commands.CreateTicketUseCase
	CancelTicket commands.CancelTicketUseCase
	Logger       *slog.Logger
}

func (h Handler) CreateTicketHandler(
	ctx context.Context,
	idempotencyKey string,
	req httptransport.CreateTicketRequest,
) (httptransport.CreateTicketResponse, error) {
	result, err := h.CreateTicket.Execute(ctx, commands.CreateTicketCommand{
		EventID:        req.EventID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Seat:           req.Seat,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return httptransport.CreateTicketResponse{}, err
	}
	return httptransport.CreateTicketResponse{
		TicketID: result.TicketID,
		Replayed: result.Replayed,
	}, nil
}

func (h Handler) CancelTicketHandler(ctx context.Context, ticketID string) error {
	return h.CancelTicket.Execute(ctx, ticketID)
}
