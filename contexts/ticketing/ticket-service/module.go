package ticketservice

import (
	"log/slog"

	httpadapter "ticketaggregator/contexts/ticketing/ticket-service/adapters/http"
	"ticketaggregator/contexts/ticketing/ticket-service/application/commands"
	"ticketaggregator/contexts/ticketing/ticket-service/application/workers"
	"ticketaggregator/contexts/ticketing/ticket-service/ports"
)

// Module wires the ticketing bounded context's use cases onto a handler and
// exposes its background jobs so the composition root can schedule them.
type Module struct {
	Handler            httpadapter.Handler
	OutboxWorker       workers.OutboxWorker
	IdempotencySweeper workers.IdempotencySweeper
}

type Dependencies struct {
	Events      ports.EventReader
	Seats       ports.SeatsLookup
	Provider    ports.ProviderClient
	Sync        ports.Syncer
	Idempotency ports.IdempotencyStore
	Outbox      ports.OutboxStore
	Notifier    ports.Notifier
	Tickets     ports.TicketRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Metrics     ports.Metrics
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createTicket := commands.CreateTicketUseCase{
		Events:      deps.Events,
		Seats:       deps.Seats,
		Provider:    deps.Provider,
		Sync:        deps.Sync,
		Idempotency: deps.Idempotency,
		Tickets:     deps.Tickets,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	cancelTicket := commands.CancelTicketUseCase{
		Tickets:  deps.Tickets,
		Events:   deps.Events,
		Provider: deps.Provider,
		Seats:    deps.Seats,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	outboxWorker := workers.OutboxWorker{
		Outbox:   deps.Outbox,
		Notifier: deps.Notifier,
		Clock:    deps.Clock,
		Metrics:  deps.Metrics,
		Logger:   deps.Logger,
	}
	idempotencySweeper := workers.IdempotencySweeper{
		Idempotency: deps.Idempotency,
		Clock:       deps.Clock,
		Logger:      deps.Logger,
	}

	return Module{
		OutboxWorker:       outboxWorker,
		IdempotencySweeper: idempotencySweeper,
		Handler: httpadapter.Handler{
			CreateTicket: createTicket,
			CancelTicket: cancelTicket,
			Logger:       deps.Logger,
		},
	}
}
