package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ticketaggregator/contexts/ticketing/ticket-service/application"
	"ticketaggregator/contexts/ticketing/ticket-service/domain/entities"
	domainerrors "ticketaggregator/contexts/ticketing/ticket-service/domain/errors"
	"ticketaggregator/contexts/ticketing/ticket-service/ports"
)

const ticketIdempotencyTTL = 7 * 24 * time.Hour

// CreateTicketCommand is one registration request against the ticket
// pipeline (C9 create).
type CreateTicketCommand struct {
	EventID        string
	FirstName      string
	LastName       string
	Email          string
	Seat           string
	IdempotencyKey string
}

// CreateTicketUseCase registers a ticket, triggering a pre-registration
// sync, checking seat availability, calling the provider, and persisting
// the result transactionally alongside its outbox and idempotency rows.
type CreateTicketUseCase struct {
	Events      ports.EventReader
	Seats       ports.SeatsLookup
	Provider    ports.ProviderClient
	Sync        ports.Syncer
	Idempotency ports.IdempotencyStore
	Tickets     ports.TicketRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// CreateTicketResult carries the resolved ticket id and whether it was
// served from an idempotent replay rather than a fresh registration.
type CreateTicketResult struct {
	TicketID string
	Replayed bool
}

func (uc CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (CreateTicketResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.Clock.Now().UTC()
	requestHash := hashCreateTicketCommand(cmd)
	key := strings.TrimSpace(cmd.IdempotencyKey)

	if key != "" {
		record, found, err := uc.Idempotency.Get(ctx, key)
		if err != nil {
			return CreateTicketResult{}, err
		}
		if found {
			if record.RequestHash != requestHash {
				return CreateTicketResult{}, domainerrors.ErrIdempotencyConflict
			}
			if record.TicketID == "" {
				return CreateTicketResult{}, domainerrors.ErrIdempotencyCorrupt
			}
			return CreateTicketResult{TicketID: record.TicketID, Replayed: true}, nil
		}
	}

	if err := uc.Sync.TriggerSync(ctx); err != nil {
		logger.Error("pre-registration sync failed",
			"event", "ticket_pre_registration_sync_failed",
			"module", "ticketing/ticket-service",
			"layer", "application",
			"event_id", cmd.EventID,
			"error", err.Error(),
		)
		return CreateTicketResult{}, domainerrors.ErrFailedSyncEvent
	}

	event, err := uc.Events.GetEvent(ctx, cmd.EventID)
	if err != nil {
		return CreateTicketResult{}, err
	}
	if event.Status != "published" {
		return CreateTicketResult{}, domainerrors.ErrEventNotPublished
	}
	if event.RegistrationDeadline.Before(now) {
		return CreateTicketResult{}, domainerrors.ErrEventPassed
	}

	available, err := uc.Seats.Get(ctx, cmd.EventID)
	if err != nil {
		return CreateTicketResult{}, mapProviderError(err)
	}
	if !contains(available, cmd.Seat) {
		return CreateTicketResult{}, domainerrors.ErrSeatUnavailable
	}

	ticketID, err := uc.Provider.Register(ctx, ports.RegisterInput{
		EventID:        cmd.EventID,
		FirstName:      cmd.FirstName,
		LastName:       cmd.LastName,
		Email:          cmd.Email,
		Seat:           cmd.Seat,
		IdempotencyKey: key,
	})
	if err != nil {
		return CreateTicketResult{}, mapProviderError(err)
	}
	uc.Seats.Invalidate(cmd.EventID)

	ticket := entities.Ticket{
		ID:        ticketID,
		EventID:   cmd.EventID,
		Seat:      cmd.Seat,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Email:     cmd.Email,
		CreatedAt: now,
	}

	outboxPayload, err := json.Marshal(ticketCreatedPayload{
		EventID:   cmd.EventID,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Email:     cmd.Email,
		Seat:      cmd.Seat,
		TicketID:  ticketID,
	})
	if err != nil {
		return CreateTicketResult{}, err
	}

	var idempotencyRecord *ports.IdempotencyRecord
	if key != "" {
		idempotencyRecord = &ports.IdempotencyRecord{
			Key:         key,
			RequestHash: requestHash,
			TicketID:    ticketID,
			ExpiresAt:   now.Add(ticketIdempotencyTTL),
		}
	}

	if err := uc.Tickets.SaveTicketTransactional(ctx, ticket, "ticket_created", outboxPayload, idempotencyRecord); err != nil {
		return CreateTicketResult{}, err
	}

	return CreateTicketResult{TicketID: ticketID}, nil
}

type ticketCreatedPayload struct {
	EventID   string `json:"event_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Seat      string `json:"seat"`
	TicketID  string `json:"ticket_id"`
}

func hashCreateTicketCommand(cmd CreateTicketCommand) string {
	payload := map[string]any{
		"event_id":   strings.TrimSpace(cmd.EventID),
		"first_name": strings.TrimSpace(cmd.FirstName),
		"last_name":  strings.TrimSpace(cmd.LastName),
		"email":      strings.TrimSpace(cmd.Email),
		"seat":       strings.TrimSpace(cmd.Seat),
	}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

// mapProviderError translates a ports provider error class into the
// pipeline's domain error taxonomy.
func mapProviderError(err error) error {
	switch {
	case errors.Is(err, ports.ErrProviderPermanent):
		return domainerrors.ErrSeatUnavailable
	case errors.Is(err, ports.ErrProviderNetwork):
		return domainerrors.ErrProviderNetworkError
	case errors.Is(err, ports.ErrProviderUnexpectedResponse):
		return domainerrors.ErrProviderUnexpectedResp
	default:
		return err
	}
}
