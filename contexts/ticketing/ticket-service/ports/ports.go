package ports

import (
	"context"
	"errors"
	"time"

	"ticketaggregator/contexts/ticketing/ticket-service/domain/entities"
)

// Provider-facing error classes a ProviderClient adapter must translate its
// transport errors into, so the application layer never has to know the
// concrete provider client's error types.
var (
	ErrProviderNetwork            = errors.New("provider network error")
	ErrProviderPermanent          = errors.New("provider permanent error")
	ErrProviderUnexpectedResponse = errors.New("provider returned an unexpected response")
)

// EventSnapshot is the read-only view of a catalogue event the ticket
// pipeline needs. Ticket-service owns no event data; it reads it through
// this port to keep the two contexts decoupled.
type EventSnapshot struct {
	ID                   string
	Status               string
	RegistrationDeadline time.Time
}

// EventReader resolves the catalogue event backing a ticket request.
type EventReader interface {
	GetEvent(ctx context.Context, id string) (EventSnapshot, error)
}

// SeatsLookup resolves the free seats for an event (shared with catalogue
// via the provider-backed cache, injected at the composition root).
// Invalidate drops the cached entry for an event so a registration or
// cancellation that changed the seat map is reflected on the next lookup.
type SeatsLookup interface {
	Get(ctx context.Context, eventID string) ([]string, error)
	Invalidate(eventID string)
}

// RegisterInput is the provider register request.
type RegisterInput struct {
	EventID        string
	FirstName      string
	LastName       string
	Email          string
	Seat           string
	IdempotencyKey string
}

// UnregisterInput is the provider unregister request.
type UnregisterInput struct {
	EventID  string
	TicketID string
}

// ProviderClient is the subset of the provider API the ticket pipeline
// calls directly (as opposed to through the catalogue's sync/seats ports).
type ProviderClient interface {
	Register(ctx context.Context, input RegisterInput) (ticketID string, err error)
	Unregister(ctx context.Context, input UnregisterInput) (success bool, err error)
}

// Syncer triggers an on-demand catalogue sync without ticket-service
// importing the catalogue context directly. The composition root supplies
// the real implementation by wrapping the catalogue module's sync engine.
type Syncer interface {
	TriggerSync(ctx context.Context) error
}

// SyncerFunc adapts a plain function to Syncer.
type SyncerFunc func(ctx context.Context) error

func (f SyncerFunc) TriggerSync(ctx context.Context) error { return f(ctx) }

// IdempotencyRecord is a stored replay record keyed by client-supplied
// idempotency key.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	TicketID    string
	ExpiresAt   time.Time
}

// IdempotencyStore implements C6.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (IdempotencyRecord, bool, error)
	Save(ctx context.Context, record IdempotencyRecord) error
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

// OutboxStatus is the lifecycle state of an outbox row.
type OutboxStatus string

const (
	OutboxStatusPending OutboxStatus = "pending"
	OutboxStatusSent    OutboxStatus = "sent"
	OutboxStatusFailed  OutboxStatus = "failed"
)

// OutboxRecord is one transactional-outbox row (C7).
type OutboxRecord struct {
	ID         string
	EventType  string
	Payload    []byte
	Status     OutboxStatus
	RetryCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OutboxStore implements the C8 worker's side of C7: reading and retiring
// pending rows. Row creation happens inside TicketRepository's create
// transaction so it shares the ticket insert's atomicity.
type OutboxStore interface {
	GetPending(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkSent(ctx context.Context, id string) error
	IncrementRetry(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
	DeleteOlderThanSent(ctx context.Context, cutoff time.Time) (int, error)
}

// Notifier sends the post-registration confirmation message.
type Notifier interface {
	SendNotification(ctx context.Context, message, referenceID, idempotencyKey string) (sent bool, retryable bool, err error)
}

// TicketRepository persists tickets and runs the create-transaction that
// atomically writes the ticket, outbox row, and idempotency record.
type TicketRepository interface {
	SaveTicketTransactional(
		ctx context.Context,
		ticket entities.Ticket,
		outboxEventType string,
		outboxPayload []byte,
		idempotency *IdempotencyRecord,
	) error
	GetTicket(ctx context.Context, id string) (entities.Ticket, error)
	DeleteTicket(ctx context.Context, id string) error
}

// Clock abstracts time.Now for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator creates opaque identifiers.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Metrics reports outbox worker outcomes to the process's observability
// stack, without the application layer depending on a concrete backend.
type Metrics interface {
	SetOutboxPending(n int)
	IncOutboxOutcome(outcome string)
}
