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

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time { return c.now }

type fakeIDGenerator struct {
	id string
}

func (g fakeIDGenerator) NewID(context.Context) (string, error) { return g.id, nil }

type fakeEventReader struct {
	event ports.EventSnapshot
	err   error
}

func (r fakeEventReader) GetEvent(context.Context, string) (ports.EventSnapshot, error) {
	return r.event, r.err
}

type fakeSeatsLookup struct {
	seats       []string
	err         error
	invalidated []string
}

func (s *fakeSeatsLookup) Get(context.Context, string) ([]string, error) { return s.seats, s.err }

func (s *fakeSeatsLookup) Invalidate(eventID string) {
	s.invalidated = append(s.invalidated, eventID)
}

type fakeSyncer struct {
	calls int
	err   error
}

func (s *fakeSyncer) TriggerSync(context.Context) error {
	s.calls++
	return s.err
}

type fakeProviderClient struct {
	ticketID string
	err      error
}

func (p fakeProviderClient) Register(context.Context, ports.RegisterInput) (string, error) {
	return p.ticketID, p.err
}

func (p fakeProviderClient) Unregister(context.Context, ports.UnregisterInput) (bool, error) {
	return true, nil
}

type fakeIdempotencyStore struct {
	records map[string]ports.IdempotencyRecord
	saved   []ports.IdempotencyRecord
}

func (s *fakeIdempotencyStore) Get(_ context.Context, key string) (ports.IdempotencyRecord, bool, error) {
	record, found := s.records[key]
	return record, found, nil
}

func (s *fakeIdempotencyStore) Save(_ context.Context, record ports.IdempotencyRecord) error {
	s.saved = append(s.saved, record)
	return nil
}

func (s *fakeIdempotencyStore) SweepExpired(context.Context, time.Time) (int, error) { return 0, nil }

type stubTicketRepository struct {
	savedTicket      entities.Ticket
	savedOutboxType  string
	savedIdempotency *ports.IdempotencyRecord
}

func (r *stubTicketRepository) SaveTicketTransactional(
	_ context.Context,
	ticket entities.Ticket,
	outboxEventType string,
	_ []byte,
	idempotency *ports.IdempotencyRecord,
) error {
	r.savedTicket = ticket
	r.savedOutboxType = outboxEventType
	r.savedIdempotency = idempotency
	return nil
}

func (r *stubTicketRepository) GetTicket(context.Context, string) (entities.Ticket, error) {
	return r.savedTicket, nil
}

func (r *stubTicketRepository) DeleteTicket(context.Context, string) error {
	return nil
}

func newUseCase(now time.Time, ticketID string) (CreateTicketUseCase, *fakeSyncer, *fakeIdempotencyStore, *fakeSeatsLookup) {
	syncer := &fakeSyncer{}
	idempotency := &fakeIdempotencyStore{records: map[string]ports.IdempotencyRecord{}}
	seats := &fakeSeatsLookup{seats: []string{"A1", "A2"}}
	uc := CreateTicketUseCase{
		Events: fakeEventReader{event: ports.EventSnapshot{
			ID:                   "evt-1",
			Status:               "published",
			RegistrationDeadline: now.Add(24 * time.Hour),
		}},
		Seats:       seats,
		Provider:    fakeProviderClient{ticketID: ticketID},
		Sync:        syncer,
		Idempotency: idempotency,
		IDGenerator: fakeIDGenerator{id: ticketID},
		Clock:       fakeClock{now: now},
	}
	return uc, syncer, idempotency, seats
}

func TestCreateTicketRegistersAndPersists(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	uc, syncer, _, seats := newUseCase(now, "tix-1")
	tickets := &stubTicketRepository{}
	uc.Tickets = tickets

	result, err := uc.Execute(context.Background(), CreateTicketCommand{
		EventID:   "evt-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Seat:      "A1",
	})

	require.NoError(t, err)
	assert.Equal(t, "tix-1", result.TicketID)
	assert.False(t, result.Replayed)
	assert.Equal(t, 1, syncer.calls)
	assert.Equal(t, "tix-1", tickets.savedTicket.ID)
	assert.Equal(t, "ticket_created", tickets.savedOutboxType)
	assert.Nil(t, tickets.savedIdempotency, "no idempotency key supplied")
	assert.Equal(t, []string{"evt-1"}, seats.invalidated, "a successful register must invalidate the cached seat list")
}

func TestCreateTicketReplaysOnMatchingIdempotencyKey(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	uc, syncer, idempotency, _ := newUseCase(now, "tix-2")
	uc.Tickets = &stubTicketRepository{}

	cmd := CreateTicketCommand{
		EventID:        "evt-1",
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		Seat:           "A1",
		IdempotencyKey: "key-1",
	}
	idempotency.records["key-1"] = ports.IdempotencyRecord{
		Key:         "key-1",
		RequestHash: hashCreateTicketCommand(cmd),
		TicketID:    "tix-existing",
	}

	result, err := uc.Execute(context.Background(), cmd)

	require.NoError(t, err)
	assert.Equal(t, "tix-existing", result.TicketID)
	assert.True(t, result.Replayed)
	assert.Equal(t, 0, syncer.calls, "a replayed request must not trigger a sync")
}

func TestCreateTicketRejectsConflictingIdempotencyKey(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	uc, _, idempotency, _ := newUseCase(now, "tix-3")
	uc.Tickets = &stubTicketRepository{}

	idempotency.records["key-1"] = ports.IdempotencyRecord{
		Key:         "key-1",
		RequestHash: "different-hash",
		TicketID:    "tix-existing",
	}

	_, err := uc.Execute(context.Background(), CreateTicketCommand{
		EventID:        "evt-1",
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		Seat:           "A1",
		IdempotencyKey: "key-1",
	})

	assert.ErrorIs(t, err, domainerrors.ErrIdempotencyConflict)
}

func TestCreateTicketRejectsUnavailableSeat(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	uc, _, _, _ := newUseCase(now, "tix-4")
	uc.Seats = &fakeSeatsLookup{seats: []string{"B1"}}
	uc.Tickets = &stubTicketRepository{}

	_, err := uc.Execute(context.Background(), CreateTicketCommand{
		EventID: "evt-1",
		Seat:    "A1",
	})

	assert.ErrorIs(t, err, domainerrors.ErrSeatUnavailable)
}

func TestCreateTicketTranslatesSeatsLookupProviderError(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	uc, _, _, _ := newUseCase(now, "tix-6")
	uc.Seats = &fakeSeatsLookup{err: ports.ErrProviderNetwork}
	uc.Tickets = &stubTicketRepository{}

	_, err := uc.Execute(context.Background(), CreateTicketCommand{EventID: "evt-1", Seat: "A1"})

	assert.ErrorIs(t, err, domainerrors.ErrProviderNetworkError, "a raw provider error class from the seats lookup must be mapped into the domain taxonomy")
}

func TestCreateTicketRejectsEventPastDeadline(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	uc, _, _, _ := newUseCase(now, "tix-5")
	uc.Events = fakeEventReader{event: ports.EventSnapshot{
		ID:                   "evt-1",
		Status:               "published",
		RegistrationDeadline: now.Add(-time.Hour),
	}}
	uc.Tickets = &stubTicketRepository{}

	_, err := uc.Execute(context.Background(), CreateTicketCommand{EventID: "evt-1", Seat: "A1"})

	assert.ErrorIs(t, err, domainerrors.ErrEventPassed)
}
