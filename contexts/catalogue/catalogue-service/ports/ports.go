package ports

import (
	"context"
	"time"

	"ticketaggregator/contexts/catalogue/catalogue-service/domain/entities"
)

// PlaceUpsert is the upsert-shaped write model for a Place, mirrored from
// the provider by the sync engine.
type PlaceUpsert struct {
	ID           string
	Name         string
	City         string
	Address      string
	SeatsPattern string
	ChangedAt    time.Time
	CreatedAt    time.Time
}

// EventUpsert is the upsert-shaped write model for an Event.
type EventUpsert struct {
	ID                   string
	Name                 string
	PlaceID              string
	EventTime            time.Time
	RegistrationDeadline time.Time
	Status               string
	NumberOfVisitors     int
	ChangedAt            time.Time
	CreatedAt            time.Time
	StatusChangedAt      *time.Time
}

// ProviderEventPage is one event payload yielded by an EventCursor, carrying
// both the event and its embedded place so the sync engine can upsert both.
type ProviderEventPage struct {
	Place PlaceUpsert
	Event EventUpsert
}

// PlaceRepository persists and serves Place rows. Writes are owned
// exclusively by the sync engine; reads are shared with the catalogue
// queries that embed place details in an event response.
type PlaceRepository interface {
	UpsertPlace(ctx context.Context, place PlaceUpsert) error
	GetPlace(ctx context.Context, id string) (entities.Place, error)
}

// ListEventsFilter narrows a catalogue listing query.
type ListEventsFilter struct {
	DateFrom *time.Time
	Page     int
	PageSize int
}

// EventRepository persists and serves Event rows.
type EventRepository interface {
	UpsertEvent(ctx context.Context, event EventUpsert) error
	GetEvent(ctx context.Context, id string) (entities.Event, error)
	ListEvents(ctx context.Context, filter ListEventsFilter) (items []entities.Event, total int, err error)
}

// SyncMetadataStore implements the cooperative mutual-exclusion protocol
// over the singleton SyncMetadata row (C4).
type SyncMetadataStore interface {
	// AcquireLock opens a short write transaction and either inserts the
	// singleton row or claims it if free. acquired is false when another
	// syncer already holds sync_status = in_progress.
	AcquireLock(ctx context.Context, now time.Time) (acquired bool, lastChangedAt *time.Time, err error)
	// ReleaseLock marks the row success (advancing the watermark when
	// newLastChangedAt is non-nil) or failed.
	ReleaseLock(ctx context.Context, success bool, newLastChangedAt *time.Time) error
}

// EventCursor lazily yields provider event pages one at a time.
type EventCursor interface {
	Next(ctx context.Context) (ProviderEventPage, bool, error)
}

// EventSource opens a cursor over the provider's events listing filtered by
// changed_at (the ISO date portion, per spec).
type EventSource interface {
	NewCursor(changedAt string) EventCursor
}

// SeatsLookup resolves the free seats for an event (process-local TTL cache
// backed by the provider, C3).
type SeatsLookup interface {
	Get(ctx context.Context, eventID string) ([]string, error)
}

// Clock abstracts time.Now for deterministic tests.
type Clock interface {
	Now() time.Time
}

// Metrics reports sync engine run outcomes to the process's observability
// stack, without the application layer depending on a concrete backend.
type Metrics interface {
	ObserveSyncRunDuration(d time.Duration)
	SetSyncWatermark(t time.Time)
}
