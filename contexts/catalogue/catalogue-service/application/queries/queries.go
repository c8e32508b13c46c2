// Package queries holds the catalogue context's read-side use cases.
package queries

import (
	"context"
	"log/slog"
	"time"

	"ticketaggregator/contexts/catalogue/catalogue-service/application"
	"ticketaggregator/contexts/catalogue/catalogue-service/domain/entities"
	domainerrors "ticketaggregator/contexts/catalogue/catalogue-service/domain/errors"
	"ticketaggregator/contexts/catalogue/catalogue-service/ports"
)

// EventWithPlace pairs an event with the place it embeds in API responses.
type EventWithPlace struct {
	Event entities.Event
	Place entities.Place
}

// ListEvents pages through events ordered by event_time ascending.
type ListEvents struct {
	Events ports.EventRepository
	Places ports.PlaceRepository
	Logger *slog.Logger
}

// ListEventsResult carries one page of events plus the total matching count.
type ListEventsResult struct {
	Items []EventWithPlace
	Total int
}

// Execute runs the listing with the given filter. page and pageSize are
// normalized to sane defaults when missing or invalid.
func (q ListEvents) Execute(ctx context.Context, dateFrom *time.Time, page, pageSize int) (ListEventsResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := q.Events.ListEvents(ctx, ports.ListEventsFilter{
		DateFrom: dateFrom,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return ListEventsResult{}, err
	}

	results := make([]EventWithPlace, 0, len(items))
	places := make(map[string]entities.Place, len(items))
	for _, event := range items {
		place, ok := places[event.PlaceID]
		if !ok {
			place, err = q.Places.GetPlace(ctx, event.PlaceID)
			if err != nil {
				return ListEventsResult{}, err
			}
			places[event.PlaceID] = place
		}
		results = append(results, EventWithPlace{Event: event, Place: place})
	}
	return ListEventsResult{Items: results, Total: total}, nil
}

// GetEvent fetches a single event and its place by id.
type GetEvent struct {
	Events ports.EventRepository
	Places ports.PlaceRepository
	Logger *slog.Logger
}

// Execute returns the event, or domainerrors.ErrEventNotFound when absent.
func (q GetEvent) Execute(ctx context.Context, id string) (EventWithPlace, error) {
	event, err := q.Events.GetEvent(ctx, id)
	if err != nil {
		return EventWithPlace{}, err
	}
	place, err := q.Places.GetPlace(ctx, event.PlaceID)
	if err != nil {
		return EventWithPlace{}, err
	}
	return EventWithPlace{Event: event, Place: place}, nil
}

// GetEventSeats resolves the free seats of a published, not-yet-closed event.
type GetEventSeats struct {
	Events ports.EventRepository
	Seats  ports.SeatsLookup
	Clock  ports.Clock
	Logger *slog.Logger
}

// Execute returns the free seat ids, enforcing that the event exists, is
// published and its registration deadline has not passed.
func (q GetEventSeats) Execute(ctx context.Context, eventID string) ([]string, error) {
	logger := application.ResolveLogger(q.Logger)

	event, err := q.Events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsPublished() {
		return nil, domainerrors.ErrEventNotPublished
	}
	if event.DeadlinePassed(q.Clock.Now().UTC()) {
		return nil, domainerrors.ErrEventPassed
	}

	seats, err := q.Seats.Get(ctx, eventID)
	if err != nil {
		logger.Error("seats lookup failed",
			"event", "event_seats_lookup_failed",
			"module", "catalogue/catalogue-service",
			"layer", "application",
			"event_id", eventID,
			"error", err.Error(),
		)
		return nil, err
	}
	return seats, nil
}
