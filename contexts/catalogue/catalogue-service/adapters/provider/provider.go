// Package provideradapter translates the shared provider client into the
// catalogue context's own ports, so the sync engine never imports
// internal/platform/provider directly.
package provideradapter

import (
	"context"

	"ticketaggregator/contexts/catalogue/catalogue-service/ports"
	"ticketaggregator/internal/platform/provider"
)

// EventSource adapts provider.Client into ports.EventSource.
type EventSource struct {
	Client *provider.Client
}

func (s EventSource) NewCursor(changedAt string) ports.EventCursor {
	return &eventCursor{paginator: provider.NewPaginator(s.Client, changedAt)}
}

type eventCursor struct {
	paginator *provider.Paginator
}

func (c *eventCursor) Next(ctx context.Context) (ports.ProviderEventPage, bool, error) {
	payload, ok, err := c.paginator.Next(ctx)
	if err != nil || !ok {
		return ports.ProviderEventPage{}, ok, err
	}
	return ports.ProviderEventPage{
		Place: placeUpsertFromPayload(payload.Place),
		Event: eventUpsertFromPayload(payload),
	}, true, nil
}

func placeUpsertFromPayload(p provider.PlacePayload) ports.PlaceUpsert {
	return ports.PlaceUpsert{
		ID:           p.ID,
		Name:         p.Name,
		City:         p.City,
		Address:      p.Address,
		SeatsPattern: p.SeatsPattern,
		ChangedAt:    p.ChangedAt,
		CreatedAt:    p.CreatedAt,
	}
}

func eventUpsertFromPayload(e provider.EventPayload) ports.EventUpsert {
	return ports.EventUpsert{
		ID:                   e.ID,
		Name:                 e.Name,
		PlaceID:              e.Place.ID,
		EventTime:            e.EventTime,
		RegistrationDeadline: e.RegistrationDeadline,
		Status:               e.Status,
		NumberOfVisitors:     e.NumberOfVisitors,
		ChangedAt:            e.ChangedAt,
		CreatedAt:            e.CreatedAt,
		StatusChangedAt:      e.StatusChangedAt,
	}
}

// SeatsLookup adapts provider.SeatsCache into ports.SeatsLookup.
type SeatsLookup struct {
	Cache *provider.SeatsCache
}

func (l SeatsLookup) Get(ctx context.Context, eventID string) ([]string, error) {
	return l.Cache.Get(ctx, eventID)
}
