package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"ticketaggregator/contexts/catalogue/catalogue-service/application/queries"
	"ticketaggregator/contexts/catalogue/catalogue-service/application/workers"
	"ticketaggregator/contexts/catalogue/catalogue-service/domain/entities"
	httptransport "ticketaggregator/contexts/catalogue/catalogue-service/transport/http"
)

// Handler exposes the catalogue context's operations as framework-agnostic
// methods; the composition root wires them onto HTTP routes.
type Handler struct {
	ListEvents    queries.ListEvents
	GetEvent      queries.GetEvent
	GetEventSeats queries.GetEventSeats
	Sync          workers.SyncEngine
	Logger        *slog.Logger
}

func (h Handler) ListEventsHandler(
	ctx context.Context,
	dateFrom *time.Time,
	page, pageSize int,
) (httptransport.ListEventsResponse, error) {
	result, err := h.ListEvents.Execute(ctx, dateFrom, page, pageSize)
	if err != nil {
		return httptransport.ListEventsResponse{}, err
	}
	items := make([]httptransport.EventDTO, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, mapEvent(item))
	}
	return httptransport.ListEventsResponse{
		Count:   result.Total,
		Results: items,
	}, nil
}

func (h Handler) GetEventHandler(ctx context.Context, eventID string) (httptransport.GetEventResponse, error) {
	result, err := h.GetEvent.Execute(ctx, eventID)
	if err != nil {
		return httptransport.GetEventResponse{}, err
	}
	return httptransport.GetEventResponse{Event: mapEvent(result)}, nil
}

func (h Handler) GetEventSeatsHandler(ctx context.Context, eventID string) (httptransport.GetEventSeatsResponse, error) {
	seats, err := h.GetEventSeats.Execute(ctx, eventID)
	if err != nil {
		return httptransport.GetEventSeatsResponse{}, err
	}
	return httptransport.GetEventSeatsResponse{Seats: seats}, nil
}

// TriggerSyncHandler runs an out-of-band sync pass. When another syncer
// already holds the lock it reports "in progress" rather than erroring.
func (h Handler) TriggerSyncHandler(ctx context.Context) (httptransport.TriggerSyncResponse, error) {
	acquired, err := h.Sync.RunWithOverride(ctx, nil)
	if err != nil {
		return httptransport.TriggerSyncResponse{}, err
	}
	if !acquired {
		return httptransport.TriggerSyncResponse{Status: "in progress"}, nil
	}
	return httptransport.TriggerSyncResponse{Status: "ok"}, nil
}

func mapEvent(item queries.EventWithPlace) httptransport.EventDTO {
	return httptransport.EventDTO{
		ID:                   item.Event.ID,
		Name:                 item.Event.Name,
		Place:                mapPlace(item.Place),
		EventTime:            item.Event.EventTime.Format(time.RFC3339),
		RegistrationDeadline: item.Event.RegistrationDeadline.Format(time.RFC3339),
		Status:               string(item.Event.Status),
		NumberOfVisitors:     item.Event.NumberOfVisitors,
		ChangedAt:            item.Event.ChangedAt.Format(time.RFC3339),
		CreatedAt:            item.Event.CreatedAt.Format(time.RFC3339),
		StatusChangedAt:      formatOptionalTime(item.Event.StatusChangedAt),
	}
}

func mapPlace(place entities.Place) httptransport.PlaceDTO {
	return httptransport.PlaceDTO{
		ID:           place.ID,
		Name:         place.Name,
		City:         place.City,
		Address:      place.Address,
		SeatsPattern: place.SeatsPattern,
		ChangedAt:    place.ChangedAt.Format(time.RFC3339),
		CreatedAt:    place.CreatedAt.Format(time.RFC3339),
	}
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}
