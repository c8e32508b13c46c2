package catalogueservice

import (
	"log/slog"

	httpadapter "ticketaggregator/contexts/catalogue/catalogue-service/adapters/http"
	"ticketaggregator/contexts/catalogue/catalogue-service/application/queries"
	"ticketaggregator/contexts/catalogue/catalogue-service/application/workers"
	"ticketaggregator/contexts/catalogue/catalogue-service/ports"
)

// Module wires the catalogue bounded context's use cases onto a handler and
// exposes the sync engine so the composition root can schedule it and let
// other contexts trigger it on demand.
type Module struct {
	Handler httpadapter.Handler
	Sync    workers.SyncEngine
}

type Dependencies struct {
	Places   ports.PlaceRepository
	Events   ports.EventRepository
	Metadata ports.SyncMetadataStore
	Source   ports.EventSource
	Seats    ports.SeatsLookup
	Clock    ports.Clock
	Metrics  ports.Metrics
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	syncEngine := workers.SyncEngine{
		Places:   deps.Places,
		Events:   deps.Events,
		Metadata: deps.Metadata,
		Source:   deps.Source,
		Clock:    deps.Clock,
		Metrics:  deps.Metrics,
		Logger:   deps.Logger,
	}

	listEvents := queries.ListEvents{Events: deps.Events, Places: deps.Places, Logger: deps.Logger}
	getEvent := queries.GetEvent{Events: deps.Events, Places: deps.Places, Logger: deps.Logger}
	getEventSeats := queries.GetEventSeats{
		Events: deps.Events,
		Seats:  deps.Seats,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}

	return Module{
		Sync: syncEngine,
		Handler: httpadapter.Handler{
			ListEvents:    listEvents,
			GetEvent:      getEvent,
			GetEventSeats: getEventSeats,
			Sync:          syncEngine,
			Logger:        deps.Logger,
		},
	}
}
