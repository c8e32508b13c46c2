// Package bootstrap is the composition root: it loads configuration, opens
// the shared database connection, builds the provider and notifier clients,
// wires the catalogue and ticketing modules (including the cross-context
// adapters neither context may import directly) and assembles the
// schedulable background jobs and HTTP server.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	catalogueservice "ticketaggregator/contexts/catalogue/catalogue-service"
	catalogueerrors "ticketaggregator/contexts/catalogue/catalogue-service/domain/errors"
	catalogueports "ticketaggregator/contexts/catalogue/catalogue-service/ports"
	cataloguemetricsadapter "ticketaggregator/contexts/catalogue/catalogue-service/adapters/metrics"
	catalogueprovideradapter "ticketaggregator/contexts/catalogue/catalogue-service/adapters/provider"
	cataloguepostgres "ticketaggregator/contexts/catalogue/catalogue-service/adapters/postgres"

	ticketservice "ticketaggregator/contexts/ticketing/ticket-service"
	ticketmetricsadapter "ticketaggregator/contexts/ticketing/ticket-service/adapters/metrics"
	ticketnotifieradapter "ticketaggregator/contexts/ticketing/ticket-service/adapters/notifier"
	ticketpostgres "ticketaggregator/contexts/ticketing/ticket-service/adapters/postgres"
	ticketprovideradapter "ticketaggregator/contexts/ticketing/ticket-service/adapters/provider"
	ticketerrors "ticketaggregator/contexts/ticketing/ticket-service/domain/errors"
	ticketports "ticketaggregator/contexts/ticketing/ticket-service/ports"

	"ticketaggregator/internal/platform/config"
	"ticketaggregator/internal/platform/db"
	"ticketaggregator/internal/platform/httpserver"
	"ticketaggregator/internal/platform/logging"
	"ticketaggregator/internal/platform/notifier"
	"ticketaggregator/internal/platform/provider"
	"ticketaggregator/internal/platform/scheduler"
)

// App is a runnable, closeable process: the API process runs the HTTP
// server plus every background job, the worker process runs only the jobs.
type App struct {
	server  *httpserver.Server
	runners []*scheduler.Runner
	db      *gorm.DB
	logger  *slog.Logger
}

// Run starts every configured runner and, if present, blocks serving HTTP
// until ctx is cancelled. A worker-only App (no server) blocks on ctx alone.
func (a *App) Run(ctx context.Context) error {
	for _, runner := range a.runners {
		go runner.Start(ctx)
	}

	if a.server == nil {
		<-ctx.Done()
		return nil
	}
	return a.server.Start()
}

// Close stops every runner and releases the database connection.
func (a *App) Close() error {
	for _, runner := range a.runners {
		runner.Stop()
	}
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// shared is the dependency set common to both the API and worker
// processes: config, logger, database, provider and notifier clients, and
// the two bounded-context modules already wired to each other.
type shared struct {
	cfg       config.Config
	logger    *slog.Logger
	gormDB    *gorm.DB
	catalogue catalogueservice.Module
	ticket    ticketservice.Module
}

func buildShared(ctx context.Context) (*shared, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.Connect(ctx, cfg.DatabaseURL, db.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: durationFromMinutes(cfg.DBConnMaxLifetime),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	providerClient := provider.NewClient(provider.Config{
		BaseURL:       cfg.BaseURL,
		APIKey:        cfg.LMSAPIKey,
		MaxRetries:    cfg.MaxRetries,
		BackoffFactor: cfg.BackoffFactor(),
	}, logger)
	seatsCache := provider.NewSeatsCache(providerClient, cfg.SeatsCacheTTL)
	notifierClient := notifier.NewClient(notifier.Config{
		BaseURL: cfg.CapashinoBaseURL,
	})

	seatsLookup := sharedSeatsLookup{cache: seatsCache}

	cataloguePlaces := cataloguepostgres.NewRepository(gormDB, logger)
	catalogueEvents := cataloguePlaces
	catalogueMetadata := cataloguePlaces

	catalogueModule := catalogueservice.NewModule(catalogueservice.Dependencies{
		Places:   cataloguePlaces,
		Events:   catalogueEvents,
		Metadata: catalogueMetadata,
		Source:   catalogueprovideradapter.EventSource{Client: providerClient},
		Seats:    seatsLookup,
		Clock:    cataloguepostgres.SystemClock{},
		Metrics:  cataloguemetricsadapter.Reporter{},
		Logger:   logger,
	})

	ticketRepo := ticketpostgres.NewRepository(gormDB, logger)

	ticketModule := ticketservice.NewModule(ticketservice.Dependencies{
		Events:      catalogueEventReader{events: catalogueEvents},
		Seats:       ticketprovideradapter.SeatsLookup{Inner: seatsCache},
		Provider:    ticketprovideradapter.Client{Inner: providerClient},
		Sync:        ticketports.SyncerFunc(func(ctx context.Context) error { return catalogueModule.Sync.RunOnce(ctx) }),
		Idempotency: ticketRepo,
		Outbox:      ticketRepo,
		Notifier:    ticketnotifieradapter.Client{Inner: notifierClient},
		Tickets:     ticketRepo,
		Clock:       ticketpostgres.SystemClock{},
		IDGenerator: ticketpostgres.UUIDGenerator{},
		Metrics:     ticketmetricsadapter.Reporter{},
		Logger:      logger,
	})

	return &shared{
		cfg:       cfg,
		logger:    logger,
		gormDB:    gormDB,
		catalogue: catalogueModule,
		ticket:    ticketModule,
	}, nil
}

// BuildAPI wires the HTTP server plus every background job into a single
// process, mirroring the teacher's combined-deployment default.
func BuildAPI() (*App, error) {
	deps, err := buildShared(context.Background())
	if err != nil {
		return nil, err
	}

	server := httpserver.New(deps.catalogue, deps.ticket, deps.logger, ":"+deps.cfg.HTTPPort)

	return &App{
		server:  server,
		runners: buildRunners(deps),
		db:      deps.gormDB,
		logger:  deps.logger,
	}, nil
}

// BuildWorker wires only the background jobs (sync scheduler, outbox
// worker, idempotency sweeper) for the split-deployment worker process —
// no HTTP server.
func BuildWorker() (*App, error) {
	deps, err := buildShared(context.Background())
	if err != nil {
		return nil, err
	}

	return &App{
		runners: buildRunners(deps),
		db:      deps.gormDB,
		logger:  deps.logger,
	}, nil
}

func buildRunners(deps *shared) []*scheduler.Runner {
	return []*scheduler.Runner{
		scheduler.New("catalogue_sync", deps.catalogue.Sync, deps.cfg.SyncInterval, deps.logger),
		scheduler.New("ticket_outbox", deps.ticket.OutboxWorker, deps.cfg.PollIntervalOutbox, deps.logger),
		scheduler.New("ticket_idempotency_sweep", deps.ticket.IdempotencySweeper, deps.cfg.PollIntervalOutbox, deps.logger),
	}
}

// sharedSeatsLookup wraps the process-local seats cache once so both
// contexts' independently-declared SeatsLookup ports are satisfied by the
// same instance, keeping the cache's TTL state shared instead of duplicated.
type sharedSeatsLookup struct {
	cache *provider.SeatsCache
}

func (s sharedSeatsLookup) Get(ctx context.Context, eventID string) ([]string, error) {
	return s.cache.Get(ctx, eventID)
}

// catalogueEventReader translates catalogue's Event entity into
// ticket-service's EventSnapshot port so the ticket context never imports
// the catalogue context directly.
type catalogueEventReader struct {
	events catalogueports.EventRepository
}

func (r catalogueEventReader) GetEvent(ctx context.Context, id string) (ticketports.EventSnapshot, error) {
	event, err := r.events.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, catalogueerrors.ErrEventNotFound) {
			return ticketports.EventSnapshot{}, ticketerrors.ErrEventNotFound
		}
		return ticketports.EventSnapshot{}, err
	}
	return ticketports.EventSnapshot{
		ID:                   event.ID,
		Status:               string(event.Status),
		RegistrationDeadline: event.RegistrationDeadline,
	}, nil
}

func durationFromMinutes(minutes int) time.Duration {
	return time.Duration(minutes) * time.Minute
}
