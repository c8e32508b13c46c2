// Package httpserver is the composition root's HTTP surface: one mux
// routing onto the catalogue and ticketing modules' framework-agnostic
// handlers, grounded on the teacher's httpserver.Server pattern (one Server
// struct per process, one write<Context>DomainError per bounded context).
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	catalogueservice "ticketaggregator/contexts/catalogue/catalogue-service"
	catalogueerrors "ticketaggregator/contexts/catalogue/catalogue-service/domain/errors"
	ticketservice "ticketaggregator/contexts/ticketing/ticket-service"
	ticketerrors "ticketaggregator/contexts/ticketing/ticket-service/domain/errors"
	tickettransport "ticketaggregator/contexts/ticketing/ticket-service/transport/http"
	"ticketaggregator/internal/platform/metrics"
)

// Server owns the mux and both bounded-context modules it routes onto.
type Server struct {
	catalogue catalogueservice.Module
	ticket    ticketservice.Module

	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	httpServer *http.Server
}

// New builds a Server wired onto the given modules and registers routes.
func New(catalogue catalogueservice.Module, ticket ticketservice.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		catalogue: catalogue,
		ticket:    ticket,
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("POST /api/sync/trigger", s.handleSyncTrigger)

	s.mux.HandleFunc("GET /api/events/", s.handleListEvents)
	s.mux.HandleFunc("GET /api/events/{id}", s.handleGetEvent)
	s.mux.HandleFunc("GET /api/events/{id}/seats", s.handleGetEventSeats)

	s.mux.HandleFunc("POST /api/tickets", s.handleCreateTicket)
	s.mux.HandleFunc("DELETE /api/tickets/{id}", s.handleCancelTicket)

	s.mux.Handle("GET /metrics", metrics.Handler())
	s.mux.Handle("/swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.mux,
	}
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSyncTrigger(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalogue.Handler.TriggerSyncHandler(r.Context())
	if err != nil {
		writeCatalogueDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var dateFrom *time.Time
	if raw := query.Get("date_from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeCatalogueError(w, http.StatusBadRequest, "invalid_request", "date_from must be YYYY-MM-DD")
			return
		}
		dateFrom = &parsed
	}

	page := parsePositiveIntOrDefault(query.Get("page"), 1)
	pageSize := parsePositiveIntOrDefault(query.Get("page_size"), 20)

	resp, err := s.catalogue.Handler.ListEventsHandler(r.Context(), dateFrom, page, pageSize)
	if err != nil {
		writeCatalogueDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalogue.Handler.GetEventHandler(r.Context(), r.PathValue("id"))
	if err != nil {
		writeCatalogueDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetEventSeats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalogue.Handler.GetEventSeatsHandler(r.Context(), r.PathValue("id"))
	if err != nil {
		writeCatalogueDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	var req tickettransport.CreateTicketRequest
	if !s.decodeJSON(w, r, &req, writeTicketError) {
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")

	resp, err := s.ticket.Handler.CreateTicketHandler(r.Context(), idempotencyKey, req)
	if err != nil {
		writeTicketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCancelTicket(w http.ResponseWriter, r *http.Request) {
	if err := s.ticket.Handler.CancelTicketHandler(r.Context(), r.PathValue("id")); err != nil {
		writeTicketDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parsePositiveIntOrDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any, writeErr func(http.ResponseWriter, int, string, string)) bool {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_request", "request body is not valid JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeCatalogueError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"code": code, "message": message})
}

func writeCatalogueDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogueerrors.ErrEventNotFound):
		writeCatalogueError(w, http.StatusNotFound, "event_not_found", err.Error())
	case errors.Is(err, catalogueerrors.ErrPlaceNotFound):
		writeCatalogueError(w, http.StatusNotFound, "place_not_found", err.Error())
	case errors.Is(err, catalogueerrors.ErrEventNotPublished):
		writeCatalogueError(w, http.StatusBadRequest, "event_not_published", err.Error())
	case errors.Is(err, catalogueerrors.ErrEventPassed):
		writeCatalogueError(w, http.StatusConflict, "event_passed", err.Error())
	case errors.Is(err, catalogueerrors.ErrInvalidListFilter):
		writeCatalogueError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeCatalogueError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeTicketError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"code": code, "message": message})
}

func writeTicketDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ticketerrors.ErrEventNotFound):
		writeTicketError(w, http.StatusNotFound, "event_not_found", err.Error())
	case errors.Is(err, ticketerrors.ErrTicketNotFound):
		writeTicketError(w, http.StatusNotFound, "ticket_not_found", err.Error())
	case errors.Is(err, ticketerrors.ErrEventNotPublished):
		writeTicketError(w, http.StatusBadRequest, "event_not_published", err.Error())
	case errors.Is(err, ticketerrors.ErrSeatUnavailable):
		writeTicketError(w, http.StatusBadRequest, "seat_unavailable", err.Error())
	case errors.Is(err, ticketerrors.ErrEventPassed):
		writeTicketError(w, http.StatusConflict, "event_passed", err.Error())
	case errors.Is(err, ticketerrors.ErrIdempotencyConflict):
		writeTicketError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, ticketerrors.ErrIdempotencyCorrupt):
		writeTicketError(w, http.StatusConflict, "idempotency_corrupt", err.Error())
	case errors.Is(err, ticketerrors.ErrProviderNetworkError):
		writeTicketError(w, http.StatusServiceUnavailable, "provider_unavailable", err.Error())
	case errors.Is(err, ticketerrors.ErrProviderUnexpectedResp):
		writeTicketError(w, http.StatusBadGateway, "provider_unexpected_response", err.Error())
	case errors.Is(err, ticketerrors.ErrFailedSyncEvent):
		writeTicketError(w, http.StatusBadGateway, "sync_failed", err.Error())
	default:
		writeTicketError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
