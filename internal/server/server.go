// Package server exposes the concierge over HTTP: a websocket endpoint for
// the conversation itself plus small JSON endpoints for fleet data, booking
// slots, health and runtime stats.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/raphaelgruber/aura-go/internal/conversation"
	"github.com/raphaelgruber/aura-go/internal/fleet"
	"github.com/raphaelgruber/aura-go/internal/intent"
	"github.com/raphaelgruber/aura-go/internal/metrics"
)

// Server hosts the concierge endpoints with lifecycle management.
type Server struct {
	manager *conversation.Manager
	fleet   *fleet.Service
	slots   *intent.SlotGenerator
	metrics *metrics.Collector
	logger  *slog.Logger
	http    *http.Server
}

// New creates a server listening on addr.
func New(addr string, manager *conversation.Manager, fleetSvc *fleet.Service, mc *metrics.Collector, logger *slog.Logger) *Server {
	s := &Server{
		manager: manager,
		fleet:   fleetSvc,
		slots:   intent.NewSlotGenerator(),
		metrics: mc,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/fleet", s.handleFleet)
	mux.HandleFunc("/dealers", s.handleDealers)
	mux.HandleFunc("/slots", s.handleSlots)

	s.http = &http.Server{
		Addr:         addr,
		Handler:      LoggingMiddleware(logger)(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 0, // websocket connections are long-lived
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Handler returns the root HTTP handler, useful for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run starts the server and blocks until the context is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting concierge server", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.metrics == nil {
		http.Error(w, "metrics disabled", http.StatusNotFound)
		return
	}
	writeJSON(w, s.metrics.Snapshot())
}

func (s *Server) handleFleet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.fleet.Vehicles(r.Context()))
}

func (s *Server) handleDealers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.fleet.Dealers(r.Context()))
}

func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	dealerID := r.URL.Query().Get("dealer")
	if dealerID == "" {
		http.Error(w, "missing dealer parameter", http.StatusBadRequest)
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	writeJSON(w, s.slots.TimeSlots(dealerID, date))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}
