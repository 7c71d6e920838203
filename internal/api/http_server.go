package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ddarch/internal/config"
	"ddarch/internal/mailer"
	"ddarch/internal/notify"
	"ddarch/internal/store"

	"github.com/rs/zerolog"
)

// Server exposes the public submission API and the staff endpoints.
type Server struct {
	cfg      *config.Config
	store    store.Store
	notifier *notify.Notifier
	mailer   mailer.Mailer
	logger   *zerolog.Logger
	server   *http.Server
	limiter  *rateLimiter
	auth     *adminAuth
}

func NewServer(cfg *config.Config, st store.Store, notifier *notify.Notifier, m mailer.Mailer, logger *zerolog.Logger) *Server {
	srv := &Server{
		cfg:      cfg,
		store:    st,
		notifier: notifier,
		mailer:   m,
		logger:   logger,
		limiter:  newRateLimiter(cfg.RateLimit),
		auth:     newAdminAuth(cfg.Admin),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/bookings", srv.limiter.wrap(srv.handleCreateBooking))
	mux.HandleFunc("/api/contacts", srv.limiter.wrap(srv.handleCreateContact))
	mux.HandleFunc("/api/email-service-status", srv.handleEmailServiceStatus)
	mux.HandleFunc("/api/send-test-email", srv.handleSendTestEmail)
	mux.HandleFunc("/api/admin/bookings", srv.auth.wrap(srv.handleAdminBookings))
	mux.HandleFunc("/api/admin/contacts", srv.auth.wrap(srv.handleAdminContacts))
	mux.HandleFunc("/api/admin/export", srv.auth.wrap(srv.handleAdminExport))
	mux.HandleFunc("/healthz", srv.handleHealthz)
	mux.HandleFunc("/readyz", srv.handleReadyz)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           requestLogger(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// Handler returns the fully wrapped handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	// Readiness is store reachability; the memory store is always ready.
	if _, err := s.store.ListBookings(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
