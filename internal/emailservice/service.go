package emailservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ddarch/internal/mailer"
	"ddarch/internal/models"
	"ddarch/internal/validate"

	"github.com/rs/zerolog"
)

// Service is the standalone delegate email service. The main API forwards
// send requests here when it runs in delegate mode; the service owns the
// actual SMTP transport.
type Service struct {
	mailer mailer.Mailer
	logger *zerolog.Logger
	server *http.Server
}

func New(port int, m mailer.Mailer, logger *zerolog.Logger) *Service {
	svc := &Service{mailer: m, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", svc.handleHealth)
	mux.HandleFunc("/api/send-email/booking", svc.handleBookingEmail)
	mux.HandleFunc("/api/send-email/contact", svc.handleContactEmail)
	mux.HandleFunc("/api/send-test-email", svc.handleTestEmail)

	svc.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return svc
}

// Handler returns the service handler, used by tests.
func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("email service listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Service) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "email-service"})
}

// bookingPayload mirrors the stored booking record; the send endpoints
// re-check the fields the templates depend on.
type bookingPayload struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	ProjectType string `json:"projectType" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time" validate:"required"`
	Message     string `json:"message"`
}

type contactPayload struct {
	ID      int64  `json:"id"`
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func (s *Service) handleBookingEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeResult(w, http.StatusMethodNotAllowed, mailer.Result{Success: false, Message: "method not allowed"})
		return
	}

	var payload bookingPayload
	if !decodeValid(w, r, &payload) {
		return
	}

	booking := &models.Booking{
		ID:          payload.ID,
		Name:        payload.Name,
		Email:       payload.Email,
		Phone:       payload.Phone,
		ProjectType: payload.ProjectType,
		Date:        payload.Date,
		Time:        payload.Time,
		Message:     payload.Message,
	}

	result, err := s.mailer.SendBookingConfirmation(r.Context(), booking)
	if err != nil || !result.Success {
		s.logger.Error().Err(err).Str("recipient", payload.Email).Msg("booking confirmation failed")
		writeResult(w, http.StatusInternalServerError, result)
		return
	}
	writeResult(w, http.StatusOK, result)
}

func (s *Service) handleContactEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeResult(w, http.StatusMethodNotAllowed, mailer.Result{Success: false, Message: "method not allowed"})
		return
	}

	var payload contactPayload
	if !decodeValid(w, r, &payload) {
		return
	}

	contact := &models.Contact{
		ID:      payload.ID,
		Name:    payload.Name,
		Email:   payload.Email,
		Subject: payload.Subject,
		Message: payload.Message,
	}

	result, err := s.mailer.SendContactAlert(r.Context(), contact)
	if err != nil || !result.Success {
		s.logger.Error().Err(err).Str("recipient", payload.Email).Msg("contact notification failed")
		writeResult(w, http.StatusInternalServerError, result)
		return
	}
	writeResult(w, http.StatusOK, result)
}

func (s *Service) handleTestEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeResult(w, http.StatusMethodNotAllowed, mailer.Result{Success: false, Message: "method not allowed"})
		return
	}

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		writeResult(w, http.StatusBadRequest, mailer.Result{Success: false, Message: "Email address is required"})
		return
	}

	result, err := s.mailer.SendTestEmail(r.Context(), body.Email)
	if err != nil || !result.Success {
		s.logger.Error().Err(err).Str("recipient", body.Email).Msg("test email failed")
		writeResult(w, http.StatusInternalServerError, result)
		return
	}
	writeResult(w, http.StatusOK, result)
}

// decodeValid decodes the body and runs the shared validation rules,
// answering the request itself on failure.
func decodeValid(w http.ResponseWriter, r *http.Request, payload any) bool {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		writeResult(w, http.StatusBadRequest, mailer.Result{Success: false, Message: "invalid JSON body"})
		return false
	}

	if err := validate.Struct(payload); err != nil {
		var verr *validate.ValidationError
		if errors.As(err, &verr) {
			writeResult(w, http.StatusBadRequest, mailer.Result{
				Success: false,
				Message: "Invalid payload: " + verr.Error(),
			})
			return false
		}
		writeResult(w, http.StatusInternalServerError, mailer.Result{Success: false, Message: err.Error()})
		return false
	}
	return true
}

func writeResult(w http.ResponseWriter, statusCode int, result mailer.Result) {
	writeJSON(w, statusCode, result)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
