package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ddarch/internal/export"
	"ddarch/internal/metrics"
	"ddarch/internal/models"
	"ddarch/internal/validate"
)

type submissionResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type validationResponse struct {
	Message string                `json:"message"`
	Errors  []validate.FieldError `json:"errors"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Message: "method not allowed"})
		return
	}

	log := requestLog(r.Context(), s.logger)

	var input models.BookingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, validationResponse{
			Message: "Validation error",
			Errors:  []validate.FieldError{{Field: "body", Message: "invalid JSON body"}},
		})
		return
	}

	if err := validate.Struct(input); err != nil {
		var verr *validate.ValidationError
		if errors.As(err, &verr) {
			log.Info().Strs("fields", verr.Fields()).Msg("booking rejected")
			metrics.IncSubmission("booking", "rejected")
			writeJSON(w, http.StatusBadRequest, validationResponse{Message: "Validation error", Errors: verr.Errors})
			return
		}
		log.Error().Err(err).Msg("booking validation error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to create booking"})
		return
	}
	log.Debug().Msg("booking validated")

	booking, err := s.store.CreateBooking(r.Context(), input)
	if err != nil {
		log.Error().Err(err).Msg("booking store failed")
		metrics.IncSubmission("booking", "failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to create booking"})
		return
	}
	log.Info().Int64("id", booking.ID).Msg("booking stored")
	metrics.IncSubmission("booking", "stored")

	// Fire and forget: the response does not wait for email delivery.
	s.notifier.BookingCreated(booking)

	writeJSON(w, http.StatusCreated, submissionResponse{
		Message: "Booking created successfully",
		Data:    booking,
	})
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Message: "method not allowed"})
		return
	}

	log := requestLog(r.Context(), s.logger)

	var input models.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, validationResponse{
			Message: "Validation error",
			Errors:  []validate.FieldError{{Field: "body", Message: "invalid JSON body"}},
		})
		return
	}

	if err := validate.Struct(input); err != nil {
		var verr *validate.ValidationError
		if errors.As(err, &verr) {
			log.Info().Strs("fields", verr.Fields()).Msg("contact rejected")
			metrics.IncSubmission("contact", "rejected")
			writeJSON(w, http.StatusBadRequest, validationResponse{Message: "Validation error", Errors: verr.Errors})
			return
		}
		log.Error().Err(err).Msg("contact validation error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to send message"})
		return
	}
	log.Debug().Msg("contact validated")

	contact, err := s.store.CreateContact(r.Context(), input)
	if err != nil {
		log.Error().Err(err).Msg("contact store failed")
		metrics.IncSubmission("contact", "failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to send message"})
		return
	}
	log.Info().Int64("id", contact.ID).Msg("contact stored")
	metrics.IncSubmission("contact", "stored")

	s.notifier.ContactCreated(contact)

	writeJSON(w, http.StatusCreated, submissionResponse{
		Message: "Message sent successfully",
		Data:    contact,
	})
}

func (s *Server) handleEmailServiceStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Message: "method not allowed"})
		return
	}

	ctx, cancel := contextWithTimeout(r, 5*time.Second)
	defer cancel()

	status, err := s.mailer.Status(ctx)
	if err != nil {
		requestLog(r.Context(), s.logger).Warn().Err(err).Msg("email service status check failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "Failed to connect to email service",
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (s *Server) handleSendTestEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Message: "method not allowed"})
		return
	}

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Email address is required",
		})
		return
	}

	ctx, cancel := contextWithTimeout(r, s.cfg.Email.SendTimeout())
	defer cancel()

	result, err := s.mailer.SendTestEmail(ctx, body.Email)
	if err != nil || !result.Success {
		requestLog(r.Context(), s.logger).Warn().Err(err).Str("recipient", body.Email).Msg("test email failed")
		writeJSON(w, http.StatusInternalServerError, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAdminBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Message: "method not allowed"})
		return
	}

	bookings, err := s.store.ListBookings(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to list bookings"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *Server) handleAdminContacts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Message: "method not allowed"})
		return
	}

	contacts, err := s.store.ListContacts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to list contacts"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contacts": contacts})
}

func (s *Server) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Message: "method not allowed"})
		return
	}

	bookings, err := s.store.ListBookings(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to export records"})
		return
	}
	contacts, err := s.store.ListContacts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to export records"})
		return
	}

	workbook, err := export.Workbook(bookings, contacts)
	if err != nil {
		requestLog(r.Context(), s.logger).Error().Err(err).Msg("export workbook failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to export records"})
		return
	}
	defer workbook.Close()

	fileName := "submissions_" + time.Now().Format("2006-01-02") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	if err := workbook.Write(w); err != nil {
		requestLog(r.Context(), s.logger).Error().Err(err).Msg("export write failed")
	}
}
