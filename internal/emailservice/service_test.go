package emailservice

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ddarch/internal/mailer"
	"ddarch/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	fail      bool
	bookings  []models.Booking
	contacts  []models.Contact
	testSends []string
}

func (f *fakeMailer) result() (mailer.Result, error) {
	if f.fail {
		return mailer.Result{Success: false, Message: "smtp handshake failed"}, nil
	}
	return mailer.Result{Success: true, Message: "sent"}, nil
}

func (f *fakeMailer) SendBookingConfirmation(_ context.Context, b *models.Booking) (mailer.Result, error) {
	f.bookings = append(f.bookings, *b)
	return f.result()
}

func (f *fakeMailer) SendContactAlert(_ context.Context, c *models.Contact) (mailer.Result, error) {
	f.contacts = append(f.contacts, *c)
	return f.result()
}

func (f *fakeMailer) SendTestEmail(_ context.Context, to string) (mailer.Result, error) {
	f.testSends = append(f.testSends, to)
	return f.result()
}

func (f *fakeMailer) Status(context.Context) (string, error) {
	return mailer.StatusConfigured, nil
}

func newTestService(m mailer.Mailer) *Service {
	logger := zerolog.Nop()
	return New(5001, m, &logger)
}

func post(t *testing.T, svc *Service, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	svc := newTestService(&fakeMailer{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "email-service", body["service"])
}

func TestBookingEmail(t *testing.T) {
	m := &fakeMailer{}
	svc := newTestService(m)

	rec := post(t, svc, "/api/send-email/booking", map[string]any{
		"id":          1,
		"name":        "Asha Rao",
		"email":       "asha@example.com",
		"projectType": "residential",
		"date":        "2024-06-10",
		"time":        "11:00",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, m.bookings, 1)
	assert.Equal(t, "asha@example.com", m.bookings[0].Email)

	var result mailer.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.True(t, result.Success)
}

func TestBookingEmailMissingFields(t *testing.T) {
	m := &fakeMailer{}
	svc := newTestService(m)

	rec := post(t, svc, "/api/send-email/booking", map[string]any{"email": "asha@example.com"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid payload:")
	assert.Contains(t, rec.Body.String(), "required")
	assert.Empty(t, m.bookings, "nothing is sent for an invalid payload")
}

func TestContactEmail(t *testing.T) {
	m := &fakeMailer{}
	svc := newTestService(m)

	rec := post(t, svc, "/api/send-email/contact", map[string]any{
		"id":      2,
		"name":    "Ravi Kumar",
		"email":   "ravi@example.com",
		"subject": "Quote",
		"message": "We would like a quote.",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, m.contacts, 1)
	assert.Equal(t, "Quote", m.contacts[0].Subject)
}

func TestContactEmailTransportFailure(t *testing.T) {
	svc := newTestService(&fakeMailer{fail: true})

	rec := post(t, svc, "/api/send-email/contact", map[string]any{
		"name":    "Ravi Kumar",
		"email":   "ravi@example.com",
		"subject": "Quote",
		"message": "We would like a quote.",
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "smtp handshake failed")
}

func TestTestEmail(t *testing.T) {
	m := &fakeMailer{}
	svc := newTestService(m)

	rec := post(t, svc, "/api/send-test-email", map[string]string{"email": "staff@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"staff@example.com"}, m.testSends)
}

func TestTestEmailRequiresAddress(t *testing.T) {
	svc := newTestService(&fakeMailer{})

	rec := post(t, svc, "/api/send-test-email", map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email address is required")
}

func TestMethodNotAllowed(t *testing.T) {
	svc := newTestService(&fakeMailer{})

	req := httptest.NewRequest(http.MethodGet, "/api/send-email/booking", nil)
	rec := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
