package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ddarch/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDelegate(serviceURL string) *Delegate {
	logger := zerolog.Nop()
	d := NewDelegate(serviceURL, &logger)
	// Keep retries fast in tests.
	d.retry = RetryPolicy{
		MaxRetries:    2,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2,
	}
	return d
}

func TestDelegateSendBookingConfirmation(t *testing.T) {
	var gotPath string
	var gotBooking models.Booking
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBooking))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Result{Success: true, Message: "Booking confirmation email sent successfully"})
	}))
	defer srv.Close()

	d := newTestDelegate(srv.URL)
	booking := &models.Booking{ID: 1, Name: "Asha Rao", Email: "asha@example.com"}

	result, err := d.SendBookingConfirmation(context.Background(), booking)
	require.NoError(t, err)

	assert.Equal(t, "/api/send-email/booking", gotPath)
	assert.Equal(t, "Asha Rao", gotBooking.Name)
	assert.True(t, result.Success)
	assert.Equal(t, "Booking confirmation email sent successfully", result.Message)
}

func TestDelegateServiceErrorIsSoftFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(Result{Success: false, Message: "smtp handshake failed"})
	}))
	defer srv.Close()

	d := newTestDelegate(srv.URL)
	result, err := d.SendContactAlert(context.Background(), &models.Contact{ID: 2, Email: "ravi@example.com"})

	assert.Error(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "smtp handshake failed")
}

func TestDelegateNoRetryAfterResponse(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	d := newTestDelegate(srv.URL)
	result, err := d.SendTestEmail(context.Background(), "asha@example.com")

	assert.Error(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 1, calls, "an HTTP response ends the retry loop")
}

func TestDelegateUnreachableService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // nothing listening anymore

	d := newTestDelegate(srv.URL)
	result, err := d.SendTestEmail(context.Background(), "asha@example.com")

	assert.Error(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "email service unreachable after 2 attempts")
}

func TestDelegateStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	d := newTestDelegate(srv.URL)
	status, err := d.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusConfigured, status)
}

func TestDelegateStatusUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	d := newTestDelegate(srv.URL)
	_, err := d.Status(context.Background())
	assert.ErrorContains(t, err, "email service unreachable")
}
