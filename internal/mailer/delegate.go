package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ddarch/internal/models"

	"github.com/rs/zerolog"
)

// Delegate forwards sends to the standalone email service over HTTP. A
// connectivity failure to the service is the same soft failure as a rejected
// SMTP transaction: reported in the Result, never fatal to the caller.
type Delegate struct {
	baseURL string
	client  *http.Client
	retry   RetryPolicy
	logger  *zerolog.Logger
}

func NewDelegate(serviceURL string, logger *zerolog.Logger) *Delegate {
	return &Delegate{
		baseURL: strings.TrimRight(serviceURL, "/"),
		client:  &http.Client{},
		retry: RetryPolicy{
			MaxRetries:    3,
			InitialDelay:  250 * time.Millisecond,
			MaxDelay:      2 * time.Second,
			BackoffFactor: 2,
		},
		logger: logger,
	}
}

func (d *Delegate) SendBookingConfirmation(ctx context.Context, b *models.Booking) (Result, error) {
	return d.post(ctx, "/api/send-email/booking", b)
}

func (d *Delegate) SendContactAlert(ctx context.Context, c *models.Contact) (Result, error) {
	return d.post(ctx, "/api/send-email/contact", c)
}

func (d *Delegate) SendTestEmail(ctx context.Context, to string) (Result, error) {
	return d.post(ctx, "/api/send-test-email", map[string]string{"email": to})
}

func (d *Delegate) Status(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/health", nil)
	if err != nil {
		return "", err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("email service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("email service health check returned %d", resp.StatusCode)
	}
	return StatusConfigured, nil
}

// post submits the payload, retrying connection-level failures with backoff.
// An HTTP response from the service, whatever its status, ends the retries:
// at that point the service itself has reported the outcome.
func (d *Delegate) post(ctx context.Context, path string, payload any) (Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Success: false, Message: err.Error()}, err
	}

	var lastErr error
	attempts := d.retry.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return Result{Success: false, Message: err.Error()}, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.client.Do(req)
		if err != nil {
			lastErr = err
			d.logger.Warn().Err(err).Str("path", path).Int("attempt", attempt).Msg("email service request failed")

			select {
			case <-ctx.Done():
				return Result{Success: false, Message: ctx.Err().Error()}, ctx.Err()
			case <-time.After(d.retry.NextDelay(attempt)):
			}
			continue
		}

		return decodeResult(resp)
	}

	return Result{
		Success: false,
		Message: fmt.Sprintf("email service unreachable after %d attempts: %v", attempts, lastErr),
	}, lastErr
}

func decodeResult(resp *http.Response) (Result, error) {
	defer resp.Body.Close()

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		result = Result{Success: false, Message: fmt.Sprintf("email service returned %d", resp.StatusCode)}
	}

	if resp.StatusCode >= http.StatusBadRequest && result.Message == "" {
		result.Message = fmt.Sprintf("email service returned %d", resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		result.Success = false
		return result, fmt.Errorf("email service returned %d: %s", resp.StatusCode, result.Message)
	}
	return result, nil
}
