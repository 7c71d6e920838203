package mailer

import (
	"context"

	"ddarch/internal/models"
)

// Result reports the outcome of one send attempt in the shape callers (and
// the delegate service wire format) expect.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const (
	StatusConfigured    = "configured"
	StatusNotConfigured = "not_configured"
)

// Mailer delivers templated notifications over a concrete transport. Errors
// are transport-level detail; callers that must not fail on email problems
// look at Result.Success only.
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, b *models.Booking) (Result, error)
	SendContactAlert(ctx context.Context, c *models.Contact) (Result, error)
	SendTestEmail(ctx context.Context, to string) (Result, error)

	// Status reports whether the transport is usable: StatusConfigured,
	// StatusNotConfigured, or an error when a delegate service is unreachable.
	Status(ctx context.Context) (string, error)
}

// Disabled is the transport used when no mail configuration exists. Every
// send is an immediate soft failure.
type Disabled struct{}

func NewDisabled() Disabled { return Disabled{} }

func (Disabled) SendBookingConfirmation(context.Context, *models.Booking) (Result, error) {
	return disabledResult(), nil
}

func (Disabled) SendContactAlert(context.Context, *models.Contact) (Result, error) {
	return disabledResult(), nil
}

func (Disabled) SendTestEmail(context.Context, string) (Result, error) {
	return disabledResult(), nil
}

func (Disabled) Status(context.Context) (string, error) {
	return StatusNotConfigured, nil
}

func disabledResult() Result {
	return Result{Success: false, Message: "email transport is not configured"}
}
