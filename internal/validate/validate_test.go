package validate

import (
	"errors"
	"strings"
	"testing"

	"ddarch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBooking() models.BookingInput {
	return models.BookingInput{
		Name:        "Asha Rao",
		Email:       "asha@example.com",
		Phone:       "9876543210",
		ProjectType: "residential",
		Date:        "2024-06-10",
		Time:        "11:00",
	}
}

func validContact() models.ContactInput {
	return models.ContactInput{
		Name:    "Asha Rao",
		Email:   "asha@example.com",
		Subject: "New home",
		Message: "We are planning a new residence.",
	}
}

func fieldErrors(t *testing.T, err error) *ValidationError {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	return verr
}

func TestBookingValid(t *testing.T) {
	assert.NoError(t, Struct(validBooking()))
}

func TestBookingTermsIgnored(t *testing.T) {
	in := validBooking()
	in.Terms = false
	assert.NoError(t, Struct(in), "terms is a client-side gate, never required here")
}

func TestBookingOptionalMessage(t *testing.T) {
	in := validBooking()
	in.Message = ""
	assert.NoError(t, Struct(in))
}

func TestEmailGrammar(t *testing.T) {
	in := validBooking()

	in.Email = "not-an-email"
	err := Struct(in)
	verr := fieldErrors(t, err)
	assert.Equal(t, []string{"email"}, verr.Fields())
	assert.Equal(t, "Please enter a valid email address", verr.Errors[0].Message)

	in.Email = "user@example.com"
	assert.NoError(t, Struct(in))
}

func TestBookingPhoneMinimum(t *testing.T) {
	in := validBooking()
	in.Phone = "123456789" // 9 digits
	verr := fieldErrors(t, Struct(in))
	assert.Contains(t, verr.Fields(), "phone")

	in.Phone = "1234567890"
	assert.NoError(t, Struct(in))
}

func TestBookingDateAndTimeFormats(t *testing.T) {
	in := validBooking()
	in.Date = "10-06-2024"
	verr := fieldErrors(t, Struct(in))
	assert.Contains(t, verr.Fields(), "date")

	in = validBooking()
	in.Time = "eleven"
	verr = fieldErrors(t, Struct(in))
	assert.Contains(t, verr.Fields(), "time")
}

func TestBookingMissingRequired(t *testing.T) {
	verr := fieldErrors(t, Struct(models.BookingInput{}))
	fields := verr.Fields()
	for _, want := range []string{"name", "email", "phone", "projectType", "date", "time"} {
		assert.Contains(t, fields, want)
	}
}

func TestContactMessageBoundary(t *testing.T) {
	in := validContact()

	in.Message = strings.Repeat("x", 9)
	verr := fieldErrors(t, Struct(in))
	assert.Equal(t, []string{"message"}, verr.Fields())
	assert.Equal(t, "message must be at least 10 characters", verr.Errors[0].Message)

	in.Message = strings.Repeat("x", 10)
	assert.NoError(t, Struct(in))
}

func TestContactCollectsAllErrors(t *testing.T) {
	in := models.ContactInput{
		Name:    "A",
		Email:   "a@b.com",
		Subject: "Hi",
		Message: "short",
	}

	verr := fieldErrors(t, Struct(in))
	fields := verr.Fields()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "message")
	assert.Len(t, fields, 2, "subject of length 2 and a valid email should pass")
}

func TestValidationErrorMessage(t *testing.T) {
	verr := &ValidationError{Errors: []FieldError{
		{Field: "name", Message: "name is required"},
		{Field: "email", Message: "Please enter a valid email address"},
	}}
	assert.Equal(t, "name is required; Please enter a valid email address", verr.Error())
}
