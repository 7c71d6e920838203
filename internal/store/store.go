package store

import (
	"context"
	"errors"

	"ddarch/internal/models"
)

// ErrNotFound is returned by point lookups for ids that were never assigned.
var ErrNotFound = errors.New("record not found")

// Store persists bookings and contacts with auto-increment identity.
//
// Ids start at 1 per record kind and are strictly increasing: implementations
// must serialize id assignment so that two concurrent creates never receive
// the same id. The counter advances only on successful create and never
// rewinds. Records are append-only; there are no update or delete operations.
type Store interface {
	CreateBooking(ctx context.Context, in models.BookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)

	CreateContact(ctx context.Context, in models.ContactInput) (*models.Contact, error)
	GetContact(ctx context.Context, id int64) (*models.Contact, error)
	ListContacts(ctx context.Context) ([]models.Contact, error)

	Close() error
}
