package store

import (
	"context"
	"sync"
	"time"

	"ddarch/internal/models"
)

// Memory keeps all records in process memory. State is intentionally
// volatile: a restart resets both collections and both id counters.
type Memory struct {
	mu sync.Mutex

	bookings   []models.Booking
	bookingIdx map[int64]int
	bookingID  int64

	contacts   []models.Contact
	contactIdx map[int64]int
	contactID  int64
}

func NewMemory() *Memory {
	return &Memory{
		bookingIdx: make(map[int64]int),
		contactIdx: make(map[int64]int),
	}
}

func (m *Memory) CreateBooking(_ context.Context, in models.BookingInput) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bookingID++
	booking := models.Booking{
		ID:          m.bookingID,
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		ProjectType: in.ProjectType,
		Date:        in.Date,
		Time:        in.Time,
		Message:     in.Message,
		CreatedAt:   time.Now(),
	}
	m.bookings = append(m.bookings, booking)
	m.bookingIdx[booking.ID] = len(m.bookings) - 1

	out := booking
	return &out, nil
}

func (m *Memory) GetBooking(_ context.Context, id int64) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.bookingIdx[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := m.bookings[idx]
	return &out, nil
}

// ListBookings returns all bookings in insertion order.
func (m *Memory) ListBookings(_ context.Context) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Booking, len(m.bookings))
	copy(out, m.bookings)
	return out, nil
}

func (m *Memory) CreateContact(_ context.Context, in models.ContactInput) (*models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.contactID++
	contact := models.Contact{
		ID:        m.contactID,
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: time.Now(),
	}
	m.contacts = append(m.contacts, contact)
	m.contactIdx[contact.ID] = len(m.contacts) - 1

	out := contact
	return &out, nil
}

func (m *Memory) GetContact(_ context.Context, id int64) (*models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.contactIdx[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := m.contacts[idx]
	return &out, nil
}

// ListContacts returns all contacts in insertion order.
func (m *Memory) ListContacts(_ context.Context) ([]models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Contact, len(m.contacts))
	copy(out, m.contacts)
	return out, nil
}

func (m *Memory) Close() error { return nil }
