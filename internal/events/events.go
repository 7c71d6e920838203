package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventBookingCreated = "booking_created"
	EventContactCreated = "contact_created"
	EventEmailSent      = "email_sent"
	EventEmailFailed    = "email_failed"
)

// SubmissionPayload is the snapshot published when a record is stored.
type SubmissionPayload struct {
	Kind  string `json:"kind"`
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// EmailPayload describes the outcome of one notification attempt.
type EmailPayload struct {
	Kind      string `json:"kind"`
	ID        int64  `json:"id"`
	Recipient string `json:"recipient"`
	Message   string `json:"message,omitempty"`
}

// Event is a lightweight in-process domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Handler reacts to an event. Handlers run synchronously on the publishing
// goroutine; a handler error does not stop the remaining handlers.
type Handler func(event *Event) error

// Bus provides in-process pub/sub for submission and email events.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *Bus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event. A nil bus is a
// no-op so callers can leave eventing unwired.
func (b *Bus) PublishJSON(eventType string, payload any) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
