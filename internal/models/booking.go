package models

import "time"

// Booking is a stored consultation request. ID and CreatedAt are assigned by
// the record store and never change afterwards.
type Booking struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ProjectType string    `json:"projectType"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BookingInput is the payload accepted by the booking endpoint. The validate
// tags are the single declaration of the submission rules; the same struct is
// checked on every boundary that accepts raw booking data.
//
// Terms is a client-side gate: it is accepted here so that form payloads pass
// through unchanged, but it is discarded before storage and never required
// server-side.
type BookingInput struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,min=10"`
	ProjectType string `json:"projectType" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required,datetime=15:04"`
	Message     string `json:"message,omitempty" validate:"omitempty"`
	Terms       bool   `json:"terms,omitempty" validate:"-"`
}
