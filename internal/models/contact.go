package models

import "time"

// Contact is a stored contact-form message. Its id sequence is independent
// from the booking sequence.
type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactInput is the payload accepted by the contact endpoint. Minimum
// lengths count runes with no trimming applied.
type ContactInput struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=2"`
	Message string `json:"message" validate:"required,min=10"`
}
