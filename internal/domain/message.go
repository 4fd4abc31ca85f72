package domain

import (
	"strings"
	"time"
)

// Message is a contact-form submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	Replied   bool      `json:"replied"`
	Notified  bool      `json:"notified"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Normalize trims every field and lower-cases the sender address.
func (message Message) Normalize() Message {
	message.Name = strings.TrimSpace(message.Name)
	message.Email = NormalizeEmail(message.Email)
	message.Subject = strings.TrimSpace(message.Subject)
	message.Message = strings.TrimSpace(message.Message)
	return message
}

// Validate expects a normalized message.
func (message Message) Validate() error {
	if message.Name == "" || message.Email == "" || message.Subject == "" || message.Message == "" {
		return invalid("All fields are required: name, email, subject, message")
	}
	if !ValidEmail(message.Email) {
		return invalid("Please provide a valid email address")
	}

	var fields []string
	if !lengthBetween(message.Name, 2, 100) {
		fields = append(fields, "Name must be between 2 and 100 characters")
	}
	if !lengthBetween(message.Subject, 5, 200) {
		fields = append(fields, "Subject must be between 5 and 200 characters")
	}
	if !lengthBetween(message.Message, 10, 2000) {
		fields = append(fields, "Message must be between 10 and 2000 characters")
	}
	if len(fields) > 0 {
		return invalid("Validation failed", fields...)
	}
	return nil
}
