package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateContactRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
	Role      string `json:"role" validate:"omitempty,max=50"`
	City      string `json:"city" validate:"omitempty,max=100"`
	Topic     string `json:"topic" validate:"omitempty,max=100"`
	Message   string `json:"message" validate:"required,max=5000"`
	Locale    string `json:"locale" validate:"omitempty,oneof=ar en"`
}

type ContactQuery struct {
	Limit int `validate:"omitempty,min=1,max=500"`
}

type ContactResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role,omitempty"`
	City      string    `json:"city,omitempty"`
	Topic     string    `json:"topic,omitempty"`
	Message   string    `json:"message"`
	Locale    string    `json:"locale"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactListResponse struct {
	Contacts []ContactResponse `json:"contacts"`
	Total    int               `json:"total"`
}
