package dto

import (
	"time"

	"github.com/google/uuid"
)

// UpdatePatientProfileRequest changes only the fields that are present.
// An empty string clears an optional field.
type UpdatePatientProfileRequest struct {
	FullName         *string `json:"full_name" validate:"omitempty,min=2,max=255"`
	Email            *string `json:"email" validate:"omitempty,email"`
	NationalID       *string `json:"national_id" validate:"omitempty,max=20"`
	PhoneNumber      *string `json:"phone_number" validate:"omitempty,max=20"`
	DateOfBirth      *string `json:"date_of_birth" validate:"omitempty,date_ymd"`
	Gender           *string `json:"gender" validate:"omitempty,oneof=male female"`
	City             *string `json:"city" validate:"omitempty,max=100"`
	EmergencyContact *string `json:"emergency_contact" validate:"omitempty,max=255"`
}

type PatientResponse struct {
	ID            uuid.UUID               `json:"id"`
	Email         string                  `json:"email"`
	FullName      string                  `json:"full_name"`
	EmailVerified bool                    `json:"email_verified"`
	Profile       *PatientProfileResponse `json:"profile"`
	UpdatedAt     time.Time               `json:"updated_at"`
}
