package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TherapistListQuery struct {
	City           string `validate:"omitempty,max=100"`
	Specialization string `validate:"omitempty,max=100"`
	Mode           string `validate:"omitempty,oneof=online home clinic"`
}

type TherapistProfileResponse struct {
	UserID          uuid.UUID       `json:"user_id"`
	FullName        string          `json:"full_name"`
	Email           string          `json:"email,omitempty"`
	Slug            string          `json:"slug"`
	LicenseNumber   string          `json:"license_number,omitempty"`
	Specialization  string          `json:"specialization"`
	City            string          `json:"city,omitempty"`
	Biography       string          `json:"biography,omitempty"`
	YearsExperience int             `json:"years_experience"`
	BasePrice       decimal.Decimal `json:"base_price"`
	SessionModes    []string        `json:"session_modes"`
	IsVerified      bool            `json:"is_verified"`
	Rating          *RatingSummary  `json:"rating,omitempty"`
}

// TherapistSummaryResponse is the therapist as embedded in bookings and favorites
type TherapistSummaryResponse struct {
	UserID         uuid.UUID `json:"user_id"`
	FullName       string    `json:"full_name"`
	Specialization string    `json:"specialization"`
	City           string    `json:"city,omitempty"`
}

type TherapistListResponse struct {
	Therapists []TherapistProfileResponse `json:"therapists"`
	Total      int                        `json:"total"`
}
