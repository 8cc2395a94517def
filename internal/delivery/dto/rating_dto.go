package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateRatingRequest struct {
	BookingID   uuid.UUID `json:"booking_id" validate:"required"`
	TherapistID uuid.UUID `json:"therapist_id" validate:"required"`
	Score       int       `json:"score" validate:"required,min=1,max=5"`
	Comment     string    `json:"comment" validate:"omitempty,max=1000"`
}

type RatingResponse struct {
	ID          uuid.UUID `json:"id"`
	BookingID   uuid.UUID `json:"booking_id"`
	TherapistID uuid.UUID `json:"therapist_id"`
	Score       int       `json:"score"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type RatingListResponse struct {
	Ratings []RatingResponse `json:"ratings"`
	Summary RatingSummary    `json:"summary"`
}
