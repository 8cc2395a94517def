package dto

import (
	"time"

	"github.com/google/uuid"
)

const (
	FavoriteActionAdd    = "add"
	FavoriteActionRemove = "remove"
)

type ToggleFavoriteRequest struct {
	TherapistID uuid.UUID `json:"therapist_id" validate:"required"`
	Action      string    `json:"action" validate:"required,oneof=add remove"`
}

type FavoriteResponse struct {
	TherapistID uuid.UUID                 `json:"therapist_id"`
	Therapist   *TherapistSummaryResponse `json:"therapist,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
}

type FavoriteListResponse struct {
	Favorites []FavoriteResponse `json:"favorites"`
	Total     int                `json:"total"`
}
