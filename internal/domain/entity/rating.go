package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// Rating is a patient's score for one session. A booking is rated at most once.
type Rating struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BookingID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_ratings_booking" json:"booking_id"`
	TherapistID uuid.UUID  `gorm:"type:uuid;not null;index" json:"therapist_id"`
	PatientID   *uuid.UUID `gorm:"type:uuid" json:"patient_id,omitempty"`
	Score       int        `gorm:"not null" json:"score"`
	Comment     string     `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Rating) TableName() string {
	return "ratings"
}

// RatingSummary aggregates a therapist's ratings.
type RatingSummary struct {
	Average float64
	Count   int64
}
