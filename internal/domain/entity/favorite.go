package entity

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	PatientID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"patient_id"`
	TherapistID uuid.UUID `gorm:"type:uuid;primaryKey" json:"therapist_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Therapist *TherapistProfile `gorm:"foreignKey:TherapistID" json:"therapist,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}
