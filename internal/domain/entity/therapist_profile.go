package entity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TherapistProfile represents therapist-specific profile data
type TherapistProfile struct {
	UserID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	Slug            string          `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	LicenseNumber   string          `gorm:"type:varchar(50);uniqueIndex" json:"license_number,omitempty"`
	Specialization  string          `gorm:"type:varchar(100);not null;index" json:"specialization"`
	City            string          `gorm:"type:varchar(100);index" json:"city,omitempty"`
	Biography       string          `gorm:"type:text" json:"biography,omitempty"`
	YearsExperience int             `gorm:"not null;default:0" json:"years_experience"`
	BasePrice       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"base_price"`
	SessionModes    StringList      `gorm:"type:jsonb" json:"session_modes"`
	IsVerified      bool            `gorm:"not null;default:false" json:"is_verified"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (TherapistProfile) TableName() string {
	return "therapist_profiles"
}

// OffersMode reports whether the therapist runs sessions of the given type.
// An empty mode list means every session type is offered.
func (t *TherapistProfile) OffersMode(mode SessionType) bool {
	if len(t.SessionModes) == 0 {
		return true
	}
	for _, m := range t.SessionModes {
		if strings.EqualFold(m, string(mode)) {
			return true
		}
	}
	return false
}

// TherapistFilter narrows therapist listings.
type TherapistFilter struct {
	City           string
	Specialization string
	Mode           SessionType
}
