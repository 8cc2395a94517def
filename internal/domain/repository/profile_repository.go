package repository

import (
	"awn-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TherapistProfileRepository interface {
	Create(db *gorm.DB, profile *entity.TherapistProfile) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.TherapistProfile, error)
	FindAll(db *gorm.DB, filter entity.TherapistFilter) ([]entity.TherapistProfile, error)
}

type PatientProfileRepository interface {
	Create(db *gorm.DB, profile *entity.PatientProfile) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error)
	Update(db *gorm.DB, profile *entity.PatientProfile) error
}
