package repository

import (
	"awn-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicalHistoryRepository interface {
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.MedicalHistory, error)
	Upsert(db *gorm.DB, history *entity.MedicalHistory) error
	Delete(db *gorm.DB, userID uuid.UUID) (int64, error)
}
