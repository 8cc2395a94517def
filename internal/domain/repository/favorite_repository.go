package repository

import (
	"awn-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FavoriteRepository interface {
	Add(db *gorm.DB, favorite *entity.Favorite) error
	Remove(db *gorm.DB, patientID, therapistID uuid.UUID) error
	FindByPatient(db *gorm.DB, patientID uuid.UUID) ([]entity.Favorite, error)
}
