package repository

import (
	"awn-booking/internal/domain/entity"
	domainRepo "awn-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type favoriteRepository struct{}

func NewFavoriteRepository() domainRepo.FavoriteRepository {
	return &favoriteRepository{}
}

// Add is idempotent: an existing favorite is left untouched.
func (r *favoriteRepository) Add(db *gorm.DB, favorite *entity.Favorite) error {
	return db.Omit("Therapist").Clauses(clause.OnConflict{DoNothing: true}).Create(favorite).Error
}

func (r *favoriteRepository) Remove(db *gorm.DB, patientID, therapistID uuid.UUID) error {
	return db.Where("patient_id = ? AND therapist_id = ?", patientID, therapistID).
		Delete(&entity.Favorite{}).Error
}

func (r *favoriteRepository) FindByPatient(db *gorm.DB, patientID uuid.UUID) ([]entity.Favorite, error) {
	var favorites []entity.Favorite
	err := db.Preload("Therapist.User").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}
	return favorites, nil
}
