package repository

import (
	"errors"

	"awn-booking/internal/domain/entity"
	domainRepo "awn-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type medicalHistoryRepository struct{}

func NewMedicalHistoryRepository() domainRepo.MedicalHistoryRepository {
	return &medicalHistoryRepository{}
}

func (r *medicalHistoryRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.MedicalHistory, error) {
	var history entity.MedicalHistory
	err := db.Where("user_id = ?", userID).First(&history).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &history, nil
}

func (r *medicalHistoryRepository) Upsert(db *gorm.DB, history *entity.MedicalHistory) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"history_data", "updated_at"}),
	}).Create(history).Error
}

func (r *medicalHistoryRepository) Delete(db *gorm.DB, userID uuid.UUID) (int64, error) {
	result := db.Where("user_id = ?", userID).Delete(&entity.MedicalHistory{})
	return result.RowsAffected, result.Error
}
