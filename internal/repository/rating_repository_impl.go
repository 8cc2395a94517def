package repository

import (
	"awn-booking/internal/domain/entity"
	domainRepo "awn-booking/internal/domain/repository"
	"awn-booking/internal/infrastructure/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ratingBookingConstraint = "uq_ratings_booking"

type ratingRepository struct{}

func NewRatingRepository() domainRepo.RatingRepository {
	return &ratingRepository{}
}

func (r *ratingRepository) Create(db *gorm.DB, rating *entity.Rating) error {
	err := db.Create(rating).Error
	if database.IsDuplicateKeyError(err, ratingBookingConstraint) {
		return domainRepo.ErrDuplicate
	}
	return err
}

func (r *ratingRepository) FindByTherapist(db *gorm.DB, therapistID uuid.UUID) ([]entity.Rating, error) {
	var ratings []entity.Rating
	err := db.Where("therapist_id = ?", therapistID).Order("created_at DESC").Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *ratingRepository) Summary(db *gorm.DB, therapistID uuid.UUID) (entity.RatingSummary, error) {
	var summary entity.RatingSummary
	err := db.Model(&entity.Rating{}).
		Select("COALESCE(AVG(score), 0) AS average, COUNT(*) AS count").
		Where("therapist_id = ?", therapistID).
		Scan(&summary).Error
	return summary, err
}
