package repository

import (
	"awn-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RatingRepository interface {
	// Create returns ErrDuplicate when the booking is already rated.
	Create(db *gorm.DB, rating *entity.Rating) error
	FindByTherapist(db *gorm.DB, therapistID uuid.UUID) ([]entity.Rating, error)
	Summary(db *gorm.DB, therapistID uuid.UUID) (entity.RatingSummary, error)
}
