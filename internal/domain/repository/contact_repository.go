package repository

import (
	"awn-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(db *gorm.DB, contact *entity.ContactRequest) error
	// FindRecent returns at most limit requests, newest first.
	FindRecent(db *gorm.DB, limit int) ([]entity.ContactRequest, error)
}
