package repository

import (
	"awn-booking/internal/domain/entity"
	domainRepo "awn-booking/internal/domain/repository"

	"gorm.io/gorm"
)

type contactRepository struct{}

func NewContactRepository() domainRepo.ContactRepository {
	return &contactRepository{}
}

func (r *contactRepository) Create(db *gorm.DB, contact *entity.ContactRequest) error {
	return db.Create(contact).Error
}

func (r *contactRepository) FindRecent(db *gorm.DB, limit int) ([]entity.ContactRequest, error) {
	var contacts []entity.ContactRequest
	err := db.Order("created_at DESC").Limit(limit).Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}
