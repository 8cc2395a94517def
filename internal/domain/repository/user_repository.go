package repository

import (
	"awn-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	// Create returns ErrDuplicate when the email is taken.
	Create(db *gorm.DB, user *entity.User) error
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	// RecordFailedLogin increments the failure counter and locks the account at maxAttempts.
	RecordFailedLogin(db *gorm.DB, id uuid.UUID, maxAttempts int) (locked bool, err error)
	RecordSuccessfulLogin(db *gorm.DB, id uuid.UUID) error
	// UpdateAccount saves the name, email and verification flag.
	// It returns ErrDuplicate when the new email is taken.
	UpdateAccount(db *gorm.DB, user *entity.User) error
	MarkEmailVerified(db *gorm.DB, id uuid.UUID) error
}
