package repository

import (
	"errors"
	"time"

	"awn-booking/internal/domain/entity"
	domainRepo "awn-booking/internal/domain/repository"
	"awn-booking/internal/infrastructure/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	err := db.Omit("Role", "TherapistProfile", "PatientProfile").Create(user).Error
	if database.IsDuplicateKeyError(err, "email") {
		return domainRepo.ErrDuplicate
	}
	return err
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	var user entity.User
	err := db.Preload("Role").Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := db.Preload("Role").Preload("TherapistProfile").Preload("PatientProfile").
		Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// RecordFailedLogin increments the counter in one statement so concurrent failures are all counted.
func (r *userRepository) RecordFailedLogin(db *gorm.DB, id uuid.UUID, maxAttempts int) (bool, error) {
	var user entity.User
	err := db.Model(&user).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"failed_login_attempts": gorm.Expr("failed_login_attempts + 1"),
			"locked":                gorm.Expr("failed_login_attempts + 1 >= ?", maxAttempts),
		}).Error
	if err != nil {
		return false, err
	}

	if err := db.Select("locked").Where("id = ?", id).First(&user).Error; err != nil {
		return false, err
	}
	return user.Locked, nil
}

func (r *userRepository) RecordSuccessfulLogin(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&entity.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"failed_login_attempts": 0,
			"last_login_at":         time.Now(),
		}).Error
}

func (r *userRepository) UpdateAccount(db *gorm.DB, user *entity.User) error {
	err := db.Model(&entity.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"full_name":      user.FullName,
			"email":          user.Email,
			"email_verified": user.EmailVerified,
		}).Error
	if database.IsDuplicateKeyError(err, "email") {
		return domainRepo.ErrDuplicate
	}
	return err
}

func (r *userRepository) MarkEmailVerified(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&entity.User{}).Where("id = ?", id).Update("email_verified", true).Error
}
