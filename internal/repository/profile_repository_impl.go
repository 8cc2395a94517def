package repository

import (
	"errors"
	"strings"

	"awn-booking/internal/domain/entity"
	domainRepo "awn-booking/internal/domain/repository"
	"awn-booking/internal/infrastructure/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Therapist Profile Repository

type therapistProfileRepository struct{}

func NewTherapistProfileRepository() domainRepo.TherapistProfileRepository {
	return &therapistProfileRepository{}
}

func (r *therapistProfileRepository) Create(db *gorm.DB, profile *entity.TherapistProfile) error {
	err := db.Omit("User").Create(profile).Error
	if database.IsDuplicateKeyError(err, "therapist_profiles") {
		return domainRepo.ErrDuplicate
	}
	return err
}

func (r *therapistProfileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.TherapistProfile, error) {
	var profile entity.TherapistProfile
	err := db.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *therapistProfileRepository) FindAll(db *gorm.DB, filter entity.TherapistFilter) ([]entity.TherapistProfile, error) {
	var profiles []entity.TherapistProfile
	query := db.Preload("User").
		Joins("JOIN users ON users.id = therapist_profiles.user_id").
		Where("users.is_active = ?", true)

	if filter.City != "" {
		query = query.Where("LOWER(therapist_profiles.city) = ?", strings.ToLower(filter.City))
	}
	if filter.Specialization != "" {
		query = query.Where("therapist_profiles.specialization ILIKE ?", "%"+filter.Specialization+"%")
	}
	if filter.Mode != "" {
		query = query.Where("(jsonb_array_length(therapist_profiles.session_modes) = 0 OR jsonb_exists(therapist_profiles.session_modes, ?))", string(filter.Mode))
	}

	err := query.Order("users.full_name ASC").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// Patient Profile Repository

type patientProfileRepository struct{}

func NewPatientProfileRepository() domainRepo.PatientProfileRepository {
	return &patientProfileRepository{}
}

func (r *patientProfileRepository) Create(db *gorm.DB, profile *entity.PatientProfile) error {
	return db.Omit("User", "Bookings").Create(profile).Error
}

func (r *patientProfileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	var profile entity.PatientProfile
	err := db.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// Update writes every profile column so cleared fields are stored as empty.
func (r *patientProfileRepository) Update(db *gorm.DB, profile *entity.PatientProfile) error {
	return db.Model(&entity.PatientProfile{}).
		Where("user_id = ?", profile.UserID).
		Updates(map[string]interface{}{
			"national_id":       profile.NationalID,
			"phone_number":      profile.PhoneNumber,
			"date_of_birth":     profile.DateOfBirth,
			"gender":            profile.Gender,
			"city":              profile.City,
			"emergency_contact": profile.EmergencyContact,
		}).Error
}
