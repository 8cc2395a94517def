package repository

import (
	"errors"
	"time"

	"awn-booking/internal/domain/entity"
	domainRepo "awn-booking/internal/domain/repository"
	"awn-booking/internal/infrastructure/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const activeSlotConstraint = "uq_bookings_active_slot"

type bookingRepository struct{}

func NewBookingRepository() domainRepo.BookingRepository {
	return &bookingRepository{}
}

func (r *bookingRepository) Create(db *gorm.DB, booking *entity.Booking) error {
	err := db.Omit("Therapist").Create(booking).Error
	if database.IsDuplicateKeyError(err, activeSlotConstraint) {
		return domainRepo.ErrActiveSlotTaken
	}
	return err
}

func (r *bookingRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := db.Preload("Therapist.User").Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *bookingRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByPatientEmail(db *gorm.DB, email string) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.Preload("Therapist.User").
		Where("LOWER(patient_email) = LOWER(?)", email).
		Order("booking_date DESC, booking_time DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID, status *entity.BookingStatus) ([]entity.Booking, error) {
	var bookings []entity.Booking
	query := db.Preload("Therapist.User").Where("patient_id = ?", patientID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("booking_date DESC, booking_time DESC").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByTherapist(db *gorm.DB, therapistID uuid.UUID, filter entity.BookingFilter) ([]entity.Booking, error) {
	var bookings []entity.Booking
	query := db.Where("therapist_id = ?", therapistID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Date != nil {
		query = query.Where("booking_date = ?", filter.Date.Format(entity.DateLayout))
	}
	err := query.Order("booking_date ASC, booking_time ASC").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) ExistsActive(db *gorm.DB, therapistID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := db.Model(&entity.Booking{}).
		Where("therapist_id = ? AND booking_date = ? AND booking_time = ? AND status IN ?",
			therapistID, date.Format(entity.DateLayout), slot, entity.ActiveBookingStatuses())
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bookingRepository) FindActiveTimes(db *gorm.DB, therapistID uuid.UUID, date time.Time) ([]string, error) {
	var times []string
	err := db.Model(&entity.Booking{}).
		Where("therapist_id = ? AND booking_date = ? AND status IN ?",
			therapistID, date.Format(entity.DateLayout), entity.ActiveBookingStatuses()).
		Order("booking_time ASC").
		Pluck("booking_time", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

// Transition updates the booking only if its current status is one of from.
// Returns affected rows: 1 = applied, 0 = status changed concurrently or unknown id.
func (r *bookingRepository) Transition(db *gorm.DB, id uuid.UUID, from []entity.BookingStatus, change entity.BookingChange) (int64, error) {
	result := db.Model(&entity.Booking{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(change.Columns())
	return result.RowsAffected, result.Error
}

func (r *bookingRepository) SetRescheduledTo(db *gorm.DB, id, newID uuid.UUID) error {
	return db.Model(&entity.Booking{}).Where("id = ?", id).Update("rescheduled_to", newID).Error
}
