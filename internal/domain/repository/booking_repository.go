package repository

import (
	"time"

	"awn-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	// Create returns ErrActiveSlotTaken when the slot already has an active booking.
	Create(db *gorm.DB, booking *entity.Booking) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error)
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Booking, error)
	FindByPatientEmail(db *gorm.DB, email string) ([]entity.Booking, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID, status *entity.BookingStatus) ([]entity.Booking, error)
	FindByTherapist(db *gorm.DB, therapistID uuid.UUID, filter entity.BookingFilter) ([]entity.Booking, error)
	ExistsActive(db *gorm.DB, therapistID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error)
	FindActiveTimes(db *gorm.DB, therapistID uuid.UUID, date time.Time) ([]string, error)
	// Transition applies change only while the booking is in one of from.
	// It returns the number of rows updated.
	Transition(db *gorm.DB, id uuid.UUID, from []entity.BookingStatus, change entity.BookingChange) (int64, error)
	SetRescheduledTo(db *gorm.DB, id, newID uuid.UUID) error
}
