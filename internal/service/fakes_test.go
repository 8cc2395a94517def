package service

import (
	"context"
	"time"

	"awn-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeTransactor struct{}

func (fakeTransactor) Read(ctx context.Context, fn func(db *gorm.DB) error) error {
	return fn(nil)
}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// stubBookingRepository serves active times from a fixed map and counts reads.
type stubBookingRepository struct {
	active map[string][]string
	reads  int
	// afterRead runs once the active times have been read
	afterRead func()
}

func dayKey(therapistID uuid.UUID, date time.Time) string {
	return therapistID.String() + "|" + date.Format(entity.DateLayout)
}

func (s *stubBookingRepository) Create(db *gorm.DB, booking *entity.Booking) error { return nil }
func (s *stubBookingRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	return nil, nil
}
func (s *stubBookingRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	return nil, nil
}
func (s *stubBookingRepository) FindByPatientEmail(db *gorm.DB, email string) ([]entity.Booking, error) {
	return nil, nil
}
func (s *stubBookingRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID, status *entity.BookingStatus) ([]entity.Booking, error) {
	return nil, nil
}
func (s *stubBookingRepository) FindByTherapist(db *gorm.DB, therapistID uuid.UUID, filter entity.BookingFilter) ([]entity.Booking, error) {
	return nil, nil
}

func (s *stubBookingRepository) ExistsActive(db *gorm.DB, therapistID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error) {
	for _, t := range s.active[dayKey(therapistID, date)] {
		if t == slot {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubBookingRepository) FindActiveTimes(db *gorm.DB, therapistID uuid.UUID, date time.Time) ([]string, error) {
	s.reads++
	times := append([]string(nil), s.active[dayKey(therapistID, date)]...)
	if s.afterRead != nil {
		hook := s.afterRead
		s.afterRead = nil
		hook()
	}
	return times, nil
}

func (s *stubBookingRepository) Transition(db *gorm.DB, id uuid.UUID, from []entity.BookingStatus, change entity.BookingChange) (int64, error) {
	return 0, nil
}
func (s *stubBookingRepository) SetRescheduledTo(db *gorm.DB, id, newID uuid.UUID) error { return nil }
