package service

import (
	"context"
	"time"

	"awn-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConflictChecker answers whether a therapist slot is held by an active booking.
// A false answer is a snapshot only; the active slot index decides on insert.
type ConflictChecker interface {
	HasConflict(ctx context.Context, therapistID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error)
	// HasConflictTx runs the same check inside an open transaction.
	HasConflictTx(tx *gorm.DB, therapistID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error)
}

type conflictChecker struct {
	tx          repository.Transactor
	bookingRepo repository.BookingRepository
}

func NewConflictChecker(tx repository.Transactor, bookingRepo repository.BookingRepository) ConflictChecker {
	return &conflictChecker{
		tx:          tx,
		bookingRepo: bookingRepo,
	}
}

func (c *conflictChecker) HasConflict(ctx context.Context, therapistID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error) {
	var taken bool
	err := c.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		taken, err = c.bookingRepo.ExistsActive(db, therapistID, date, slot, excludeID)
		return err
	})
	return taken, err
}

func (c *conflictChecker) HasConflictTx(tx *gorm.DB, therapistID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error) {
	return c.bookingRepo.ExistsActive(tx, therapistID, date, slot, excludeID)
}
