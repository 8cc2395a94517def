package service

import (
	"context"
	"time"

	"awn-booking/internal/domain/entity"
	"awn-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Availability is the catalog of one therapist day split by occupancy.
type Availability struct {
	TherapistID    uuid.UUID
	Date           time.Time
	AvailableTimes []string
	BookedTimes    []string
}

type AvailabilityCalculator interface {
	AvailableSlots(ctx context.Context, therapistID uuid.UUID, date time.Time) (*Availability, error)
	// Invalidate drops cached occupancy after a write touching these days.
	Invalidate(ctx context.Context, therapistID uuid.UUID, dates ...time.Time)
}

type availabilityCalculator struct {
	tx          repository.Transactor
	bookingRepo repository.BookingRepository
	catalog     *entity.SlotCatalog
	cache       *AvailabilityCache
}

func NewAvailabilityCalculator(tx repository.Transactor, bookingRepo repository.BookingRepository, catalog *entity.SlotCatalog, cache *AvailabilityCache) AvailabilityCalculator {
	return &availabilityCalculator{
		tx:          tx,
		bookingRepo: bookingRepo,
		catalog:     catalog,
		cache:       cache,
	}
}

func (a *availabilityCalculator) AvailableSlots(ctx context.Context, therapistID uuid.UUID, date time.Time) (*Availability, error) {
	occupied, generation, hit := a.cache.Get(ctx, therapistID, date)
	if !hit {
		err := a.tx.Read(ctx, func(db *gorm.DB) error {
			var err error
			occupied, err = a.bookingRepo.FindActiveTimes(db, therapistID, date)
			return err
		})
		if err != nil {
			return nil, err
		}
		a.cache.Set(ctx, therapistID, date, generation, occupied)
	}

	available, booked := a.catalog.Subtract(occupied)
	return &Availability{
		TherapistID:    therapistID,
		Date:           date,
		AvailableTimes: available,
		BookedTimes:    booked,
	}, nil
}

func (a *availabilityCalculator) Invalidate(ctx context.Context, therapistID uuid.UUID, dates ...time.Time) {
	a.cache.Invalidate(ctx, therapistID, dates...)
}
