package service

import (
	"context"
	"testing"
	"time"

	"awn-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityCalculator_PartitionsCatalog(t *testing.T) {
	catalog, err := entity.NewSlotCatalog(nil)
	require.NoError(t, err)

	therapistID := uuid.New()
	date := time.Date(2030, 3, 10, 0, 0, 0, 0, time.UTC)
	repo := &stubBookingRepository{active: map[string][]string{
		dayKey(therapistID, date): {"14:00", "09:00", "13:30"},
	}}

	calc := NewAvailabilityCalculator(fakeTransactor{}, repo, catalog, nil)
	got, err := calc.AvailableSlots(context.Background(), therapistID, date)

	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "14:00"}, got.BookedTimes)
	assert.Equal(t, []string{"10:00", "11:00", "12:00", "16:00"}, got.AvailableTimes)
	assert.ElementsMatch(t, catalog.Times(), append(got.AvailableTimes, got.BookedTimes...))
}

func TestAvailabilityCalculator_ServesFromCacheUntilInvalidated(t *testing.T) {
	catalog, err := entity.NewSlotCatalog(nil)
	require.NoError(t, err)
	cache, _ := newTestCache(t)

	therapistID := uuid.New()
	date := time.Now().AddDate(0, 0, 2).UTC().Truncate(24 * time.Hour)
	repo := &stubBookingRepository{active: map[string][]string{
		dayKey(therapistID, date): {"10:00"},
	}}
	calc := NewAvailabilityCalculator(fakeTransactor{}, repo, catalog, cache)
	ctx := context.Background()

	_, err = calc.AvailableSlots(ctx, therapistID, date)
	require.NoError(t, err)
	got, err := calc.AvailableSlots(ctx, therapistID, date)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.reads)
	assert.Equal(t, []string{"10:00"}, got.BookedTimes)

	repo.active[dayKey(therapistID, date)] = []string{"10:00", "11:00"}
	calc.Invalidate(ctx, therapistID, date)

	got, err = calc.AvailableSlots(ctx, therapistID, date)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.reads)
	assert.Equal(t, []string{"10:00", "11:00"}, got.BookedTimes)
}

func TestAvailabilityCalculator_BookingDuringReadIsNotHidden(t *testing.T) {
	catalog, err := entity.NewSlotCatalog(nil)
	require.NoError(t, err)
	cache, mr := newTestCache(t)

	therapistID := uuid.New()
	date := time.Now().AddDate(0, 2, 0).UTC().Truncate(24 * time.Hour)
	day := dayKey(therapistID, date)
	repo := &stubBookingRepository{active: map[string][]string{}}
	calc := NewAvailabilityCalculator(fakeTransactor{}, repo, catalog, cache)
	ctx := context.Background()

	repo.afterRead = func() {
		repo.active[day] = []string{"09:00"}
		calc.Invalidate(ctx, therapistID, date)
	}

	first, err := calc.AvailableSlots(ctx, therapistID, date)
	require.NoError(t, err)
	assert.Empty(t, first.BookedTimes)
	assert.False(t, mr.Exists(availabilityKey(therapistID, date)))

	second, err := calc.AvailableSlots(ctx, therapistID, date)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.reads)
	assert.Equal(t, []string{"09:00"}, second.BookedTimes)
	assert.NotContains(t, second.AvailableTimes, "09:00")
	assert.LessOrEqual(t, mr.TTL(availabilityKey(therapistID, date)), maxAvailabilityTTL)
}

func TestConflictChecker_HasConflict(t *testing.T) {
	therapistID := uuid.New()
	date := time.Date(2030, 3, 10, 0, 0, 0, 0, time.UTC)
	repo := &stubBookingRepository{active: map[string][]string{
		dayKey(therapistID, date): {"10:00"},
	}}
	checker := NewConflictChecker(fakeTransactor{}, repo)

	taken, err := checker.HasConflict(context.Background(), therapistID, date, "10:00", nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = checker.HasConflict(context.Background(), therapistID, date, "11:00", nil)
	require.NoError(t, err)
	assert.False(t, taken)
}
