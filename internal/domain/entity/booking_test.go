package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		want     bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusConfirmed, BookingStatusCompleted, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusCancelled, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatusesInto(t *testing.T) {
	assert.Equal(t, []BookingStatus{BookingStatusPending, BookingStatusConfirmed}, BookingStatusesInto(BookingStatusCancelled))
	assert.Equal(t, []BookingStatus{BookingStatusConfirmed}, BookingStatusesInto(BookingStatusCompleted))
	assert.Empty(t, BookingStatusesInto(BookingStatusPending))
}

func TestBookingStatus_Active(t *testing.T) {
	for _, s := range ActiveBookingStatuses() {
		assert.True(t, s.IsActive(), s)
	}
	assert.False(t, BookingStatusCancelled.IsActive())
	assert.False(t, BookingStatusCompleted.IsActive())
	assert.False(t, BookingStatus("archived").IsValid())
}

func TestBookingChange_CancelColumns(t *testing.T) {
	now := time.Date(2030, 1, 15, 9, 0, 0, 0, time.UTC)
	change := BookingChange{
		Status:             BookingStatusCancelled,
		CancelledAt:        &now,
		CancelledBy:        "therapist",
		CancellationReason: "sick",
	}

	cols := change.Columns()
	assert.Equal(t, BookingStatusCancelled, cols["status"])
	assert.Equal(t, "sick", cols["cancellation_reason"])
	assert.NotContains(t, cols, "confirmed_at")

	confirmedBy := uuid.New()
	b := &Booking{Status: BookingStatusConfirmed, ConfirmedBy: &confirmedBy}
	change.Apply(b)
	assert.True(t, b.IsCancelled())
	assert.Equal(t, "therapist", b.CancelledBy)
	require.NotNil(t, b.ConfirmedBy)
	assert.Equal(t, confirmedBy, *b.ConfirmedBy)
}

func TestSlotCatalog(t *testing.T) {
	c, err := NewSlotCatalog(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSlotTimes, c.Times())
	assert.True(t, c.Contains("09:00"))
	assert.False(t, c.Contains("9:00"))

	available, booked := c.Subtract([]string{"14:00", "09:00", "23:00"})
	assert.Equal(t, []string{"10:00", "11:00", "12:00", "16:00"}, available)
	assert.Equal(t, []string{"09:00", "14:00"}, booked)

	_, err = NewSlotCatalog([]string{"09:00", "09:00"})
	assert.Error(t, err)
	_, err = NewSlotCatalog([]string{"9:00"})
	assert.Error(t, err)
	_, err = NewSlotCatalog([]string{"25:00"})
	assert.Error(t, err)
}

func TestSlotCatalog_TimesIsACopy(t *testing.T) {
	c, err := NewSlotCatalog([]string{"08:00", "08:30"})
	require.NoError(t, err)

	times := c.Times()
	times[0] = "23:59"

	assert.Equal(t, []string{"08:00", "08:30"}, c.Times())
}
