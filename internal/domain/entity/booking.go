package entity

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format of booking dates.
const DateLayout = "2006-01-02"

// DefaultSessionDuration is used when a booking request omits the duration.
const DefaultSessionDuration = 60

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

var bookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCancelled,
	BookingStatusCompleted,
}

var bookingTransitions = transitions[BookingStatus]{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

// IsValid reports whether s is a known booking status.
func (s BookingStatus) IsValid() bool {
	for _, known := range bookingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsActive reports whether a booking in this status occupies its slot.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return bookingTransitions.allows(s, next)
}

// ActiveBookingStatuses are the statuses that hold a slot.
func ActiveBookingStatuses() []BookingStatus {
	return []BookingStatus{BookingStatusPending, BookingStatusConfirmed}
}

// BookingStatusesInto lists the statuses from which target is reachable.
func BookingStatusesInto(target BookingStatus) []BookingStatus {
	return bookingTransitions.sources(target, bookingStatuses)
}

// SessionType is how a session is delivered.
type SessionType string

const (
	SessionTypeOnline SessionType = "online"
	SessionTypeHome   SessionType = "home"
	SessionTypeClinic SessionType = "clinic"
)

func (t SessionType) IsValid() bool {
	switch t {
	case SessionTypeOnline, SessionTypeHome, SessionTypeClinic:
		return true
	}
	return false
}

// Booking is a patient's reservation of one therapist slot.
type Booking struct {
	ID                 uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TherapistID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"therapist_id"`
	PatientID          *uuid.UUID    `gorm:"type:uuid;index" json:"patient_id,omitempty"`
	PatientName        string        `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientEmail       string        `gorm:"type:varchar(255);not null;index" json:"patient_email"`
	PatientPhone       string        `gorm:"type:varchar(20);not null" json:"patient_phone"`
	PatientNationalID  string        `gorm:"type:varchar(20)" json:"patient_national_id,omitempty"`
	BookingDate        time.Time     `gorm:"type:date;not null" json:"booking_date"`
	BookingTime        string        `gorm:"type:varchar(5);not null" json:"booking_time"`
	SessionType        SessionType   `gorm:"type:varchar(10);not null" json:"session_type"`
	SessionDuration    int           `gorm:"not null;default:60" json:"session_duration"`
	Notes              string        `gorm:"type:text" json:"notes,omitempty"`
	Status             BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ConfirmedAt        *time.Time    `json:"confirmed_at,omitempty"`
	ConfirmedBy        *uuid.UUID    `gorm:"type:uuid" json:"confirmed_by,omitempty"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`
	CancelledBy        string        `gorm:"type:varchar(20)" json:"cancelled_by,omitempty"`
	CancellationReason string        `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CompletedAt        *time.Time    `json:"completed_at,omitempty"`
	RescheduledFrom    *uuid.UUID    `gorm:"type:uuid" json:"rescheduled_from,omitempty"`
	RescheduledTo      *uuid.UUID    `gorm:"type:uuid" json:"rescheduled_to,omitempty"`
	CreatedAt          time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Therapist *TherapistProfile `gorm:"foreignKey:TherapistID" json:"therapist,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// DateString returns the booking date in wire format.
func (b *Booking) DateString() string {
	return b.BookingDate.Format(DateLayout)
}

// IsPending checks if booking is in pending status
func (b *Booking) IsPending() bool {
	return b.Status == BookingStatusPending
}

// IsCancelled checks if booking is cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// BookingChange is a status transition together with the audit columns it sets.
type BookingChange struct {
	Status             BookingStatus
	ConfirmedAt        *time.Time
	ConfirmedBy        *uuid.UUID
	CancelledAt        *time.Time
	CancelledBy        string
	CancellationReason string
	CompletedAt        *time.Time
}

// Columns returns the changed columns keyed by column name.
func (c BookingChange) Columns() map[string]interface{} {
	cols := map[string]interface{}{"status": c.Status}
	if c.ConfirmedAt != nil {
		cols["confirmed_at"] = *c.ConfirmedAt
	}
	if c.ConfirmedBy != nil {
		cols["confirmed_by"] = *c.ConfirmedBy
	}
	if c.CancelledAt != nil {
		cols["cancelled_at"] = *c.CancelledAt
		cols["cancelled_by"] = c.CancelledBy
		cols["cancellation_reason"] = c.CancellationReason
	}
	if c.CompletedAt != nil {
		cols["completed_at"] = *c.CompletedAt
	}
	return cols
}

// Apply copies the change onto b.
func (c BookingChange) Apply(b *Booking) {
	b.Status = c.Status
	if c.ConfirmedAt != nil {
		b.ConfirmedAt = c.ConfirmedAt
	}
	if c.ConfirmedBy != nil {
		b.ConfirmedBy = c.ConfirmedBy
	}
	if c.CancelledAt != nil {
		b.CancelledAt = c.CancelledAt
		b.CancelledBy = c.CancelledBy
		b.CancellationReason = c.CancellationReason
	}
	if c.CompletedAt != nil {
		b.CompletedAt = c.CompletedAt
	}
}

// BookingFilter narrows a therapist's booking listing.
type BookingFilter struct {
	Status *BookingStatus
	Date   *time.Time
}
