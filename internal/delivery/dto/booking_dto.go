package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateBookingRequest struct {
	TherapistID       uuid.UUID `json:"therapist_id" validate:"required"`
	PatientName       string    `json:"patient_name" validate:"required,max=255"`
	PatientEmail      string    `json:"patient_email" validate:"required,email"`
	PatientPhone      string    `json:"patient_phone" validate:"required,max=20"`
	PatientNationalID string    `json:"patient_national_id" validate:"omitempty,max=20"`
	BookingDate       string    `json:"booking_date" validate:"required,date_ymd"`
	BookingTime       string    `json:"booking_time" validate:"required,slot_time"`
	SessionType       string    `json:"session_type" validate:"required,oneof=online home clinic"`
	SessionDuration   int       `json:"session_duration" validate:"omitempty,min=15,max=240"`
	Notes             string    `json:"notes" validate:"omitempty,max=1000"`
}

type ConfirmBookingRequest struct {
	TherapistID *uuid.UUID `json:"therapist_id"`
}

type CancelBookingRequest struct {
	CancellationReason string `json:"cancellation_reason" validate:"omitempty,max=500"`
	CancelledBy        string `json:"cancelled_by" validate:"omitempty,oneof=patient therapist admin system"`
}

type RescheduleBookingRequest struct {
	NewBookingDate   string     `json:"new_booking_date" validate:"required,date_ymd"`
	NewBookingTime   string     `json:"new_booking_time" validate:"required,slot_time"`
	RescheduleReason string     `json:"reschedule_reason" validate:"omitempty,max=500"`
	TherapistID      *uuid.UUID `json:"therapist_id"`
}

type AvailabilityQuery struct {
	TherapistID uuid.UUID `validate:"required"`
	Date        string    `validate:"required,date_ymd"`
}

type TherapistBookingQuery struct {
	Status string `validate:"omitempty,oneof=pending confirmed cancelled completed"`
	Date   string `validate:"omitempty,date_ymd"`
}

// Response DTOs

type BookingResponse struct {
	ID                 uuid.UUID                `json:"id"`
	TherapistID        uuid.UUID                `json:"therapist_id"`
	PatientID          *uuid.UUID               `json:"patient_id,omitempty"`
	PatientName        string                   `json:"patient_name"`
	PatientEmail       string                   `json:"patient_email"`
	PatientPhone       string                   `json:"patient_phone"`
	PatientNationalID  string                   `json:"patient_national_id,omitempty"`
	BookingDate        string                   `json:"booking_date"`
	BookingTime        string                   `json:"booking_time"`
	SessionType        string                   `json:"session_type"`
	SessionDuration    int                      `json:"session_duration"`
	Notes              string                   `json:"notes,omitempty"`
	Status             string                   `json:"status"`
	ConfirmedAt        *time.Time               `json:"confirmed_at,omitempty"`
	ConfirmedBy        *uuid.UUID               `json:"confirmed_by,omitempty"`
	CancelledAt        *time.Time               `json:"cancelled_at,omitempty"`
	CancelledBy        string                   `json:"cancelled_by,omitempty"`
	CancellationReason string                   `json:"cancellation_reason,omitempty"`
	CompletedAt        *time.Time               `json:"completed_at,omitempty"`
	RescheduledFrom    *uuid.UUID               `json:"rescheduled_from,omitempty"`
	RescheduledTo      *uuid.UUID               `json:"rescheduled_to,omitempty"`
	Therapist          *TherapistSummaryResponse `json:"therapist,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

type AvailabilityResponse struct {
	AvailableTimes []string  `json:"availableTimes"`
	BookedTimes    []string  `json:"bookedTimes"`
	TherapistID    uuid.UUID `json:"therapist_id"`
	Date           string    `json:"date"`
}

type RescheduleDetails struct {
	From   SlotResponse `json:"from"`
	To     SlotResponse `json:"to"`
	Reason string       `json:"reason,omitempty"`
}

type SlotResponse struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type RescheduleResponse struct {
	OriginalBooking BookingResponse   `json:"original_booking"`
	NewBooking      BookingResponse   `json:"new_booking"`
	Details         RescheduleDetails `json:"reschedule_details"`
}
