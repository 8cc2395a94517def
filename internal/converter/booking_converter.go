package converter

import (
	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/domain/entity"
)

// BookingToResponse converts a Booking entity to BookingResponse DTO
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	response := &dto.BookingResponse{
		ID:                 booking.ID,
		TherapistID:        booking.TherapistID,
		PatientID:          booking.PatientID,
		PatientName:        booking.PatientName,
		PatientEmail:       booking.PatientEmail,
		PatientPhone:       booking.PatientPhone,
		PatientNationalID:  booking.PatientNationalID,
		BookingDate:        booking.DateString(),
		BookingTime:        booking.BookingTime,
		SessionType:        string(booking.SessionType),
		SessionDuration:    booking.SessionDuration,
		Notes:              booking.Notes,
		Status:             string(booking.Status),
		ConfirmedAt:        booking.ConfirmedAt,
		ConfirmedBy:        booking.ConfirmedBy,
		CancelledAt:        booking.CancelledAt,
		CancelledBy:        booking.CancelledBy,
		CancellationReason: booking.CancellationReason,
		CompletedAt:        booking.CompletedAt,
		RescheduledFrom:    booking.RescheduledFrom,
		RescheduledTo:      booking.RescheduledTo,
		CreatedAt:          booking.CreatedAt,
		UpdatedAt:          booking.UpdatedAt,
	}

	// Include therapist info if preloaded
	if booking.Therapist != nil {
		response.Therapist = TherapistToSummary(booking.Therapist)
	}

	return response
}

// BookingsToResponses converts a slice of Booking entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = *BookingToResponse(&bookings[i])
	}
	return responses
}
