package handler

import (
	"net/http"

	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/usecase"
	"awn-booking/pkg/response"
	"awn-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

// CreateBooking books a slot. Field validation happens in the usecase so the
// client gets the full list of missing fields in one message.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to create booking")
		return
	}

	response.Success(w, http.StatusCreated, "Booking created successfully", booking)
}

func (h *BookingHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	therapistID := uuid.Nil
	if raw := query.Get("therapist_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid therapist ID", nil)
			return
		}
		therapistID = id
	}

	availability, err := h.bookingUsecase.GetAvailability(r.Context(), therapistID, query.Get("date"))
	if err != nil {
		response.FromError(w, err, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathUUID(w, r, "id", "booking")
	if !ok {
		return
	}

	booking, err := h.bookingUsecase.GetBooking(r.Context(), bookingID)
	if err != nil {
		response.FromError(w, err, "Failed to get booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking retrieved successfully", booking)
}

func (h *BookingHandler) GetPatientBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetPatientBookings(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		response.FromError(w, err, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetMyBookings(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		response.FromError(w, err, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) GetTherapistBookings(w http.ResponseWriter, r *http.Request) {
	therapistID, ok := pathUUID(w, r, "id", "therapist")
	if !ok {
		return
	}

	query := dto.TherapistBookingQuery{
		Status: r.URL.Query().Get("status"),
		Date:   r.URL.Query().Get("date"),
	}
	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	bookings, err := h.bookingUsecase.GetTherapistBookings(r.Context(), therapistID, query)
	if err != nil {
		response.FromError(w, err, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathUUID(w, r, "id", "booking")
	if !ok {
		return
	}

	var req dto.ConfirmBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.bookingUsecase.ConfirmBooking(r.Context(), bookingID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to confirm booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking confirmed successfully", booking)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathUUID(w, r, "id", "booking")
	if !ok {
		return
	}

	var req dto.CancelBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CancelBooking(r.Context(), bookingID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to cancel booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking cancelled successfully", booking)
}

func (h *BookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathUUID(w, r, "id", "booking")
	if !ok {
		return
	}

	booking, err := h.bookingUsecase.CompleteBooking(r.Context(), bookingID)
	if err != nil {
		response.FromError(w, err, "Failed to complete booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking completed successfully", booking)
}

func (h *BookingHandler) RescheduleBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathUUID(w, r, "id", "booking")
	if !ok {
		return
	}

	var req dto.RescheduleBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.bookingUsecase.RescheduleBooking(r.Context(), bookingID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to reschedule booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking rescheduled successfully", result)
}
