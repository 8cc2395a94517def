package handler

import (
	"net/http"

	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/usecase"
	"awn-booking/pkg/response"
	"awn-booking/pkg/validator"
)

type TherapistHandler struct {
	therapistUsecase usecase.TherapistUsecase
	validator        *validator.CustomValidator
}

func NewTherapistHandler(therapistUsecase usecase.TherapistUsecase, validator *validator.CustomValidator) *TherapistHandler {
	return &TherapistHandler{
		therapistUsecase: therapistUsecase,
		validator:        validator,
	}
}

func (h *TherapistHandler) GetTherapists(w http.ResponseWriter, r *http.Request) {
	query := dto.TherapistListQuery{
		City:           r.URL.Query().Get("city"),
		Specialization: r.URL.Query().Get("specialization"),
		Mode:           r.URL.Query().Get("mode"),
	}
	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	therapists, err := h.therapistUsecase.GetTherapists(r.Context(), query)
	if err != nil {
		response.FromError(w, err, "Failed to get therapists")
		return
	}

	response.Success(w, http.StatusOK, "Therapists retrieved successfully", therapists)
}

func (h *TherapistHandler) GetTherapist(w http.ResponseWriter, r *http.Request) {
	therapistID, ok := pathUUID(w, r, "id", "therapist")
	if !ok {
		return
	}

	therapist, err := h.therapistUsecase.GetTherapist(r.Context(), therapistID)
	if err != nil {
		response.FromError(w, err, "Failed to get therapist")
		return
	}

	response.Success(w, http.StatusOK, "Therapist retrieved successfully", therapist)
}
