package handler

import (
	"net/http"

	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/usecase"
	"awn-booking/pkg/response"
	"awn-booking/pkg/validator"
)

type MedicalHistoryHandler struct {
	historyUsecase usecase.MedicalHistoryUsecase
	validator      *validator.CustomValidator
}

func NewMedicalHistoryHandler(historyUsecase usecase.MedicalHistoryUsecase, validator *validator.CustomValidator) *MedicalHistoryHandler {
	return &MedicalHistoryHandler{
		historyUsecase: historyUsecase,
		validator:      validator,
	}
}

func (h *MedicalHistoryHandler) GetMedicalHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.historyUsecase.GetMedicalHistory(r.Context())
	if err != nil {
		response.FromError(w, err, "Failed to get medical history")
		return
	}

	response.Success(w, http.StatusOK, "Medical history retrieved successfully", history)
}

func (h *MedicalHistoryHandler) SaveMedicalHistory(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveMedicalHistoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	history, err := h.historyUsecase.SaveMedicalHistory(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to save medical history")
		return
	}

	response.Success(w, http.StatusOK, "Medical history saved successfully", history)
}

func (h *MedicalHistoryHandler) DeleteMedicalHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.historyUsecase.DeleteMedicalHistory(r.Context()); err != nil {
		response.FromError(w, err, "Failed to delete medical history")
		return
	}

	response.Success(w, http.StatusOK, "Medical history deleted successfully", nil)
}

func (h *MedicalHistoryHandler) GetWarnings(w http.ResponseWriter, r *http.Request) {
	warnings, err := h.historyUsecase.GetWarnings(r.Context())
	if err != nil {
		response.FromError(w, err, "Failed to get medical warnings")
		return
	}

	response.Success(w, http.StatusOK, "Medical warnings retrieved successfully", warnings)
}
