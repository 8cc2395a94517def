package handler

import (
	"net/http"

	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/usecase"
	"awn-booking/pkg/response"
	"awn-booking/pkg/validator"
)

type TreatmentPlanHandler struct {
	planUsecase usecase.TreatmentPlanUsecase
	validator   *validator.CustomValidator
}

func NewTreatmentPlanHandler(planUsecase usecase.TreatmentPlanUsecase, validator *validator.CustomValidator) *TreatmentPlanHandler {
	return &TreatmentPlanHandler{
		planUsecase: planUsecase,
		validator:   validator,
	}
}

func (h *TreatmentPlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTreatmentPlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	plan, err := h.planUsecase.CreatePlan(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to create treatment plan")
		return
	}

	response.Success(w, http.StatusCreated, "Treatment plan created successfully", plan)
}

func (h *TreatmentPlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathUUID(w, r, "id", "treatment plan")
	if !ok {
		return
	}

	plan, err := h.planUsecase.GetPlan(r.Context(), planID)
	if err != nil {
		response.FromError(w, err, "Failed to get treatment plan")
		return
	}

	response.Success(w, http.StatusOK, "Treatment plan retrieved successfully", plan)
}

func (h *TreatmentPlanHandler) GetPatientPlans(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathUUID(w, r, "id", "patient")
	if !ok {
		return
	}

	query, ok := h.planQuery(w, r)
	if !ok {
		return
	}

	plans, err := h.planUsecase.GetPatientPlans(r.Context(), patientID, query)
	if err != nil {
		response.FromError(w, err, "Failed to get treatment plans")
		return
	}

	response.Success(w, http.StatusOK, "Treatment plans retrieved successfully", plans)
}

func (h *TreatmentPlanHandler) GetTherapistPlans(w http.ResponseWriter, r *http.Request) {
	therapistID, ok := pathUUID(w, r, "id", "therapist")
	if !ok {
		return
	}

	query, ok := h.planQuery(w, r)
	if !ok {
		return
	}

	plans, err := h.planUsecase.GetTherapistPlans(r.Context(), therapistID, query)
	if err != nil {
		response.FromError(w, err, "Failed to get treatment plans")
		return
	}

	response.Success(w, http.StatusOK, "Treatment plans retrieved successfully", plans)
}

func (h *TreatmentPlanHandler) AcceptPlan(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathUUID(w, r, "id", "treatment plan")
	if !ok {
		return
	}

	plan, err := h.planUsecase.AcceptPlan(r.Context(), planID)
	if err != nil {
		response.FromError(w, err, "Failed to accept treatment plan")
		return
	}

	response.Success(w, http.StatusOK, "Treatment plan accepted", plan)
}

func (h *TreatmentPlanHandler) DeclinePlan(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathUUID(w, r, "id", "treatment plan")
	if !ok {
		return
	}

	var req dto.DeclineTreatmentPlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	plan, err := h.planUsecase.DeclinePlan(r.Context(), planID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to decline treatment plan")
		return
	}

	response.Success(w, http.StatusOK, "Treatment plan declined", plan)
}

func (h *TreatmentPlanHandler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathUUID(w, r, "id", "treatment plan")
	if !ok {
		return
	}

	var req dto.TreatmentPlanProgressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	plan, err := h.planUsecase.RecordProgress(r.Context(), planID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to record progress")
		return
	}

	response.Success(w, http.StatusOK, "Treatment plan progress updated", plan)
}

func (h *TreatmentPlanHandler) CompletePlan(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathUUID(w, r, "id", "treatment plan")
	if !ok {
		return
	}

	var req dto.CompleteTreatmentPlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	plan, err := h.planUsecase.CompletePlan(r.Context(), planID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to complete treatment plan")
		return
	}

	response.Success(w, http.StatusOK, "Treatment plan completed", plan)
}

func (h *TreatmentPlanHandler) planQuery(w http.ResponseWriter, r *http.Request) (dto.TreatmentPlanQuery, bool) {
	query := dto.TreatmentPlanQuery{Status: r.URL.Query().Get("status")}
	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return query, false
	}
	return query, true
}
