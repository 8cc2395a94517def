package handler

import (
	"net/http"
	"strconv"

	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/usecase"
	"awn-booking/pkg/response"
	"awn-booking/pkg/validator"
)

type ContactHandler struct {
	contactUsecase usecase.ContactUsecase
	validator      *validator.CustomValidator
}

func NewContactHandler(contactUsecase usecase.ContactUsecase, validator *validator.CustomValidator) *ContactHandler {
	return &ContactHandler{
		contactUsecase: contactUsecase,
		validator:      validator,
	}
}

func (h *ContactHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	contact, err := h.contactUsecase.SubmitContact(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to submit contact request")
		return
	}

	response.Success(w, http.StatusCreated, "Contact request received", contact)
}

func (h *ContactHandler) GetContacts(w http.ResponseWriter, r *http.Request) {
	var query dto.ContactQuery
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid limit", nil)
			return
		}
		query.Limit = limit
	}
	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	contacts, err := h.contactUsecase.GetContacts(r.Context(), query)
	if err != nil {
		response.FromError(w, err, "Failed to get contact requests")
		return
	}

	response.Success(w, http.StatusOK, "Contact requests retrieved successfully", contacts)
}
