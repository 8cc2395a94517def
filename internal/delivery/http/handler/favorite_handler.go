package handler

import (
	"net/http"

	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/usecase"
	"awn-booking/pkg/response"
	"awn-booking/pkg/validator"
)

type FavoriteHandler struct {
	favoriteUsecase usecase.FavoriteUsecase
	validator       *validator.CustomValidator
}

func NewFavoriteHandler(favoriteUsecase usecase.FavoriteUsecase, validator *validator.CustomValidator) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteUsecase: favoriteUsecase,
		validator:       validator,
	}
}

func (h *FavoriteHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req dto.ToggleFavoriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	favorites, err := h.favoriteUsecase.ToggleFavorite(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to update favorites")
		return
	}

	response.Success(w, http.StatusOK, "Favorites updated successfully", favorites)
}

func (h *FavoriteHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.favoriteUsecase.GetFavorites(r.Context())
	if err != nil {
		response.FromError(w, err, "Failed to get favorites")
		return
	}

	response.Success(w, http.StatusOK, "Favorites retrieved successfully", favorites)
}
