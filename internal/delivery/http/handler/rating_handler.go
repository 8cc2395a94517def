package handler

import (
	"net/http"

	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/usecase"
	"awn-booking/pkg/response"
)

type RatingHandler struct {
	ratingUsecase usecase.RatingUsecase
}

func NewRatingHandler(ratingUsecase usecase.RatingUsecase) *RatingHandler {
	return &RatingHandler{
		ratingUsecase: ratingUsecase,
	}
}

// CreateRating leaves score range checks to the usecase so out-of-range
// scores report the same message as other rating rules.
func (h *RatingHandler) CreateRating(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRatingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rating, err := h.ratingUsecase.CreateRating(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to create rating")
		return
	}

	response.Success(w, http.StatusCreated, "Rating submitted successfully", rating)
}

func (h *RatingHandler) GetTherapistRatings(w http.ResponseWriter, r *http.Request) {
	therapistID, ok := pathUUID(w, r, "id", "therapist")
	if !ok {
		return
	}

	ratings, err := h.ratingUsecase.GetTherapistRatings(r.Context(), therapistID)
	if err != nil {
		response.FromError(w, err, "Failed to get ratings")
		return
	}

	response.Success(w, http.StatusOK, "Ratings retrieved successfully", ratings)
}
