package converter

import (
	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/domain/entity"
)

func RatingToResponse(rating *entity.Rating) *dto.RatingResponse {
	if rating == nil {
		return nil
	}
	return &dto.RatingResponse{
		ID:          rating.ID,
		BookingID:   rating.BookingID,
		TherapistID: rating.TherapistID,
		Score:       rating.Score,
		Comment:     rating.Comment,
		CreatedAt:   rating.CreatedAt,
	}
}

func RatingsToResponses(ratings []entity.Rating) []dto.RatingResponse {
	responses := make([]dto.RatingResponse, len(ratings))
	for i := range ratings {
		responses[i] = *RatingToResponse(&ratings[i])
	}
	return responses
}

func FavoritesToResponses(favorites []entity.Favorite) []dto.FavoriteResponse {
	responses := make([]dto.FavoriteResponse, len(favorites))
	for i, f := range favorites {
		responses[i] = dto.FavoriteResponse{
			TherapistID: f.TherapistID,
			Therapist:   TherapistToSummary(f.Therapist),
			CreatedAt:   f.CreatedAt,
		}
	}
	return responses
}
