package converter

import (
	"math"

	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/domain/entity"
)

func TherapistToResponse(profile *entity.TherapistProfile) *dto.TherapistProfileResponse {
	if profile == nil {
		return nil
	}

	modes := []string(profile.SessionModes)
	if modes == nil {
		modes = []string{}
	}

	return &dto.TherapistProfileResponse{
		UserID:          profile.UserID,
		FullName:        profile.User.FullName,
		Email:           profile.User.Email,
		Slug:            profile.Slug,
		LicenseNumber:   profile.LicenseNumber,
		Specialization:  profile.Specialization,
		City:            profile.City,
		Biography:       profile.Biography,
		YearsExperience: profile.YearsExperience,
		BasePrice:       profile.BasePrice,
		SessionModes:    modes,
		IsVerified:      profile.IsVerified,
	}
}

func TherapistsToResponses(profiles []entity.TherapistProfile) []dto.TherapistProfileResponse {
	responses := make([]dto.TherapistProfileResponse, len(profiles))
	for i := range profiles {
		responses[i] = *TherapistToResponse(&profiles[i])
	}
	return responses
}

func TherapistToSummary(profile *entity.TherapistProfile) *dto.TherapistSummaryResponse {
	if profile == nil {
		return nil
	}
	return &dto.TherapistSummaryResponse{
		UserID:         profile.UserID,
		FullName:       profile.User.FullName,
		Specialization: profile.Specialization,
		City:           profile.City,
	}
}

// RatingSummaryToResponse rounds the average to one decimal
func RatingSummaryToResponse(summary entity.RatingSummary) dto.RatingSummary {
	return dto.RatingSummary{
		Average: math.Round(summary.Average*10) / 10,
		Count:   summary.Count,
	}
}
