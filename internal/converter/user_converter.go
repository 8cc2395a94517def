package converter

import (
	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
// Includes TherapistProfile and PatientProfile if they are loaded
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	role := user.Role.RoleName
	if role == "" {
		role = entity.RoleName(user.RoleID)
	}

	response := &dto.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		FullName:      user.FullName,
		Role:          role,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}

	if user.TherapistProfile != nil {
		profile := *user.TherapistProfile
		profile.User = *user
		response.TherapistProfile = TherapistToResponse(&profile)
	}

	response.PatientProfile = PatientProfileToResponse(user.PatientProfile)

	return response
}
