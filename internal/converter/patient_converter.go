package converter

import (
	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/domain/entity"
)

func PatientProfileToResponse(profile *entity.PatientProfile) *dto.PatientProfileResponse {
	if profile == nil {
		return nil
	}

	response := &dto.PatientProfileResponse{
		NationalID:       profile.NationalID,
		PhoneNumber:      profile.PhoneNumber,
		Gender:           profile.Gender,
		City:             profile.City,
		EmergencyContact: profile.EmergencyContact,
	}
	if profile.DateOfBirth != nil {
		response.DateOfBirth = profile.DateOfBirth.Format(entity.DateLayout)
	}
	return response
}

// PatientToResponse combines the account and its profile into one view.
func PatientToResponse(user *entity.User, profile *entity.PatientProfile) *dto.PatientResponse {
	return &dto.PatientResponse{
		ID:            user.ID,
		Email:         user.Email,
		FullName:      user.FullName,
		EmailVerified: user.EmailVerified,
		Profile:       PatientProfileToResponse(profile),
		UpdatedAt:     user.UpdatedAt,
	}
}

func ContactToResponse(contact *entity.ContactRequest) dto.ContactResponse {
	return dto.ContactResponse{
		ID:        contact.ID,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Role:      contact.Role,
		City:      contact.City,
		Topic:     contact.Topic,
		Message:   contact.Message,
		Locale:    contact.Locale,
		CreatedAt: contact.CreatedAt,
	}
}

func ContactsToResponses(contacts []entity.ContactRequest) []dto.ContactResponse {
	responses := make([]dto.ContactResponse, len(contacts))
	for i := range contacts {
		responses[i] = ContactToResponse(&contacts[i])
	}
	return responses
}
