package dto

import "awn-booking/internal/domain/entity"

// SaveMedicalHistoryRequest carries the full intake document; validation tags live on the document types.
type SaveMedicalHistoryRequest struct {
	entity.MedicalHistoryDocument
}

type MedicalWarningsResponse struct {
	Warnings []entity.MedicalWarning `json:"warnings"`
}
