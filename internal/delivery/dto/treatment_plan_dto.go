package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateTreatmentPlanRequest struct {
	PatientID       uuid.UUID `json:"patient_id" validate:"required"`
	Title           string    `json:"title" validate:"required,max=255"`
	Description     string    `json:"description" validate:"omitempty,max=2000"`
	Steps           []string  `json:"steps" validate:"required,min=1,dive,required,max=500"`
	Goals           []string  `json:"goals" validate:"omitempty,dive,max=500"`
	DurationWeeks   int       `json:"duration_weeks" validate:"omitempty,min=1,max=104"`
	SessionsPerWeek int       `json:"sessions_per_week" validate:"omitempty,min=1,max=14"`
}

type DeclineTreatmentPlanRequest struct {
	DeclineReason string `json:"decline_reason" validate:"required,max=1000"`
}

type TreatmentPlanProgressRequest struct {
	CompletedSteps *int   `json:"completed_steps" validate:"required,gte=0"`
	CurrentStep    int    `json:"current_step" validate:"gte=0"`
	Notes          string `json:"notes" validate:"omitempty,max=2000"`
}

type CompleteTreatmentPlanRequest struct {
	FinalNotes string `json:"final_notes" validate:"omitempty,max=2000"`
}

type TreatmentPlanQuery struct {
	Status string `validate:"omitempty,oneof=proposed accepted declined completed"`
}

// Response DTOs

type TreatmentPlanResponse struct {
	ID                 uuid.UUID  `json:"id"`
	TherapistID        uuid.UUID  `json:"therapist_id"`
	PatientID          uuid.UUID  `json:"patient_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Steps              []string   `json:"steps"`
	Goals              []string   `json:"goals"`
	DurationWeeks      int        `json:"duration_weeks"`
	SessionsPerWeek    int        `json:"sessions_per_week"`
	Status             string     `json:"status"`
	CompletedSteps     int        `json:"completed_steps"`
	CurrentStep        int        `json:"current_step"`
	ProgressPercentage int        `json:"progress_percentage"`
	RemainingSteps     int        `json:"remaining_steps"`
	ProgressNotes      string     `json:"progress_notes,omitempty"`
	DeclineReason      string     `json:"decline_reason,omitempty"`
	FinalNotes         string     `json:"final_notes,omitempty"`
	AcceptedAt         *time.Time `json:"accepted_at,omitempty"`
	DeclinedAt         *time.Time `json:"declined_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type TreatmentPlanStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Proposed  int `json:"proposed"`
	Completed int `json:"completed"`
}

type TreatmentPlanListResponse struct {
	Plans []TreatmentPlanResponse `json:"plans"`
	Stats TreatmentPlanStats      `json:"stats"`
}
