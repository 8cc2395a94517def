package entity

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// PlanStatus represents the status of a treatment plan
type PlanStatus string

const (
	PlanStatusProposed  PlanStatus = "proposed"
	PlanStatusAccepted  PlanStatus = "accepted"
	PlanStatusDeclined  PlanStatus = "declined"
	PlanStatusCompleted PlanStatus = "completed"
)

var planStatuses = []PlanStatus{
	PlanStatusProposed,
	PlanStatusAccepted,
	PlanStatusDeclined,
	PlanStatusCompleted,
}

var planTransitions = transitions[PlanStatus]{
	PlanStatusProposed: {PlanStatusAccepted, PlanStatusDeclined},
	PlanStatusAccepted: {PlanStatusCompleted},
}

func (s PlanStatus) IsValid() bool {
	for _, known := range planStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s PlanStatus) CanTransitionTo(next PlanStatus) bool {
	return planTransitions.allows(s, next)
}

// Defaults applied to plans that omit scheduling hints.
const (
	DefaultPlanDurationWeeks   = 4
	DefaultPlanSessionsPerWeek = 2
)

var (
	ErrProgressOutOfRange    = errors.New("completed steps must be between 0 and the number of steps")
	ErrCurrentStepOutOfRange = errors.New("current step must be between 0 and the number of steps")
)

// TreatmentPlan is a therapist's proposed sequence of steps for a patient.
type TreatmentPlan struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TherapistID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"therapist_id"`
	PatientID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	Title           string     `gorm:"type:varchar(255);not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description,omitempty"`
	Steps           StringList `gorm:"type:jsonb;not null" json:"steps"`
	Goals           StringList `gorm:"type:jsonb" json:"goals"`
	DurationWeeks   int        `gorm:"not null;default:4" json:"duration_weeks"`
	SessionsPerWeek int        `gorm:"not null;default:2" json:"sessions_per_week"`
	Status          PlanStatus `gorm:"type:varchar(20);not null;default:'proposed';index" json:"status"`
	CompletedSteps  int        `gorm:"not null;default:0" json:"completed_steps"`
	CurrentStep     int        `gorm:"not null;default:0" json:"current_step"`
	ProgressNotes   string     `gorm:"type:text" json:"progress_notes,omitempty"`
	DeclineReason   string     `gorm:"type:text" json:"decline_reason,omitempty"`
	FinalNotes      string     `gorm:"type:text" json:"final_notes,omitempty"`
	AcceptedAt      *time.Time `json:"accepted_at,omitempty"`
	DeclinedAt      *time.Time `json:"declined_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TreatmentPlan) TableName() string {
	return "treatment_plans"
}

// ProgressPercentage is the share of completed steps rounded to a whole percent.
func (p *TreatmentPlan) ProgressPercentage() int {
	if len(p.Steps) == 0 {
		return 0
	}
	return int(math.Round(float64(p.CompletedSteps) / float64(len(p.Steps)) * 100))
}

func (p *TreatmentPlan) RemainingSteps() int {
	return len(p.Steps) - p.CompletedSteps
}

// RecordProgress sets the step counters. Reaching the last step completes the plan.
func (p *TreatmentPlan) RecordProgress(completed, current int, notes string, now time.Time) error {
	if completed < 0 || completed > len(p.Steps) {
		return ErrProgressOutOfRange
	}
	if current < 0 || current > len(p.Steps) {
		return ErrCurrentStepOutOfRange
	}
	p.CompletedSteps = completed
	p.CurrentStep = current
	if notes != "" {
		p.ProgressNotes = notes
	}
	if completed == len(p.Steps) {
		p.Status = PlanStatusCompleted
		p.CompletedAt = &now
	}
	return nil
}

// Complete marks every step done.
func (p *TreatmentPlan) Complete(finalNotes string, now time.Time) {
	p.Status = PlanStatusCompleted
	p.CompletedSteps = len(p.Steps)
	p.CompletedAt = &now
	if finalNotes != "" {
		p.FinalNotes = finalNotes
	}
}
