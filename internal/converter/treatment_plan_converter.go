package converter

import (
	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/domain/entity"
)

func TreatmentPlanToResponse(plan *entity.TreatmentPlan) *dto.TreatmentPlanResponse {
	if plan == nil {
		return nil
	}

	goals := []string(plan.Goals)
	if goals == nil {
		goals = []string{}
	}

	return &dto.TreatmentPlanResponse{
		ID:                 plan.ID,
		TherapistID:        plan.TherapistID,
		PatientID:          plan.PatientID,
		Title:              plan.Title,
		Description:        plan.Description,
		Steps:              []string(plan.Steps),
		Goals:              goals,
		DurationWeeks:      plan.DurationWeeks,
		SessionsPerWeek:    plan.SessionsPerWeek,
		Status:             string(plan.Status),
		CompletedSteps:     plan.CompletedSteps,
		CurrentStep:        plan.CurrentStep,
		ProgressPercentage: plan.ProgressPercentage(),
		RemainingSteps:     plan.RemainingSteps(),
		ProgressNotes:      plan.ProgressNotes,
		DeclineReason:      plan.DeclineReason,
		FinalNotes:         plan.FinalNotes,
		AcceptedAt:         plan.AcceptedAt,
		DeclinedAt:         plan.DeclinedAt,
		CompletedAt:        plan.CompletedAt,
		CreatedAt:          plan.CreatedAt,
		UpdatedAt:          plan.UpdatedAt,
	}
}

// TreatmentPlansToListResponse converts plans and counts them per status
func TreatmentPlansToListResponse(plans []entity.TreatmentPlan) *dto.TreatmentPlanListResponse {
	response := &dto.TreatmentPlanListResponse{
		Plans: make([]dto.TreatmentPlanResponse, len(plans)),
		Stats: dto.TreatmentPlanStats{Total: len(plans)},
	}
	for i := range plans {
		response.Plans[i] = *TreatmentPlanToResponse(&plans[i])
		switch plans[i].Status {
		case entity.PlanStatusAccepted:
			response.Stats.Active++
		case entity.PlanStatusProposed:
			response.Stats.Proposed++
		case entity.PlanStatusCompleted:
			response.Stats.Completed++
		}
	}
	return response
}
