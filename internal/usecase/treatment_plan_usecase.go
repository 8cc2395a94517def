package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"awn-booking/internal/converter"
	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/delivery/http/middleware"
	"awn-booking/internal/domain/entity"
	"awn-booking/internal/domain/repository"
	"awn-booking/internal/infrastructure/metrics"
	"awn-booking/internal/service"
	"awn-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPlanNotFound       = apperror.New(apperror.KindNotFound, "treatment plan not found")
	ErrPlanNotOwned       = apperror.New(apperror.KindForbidden, "treatment plan does not belong to you")
	ErrInvalidPlanState   = apperror.New(apperror.KindInvalidState, "treatment plan cannot change from its current status")
	ErrPlanStepsRequired  = apperror.New(apperror.KindValidation, "treatment plan needs at least one step")
	ErrDeclineReason      = apperror.New(apperror.KindValidation, "decline reason is required")
	ErrProgressOutOfRange = apperror.Wrap(apperror.KindValidation, "completed steps must be between 0 and the number of steps", entity.ErrProgressOutOfRange)
	ErrCurrentStepRange   = apperror.Wrap(apperror.KindValidation, "current step must be between 0 and the number of steps", entity.ErrCurrentStepOutOfRange)
	ErrPatientNotFound    = apperror.New(apperror.KindNotFound, "patient not found")
	ErrInvalidPlanStatus  = apperror.New(apperror.KindValidation, "invalid treatment plan status")
)

const (
	opPlanCreate   = "plan_create"
	opPlanAccept   = "plan_accept"
	opPlanDecline  = "plan_decline"
	opPlanProgress = "plan_progress"
	opPlanComplete = "plan_complete"
)

type TreatmentPlanUsecase interface {
	CreatePlan(ctx context.Context, req *dto.CreateTreatmentPlanRequest) (*dto.TreatmentPlanResponse, error)
	AcceptPlan(ctx context.Context, planID uuid.UUID) (*dto.TreatmentPlanResponse, error)
	DeclinePlan(ctx context.Context, planID uuid.UUID, req *dto.DeclineTreatmentPlanRequest) (*dto.TreatmentPlanResponse, error)
	RecordProgress(ctx context.Context, planID uuid.UUID, req *dto.TreatmentPlanProgressRequest) (*dto.TreatmentPlanResponse, error)
	CompletePlan(ctx context.Context, planID uuid.UUID, req *dto.CompleteTreatmentPlanRequest) (*dto.TreatmentPlanResponse, error)
	GetPlan(ctx context.Context, planID uuid.UUID) (*dto.TreatmentPlanResponse, error)
	GetPatientPlans(ctx context.Context, patientID uuid.UUID, query dto.TreatmentPlanQuery) (*dto.TreatmentPlanListResponse, error)
	GetTherapistPlans(ctx context.Context, therapistID uuid.UUID, query dto.TreatmentPlanQuery) (*dto.TreatmentPlanListResponse, error)
}

type treatmentPlanUsecase struct {
	tx           repository.Transactor
	log          *logrus.Logger
	planRepo     repository.TreatmentPlanRepository
	userRepo     repository.UserRepository
	auditService service.AuditService
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewTreatmentPlanUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	planRepo repository.TreatmentPlanRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
	metrics *metrics.Metrics,
) TreatmentPlanUsecase {
	return &treatmentPlanUsecase{
		tx:           tx,
		log:          log,
		planRepo:     planRepo,
		userRepo:     userRepo,
		auditService: auditService,
		metrics:      metrics,
		now:          time.Now,
	}
}

// CreatePlan proposes a plan from the logged-in therapist to a patient.
func (u *treatmentPlanUsecase) CreatePlan(ctx context.Context, req *dto.CreateTreatmentPlanRequest) (*dto.TreatmentPlanResponse, error) {
	therapistID, ok := middleware.ActorWithRole(ctx, entity.RoleIDTherapist)
	if !ok {
		return nil, ErrForbidden
	}

	var missing []string
	if req.PatientID == uuid.Nil {
		missing = append(missing, "patient_id")
	}
	if strings.TrimSpace(req.Title) == "" {
		missing = append(missing, "title")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing)
	}

	steps := nonEmpty(req.Steps)
	if len(steps) == 0 {
		return nil, ErrPlanStepsRequired
	}

	plan := &entity.TreatmentPlan{
		ID:              uuid.New(),
		TherapistID:     therapistID,
		PatientID:       req.PatientID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Steps:           steps,
		Goals:           nonEmpty(req.Goals),
		DurationWeeks:   req.DurationWeeks,
		SessionsPerWeek: req.SessionsPerWeek,
		Status:          entity.PlanStatusProposed,
	}
	if plan.DurationWeeks == 0 {
		plan.DurationWeeks = entity.DefaultPlanDurationWeeks
	}
	if plan.SessionsPerWeek == 0 {
		plan.SessionsPerWeek = entity.DefaultPlanSessionsPerWeek
	}

	err := u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		patient, err := u.userRepo.FindByID(tx, req.PatientID)
		if err != nil {
			return err
		}
		if patient == nil || patient.RoleID != entity.RoleIDPatient {
			return ErrPatientNotFound
		}

		if err := u.planRepo.Create(tx, plan); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, tx, &therapistID, entity.AuditActionPlanCreate, "treatment_plan", plan.ID.String(),
			map[string]interface{}{"patient_id": plan.PatientID, "title": plan.Title, "steps": len(plan.Steps)})
	})
	u.metrics.ObserveOperation(opPlanCreate, err)
	if err != nil {
		return nil, upstream(u.log, "create treatment plan", err)
	}

	u.log.WithFields(logrus.Fields{"plan_id": plan.ID, "therapist_id": therapistID, "patient_id": plan.PatientID}).Info("Treatment plan proposed")
	return converter.TreatmentPlanToResponse(plan), nil
}

// AcceptPlan lets the patient accept a proposed plan.
func (u *treatmentPlanUsecase) AcceptPlan(ctx context.Context, planID uuid.UUID) (*dto.TreatmentPlanResponse, error) {
	plan, err := u.update(ctx, planID, entity.AuditActionPlanAccept, u.ownedByPatient, func(p *entity.TreatmentPlan, now time.Time) error {
		if err := checkPlanTransition(p.Status, entity.PlanStatusAccepted); err != nil {
			return err
		}
		p.Status = entity.PlanStatusAccepted
		p.AcceptedAt = &now
		return nil
	})
	u.metrics.ObserveOperation(opPlanAccept, err)
	if err != nil {
		return nil, err
	}
	return converter.TreatmentPlanToResponse(plan), nil
}

// DeclinePlan lets the patient turn down a proposed plan with a reason.
func (u *treatmentPlanUsecase) DeclinePlan(ctx context.Context, planID uuid.UUID, req *dto.DeclineTreatmentPlanRequest) (*dto.TreatmentPlanResponse, error) {
	reason := strings.TrimSpace(req.DeclineReason)
	if reason == "" {
		u.metrics.ObserveOperation(opPlanDecline, ErrDeclineReason)
		return nil, ErrDeclineReason
	}

	plan, err := u.update(ctx, planID, entity.AuditActionPlanDecline, u.ownedByPatient, func(p *entity.TreatmentPlan, now time.Time) error {
		if err := checkPlanTransition(p.Status, entity.PlanStatusDeclined); err != nil {
			return err
		}
		p.Status = entity.PlanStatusDeclined
		p.DeclinedAt = &now
		p.DeclineReason = reason
		return nil
	})
	u.metrics.ObserveOperation(opPlanDecline, err)
	if err != nil {
		return nil, err
	}
	return converter.TreatmentPlanToResponse(plan), nil
}

// RecordProgress updates step counters on an accepted plan.
func (u *treatmentPlanUsecase) RecordProgress(ctx context.Context, planID uuid.UUID, req *dto.TreatmentPlanProgressRequest) (*dto.TreatmentPlanResponse, error) {
	if req.CompletedSteps == nil {
		return nil, missingFields([]string{"completed_steps"})
	}

	plan, err := u.update(ctx, planID, entity.AuditActionPlanProgress, u.ownedByTherapist, func(p *entity.TreatmentPlan, now time.Time) error {
		if p.Status != entity.PlanStatusAccepted {
			return planStateError(p.Status, "record progress on")
		}
		if err := p.RecordProgress(*req.CompletedSteps, req.CurrentStep, req.Notes, now); err != nil {
			switch {
			case errors.Is(err, entity.ErrProgressOutOfRange):
				return ErrProgressOutOfRange
			case errors.Is(err, entity.ErrCurrentStepOutOfRange):
				return ErrCurrentStepRange
			}
			return err
		}
		return nil
	})
	u.metrics.ObserveOperation(opPlanProgress, err)
	if err != nil {
		return nil, err
	}
	return converter.TreatmentPlanToResponse(plan), nil
}

// CompletePlan closes an accepted plan.
func (u *treatmentPlanUsecase) CompletePlan(ctx context.Context, planID uuid.UUID, req *dto.CompleteTreatmentPlanRequest) (*dto.TreatmentPlanResponse, error) {
	var finalNotes string
	if req != nil {
		finalNotes = strings.TrimSpace(req.FinalNotes)
	}

	plan, err := u.update(ctx, planID, entity.AuditActionPlanComplete, u.ownedByTherapist, func(p *entity.TreatmentPlan, now time.Time) error {
		if err := checkPlanTransition(p.Status, entity.PlanStatusCompleted); err != nil {
			return err
		}
		p.Complete(finalNotes, now)
		return nil
	})
	u.metrics.ObserveOperation(opPlanComplete, err)
	if err != nil {
		return nil, err
	}
	return converter.TreatmentPlanToResponse(plan), nil
}

// update loads a plan, lets mutate change it and saves it guarded on the status it was read with.
func (u *treatmentPlanUsecase) update(
	ctx context.Context,
	planID uuid.UUID,
	action string,
	authorize func(context.Context, *entity.TreatmentPlan) error,
	mutate func(*entity.TreatmentPlan, time.Time) error,
) (*entity.TreatmentPlan, error) {
	var plan *entity.TreatmentPlan
	err := u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		current, err := u.planRepo.FindByID(tx, planID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrPlanNotFound
		}
		if err := authorize(ctx, current); err != nil {
			return err
		}

		previous := current.Status
		previousSteps := current.CompletedSteps
		if err := mutate(current, u.now()); err != nil {
			return err
		}

		rows, err := u.planRepo.Update(tx, current, previous)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInvalidPlanState
		}
		plan = current

		return u.auditService.LogUpdate(ctx, tx, actorID(ctx), action, "treatment_plan", planID.String(),
			map[string]interface{}{"status": previous, "completed_steps": previousSteps},
			map[string]interface{}{"status": current.Status, "completed_steps": current.CompletedSteps},
		)
	})
	if err != nil {
		return nil, upstream(u.log, "update treatment plan", err)
	}

	u.log.WithFields(logrus.Fields{"plan_id": plan.ID, "status": plan.Status}).Infof("Treatment plan %s", action)
	return plan, nil
}

func (u *treatmentPlanUsecase) GetPlan(ctx context.Context, planID uuid.UUID) (*dto.TreatmentPlanResponse, error) {
	var plan *entity.TreatmentPlan
	err := u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		plan, err = u.planRepo.FindByID(db, planID)
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "fetch treatment plan", err)
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	if !middleware.IsAdmin(ctx) && u.ownedByPatient(ctx, plan) != nil && u.ownedByTherapist(ctx, plan) != nil {
		return nil, ErrPlanNotOwned
	}
	return converter.TreatmentPlanToResponse(plan), nil
}

// GetPatientPlans lists a patient's plans. Therapists only see the plans they wrote.
func (u *treatmentPlanUsecase) GetPatientPlans(ctx context.Context, patientID uuid.UUID, query dto.TreatmentPlanQuery) (*dto.TreatmentPlanListResponse, error) {
	status, err := parsePlanStatus(query.Status)
	if err != nil {
		return nil, err
	}

	callerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)
	if roleID == entity.RoleIDPatient && callerID != patientID {
		return nil, ErrForbidden
	}

	var plans []entity.TreatmentPlan
	err = u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		plans, err = u.planRepo.FindByPatient(db, patientID, status)
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "fetch treatment plans", err)
	}

	if roleID == entity.RoleIDTherapist {
		own := plans[:0]
		for _, p := range plans {
			if p.TherapistID == callerID {
				own = append(own, p)
			}
		}
		plans = own
	}
	return converter.TreatmentPlansToListResponse(plans), nil
}

func (u *treatmentPlanUsecase) GetTherapistPlans(ctx context.Context, therapistID uuid.UUID, query dto.TreatmentPlanQuery) (*dto.TreatmentPlanListResponse, error) {
	status, err := parsePlanStatus(query.Status)
	if err != nil {
		return nil, err
	}
	if callerID, ok := middleware.ActorWithRole(ctx, entity.RoleIDTherapist); !middleware.IsAdmin(ctx) && (!ok || callerID != therapistID) {
		return nil, ErrForbidden
	}

	var plans []entity.TreatmentPlan
	err = u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		plans, err = u.planRepo.FindByTherapist(db, therapistID, status)
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "fetch treatment plans", err)
	}
	return converter.TreatmentPlansToListResponse(plans), nil
}

func (u *treatmentPlanUsecase) ownedByPatient(ctx context.Context, p *entity.TreatmentPlan) error {
	patientID, ok := middleware.ActorWithRole(ctx, entity.RoleIDPatient)
	if !ok || patientID != p.PatientID {
		return ErrPlanNotOwned
	}
	return nil
}

func (u *treatmentPlanUsecase) ownedByTherapist(ctx context.Context, p *entity.TreatmentPlan) error {
	therapistID, ok := middleware.ActorWithRole(ctx, entity.RoleIDTherapist)
	if !ok || therapistID != p.TherapistID {
		return ErrPlanNotOwned
	}
	return nil
}

func checkPlanTransition(from, to entity.PlanStatus) error {
	if from.CanTransitionTo(to) {
		return nil
	}
	verb := map[entity.PlanStatus]string{
		entity.PlanStatusAccepted:  "accept",
		entity.PlanStatusDeclined:  "decline",
		entity.PlanStatusCompleted: "complete",
	}[to]
	return planStateError(from, verb)
}

func planStateError(from entity.PlanStatus, verb string) error {
	return apperror.Wrap(apperror.KindInvalidState, fmt.Sprintf("cannot %s a %s treatment plan", verb, from), ErrInvalidPlanState)
}

func parsePlanStatus(value string) (*entity.PlanStatus, error) {
	if value == "" {
		return nil, nil
	}
	status := entity.PlanStatus(value)
	if !status.IsValid() {
		return nil, ErrInvalidPlanStatus
	}
	return &status, nil
}

func nonEmpty(values []string) entity.StringList {
	out := entity.StringList{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
