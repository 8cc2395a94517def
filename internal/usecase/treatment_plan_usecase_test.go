package usecase

import (
	"context"
	"testing"

	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/delivery/http/middleware"
	"awn-booking/internal/domain/entity"
	"awn-booking/internal/service"
	"awn-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type planFixture struct {
	uc               TreatmentPlanUsecase
	plans            *memPlanRepository
	therapistCtx     context.Context
	patientCtx       context.Context
	therapistID      uuid.UUID
	patientID        uuid.UUID
	otherPatientCtx  context.Context
	otherTherapistID uuid.UUID
}

func newPlanFixture(t *testing.T) *planFixture {
	t.Helper()
	log := newTestLogger()
	therapistID, patientID := uuid.New(), uuid.New()
	users := newMemUserRepository(
		entity.User{ID: therapistID, RoleID: entity.RoleIDTherapist, Email: "lina@example.com"},
		entity.User{ID: patientID, RoleID: entity.RoleIDPatient, Email: "sara@example.com"},
	)
	plans := newMemPlanRepository()
	audit := &memAuditLogRepository{}
	tx := &fakeTransactor{stores: []snapshotter{audit}}

	return &planFixture{
		uc:               NewTreatmentPlanUsecase(tx, log, plans, users, service.NewAuditService(log, audit), nil),
		plans:            plans,
		therapistCtx:     middleware.WithIdentity(context.Background(), therapistID, "lina@example.com", entity.RoleIDTherapist),
		patientCtx:       middleware.WithIdentity(context.Background(), patientID, "sara@example.com", entity.RoleIDPatient),
		therapistID:      therapistID,
		patientID:        patientID,
		otherPatientCtx:  middleware.WithIdentity(context.Background(), uuid.New(), "omar@example.com", entity.RoleIDPatient),
		otherTherapistID: uuid.New(),
	}
}

func (f *planFixture) propose(t *testing.T, steps ...string) *dto.TreatmentPlanResponse {
	t.Helper()
	plan, err := f.uc.CreatePlan(f.therapistCtx, &dto.CreateTreatmentPlanRequest{
		PatientID: f.patientID,
		Title:     "Lower back rehabilitation",
		Steps:     steps,
	})
	require.NoError(t, err)
	return plan
}

func (f *planFixture) accepted(t *testing.T, steps ...string) *dto.TreatmentPlanResponse {
	t.Helper()
	plan := f.propose(t, steps...)
	accepted, err := f.uc.AcceptPlan(f.patientCtx, plan.ID)
	require.NoError(t, err)
	return accepted
}

func intPtr(v int) *int { return &v }

func TestCreatePlan_AppliesDefaults(t *testing.T) {
	f := newPlanFixture(t)

	plan := f.propose(t, "assessment", " ", "stretching")

	assert.Equal(t, string(entity.PlanStatusProposed), plan.Status)
	assert.Equal(t, []string{"assessment", "stretching"}, plan.Steps)
	assert.Equal(t, entity.DefaultPlanDurationWeeks, plan.DurationWeeks)
	assert.Equal(t, entity.DefaultPlanSessionsPerWeek, plan.SessionsPerWeek)
	assert.Equal(t, f.therapistID, plan.TherapistID)
}

func TestCreatePlan_Rejects(t *testing.T) {
	f := newPlanFixture(t)

	_, err := f.uc.CreatePlan(f.therapistCtx, &dto.CreateTreatmentPlanRequest{PatientID: f.patientID, Title: "Plan", Steps: []string{" "}})
	assert.ErrorIs(t, err, ErrPlanStepsRequired)

	_, err = f.uc.CreatePlan(f.therapistCtx, &dto.CreateTreatmentPlanRequest{PatientID: uuid.New(), Title: "Plan", Steps: []string{"a"}})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	_, err = f.uc.CreatePlan(f.patientCtx, &dto.CreateTreatmentPlanRequest{PatientID: f.patientID, Title: "Plan", Steps: []string{"a"}})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeclinePlan_RequiresReason(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.propose(t, "assessment")

	_, err := f.uc.DeclinePlan(f.patientCtx, plan.ID, &dto.DeclineTreatmentPlanRequest{DeclineReason: "  "})
	assert.ErrorIs(t, err, ErrDeclineReason)

	declined, err := f.uc.DeclinePlan(f.patientCtx, plan.ID, &dto.DeclineTreatmentPlanRequest{DeclineReason: "too expensive"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.PlanStatusDeclined), declined.Status)
	assert.Equal(t, "too expensive", declined.DeclineReason)
	assert.NotNil(t, declined.DeclinedAt)

	_, err = f.uc.AcceptPlan(f.patientCtx, plan.ID)
	assert.ErrorIs(t, err, ErrInvalidPlanState)
	assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
}

func TestAcceptPlan_OnlyOwningPatient(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.propose(t, "assessment")

	_, err := f.uc.AcceptPlan(f.otherPatientCtx, plan.ID)

	assert.ErrorIs(t, err, ErrPlanNotOwned)
	assert.Equal(t, entity.PlanStatusProposed, f.plans.plans[plan.ID].Status)
}

func TestRecordProgress(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.accepted(t, "assessment", "mobility", "strength", "review")

	updated, err := f.uc.RecordProgress(f.therapistCtx, plan.ID, &dto.TreatmentPlanProgressRequest{CompletedSteps: intPtr(1), CurrentStep: 1, Notes: "good start"})
	require.NoError(t, err)
	assert.Equal(t, 25, updated.ProgressPercentage)
	assert.Equal(t, 3, updated.RemainingSteps)
	assert.Equal(t, string(entity.PlanStatusAccepted), updated.Status)

	_, err = f.uc.RecordProgress(f.therapistCtx, plan.ID, &dto.TreatmentPlanProgressRequest{CompletedSteps: intPtr(5)})
	assert.ErrorIs(t, err, ErrProgressOutOfRange)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Equal(t, 1, f.plans.plans[plan.ID].CompletedSteps)

	_, err = f.uc.RecordProgress(f.therapistCtx, plan.ID, &dto.TreatmentPlanProgressRequest{CompletedSteps: intPtr(2), CurrentStep: 9})
	assert.ErrorIs(t, err, ErrCurrentStepRange)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Equal(t, 1, f.plans.plans[plan.ID].CurrentStep)

	done, err := f.uc.RecordProgress(f.therapistCtx, plan.ID, &dto.TreatmentPlanProgressRequest{CompletedSteps: intPtr(4), CurrentStep: 4})
	require.NoError(t, err)
	assert.Equal(t, string(entity.PlanStatusCompleted), done.Status)
	assert.Equal(t, 100, done.ProgressPercentage)
	assert.NotNil(t, done.CompletedAt)
}

func TestRecordProgress_RequiresAcceptedPlan(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.propose(t, "assessment")

	_, err := f.uc.RecordProgress(f.therapistCtx, plan.ID, &dto.TreatmentPlanProgressRequest{CompletedSteps: intPtr(1)})

	assert.ErrorIs(t, err, ErrInvalidPlanState)
}

func TestRecordProgress_OtherTherapistForbidden(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.accepted(t, "assessment")
	ctx := middleware.WithIdentity(context.Background(), f.otherTherapistID, "other@example.com", entity.RoleIDTherapist)

	_, err := f.uc.RecordProgress(ctx, plan.ID, &dto.TreatmentPlanProgressRequest{CompletedSteps: intPtr(1)})

	assert.ErrorIs(t, err, ErrPlanNotOwned)
}

func TestCompletePlan(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.accepted(t, "assessment", "mobility")

	done, err := f.uc.CompletePlan(f.therapistCtx, plan.ID, &dto.CompleteTreatmentPlanRequest{FinalNotes: "discharged"})

	require.NoError(t, err)
	assert.Equal(t, string(entity.PlanStatusCompleted), done.Status)
	assert.Equal(t, 2, done.CompletedSteps)
	assert.Equal(t, "discharged", done.FinalNotes)

	_, err = f.uc.CompletePlan(f.therapistCtx, plan.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidPlanState)
}

func TestGetPatientPlans_Stats(t *testing.T) {
	f := newPlanFixture(t)
	f.propose(t, "a")
	f.accepted(t, "a", "b")

	list, err := f.uc.GetPatientPlans(f.patientCtx, f.patientID, dto.TreatmentPlanQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Stats.Total)
	assert.Equal(t, 1, list.Stats.Active)
	assert.Equal(t, 1, list.Stats.Proposed)

	proposed, err := f.uc.GetPatientPlans(f.patientCtx, f.patientID, dto.TreatmentPlanQuery{Status: "proposed"})
	require.NoError(t, err)
	assert.Len(t, proposed.Plans, 1)

	_, err = f.uc.GetPatientPlans(f.otherPatientCtx, f.patientID, dto.TreatmentPlanQuery{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetPlan_Visibility(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.propose(t, "a")

	_, err := f.uc.GetPlan(f.patientCtx, plan.ID)
	assert.NoError(t, err)

	_, err = f.uc.GetPlan(f.otherPatientCtx, plan.ID)
	assert.ErrorIs(t, err, ErrPlanNotOwned)

	_, err = f.uc.GetPlan(f.patientCtx, uuid.New())
	assert.ErrorIs(t, err, ErrPlanNotFound)
}
