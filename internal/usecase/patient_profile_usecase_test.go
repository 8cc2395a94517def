package usecase

import (
	"context"
	"testing"
	"time"

	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/delivery/http/middleware"
	"awn-booking/internal/domain/entity"
	"awn-booking/internal/service"
	"awn-booking/pkg/apperror"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patientFixture struct {
	uc       PatientProfileUsecase
	users    *memUserRepository
	profiles *memPatientProfileRepository
	audit    *memAuditLogRepository
	mailer   *fakeMailer
	mr       *miniredis.Miniredis
	patient  entity.User
	ctx      context.Context
}

func newPatientFixture(t *testing.T) *patientFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	dob := time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)
	patient := entity.User{ID: uuid.New(), RoleID: entity.RoleIDPatient, Email: "sara@example.com", FullName: "Sara Ali", EmailVerified: true}
	other := entity.User{ID: uuid.New(), RoleID: entity.RoleIDPatient, Email: "nora@example.com", FullName: "Nora Saad"}
	users := newMemUserRepository(patient, other)
	profiles := &memPatientProfileRepository{profiles: map[uuid.UUID]entity.PatientProfile{
		patient.ID: {UserID: patient.ID, PhoneNumber: "0500000000", City: "Riyadh", DateOfBirth: &dob},
		other.ID:   {UserID: other.ID},
	}}
	audit := &memAuditLogRepository{}
	mailer := &fakeMailer{}
	log := newTestLogger()

	uc := NewPatientProfileUsecase(
		&fakeTransactor{stores: []snapshotter{users, profiles, audit}},
		log,
		users,
		profiles,
		service.NewAuditService(log, audit),
		service.NewOTPService(client, log),
		mailer,
	)
	return &patientFixture{
		uc: uc, users: users, profiles: profiles, audit: audit, mailer: mailer, mr: mr, patient: patient,
		ctx: middleware.WithIdentity(context.Background(), patient.ID, patient.Email, entity.RoleIDPatient),
	}
}

func strPtr(s string) *string { return &s }

func TestGetPatientProfile(t *testing.T) {
	f := newPatientFixture(t)

	profile, err := f.uc.GetProfile(f.ctx)

	require.NoError(t, err)
	assert.Equal(t, "sara@example.com", profile.Email)
	assert.True(t, profile.EmailVerified)
	require.NotNil(t, profile.Profile)
	assert.Equal(t, "Riyadh", profile.Profile.City)
	assert.Equal(t, "1990-04-12", profile.Profile.DateOfBirth)
}

func TestGetPatientProfile_TherapistForbidden(t *testing.T) {
	f := newPatientFixture(t)
	ctx := middleware.WithIdentity(context.Background(), uuid.New(), "lina@example.com", entity.RoleIDTherapist)

	_, err := f.uc.GetProfile(ctx)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdatePatientProfile_PartialUpdate(t *testing.T) {
	f := newPatientFixture(t)

	updated, err := f.uc.UpdateProfile(f.ctx, &dto.UpdatePatientProfileRequest{
		City:             strPtr("Jeddah"),
		EmergencyContact: strPtr("Omar Ali 0555555555"),
		DateOfBirth:      strPtr(""),
	})

	require.NoError(t, err)
	assert.Equal(t, "Jeddah", updated.Profile.City)
	assert.Equal(t, "Omar Ali 0555555555", updated.Profile.EmergencyContact)
	assert.Equal(t, "0500000000", updated.Profile.PhoneNumber)
	assert.Empty(t, updated.Profile.DateOfBirth)
	assert.Equal(t, "Sara Ali", updated.FullName)
	assert.True(t, updated.EmailVerified)

	stored := f.profiles.profiles[f.patient.ID]
	assert.Equal(t, "Jeddah", stored.City)
	assert.Nil(t, stored.DateOfBirth)
	assert.Equal(t, []string{entity.AuditActionPatientProfile}, f.audit.actions())
	assert.Empty(t, f.mailer.sent)
}

func TestUpdatePatientProfile_EmailTakenByAnotherPatient(t *testing.T) {
	f := newPatientFixture(t)

	_, err := f.uc.UpdateProfile(f.ctx, &dto.UpdatePatientProfileRequest{
		Email: strPtr("Nora@Example.com"),
		City:  strPtr("Dammam"),
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, "sara@example.com", f.users.users[f.patient.ID].Email)
	assert.Equal(t, "Riyadh", f.profiles.profiles[f.patient.ID].City)
	assert.Empty(t, f.audit.logs)
}

func TestUpdatePatientProfile_SameEmailIsNotAConflict(t *testing.T) {
	f := newPatientFixture(t)

	updated, err := f.uc.UpdateProfile(f.ctx, &dto.UpdatePatientProfileRequest{Email: strPtr("SARA@example.com")})

	require.NoError(t, err)
	assert.True(t, updated.EmailVerified)
	assert.Empty(t, f.mailer.sent)
}

func TestUpdatePatientProfile_EmailChangeRequiresVerification(t *testing.T) {
	f := newPatientFixture(t)

	updated, err := f.uc.UpdateProfile(f.ctx, &dto.UpdatePatientProfileRequest{Email: strPtr("sara.ali@example.com")})

	require.NoError(t, err)
	assert.Equal(t, "sara.ali@example.com", updated.Email)
	assert.False(t, updated.EmailVerified)
	assert.False(t, f.users.users[f.patient.ID].EmailVerified)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "sara.ali@example.com", f.mailer.sent[0].To)
	code := f.mr.HGet(service.RedisOTPKeyPrefix+f.patient.ID.String(), "code")
	assert.Contains(t, f.mailer.sent[0].Body, code)
}

func TestUpdatePatientProfile_Validation(t *testing.T) {
	f := newPatientFixture(t)

	_, err := f.uc.UpdateProfile(f.ctx, &dto.UpdatePatientProfileRequest{DateOfBirth: strPtr("12/04/1990")})
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	_, err = f.uc.UpdateProfile(f.ctx, &dto.UpdatePatientProfileRequest{FullName: strPtr("  ")})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = f.uc.UpdateProfile(f.ctx, &dto.UpdatePatientProfileRequest{Email: strPtr("not-an-email")})
	assert.ErrorIs(t, err, ErrInvalidEmail)
}
