package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"awn-booking/config"
	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/delivery/http/middleware"
	"awn-booking/internal/domain/entity"
	"awn-booking/internal/service"
	"awn-booking/pkg/apperror"
	"awn-booking/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	uc     AuthUsecase
	users  *memUserRepository
	mr     *miniredis.Miniredis
	jwt    *jwt.JWTService
	mailer *fakeMailer
	audit  *memAuditLogRepository
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := newTestLogger()
	users := newMemUserRepository()
	audit := &memAuditLogRepository{}
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
	})
	mailer := &fakeMailer{}

	uc := NewAuthUsecase(
		&fakeTransactor{stores: []snapshotter{users, audit}},
		log,
		users,
		newMemTherapistRepository(),
		&memPatientProfileRepository{},
		service.NewAuditService(log, audit),
		jwtService,
		client,
		service.NewOTPService(client, log),
		mailer,
	)
	return &authFixture{uc: uc, users: users, mr: mr, jwt: jwtService, mailer: mailer, audit: audit}
}

func (f *authFixture) registerPatient(t *testing.T) *dto.UserResponse {
	t.Helper()
	user, err := f.uc.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{
		Email:       "Sara@Example.com",
		Password:    "s3cret-pass",
		FullName:    "Sara Ali",
		DateOfBirth: "1990-04-12",
		Gender:      entity.GenderFemale,
	})
	require.NoError(t, err)
	return user
}

func TestRegisterPatient(t *testing.T) {
	f := newAuthFixture(t)

	user := f.registerPatient(t)

	assert.Equal(t, "sara@example.com", user.Email)
	assert.Equal(t, entity.RolePatient, user.Role)
	require.NotNil(t, user.PatientProfile)
	assert.Equal(t, "1990-04-12", user.PatientProfile.DateOfBirth)
	assert.False(t, user.EmailVerified)
	require.Len(t, f.mailer.sent, 2)
	assert.Equal(t, "Your Awn verification code", f.mailer.sent[1].Subject)
	assert.True(t, f.mr.Exists(service.RedisOTPKeyPrefix+user.ID.String()))
	assert.Contains(t, f.audit.actions(), entity.AuditActionUserRegister)

	_, err := f.uc.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{
		Email: "sara@example.com", Password: "another-pass", FullName: "Sara Two",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestRegisterTherapist_MailerFailureIsSwallowed(t *testing.T) {
	f := newAuthFixture(t)
	f.mailer.err = errors.New("sendgrid unavailable")

	user, err := f.uc.RegisterTherapist(context.Background(), &dto.RegisterTherapistRequest{
		Email:          "lina@example.com",
		Password:       "s3cret-pass",
		FullName:       "Lina Haddad",
		Specialization: "Physiotherapy",
		BasePrice:      decimal.RequireFromString("250.00"),
		SessionModes:   []string{"online", "home"},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.RoleTherapist, user.Role)
	require.NotNil(t, user.TherapistProfile)
	assert.Contains(t, user.TherapistProfile.Slug, "lina-haddad-")
	assert.True(t, decimal.RequireFromString("250").Equal(user.TherapistProfile.BasePrice))
}

func TestRegisterTherapist_RejectsUnknownMode(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.uc.RegisterTherapist(context.Background(), &dto.RegisterTherapistRequest{
		Email: "lina@example.com", Password: "s3cret-pass", FullName: "Lina", Specialization: "Physio",
		SessionModes: []string{"phone"},
	})

	assert.ErrorIs(t, err, ErrInvalidSessionType)
	assert.Empty(t, f.users.users)
}

func TestLogin_IssuesStoredTokens(t *testing.T) {
	f := newAuthFixture(t)
	user := f.registerPatient(t)

	tokens, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "sara@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, entity.RoleIDPatient, claims.RoleID)
	assert.True(t, f.mr.Exists(middleware.AccessTokenKey(user.ID, claims.TokenID)))
	assert.Equal(t, int64(15*60), tokens.ExpiresIn)
}

func TestLogin_LocksAfterRepeatedFailures(t *testing.T) {
	f := newAuthFixture(t)
	f.registerPatient(t)
	wrong := &dto.LoginRequest{Email: "sara@example.com", Password: "wrong"}

	for i := 1; i < entity.MaxFailedLoginAttempts; i++ {
		_, err := f.uc.Login(context.Background(), wrong)
		require.ErrorIs(t, err, ErrInvalidCredentials, "attempt %d", i)
	}

	_, err := f.uc.Login(context.Background(), wrong)
	assert.ErrorIs(t, err, ErrAccountLocked)

	_, err = f.uc.Login(context.Background(), &dto.LoginRequest{Email: "sara@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrAccountLocked)
	assert.Contains(t, f.audit.actions(), entity.AuditActionUserLocked)
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "ghost@example.com", Password: "x"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}

func TestRefreshToken_Rotates(t *testing.T) {
	f := newAuthFixture(t)
	f.registerPatient(t)
	tokens, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "sara@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	rotated, err := f.uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	_, err = f.uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = f.uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout_RevokesTokens(t *testing.T) {
	f := newAuthFixture(t)
	user := f.registerPatient(t)
	tokens, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "sara@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	access, err := f.jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	refresh, err := f.jwt.ValidateToken(tokens.RefreshToken)
	require.NoError(t, err)

	ctx := middleware.WithIdentity(context.Background(), user.ID, user.Email, entity.RoleIDPatient)
	ctx = context.WithValue(ctx, middleware.TokenIDKey, access.TokenID)

	require.NoError(t, f.uc.Logout(ctx, &dto.LogoutRequest{RefreshToken: tokens.RefreshToken}))

	assert.False(t, f.mr.Exists(middleware.AccessTokenKey(user.ID, access.TokenID)))
	assert.False(t, f.mr.Exists(middleware.RefreshTokenKey(user.ID, refresh.TokenID)))
}

func TestGetCurrentUser(t *testing.T) {
	f := newAuthFixture(t)
	user := f.registerPatient(t)

	_, err := f.uc.GetCurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	ctx := middleware.WithIdentity(context.Background(), user.ID, user.Email, entity.RoleIDPatient)
	me, err := f.uc.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)
}

func TestVerifyOTP(t *testing.T) {
	f := newAuthFixture(t)
	user := f.registerPatient(t)
	ctx := middleware.WithIdentity(context.Background(), user.ID, user.Email, entity.RoleIDPatient)
	code := f.mr.HGet(service.RedisOTPKeyPrefix+user.ID.String(), "code")
	require.Len(t, code, service.OTPLength)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	_, err := f.uc.VerifyOTP(ctx, &dto.VerifyOTPRequest{OTP: wrong})
	assert.ErrorIs(t, err, service.ErrOTPInvalid)

	verified, err := f.uc.VerifyOTP(ctx, &dto.VerifyOTPRequest{OTP: code})
	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)
	assert.True(t, f.users.users[user.ID].EmailVerified)
	assert.Contains(t, f.audit.actions(), entity.AuditActionUserEmailVerified)

	_, err = f.uc.VerifyOTP(ctx, &dto.VerifyOTPRequest{OTP: code})
	assert.ErrorIs(t, err, ErrEmailAlreadyVerified)
}

func TestVerifyOTP_Unauthenticated(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.uc.VerifyOTP(context.Background(), &dto.VerifyOTPRequest{OTP: "123456"})

	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResendOTP(t *testing.T) {
	f := newAuthFixture(t)
	user := f.registerPatient(t)
	ctx := middleware.WithIdentity(context.Background(), user.ID, user.Email, entity.RoleIDPatient)
	first := f.mr.HGet(service.RedisOTPKeyPrefix+user.ID.String(), "code")

	err := f.uc.ResendOTP(ctx)
	assert.ErrorIs(t, err, service.ErrOTPCooldown)
	assert.Equal(t, apperror.KindRateLimited, apperror.KindOf(err))

	f.mr.FastForward(service.OTPResendCooldown)
	require.NoError(t, f.uc.ResendOTP(ctx))
	require.Len(t, f.mailer.sent, 3)
	second := f.mr.HGet(service.RedisOTPKeyPrefix+user.ID.String(), "code")
	assert.Contains(t, f.mailer.sent[2].Body, second)

	if first != second {
		_, err = f.uc.VerifyOTP(ctx, &dto.VerifyOTPRequest{OTP: first})
		assert.ErrorIs(t, err, service.ErrOTPInvalid)
	}
	_, err = f.uc.VerifyOTP(ctx, &dto.VerifyOTPRequest{OTP: second})
	assert.NoError(t, err)
}

func TestResendOTP_MailerFailure(t *testing.T) {
	f := newAuthFixture(t)
	user := f.registerPatient(t)
	f.mailer.err = errors.New("sendgrid unavailable")
	f.mr.FastForward(service.OTPResendCooldown)
	ctx := middleware.WithIdentity(context.Background(), user.ID, user.Email, entity.RoleIDPatient)

	err := f.uc.ResendOTP(ctx)

	assert.Equal(t, apperror.KindUpstream, apperror.KindOf(err))
}
