package service

import (
	"context"
	"testing"

	"awn-booking/pkg/apperror"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOTPService(t *testing.T) (*OTPService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewOTPService(client, quietLogger()), mr
}

func TestOTPService_IssueAndVerify(t *testing.T) {
	otp, mr := newTestOTPService(t)
	ctx := context.Background()
	userID := uuid.New()

	code, err := otp.Issue(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, code, OTPLength)
	assert.Equal(t, code, mr.HGet(otpKey(userID), "code"))
	assert.Equal(t, OTPTTL, mr.TTL(otpKey(userID)))

	require.NoError(t, otp.Verify(ctx, userID, code))
	assert.False(t, mr.Exists(otpKey(userID)))

	assert.ErrorIs(t, otp.Verify(ctx, userID, code), ErrOTPNotFound)
}

func TestOTPService_ResendCooldown(t *testing.T) {
	otp, mr := newTestOTPService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := otp.Issue(ctx, userID)
	require.NoError(t, err)

	_, err = otp.Issue(ctx, userID)
	assert.ErrorIs(t, err, ErrOTPCooldown)
	assert.Equal(t, apperror.KindRateLimited, apperror.KindOf(err))

	mr.FastForward(OTPResendCooldown)
	second, err := otp.Issue(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, second, mr.HGet(otpKey(userID), "code"))
}

func TestOTPService_Expired(t *testing.T) {
	otp, mr := newTestOTPService(t)
	ctx := context.Background()
	userID := uuid.New()

	code, err := otp.Issue(ctx, userID)
	require.NoError(t, err)

	mr.FastForward(OTPTTL)

	assert.ErrorIs(t, otp.Verify(ctx, userID, code), ErrOTPNotFound)
}

func TestOTPService_WrongCodesExhaustAttempts(t *testing.T) {
	otp, mr := newTestOTPService(t)
	ctx := context.Background()
	userID := uuid.New()

	code, err := otp.Issue(ctx, userID)
	require.NoError(t, err)
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	for i := 1; i < MaxOTPAttempts; i++ {
		require.ErrorIs(t, otp.Verify(ctx, userID, wrong), ErrOTPInvalid, "attempt %d", i)
	}
	assert.ErrorIs(t, otp.Verify(ctx, userID, wrong), ErrOTPAttemptsReached)
	assert.False(t, mr.Exists(otpKey(userID)))

	assert.ErrorIs(t, otp.Verify(ctx, userID, code), ErrOTPNotFound)
}

func TestOTPService_Revoke(t *testing.T) {
	otp, mr := newTestOTPService(t)
	ctx := context.Background()
	userID := uuid.New()

	code, err := otp.Issue(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, otp.Revoke(ctx, userID))
	assert.False(t, mr.Exists(otpCooldownKey(userID)))
	assert.ErrorIs(t, otp.Verify(ctx, userID, code), ErrOTPNotFound)

	_, err = otp.Issue(ctx, userID)
	assert.NoError(t, err)
}
