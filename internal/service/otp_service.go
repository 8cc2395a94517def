package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"awn-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// RedisOTPKeyPrefix prefixes the pending email verification code of a user
	RedisOTPKeyPrefix = "otp:"

	// RedisOTPCooldownPrefix marks a user who was sent a code recently
	RedisOTPCooldownPrefix = "otp_cooldown:"

	OTPLength         = 6
	OTPTTL            = 10 * time.Minute
	OTPResendCooldown = time.Minute
	MaxOTPAttempts    = 5
)

var (
	ErrOTPNotFound        = apperror.New(apperror.KindValidation, "no active verification code, request a new one")
	ErrOTPInvalid         = apperror.New(apperror.KindValidation, "invalid verification code")
	ErrOTPAttemptsReached = apperror.New(apperror.KindRateLimited, "too many wrong codes, request a new one")
	ErrOTPCooldown        = apperror.New(apperror.KindRateLimited, "a code was sent recently, wait before requesting another")
)

var otpUpperBound = big.NewInt(1_000_000)

// OTPService issues and checks the one-time codes that verify a user's email.
// A user has at most one pending code. It expires after OTPTTL and is dropped
// after MaxOTPAttempts wrong guesses.
type OTPService struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewOTPService(redisClient *redis.Client, log *logrus.Logger) *OTPService {
	return &OTPService{
		redisClient: redisClient,
		log:         log,
	}
}

// Issue replaces the pending code of userID with a fresh one. It fails with
// ErrOTPCooldown when the previous code was issued less than OTPResendCooldown ago.
func (s *OTPService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	fresh, err := s.redisClient.SetNX(ctx, otpCooldownKey(userID), "1", OTPResendCooldown).Result()
	if err != nil {
		s.log.Warnf("Failed to check code cooldown: %+v", err)
		return "", apperror.Upstream("failed to issue verification code", err)
	}
	if !fresh {
		return "", ErrOTPCooldown
	}

	code, err := generateOTP()
	if err != nil {
		return "", err
	}

	key := otpKey(userID)
	_, err = s.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, "code", code, "attempts", 0)
		pipe.Expire(ctx, key, OTPTTL)
		return nil
	})
	if err != nil {
		s.log.Warnf("Failed to store verification code: %+v", err)
		return "", apperror.Upstream("failed to issue verification code", err)
	}
	return code, nil
}

// Verify consumes the pending code when it matches. A wrong guess counts
// against the attempt limit.
func (s *OTPService) Verify(ctx context.Context, userID uuid.UUID, code string) error {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	key := otpKey(userID)
	stored, err := s.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		s.log.Warnf("Failed to read verification code: %+v", err)
		return apperror.Upstream("failed to verify code", err)
	}
	if stored["code"] == "" {
		return ErrOTPNotFound
	}

	attempts, _ := strconv.Atoi(stored["attempts"])
	if attempts >= MaxOTPAttempts {
		s.redisClient.Del(ctx, key)
		return ErrOTPAttemptsReached
	}

	if subtle.ConstantTimeCompare([]byte(stored["code"]), []byte(code)) != 1 {
		failed, err := s.redisClient.HIncrBy(ctx, key, "attempts", 1).Result()
		if err != nil {
			s.log.Warnf("Failed to count code attempt: %+v", err)
			return apperror.Upstream("failed to verify code", err)
		}
		if failed >= MaxOTPAttempts {
			s.redisClient.Del(ctx, key)
			return ErrOTPAttemptsReached
		}
		return ErrOTPInvalid
	}

	// Only one of two concurrent correct guesses may consume the code.
	deleted, err := s.redisClient.Del(ctx, key).Result()
	if err != nil {
		s.log.Warnf("Failed to consume verification code: %+v", err)
		return apperror.Upstream("failed to verify code", err)
	}
	if deleted == 0 {
		return ErrOTPNotFound
	}
	return nil
}

// Revoke drops the pending code and its cooldown.
func (s *OTPService) Revoke(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	if err := s.redisClient.Del(ctx, otpKey(userID), otpCooldownKey(userID)).Err(); err != nil {
		s.log.Warnf("Failed to revoke verification code: %+v", err)
		return apperror.Upstream("failed to revoke verification code", err)
	}
	return nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpUpperBound)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%0*d", OTPLength, n.Int64()), nil
}

func otpKey(userID uuid.UUID) string {
	return RedisOTPKeyPrefix + userID.String()
}

func otpCooldownKey(userID uuid.UUID) string {
	return RedisOTPCooldownPrefix + userID.String()
}
