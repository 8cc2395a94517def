package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"awn-booking/internal/converter"
	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/delivery/http/middleware"
	"awn-booking/internal/domain/entity"
	"awn-booking/internal/domain/repository"
	"awn-booking/internal/infrastructure/notification"
	"awn-booking/internal/service"
	"awn-booking/pkg/apperror"
	"awn-booking/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists   = apperror.New(apperror.KindConflict, "email already exists")
	ErrProfileAlreadyExists = apperror.New(apperror.KindConflict, "license number already registered")
	ErrInvalidCredentials   = apperror.New(apperror.KindUnauthorized, "invalid email or password")
	ErrAccountLocked        = apperror.New(apperror.KindForbidden, "account is locked after too many failed login attempts")
	ErrInvalidToken         = apperror.New(apperror.KindUnauthorized, "invalid or expired token")
	ErrTokenRevoked         = apperror.New(apperror.KindUnauthorized, "token has been revoked")
	ErrUserNotFound         = apperror.New(apperror.KindNotFound, "user not found")
)

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error)
	RegisterTherapist(ctx context.Context, req *dto.RegisterTherapistRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, req *dto.LogoutRequest) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context) (*dto.UserResponse, error)
	VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.UserResponse, error)
	ResendOTP(ctx context.Context) error
}

type authUsecase struct {
	tx                 repository.Transactor
	log                *logrus.Logger
	userRepo           repository.UserRepository
	therapistRepo      repository.TherapistProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
	jwtService         *jwt.JWTService
	redisClient        *redis.Client
	mailer             notification.EmailSender
	verifier           emailVerifier
}

func NewAuthUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	therapistRepo repository.TherapistProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
	otp *service.OTPService,
	mailer notification.EmailSender,
) AuthUsecase {
	return &authUsecase{
		tx:                 tx,
		log:                log,
		userRepo:           userRepo,
		therapistRepo:      therapistRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
		jwtService:         jwtService,
		redisClient:        redisClient,
		mailer:             mailer,
		verifier:           emailVerifier{log: log, otp: otp, mailer: mailer},
	}
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	profile := &entity.PatientProfile{
		NationalID:  req.NationalID,
		PhoneNumber: req.PhoneNumber,
		Gender:      req.Gender,
		City:        req.City,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse(entity.DateLayout, req.DateOfBirth)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		profile.DateOfBirth = &dob
	}

	user, err := u.newUser(req.Email, req.Password, req.FullName, entity.RoleIDPatient)
	if err != nil {
		return nil, err
	}

	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.createUser(ctx, tx, user); err != nil {
			return err
		}
		profile.UserID = user.ID
		return u.patientProfileRepo.Create(tx, profile)
	})
	if err != nil {
		return nil, upstream(u.log, "register patient", err)
	}

	user.PatientProfile = profile
	u.welcome(ctx, user)
	u.verifier.sendBestEffort(ctx, user)
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) RegisterTherapist(ctx context.Context, req *dto.RegisterTherapistRequest) (*dto.UserResponse, error) {
	for _, mode := range req.SessionModes {
		if !entity.SessionType(mode).IsValid() {
			return nil, ErrInvalidSessionType
		}
	}

	user, err := u.newUser(req.Email, req.Password, req.FullName, entity.RoleIDTherapist)
	if err != nil {
		return nil, err
	}

	profile := &entity.TherapistProfile{
		LicenseNumber:   req.LicenseNumber,
		Specialization:  strings.TrimSpace(req.Specialization),
		City:            req.City,
		Biography:       req.Biography,
		YearsExperience: req.YearsExperience,
		BasePrice:       req.BasePrice,
		SessionModes:    entity.StringList(req.SessionModes),
	}
	if profile.SessionModes == nil {
		profile.SessionModes = entity.StringList{}
	}

	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.createUser(ctx, tx, user); err != nil {
			return err
		}
		profile.UserID = user.ID
		profile.Slug = therapistSlug(user.FullName, user.ID)
		if err := u.therapistRepo.Create(tx, profile); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrProfileAlreadyExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, upstream(u.log, "register therapist", err)
	}

	user.TherapistProfile = profile
	u.welcome(ctx, user)
	return converter.UserToResponse(user), nil
}

// Login verifies the password and issues a token pair. Reaching the failure
// limit locks the account.
func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	var user *entity.User
	err := u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		user, err = u.userRepo.FindByEmail(db, strings.TrimSpace(req.Email))
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "find user", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active() {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, u.failLogin(ctx, user)
	}

	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.userRepo.RecordSuccessfulLogin(tx, user.ID); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserLogin, "user", user.ID.String(), nil)
	})
	if err != nil {
		return nil, upstream(u.log, "record login", err)
	}

	return u.issueTokens(ctx, user.ID, user.Email, user.RoleID)
}

func (u *authUsecase) failLogin(ctx context.Context, user *entity.User) error {
	var locked bool
	err := u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		locked, err = u.userRepo.RecordFailedLogin(tx, user.ID, entity.MaxFailedLoginAttempts)
		if err != nil || !locked {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &user.ID, entity.AuditActionUserLocked, "user", user.ID.String(),
			map[string]interface{}{"locked": false}, map[string]interface{}{"locked": true})
	})
	if err != nil {
		return upstream(u.log, "record failed login", err)
	}
	if locked {
		u.log.WithField("user_id", user.ID).Warn("Account locked after repeated failed logins")
		return ErrAccountLocked
	}
	return ErrInvalidCredentials
}

// Logout revokes the current access token and, when given, the paired refresh token.
func (u *authUsecase) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	tokenID, _ := middleware.GetTokenIDFromContext(ctx)

	keys := []string{middleware.AccessTokenKey(userID, tokenID)}
	if req != nil && req.RefreshToken != "" {
		claims, err := u.jwtService.ValidateToken(req.RefreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == userID {
			keys = append(keys, middleware.RefreshTokenKey(userID, claims.TokenID))
		}
	}

	if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
		u.log.Warnf("Failed to revoke tokens: %+v", err)
		return apperror.Upstream("failed to revoke tokens", err)
	}
	return nil
}

// RefreshToken rotates a refresh token. The old one is revoked before the new pair is stored.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	refreshKey := middleware.RefreshTokenKey(claims.UserID, claims.TokenID)
	deleted, err := u.redisClient.Del(ctx, refreshKey).Result()
	if err != nil {
		u.log.Warnf("Failed to revoke refresh token: %+v", err)
		return nil, apperror.Upstream("failed to refresh token", err)
	}
	if deleted == 0 {
		return nil, ErrTokenRevoked
	}

	return u.issueTokens(ctx, claims.UserID, claims.Email, claims.RoleID)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context) (*dto.UserResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	var user *entity.User
	err := u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		user, err = u.userRepo.FindByID(db, userID)
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "find user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}

// VerifyOTP marks the caller's email as verified when the code matches.
func (u *authUsecase) VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.UserResponse, error) {
	user, err := u.unverifiedCaller(ctx)
	if err != nil {
		return nil, err
	}

	if err := u.verifier.otp.Verify(ctx, user.ID, strings.TrimSpace(req.OTP)); err != nil {
		return nil, err
	}

	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.userRepo.MarkEmailVerified(tx, user.ID); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &user.ID, entity.AuditActionUserEmailVerified, "user", user.ID.String(),
			map[string]interface{}{"email_verified": false}, map[string]interface{}{"email_verified": true, "email": user.Email})
	})
	if err != nil {
		return nil, upstream(u.log, "verify email", err)
	}

	user.EmailVerified = true
	return converter.UserToResponse(user), nil
}

// ResendOTP replaces the caller's pending code and mails the new one.
func (u *authUsecase) ResendOTP(ctx context.Context) error {
	user, err := u.unverifiedCaller(ctx)
	if err != nil {
		return err
	}
	return u.verifier.send(ctx, user)
}

func (u *authUsecase) unverifiedCaller(ctx context.Context) (*entity.User, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	var user *entity.User
	err := u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		user, err = u.userRepo.FindByID(db, userID)
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "find user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.EmailVerified {
		return nil, ErrEmailAlreadyVerified
	}
	return user, nil
}

func (u *authUsecase) newUser(email, password, fullName string, roleID int) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	active := true
	return &entity.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hashedPassword),
		FullName: strings.TrimSpace(fullName),
		RoleID:   roleID,
		IsActive: &active,
	}, nil
}

func (u *authUsecase) createUser(ctx context.Context, tx *gorm.DB, user *entity.User) error {
	if err := u.userRepo.Create(tx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrEmailAlreadyExists
		}
		return err
	}
	return u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(),
		map[string]interface{}{"email": user.Email, "role": entity.RoleName(user.RoleID)})
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email string, roleID int) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email, roleID)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email, roleID)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	pipe := u.redisClient.TxPipeline()
	pipe.Set(ctx, middleware.AccessTokenKey(userID, accessTokenID), "valid", u.jwtService.GetAccessExpiry())
	pipe.Set(ctx, middleware.RefreshTokenKey(userID, refreshTokenID), "valid", u.jwtService.GetRefreshExpiry())
	if _, err := pipe.Exec(ctx); err != nil {
		u.log.Warnf("Failed to store tokens in Redis: %+v", err)
		return nil, apperror.Upstream("failed to store tokens", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) welcome(ctx context.Context, user *entity.User) {
	u.log.WithFields(logrus.Fields{"user_id": user.ID, "role": entity.RoleName(user.RoleID)}).Info("User registered")
	if u.mailer == nil {
		return
	}
	if err := u.mailer.Send(ctx, notification.WelcomeEmail(user.Email, user.FullName)); err != nil {
		u.log.Warnf("Failed to send welcome email to %s: %+v", user.Email, err)
	}
}

// therapistSlug derives a URL name from the full name, suffixed with part of the id.
func therapistSlug(fullName string, id uuid.UUID) string {
	base := strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(fullName), "-"), "-")
	if base == "" {
		base = "therapist"
	}
	return base + "-" + id.String()[:8]
}
