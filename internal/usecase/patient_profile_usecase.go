package usecase

import (
	"context"
	"errors"
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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrPatientProfileNotFound = apperror.New(apperror.KindNotFound, "patient profile not found")

type PatientProfileUsecase interface {
	GetProfile(ctx context.Context) (*dto.PatientResponse, error)
	UpdateProfile(ctx context.Context, req *dto.UpdatePatientProfileRequest) (*dto.PatientResponse, error)
}

type patientProfileUsecase struct {
	tx                 repository.Transactor
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
	verifier           emailVerifier
}

func NewPatientProfileUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
	otp *service.OTPService,
	mailer notification.EmailSender,
) PatientProfileUsecase {
	return &patientProfileUsecase{
		tx:                 tx,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
		verifier:           emailVerifier{log: log, otp: otp, mailer: mailer},
	}
}

func (u *patientProfileUsecase) GetProfile(ctx context.Context) (*dto.PatientResponse, error) {
	patientID, ok := middleware.ActorWithRole(ctx, entity.RoleIDPatient)
	if !ok {
		return nil, ErrForbidden
	}

	var user *entity.User
	var profile *entity.PatientProfile
	err := u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		user, profile, err = u.load(db, patientID)
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "fetch patient profile", err)
	}
	return converter.PatientToResponse(user, profile), nil
}

// UpdateProfile applies the fields present in req. Changing the email to one
// held by another account fails with ErrEmailAlreadyExists. A changed email
// must be verified again, so a new code is mailed to it.
func (u *patientProfileUsecase) UpdateProfile(ctx context.Context, req *dto.UpdatePatientProfileRequest) (*dto.PatientResponse, error) {
	patientID, ok := middleware.ActorWithRole(ctx, entity.RoleIDPatient)
	if !ok {
		return nil, ErrForbidden
	}

	var dob *time.Time
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		parsed, err := time.Parse(entity.DateLayout, *req.DateOfBirth)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		dob = &parsed
	}

	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return nil, missingFields([]string{"full_name"})
	}

	var email string
	if req.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*req.Email))
		if !emailPattern.MatchString(email) {
			return nil, ErrInvalidEmail
		}
	}

	var user *entity.User
	var profile *entity.PatientProfile
	var emailChanged bool
	err := u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		user, profile, err = u.load(tx, patientID)
		if err != nil {
			return err
		}
		before := profileSnapshot(user, profile)

		if email != "" && email != user.Email {
			owner, err := u.userRepo.FindByEmail(tx, email)
			if err != nil {
				return err
			}
			if owner != nil && owner.ID != user.ID {
				return ErrEmailAlreadyExists
			}
			user.Email = email
			user.EmailVerified = false
			emailChanged = true
		}
		if req.FullName != nil {
			user.FullName = strings.TrimSpace(*req.FullName)
		}
		applyProfileChanges(profile, req, dob)

		if err := u.userRepo.UpdateAccount(tx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrEmailAlreadyExists
			}
			return err
		}
		if err := u.patientProfileRepo.Update(tx, profile); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &user.ID, entity.AuditActionPatientProfile, "patient_profile", user.ID.String(),
			before, profileSnapshot(user, profile))
	})
	if err != nil {
		return nil, upstream(u.log, "update patient profile", err)
	}

	if emailChanged {
		u.log.WithField("user_id", user.ID).Info("Patient email changed, verification required")
		if u.verifier.otp != nil {
			if err := u.verifier.otp.Revoke(ctx, user.ID); err != nil {
				u.log.Warnf("Failed to drop stale verification code: %+v", err)
			}
		}
		u.verifier.sendBestEffort(ctx, user)
	}

	return converter.PatientToResponse(user, profile), nil
}

func (u *patientProfileUsecase) load(db *gorm.DB, patientID uuid.UUID) (*entity.User, *entity.PatientProfile, error) {
	user, err := u.userRepo.FindByID(db, patientID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}
	profile, err := u.patientProfileRepo.FindByUserID(db, patientID)
	if err != nil {
		return nil, nil, err
	}
	if profile == nil {
		return nil, nil, ErrPatientProfileNotFound
	}
	return user, profile, nil
}

func applyProfileChanges(profile *entity.PatientProfile, req *dto.UpdatePatientProfileRequest, dob *time.Time) {
	if req.NationalID != nil {
		profile.NationalID = strings.TrimSpace(*req.NationalID)
	}
	if req.PhoneNumber != nil {
		profile.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.DateOfBirth != nil {
		profile.DateOfBirth = dob
	}
	if req.Gender != nil {
		profile.Gender = *req.Gender
	}
	if req.City != nil {
		profile.City = strings.TrimSpace(*req.City)
	}
	if req.EmergencyContact != nil {
		profile.EmergencyContact = strings.TrimSpace(*req.EmergencyContact)
	}
}

func profileSnapshot(user *entity.User, profile *entity.PatientProfile) map[string]interface{} {
	snapshot := map[string]interface{}{
		"full_name":         user.FullName,
		"email":             user.Email,
		"phone_number":      profile.PhoneNumber,
		"gender":            profile.Gender,
		"city":              profile.City,
		"emergency_contact": profile.EmergencyContact,
	}
	if profile.DateOfBirth != nil {
		snapshot["date_of_birth"] = profile.DateOfBirth.Format(entity.DateLayout)
	}
	return snapshot
}
