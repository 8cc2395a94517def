package usecase

import (
	"context"
	"strings"

	"awn-booking/internal/converter"
	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/domain/entity"
	"awn-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TherapistUsecase interface {
	GetTherapists(ctx context.Context, query dto.TherapistListQuery) (*dto.TherapistListResponse, error)
	GetTherapist(ctx context.Context, therapistID uuid.UUID) (*dto.TherapistProfileResponse, error)
}

type therapistUsecase struct {
	tx            repository.Transactor
	log           *logrus.Logger
	therapistRepo repository.TherapistProfileRepository
	ratingRepo    repository.RatingRepository
}

func NewTherapistUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	therapistRepo repository.TherapistProfileRepository,
	ratingRepo repository.RatingRepository,
) TherapistUsecase {
	return &therapistUsecase{
		tx:            tx,
		log:           log,
		therapistRepo: therapistRepo,
		ratingRepo:    ratingRepo,
	}
}

// GetTherapists lists active therapists matching the optional filters.
func (u *therapistUsecase) GetTherapists(ctx context.Context, query dto.TherapistListQuery) (*dto.TherapistListResponse, error) {
	filter := entity.TherapistFilter{
		City:           strings.TrimSpace(query.City),
		Specialization: strings.TrimSpace(query.Specialization),
	}
	if query.Mode != "" {
		mode := entity.SessionType(query.Mode)
		if !mode.IsValid() {
			return nil, ErrInvalidSessionType
		}
		filter.Mode = mode
	}

	var profiles []entity.TherapistProfile
	err := u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		profiles, err = u.therapistRepo.FindAll(db, filter)
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "fetch therapists", err)
	}

	return &dto.TherapistListResponse{
		Therapists: converter.TherapistsToResponses(profiles),
		Total:      len(profiles),
	}, nil
}

// GetTherapist returns one therapist with the rating average.
func (u *therapistUsecase) GetTherapist(ctx context.Context, therapistID uuid.UUID) (*dto.TherapistProfileResponse, error) {
	var profile *entity.TherapistProfile
	var summary entity.RatingSummary
	err := u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		profile, err = u.therapistRepo.FindByUserID(db, therapistID)
		if err != nil || profile == nil {
			return err
		}
		summary, err = u.ratingRepo.Summary(db, therapistID)
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "fetch therapist", err)
	}
	if profile == nil || !profile.User.Active() {
		return nil, ErrTherapistNotFound
	}

	response := converter.TherapistToResponse(profile)
	rating := converter.RatingSummaryToResponse(summary)
	response.Rating = &rating
	return response, nil
}
