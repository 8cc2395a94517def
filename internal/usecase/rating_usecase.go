package usecase

import (
	"context"
	"errors"

	"awn-booking/internal/converter"
	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/delivery/http/middleware"
	"awn-booking/internal/domain/entity"
	"awn-booking/internal/domain/repository"
	"awn-booking/internal/service"
	"awn-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidScore        = apperror.New(apperror.KindValidation, "score must be between 1 and 5")
	ErrRatingTherapist     = apperror.New(apperror.KindValidation, "booking was not held with this therapist")
	ErrBookingNotRateable  = apperror.New(apperror.KindInvalidState, "only confirmed or completed bookings can be rated")
	ErrBookingAlreadyRated = apperror.New(apperror.KindConflict, "booking has already been rated")
)

type RatingUsecase interface {
	CreateRating(ctx context.Context, req *dto.CreateRatingRequest) (*dto.RatingResponse, error)
	GetTherapistRatings(ctx context.Context, therapistID uuid.UUID) (*dto.RatingListResponse, error)
}

type ratingUsecase struct {
	tx           repository.Transactor
	log          *logrus.Logger
	ratingRepo   repository.RatingRepository
	bookingRepo  repository.BookingRepository
	auditService service.AuditService
}

func NewRatingUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	ratingRepo repository.RatingRepository,
	bookingRepo repository.BookingRepository,
	auditService service.AuditService,
) RatingUsecase {
	return &ratingUsecase{
		tx:           tx,
		log:          log,
		ratingRepo:   ratingRepo,
		bookingRepo:  bookingRepo,
		auditService: auditService,
	}
}

// CreateRating scores a held session. Each booking is rated once.
func (u *ratingUsecase) CreateRating(ctx context.Context, req *dto.CreateRatingRequest) (*dto.RatingResponse, error) {
	if req.Score < entity.MinRatingScore || req.Score > entity.MaxRatingScore {
		return nil, ErrInvalidScore
	}
	var missing []string
	if req.BookingID == uuid.Nil {
		missing = append(missing, "booking_id")
	}
	if req.TherapistID == uuid.Nil {
		missing = append(missing, "therapist_id")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing)
	}

	rating := &entity.Rating{
		ID:          uuid.New(),
		BookingID:   req.BookingID,
		TherapistID: req.TherapistID,
		Score:       req.Score,
		Comment:     req.Comment,
	}
	if patientID, ok := middleware.ActorWithRole(ctx, entity.RoleIDPatient); ok {
		rating.PatientID = &patientID
	}

	err := u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		booking, err := u.bookingRepo.FindByID(tx, req.BookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return ErrBookingNotFound
		}
		if booking.TherapistID != req.TherapistID {
			return ErrRatingTherapist
		}
		if rating.PatientID != nil && booking.PatientID != nil && *booking.PatientID != *rating.PatientID {
			return ErrBookingNotOwned
		}
		if booking.Status != entity.BookingStatusConfirmed && booking.Status != entity.BookingStatusCompleted {
			return ErrBookingNotRateable
		}

		if err := u.ratingRepo.Create(tx, rating); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrBookingAlreadyRated
			}
			return err
		}
		return u.auditService.LogCreate(ctx, tx, rating.PatientID, entity.AuditActionRatingCreate, "rating", rating.ID.String(),
			map[string]interface{}{"booking_id": rating.BookingID, "therapist_id": rating.TherapistID, "score": rating.Score})
	})
	if err != nil {
		return nil, upstream(u.log, "create rating", err)
	}

	u.log.WithFields(logrus.Fields{"booking_id": rating.BookingID, "therapist_id": rating.TherapistID}).Info("Rating submitted")
	return converter.RatingToResponse(rating), nil
}

func (u *ratingUsecase) GetTherapistRatings(ctx context.Context, therapistID uuid.UUID) (*dto.RatingListResponse, error) {
	var ratings []entity.Rating
	var summary entity.RatingSummary
	err := u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		if ratings, err = u.ratingRepo.FindByTherapist(db, therapistID); err != nil {
			return err
		}
		summary, err = u.ratingRepo.Summary(db, therapistID)
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "fetch ratings", err)
	}

	return &dto.RatingListResponse{
		Ratings: converter.RatingsToResponses(ratings),
		Summary: converter.RatingSummaryToResponse(summary),
	}, nil
}
