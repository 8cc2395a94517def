package usecase

import (
	"context"

	"awn-booking/internal/converter"
	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/delivery/http/middleware"
	"awn-booking/internal/domain/entity"
	"awn-booking/internal/domain/repository"
	"awn-booking/pkg/apperror"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidFavoriteAction = apperror.New(apperror.KindValidation, "action must be add or remove")

type FavoriteUsecase interface {
	ToggleFavorite(ctx context.Context, req *dto.ToggleFavoriteRequest) (*dto.FavoriteListResponse, error)
	GetFavorites(ctx context.Context) (*dto.FavoriteListResponse, error)
}

type favoriteUsecase struct {
	tx            repository.Transactor
	log           *logrus.Logger
	favoriteRepo  repository.FavoriteRepository
	therapistRepo repository.TherapistProfileRepository
}

func NewFavoriteUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	favoriteRepo repository.FavoriteRepository,
	therapistRepo repository.TherapistProfileRepository,
) FavoriteUsecase {
	return &favoriteUsecase{
		tx:            tx,
		log:           log,
		favoriteRepo:  favoriteRepo,
		therapistRepo: therapistRepo,
	}
}

// ToggleFavorite adds or removes a therapist and returns the updated list.
// Adding a favorite twice keeps a single entry.
func (u *favoriteUsecase) ToggleFavorite(ctx context.Context, req *dto.ToggleFavoriteRequest) (*dto.FavoriteListResponse, error) {
	patientID, ok := middleware.ActorWithRole(ctx, entity.RoleIDPatient)
	if !ok {
		return nil, ErrForbidden
	}
	if req.Action != dto.FavoriteActionAdd && req.Action != dto.FavoriteActionRemove {
		return nil, ErrInvalidFavoriteAction
	}

	err := u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if req.Action == dto.FavoriteActionRemove {
			return u.favoriteRepo.Remove(tx, patientID, req.TherapistID)
		}

		therapist, err := u.therapistRepo.FindByUserID(tx, req.TherapistID)
		if err != nil {
			return err
		}
		if therapist == nil {
			return ErrTherapistNotFound
		}
		return u.favoriteRepo.Add(tx, &entity.Favorite{PatientID: patientID, TherapistID: req.TherapistID})
	})
	if err != nil {
		return nil, upstream(u.log, "update favorites", err)
	}

	return u.GetFavorites(ctx)
}

func (u *favoriteUsecase) GetFavorites(ctx context.Context) (*dto.FavoriteListResponse, error) {
	patientID, ok := middleware.ActorWithRole(ctx, entity.RoleIDPatient)
	if !ok {
		return nil, ErrForbidden
	}

	var favorites []entity.Favorite
	err := u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		favorites, err = u.favoriteRepo.FindByPatient(db, patientID)
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "fetch favorites", err)
	}

	return &dto.FavoriteListResponse{
		Favorites: converter.FavoritesToResponses(favorites),
		Total:     len(favorites),
	}, nil
}
