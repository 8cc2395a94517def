package usecase

import (
	"context"
	"time"

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

var ErrMedicalHistoryNotFound = apperror.New(apperror.KindNotFound, "medical history not found")

type MedicalHistoryUsecase interface {
	GetMedicalHistory(ctx context.Context) (*entity.MedicalHistoryDocument, error)
	SaveMedicalHistory(ctx context.Context, req *dto.SaveMedicalHistoryRequest) (*entity.MedicalHistoryDocument, error)
	DeleteMedicalHistory(ctx context.Context) error
	GetWarnings(ctx context.Context) (*dto.MedicalWarningsResponse, error)
}

type medicalHistoryUsecase struct {
	tx           repository.Transactor
	log          *logrus.Logger
	historyRepo  repository.MedicalHistoryRepository
	auditService service.AuditService
	now          func() time.Time
}

func NewMedicalHistoryUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	historyRepo repository.MedicalHistoryRepository,
	auditService service.AuditService,
) MedicalHistoryUsecase {
	return &medicalHistoryUsecase{
		tx:           tx,
		log:          log,
		historyRepo:  historyRepo,
		auditService: auditService,
		now:          time.Now,
	}
}

// GetMedicalHistory returns the caller's document, or an empty one when none is stored.
func (u *medicalHistoryUsecase) GetMedicalHistory(ctx context.Context) (*entity.MedicalHistoryDocument, error) {
	patientID, ok := middleware.ActorWithRole(ctx, entity.RoleIDPatient)
	if !ok {
		return nil, ErrForbidden
	}
	return u.load(ctx, patientID)
}

// SaveMedicalHistory replaces the caller's document.
func (u *medicalHistoryUsecase) SaveMedicalHistory(ctx context.Context, req *dto.SaveMedicalHistoryRequest) (*entity.MedicalHistoryDocument, error) {
	patientID, ok := middleware.ActorWithRole(ctx, entity.RoleIDPatient)
	if !ok {
		return nil, ErrForbidden
	}

	now := u.now()
	doc := req.MedicalHistoryDocument
	if err := doc.CheckDates(now); err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, err.Error(), err)
	}
	if doc.Conditions == nil {
		doc.Conditions = []entity.Condition{}
	}
	if doc.Medications == nil {
		doc.Medications = []entity.Medication{}
	}
	if doc.Allergies == nil {
		doc.Allergies = []entity.Allergy{}
	}
	doc.LastUpdated = &now

	err := u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.historyRepo.Upsert(tx, &entity.MedicalHistory{UserID: patientID, HistoryData: doc}); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &patientID, entity.AuditActionMedicalHistorySave, "medical_history", patientID.String(), nil,
			map[string]interface{}{
				"conditions":  len(doc.Conditions),
				"medications": len(doc.Medications),
				"allergies":   len(doc.Allergies),
			})
	})
	if err != nil {
		return nil, upstream(u.log, "save medical history", err)
	}

	u.log.WithField("user_id", patientID).Info("Medical history saved")
	return &doc, nil
}

func (u *medicalHistoryUsecase) DeleteMedicalHistory(ctx context.Context) error {
	patientID, ok := middleware.ActorWithRole(ctx, entity.RoleIDPatient)
	if !ok {
		return ErrForbidden
	}

	err := u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		rows, err := u.historyRepo.Delete(tx, patientID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrMedicalHistoryNotFound
		}
		return u.auditService.LogDelete(ctx, tx, &patientID, entity.AuditActionMedicalHistoryDrop, "medical_history", patientID.String(), nil)
	})
	if err != nil {
		return upstream(u.log, "delete medical history", err)
	}
	return nil
}

// GetWarnings lists the clinical alerts derived from the caller's document.
func (u *medicalHistoryUsecase) GetWarnings(ctx context.Context) (*dto.MedicalWarningsResponse, error) {
	patientID, ok := middleware.ActorWithRole(ctx, entity.RoleIDPatient)
	if !ok {
		return nil, ErrForbidden
	}
	doc, err := u.load(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return &dto.MedicalWarningsResponse{Warnings: doc.Warnings()}, nil
}

func (u *medicalHistoryUsecase) load(ctx context.Context, patientID uuid.UUID) (*entity.MedicalHistoryDocument, error) {
	var history *entity.MedicalHistory
	err := u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		history, err = u.historyRepo.FindByUserID(db, patientID)
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "fetch medical history", err)
	}
	if history == nil {
		doc := entity.EmptyMedicalHistory()
		return &doc, nil
	}
	return &history.HistoryData, nil
}
