package usecase

import (
	"context"
	"time"

	"awn-booking/internal/converter"
	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/domain/entity"
	"awn-booking/internal/domain/repository"
	"awn-booking/pkg/apperror"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultAuditLogLimit = 100

var ErrAuditLogNotFound = apperror.New(apperror.KindNotFound, "audit log not found")

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, query dto.AuditLogQuery) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	tx           repository.Transactor
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		tx:           tx,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, query dto.AuditLogQuery) (*dto.AuditLogListResponse, error) {
	filter := entity.AuditLogFilter{
		Action: query.Action,
		UserID: query.UserID,
		Limit:  query.Limit,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultAuditLogLimit
	}
	if query.Since != "" {
		since, err := time.Parse(entity.DateLayout, query.Since)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		filter.Since = &since
	}

	var logs []entity.AuditLog
	err := u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		logs, err = u.auditLogRepo.FindAll(db, filter)
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "find audit logs", err)
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	var auditLog *entity.AuditLog
	err := u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		auditLog, err = u.auditLogRepo.FindByID(db, id)
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "find audit log", err)
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
