package repository

import (
	"awn-booking/internal/domain/entity"

	"gorm.io/gorm"
)

// AuditLogRepository persists the audit trail. Entries are written inside the
// transaction of the change they describe, so Create must use the given handle.
type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	// FindAll returns entries newest first.
	FindAll(db *gorm.DB, filter entity.AuditLogFilter) ([]entity.AuditLog, error)
	FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error)
}
