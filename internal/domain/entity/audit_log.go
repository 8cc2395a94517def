package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// AuditLogFilter narrows the admin audit trail listing.
type AuditLogFilter struct {
	Action string
	UserID *uuid.UUID
	Since  *time.Time
	Limit  int
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Common audit actions
const (
	AuditActionUserLogin          = "user.login"
	AuditActionUserLogout         = "user.logout"
	AuditActionUserRegister       = "user.register"
	AuditActionUserLocked         = "user.locked"
	AuditActionUserEmailVerified  = "user.email_verified"
	AuditActionPatientProfile     = "patient.profile_update"
	AuditActionContactCreate      = "contact.create"
	AuditActionBookingCreate      = "booking.create"
	AuditActionBookingConfirm     = "booking.confirm"
	AuditActionBookingCancel      = "booking.cancel"
	AuditActionBookingComplete    = "booking.complete"
	AuditActionBookingReschedule  = "booking.reschedule"
	AuditActionPlanCreate         = "treatment_plan.create"
	AuditActionPlanAccept         = "treatment_plan.accept"
	AuditActionPlanDecline        = "treatment_plan.decline"
	AuditActionPlanProgress       = "treatment_plan.progress"
	AuditActionPlanComplete       = "treatment_plan.complete"
	AuditActionRatingCreate       = "rating.create"
	AuditActionMedicalHistorySave = "medical_history.save"
	AuditActionMedicalHistoryDrop = "medical_history.delete"
)
