package dto

import (
	"time"

	"awn-booking/internal/domain/entity"

	"github.com/google/uuid"
)

type AuditLogQuery struct {
	Action string     `validate:"omitempty,max=100"`
	UserID *uuid.UUID `validate:"omitempty"`
	Since  string     `validate:"omitempty,date_ymd"`
	Limit  int        `validate:"omitempty,min=1,max=500"`
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64         `json:"id"`
	User      *UserResponse `json:"user,omitempty"`
	Action    string        `json:"action"`
	Metadata  entity.JSON   `json:"metadata"`
	CreatedAt time.Time     `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
