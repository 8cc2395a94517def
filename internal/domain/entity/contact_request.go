package entity

import (
	"time"

	"github.com/google/uuid"
)

// ContactRequest is a message left through the public contact form.
type ContactRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FirstName string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Role      string    `gorm:"type:varchar(50)" json:"role,omitempty"`
	City      string    `gorm:"type:varchar(100)" json:"city,omitempty"`
	Topic     string    `gorm:"type:varchar(100)" json:"topic,omitempty"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Locale    string    `gorm:"type:varchar(10);not null;default:'ar'" json:"locale"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ContactRequest) TableName() string {
	return "contact_requests"
}

// DefaultContactLocale is stored when the form does not say which language it was sent in.
const DefaultContactLocale = "ar"
