package entity

import (
	"time"

	"github.com/google/uuid"
)

// MaxFailedLoginAttempts locks an account once reached.
const MaxFailedLoginAttempts = 5

// User represents the centralized authentication table
type User struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RoleID              int        `gorm:"not null;index" json:"role_id"`
	Email               string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"type:text;not null" json:"-"`
	FullName            string     `gorm:"type:varchar(255);not null" json:"full_name"`
	IsActive            *bool      `gorm:"not null;default:true;index" json:"is_active"`
	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	Locked              bool       `gorm:"not null;default:false" json:"-"`
	EmailVerified       bool       `gorm:"not null;default:false" json:"email_verified"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Role             Role              `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	TherapistProfile *TherapistProfile `gorm:"foreignKey:UserID" json:"therapist_profile,omitempty"`
	PatientProfile   *PatientProfile   `gorm:"foreignKey:UserID" json:"patient_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// Active reports whether the account may sign in.
func (u *User) Active() bool {
	if u.Locked {
		return false
	}
	return u.IsActive == nil || *u.IsActive
}
