package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type VerifyOTPRequest struct {
	OTP string `json:"otp" validate:"required,len=6,numeric"`
}

// RegisterPatientRequest registers a patient account with its profile
type RegisterPatientRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"full_name" validate:"required,min=2,max=255"`
	NationalID  string `json:"national_id" validate:"omitempty,max=20"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=9,max=20"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,date_ymd"`
	Gender      string `json:"gender" validate:"omitempty,oneof=male female"`
	City        string `json:"city" validate:"omitempty,max=100"`
}

// RegisterTherapistRequest registers a therapist account with its profile
type RegisterTherapistRequest struct {
	Email           string          `json:"email" validate:"required,email"`
	Password        string          `json:"password" validate:"required,min=8"`
	FullName        string          `json:"full_name" validate:"required,min=2,max=255"`
	LicenseNumber   string          `json:"license_number" validate:"omitempty,max=50"`
	Specialization  string          `json:"specialization" validate:"required,max=100"`
	City            string          `json:"city" validate:"omitempty,max=100"`
	Biography       string          `json:"biography" validate:"omitempty"`
	YearsExperience int             `json:"years_experience" validate:"gte=0,lte=70"`
	BasePrice       decimal.Decimal `json:"base_price"`
	SessionModes    []string        `json:"session_modes" validate:"omitempty,dive,oneof=online home clinic"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID               uuid.UUID                 `json:"id"`
	Email            string                    `json:"email"`
	FullName         string                    `json:"full_name"`
	Role             string                    `json:"role"`
	EmailVerified    bool                      `json:"email_verified"`
	TherapistProfile *TherapistProfileResponse `json:"therapist_profile,omitempty"`
	PatientProfile   *PatientProfileResponse   `json:"patient_profile,omitempty"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

type PatientProfileResponse struct {
	NationalID       string `json:"national_id,omitempty"`
	PhoneNumber      string `json:"phone_number,omitempty"`
	DateOfBirth      string `json:"date_of_birth,omitempty"`
	Gender           string `json:"gender,omitempty"`
	City             string `json:"city,omitempty"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
}
