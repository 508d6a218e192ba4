package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Phone    *string   `gorm:"size:30;unique" json:"phone,omitempty"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'student'" json:"role"`

	IsPremium  bool `gorm:"default:false" json:"is_premium"`
	IsVerified bool `gorm:"default:false" json:"is_verified"`

	VerificationCode          *string    `gorm:"size:10" json:"-"`
	VerificationCodeExpiresAt *time.Time `json:"-"`

	ProfilePictureURL *string `gorm:"size:255" json:"profile_picture_url,omitempty"`
	Jurisdiction      *string `gorm:"size:10" json:"jurisdiction,omitempty"`

	ResetPasswordToken          *string    `gorm:"size:255;unique" json:"-"`
	ResetPasswordTokenExpiresAt *time.Time `json:"-"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
