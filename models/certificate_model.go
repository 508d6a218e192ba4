package models

import (
	"time"

	"github.com/google/uuid"
)

// Certificate records a passing practice-test result rendered to PDF and
// stored in Cloudinary.
type Certificate struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TestSessionID  uuid.UUID `gorm:"type:uuid;not null;unique" json:"test_session_id"`
	Category       string    `gorm:"size:50;not null" json:"category"`
	Jurisdiction   string    `gorm:"size:10;not null" json:"jurisdiction"`
	Score          float64   `gorm:"not null" json:"score"`
	IssuedAt       time.Time `gorm:"not null" json:"issued_at"`
	CertificateURL string    `gorm:"type:text;not null" json:"certificate_url"`

	User        User        `gorm:"foreignKey:UserID" json:"-"`
	TestSession TestSession `gorm:"foreignKey:TestSessionID" json:"-"`
}
