package models

import (
	"time"

	"github.com/google/uuid"
)

// TestHistoryEntry is the per-completion summary appended to a user's
// history when a session is finalized. It denormalizes the numbers the
// profile and dashboard screens show so they never join through answers.
type TestHistoryEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TestSessionID  uuid.UUID `gorm:"type:uuid;not null;unique" json:"test_session_id"`
	Category       string    `gorm:"size:50;not null" json:"category"`
	Jurisdiction   string    `gorm:"size:10;not null" json:"jurisdiction"`
	Score          float64   `gorm:"not null" json:"score"`
	TotalQuestions int       `gorm:"not null" json:"total_questions"`
	CorrectAnswers int       `gorm:"not null" json:"correct_answers"`
	CompletedAt    time.Time `gorm:"not null;index" json:"completed_at"`

	User        User        `gorm:"foreignKey:UserID" json:"-"`
	TestSession TestSession `gorm:"foreignKey:TestSessionID" json:"-"`
}
