package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionStatusInProgress = "in-progress"
	SessionStatusCompleted  = "completed"
)

// TestSession is one practice exam attempt. Status only ever moves forward
// (in-progress -> completed); once completed the row is read-only.
type TestSession struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Category     string     `gorm:"size:50;not null" json:"category"`
	Jurisdiction string     `gorm:"size:10;not null" json:"jurisdiction"`
	StartTime    time.Time  `gorm:"not null" json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	Status       string     `gorm:"size:20;not null;default:'in-progress';index" json:"status"`
	Score        float64    `gorm:"not null;default:0" json:"score"`

	Answers []SessionAnswer `gorm:"foreignKey:TestSessionID" json:"answers,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// SessionAnswer is one submitted answer. Position records arrival order.
type SessionAnswer struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"-"`
	TestSessionID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	QuestionID       uuid.UUID `gorm:"type:uuid;not null" json:"question_id"`
	Position         int       `gorm:"not null" json:"position"`
	SelectedOption   int       `gorm:"not null" json:"selected_option"`
	IsCorrect        bool      `gorm:"not null" json:"is_correct"`
	TimeSpentSeconds float64   `gorm:"not null;default:0" json:"time_spent_seconds"`

	Question Question `gorm:"foreignKey:QuestionID" json:"-"`
}
