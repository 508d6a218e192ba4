package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	CategoryGeneralKnowledge    = "general_knowledge"
	CategoryAirBrakes           = "air_brakes"
	CategoryCombinationVehicles = "combination_vehicles"
	CategoryHazmat              = "hazmat"
	CategoryTanker              = "tanker"
	CategoryDoublesTriples      = "doubles_triples"
	CategoryPassenger           = "passenger"
	CategorySchoolBus           = "school_bus"
)

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Categories lists every exam section in a stable order.
var Categories = []string{
	CategoryGeneralKnowledge,
	CategoryAirBrakes,
	CategoryCombinationVehicles,
	CategoryHazmat,
	CategoryTanker,
	CategoryDoublesTriples,
	CategoryPassenger,
	CategorySchoolBus,
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

func IsValidDifficulty(difficulty string) bool {
	return difficulty == DifficultyBeginner ||
		difficulty == DifficultyIntermediate ||
		difficulty == DifficultyAdvanced
}

type Question struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Category     string    `gorm:"size:50;not null;index:idx_questions_pool" json:"category"`
	Jurisdiction string    `gorm:"size:10;not null;index:idx_questions_pool" json:"jurisdiction"`
	Difficulty   string    `gorm:"size:20;not null;default:'intermediate'" json:"difficulty"`
	Text         string    `gorm:"type:text;not null" json:"text"`
	ImageURL     *string   `gorm:"size:255" json:"image_url,omitempty"`
	Explanation  string    `gorm:"type:text;not null" json:"explanation"`

	Options []QuestionOption `gorm:"foreignKey:QuestionID" json:"options"`

	TimeLimitSeconds int            `gorm:"not null;default:90" json:"time_limit_seconds"`
	PointsValue      int            `gorm:"not null;default:1" json:"points_value"`
	Tags             datatypes.JSON `gorm:"type:jsonb" json:"tags,omitempty"`
	References       datatypes.JSON `gorm:"type:jsonb" json:"references,omitempty"` // CDL manual citations, e.g. "Section 5.1"

	// Running performance statistics, mutated only by answer submissions.
	TimesAnswered    int     `gorm:"not null;default:0" json:"times_answered"`
	CorrectAnswers   int     `gorm:"not null;default:0" json:"correct_answers"`
	AverageTimeSpent float64 `gorm:"not null;default:0" json:"average_time_spent"`
	DifficultyRating float64 `gorm:"not null;default:0.5" json:"difficulty_rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuestionOption is one answer choice. Position is the index clients submit
// when they pick this option, so option order is part of the record.
type QuestionOption struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"-"`
	QuestionID  uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position    int       `gorm:"not null" json:"position"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	IsCorrect   bool      `gorm:"not null" json:"is_correct"`
	Explanation *string   `gorm:"type:text" json:"explanation,omitempty"`
}

// CorrectOption returns the position of the single correct option, or -1 if
// the record is malformed.
func (q *Question) CorrectOption() int {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt.Position
		}
	}
	return -1
}
