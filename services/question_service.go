package services

import (
	"errors"
	"fmt"

	"github.com/cdlprep/cdl-prep-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuestionService owns the question pool: authoring validation, random
// sampling for new sessions, and the running per-question statistics.
type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

// validateQuestion enforces the authoring invariants before anything is
// persisted: a usable prompt, at least two options, and exactly one option
// flagged correct.
func validateQuestion(q *models.Question) error {
	if q.Text == "" {
		return fmt.Errorf("%w: question text is required", ErrInvalidQuestion)
	}
	if q.Explanation == "" {
		return fmt.Errorf("%w: explanation is required", ErrInvalidQuestion)
	}
	if !models.IsValidCategory(q.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidQuestion, q.Category)
	}
	if q.Jurisdiction == "" {
		return fmt.Errorf("%w: jurisdiction is required", ErrInvalidQuestion)
	}
	if q.Difficulty != "" && !models.IsValidDifficulty(q.Difficulty) {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidQuestion, q.Difficulty)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: at least two options are required", ErrInvalidQuestion)
	}

	correctCount := 0
	for _, opt := range q.Options {
		if opt.Text == "" {
			return fmt.Errorf("%w: option text is required", ErrInvalidQuestion)
		}
		if opt.IsCorrect {
			correctCount++
		}
	}
	if correctCount == 0 {
		return fmt.Errorf("%w: question must have a correct option", ErrInvalidQuestion)
	}
	if correctCount > 1 {
		return fmt.Errorf("%w: question cannot have multiple correct options", ErrInvalidQuestion)
	}
	return nil
}

// Create validates and persists a new question with its options. Option
// positions are assigned from array order regardless of what the caller
// sent, so the submit-time option index is always well defined.
func (s *QuestionService) Create(q *models.Question) error {
	if err := validateQuestion(q); err != nil {
		return err
	}
	for i := range q.Options {
		q.Options[i].Position = i
	}
	if q.Difficulty == "" {
		q.Difficulty = models.DifficultyIntermediate
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(q).Error
	})
}

// Update replaces a question's content and options. Statistics columns are
// left untouched: they belong to the answer flow, not to authoring.
func (s *QuestionService) Update(id uuid.UUID, updated *models.Question) (*models.Question, error) {
	if err := validateQuestion(updated); err != nil {
		return nil, err
	}

	question, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		question.Category = updated.Category
		question.Jurisdiction = updated.Jurisdiction
		question.Difficulty = updated.Difficulty
		question.Text = updated.Text
		question.ImageURL = updated.ImageURL
		question.Explanation = updated.Explanation
		question.TimeLimitSeconds = updated.TimeLimitSeconds
		question.PointsValue = updated.PointsValue
		question.Tags = updated.Tags
		question.References = updated.References

		if err := tx.Omit("Options").Save(question).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.QuestionOption{}).Error; err != nil {
			return err
		}
		question.Options = make([]models.QuestionOption, len(updated.Options))
		for i, opt := range updated.Options {
			question.Options[i] = models.QuestionOption{
				QuestionID:  question.ID,
				Position:    i,
				Text:        opt.Text,
				IsCorrect:   opt.IsCorrect,
				Explanation: opt.Explanation,
			}
		}
		return tx.Create(&question.Options).Error
	})
	if err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) Get(id uuid.UUID) (*models.Question, error) {
	var question models.Question
	err := s.db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("question_options.position ASC")
	}).First(&question, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}

// ListFilter narrows List to an authoring view of part of the pool. Empty
// fields match everything.
type ListFilter struct {
	Category     string
	Jurisdiction string
	Difficulty   string
}

func (s *QuestionService) List(filter ListFilter) ([]models.Question, error) {
	query := s.db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("question_options.position ASC")
	})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Jurisdiction != "" {
		query = query.Where("jurisdiction = ?", filter.Jurisdiction)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}

	var questions []models.Question
	if err := query.Order("created_at DESC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (s *QuestionService) Delete(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&models.QuestionOption{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Question{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrQuestionNotFound
		}
		return nil
	})
}

// SampleParams selects the question pool for one practice test.
type SampleParams struct {
	Category     string
	Jurisdiction string
	Difficulty   string // optional
	Count        int
	ExcludeIDs   []uuid.UUID
}

// Sample draws up to Count questions uniformly at random, without
// replacement, from the matching pool. Fewer matches than Count is not an
// error; the caller just gets a shorter test.
func (s *QuestionService) Sample(p SampleParams) ([]models.Question, error) {
	query := s.db.Where("category = ? AND jurisdiction = ?", p.Category, p.Jurisdiction)
	if p.Difficulty != "" {
		query = query.Where("difficulty = ?", p.Difficulty)
	}
	if len(p.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", p.ExcludeIDs)
	}

	var questions []models.Question
	err := query.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("question_options.position ASC")
	}).Order("random()").Limit(p.Count).Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return capSample(questions, p.Count), nil
}

// capSample enforces the draw contract: at most count questions, none
// repeated.
func capSample(questions []models.Question, count int) []models.Question {
	seen := make(map[uuid.UUID]struct{}, len(questions))
	out := questions[:0]
	for _, q := range questions {
		if _, ok := seen[q.ID]; ok {
			continue
		}
		seen[q.ID] = struct{}{}
		out = append(out, q)
		if len(out) == count {
			break
		}
	}
	return out
}

// applyAnswerOutcome folds one answer into a question's running statistics:
// incremental mean for time spent (no stored sample list to recompute from),
// counter bumps, and the difficulty rating recomputed as
// 1 - correct/answered, clamped to [0,1].
func applyAnswerOutcome(q *models.Question, timeSpentSeconds float64, wasCorrect bool) {
	oldTotal := q.TimesAnswered
	newTotal := oldTotal + 1

	q.AverageTimeSpent = (q.AverageTimeSpent*float64(oldTotal) + timeSpentSeconds) / float64(newTotal)
	q.TimesAnswered = newTotal
	if wasCorrect {
		q.CorrectAnswers++
	}

	rating := 1 - float64(q.CorrectAnswers)/float64(q.TimesAnswered)
	if rating < 0 {
		rating = 0
	}
	if rating > 1 {
		rating = 1
	}
	q.DifficultyRating = rating
}

// RecordAnswerOutcome updates the question's running statistics for one
// submitted answer. The row is locked for the duration of the fold, so
// concurrent submissions against the same question serialize and never lose
// increments.
func (s *QuestionService) RecordAnswerOutcome(questionID uuid.UUID, timeSpentSeconds float64, wasCorrect bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.recordOutcome(tx, questionID, timeSpentSeconds, wasCorrect)
	})
}

// recordOutcome runs inside the caller's transaction so an answer write and
// its statistics bump commit together.
func (s *QuestionService) recordOutcome(tx *gorm.DB, questionID uuid.UUID, timeSpentSeconds float64, wasCorrect bool) error {
	var question models.Question
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&question, "id = ?", questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}

	applyAnswerOutcome(&question, timeSpentSeconds, wasCorrect)

	return tx.Model(&question).
		Select("times_answered", "correct_answers", "average_time_spent", "difficulty_rating").
		Updates(&question).Error
}
