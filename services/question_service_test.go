package services

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/cdlprep/cdl-prep-backend/models"
	"github.com/google/uuid"
)

func option(text string, correct bool) models.QuestionOption {
	return models.QuestionOption{Text: text, IsCorrect: correct}
}

func validQuestion() *models.Question {
	return &models.Question{
		Category:     models.CategoryAirBrakes,
		Jurisdiction: "CA",
		Difficulty:   models.DifficultyIntermediate,
		Text:         "At what PSI does the low air pressure warning activate?",
		Explanation:  "The warning must activate before pressure drops below 60 PSI.",
		Options: []models.QuestionOption{
			option("30 PSI", false),
			option("60 PSI", true),
			option("90 PSI", false),
			option("120 PSI", false),
		},
	}
}

func TestValidateQuestion(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(q *models.Question)
		wantErr bool
	}{
		{"valid question", func(q *models.Question) {}, false},
		{"no correct option", func(q *models.Question) {
			q.Options[1].IsCorrect = false
		}, true},
		{"two correct options", func(q *models.Question) {
			q.Options[0].IsCorrect = true
		}, true},
		{"all options correct", func(q *models.Question) {
			for i := range q.Options {
				q.Options[i].IsCorrect = true
			}
		}, true},
		{"single option", func(q *models.Question) {
			q.Options = q.Options[1:2]
		}, true},
		{"no options", func(q *models.Question) {
			q.Options = nil
		}, true},
		{"empty option text", func(q *models.Question) {
			q.Options[2].Text = ""
		}, true},
		{"missing question text", func(q *models.Question) {
			q.Text = ""
		}, true},
		{"missing explanation", func(q *models.Question) {
			q.Explanation = ""
		}, true},
		{"unknown category", func(q *models.Question) {
			q.Category = "motorcycles"
		}, true},
		{"missing jurisdiction", func(q *models.Question) {
			q.Jurisdiction = ""
		}, true},
		{"unknown difficulty", func(q *models.Question) {
			q.Difficulty = "impossible"
		}, true},
		{"empty difficulty allowed", func(q *models.Question) {
			q.Difficulty = ""
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuestion()
			tt.mutate(q)

			err := validateQuestion(q)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if !errors.Is(err, ErrInvalidQuestion) {
					t.Fatalf("expected ErrInvalidQuestion, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// One draw never exceeds the requested count and never repeats a question.
func TestCapSample(t *testing.T) {
	a := models.Question{ID: uuid.New()}
	b := models.Question{ID: uuid.New()}
	c := models.Question{ID: uuid.New()}

	tests := []struct {
		name    string
		pool    []models.Question
		count   int
		wantIDs []uuid.UUID
	}{
		{"under count", []models.Question{a, b}, 5, []uuid.UUID{a.ID, b.ID}},
		{"exact count", []models.Question{a, b, c}, 3, []uuid.UUID{a.ID, b.ID, c.ID}},
		{"truncates to count", []models.Question{a, b, c}, 2, []uuid.UUID{a.ID, b.ID}},
		{"drops duplicates", []models.Question{a, b, a, c}, 3, []uuid.UUID{a.ID, b.ID, c.ID}},
		{"empty pool", nil, 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := capSample(tt.pool, tt.count)

			if len(got) != len(tt.wantIDs) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.wantIDs))
			}
			if len(got) > tt.count {
				t.Fatalf("len = %d exceeds count %d", len(got), tt.count)
			}
			seen := make(map[uuid.UUID]bool)
			for i, q := range got {
				if seen[q.ID] {
					t.Fatalf("question %s drawn twice", q.ID)
				}
				seen[q.ID] = true
				if q.ID != tt.wantIDs[i] {
					t.Errorf("got[%d] = %s, want %s", i, q.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestApplyAnswerOutcome(t *testing.T) {
	q := &models.Question{DifficultyRating: 0.5}

	outcomes := []struct {
		timeSpent float64
		correct   bool
	}{
		{30, true},
		{60, false},
		{90, true},
	}
	for _, o := range outcomes {
		applyAnswerOutcome(q, o.timeSpent, o.correct)
	}

	if q.TimesAnswered != 3 {
		t.Errorf("TimesAnswered = %d, want 3", q.TimesAnswered)
	}
	if q.CorrectAnswers != 2 {
		t.Errorf("CorrectAnswers = %d, want 2", q.CorrectAnswers)
	}
	if q.AverageTimeSpent != 60 {
		t.Errorf("AverageTimeSpent = %v, want 60", q.AverageTimeSpent)
	}
	wantRating := 1 - 2.0/3.0
	if math.Abs(q.DifficultyRating-wantRating) > 1e-9 {
		t.Errorf("DifficultyRating = %v, want %v", q.DifficultyRating, wantRating)
	}
}

func TestApplyAnswerOutcomeBounds(t *testing.T) {
	q := &models.Question{DifficultyRating: 0.5}

	applyAnswerOutcome(q, 10, true)
	if q.DifficultyRating != 0 {
		t.Errorf("all-correct rating = %v, want 0", q.DifficultyRating)
	}

	q = &models.Question{DifficultyRating: 0.5}
	applyAnswerOutcome(q, 10, false)
	if q.DifficultyRating != 1 {
		t.Errorf("all-wrong rating = %v, want 1", q.DifficultyRating)
	}
}

// Serialized concurrent folds must not lose increments; the mutex stands in
// for the row lock RecordAnswerOutcome takes.
func TestApplyAnswerOutcomeConcurrent(t *testing.T) {
	const workers = 64

	q := &models.Question{DifficultyRating: 0.5}
	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			mu.Lock()
			applyAnswerOutcome(q, 45, true)
			mu.Unlock()
		}()
	}
	wg.Wait()

	if q.TimesAnswered != workers {
		t.Errorf("TimesAnswered = %d, want %d", q.TimesAnswered, workers)
	}
	if q.CorrectAnswers != workers {
		t.Errorf("CorrectAnswers = %d, want %d", q.CorrectAnswers, workers)
	}
	if math.Abs(q.AverageTimeSpent-45) > 1e-9 {
		t.Errorf("AverageTimeSpent = %v, want 45", q.AverageTimeSpent)
	}
	if q.DifficultyRating != 0 {
		t.Errorf("DifficultyRating = %v, want 0", q.DifficultyRating)
	}
}
