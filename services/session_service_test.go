package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cdlprep/cdl-prep-backend/models"
	"github.com/google/uuid"
)

func answers(correctness ...bool) []models.SessionAnswer {
	out := make([]models.SessionAnswer, len(correctness))
	for i, c := range correctness {
		out[i] = models.SessionAnswer{Position: i, IsCorrect: c}
	}
	return out
}

func TestScoreAnswers(t *testing.T) {
	tests := []struct {
		name        string
		answers     []models.SessionAnswer
		wantCorrect int
		wantScore   float64
	}{
		{"three of four", answers(true, false, true, true), 3, 75},
		{"all correct", answers(true, true), 2, 100},
		{"all wrong", answers(false, false, false), 0, 0},
		{"no answers scores zero", nil, 0, 0},
		{"single correct", answers(true), 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, score := scoreAnswers(tt.answers)
			if correct != tt.wantCorrect {
				t.Errorf("correct = %d, want %d", correct, tt.wantCorrect)
			}
			if score != tt.wantScore {
				t.Errorf("score = %v, want %v", score, tt.wantScore)
			}
		})
	}
}

func TestNewSessionStartsInProgress(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	session := newSession(uuid.New(), models.CategoryHazmat, "TX", now)

	if session.Status != models.SessionStatusInProgress {
		t.Errorf("Status = %q, want %q", session.Status, models.SessionStatusInProgress)
	}
	if session.Score != 0 {
		t.Errorf("Score = %v, want 0", session.Score)
	}
	if len(session.Answers) != 0 {
		t.Errorf("Answers = %d entries, want none", len(session.Answers))
	}
	if !session.StartTime.Equal(now) {
		t.Errorf("StartTime = %v, want %v", session.StartTime, now)
	}
	if session.EndTime != nil {
		t.Errorf("EndTime = %v, want nil", session.EndTime)
	}
}

func TestApplyCompletion(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	session := &models.TestSession{
		Status:    models.SessionStatusInProgress,
		StartTime: start,
		Answers:   answers(true, false, true, true),
	}
	now := start.Add(15 * time.Minute)

	result, err := applyCompletion(session, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 75 {
		t.Errorf("Score = %v, want 75", result.Score)
	}
	if result.TotalQuestions != 4 || result.CorrectAnswers != 3 {
		t.Errorf("totals = %d/%d, want 4/3", result.TotalQuestions, result.CorrectAnswers)
	}
	if result.TimeSpentSeconds != 900 {
		t.Errorf("TimeSpentSeconds = %v, want 900", result.TimeSpentSeconds)
	}
	if session.Status != models.SessionStatusCompleted {
		t.Errorf("Status = %q, want %q", session.Status, models.SessionStatusCompleted)
	}
	if session.EndTime == nil || !session.EndTime.Equal(now) {
		t.Errorf("EndTime = %v, want %v", session.EndTime, now)
	}
	if session.Score != 75 {
		t.Errorf("session Score = %v, want 75", session.Score)
	}
}

// A second completion must fail without touching the stored score or end
// time.
func TestApplyCompletionAlreadyCompleted(t *testing.T) {
	end := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	session := &models.TestSession{
		Status:  models.SessionStatusCompleted,
		Score:   75,
		EndTime: &end,
		Answers: answers(true, true, true, true),
	}

	_, err := applyCompletion(session, end.Add(time.Hour))
	if !errors.Is(err, ErrSessionCompleted) {
		t.Fatalf("expected ErrSessionCompleted, got %v", err)
	}
	if session.Score != 75 {
		t.Errorf("Score = %v, want 75 untouched", session.Score)
	}
	if !session.EndTime.Equal(end) {
		t.Errorf("EndTime = %v, want %v untouched", session.EndTime, end)
	}
}

// Answer submission against a finalized session is an invalid-state error.
func TestEnsureInProgress(t *testing.T) {
	completed := &models.TestSession{Status: models.SessionStatusCompleted}
	if err := ensureInProgress(completed); !errors.Is(err, ErrSessionCompleted) {
		t.Errorf("completed session: expected ErrSessionCompleted, got %v", err)
	}

	active := &models.TestSession{Status: models.SessionStatusInProgress}
	if err := ensureInProgress(active); err != nil {
		t.Errorf("in-progress session: unexpected error %v", err)
	}
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC-6", -6*3600)
	now := time.Date(2025, 6, 2, 2, 30, 0, 0, time.UTC) // 20:30 the day before in loc

	if got, want := startOfDay(now, loc), time.Date(2025, 6, 1, 0, 0, 0, 0, loc); !got.Equal(want) {
		t.Errorf("startOfDay in UTC-6 = %v, want %v", got, want)
	}
	if got, want := startOfDay(now, time.UTC), time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("startOfDay in UTC = %v, want %v", got, want)
	}
}

func TestLockSessionSameID(t *testing.T) {
	s := &SessionService{}
	id := uuid.New()

	if s.lockSession(id) != s.lockSession(id) {
		t.Error("same session id must map to the same mutex")
	}
	if s.lockSession(id) == s.lockSession(uuid.New()) {
		t.Error("different session ids must map to different mutexes")
	}
}

func TestReleaseSessionDropsLock(t *testing.T) {
	s := &SessionService{}
	id := uuid.New()

	first := s.lockSession(id)
	s.releaseSession(id)
	if s.lockSession(id) == first {
		t.Error("released session must get a fresh mutex")
	}
}

// Two goroutines contending on the same session lock must fully serialize;
// one guarded counter increment per critical section means no lost updates.
func TestLockSessionSerializes(t *testing.T) {
	const iterations = 200

	s := &SessionService{}
	id := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	wg.Add(2)
	for w := 0; w < 2; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				mu := s.lockSession(id)
				mu.Lock()
				counter++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if counter != 2*iterations {
		t.Errorf("counter = %d, want %d", counter, 2*iterations)
	}
}
