package services

import (
	"math"
	"testing"
	"time"

	"github.com/cdlprep/cdl-prep-backend/models"
)

func completedSession(score float64, endOffset time.Duration, correct int) models.TestSession {
	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Add(endOffset)
	session := models.TestSession{
		Status:    models.SessionStatusCompleted,
		Score:     score,
		StartTime: end.Add(-20 * time.Minute),
		EndTime:   &end,
	}
	for i := 0; i < correct; i++ {
		session.Answers = append(session.Answers, models.SessionAnswer{IsCorrect: true})
	}
	session.Answers = append(session.Answers, models.SessionAnswer{IsCorrect: false})
	return session
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil, 80)

	if stats.TestsCompleted != 0 {
		t.Errorf("TestsCompleted = %d, want 0", stats.TestsCompleted)
	}
	if stats.AverageScore != 0 {
		t.Errorf("AverageScore = %v, want 0", stats.AverageScore)
	}
	if stats.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0", stats.CurrentStreak)
	}
}

func TestComputeStatsIgnoresInProgress(t *testing.T) {
	sessions := []models.TestSession{
		{Status: models.SessionStatusInProgress, Score: 0},
		completedSession(90, 0, 9),
	}

	stats := ComputeStats(sessions, 80)
	if stats.TestsCompleted != 1 {
		t.Errorf("TestsCompleted = %d, want 1", stats.TestsCompleted)
	}
	if stats.AverageScore != 90 {
		t.Errorf("AverageScore = %v, want 90", stats.AverageScore)
	}
}

func TestComputeStatsAggregates(t *testing.T) {
	sessions := []models.TestSession{
		completedSession(90, 3*time.Hour, 9),
		completedSession(85, 2*time.Hour, 8),
		completedSession(60, 1*time.Hour, 6),
	}

	stats := ComputeStats(sessions, 80)

	if stats.TestsCompleted != 3 {
		t.Errorf("TestsCompleted = %d, want 3", stats.TestsCompleted)
	}
	wantAverage := (90.0 + 85.0 + 60.0) / 3
	if math.Abs(stats.AverageScore-wantAverage) > 1e-9 {
		t.Errorf("AverageScore = %v, want %v", stats.AverageScore, wantAverage)
	}
	if stats.TestsPassed != 2 {
		t.Errorf("TestsPassed = %d, want 2", stats.TestsPassed)
	}
	if stats.CorrectAnswers != 9+8+6 {
		t.Errorf("CorrectAnswers = %d, want %d", stats.CorrectAnswers, 9+8+6)
	}
}

func TestComputeStatsStreak(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64 // oldest first; passing threshold is 80
		want   int
	}{
		{"two recent passes then old fail", []float64{90, 50, 85, 95}, 2},
		{"most recent failed", []float64{95, 90, 40}, 0},
		{"all passing", []float64{80, 85, 90}, 3},
		{"all failing", []float64{10, 20, 30}, 0},
		{"exactly at threshold counts", []float64{79.9, 80}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sessions []models.TestSession
			for i, score := range tt.scores {
				sessions = append(sessions, completedSession(score, time.Duration(i)*time.Hour, 5))
			}

			stats := ComputeStats(sessions, 80)
			if stats.CurrentStreak != tt.want {
				t.Errorf("CurrentStreak = %d, want %d", stats.CurrentStreak, tt.want)
			}
		})
	}
}

// The fold must order by end time itself; callers are not trusted to sort.
func TestComputeStatsUnorderedInput(t *testing.T) {
	sessions := []models.TestSession{
		completedSession(40, 1*time.Hour, 4),
		completedSession(95, 3*time.Hour, 9), // most recent
		completedSession(90, 2*time.Hour, 9),
	}

	stats := ComputeStats(sessions, 80)
	if stats.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", stats.CurrentStreak)
	}
}
