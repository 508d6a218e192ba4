package services

import (
	"sort"

	"github.com/cdlprep/cdl-prep-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DashboardStats is the rollup the dashboard shows for one user.
type DashboardStats struct {
	TestsCompleted        int     `json:"tests_completed"`
	AverageScore          float64 `json:"average_score"`
	TestsPassed           int     `json:"tests_passed"`
	CorrectAnswers        int     `json:"correct_answers"`
	CurrentStreak         int     `json:"current_streak"`
	TotalStudyTimeSeconds float64 `json:"total_study_time_seconds"`
}

// StatsService aggregates completed sessions into profile statistics.
type StatsService struct {
	db           *gorm.DB
	passingScore float64
}

func NewStatsService(db *gorm.DB, passingScore float64) *StatsService {
	return &StatsService{db: db, passingScore: passingScore}
}

// ComputeStats folds a user's sessions into dashboard statistics. It is a
// pure function: sessions that are not completed are ignored, nothing is
// mutated, and the passing threshold is a parameter rather than a constant.
func ComputeStats(sessions []models.TestSession, passingScore float64) DashboardStats {
	var stats DashboardStats

	completed := make([]models.TestSession, 0, len(sessions))
	for _, session := range sessions {
		if session.Status == models.SessionStatusCompleted {
			completed = append(completed, session)
		}
	}
	if len(completed) == 0 {
		return stats
	}

	// Streak walks most-recent-first, so order by end time descending.
	sort.Slice(completed, func(i, j int) bool {
		ti, tj := completed[i].EndTime, completed[j].EndTime
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.After(*tj)
		}
	})

	var scoreSum float64
	streakBroken := false
	for _, session := range completed {
		stats.TestsCompleted++
		scoreSum += session.Score
		if session.Score >= passingScore {
			stats.TestsPassed++
			if !streakBroken {
				stats.CurrentStreak++
			}
		} else {
			streakBroken = true
		}
		for _, answer := range session.Answers {
			if answer.IsCorrect {
				stats.CorrectAnswers++
			}
		}
		if session.EndTime != nil {
			stats.TotalStudyTimeSeconds += session.EndTime.Sub(session.StartTime).Seconds()
		}
	}
	stats.AverageScore = scoreSum / float64(stats.TestsCompleted)

	return stats
}

// UserStats loads the user's completed sessions and folds them.
func (s *StatsService) UserStats(userID uuid.UUID) (DashboardStats, error) {
	var sessions []models.TestSession
	err := s.db.Preload("Answers").
		Where("user_id = ? AND status = ?", userID, models.SessionStatusCompleted).
		Order("end_time DESC").
		Find(&sessions).Error
	if err != nil {
		return DashboardStats{}, err
	}
	return ComputeStats(sessions, s.passingScore), nil
}

// RecentTests returns the user's latest sessions, newest first, for the
// dashboard's recent-activity list.
func (s *StatsService) RecentTests(userID uuid.UUID, limit int) ([]models.TestSession, error) {
	if limit <= 0 {
		limit = 10
	}
	var sessions []models.TestSession
	err := s.db.
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
