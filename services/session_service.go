package services

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cdlprep/cdl-prep-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionService drives the practice-test lifecycle:
// in-progress -> completed, never backwards. Writes to one session are
// serialized through a per-session mutex, and completion is additionally
// guarded by a conditional UPDATE so a retried complete can never finalize
// twice even across processes.
type SessionService struct {
	db           *gorm.DB
	questions    *QuestionService
	certificates *CertificateService // nil disables certificate issuance
	passingScore float64
	freeLimit    int
	quotaLoc     *time.Location

	locks sync.Map // session id -> *sync.Mutex
}

func NewSessionService(db *gorm.DB, questions *QuestionService, certificates *CertificateService, passingScore float64, freeLimit int, quotaLoc *time.Location) *SessionService {
	if quotaLoc == nil {
		quotaLoc = time.UTC
	}
	return &SessionService{
		db:           db,
		questions:    questions,
		certificates: certificates,
		passingScore: passingScore,
		freeLimit:    freeLimit,
		quotaLoc:     quotaLoc,
	}
}

func (s *SessionService) lockSession(id uuid.UUID) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// releaseSession drops a finalized session's lock entry; a completed session
// takes no further writes, so the registry stays bounded by the number of
// sessions actually in progress.
func (s *SessionService) releaseSession(id uuid.UUID) {
	s.locks.Delete(id)
}

// ensureInProgress rejects any write against a session that has already
// been finalized.
func ensureInProgress(session *models.TestSession) error {
	if session.Status != models.SessionStatusInProgress {
		return ErrSessionCompleted
	}
	return nil
}

// startOfDay returns midnight of now's calendar day in loc.
func startOfDay(now time.Time, loc *time.Location) time.Time {
	t := now.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// newSession builds a fresh attempt: in progress, no answers, score zero.
func newSession(userID uuid.UUID, category, jurisdiction string, now time.Time) models.TestSession {
	return models.TestSession{
		UserID:       userID,
		Category:     category,
		Jurisdiction: jurisdiction,
		StartTime:    now,
		Status:       models.SessionStatusInProgress,
		Score:        0,
	}
}

// StartParams describes one new practice test.
type StartParams struct {
	UserID       uuid.UUID
	Category     string
	Jurisdiction string
	Difficulty   string // optional filter
	Count        int
	ExcludeIDs   []uuid.UUID
}

// Start creates a session in progress with an empty answer sequence and
// returns it together with the sampled question set. Non-premium users are
// limited to a configured number of sessions per calendar day.
func (s *SessionService) Start(p StartParams) (*models.TestSession, []models.Question, error) {
	if !models.IsValidCategory(p.Category) {
		return nil, nil, fmt.Errorf("%w: unknown category %q", ErrInvalidQuestion, p.Category)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", p.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	if !user.IsPremium && user.Role != "admin" {
		dayStart := startOfDay(time.Now(), s.quotaLoc)
		var startedToday int64
		err := s.db.Model(&models.TestSession{}).
			Where("user_id = ? AND start_time >= ?", user.ID, dayStart).
			Count(&startedToday).Error
		if err != nil {
			return nil, nil, err
		}
		if startedToday >= int64(s.freeLimit) {
			return nil, nil, ErrQuotaExceeded
		}
	}

	questions, err := s.questions.Sample(SampleParams{
		Category:     p.Category,
		Jurisdiction: p.Jurisdiction,
		Difficulty:   p.Difficulty,
		Count:        p.Count,
		ExcludeIDs:   p.ExcludeIDs,
	})
	if err != nil {
		return nil, nil, err
	}

	session := newSession(p.UserID, p.Category, p.Jurisdiction, time.Now())
	if err := s.db.Create(&session).Error; err != nil {
		return nil, nil, err
	}

	return &session, questions, nil
}

// SubmitAnswer appends one answer record, computing correctness against the
// question's correct option at submit time, and forwards the outcome into
// the question's running statistics. The session's status and score are not
// touched here.
func (s *SessionService) SubmitAnswer(userID, sessionID, questionID uuid.UUID, selectedOption int, timeSpentSeconds float64) (bool, error) {
	mu := s.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	var session models.TestSession
	err := s.db.First(&session, "id = ? AND user_id = ?", sessionID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrSessionNotFound
		}
		return false, err
	}
	if err := ensureInProgress(&session); err != nil {
		return false, err
	}

	question, err := s.questions.Get(questionID)
	if err != nil {
		return false, err
	}
	// Any index that is not the correct option is simply a wrong answer,
	// including out-of-range ones.
	isCorrect := question.CorrectOption() == selectedOption

	var answered int64
	if err := s.db.Model(&models.SessionAnswer{}).
		Where("test_session_id = ?", session.ID).
		Count(&answered).Error; err != nil {
		return false, err
	}

	answer := models.SessionAnswer{
		TestSessionID:    session.ID,
		QuestionID:       question.ID,
		Position:         int(answered),
		SelectedOption:   selectedOption,
		IsCorrect:        isCorrect,
		TimeSpentSeconds: timeSpentSeconds,
	}
	// One transaction for the answer row and the statistics bump: a retry
	// after a stats failure must not leave a second copy of the answer.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&answer).Error; err != nil {
			return err
		}
		return s.questions.recordOutcome(tx, question.ID, timeSpentSeconds, isCorrect)
	})
	if err != nil {
		return false, err
	}

	return isCorrect, nil
}

// Result is the summary returned when a session is finalized.
type Result struct {
	Score            float64 `json:"score"`
	TotalQuestions   int     `json:"total_questions"`
	CorrectAnswers   int     `json:"correct_answers"`
	TimeSpentSeconds float64 `json:"time_spent_seconds"`
}

// scoreAnswers computes the final percentage: 100 * correct / answered, or
// 0 for an empty attempt.
func scoreAnswers(answers []models.SessionAnswer) (correct int, score float64) {
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	if len(answers) > 0 {
		score = float64(correct) / float64(len(answers)) * 100
	}
	return correct, score
}

// Complete finalizes an in-progress session: end timestamp, completed
// status, and the score recomputed from the recorded answers. Completing an
// already-completed session fails with ErrSessionCompleted and leaves the
// stored score and end time untouched.
func (s *SessionService) Complete(userID, sessionID uuid.UUID) (*Result, error) {
	mu := s.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	var session models.TestSession
	err := s.db.Preload("Answers").First(&session, "id = ? AND user_id = ?", sessionID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return s.finalize(&session)
}

// applyCompletion is the in-memory completion transition: it rejects a
// session that is not in progress, otherwise stamps the completed status,
// the end time, and the score recomputed from the recorded answers.
func applyCompletion(session *models.TestSession, now time.Time) (*Result, error) {
	if err := ensureInProgress(session); err != nil {
		return nil, err
	}

	correct, score := scoreAnswers(session.Answers)
	session.Status = models.SessionStatusCompleted
	session.EndTime = &now
	session.Score = score

	return &Result{
		Score:            score,
		TotalQuestions:   len(session.Answers),
		CorrectAnswers:   correct,
		TimeSpentSeconds: now.Sub(session.StartTime).Seconds(),
	}, nil
}

func (s *SessionService) finalize(session *models.TestSession) (*Result, error) {
	now := time.Now()
	result, err := applyCompletion(session, now)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Conditional update: the status predicate makes finalization
		// first-writer-wins even if the in-process lock was bypassed.
		res := tx.Model(&models.TestSession{}).
			Where("id = ? AND status = ?", session.ID, models.SessionStatusInProgress).
			Updates(map[string]interface{}{
				"status":   models.SessionStatusCompleted,
				"end_time": now,
				"score":    session.Score,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSessionCompleted
		}

		entry := models.TestHistoryEntry{
			UserID:         session.UserID,
			TestSessionID:  session.ID,
			Category:       session.Category,
			Jurisdiction:   session.Jurisdiction,
			Score:          session.Score,
			TotalQuestions: result.TotalQuestions,
			CorrectAnswers: result.CorrectAnswers,
			CompletedAt:    now,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	s.releaseSession(session.ID)

	if s.certificates != nil && session.Score >= s.passingScore {
		snapshot := *session
		go s.certificates.IssueForSession(snapshot)
	}

	return result, nil
}

// GetResult returns the full session record with its ordered answer history
// and the answered questions, for review screens.
func (s *SessionService) GetResult(userID, sessionID uuid.UUID) (*models.TestSession, error) {
	var session models.TestSession
	err := s.db.
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("session_answers.position ASC")
		}).
		Preload("Answers.Question").
		Preload("Answers.Question.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.position ASC")
		}).
		First(&session, "id = ? AND user_id = ?", sessionID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// ExpireStale finalizes sessions left in progress longer than ttl. A stale
// session is scored from whatever answers it recorded, which is usually 0.
func (s *SessionService) ExpireStale(ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl)

	var stale []models.TestSession
	err := s.db.Preload("Answers").
		Where("status = ? AND start_time < ?", models.SessionStatusInProgress, cutoff).
		Find(&stale).Error
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		session := &stale[i]
		mu := s.lockSession(session.ID)
		mu.Lock()
		_, err := s.finalize(session)
		mu.Unlock()
		if err != nil {
			if errors.Is(err, ErrSessionCompleted) {
				continue
			}
			log.Printf("Failed to expire session %s: %v", session.ID, err)
			continue
		}
		expired++
	}
	return expired, nil
}
