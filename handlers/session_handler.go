package handlers

import (
	"errors"

	config "github.com/cdlprep/cdl-prep-backend/configs"
	"github.com/cdlprep/cdl-prep-backend/middleware"
	"github.com/cdlprep/cdl-prep-backend/models"
	"github.com/cdlprep/cdl-prep-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SessionHandler struct {
	sessions *services.SessionService
}

func NewSessionHandler(sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type StartSessionRequest struct {
	Category      string   `json:"category" validate:"required"`
	Jurisdiction  string   `json:"jurisdiction" validate:"required"`
	Difficulty    string   `json:"difficulty"`
	QuestionCount int      `json:"question_count"`
	ExcludeIDs    []string `json:"exclude_ids,omitempty"`
}

// QuestionForStudent is the question projection handed to a test taker:
// no correctness flags, no explanations.
type QuestionForStudent struct {
	ID               uuid.UUID `json:"id"`
	Text             string    `json:"text"`
	ImageURL         *string   `json:"image_url,omitempty"`
	Options          []string  `json:"options"`
	TimeLimitSeconds int       `json:"time_limit_seconds"`
}

func (h *SessionHandler) Start(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	count := req.QuestionCount
	if count <= 0 {
		count = config.DefaultQuestionCount()
	}

	var excludeIDs []uuid.UUID
	for _, raw := range req.ExcludeIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exclude id"})
		}
		excludeIDs = append(excludeIDs, id)
	}

	session, questions, err := h.sessions.Start(services.StartParams{
		UserID:       userID,
		Category:     req.Category,
		Jurisdiction: req.Jurisdiction,
		Difficulty:   req.Difficulty,
		Count:        count,
		ExcludeIDs:   excludeIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidQuestion):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrQuotaExceeded):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Daily free test limit reached. Upgrade to premium for unlimited tests."})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start test session"})
		}
	}

	questionsForStudent := make([]QuestionForStudent, len(questions))
	for i, q := range questions {
		options := make([]string, len(q.Options))
		for j, opt := range q.Options {
			options[j] = opt.Text
		}
		questionsForStudent[i] = QuestionForStudent{
			ID:               q.ID,
			Text:             q.Text,
			ImageURL:         q.ImageURL,
			Options:          options,
			TimeLimitSeconds: q.TimeLimitSeconds,
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id":   session.ID,
		"category":     session.Category,
		"jurisdiction": session.Jurisdiction,
		"start_time":   session.StartTime,
		"questions":    questionsForStudent,
	})
}

type SubmitAnswerRequest struct {
	QuestionID       string  `json:"question_id" validate:"required"`
	SelectedOption   *int    `json:"selected_option" validate:"required"`
	TimeSpentSeconds float64 `json:"time_spent_seconds" validate:"gte=0"`
}

func (h *SessionHandler) SubmitAnswer(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question id"})
	}

	isCorrect, err := h.sessions.SubmitAnswer(userID, sessionID, questionID, *req.SelectedOption, req.TimeSpentSeconds)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
		case errors.Is(err, services.ErrQuestionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
		case errors.Is(err, services.ErrSessionCompleted):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Session has already been completed"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit answer"})
		}
	}

	return c.JSON(fiber.Map{"is_correct": isCorrect})
}

func (h *SessionHandler) Complete(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	result, err := h.sessions.Complete(userID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
		case errors.Is(err, services.ErrSessionCompleted):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Session has already been completed"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to complete session"})
		}
	}

	return c.JSON(result)
}

// GetResult returns the full session record, including the ordered answer
// history with each question's options and explanation, for review screens.
func (h *SessionHandler) GetResult(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	session, err := h.sessions.GetResult(userID, sessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch session"})
	}

	type answerReview struct {
		Question         models.Question `json:"question"`
		SelectedOption   int             `json:"selected_option"`
		IsCorrect        bool            `json:"is_correct"`
		TimeSpentSeconds float64         `json:"time_spent_seconds"`
	}

	answers := make([]answerReview, len(session.Answers))
	for i, a := range session.Answers {
		answers[i] = answerReview{
			Question:         a.Question,
			SelectedOption:   a.SelectedOption,
			IsCorrect:        a.IsCorrect,
			TimeSpentSeconds: a.TimeSpentSeconds,
		}
	}

	return c.JSON(fiber.Map{
		"id":           session.ID,
		"category":     session.Category,
		"jurisdiction": session.Jurisdiction,
		"status":       session.Status,
		"score":        session.Score,
		"start_time":   session.StartTime,
		"end_time":     session.EndTime,
		"answers":      answers,
	})
}
