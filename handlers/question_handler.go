package handlers

import (
	"encoding/json"
	"errors"

	"github.com/cdlprep/cdl-prep-backend/models"
	"github.com/cdlprep/cdl-prep-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuestionHandler struct {
	questions *services.QuestionService
}

func NewQuestionHandler(questions *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

type OptionRequest struct {
	Text        string  `json:"text" validate:"required"`
	IsCorrect   bool    `json:"is_correct"`
	Explanation *string `json:"explanation,omitempty"`
}

type QuestionRequest struct {
	Category         string          `json:"category" validate:"required"`
	Jurisdiction     string          `json:"jurisdiction" validate:"required"`
	Difficulty       string          `json:"difficulty"`
	Text             string          `json:"text" validate:"required"`
	ImageURL         *string         `json:"image_url,omitempty"`
	Explanation      string          `json:"explanation" validate:"required"`
	Options          []OptionRequest `json:"options" validate:"required,min=2"`
	TimeLimitSeconds int             `json:"time_limit_seconds"`
	PointsValue      int             `json:"points_value"`
	Tags             []string        `json:"tags,omitempty"`
	References       []string        `json:"references,omitempty"`
}

func (r *QuestionRequest) toModel() (*models.Question, error) {
	question := models.Question{
		Category:         r.Category,
		Jurisdiction:     r.Jurisdiction,
		Difficulty:       r.Difficulty,
		Text:             r.Text,
		ImageURL:         r.ImageURL,
		Explanation:      r.Explanation,
		TimeLimitSeconds: r.TimeLimitSeconds,
		PointsValue:      r.PointsValue,
	}
	if question.TimeLimitSeconds <= 0 {
		question.TimeLimitSeconds = 90
	}
	if question.PointsValue <= 0 {
		question.PointsValue = 1
	}
	if len(r.Tags) > 0 {
		tags, err := json.Marshal(r.Tags)
		if err != nil {
			return nil, err
		}
		question.Tags = datatypes.JSON(tags)
	}
	if len(r.References) > 0 {
		refs, err := json.Marshal(r.References)
		if err != nil {
			return nil, err
		}
		question.References = datatypes.JSON(refs)
	}
	for _, opt := range r.Options {
		question.Options = append(question.Options, models.QuestionOption{
			Text:        opt.Text,
			IsCorrect:   opt.IsCorrect,
			Explanation: opt.Explanation,
		})
	}
	return &question, nil
}

func (h *QuestionHandler) Create(c *fiber.Ctx) error {
	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	question, err := req.toModel()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tags payload"})
	}

	if err := h.questions.Create(question); err != nil {
		if errors.Is(err, services.ErrInvalidQuestion) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create question"})
	}

	return c.Status(fiber.StatusCreated).JSON(question)
}

func (h *QuestionHandler) List(c *fiber.Ctx) error {
	questions, err := h.questions.List(services.ListFilter{
		Category:     c.Query("category"),
		Jurisdiction: c.Query("jurisdiction"),
		Difficulty:   c.Query("difficulty"),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list questions"})
	}
	return c.JSON(questions)
}

func (h *QuestionHandler) Get(c *fiber.Ctx) error {
	questionID, err := uuid.Parse(c.Params("questionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question id"})
	}

	question, err := h.questions.Get(questionID)
	if err != nil {
		if errors.Is(err, services.ErrQuestionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch question"})
	}
	return c.JSON(question)
}

func (h *QuestionHandler) Update(c *fiber.Ctx) error {
	questionID, err := uuid.Parse(c.Params("questionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question id"})
	}

	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := req.toModel()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tags payload"})
	}

	question, err := h.questions.Update(questionID, updated)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidQuestion):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrQuestionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update question"})
		}
	}
	return c.JSON(question)
}

func (h *QuestionHandler) Delete(c *fiber.Ctx) error {
	questionID, err := uuid.Parse(c.Params("questionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question id"})
	}

	if err := h.questions.Delete(questionID); err != nil {
		if errors.Is(err, services.ErrQuestionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete question"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
