package routes

import (
	"github.com/cdlprep/cdl-prep-backend/handlers"
	"github.com/cdlprep/cdl-prep-backend/middleware"
	"github.com/gofiber/fiber/v2"
)

// ExamRoutes wires question authoring (admin only) and the practice-test
// session lifecycle.
func ExamRoutes(app *fiber.App, questions *handlers.QuestionHandler, sessions *handlers.SessionHandler) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	q := admin.Group("/questions")
	q.Post("", questions.Create)
	q.Get("", questions.List)
	q.Get("/:questionId", questions.Get)
	q.Put("/:questionId", questions.Update)
	q.Delete("/:questionId", questions.Delete)

	admin.Get("/uploads/signature", handlers.GenerateUploadSignature)

	s := api.Group("/test-sessions", middleware.Protected())
	s.Post("/start", sessions.Start)
	s.Post("/:sessionId/submit", sessions.SubmitAnswer)
	s.Post("/:sessionId/complete", sessions.Complete)
	s.Get("/:sessionId", sessions.GetResult)
}
