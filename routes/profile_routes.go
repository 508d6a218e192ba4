package routes

import (
	"github.com/cdlprep/cdl-prep-backend/handlers"
	"github.com/cdlprep/cdl-prep-backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App, h *handlers.ProfileHandler) {
	api := app.Group("/api/v1", middleware.Protected())

	profile := api.Group("/profile")
	profile.Get("", h.Get)
	profile.Put("", h.Update)
	profile.Get("/test-history", h.TestHistory)

	api.Get("/certificates", h.Certificates)
}
