package routes

import (
	"github.com/cdlprep/cdl-prep-backend/handlers"
	"github.com/cdlprep/cdl-prep-backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func DashboardRoutes(app *fiber.App, h *handlers.DashboardHandler) {
	dashboard := app.Group("/api/v1/dashboard", middleware.Protected())
	dashboard.Get("/stats", h.Stats)
	dashboard.Get("/recent-tests", h.RecentTests)
}
