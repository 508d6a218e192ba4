package routes

import (
	"github.com/cdlprep/cdl-prep-backend/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App, jurisdictions *handlers.JurisdictionHandler) {
	api := app.Group("/api/v1")

	j := api.Group("/jurisdictions")
	j.Get("", jurisdictions.List)
	j.Get("/:code", jurisdictions.Get)
}
