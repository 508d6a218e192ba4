package handlers

import (
	"github.com/cdlprep/cdl-prep-backend/middleware"
	"github.com/cdlprep/cdl-prep-backend/services"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	stats *services.StatsService
}

func NewDashboardHandler(stats *services.StatsService) *DashboardHandler {
	return &DashboardHandler{stats: stats}
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	stats, err := h.stats.UserStats(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute stats"})
	}
	return c.JSON(stats)
}

func (h *DashboardHandler) RecentTests(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessions, err := h.stats.RecentTests(userID, c.QueryInt("limit", 10))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch recent tests"})
	}
	return c.JSON(sessions)
}
