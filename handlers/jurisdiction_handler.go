package handlers

import (
	"strings"

	"github.com/cdlprep/cdl-prep-backend/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type JurisdictionHandler struct {
	db *gorm.DB
}

func NewJurisdictionHandler(db *gorm.DB) *JurisdictionHandler {
	return &JurisdictionHandler{db: db}
}

func (h *JurisdictionHandler) List(c *fiber.Ctx) error {
	var jurisdictions []models.Jurisdiction
	err := h.db.Select("code", "name", "type").
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&jurisdictions).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch jurisdictions"})
	}
	return c.JSON(jurisdictions)
}

func (h *JurisdictionHandler) Get(c *fiber.Ctx) error {
	code := strings.ToUpper(c.Params("code"))

	var jurisdiction models.Jurisdiction
	if err := h.db.First(&jurisdiction, "code = ?", code).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Jurisdiction not found"})
	}
	return c.JSON(jurisdiction)
}
