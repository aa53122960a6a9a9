package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ismailgltknn/shoppin/models"
)

type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

// ListCategories - GET /api/categories
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := h.DB.Order("name").Find(&categories).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not fetch categories"})
	}

	data := make([]fiber.Map, 0, len(categories))
	for _, category := range categories {
		data = append(data, fiber.Map{"id": category.ID, "name": category.Name})
	}

	return c.JSON(data)
}
