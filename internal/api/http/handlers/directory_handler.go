package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusworks/repair-service/internal/api/dto"
	"github.com/campusworks/repair-service/internal/service"
)

// DirectoryHandler serves the reference data location and category forms need.
type DirectoryHandler struct {
	directory *service.DirectoryService
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directory *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// ListBuildings GET /buildings.
func (h *DirectoryHandler) ListBuildings(c *fiber.Ctx) error {
	names, err := h.directory.BuildingNames(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": names})
}

// ListCategories GET /categories.
func (h *DirectoryHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.directory.Categories(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, dto.CategoryResponse{ID: category.ID, Name: category.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}
