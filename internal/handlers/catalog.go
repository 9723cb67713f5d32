package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/neelam/internal/models"
)

// CategoryHandler serves the category listing plus the admin CRUD.
type CategoryHandler struct {
	db *gorm.DB
}

// NewCategoryHandler constructs a CategoryHandler.
func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

// List returns every category.
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	var categories []models.Category
	if err := h.db.Find(&categories).Error; err != nil {
		return err
	}
	return c.JSON(categories)
}

type createCategoryRequest struct {
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description"`
	Image         string   `json:"image"`
	Subcategories []string `json:"subcategories"`
}

// Create adds a category. The slug is derived from the name when not
// supplied.
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req createCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Name)
	}

	category := models.Category{
		Name:          req.Name,
		Slug:          slug,
		Description:   req.Description,
		Image:         req.Image,
		Subcategories: pq.StringArray(req.Subcategories),
	}
	if err := h.db.Create(&category).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

type updateCategoryRequest struct {
	Name          *string   `json:"name"`
	Slug          *string   `json:"slug"`
	Description   *string   `json:"description"`
	Image         *string   `json:"image"`
	Subcategories *[]string `json:"subcategories"`
}

// Update patches the provided fields of a category.
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var req updateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.Subcategories != nil {
		updates["subcategories"] = pq.StringArray(*req.Subcategories)
	}

	if len(updates) > 0 {
		if err := h.db.Model(&category).Updates(updates).Error; err != nil {
			return err
		}
	}

	return c.JSON(category)
}

// Delete removes a category.
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	result := h.db.Delete(&models.Category{}, "id = ?", c.Params("id"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "category not found")
	}
	return c.JSON(fiber.Map{"message": "category deleted successfully"})
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
