package handlers

import (
	"errors"
	"math"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/neelam/internal/middleware"
	"github.com/example/neelam/internal/models"
)

// ReviewHandler serves product reviews. Each user gets one review per
// product, and the product's rating aggregate is recomputed on every
// submission.
type ReviewHandler struct {
	db *gorm.DB
}

// NewReviewHandler constructs a ReviewHandler.
func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

type createReviewRequest struct {
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// Create submits a review for a product.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	var req createReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.ProductID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "product_id is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return fiber.NewError(fiber.StatusBadRequest, "rating must be between 1 and 5")
	}

	productID := req.ProductID
	var product models.Product
	if err := h.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var existing int64
	if err := h.db.Model(&models.Review{}).
		Where("product_id = ? AND user_id = ?", productID, user.ID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "you have already reviewed this product")
	}

	review := models.Review{
		ProductID: productID,
		UserID:    user.ID,
		UserName:  user.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.db.Create(&review).Error; err != nil {
		return err
	}

	if err := h.refreshProductRating(productID); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}

// ListForProduct returns a product's reviews, newest first.
func (h *ReviewHandler) ListForProduct(c *fiber.Ctx) error {
	var reviews []models.Review
	if err := h.db.
		Where("product_id = ?", c.Params("product_id")).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// refreshProductRating recomputes the mean rating, rounded to one
// decimal, and the review count.
func (h *ReviewHandler) refreshProductRating(productID string) error {
	var agg struct {
		Avg   float64
		Count int64
	}
	if err := h.db.Model(&models.Review{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Scan(&agg).Error; err != nil {
		return err
	}

	return h.db.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"rating":        math.Round(agg.Avg*10) / 10,
			"reviews_count": agg.Count,
		}).Error
}
