package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/neelam/internal/middleware"
	"github.com/example/neelam/internal/models"
)

// WishlistHandler serves the per-user wishlist. The wishlist is a set:
// re-adding an item is reported, not duplicated.
type WishlistHandler struct {
	db *gorm.DB
}

// NewWishlistHandler constructs a WishlistHandler.
func NewWishlistHandler(db *gorm.DB) *WishlistHandler {
	return &WishlistHandler{db: db}
}

type wishlistRequest struct {
	ProductID string `json:"product_id"`
}

// Add puts a product on the wishlist.
func (h *WishlistHandler) Add(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var req wishlistRequest
	_ = c.BodyParser(&req)
	if req.ProductID == "" {
		req.ProductID = c.Query("product_id")
	}
	if req.ProductID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "product_id is required")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var existing int64
	if err := h.db.Model(&models.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", user.ID, req.ProductID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return c.JSON(fiber.Map{"message": "already in wishlist"})
	}

	item := models.WishlistItem{UserID: user.ID, ProductID: req.ProductID}
	if err := h.db.Create(&item).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "added to wishlist"})
}

// Remove takes a product off the wishlist.
func (h *WishlistHandler) Remove(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	result := h.db.Delete(&models.WishlistItem{},
		"user_id = ? AND product_id = ?", user.ID, c.Params("product_id"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "not in wishlist")
	}
	return c.JSON(fiber.Map{"message": "removed from wishlist"})
}

type wishlistEntry struct {
	Product models.Product `json:"product"`
	AddedAt string         `json:"added_at"`
}

// List returns the wishlist's products with the time each was added.
// Items whose product has since been deleted are skipped.
func (h *WishlistHandler) List(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var items []models.WishlistItem
	if err := h.db.
		Where("user_id = ?", user.ID).
		Order("added_at desc").
		Find(&items).Error; err != nil {
		return err
	}

	entries := make([]wishlistEntry, 0, len(items))
	for _, item := range items {
		var product models.Product
		if err := h.db.First(&product, "id = ?", item.ProductID).Error; err != nil {
			continue
		}
		entries = append(entries, wishlistEntry{
			Product: product,
			AddedAt: item.AddedAt.UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(fiber.Map{
		"wishlist": entries,
		"count":    len(entries),
	})
}
