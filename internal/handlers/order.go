package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/neelam/internal/middleware"
	"github.com/example/neelam/internal/models"
)

// OrderHandler serves customer-facing order creation and retrieval.
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

type orderItemRequest struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

type createOrderRequest struct {
	Items      []orderItemRequest `json:"items"`
	GuestPhone string             `json:"guest_phone"`
	GuestEmail string             `json:"guest_email"`
}

// Create records a checkout. Anonymous checkouts must carry guest
// contact details; authenticated ones are attached to the user.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "order must contain at least one item")
	}

	order := models.Order{
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
	}

	if user, ok := middleware.CurrentUser(c); ok {
		order.UserID = &user.ID
	} else {
		if req.GuestPhone == "" && req.GuestEmail == "" {
			return fiber.NewError(fiber.StatusBadRequest, "guest contact details required")
		}
		order.GuestPhone = req.GuestPhone
		order.GuestEmail = req.GuestEmail
	}

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "item quantity must be positive")
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
		order.TotalAmount += item.Price * float64(item.Quantity)
	}

	if err := h.db.Create(&order).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// List returns the authenticated user's orders, newest first.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	var orders []models.Order
	if err := h.db.
		Preload("Items").
		Where("user_id = ?", user.ID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return err
	}
	return c.JSON(orders)
}

// Get returns one order. Authenticated non-admin callers may only see
// their own orders; unauthenticated lookups by id are allowed so guests
// can track a checkout.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	var order models.Order
	if err := h.db.Preload("Items").First(&order, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if user, ok := middleware.CurrentUser(c); ok && user.Role != models.RoleAdmin {
		if order.UserID == nil || *order.UserID != user.ID {
			return fiber.NewError(fiber.StatusForbidden, "access denied")
		}
	}

	return c.JSON(order)
}
