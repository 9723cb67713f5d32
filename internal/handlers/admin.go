package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/neelam/internal/models"
	"github.com/example/neelam/internal/services"
	"github.com/example/neelam/internal/utils"
)

const lowStockThreshold = 10

// AdminHandler serves the admin order book, dashboard and analytics.
type AdminHandler struct {
	db        *gorm.DB
	analytics *services.AnalyticsService
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(db *gorm.DB, analytics *services.AnalyticsService) *AdminHandler {
	return &AdminHandler{db: db, analytics: analytics}
}

// ListOrders returns every order, newest first.
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	var orders []models.Order
	if err := h.db.
		Preload("Items").
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return err
	}
	return c.JSON(orders)
}

// FilterOrders returns orders matching the query filters, capped at 100
// rows, along with an echo of the filters that were applied.
func (h *AdminHandler) FilterOrders(c *fiber.Ctx) error {
	limit := utils.ParseLimit(c, 50, 100)

	filters := fiber.Map{}
	query := h.db.Preload("Items").Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
		filters["status"] = status
	}
	if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
		filters["payment_status"] = paymentStatus
	}
	if raw := c.Query("start_date"); raw != "" {
		start, err := parseDate(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid start_date")
		}
		query = query.Where("created_at >= ?", start)
		filters["start_date"] = raw
	}
	if raw := c.Query("end_date"); raw != "" {
		end, err := parseDate(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid end_date")
		}
		query = query.Where("created_at <= ?", end)
		filters["end_date"] = raw
	}
	if raw := c.Query("min_amount"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid min_amount")
		}
		query = query.Where("total_amount >= ?", min)
		filters["min_amount"] = min
	}
	if raw := c.Query("max_amount"); raw != "" {
		max, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid max_amount")
		}
		query = query.Where("total_amount <= ?", max)
		filters["max_amount"] = max
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(user_id) LIKE ? OR LOWER(guest_email) LIKE ?", pattern, pattern)
		filters["search"] = search
	}

	var orders []models.Order
	if err := query.Order("created_at desc").Limit(limit).Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"orders":          orders,
		"count":           len(orders),
		"filters_applied": filters,
	})
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus sets an order's fulfilment status.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "status is required")
	}

	result := h.db.Model(&models.Order{}).
		Where("id = ?", c.Params("id")).
		Update("status", req.Status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "order not found")
	}

	return c.JSON(fiber.Map{"message": "order updated successfully"})
}

// DashboardStats returns the headline counters for the admin landing
// page.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var (
		totalProducts  int64
		totalOrders    int64
		pendingOrders  int64
		paidOrders     int64
		totalCustomers int64
		lowStock       int64
		totalRevenue   float64
	)

	if err := h.db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPending).
		Count(&pendingOrders).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentStatusPaid).
		Count(&paidOrders).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.User{}).
		Where("role IN ?", []string{models.RoleCustomer, models.RoleGuest}).
		Count(&totalCustomers).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Product{}).
		Where("stock < ?", lowStockThreshold).
		Count(&lowStock).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"total_products":  totalProducts,
		"total_orders":    totalOrders,
		"pending_orders":  pendingOrders,
		"paid_orders":     paidOrders,
		"total_customers": totalCustomers,
		"low_stock_count": lowStock,
		"total_revenue":   totalRevenue,
	})
}

// ListCustomers returns a per-customer order roll-up.
func (h *AdminHandler) ListCustomers(c *fiber.Ctx) error {
	summaries, err := h.analytics.Customers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"customers": summaries,
		"count":     len(summaries),
	})
}

// CustomerOrders returns one customer's order history and statistics.
func (h *AdminHandler) CustomerOrders(c *fiber.Ctx) error {
	report, err := h.analytics.CustomerReport(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// AnalyticsOverview returns revenue and sales aggregates, optionally
// restricted to a date range.
func (h *AdminHandler) AnalyticsOverview(c *fiber.Ctx) error {
	var start, end *time.Time
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid start_date")
		}
		start = &parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid end_date")
		}
		end = &parsed
	}

	overview, err := h.analytics.Overview(c.UserContext(), start, end)
	if err != nil {
		return err
	}
	return c.JSON(overview)
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", raw)
}
