package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/neelam/internal/models"
	"github.com/example/neelam/internal/utils"
)

// ProductHandler serves the public catalog plus the admin product CRUD.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

// List returns in-stock products, optionally filtered by category.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	query := h.db.Where("stock > 0")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return err
	}
	return c.JSON(products)
}

// Get returns a single product by id.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	var product models.Product
	if err := h.db.First(&product, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}
	return c.JSON(product)
}

// Search matches the query string against name, description and
// category, case-insensitively.
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if len(q) < 2 {
		return fiber.NewError(fiber.StatusBadRequest, "search query must be at least 2 characters")
	}
	limit := utils.ParseLimit(c, 20, 50)

	pattern := "%" + strings.ToLower(q) + "%"
	var products []models.Product
	if err := h.db.
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern, pattern).
		Limit(limit).
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"results": products,
		"count":   len(products),
		"query":   q,
	})
}

var enhancedSortOrders = map[string]string{
	"newest":     "created_at desc",
	"price_low":  "price asc",
	"price_high": "price desc",
	"popular":    "reviews_count desc",
	"rating":     "rating desc",
}

// ListEnhanced is the filterable, sortable, paginated catalog listing
// that powers the storefront grid.
func (h *ProductHandler) ListEnhanced(c *fiber.Ctx) error {
	limit := utils.ParseLimit(c, 50, 100)
	skip := utils.ParseSkip(c)

	filters := fiber.Map{}
	query := h.db.Model(&models.Product{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
		filters["category"] = category
	}
	if subcategory := c.Query("subcategory"); subcategory != "" {
		query = query.Where("subcategory = ?", subcategory)
		filters["subcategory"] = subcategory
	}
	if raw := c.Query("min_price"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid min_price")
		}
		query = query.Where("price >= ?", min)
		filters["min_price"] = min
	}
	if raw := c.Query("max_price"); raw != "" {
		max, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid max_price")
		}
		query = query.Where("price <= ?", max)
		filters["max_price"] = max
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
		filters["search"] = search
	}
	if c.QueryBool("in_stock", false) {
		query = query.Where("stock > 0")
		filters["in_stock"] = true
	}

	sortBy := c.Query("sort_by", "newest")
	order, ok := enhancedSortOrders[sortBy]
	if !ok {
		sortBy = "newest"
		order = enhancedSortOrders[sortBy]
	}
	filters["sort_by"] = sortBy

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Order(order).Limit(limit).Offset(skip).Find(&products).Error; err != nil {
		return err
	}

	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}

	return c.JSON(fiber.Map{
		"products":        products,
		"total":           total,
		"page":            skip/limit + 1,
		"pages":           pages,
		"filters_applied": filters,
	})
}

type createProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Stock       int      `json:"stock"`
	Tags        []string `json:"tags"`
	Weight      string   `json:"weight"`
	Material    string   `json:"material"`
}

// Create adds a product to the catalog.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Category == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name and category are required")
	}
	if req.Price < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "price must not be negative")
	}
	if req.Stock < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "stock must not be negative")
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Images:      pq.StringArray(req.Images),
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Stock:       req.Stock,
		Tags:        pq.StringArray(req.Tags),
		Weight:      req.Weight,
		Material:    req.Material,
	}
	if err := h.db.Create(&product).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// updateProductRequest uses pointer fields so absent keys leave the
// stored value untouched.
type updateProductRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Images      *[]string `json:"images"`
	Category    *string   `json:"category"`
	Subcategory *string   `json:"subcategory"`
	Stock       *int      `json:"stock"`
	Tags        *[]string `json:"tags"`
	Weight      *string   `json:"weight"`
	Material    *string   `json:"material"`
}

// Update patches the provided fields of a product.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req updateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "price must not be negative")
		}
		updates["price"] = *req.Price
	}
	if req.Images != nil {
		updates["images"] = pq.StringArray(*req.Images)
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Subcategory != nil {
		updates["subcategory"] = *req.Subcategory
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "stock must not be negative")
		}
		updates["stock"] = *req.Stock
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(*req.Tags)
	}
	if req.Weight != nil {
		updates["weight"] = *req.Weight
	}
	if req.Material != nil {
		updates["material"] = *req.Material
	}

	if len(updates) > 0 {
		if err := h.db.Model(&product).Updates(updates).Error; err != nil {
			return err
		}
	}

	return c.JSON(product)
}

// Delete removes a product from the catalog.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	result := h.db.Delete(&models.Product{}, "id = ?", c.Params("id"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}
	return c.JSON(fiber.Map{"message": "product deleted successfully"})
}
