package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/example/neelam/internal/models"
)

// AnalyticsService computes read-only aggregates over orders and
// products for the admin dashboard. Nothing here mutates state.
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService constructs AnalyticsService.
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// ProductSales is one row of the top-products breakdown.
type ProductSales struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// Overview aggregates the order book, optionally restricted to an
// inclusive creation-date range.
type Overview struct {
	TotalOrders       int            `json:"total_orders"`
	PaidOrders        int            `json:"paid_orders"`
	TotalRevenue      float64        `json:"total_revenue"`
	AverageOrderValue float64        `json:"average_order_value"`
	TopProducts       []ProductSales `json:"top_products"`
	StatusBreakdown   map[string]int `json:"status_breakdown"`
}

// Overview loads matching orders and partitions them into paid vs all.
// Revenue and the top-10 product list consider paid orders only; ties
// keep first-seen order.
func (s *AnalyticsService) Overview(ctx context.Context, start, end *time.Time) (*Overview, error) {
	query := s.db.WithContext(ctx).Preload("Items")
	if start != nil {
		query = query.Where("created_at >= ?", *start)
	}
	if end != nil {
		query = query.Where("created_at <= ?", *end)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}

	overview := &Overview{
		TotalOrders: len(orders),
		StatusBreakdown: map[string]int{
			models.OrderStatusPending:   0,
			models.OrderStatusConfirmed: 0,
			models.OrderStatusShipped:   0,
			models.OrderStatusDelivered: 0,
		},
	}

	sales := make(map[string]*ProductSales)
	var seen []string

	for _, order := range orders {
		if _, ok := overview.StatusBreakdown[order.Status]; ok {
			overview.StatusBreakdown[order.Status]++
		}

		if order.PaymentStatus != models.PaymentStatusPaid {
			continue
		}

		overview.PaidOrders++
		overview.TotalRevenue += order.TotalAmount

		for _, item := range order.Items {
			entry, ok := sales[item.ProductID]
			if !ok {
				entry = &ProductSales{ProductID: item.ProductID, Name: item.Name}
				sales[item.ProductID] = entry
				seen = append(seen, item.ProductID)
			}
			entry.Quantity += item.Quantity
			entry.Revenue += item.Price * float64(item.Quantity)
		}
	}

	if overview.PaidOrders > 0 {
		overview.AverageOrderValue = overview.TotalRevenue / float64(overview.PaidOrders)
	}

	top := make([]ProductSales, 0, len(seen))
	for _, id := range seen {
		top = append(top, *sales[id])
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Revenue > top[j].Revenue })
	if len(top) > 10 {
		top = top[:10]
	}
	overview.TopProducts = top

	return overview, nil
}

// CustomerStats summarizes a customer's order history. TotalSpent
// counts paid orders only.
type CustomerStats struct {
	TotalOrders       int     `json:"total_orders"`
	TotalSpent        float64 `json:"total_spent"`
	AverageOrderValue float64 `json:"average_order_value"`
}

// CustomerReport bundles a customer with their orders, newest first.
type CustomerReport struct {
	Customer   *models.User   `json:"customer"`
	Orders     []models.Order `json:"orders"`
	Statistics CustomerStats  `json:"statistics"`
}

// CustomerReport returns a single customer's roll-up.
func (s *AnalyticsService) CustomerReport(ctx context.Context, userID string) (*CustomerReport, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, err
	}

	report := &CustomerReport{Orders: orders}

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if err == nil {
		report.Customer = &user
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	for _, order := range orders {
		if order.PaymentStatus == models.PaymentStatusPaid {
			report.Statistics.TotalSpent += order.TotalAmount
		}
	}
	report.Statistics.TotalOrders = len(orders)
	if len(orders) > 0 {
		report.Statistics.AverageOrderValue = report.Statistics.TotalSpent / float64(len(orders))
	}

	return report, nil
}

// CustomerSummary is one row of the all-customers listing.
type CustomerSummary struct {
	UserID      string     `json:"user_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	TotalOrders int        `json:"total_orders"`
	TotalSpent  float64    `json:"total_spent"`
	LastOrder   *time.Time `json:"last_order"`
}

// Customers rolls up order statistics for every customer and guest.
func (s *AnalyticsService) Customers(ctx context.Context) ([]CustomerSummary, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).
		Where("role IN ?", []string{models.RoleCustomer, models.RoleGuest}).
		Find(&users).Error; err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := s.db.WithContext(ctx).
		Where("user_id IS NOT NULL").
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, err
	}

	byUser := make(map[string][]models.Order)
	for _, order := range orders {
		byUser[*order.UserID] = append(byUser[*order.UserID], order)
	}

	summaries := make([]CustomerSummary, 0, len(users))
	for _, user := range users {
		summary := CustomerSummary{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Phone:  user.Phone,
		}

		userOrders := byUser[user.ID]
		summary.TotalOrders = len(userOrders)
		for _, order := range userOrders {
			if order.PaymentStatus == models.PaymentStatusPaid {
				summary.TotalSpent += order.TotalAmount
			}
		}
		if len(userOrders) > 0 {
			last := userOrders[0].CreatedAt
			summary.LastOrder = &last
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}
