package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/example/neelam/internal/utils"
)

// Known order statuses. Admin status updates deliberately accept any
// non-empty string, so these are canonical values, not a closed set.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// Order is created once per checkout. Items are a frozen snapshot and
// TotalAmount is computed exactly once at creation; later product price
// changes never touch either.
type Order struct {
	ID              string      `gorm:"primaryKey" json:"order_id"`
	UserID          *string     `gorm:"index" json:"user_id"`
	GuestPhone      string      `json:"guest_phone,omitempty"`
	GuestEmail      string      `json:"guest_email,omitempty"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount     float64     `json:"total_amount"`
	Status          string      `gorm:"index" json:"status"`
	PaymentStatus   string      `gorm:"index" json:"payment_status"`
	RazorpayOrderID string      `gorm:"index" json:"razorpay_order_id,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = utils.NewID("order")
	}
	return nil
}

// OrderItem is a line of the snapshot copied from the cart at creation
// time, not a live reference to Product.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID   string  `gorm:"index" json:"-"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}
