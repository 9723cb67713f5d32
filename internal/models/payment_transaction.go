package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/example/neelam/internal/utils"
)

const (
	TransactionStatusCreated  = "created"
	TransactionStatusComplete = "complete"
)

// PaymentTransaction records one Razorpay order per checkout attempt.
// It is created when the gateway order is requested and updated in
// place on a verified callback, never re-created.
type PaymentTransaction struct {
	ID                string    `gorm:"primaryKey" json:"transaction_id"`
	RazorpayOrderID   string    `gorm:"uniqueIndex" json:"razorpay_order_id"`
	OrderID           string    `gorm:"index" json:"order_id"`
	RazorpayPaymentID string    `json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string    `json:"-"`
	Amount            float64   `json:"amount"`
	Currency          string    `json:"currency"`
	Status            string    `json:"status"`
	PaymentStatus     string    `json:"payment_status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (t *PaymentTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = utils.NewID("txn")
	}
	return nil
}
