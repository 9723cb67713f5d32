package services

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/example/neelam/internal/models"
)

// Gateway abstracts the payment provider: remote order creation and
// callback signature verification. The real implementation wraps the
// Razorpay SDK; the check itself is never reimplemented here.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
}

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidSignature    = errors.New("invalid payment signature")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
)

// PaymentService drives the order/transaction payment state machine:
// created/pending on gateway-order creation, complete/paid only after a
// verified callback.
type PaymentService struct {
	db       *gorm.DB
	gateway  Gateway
	keyID    string
	currency string
}

// NewPaymentService constructs a PaymentService. The gateway operates
// in a single fixed currency.
func NewPaymentService(db *gorm.DB, gateway Gateway, keyID, currency string) *PaymentService {
	return &PaymentService{db: db, gateway: gateway, keyID: keyID, currency: currency}
}

// CheckoutSession is handed to the frontend to open the gateway's
// checkout. Amount is in the currency's minor unit.
type CheckoutSession struct {
	RazorpayOrderID string `json:"razorpay_order_id"`
	RazorpayKeyID   string `json:"razorpay_key_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	OrderID         string `json:"order_id"`
}

// CreateGatewayOrder creates a remote gateway order for an existing
// Order, records the transaction and stamps the order with the remote
// id. Provider failures are masked behind ErrGatewayUnavailable.
func (s *PaymentService) CreateGatewayOrder(ctx context.Context, orderID string) (*CheckoutSession, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	// Minor currency unit, truncated.
	amount := int64(order.TotalAmount * 100)

	// Gateway receipt field is capped at 40 characters.
	receipt := order.ID
	if len(receipt) > 40 {
		receipt = receipt[:40]
	}

	gatewayOrderID, err := s.gateway.CreateOrder(ctx, amount, s.currency, receipt)
	if err != nil {
		log.Printf("[Payment] gateway order creation failed for %s: %v", order.ID, err)
		return nil, ErrGatewayUnavailable
	}

	txn := models.PaymentTransaction{
		RazorpayOrderID: gatewayOrderID,
		OrderID:         order.ID,
		Amount:          order.TotalAmount,
		Currency:        s.currency,
		Status:          models.TransactionStatusCreated,
		PaymentStatus:   models.PaymentStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&txn).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("razorpay_order_id", gatewayOrderID).Error; err != nil {
		return nil, err
	}

	return &CheckoutSession{
		RazorpayOrderID: gatewayOrderID,
		RazorpayKeyID:   s.keyID,
		Amount:          amount,
		Currency:        s.currency,
		OrderID:         order.ID,
	}, nil
}

// VerifyParams carries the callback payload from the gateway checkout.
type VerifyParams struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// VerifyResult reports a verified payment. OrderID is nil when no
// matching transaction was stored for the gateway order id.
type VerifyResult struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	OrderID *string `json:"order_id"`
}

// VerifyPayment validates the callback signature and, on first success,
// promotes the transaction to complete/paid and the order to
// paid/confirmed inside one database transaction. Replays after success
// are no-ops; a missing transaction is a defensive no-op as well.
func (s *PaymentService) VerifyPayment(ctx context.Context, params VerifyParams) (*VerifyResult, error) {
	if !s.gateway.VerifyPaymentSignature(params.RazorpayOrderID, params.RazorpayPaymentID, params.RazorpaySignature) {
		return nil, ErrInvalidSignature
	}

	var txn models.PaymentTransaction
	err := s.db.WithContext(ctx).First(&txn, "razorpay_order_id = ?", params.RazorpayOrderID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err == nil && txn.PaymentStatus != models.PaymentStatusPaid {
		txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.PaymentTransaction{}).
				Where("razorpay_order_id = ?", params.RazorpayOrderID).
				Updates(map[string]any{
					"razorpay_payment_id": params.RazorpayPaymentID,
					"razorpay_signature":  params.RazorpaySignature,
					"status":              models.TransactionStatusComplete,
					"payment_status":      models.PaymentStatusPaid,
				}).Error; err != nil {
				return err
			}

			return tx.Model(&models.Order{}).
				Where("razorpay_order_id = ?", params.RazorpayOrderID).
				Updates(map[string]any{
					"payment_status": models.PaymentStatusPaid,
					"status":         models.OrderStatusConfirmed,
				}).Error
		})
		if txErr != nil {
			return nil, txErr
		}
	}

	result := &VerifyResult{Status: "success", Message: "payment verified successfully"}

	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "razorpay_order_id = ?", params.RazorpayOrderID).Error; err == nil {
		result.OrderID = &order.ID
	}

	return result, nil
}

// TransactionStatus is the stored state of a gateway order.
type TransactionStatus struct {
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"payment_status"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	RazorpayOrderID string  `json:"razorpay_order_id"`
}

// Status returns the transaction stored under a gateway order id.
func (s *PaymentService) Status(ctx context.Context, razorpayOrderID string) (*TransactionStatus, error) {
	var txn models.PaymentTransaction
	if err := s.db.WithContext(ctx).First(&txn, "razorpay_order_id = ?", razorpayOrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	return &TransactionStatus{
		Status:          txn.Status,
		PaymentStatus:   txn.PaymentStatus,
		Amount:          txn.Amount,
		Currency:        txn.Currency,
		RazorpayOrderID: razorpayOrderID,
	}, nil
}
