package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/neelam/internal/database"
	"github.com/example/neelam/internal/models"
	"github.com/example/neelam/internal/services"
)

type fakeGateway struct {
	failCreate  bool
	lastAmount  int64
	lastReceipt string
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	if g.failCreate {
		return "", errors.New("gateway down")
	}
	g.lastAmount = amount
	g.lastReceipt = receipt
	return "order_rzp_test123", nil
}

func (g *fakeGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return signature == "valid-signature"
}

func paymentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, total float64) models.Order {
	t.Helper()
	order := models.Order{
		GuestPhone:    "+919876543210",
		TotalAmount:   total,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestCreateGatewayOrder(t *testing.T) {
	db := paymentTestDB(t)
	gateway := &fakeGateway{}
	svc := services.NewPaymentService(db, gateway, "rzp_test_key", "INR")

	order := seedOrder(t, db, 100.00)

	session, err := svc.CreateGatewayOrder(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, "order_rzp_test123", session.RazorpayOrderID)
	assert.Equal(t, "rzp_test_key", session.RazorpayKeyID)
	assert.Equal(t, int64(10000), session.Amount)
	assert.Equal(t, "INR", session.Currency)
	assert.Equal(t, order.ID, session.OrderID)
	assert.Equal(t, int64(10000), gateway.lastAmount)
	assert.Equal(t, order.ID, gateway.lastReceipt)

	var txn models.PaymentTransaction
	require.NoError(t, db.First(&txn, "razorpay_order_id = ?", "order_rzp_test123").Error)
	assert.Equal(t, models.TransactionStatusCreated, txn.Status)
	assert.Equal(t, models.PaymentStatusPending, txn.PaymentStatus)
	assert.Equal(t, 100.00, txn.Amount)

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, "order_rzp_test123", stored.RazorpayOrderID)
}

func TestCreateGatewayOrderMissingOrder(t *testing.T) {
	db := paymentTestDB(t)
	svc := services.NewPaymentService(db, &fakeGateway{}, "rzp_test_key", "INR")

	_, err := svc.CreateGatewayOrder(context.Background(), "order_missing")
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
}

func TestCreateGatewayOrderProviderFailure(t *testing.T) {
	db := paymentTestDB(t)
	svc := services.NewPaymentService(db, &fakeGateway{failCreate: true}, "rzp_test_key", "INR")

	order := seedOrder(t, db, 50.00)

	_, err := svc.CreateGatewayOrder(context.Background(), order.ID)
	assert.ErrorIs(t, err, services.ErrGatewayUnavailable)

	var count int64
	require.NoError(t, db.Model(&models.PaymentTransaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestVerifyPayment(t *testing.T) {
	db := paymentTestDB(t)
	svc := services.NewPaymentService(db, &fakeGateway{}, "rzp_test_key", "INR")

	order := seedOrder(t, db, 250.00)
	_, err := svc.CreateGatewayOrder(context.Background(), order.ID)
	require.NoError(t, err)

	result, err := svc.VerifyPayment(context.Background(), services.VerifyParams{
		RazorpayOrderID:   "order_rzp_test123",
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: "valid-signature",
	})
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	require.NotNil(t, result.OrderID)
	assert.Equal(t, order.ID, *result.OrderID)

	var txn models.PaymentTransaction
	require.NoError(t, db.First(&txn, "razorpay_order_id = ?", "order_rzp_test123").Error)
	assert.Equal(t, models.TransactionStatusComplete, txn.Status)
	assert.Equal(t, models.PaymentStatusPaid, txn.PaymentStatus)
	assert.Equal(t, "pay_abc", txn.RazorpayPaymentID)

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, models.OrderStatusConfirmed, stored.Status)
}

func TestVerifyPaymentReplay(t *testing.T) {
	db := paymentTestDB(t)
	svc := services.NewPaymentService(db, &fakeGateway{}, "rzp_test_key", "INR")

	order := seedOrder(t, db, 250.00)
	_, err := svc.CreateGatewayOrder(context.Background(), order.ID)
	require.NoError(t, err)

	params := services.VerifyParams{
		RazorpayOrderID:   "order_rzp_test123",
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: "valid-signature",
	}

	_, err = svc.VerifyPayment(context.Background(), params)
	require.NoError(t, err)

	// A replay with a different payment id must not overwrite the
	// stored transaction.
	params.RazorpayPaymentID = "pay_other"
	result, err := svc.VerifyPayment(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)

	var txn models.PaymentTransaction
	require.NoError(t, db.First(&txn, "razorpay_order_id = ?", "order_rzp_test123").Error)
	assert.Equal(t, "pay_abc", txn.RazorpayPaymentID)
}

func TestVerifyPaymentInvalidSignature(t *testing.T) {
	db := paymentTestDB(t)
	svc := services.NewPaymentService(db, &fakeGateway{}, "rzp_test_key", "INR")

	order := seedOrder(t, db, 250.00)
	_, err := svc.CreateGatewayOrder(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = svc.VerifyPayment(context.Background(), services.VerifyParams{
		RazorpayOrderID:   "order_rzp_test123",
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: "tampered",
	})
	assert.ErrorIs(t, err, services.ErrInvalidSignature)

	var txn models.PaymentTransaction
	require.NoError(t, db.First(&txn, "razorpay_order_id = ?", "order_rzp_test123").Error)
	assert.Equal(t, models.TransactionStatusCreated, txn.Status)
	assert.Equal(t, models.PaymentStatusPending, txn.PaymentStatus)

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
}

func TestVerifyPaymentUnknownTransaction(t *testing.T) {
	db := paymentTestDB(t)
	svc := services.NewPaymentService(db, &fakeGateway{}, "rzp_test_key", "INR")

	result, err := svc.VerifyPayment(context.Background(), services.VerifyParams{
		RazorpayOrderID:   "order_rzp_untracked",
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: "valid-signature",
	})
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Nil(t, result.OrderID)
}

func TestStatus(t *testing.T) {
	db := paymentTestDB(t)
	svc := services.NewPaymentService(db, &fakeGateway{}, "rzp_test_key", "INR")

	order := seedOrder(t, db, 75.50)
	_, err := svc.CreateGatewayOrder(context.Background(), order.ID)
	require.NoError(t, err)

	status, err := svc.Status(context.Background(), "order_rzp_test123")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCreated, status.Status)
	assert.Equal(t, models.PaymentStatusPending, status.PaymentStatus)
	assert.Equal(t, 75.50, status.Amount)
	assert.Equal(t, "INR", status.Currency)

	_, err = svc.Status(context.Background(), "order_rzp_missing")
	assert.ErrorIs(t, err, services.ErrTransactionNotFound)
}

func TestReceiptTruncation(t *testing.T) {
	db := paymentTestDB(t)
	gateway := &fakeGateway{}
	svc := services.NewPaymentService(db, gateway, "rzp_test_key", "INR")

	order := models.Order{
		ID:            "order_" + strings.Repeat("a", 44),
		TotalAmount:   10,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
	}
	require.NoError(t, db.Create(&order).Error)

	_, err := svc.CreateGatewayOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, gateway.lastReceipt, 40)
}
