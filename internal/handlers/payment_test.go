package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/neelam/internal/models"
)

func TestPaymentCheckoutFlow(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "POST", "/api/orders", orderPayload("+919876543210"), "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	orderID := decodeMap(t, resp)["order_id"].(string)

	resp = env.request(t, "POST", "/api/razorpay/create-order", fiber.Map{
		"order_id": orderID,
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	session := decodeMap(t, resp)
	assert.Equal(t, "order_rzp_test1", session["razorpay_order_id"])
	assert.Equal(t, "rzp_test_key", session["razorpay_key_id"])
	assert.Equal(t, float64(130000), session["amount"])
	assert.Equal(t, "INR", session["currency"])
	assert.Equal(t, orderID, session["order_id"])

	resp = env.request(t, "GET", "/api/razorpay/status/order_rzp_test1", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	status := decodeMap(t, resp)
	assert.Equal(t, models.TransactionStatusCreated, status["status"])
	assert.Equal(t, models.PaymentStatusPending, status["payment_status"])

	resp = env.request(t, "POST", "/api/razorpay/verify", fiber.Map{
		"razorpay_order_id":   "order_rzp_test1",
		"razorpay_payment_id": "pay_abc",
		"razorpay_signature":  "valid-signature",
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeMap(t, resp)
	assert.Equal(t, "success", result["status"])
	assert.Equal(t, orderID, result["order_id"])

	var order models.Order
	require.NoError(t, env.db.First(&order, "id = ?", orderID).Error)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
}

func TestPaymentCreateOrderErrors(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "POST", "/api/razorpay/create-order", fiber.Map{
		"order_id": "order_missing",
	}, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = env.request(t, "POST", "/api/razorpay/create-order", fiber.Map{}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPaymentCreateOrderGatewayDown(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.failCreate = true

	resp := env.request(t, "POST", "/api/orders", orderPayload("+919876543210"), "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	orderID := decodeMap(t, resp)["order_id"].(string)

	resp = env.request(t, "POST", "/api/razorpay/create-order", fiber.Map{
		"order_id": orderID,
	}, "")
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	// Provider detail stays masked.
	body := decodeMap(t, resp)
	assert.Equal(t, "failed to create payment order", body["message"])
}

func TestPaymentVerifyInvalidSignature(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "POST", "/api/razorpay/verify", fiber.Map{
		"razorpay_order_id":   "order_rzp_test1",
		"razorpay_payment_id": "pay_abc",
		"razorpay_signature":  "tampered",
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPaymentVerifyMissingFields(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "POST", "/api/razorpay/verify", fiber.Map{
		"razorpay_order_id": "order_rzp_test1",
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPaymentStatusNotFound(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "GET", "/api/razorpay/status/order_rzp_missing", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
