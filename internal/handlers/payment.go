package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/neelam/internal/services"
)

// PaymentHandler exposes the gateway checkout flow over HTTP. All
// provider detail lives in the payment service; this layer only maps
// errors to statuses.
type PaymentHandler struct {
	payments *services.PaymentService
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type createPaymentOrderRequest struct {
	OrderID string `json:"order_id"`
}

// CreateOrder opens a gateway checkout session for an existing order.
func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	var req createPaymentOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.OrderID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "order_id is required")
	}

	session, err := h.payments.CreateGatewayOrder(c.UserContext(), req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		case errors.Is(err, services.ErrGatewayUnavailable):
			return fiber.NewError(fiber.StatusInternalServerError, "failed to create payment order")
		}
		return err
	}

	return c.JSON(session)
}

// Verify validates a checkout callback and promotes the order to paid.
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	var params services.VerifyParams
	if err := c.BodyParser(&params); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if params.RazorpayOrderID == "" || params.RazorpayPaymentID == "" || params.RazorpaySignature == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing payment verification fields")
	}

	result, err := h.payments.VerifyPayment(c.UserContext(), params)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSignature) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payment signature")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "payment verification failed")
	}

	return c.JSON(result)
}

// Status returns the stored transaction state for a gateway order id.
func (h *PaymentHandler) Status(c *fiber.Ctx) error {
	status, err := h.payments.Status(c.UserContext(), c.Params("razorpay_order_id"))
	if err != nil {
		if errors.Is(err, services.ErrTransactionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "transaction not found")
		}
		return err
	}
	return c.JSON(status)
}
