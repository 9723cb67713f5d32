package services

import (
	"context"
	"errors"

	razorpay "github.com/razorpay/razorpay-go"
	rputils "github.com/razorpay/razorpay-go/utils"
)

// RazorpayGateway adapts the Razorpay SDK to the Gateway interface.
// Signature verification is delegated to the SDK's own primitive.
type RazorpayGateway struct {
	client    *razorpay.Client
	keySecret string
}

// NewRazorpayGateway builds a gateway over the given API key pair.
func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keySecret: keySecret,
	}
}

// CreateOrder creates a remote order with auto-capture enabled and
// returns the gateway order id.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", err
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return "", errors.New("razorpay: order response missing id")
	}
	return id, nil
}

// VerifyPaymentSignature checks a checkout callback signature against
// the shared key secret.
func (g *RazorpayGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return rputils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}, signature, g.keySecret)
}
