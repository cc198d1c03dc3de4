package razorpay

import (
	"fmt"
	"strings"

	"github.com/praveen037/agriconnect/pkg/config"
)

// Prefill seeds the hosted widget's contact form.
type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// Theme customizes the widget chrome.
type Theme struct {
	Color string `json:"color,omitempty"`
}

// CheckoutOptions is the construction payload for the hosted payment widget.
// The browser instantiates the widget with these options verbatim; handler
// and dismissal callbacks are wired client-side to the gateway's confirm and
// cancel endpoints.
type CheckoutOptions struct {
	Key         string  `json:"key"`
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	OrderID     string  `json:"order_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Prefill     Prefill `json:"prefill"`
	Theme       Theme   `json:"theme,omitempty"`
}

// CallbackPayload is the widget's success response, forwarded verbatim to the
// core API's verify endpoint.
type CallbackPayload struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// Validate ensures the provider populated every field the verify endpoint
// requires; the gateway never inspects the values themselves.
func (p CallbackPayload) Validate() error {
	if strings.TrimSpace(p.RazorpayOrderID) == "" {
		return fmt.Errorf("razorpay_order_id is required")
	}
	if strings.TrimSpace(p.RazorpayPaymentID) == "" {
		return fmt.Errorf("razorpay_payment_id is required")
	}
	if strings.TrimSpace(p.RazorpaySignature) == "" {
		return fmt.Errorf("razorpay_signature is required")
	}
	return nil
}

// BuildOptions assembles widget options for a created payment intent.
func BuildOptions(cfg config.RazorpayConfig, orderID string, amountMinor int64, currency string, prefill Prefill) (*CheckoutOptions, error) {
	if strings.TrimSpace(cfg.KeyID) == "" {
		return nil, fmt.Errorf("razorpay key id is required")
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, fmt.Errorf("order id is required")
	}
	if amountMinor <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", amountMinor)
	}

	return &CheckoutOptions{
		Key:         cfg.KeyID,
		Amount:      amountMinor,
		Currency:    currency,
		OrderID:     orderID,
		Name:        cfg.DisplayName,
		Description: cfg.Description,
		Prefill:     prefill,
		Theme:       Theme{Color: cfg.ThemeColor},
	}, nil
}
