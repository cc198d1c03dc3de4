package upstream

import "encoding/json"

// Credentials is the login payload forwarded verbatim to the role-specific
// login endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IdentityPayload is the raw login/registration response. The role field name
// varies by endpoint (role, userType or type), so all three are captured and
// normalized by the caller.
type IdentityPayload struct {
	ID       json.Number `json:"id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
	Address  string      `json:"address"`
	Role     string      `json:"role"`
	UserType string      `json:"userType"`
	Type     string      `json:"type"`
}

// NormalizedRole returns whichever role field the endpoint populated.
func (p IdentityPayload) NormalizedRole() string {
	if p.Role != "" {
		return p.Role
	}
	if p.UserType != "" {
		return p.UserType
	}
	return p.Type
}

// OrderItem is one cart line as transported to the payment endpoint.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// CreateOrderRequest asks the core API to create a provider order for the
// given amount in minor units.
type CreateOrderRequest struct {
	UserID string      `json:"userId"`
	Amount int64       `json:"amount"`
	Items  []OrderItem `json:"items"`
}

// PaymentIntent is the provider order issued by the core API; opaque to the
// gateway beyond being handed to the payment widget.
type PaymentIntent struct {
	ID           string `json:"id"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	LocalOrderID string `json:"localOrderId,omitempty"`
}

// VerifyPaymentRequest forwards the provider callback fields verbatim.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// VerifyPaymentResponse reports whether the core API accepted the signature.
type VerifyPaymentResponse struct {
	Status string `json:"status"`
}

// Verified reports a confirmed payment.
func (r VerifyPaymentResponse) Verified() bool {
	return r.Status == "success"
}

// Product mirrors the catalog shape served by the core API.
type Product struct {
	ID          json.Number `json:"id"`
	Name        string      `json:"productName"`
	Description string      `json:"description"`
	Cost        float64     `json:"cost"`
	Unit        string      `json:"unit"`
	Stock       int         `json:"quantity"`
	Image       string      `json:"image"`
	CategoryID  json.Number `json:"categoryId"`
	VendorID    json.Number `json:"vendorId"`
}

// Category mirrors the product category shape served by the core API.
type Category struct {
	ID   json.Number `json:"id"`
	Name string      `json:"categoryName"`
}

// Order is a buyer's historical order as reported by the core API.
type Order struct {
	ID          json.Number       `json:"id"`
	TotalAmount float64           `json:"totalAmount"`
	Status      string            `json:"status"`
	PlacedAt    string            `json:"placedAt"`
	Items       []json.RawMessage `json:"items"`
}

// ExpertQuery is a buyer question routed to an agricultural expert.
type ExpertQuery struct {
	ID       json.Number `json:"id"`
	UserID   string      `json:"userId"`
	Question string      `json:"question"`
	Answer   string      `json:"answer,omitempty"`
	Status   string      `json:"status,omitempty"`
}

// PendingApproval is a vendor or expert awaiting an admin decision.
type PendingApproval struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Type  string      `json:"type,omitempty"`
}
