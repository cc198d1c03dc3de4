package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sethvargo/go-retry"

	"github.com/praveen037/agriconnect/pkg/config"
	"github.com/praveen037/agriconnect/pkg/enums"
	"github.com/praveen037/agriconnect/pkg/logger"
)

// Client is the typed HTTP client for the core marketplace API. The core API
// owns all business state; the gateway only presents it.
type Client struct {
	baseURL string
	http    *http.Client
	cfg     config.UpstreamConfig
	logg    *logger.Logger
}

// New validates the base URL and builds the client.
func New(cfg config.UpstreamConfig, logg *logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("upstream base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parsing upstream base url: %w", err)
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		cfg:     cfg,
		logg:    logg,
	}, nil
}

// Error carries the upstream failure classification the orchestrator needs:
// transport failure (StatusCode zero), server rejection (5xx) or a client
// error with the backend's message.
type Error struct {
	StatusCode int
	Message    string
	cause      error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upstream unreachable: %v", e.cause)
	}
	if e.Message != "" {
		return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream status %d", e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Offline reports a transport-level failure (no HTTP response at all).
func (e *Error) Offline() bool {
	return e.StatusCode == 0
}

// ServerError reports a 5xx rejection.
func (e *Error) ServerError() bool {
	return e.StatusCode >= 500
}

// Conflict reports a 409/422 rejection, which the core API uses when the
// submitted cart no longer matches live stock or pricing.
func (e *Error) Conflict() bool {
	return e.StatusCode == http.StatusConflict || e.StatusCode == http.StatusUnprocessableEntity
}

// upstreamErrorBody captures the error shapes the core API responds with.
type upstreamErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (b upstreamErrorBody) text() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}

func loginPath(role enums.Role) string {
	switch role {
	case enums.RoleVendor:
		return "/vendors/vendor-login"
	case enums.RoleAdmin:
		return "/admins/login"
	case enums.RoleExpert:
		return "/experts/login"
	default:
		return "/users/login"
	}
}

func registerPath(role enums.Role) string {
	switch role {
	case enums.RoleVendor:
		return "/vendors/register"
	case enums.RoleExpert:
		return "/experts/register"
	default:
		return "/users/register"
	}
}

// Login authenticates against the role-specific endpoint.
func (c *Client) Login(ctx context.Context, role enums.Role, creds Credentials) (*IdentityPayload, error) {
	var out IdentityPayload
	if err := c.post(ctx, loginPath(role), creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new account of the requested role.
func (c *Client) Register(ctx context.Context, role enums.Role, body any) (*IdentityPayload, error) {
	var out IdentityPayload
	if err := c.post(ctx, registerPath(role), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile shallow-updates the authenticated user's profile upstream.
func (c *Client) UpdateProfile(ctx context.Context, userID string, body any) (*IdentityPayload, error) {
	var out IdentityPayload
	if err := c.put(ctx, "/users/"+url.PathEscape(userID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrder asks the core API for a provider payment order.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*PaymentIntent, error) {
	var out PaymentIntent
	if err := c.post(ctx, "/payments/create-order", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyPayment forwards the provider callback fields for signature checking.
func (c *Client) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*VerifyPaymentResponse, error) {
	var out VerifyPaymentResponse
	if err := c.post(ctx, "/payments/verify-payment", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyOrders returns the buyer's order history.
func (c *Client) MyOrders(ctx context.Context, userID string) ([]Order, error) {
	var out []Order
	if err := c.get(ctx, "/orders/my-orders?userId="+url.QueryEscape(userID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListProducts returns the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.get(ctx, "/products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct returns one product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := c.get(ctx, "/products/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct adds a vendor product.
func (c *Client) CreateProduct(ctx context.Context, body any) (*Product, error) {
	var out Product
	if err := c.post(ctx, "/products", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct replaces a vendor product.
func (c *Client) UpdateProduct(ctx context.Context, id string, body any) (*Product, error) {
	var out Product
	if err := c.put(ctx, "/products/"+url.PathEscape(id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct removes a vendor product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.delete(ctx, "/products/"+url.PathEscape(id))
}

// ListCategories returns the product categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.get(ctx, "/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitQuery routes a question to an expert.
func (c *Client) SubmitQuery(ctx context.Context, body any) (*ExpertQuery, error) {
	var out ExpertQuery
	if err := c.post(ctx, "/queries", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QueryHistory returns the user's past expert queries.
func (c *Client) QueryHistory(ctx context.Context, userID string) ([]ExpertQuery, error) {
	var out []ExpertQuery
	if err := c.get(ctx, "/queries?userId="+url.QueryEscape(userID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AnswerQuery records an expert's answer.
func (c *Client) AnswerQuery(ctx context.Context, queryID string, body any) (*ExpertQuery, error) {
	var out ExpertQuery
	if err := c.put(ctx, "/queries/"+url.PathEscape(queryID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PendingVendors lists vendors awaiting admin approval.
func (c *Client) PendingVendors(ctx context.Context) ([]PendingApproval, error) {
	var out []PendingApproval
	if err := c.get(ctx, "/admins/pending-vendors", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PendingExperts lists experts awaiting admin approval.
func (c *Client) PendingExperts(ctx context.Context) ([]PendingApproval, error) {
	var out []PendingApproval
	if err := c.get(ctx, "/admins/pending-experts", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecideVendor approves or rejects a pending vendor.
func (c *Client) DecideVendor(ctx context.Context, vendorID string, approve bool) error {
	return c.post(ctx, "/admins/vendors/"+url.PathEscape(vendorID)+"/"+decisionSegment(approve), nil, nil)
}

// DecideExpert approves or rejects a pending expert.
func (c *Client) DecideExpert(ctx context.Context, expertID string, approve bool) error {
	return c.post(ctx, "/admins/experts/"+url.PathEscape(expertID)+"/"+decisionSegment(approve), nil, nil)
}

func decisionSegment(approve bool) string {
	if approve {
		return "approve"
	}
	return "reject"
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	// Reads are idempotent, so transient transport failures are retried.
	backoff := retry.WithMaxRetries(uint64(c.cfg.ReadRetries), retry.NewConstant(c.cfg.RetryBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.do(ctx, http.MethodGet, path, nil, dest)
		var typed *Error
		if errors.As(err, &typed) && typed.Offline() {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *Client) post(ctx context.Context, path string, body, dest any) error {
	return c.do(ctx, http.MethodPost, path, body, dest)
}

func (c *Client) put(ctx context.Context, path string, body, dest any) error {
	return c.do(ctx, http.MethodPut, path, body, dest)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{cause: err}
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		var parsed upstreamErrorBody
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(raw, &parsed)
		return &Error{StatusCode: resp.StatusCode, Message: parsed.text()}
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}
