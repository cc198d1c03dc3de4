package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/praveen037/agriconnect/pkg/config"
	"github.com/praveen037/agriconnect/pkg/enums"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(config.UpstreamConfig{
		BaseURL:        server.URL,
		RequestTimeout: 2 * time.Second,
		ReadRetries:    2,
		RetryBackoff:   time.Millisecond,
	}, nil)
	if err != nil {
		t.Fatalf("building client: %v", err)
	}
	return client
}

func TestLoginUsesRoleSpecificPath(t *testing.T) {
	var gotPath string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"id": 7, "name": "Asha", "userType": "VENDOR"})
	}))

	payload, err := client.Login(context.Background(), enums.RoleVendor, Credentials{Email: "a@b.in", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if gotPath != "/vendors/vendor-login" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if payload.NormalizedRole() != "VENDOR" {
		t.Fatalf("expected role from userType field, got %q", payload.NormalizedRole())
	}
	if payload.ID.String() != "7" {
		t.Fatalf("expected numeric id to survive, got %q", payload.ID)
	}
}

func TestCreateOrderDecodesIntent(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments/create-order" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Amount != 40000 {
			t.Errorf("expected amount 40000, got %d", req.Amount)
		}
		json.NewEncoder(w).Encode(PaymentIntent{ID: "order_abc", Amount: req.Amount, Currency: "INR"})
	}))

	intent, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		UserID: "42",
		Amount: 40000,
		Items:  []OrderItem{{ProductID: "9", Quantity: 2, Price: 200}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if intent.ID != "order_abc" || intent.Currency != "INR" {
		t.Fatalf("unexpected intent %+v", intent)
	}
}

func TestErrorClassification(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/payments/create-order":
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "insufficient stock"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"message": "boom"})
		}
	}))

	_, err := client.CreateOrder(context.Background(), CreateOrderRequest{UserID: "1", Amount: 500})
	var typed *Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !typed.Conflict() || typed.ServerError() || typed.Offline() {
		t.Fatalf("expected conflict classification, got %+v", typed)
	}
	if typed.Message != "insufficient stock" {
		t.Fatalf("expected backend message, got %q", typed.Message)
	}

	_, err = client.VerifyPayment(context.Background(), VerifyPaymentRequest{})
	if !errors.As(err, &typed) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !typed.ServerError() {
		t.Fatalf("expected server error classification, got %+v", typed)
	}
	if typed.Message != "boom" {
		t.Fatalf("expected message field fallback, got %q", typed.Message)
	}
}

func TestOfflineClassification(t *testing.T) {
	client, err := New(config.UpstreamConfig{
		BaseURL:        "http://127.0.0.1:1",
		RequestTimeout: 200 * time.Millisecond,
		ReadRetries:    0,
		RetryBackoff:   time.Millisecond,
	}, nil)
	if err != nil {
		t.Fatalf("building client: %v", err)
	}

	_, err = client.CreateOrder(context.Background(), CreateOrderRequest{UserID: "1", Amount: 500})
	var typed *Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !typed.Offline() {
		t.Fatalf("expected offline classification, got %+v", typed)
	}
}

func TestGetRetriesTransportFailures(t *testing.T) {
	attempts := 0
	flaky := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			// Drop the connection to simulate a transient transport failure.
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("hijacking unsupported")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatalf("hijack: %v", err)
			}
			conn.Close()
			return
		}
		json.NewEncoder(w).Encode([]Product{{Name: "Wheat Seed", Cost: 120}})
	}))
	t.Cleanup(flaky.Close)

	client, err := New(config.UpstreamConfig{
		BaseURL:        flaky.URL,
		RequestTimeout: time.Second,
		ReadRetries:    2,
		RetryBackoff:   time.Millisecond,
	}, nil)
	if err != nil {
		t.Fatalf("building client: %v", err)
	}

	products, err := client.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list products after retry: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Wheat Seed" {
		t.Fatalf("unexpected products %+v", products)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}
