package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/praveen037/agriconnect/pkg/config"
	"github.com/praveen037/agriconnect/pkg/logger"
)

func testRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "test-secret", Issuer: "agriconnect-test", ExpirationMinutes: 15}
	return NewRouter(Deps{
		Cfg:  cfg,
		Logg: logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
}

func TestHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAuthenticatedSurfaceRejectsAnonymousRequests(t *testing.T) {
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/me/cart"},
		{http.MethodPost, "/api/v1/me/checkout"},
		{http.MethodGet, "/api/v1/me/orders"},
		{http.MethodGet, "/api/v1/me/admin/approvals/vendor"},
	}
	router := testRouter()
	for _, tc := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", tc.method, tc.path, rec.Code)
		}
	}
}

func TestMetricsRouteOnlyWithRegistry(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 without a registry", rec.Code)
	}
}
