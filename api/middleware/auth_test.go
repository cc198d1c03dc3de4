package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/praveen037/agriconnect/pkg/auth"
	"github.com/praveen037/agriconnect/pkg/config"
	"github.com/praveen037/agriconnect/pkg/enums"
)

type staticChecker struct {
	ok  bool
	err error
}

func (s staticChecker) HasSession(context.Context, string) (bool, error) {
	return s.ok, s.err
}

func jwtConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "agriconnect-test",
		ExpirationMinutes: 15,
	}
}

func mintToken(t *testing.T) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(jwtConfig(), time.Now(), pkgAuth.AccessTokenPayload{
		UserID:    "42",
		SessionID: "sess-1",
		Role:      enums.RoleBuyer,
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func authedRequest(t *testing.T, token string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthSeedsContext(t *testing.T) {
	var gotUser, gotRole, gotSession string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		gotSession = SessionIDFromContext(r.Context())
	})

	rec := httptest.NewRecorder()
	Auth(jwtConfig(), staticChecker{ok: true}, nil)(next).ServeHTTP(rec, authedRequest(t, mintToken(t)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if gotUser != "42" || gotRole != string(enums.RoleBuyer) || gotSession != "sess-1" {
		t.Fatalf("context = user %q role %q session %q", gotUser, gotRole, gotSession)
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

	Auth(jwtConfig(), staticChecker{ok: true}, nil)(next).ServeHTTP(rec, authedRequest(t, ""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Fatal("handler must not run without credentials")
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	rec := httptest.NewRecorder()
	Auth(jwtConfig(), staticChecker{ok: true}, nil)(http.NotFoundHandler()).
		ServeHTTP(rec, authedRequest(t, "not-a-jwt"))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthRejectsDeadSession(t *testing.T) {
	rec := httptest.NewRecorder()
	Auth(jwtConfig(), staticChecker{ok: false}, nil)(http.NotFoundHandler()).
		ServeHTTP(rec, authedRequest(t, mintToken(t)))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 when the session is gone", rec.Code)
	}
}

func TestRequireRoleGates(t *testing.T) {
	allowed := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { allowed = true })
	guard := RequireRole(enums.RoleAdmin, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), string(enums.RoleBuyer)))
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden || allowed {
		t.Fatalf("buyer reaching admin surface: status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), string(enums.RoleAdmin)))
	rec = httptest.NewRecorder()
	guard.ServeHTTP(rec, req)
	if !allowed {
		t.Fatal("admin must pass the admin guard")
	}
}

func TestRequireAnyRole(t *testing.T) {
	allowed := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { allowed = true })
	guard := RequireAnyRole(nil, enums.RoleVendor, enums.RoleAdmin)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), string(enums.RoleVendor)))
	guard.ServeHTTP(httptest.NewRecorder(), req)
	if !allowed {
		t.Fatal("vendor must pass a vendor-or-admin guard")
	}
}
