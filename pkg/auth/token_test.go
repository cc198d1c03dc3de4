package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/praveen037/agriconnect/pkg/config"
	"github.com/praveen037/agriconnect/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "agriconnect",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()

	payload := AccessTokenPayload{
		UserID:    "42",
		SessionID: "sess-abc",
		Role:      enums.RoleBuyer,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != "42" {
		t.Fatalf("expected user_id 42, got %s", claims.UserID)
	}
	if claims.Role != enums.RoleBuyer {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.ID != "sess-abc" {
		t.Fatalf("expected session id claim, got %s", claims.ID)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestMintAccessTokenGeneratesSessionID(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "agriconnect", ExpirationMinutes: 10}

	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: "7", Role: enums.RoleVendor})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if strings.TrimSpace(claims.ID) == "" {
		t.Fatal("expected generated session id")
	}
}

func TestMintAccessTokenRejectsInvalidRole(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "agriconnect", ExpirationMinutes: 10}
	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: "7", Role: enums.Role("ROOT")}); err == nil {
		t.Fatal("expected invalid role to be rejected")
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	mintCfg := config.JWTConfig{Secret: "secret", Issuer: "agriconnect", ExpirationMinutes: 10}
	parseCfg := config.JWTConfig{Secret: "other", Issuer: "agriconnect", ExpirationMinutes: 10}

	token, err := MintAccessToken(mintCfg, time.Now(), AccessTokenPayload{UserID: "7", Role: enums.RoleAdmin})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	if _, err := ParseAccessToken(parseCfg, token); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}
