package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix scopes every environment variable consumed by the gateway.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced from tests and tooling.
const (
	EnvAppEnv          = "AGRICONNECT_APP_ENV"
	EnvPort            = "AGRICONNECT_APP_PORT"
	EnvUpstreamBaseURL = "AGRICONNECT_UPSTREAM_BASE_URL"
	EnvRedisURL        = "AGRICONNECT_REDIS_URL"
	EnvDBDSN           = "AGRICONNECT_DB_DSN"
	EnvJWTSecret       = "AGRICONNECT_JWT_SECRET"
	EnvJWTIssuer       = "AGRICONNECT_JWT_ISSUER"
	EnvJWTExpMins      = "AGRICONNECT_JWT_EXPIRATION_MINUTES"
	EnvRazorpayKeyID   = "AGRICONNECT_RAZORPAY_KEY_ID"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Session  SessionConfig
	Cart     CartConfig
	Checkout CheckoutConfig
	Razorpay RazorpayConfig
	Catalog  CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AGRICONNECT_APP_ENV" required:"true"`
	Port         string `envconfig:"AGRICONNECT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AGRICONNECT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AGRICONNECT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points the gateway at the core marketplace API, which owns
// all business state (inventory, orders, users, payments).
type UpstreamConfig struct {
	BaseURL        string        `envconfig:"AGRICONNECT_UPSTREAM_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"AGRICONNECT_UPSTREAM_REQUEST_TIMEOUT" default:"15s"`
	ReadRetries    int           `envconfig:"AGRICONNECT_UPSTREAM_READ_RETRIES" default:"2"`
	RetryBackoff   time.Duration `envconfig:"AGRICONNECT_UPSTREAM_RETRY_BACKOFF" default:"250ms"`
}

type DBConfig struct {
	DSN    string `envconfig:"AGRICONNECT_DB_DSN" default:"agriconnect.db"`
	Driver string `envconfig:"AGRICONNECT_DB_DRIVER" default:"sqlite"`

	MaxOpenConns    int           `envconfig:"AGRICONNECT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"AGRICONNECT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"AGRICONNECT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AGRICONNECT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AGRICONNECT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AGRICONNECT_REDIS_ADDR"`
	Password     string        `envconfig:"AGRICONNECT_REDIS_PASSWORD"`
	DB           int           `envconfig:"AGRICONNECT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AGRICONNECT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AGRICONNECT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AGRICONNECT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AGRICONNECT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AGRICONNECT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AGRICONNECT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AGRICONNECT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"AGRICONNECT_JWT_EXPIRATION_MINUTES" required:"true"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type SessionConfig struct {
	TTL time.Duration `envconfig:"AGRICONNECT_SESSION_TTL" default:"720h"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"AGRICONNECT_CART_TTL" default:"168h"`
}

// CheckoutConfig carries the business thresholds observed in production;
// they are configuration rather than constants because the numbers are
// region- and merchant-specific.
type CheckoutConfig struct {
	MinAmountMinor   int64         `envconfig:"AGRICONNECT_CHECKOUT_MIN_AMOUNT_MINOR" default:"100"`
	MaxCreateRetries int           `envconfig:"AGRICONNECT_CHECKOUT_MAX_CREATE_RETRIES" default:"3"`
	CreateTimeout    time.Duration `envconfig:"AGRICONNECT_CHECKOUT_CREATE_TIMEOUT" default:"30s"`
	VerifyTimeout    time.Duration `envconfig:"AGRICONNECT_CHECKOUT_VERIFY_TIMEOUT" default:"30s"`
	Currency         string        `envconfig:"AGRICONNECT_CHECKOUT_CURRENCY" default:"INR"`

	// PhoneLeadDigits lists the digits a mobile number may start with.
	// Defaults to the Indian mobile convention.
	PhoneLeadDigits string `envconfig:"AGRICONNECT_CHECKOUT_PHONE_LEAD_DIGITS" default:"6789"`
	PhoneLength     int    `envconfig:"AGRICONNECT_CHECKOUT_PHONE_LENGTH" default:"10"`
	ZipLength       int    `envconfig:"AGRICONNECT_CHECKOUT_ZIP_LENGTH" default:"6"`
}

func (c CheckoutConfig) validate() error {
	if c.MinAmountMinor < 0 {
		return fmt.Errorf("checkout min amount must not be negative")
	}
	if c.MaxCreateRetries <= 0 {
		return fmt.Errorf("checkout max create retries must be positive")
	}
	if strings.TrimSpace(c.PhoneLeadDigits) == "" {
		return fmt.Errorf("checkout phone lead digits are required")
	}
	for _, r := range c.PhoneLeadDigits {
		if r < '0' || r > '9' {
			return fmt.Errorf("checkout phone lead digits must be digits, got %q", r)
		}
	}
	return nil
}

// RazorpayConfig describes the hosted checkout widget handed to the browser.
type RazorpayConfig struct {
	KeyID       string `envconfig:"AGRICONNECT_RAZORPAY_KEY_ID" required:"true"`
	DisplayName string `envconfig:"AGRICONNECT_RAZORPAY_DISPLAY_NAME" default:"AgriConnect"`
	Description string `envconfig:"AGRICONNECT_RAZORPAY_DESCRIPTION" default:"Order Payment"`
	ThemeColor  string `envconfig:"AGRICONNECT_RAZORPAY_THEME_COLOR" default:"#4CAF50"`
}

type CatalogConfig struct {
	CacheTTL time.Duration `envconfig:"AGRICONNECT_CATALOG_CACHE_TTL" default:"60s"`
}
