package orders

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/praveen037/agriconnect/pkg/db/models"
	pkgerrors "github.com/praveen037/agriconnect/pkg/errors"
	"github.com/praveen037/agriconnect/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	summaries := `
CREATE TABLE order_summaries (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  session_id TEXT NOT NULL,
  items TEXT NOT NULL,
  total_amount NUMERIC NOT NULL,
  amount_minor BIGINT NOT NULL,
  currency TEXT NOT NULL,
  upstream_order_id TEXT NOT NULL,
  provider_order_id TEXT NOT NULL,
  provider_payment_id TEXT NOT NULL,
  shipping_name TEXT,
  shipping_address TEXT,
  shipping_city TEXT,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
	attempts := `
CREATE TABLE checkout_attempts (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  amount_minor BIGINT NOT NULL,
  state TEXT NOT NULL,
  failure_code TEXT,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
	require.NoError(t, db.Exec(summaries).Error)
	require.NoError(t, db.Exec(attempts).Error)
	return db
}

func sampleSummary(sessionID string) *models.OrderSummary {
	return &models.OrderSummary{
		UserID:    "42",
		SessionID: sessionID,
		Items: []types.OrderLine{
			{ProductID: "p1", Name: "Tomato Seeds", UnitPrice: decimal.RequireFromString("200.00"), Quantity: 2},
		},
		TotalAmount:     decimal.RequireFromString("400.00"),
		AmountMinor:     40000,
		Currency:        "INR",
		UpstreamOrderID: "ord_local",
		ProviderOrderID: "order_rzp",
		ProviderPayment: "pay_rzp",
		ShippingName:    "Ravi Kumar",
	}
}

func TestSaveAndLoadLatestSummary(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	first := sampleSummary("s1")
	require.NoError(t, repo.SaveSummary(ctx, first))
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", first.ID.String())

	second := sampleSummary("s1")
	second.ProviderOrderID = "order_rzp_2"
	second.CreatedAt = time.Now().Add(time.Minute)
	require.NoError(t, repo.SaveSummary(ctx, second))

	latest, err := repo.LatestSummary(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "order_rzp_2", latest.ProviderOrderID)
	require.Len(t, latest.Items, 1)
	assert.Equal(t, 2, latest.Items[0].Quantity)
}

func TestLatestSummaryMissingIsNotFound(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))

	_, err := repo.LatestSummary(context.Background(), "nope")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestRecordAttempt(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.RecordAttempt(ctx, &models.CheckoutAttempt{
		SessionID:   "s1",
		UserID:      "42",
		AmountMinor: 40000,
		State:       "failed",
		FailureCode: "ORDER_CREATION_FAILED",
	}))

	var rows []models.CheckoutAttempt
	require.NoError(t, repo.db.WithContext(ctx).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "failed", rows[0].State)
}
