package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/praveen037/agriconnect/pkg/types"
)

// OrderSummary persists the confirmation payload shown after a verified
// payment. It is a display record only; the upstream core API owns the order.
type OrderSummary struct {
	ID               uuid.UUID         `gorm:"column:id;type:text;primaryKey"`
	UserID           string            `gorm:"column:user_id;not null;index"`
	SessionID        string            `gorm:"column:session_id;not null;index"`
	Items            []types.OrderLine `gorm:"column:items;serializer:json"`
	TotalAmount      decimal.Decimal   `gorm:"column:total_amount;type:numeric;not null"`
	AmountMinor      int64             `gorm:"column:amount_minor;not null"`
	Currency         string            `gorm:"column:currency;not null"`
	UpstreamOrderID  string            `gorm:"column:upstream_order_id;not null"`
	ProviderOrderID  string            `gorm:"column:provider_order_id;not null"`
	ProviderPayment  string            `gorm:"column:provider_payment_id;not null"`
	ShippingName     string            `gorm:"column:shipping_name"`
	ShippingAddress  string            `gorm:"column:shipping_address"`
	ShippingCity     string            `gorm:"column:shipping_city"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the table aligned with the goose migration.
func (OrderSummary) TableName() string {
	return "order_summaries"
}
