package models

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutAttempt records every intent-creation attempt for supportability;
// failed verifications keep their row so a charged-but-unconfirmed payment
// can be traced.
type CheckoutAttempt struct {
	ID          uuid.UUID `gorm:"column:id;type:text;primaryKey"`
	SessionID   string    `gorm:"column:session_id;not null;index"`
	UserID      string    `gorm:"column:user_id;not null"`
	AmountMinor int64     `gorm:"column:amount_minor;not null"`
	State       string    `gorm:"column:state;not null"`
	FailureCode string    `gorm:"column:failure_code"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the table aligned with the goose migration.
func (CheckoutAttempt) TableName() string {
	return "checkout_attempts"
}
