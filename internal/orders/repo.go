package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praveen037/agriconnect/pkg/db/models"
	pkgerrors "github.com/praveen037/agriconnect/pkg/errors"
)

// Repository persists gateway-side order display state.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveSummary inserts the confirmation record written after a verified
// payment.
func (r *Repository) SaveSummary(ctx context.Context, summary *models.OrderSummary) error {
	if summary.ID == uuid.Nil {
		summary.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(summary).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving order summary")
	}
	return nil
}

// LatestSummary returns the most recent confirmation for the session, for
// the post-payment confirmation screen.
func (r *Repository) LatestSummary(ctx context.Context, sessionID string) (*models.OrderSummary, error) {
	var summary models.OrderSummary
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no completed order for this session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order summary")
	}
	return &summary, nil
}

// RecordAttempt appends one checkout audit row.
func (r *Repository) RecordAttempt(ctx context.Context, attempt *models.CheckoutAttempt) error {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording checkout attempt")
	}
	return nil
}
