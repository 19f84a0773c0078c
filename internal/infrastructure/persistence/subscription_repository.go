package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerly/backend/internal/domain/billing"
)

// GormSubscriptionRepository implements billing.Repository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

func (r *GormSubscriptionRepository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := TxFrom(ctx); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// Save persists the subscription
func (r *GormSubscriptionRepository) Save(ctx context.Context, subscription *billing.Subscription) error {
	return translateError(r.conn(ctx).Save(subscription).Error)
}

// FindByCompany finds the company's subscription
func (r *GormSubscriptionRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) (*billing.Subscription, error) {
	var subscription billing.Subscription
	if err := r.conn(ctx).Where("company_id = ?", companyID).First(&subscription).Error; err != nil {
		return nil, translateError(err)
	}
	return &subscription, nil
}
