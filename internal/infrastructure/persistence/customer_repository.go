package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerly/backend/internal/domain/partner"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	repo[partner.Customer]
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{repo: newRepo[partner.Customer](db, CustomerSortFields)}
}

// FindByName finds a counter-party by its exact name within a company
func (r *GormCustomerRepository) FindByName(ctx context.Context, companyID uuid.UUID, name string) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.conn(ctx).
		Where("company_id = ? AND name = ?", companyID, strings.TrimSpace(name)).
		First(&customer).Error; err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}

// FindByEmail finds a counter-party by email within a company
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, companyID uuid.UUID, email string) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.conn(ctx).
		Where("company_id = ? AND email = ?", companyID, strings.ToLower(strings.TrimSpace(email))).
		First(&customer).Error; err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}

// FindByPhone finds a counter-party by phone within a company
func (r *GormCustomerRepository) FindByPhone(ctx context.Context, companyID uuid.UUID, phone string) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.conn(ctx).
		Where("company_id = ? AND phone = ?", companyID, strings.TrimSpace(phone)).
		First(&customer).Error; err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}
