package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/ledgerly/backend/internal/domain/tenant"
)

// GormCompanyRepository implements tenant.Repository using GORM
type GormCompanyRepository struct {
	repo[tenant.Company]
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{repo: newRepo[tenant.Company](db, CommonSortFields)}
}

// FindByName finds a company by its exact name
func (r *GormCompanyRepository) FindByName(ctx context.Context, name string) (*tenant.Company, error) {
	var company tenant.Company
	if err := r.conn(ctx).Where("name = ?", name).First(&company).Error; err != nil {
		return nil, translateError(err)
	}
	return &company, nil
}
