package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerly/backend/internal/domain/trade"
)

// GormCategoryRepository implements trade.CategoryRepository using GORM
type GormCategoryRepository struct {
	repo[trade.Category]
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{repo: newRepo[trade.Category](db, CommonSortFields)}
}

// FindByName finds a category by its name within a company
func (r *GormCategoryRepository) FindByName(ctx context.Context, companyID uuid.UUID, name string) (*trade.Category, error) {
	var category trade.Category
	if err := r.conn(ctx).
		Where("company_id = ? AND name = ?", companyID, strings.TrimSpace(name)).
		First(&category).Error; err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}
