package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerly/backend/internal/domain/identity"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	repo[identity.User]
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{repo: newRepo[identity.User](db, UserSortFields)}
}

// FindByUsername finds a user by username within a company
func (r *GormUserRepository) FindByUsername(ctx context.Context, companyID uuid.UUID, username string) (*identity.User, error) {
	var user identity.User
	if err := r.conn(ctx).
		Where("company_id = ? AND username = ?", companyID, strings.ToLower(strings.TrimSpace(username))).
		First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// CountForCompany counts every user of the company, any status. The
// subscription ceiling counts seats, not active sessions.
func (r *GormUserRepository) CountForCompany(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(ctx).
		Model(&identity.User{}).
		Where("company_id = ?", companyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
