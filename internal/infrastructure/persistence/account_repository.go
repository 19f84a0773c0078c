package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerly/backend/internal/domain/accounting"
)

// GormAccountTypeRepository implements accounting.AccountTypeRepository using GORM
type GormAccountTypeRepository struct {
	repo[accounting.AccountType]
}

// NewGormAccountTypeRepository creates a new GormAccountTypeRepository
func NewGormAccountTypeRepository(db *gorm.DB) *GormAccountTypeRepository {
	return &GormAccountTypeRepository{repo: newRepo[accounting.AccountType](db, CommonSortFields)}
}

// FindByName finds an account type by its name
func (r *GormAccountTypeRepository) FindByName(ctx context.Context, name string) (*accounting.AccountType, error) {
	var accountType accounting.AccountType
	if err := r.conn(ctx).Where("name = ?", name).First(&accountType).Error; err != nil {
		return nil, translateError(err)
	}
	return &accountType, nil
}

// GormAccountRepository implements accounting.AccountRepository using GORM
type GormAccountRepository struct {
	repo[accounting.Account]
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{repo: newRepo[accounting.Account](db, AccountSortFields)}
}

// FindByIDForCompany finds an account with its type preloaded
func (r *GormAccountRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*accounting.Account, error) {
	var account accounting.Account
	if err := r.conn(ctx).
		Preload("AccountType").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&account).Error; err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

// FindByNumber finds an account by its number within a company
func (r *GormAccountRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, number string) (*accounting.Account, error) {
	var account accounting.Account
	if err := r.conn(ctx).
		Preload("AccountType").
		Where("company_id = ? AND number = ?", companyID, number).
		First(&account).Error; err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

// FindBySystemTag finds the account carrying the system tag within a company
func (r *GormAccountRepository) FindBySystemTag(ctx context.Context, companyID uuid.UUID, tag accounting.SystemTag) (*accounting.Account, error) {
	var account accounting.Account
	if err := r.conn(ctx).
		Preload("AccountType").
		Where("company_id = ? AND system_tag = ?", companyID, tag).
		First(&account).Error; err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

// FindChildren finds the direct children of an account
func (r *GormAccountRepository) FindChildren(ctx context.Context, companyID, parentID uuid.UUID) ([]accounting.Account, error) {
	var accounts []accounting.Account
	if err := r.conn(ctx).
		Where("company_id = ? AND parent_id = ?", companyID, parentID).
		Order("number ASC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}
