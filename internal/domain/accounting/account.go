package accounting

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// AccountCategory classifies an account type and determines the natural
// balance side of every account under it.
type AccountCategory string

const (
	CategoryAsset     AccountCategory = "ASSET"
	CategoryLiability AccountCategory = "LIABILITY"
	CategoryEquity    AccountCategory = "EQUITY"
	CategoryRevenue   AccountCategory = "REVENUE"
	CategoryExpense   AccountCategory = "EXPENSE"
)

// IsValid checks whether the category is one of the known categories
func (c AccountCategory) IsValid() bool {
	switch c {
	case CategoryAsset, CategoryLiability, CategoryEquity, CategoryRevenue, CategoryExpense:
		return true
	}
	return false
}

// IsDebitNatural reports whether accounts of this category carry a
// debit-positive balance.
func (c AccountCategory) IsDebitNatural() bool {
	return c == CategoryAsset || c == CategoryExpense
}

// NetBalance interprets raw debit and credit totals on the category's
// natural side.
func (c AccountCategory) NetBalance(sumDebit, sumCredit decimal.Decimal) decimal.Decimal {
	if c.IsDebitNatural() {
		return sumDebit.Sub(sumCredit)
	}
	return sumCredit.Sub(sumDebit)
}

// AccountType is a global, company-independent classification such as
// "Current Asset" or "Depreciation Expense".
type AccountType struct {
	shared.BaseEntity
	Name     string          `gorm:"size:100;not null;uniqueIndex"`
	Category AccountCategory `gorm:"size:20;not null"`
}

// TableName specifies the database table name
func (AccountType) TableName() string {
	return "account_types"
}

// NewAccountType creates a new account type
func NewAccountType(name string, category AccountCategory) (*AccountType, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account type name cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown account category")
	}
	return &AccountType{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Category:   category,
	}, nil
}

// SystemTag marks an account the posting engine references by role.
// At most one account per tag per company.
type SystemTag string

const (
	TagCash             SystemTag = "CASH"
	TagAR               SystemTag = "AR"
	TagAP               SystemTag = "AP"
	TagCOGS             SystemTag = "COGS"
	TagInventoryAsset   SystemTag = "INVENTORY_ASSET"
	TagRetainedEarnings SystemTag = "RETAINED_EARNINGS"
	TagSalesTaxPayable  SystemTag = "SALES_TAX_PAYABLE"
)

// Account is a node in the company's chart of accounts tree.
type Account struct {
	shared.TenantAggregateRoot
	Number           string    `gorm:"size:20;not null;uniqueIndex:idx_accounts_company_number,priority:2"`
	Name             string    `gorm:"size:255;not null"`
	AccountTypeID    uuid.UUID `gorm:"type:uuid;not null;index"`
	AccountType      *AccountType
	ParentID         *uuid.UUID `gorm:"type:uuid;index"`
	SystemTag        *SystemTag `gorm:"size:30;uniqueIndex:idx_accounts_company_tag,priority:2"`
	IsControlAccount bool       `gorm:"not null;default:false"`
	IsActive         bool       `gorm:"not null;default:true"`
	Description      string     `gorm:"size:500"`
}

// TableName specifies the database table name
func (Account) TableName() string {
	return "accounts"
}

// NewAccount creates a new account under the given company
func NewAccount(companyID uuid.UUID, number, name string, accountTypeID uuid.UUID) (*Account, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Account number cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	if accountTypeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TYPE", "Account type is required")
	}
	return &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		Number:              number,
		Name:                name,
		AccountTypeID:       accountTypeID,
		IsActive:            true,
	}, nil
}

// SetParent places the account beneath a parent account
func (a *Account) SetParent(parentID *uuid.UUID) {
	a.ParentID = parentID
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// SetSystemTag marks the account with a well-known role
func (a *Account) SetSystemTag(tag SystemTag) {
	a.SystemTag = &tag
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// Deactivate hides the account from new postings
func (a *Account) Deactivate() {
	a.IsActive = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// Category returns the account's balance category. The account type must
// be loaded.
func (a *Account) Category() AccountCategory {
	if a.AccountType == nil {
		return ""
	}
	return a.AccountType.Category
}
