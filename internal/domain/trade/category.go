package trade

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// Category groups transactions and optionally supplies the default ledger
// account for simple-total postings.
type Category struct {
	shared.TenantAggregateRoot
	Name string `gorm:"size:100;not null;uniqueIndex:idx_categories_company_name,priority:2"`
	// AllowedTypes is the comma separated set of transaction types this
	// category may be used with.
	AllowedTypes     string     `gorm:"size:100;not null"`
	DefaultAccountID *uuid.UUID `gorm:"type:uuid"`
	Description      string     `gorm:"size:500"`
}

// TableName specifies the database table name
func (Category) TableName() string {
	return "transaction_categories"
}

// NewCategory creates a transaction category
func NewCategory(companyID uuid.UUID, name string, allowedTypes []TransactionType) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(allowedTypes) == 0 {
		return nil, shared.NewDomainError("INVALID_TYPES", "Category must allow at least one transaction type")
	}
	parts := make([]string, 0, len(allowedTypes))
	for _, t := range allowedTypes {
		if !t.IsValid() {
			return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Unknown transaction type")
		}
		parts = append(parts, string(t))
	}
	return &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		Name:                name,
		AllowedTypes:        strings.Join(parts, ","),
	}, nil
}

// Allows reports whether the category may be used with the type
func (c *Category) Allows(transactionType TransactionType) bool {
	for _, part := range strings.Split(c.AllowedTypes, ",") {
		if TransactionType(strings.TrimSpace(part)) == transactionType {
			return true
		}
	}
	return false
}
