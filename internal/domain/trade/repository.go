package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// TransactionRepository persists business transactions with their lines
type TransactionRepository interface {
	shared.TenantRepository[Transaction]
	FindForCustomer(ctx context.Context, companyID, customerID uuid.UUID, filter shared.Filter) ([]Transaction, error)
	// OpenBalancesForCustomer sums (total - paid) over the customer's
	// open transactions, split into the receivable and payable sides.
	// This is the ground truth behind the cached balances.
	OpenBalancesForCustomer(ctx context.Context, companyID, customerID uuid.UUID) (receivable, payable decimal.Decimal, err error)
}

// CategoryRepository persists transaction categories
type CategoryRepository interface {
	shared.TenantRepository[Category]
	FindByName(ctx context.Context, companyID uuid.UUID, name string) (*Category, error)
}
