package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// AccountTypeRepository persists the global account types
type AccountTypeRepository interface {
	shared.Repository[AccountType]
	FindByName(ctx context.Context, name string) (*AccountType, error)
}

// AccountRepository persists accounts
type AccountRepository interface {
	shared.TenantRepository[Account]
	FindByNumber(ctx context.Context, companyID uuid.UUID, number string) (*Account, error)
	FindBySystemTag(ctx context.Context, companyID uuid.UUID, tag SystemTag) (*Account, error)
	FindChildren(ctx context.Context, companyID, parentID uuid.UUID) ([]Account, error)
}

// AccountActivity is the direct-line debit/credit total of one account.
type AccountActivity struct {
	AccountID uuid.UUID
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// LedgerLine is one journal line joined with its entry, for ledger views.
type LedgerLine struct {
	EntryID          uuid.UUID
	Date             time.Time
	EntryDescription string
	LineDescription  string
	AccountID        uuid.UUID
	Debit            decimal.Decimal
	Credit           decimal.Decimal
}

// DateRange bounds a ledger query. Nil ends are unbounded.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// JournalRepository persists journal entries and answers the aggregate
// queries the balance and reporting code runs against the ledger.
type JournalRepository interface {
	shared.TenantRepository[JournalEntry]
	// SumForAccounts returns the combined debit and credit totals posted
	// directly to any of the given accounts within the range.
	SumForAccounts(ctx context.Context, companyID uuid.UUID, accountIDs []uuid.UUID, r DateRange) (debit, credit decimal.Decimal, err error)
	// ActivityTotals returns per-account direct-line totals for every
	// account with at least one line in the range.
	ActivityTotals(ctx context.Context, companyID uuid.UUID, r DateRange) ([]AccountActivity, error)
	// LinesForAccount returns the account's lines in date order.
	LinesForAccount(ctx context.Context, companyID, accountID uuid.UUID, r DateRange) ([]LedgerLine, error)
}
