package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ledgerly/backend/internal/domain/shared"
	"github.com/ledgerly/backend/internal/domain/trade"
)

// GormTransactionRepository implements trade.TransactionRepository using GORM
type GormTransactionRepository struct {
	repo[trade.Transaction]
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{repo: newRepo[trade.Transaction](db, TransactionSortFields)}
}

// FindByID finds a transaction with its lines
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Transaction, error) {
	var transaction trade.Transaction
	if err := r.conn(ctx).
		Preload("Items").
		Preload("ExpenseLines").
		First(&transaction, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &transaction, nil
}

// FindByIDForCompany finds a transaction with its lines within a company
func (r *GormTransactionRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*trade.Transaction, error) {
	var transaction trade.Transaction
	if err := r.conn(ctx).
		Preload("Items").
		Preload("ExpenseLines").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&transaction).Error; err != nil {
		return nil, translateError(err)
	}
	return &transaction, nil
}

// Save persists the transaction with its lines
func (r *GormTransactionRepository) Save(ctx context.Context, transaction *trade.Transaction) error {
	return translateError(r.conn(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(transaction).Error)
}

// FindForCustomer finds a customer's transactions
func (r *GormTransactionRepository) FindForCustomer(ctx context.Context, companyID, customerID uuid.UUID, filter shared.Filter) ([]trade.Transaction, error) {
	var transactions []trade.Transaction
	query := r.applyFilter(r.conn(ctx).
		Model(&trade.Transaction{}).
		Where("company_id = ? AND customer_id = ?", companyID, customerID), filter)
	if err := query.Preload("Items").Preload("ExpenseLines").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

type balanceRow struct {
	Receivable decimal.Decimal
	Payable    decimal.Decimal
}

// OpenBalancesForCustomer sums (total - paid) over the customer's open
// transactions, split into the receivable and payable sides. Sales owe
// us; purchases and expenses we owe.
func (r *GormTransactionRepository) OpenBalancesForCustomer(ctx context.Context, companyID, customerID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	var row balanceRow
	err := r.conn(ctx).
		Table("transactions").
		Select(`COALESCE(SUM(CASE WHEN type = ? THEN total_amount - amount_paid ELSE 0 END), 0) AS receivable,
			COALESCE(SUM(CASE WHEN type IN (?, ?) THEN total_amount - amount_paid ELSE 0 END), 0) AS payable`,
			trade.TypeSale, trade.TypePurchase, trade.TypeExpense).
		Where("company_id = ? AND customer_id = ?", companyID, customerID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return row.Receivable, row.Payable, nil
}
