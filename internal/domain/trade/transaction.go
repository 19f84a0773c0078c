package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// TransactionType is the kind of business event being recorded.
type TransactionType string

const (
	TypeSale     TransactionType = "SALE"
	TypePurchase TransactionType = "PURCHASE"
	TypeExpense  TransactionType = "EXPENSE"
	TypePayment  TransactionType = "PAYMENT"
)

// IsValid checks whether the type is one of the known types
func (t TransactionType) IsValid() bool {
	return t == TypeSale || t == TypePurchase || t == TypeExpense || t == TypePayment
}

// NeedsCustomerRole reports whether the counter-party must be sellable-to
func (t TransactionType) NeedsCustomerRole() bool {
	return t == TypeSale || t == TypePayment
}

// NeedsVendorRole reports whether the counter-party must be buyable-from
func (t TransactionType) NeedsVendorRole() bool {
	return t == TypePurchase || t == TypeExpense
}

// PaymentStatus is the derived settlement state of a transaction.
type PaymentStatus string

const (
	StatusNotApplicable PaymentStatus = "N/A"
	StatusUnpaid        PaymentStatus = "Unpaid"
	StatusPartiallyPaid PaymentStatus = "Partially Paid"
	StatusPaid          PaymentStatus = "Paid"
)

// Transaction is a business event: a sale, purchase, expense or payment.
// Posting derives exactly one journal entry from it; edits re-derive.
type Transaction struct {
	shared.TenantAggregateRoot
	Type           TransactionType   `gorm:"size:20;not null;index"`
	Date           time.Time         `gorm:"type:date;not null;index"`
	DueDate        *time.Time        `gorm:"type:date"`
	CustomerID     *uuid.UUID        `gorm:"type:uuid;index"`
	CategoryID     *uuid.UUID        `gorm:"type:uuid;index"`
	Description    string            `gorm:"size:500"`
	Reference      string            `gorm:"size:100"`
	AttachmentPath string            `gorm:"size:500"`
	TotalAmount    decimal.Decimal   `gorm:"type:numeric(18,2);not null;default:0"`
	AmountPaid     decimal.Decimal   `gorm:"type:numeric(18,2);not null;default:0"`
	JournalEntryID *uuid.UUID        `gorm:"type:uuid;index"`
	Items          []TransactionItem `gorm:"foreignKey:TransactionID"`
	ExpenseLines   []ExpenseLine     `gorm:"foreignKey:TransactionID"`
}

// TableName specifies the database table name
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionItem is one inventory line of a sale or purchase.
type TransactionItem struct {
	shared.BaseEntity
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity      decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	BatchID       *uuid.UUID      `gorm:"type:uuid"`
	Description   string          `gorm:"size:500"`
}

// TableName specifies the database table name
func (TransactionItem) TableName() string {
	return "transaction_items"
}

// Amount is the line's extended price
func (i *TransactionItem) Amount() decimal.Decimal {
	return shared.RoundMoney(i.Quantity.Mul(i.UnitPrice))
}

// ExpenseLine is one account split of an expense or purchase.
type ExpenseLine struct {
	shared.BaseEntity
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Description   string          `gorm:"size:500"`
}

// TableName specifies the database table name
func (ExpenseLine) TableName() string {
	return "transaction_expense_lines"
}

// NewTransaction creates a business event. The total is computed from
// lines when present; otherwise the manual total stands.
func NewTransaction(companyID uuid.UUID, transactionType TransactionType, date time.Time, description string) (*Transaction, error) {
	if !transactionType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Unknown transaction type")
	}
	return &Transaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		Type:                transactionType,
		Date:                date,
		Description:         strings.TrimSpace(description),
		TotalAmount:         decimal.Zero,
		AmountPaid:          decimal.Zero,
	}, nil
}

// AddItem appends an inventory line
func (t *Transaction) AddItem(itemID uuid.UUID, quantity, unitPrice decimal.Decimal, batchID *uuid.UUID, description string) error {
	if len(t.ExpenseLines) > 0 {
		return shared.NewDomainError("MIXED_LINES", "A transaction carries either item lines or expense splits, not both")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	t.Items = append(t.Items, TransactionItem{
		BaseEntity:    shared.NewBaseEntity(),
		TransactionID: t.ID,
		ItemID:        itemID,
		Quantity:      shared.RoundQuantity(quantity),
		UnitPrice:     shared.RoundMoney(unitPrice),
		BatchID:       batchID,
		Description:   description,
	})
	t.RecomputeTotal()
	return nil
}

// AddExpenseLine appends an account split
func (t *Transaction) AddExpenseLine(accountID uuid.UUID, amount decimal.Decimal, description string) error {
	if len(t.Items) > 0 {
		return shared.NewDomainError("MIXED_LINES", "A transaction carries either item lines or expense splits, not both")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Split amount must be positive")
	}
	t.ExpenseLines = append(t.ExpenseLines, ExpenseLine{
		BaseEntity:    shared.NewBaseEntity(),
		TransactionID: t.ID,
		AccountID:     accountID,
		Amount:        shared.RoundMoney(amount),
		Description:   description,
	})
	t.RecomputeTotal()
	return nil
}

// SetManualTotal sets the total directly; only meaningful without lines
func (t *Transaction) SetManualTotal(total decimal.Decimal) error {
	if len(t.Items) > 0 || len(t.ExpenseLines) > 0 {
		return shared.NewDomainError("INVALID_TOTAL", "Total is derived from lines when lines are present")
	}
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_TOTAL", "Total cannot be negative")
	}
	t.TotalAmount = shared.RoundMoney(total)
	t.UpdatedAt = time.Now()
	return nil
}

// RecomputeTotal re-derives the total from whichever line set is in use
func (t *Transaction) RecomputeTotal() {
	if len(t.Items) > 0 {
		total := decimal.Zero
		for _, item := range t.Items {
			total = total.Add(item.Amount())
		}
		t.TotalAmount = shared.RoundMoney(total)
	} else if len(t.ExpenseLines) > 0 {
		total := decimal.Zero
		for _, line := range t.ExpenseLines {
			total = total.Add(line.Amount)
		}
		t.TotalAmount = shared.RoundMoney(total)
	}
	t.UpdatedAt = time.Now()
}

// BalanceDue is the unpaid remainder
func (t *Transaction) BalanceDue() decimal.Decimal {
	return t.TotalAmount.Sub(t.AmountPaid)
}

// PaymentStatus projects the settlement state from amounts
func (t *Transaction) PaymentStatus() PaymentStatus {
	if t.TotalAmount.IsZero() {
		return StatusNotApplicable
	}
	switch {
	case t.AmountPaid.GreaterThanOrEqual(t.TotalAmount):
		return StatusPaid
	case t.AmountPaid.IsPositive():
		return StatusPartiallyPaid
	default:
		return StatusUnpaid
	}
}

// RecordPayment increments the paid amount
func (t *Transaction) RecordPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(t.BalanceDue()) {
		return shared.ErrOverpayment
	}
	t.AmountPaid = shared.RoundMoney(t.AmountPaid.Add(amount))
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// LinkJournalEntry records the journal entry this transaction generated
func (t *Transaction) LinkJournalEntry(entryID uuid.UUID) {
	t.JournalEntryID = &entryID
	t.UpdatedAt = time.Now()
}

// UnlinkJournalEntry clears the link before a re-post
func (t *Transaction) UnlinkJournalEntry() {
	t.JournalEntryID = nil
	t.UpdatedAt = time.Now()
}

// HasLines reports whether any line set or manual total is present
func (t *Transaction) HasLines() bool {
	return len(t.Items) > 0 || len(t.ExpenseLines) > 0 || t.TotalAmount.IsPositive()
}
