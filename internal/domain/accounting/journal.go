package accounting

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// JournalEntry is an atomic, balanced posting to the ledger. Entries are
// append-only after commit; corrections go through Reverse.
type JournalEntry struct {
	shared.TenantAggregateRoot
	Date        time.Time          `gorm:"type:date;not null;index"`
	Description string             `gorm:"size:500"`
	ReversesID  *uuid.UUID         `gorm:"type:uuid;index"`
	Lines       []JournalEntryLine `gorm:"foreignKey:JournalEntryID"`
}

// TableName specifies the database table name
func (JournalEntry) TableName() string {
	return "journal_entries"
}

// JournalEntryLine is one side of a posting. Exactly one of Debit and
// Credit is positive.
type JournalEntryLine struct {
	shared.BaseEntity
	JournalEntryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Debit          decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	Credit         decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	Description    string          `gorm:"size:500"`
}

// TableName specifies the database table name
func (JournalEntryLine) TableName() string {
	return "journal_entry_lines"
}

// LineInput describes one requested line of a new journal entry.
type LineInput struct {
	AccountID   uuid.UUID
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// NewJournalEntry builds and validates an entry with its lines.
func NewJournalEntry(companyID uuid.UUID, date time.Time, description string, lines []LineInput) (*JournalEntry, error) {
	if len(lines) == 0 {
		return nil, shared.ErrZeroEntry
	}

	entry := &JournalEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		Date:                date,
		Description:         description,
	}
	for _, in := range lines {
		if in.AccountID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_ACCOUNT", "Journal line is missing its account")
		}
		entry.Lines = append(entry.Lines, JournalEntryLine{
			BaseEntity:     shared.NewBaseEntity(),
			JournalEntryID: entry.ID,
			AccountID:      in.AccountID,
			Debit:          shared.RoundMoney(in.Debit),
			Credit:         shared.RoundMoney(in.Credit),
			Description:    in.Description,
		})
	}

	if err := entry.ValidateBalance(); err != nil {
		return nil, err
	}
	return entry, nil
}

// TotalDebit sums the entry's debit side
func (e *JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredit sums the entry's credit side
func (e *JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// ValidateBalance checks the per-line side rule and the entry-level
// debit/credit balance.
func (e *JournalEntry) ValidateBalance() error {
	for _, l := range e.Lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return shared.ErrWrongSide
		}
		oneSide := l.Debit.IsPositive() != l.Credit.IsPositive()
		if !oneSide {
			return shared.ErrWrongSide
		}
	}

	totalDebit := e.TotalDebit()
	totalCredit := e.TotalCredit()
	if totalDebit.IsZero() && totalCredit.IsZero() {
		return shared.ErrZeroEntry
	}
	if !shared.WithinTolerance(totalDebit, totalCredit) {
		return shared.ErrUnbalancedEntry
	}
	return nil
}

// Reverse builds the correcting entry: every line with debit and credit
// swapped, dated on the reversal date.
func (e *JournalEntry) Reverse(date time.Time, description string) (*JournalEntry, error) {
	lines := make([]LineInput, 0, len(e.Lines))
	for _, l := range e.Lines {
		lines = append(lines, LineInput{
			AccountID:   l.AccountID,
			Debit:       l.Credit,
			Credit:      l.Debit,
			Description: l.Description,
		})
	}

	reversal, err := NewJournalEntry(e.CompanyID, date, description, lines)
	if err != nil {
		return nil, err
	}
	reversal.ReversesID = &e.ID
	return reversal, nil
}
