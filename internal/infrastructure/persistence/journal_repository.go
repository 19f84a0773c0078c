package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ledgerly/backend/internal/domain/accounting"
)

// GormJournalRepository implements accounting.JournalRepository using GORM
type GormJournalRepository struct {
	repo[accounting.JournalEntry]
}

// NewGormJournalRepository creates a new GormJournalRepository
func NewGormJournalRepository(db *gorm.DB) *GormJournalRepository {
	return &GormJournalRepository{repo: newRepo[accounting.JournalEntry](db, JournalEntrySortFields)}
}

// FindByID finds a journal entry with its lines
func (r *GormJournalRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.JournalEntry, error) {
	var entry accounting.JournalEntry
	if err := r.conn(ctx).Preload("Lines").First(&entry, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &entry, nil
}

// FindByIDForCompany finds a journal entry with its lines within a company
func (r *GormJournalRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*accounting.JournalEntry, error) {
	var entry accounting.JournalEntry
	if err := r.conn(ctx).
		Preload("Lines").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&entry).Error; err != nil {
		return nil, translateError(err)
	}
	return &entry, nil
}

// Save persists the entry with its lines. Lines are replaced wholesale;
// an entry never changes shape after commit except through re-derivation.
func (r *GormJournalRepository) Save(ctx context.Context, entry *accounting.JournalEntry) error {
	db := r.conn(ctx)
	if err := db.
		Where("journal_entry_id = ?", entry.ID).
		Delete(&accounting.JournalEntryLine{}).Error; err != nil {
		return err
	}
	return translateError(db.Session(&gorm.Session{FullSaveAssociations: true}).Save(entry).Error)
}

// Delete removes the entry and its lines
func (r *GormJournalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.conn(ctx)
	if err := db.
		Where("journal_entry_id = ?", id).
		Delete(&accounting.JournalEntryLine{}).Error; err != nil {
		return err
	}
	result := db.Delete(&accounting.JournalEntry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

type sumRow struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// SumForAccounts returns the combined debit and credit totals posted
// directly to any of the given accounts within the range.
func (r *GormJournalRepository) SumForAccounts(ctx context.Context, companyID uuid.UUID, accountIDs []uuid.UUID, dateRange accounting.DateRange) (decimal.Decimal, decimal.Decimal, error) {
	if len(accountIDs) == 0 {
		return decimal.Zero, decimal.Zero, nil
	}

	query := r.conn(ctx).
		Table("journal_entry_lines").
		Select("COALESCE(SUM(journal_entry_lines.debit), 0) AS debit, COALESCE(SUM(journal_entry_lines.credit), 0) AS credit").
		Joins("JOIN journal_entries ON journal_entries.id = journal_entry_lines.journal_entry_id").
		Where("journal_entries.company_id = ?", companyID).
		Where("journal_entry_lines.account_id IN ?", accountIDs)
	query = applyDateRange(query, dateRange)

	var row sumRow
	if err := query.Scan(&row).Error; err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return row.Debit, row.Credit, nil
}

type activityRow struct {
	AccountID uuid.UUID
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// ActivityTotals returns per-account direct-line totals for every account
// with at least one line in the range.
func (r *GormJournalRepository) ActivityTotals(ctx context.Context, companyID uuid.UUID, dateRange accounting.DateRange) ([]accounting.AccountActivity, error) {
	query := r.conn(ctx).
		Table("journal_entry_lines").
		Select("journal_entry_lines.account_id AS account_id, COALESCE(SUM(journal_entry_lines.debit), 0) AS debit, COALESCE(SUM(journal_entry_lines.credit), 0) AS credit").
		Joins("JOIN journal_entries ON journal_entries.id = journal_entry_lines.journal_entry_id").
		Where("journal_entries.company_id = ?", companyID).
		Group("journal_entry_lines.account_id")
	query = applyDateRange(query, dateRange)

	var rows []activityRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	activity := make([]accounting.AccountActivity, len(rows))
	for i, row := range rows {
		activity[i] = accounting.AccountActivity{
			AccountID: row.AccountID,
			Debit:     row.Debit,
			Credit:    row.Credit,
		}
	}
	return activity, nil
}

type ledgerRow struct {
	EntryID          uuid.UUID
	Date             time.Time
	EntryDescription string
	LineDescription  string
	AccountID        uuid.UUID
	Debit            decimal.Decimal
	Credit           decimal.Decimal
}

// LinesForAccount returns the account's lines in date order
func (r *GormJournalRepository) LinesForAccount(ctx context.Context, companyID, accountID uuid.UUID, dateRange accounting.DateRange) ([]accounting.LedgerLine, error) {
	query := r.conn(ctx).
		Table("journal_entry_lines").
		Select("journal_entries.id AS entry_id, journal_entries.date AS date, journal_entries.description AS entry_description, journal_entry_lines.description AS line_description, journal_entry_lines.account_id AS account_id, journal_entry_lines.debit AS debit, journal_entry_lines.credit AS credit").
		Joins("JOIN journal_entries ON journal_entries.id = journal_entry_lines.journal_entry_id").
		Where("journal_entries.company_id = ?", companyID).
		Where("journal_entry_lines.account_id = ?", accountID).
		Order("journal_entries.date ASC, journal_entries.created_at ASC")
	query = applyDateRange(query, dateRange)

	var rows []ledgerRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	lines := make([]accounting.LedgerLine, len(rows))
	for i, row := range rows {
		lines[i] = accounting.LedgerLine{
			EntryID:          row.EntryID,
			Date:             row.Date,
			EntryDescription: row.EntryDescription,
			LineDescription:  row.LineDescription,
			AccountID:        row.AccountID,
			Debit:            row.Debit,
			Credit:           row.Credit,
		}
	}
	return lines, nil
}

func applyDateRange(query *gorm.DB, dateRange accounting.DateRange) *gorm.DB {
	if dateRange.From != nil {
		query = query.Where("journal_entries.date >= ?", *dateRange.From)
	}
	if dateRange.To != nil {
		query = query.Where("journal_entries.date <= ?", *dateRange.To)
	}
	return query
}
