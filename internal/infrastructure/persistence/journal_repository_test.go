package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ledgerly/backend/internal/domain/accounting"
	"github.com/ledgerly/backend/internal/domain/shared"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func mustEntry(t *testing.T, companyID uuid.UUID, date time.Time, description string, lines []accounting.LineInput) *accounting.JournalEntry {
	t.Helper()
	entry, err := accounting.NewJournalEntry(companyID, date, description, lines)
	require.NoError(t, err)
	return entry
}

func TestGormJournalRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormJournalRepository(db)

	companyID := uuid.New()
	cashID := uuid.New()
	revenueID := uuid.New()

	janFirst := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	febFirst := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	entry := mustEntry(t, companyID, janFirst, "cash sale", []accounting.LineInput{
		{AccountID: cashID, Debit: decimal.NewFromInt(250)},
		{AccountID: revenueID, Credit: decimal.NewFromInt(250)},
	})
	require.NoError(t, repo.Save(ctx, entry))

	later := mustEntry(t, companyID, febFirst, "another sale", []accounting.LineInput{
		{AccountID: cashID, Debit: decimal.NewFromInt(100)},
		{AccountID: revenueID, Credit: decimal.NewFromInt(100)},
	})
	require.NoError(t, repo.Save(ctx, later))

	t.Run("FindByIDForCompany loads the lines", func(t *testing.T) {
		found, err := repo.FindByIDForCompany(ctx, companyID, entry.ID)
		require.NoError(t, err)
		require.Len(t, found.Lines, 2)
		assert.Equal(t, "cash sale", found.Description)
	})

	t.Run("FindByIDForCompany rejects a foreign company", func(t *testing.T) {
		_, err := repo.FindByIDForCompany(ctx, uuid.New(), entry.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("SumForAccounts totals direct lines in range", func(t *testing.T) {
		debit, credit, err := repo.SumForAccounts(ctx, companyID, []uuid.UUID{cashID}, accounting.DateRange{})
		require.NoError(t, err)
		assert.True(t, debit.Equal(decimal.NewFromInt(350)), "debit %s", debit)
		assert.True(t, credit.IsZero())

		janEnd := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
		debit, _, err = repo.SumForAccounts(ctx, companyID, []uuid.UUID{cashID}, accounting.DateRange{To: &janEnd})
		require.NoError(t, err)
		assert.True(t, debit.Equal(decimal.NewFromInt(250)), "debit %s", debit)
	})

	t.Run("SumForAccounts with no accounts is zero", func(t *testing.T) {
		debit, credit, err := repo.SumForAccounts(ctx, companyID, nil, accounting.DateRange{})
		require.NoError(t, err)
		assert.True(t, debit.IsZero())
		assert.True(t, credit.IsZero())
	})

	t.Run("ActivityTotals groups by account", func(t *testing.T) {
		activity, err := repo.ActivityTotals(ctx, companyID, accounting.DateRange{})
		require.NoError(t, err)
		require.Len(t, activity, 2)

		byAccount := make(map[uuid.UUID]accounting.AccountActivity)
		for _, a := range activity {
			byAccount[a.AccountID] = a
		}
		assert.True(t, byAccount[cashID].Debit.Equal(decimal.NewFromInt(350)))
		assert.True(t, byAccount[revenueID].Credit.Equal(decimal.NewFromInt(350)))
	})

	t.Run("LinesForAccount returns lines in date order", func(t *testing.T) {
		lines, err := repo.LinesForAccount(ctx, companyID, cashID, accounting.DateRange{})
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, "cash sale", lines[0].EntryDescription)
		assert.Equal(t, "another sale", lines[1].EntryDescription)
		assert.True(t, lines[0].Debit.Equal(decimal.NewFromInt(250)))
	})

	t.Run("Delete removes the entry and its lines", func(t *testing.T) {
		doomed := mustEntry(t, companyID, janFirst, "mistake", []accounting.LineInput{
			{AccountID: cashID, Debit: decimal.NewFromInt(10)},
			{AccountID: revenueID, Credit: decimal.NewFromInt(10)},
		})
		require.NoError(t, repo.Save(ctx, doomed))

		require.NoError(t, repo.Delete(ctx, doomed.ID))

		_, err := repo.FindByID(ctx, doomed.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var orphans int64
		require.NoError(t, db.Model(&accounting.JournalEntryLine{}).
			Where("journal_entry_id = ?", doomed.ID).
			Count(&orphans).Error)
		assert.Zero(t, orphans)
	})

	t.Run("Delete of a missing entry reports not found", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormUnitOfWork(t *testing.T) {
	ctx := context.Background()

	cashID := uuid.New()
	revenueID := uuid.New()

	t.Run("commits all writes together", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormJournalRepository(db)
		uow := NewGormUnitOfWork(db)
		companyID := uuid.New()

		err := uow.Execute(ctx, func(ctx context.Context) error {
			entry := mustEntry(t, companyID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "inside tx", []accounting.LineInput{
				{AccountID: cashID, Debit: decimal.NewFromInt(50)},
				{AccountID: revenueID, Credit: decimal.NewFromInt(50)},
			})
			return repo.Save(ctx, entry)
		})
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&accounting.JournalEntry{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rolls back every write on error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormJournalRepository(db)
		uow := NewGormUnitOfWork(db)
		companyID := uuid.New()

		err := uow.Execute(ctx, func(ctx context.Context) error {
			entry := mustEntry(t, companyID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "doomed", []accounting.LineInput{
				{AccountID: cashID, Debit: decimal.NewFromInt(50)},
				{AccountID: revenueID, Credit: decimal.NewFromInt(50)},
			})
			if err := repo.Save(ctx, entry); err != nil {
				return err
			}
			return assert.AnError
		})
		require.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&accounting.JournalEntry{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("nested Execute joins the outer transaction", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormJournalRepository(db)
		uow := NewGormUnitOfWork(db)
		companyID := uuid.New()

		err := uow.Execute(ctx, func(ctx context.Context) error {
			inner := uow.Execute(ctx, func(ctx context.Context) error {
				entry := mustEntry(t, companyID, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), "nested", []accounting.LineInput{
					{AccountID: cashID, Debit: decimal.NewFromInt(75)},
					{AccountID: revenueID, Credit: decimal.NewFromInt(75)},
				})
				return repo.Save(ctx, entry)
			})
			if inner != nil {
				return inner
			}
			// The outer failure must undo the nested write too.
			return assert.AnError
		})
		require.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&accounting.JournalEntry{}).Count(&count).Error)
		assert.Zero(t, count)
	})
}
