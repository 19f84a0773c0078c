package accounting

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ledgerly/backend/internal/domain/accounting"
	"github.com/ledgerly/backend/internal/domain/shared"
)

func newChartFixture(t *testing.T) (*ChartService, *fakeAccountRepo, *fakeAccountTypeRepo, *fakeJournalRepo, uuid.UUID, map[string]*accounting.Account) {
	t.Helper()
	accounts := newFakeAccountRepo()
	types := newFakeAccountTypeRepo()
	journal := newFakeJournalRepo()
	svc := NewChartService(accounts, types, journal, zap.NewNop())
	companyID := uuid.New()

	byNumber, err := seedTestChart(context.Background(), svc, accounts, types, companyID)
	require.NoError(t, err)
	return svc, accounts, types, journal, companyID, byNumber
}

func TestChartService_SeedChart(t *testing.T) {
	_, accounts, _, _, _, byNumber := newChartFixture(t)

	assert.NotEmpty(t, accounts.accounts)
	require.Contains(t, byNumber, "1110")
	require.Contains(t, byNumber, "5100")

	cash := byNumber["1110"]
	require.NotNil(t, cash.SystemTag)
	assert.Equal(t, accounting.TagCash, *cash.SystemTag)

	ap := byNumber["2200"]
	assert.True(t, ap.IsControlAccount)
	require.NotNil(t, ap.ParentID)
	assert.Equal(t, byNumber["2100"].ID, *ap.ParentID)
}

func TestChartService_SeedChart_Idempotent(t *testing.T) {
	svc, accounts, _, _, companyID, _ := newChartFixture(t)

	before := len(accounts.accounts)
	require.NoError(t, svc.SeedChart(context.Background(), companyID))
	assert.Equal(t, before, len(accounts.accounts))
}

func TestChartService_CreateAccount(t *testing.T) {
	svc, _, _, _, companyID, byNumber := newChartFixture(t)
	ctx := context.Background()

	t.Run("duplicate number rejected", func(t *testing.T) {
		_, err := svc.CreateAccount(ctx, companyID, CreateAccountInput{
			Number: "1110", Name: "Another Cash", TypeName: "Current Asset",
		})
		assert.ErrorIs(t, err, shared.ErrDuplicateNumber)
	})

	t.Run("duplicate system tag rejected", func(t *testing.T) {
		tag := accounting.TagCash
		_, err := svc.CreateAccount(ctx, companyID, CreateAccountInput{
			Number: "1111", Name: "Petty Cash", TypeName: "Current Asset", SystemTag: &tag,
		})
		assert.ErrorIs(t, err, shared.ErrDuplicateTag)
	})

	t.Run("cross company parent rejected", func(t *testing.T) {
		parent := byNumber["1500"].ID
		_, err := svc.CreateAccount(ctx, uuid.New(), CreateAccountInput{
			Number: "1560", Name: "Computers", TypeName: "Fixed Asset", ParentID: &parent,
		})
		assert.Error(t, err)
	})

	t.Run("valid child account", func(t *testing.T) {
		parent := byNumber["1500"].ID
		account, err := svc.CreateAccount(ctx, companyID, CreateAccountInput{
			Number: "1560", Name: "Computers", TypeName: "Fixed Asset", ParentID: &parent,
		})
		require.NoError(t, err)
		assert.Equal(t, "1560", account.Number)
		require.NotNil(t, account.ParentID)
	})
}

func TestChartService_GetBalance_RollsUpDescendants(t *testing.T) {
	svc, _, _, journal, companyID, byNumber := newChartFixture(t)
	ctx := context.Background()

	fixedAssets := byNumber["1500"]
	vehicles := byNumber["1540"]
	cash := byNumber["1110"]

	day := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	entry, err := accounting.NewJournalEntry(companyID, day, "Van purchase", []accounting.LineInput{
		{AccountID: vehicles.ID, Debit: decimal.NewFromInt(9000)},
		{AccountID: cash.ID, Credit: decimal.NewFromInt(9000)},
	})
	require.NoError(t, err)
	require.NoError(t, journal.Save(ctx, entry))

	// The child has the lines; the parent's balance rolls it up.
	childBalance, err := svc.GetBalance(ctx, companyID, vehicles.ID, nil)
	require.NoError(t, err)
	assert.True(t, childBalance.Equal(decimal.NewFromInt(9000)))

	parentBalance, err := svc.GetBalance(ctx, companyID, fixedAssets.ID, nil)
	require.NoError(t, err)
	assert.True(t, parentBalance.Equal(decimal.NewFromInt(9000)))

	cashBalance, err := svc.GetBalance(ctx, companyID, cash.ID, nil)
	require.NoError(t, err)
	assert.True(t, cashBalance.Equal(decimal.NewFromInt(-9000)), "asset credited below zero")
}
