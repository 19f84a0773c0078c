package asset

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appaccounting "github.com/ledgerly/backend/internal/application/accounting"
	"github.com/ledgerly/backend/internal/domain/accounting"
	"github.com/ledgerly/backend/internal/domain/asset"
	"github.com/ledgerly/backend/internal/domain/identity"
	"github.com/ledgerly/backend/internal/domain/shared"
	"github.com/ledgerly/backend/internal/domain/tenant"
)

// In-memory fakes. Only the methods the services under test reach are
// implemented; the embedded interface panics on anything else.

type fakeAssetRepo struct {
	asset.Repository
	assets map[uuid.UUID]*asset.Asset
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[uuid.UUID]*asset.Asset)}
}

func (r *fakeAssetRepo) Save(_ context.Context, a *asset.Asset) error {
	r.assets[a.ID] = a
	return nil
}

func (r *fakeAssetRepo) FindByIDForCompany(_ context.Context, companyID, id uuid.UUID) (*asset.Asset, error) {
	if a, ok := r.assets[id]; ok && a.CompanyID == companyID {
		return a, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAssetRepo) FindActive(_ context.Context, companyID uuid.UUID) ([]asset.Asset, error) {
	var active []asset.Asset
	for _, a := range r.assets {
		if a.CompanyID == companyID && !a.IsDisposed {
			active = append(active, *a)
		}
	}
	return active, nil
}

type fakeEntryRepo struct {
	asset.DepreciationEntryRepository
	entries []*asset.DepreciationEntry
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{}
}

func (r *fakeEntryRepo) Save(_ context.Context, e *asset.DepreciationEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeEntryRepo) ExistsForMonth(_ context.Context, assetID uuid.UUID, year, month int) (bool, error) {
	for _, e := range r.entries {
		if e.AssetID == assetID && e.Date.Year() == year && int(e.Date.Month()) == month {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEntryRepo) AccumulatedForAsset(_ context.Context, assetID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range r.entries {
		if e.AssetID == assetID {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

type fakeMaintenanceRepo struct {
	asset.MaintenanceRepository
	records []*asset.Maintenance
}

func (r *fakeMaintenanceRepo) Save(_ context.Context, m *asset.Maintenance) error {
	r.records = append(r.records, m)
	return nil
}

func (r *fakeMaintenanceRepo) TotalCostForAsset(_ context.Context, assetID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.records {
		if m.AssetID == assetID {
			total = total.Add(m.Cost)
		}
	}
	return total, nil
}

type fakeCompanyRepo struct {
	tenant.Repository
	companies map[uuid.UUID]*tenant.Company
}

func (r *fakeCompanyRepo) FindByID(_ context.Context, id uuid.UUID) (*tenant.Company, error) {
	if c, ok := r.companies[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

type fakeJournalRepo struct {
	accounting.JournalRepository
	entries []*accounting.JournalEntry
}

func (r *fakeJournalRepo) Save(_ context.Context, e *accounting.JournalEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type depreciationFixture struct {
	svc       *DepreciationService
	assets    *fakeAssetRepo
	entries   *fakeEntryRepo
	journal   *fakeJournalRepo
	companyID uuid.UUID
	actor     appaccounting.Actor
	expense   uuid.UUID
	accum     uuid.UUID
}

var depToday = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func newDepreciationFixture(t *testing.T) *depreciationFixture {
	t.Helper()
	f := &depreciationFixture{
		assets:    newFakeAssetRepo(),
		entries:   newFakeEntryRepo(),
		journal:   &fakeJournalRepo{},
		companyID: uuid.New(),
		actor:     appaccounting.Actor{UserID: uuid.New(), Role: identity.RoleAccountant},
		expense:   uuid.New(),
		accum:     uuid.New(),
	}
	company := tenant.NewCompany("Acme Manufacturing", "USD")
	company.FiscalYearStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	company.ID = f.companyID
	companies := &fakeCompanyRepo{companies: map[uuid.UUID]*tenant.Company{f.companyID: company}}
	guard := appaccounting.NewPeriodGuard(companies, func() time.Time { return depToday })

	f.svc = NewDepreciationService(f.assets, f.entries, f.journal, guard, fakeUnitOfWork{}, zap.NewNop())
	return f
}

func (f *depreciationFixture) newAsset(t *testing.T, method asset.DepreciationMethod, price, salvage int64, life int) *asset.Asset {
	t.Helper()
	a, err := asset.NewAsset(f.companyID, "Delivery Truck",
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(price), life, method)
	require.NoError(t, err)
	a.SalvageValue = decimal.NewFromInt(salvage)
	a.AssetAccountID = uuid.New()
	a.AccumDepAccountID = f.accum
	a.DepExpenseAccountID = f.expense
	require.NoError(t, f.assets.Save(context.Background(), a))
	return a
}

func TestPostMonthly(t *testing.T) {
	ctx := context.Background()

	t.Run("straight line posts one twelfth of the annual charge", func(t *testing.T) {
		f := newDepreciationFixture(t)
		a := f.newAsset(t, asset.MethodStraightLine, 12000, 0, 5)

		entry, err := f.svc.PostMonthly(ctx, f.companyID, f.actor, a.ID, depToday, 0)
		require.NoError(t, err)

		// 12000 / 5 / 12 = 200
		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(200)), "got %s", entry.Amount)
		assert.Equal(t, 1, entry.YearNumber)

		require.Len(t, f.journal.entries, 1)
		journalEntry := f.journal.entries[0]
		require.Len(t, journalEntry.Lines, 2)
		assert.Equal(t, f.expense, journalEntry.Lines[0].AccountID)
		assert.True(t, journalEntry.Lines[0].Debit.Equal(decimal.NewFromInt(200)))
		assert.Equal(t, f.accum, journalEntry.Lines[1].AccountID)
		assert.True(t, journalEntry.Lines[1].Credit.Equal(decimal.NewFromInt(200)))
	})

	t.Run("rejects a date before purchase", func(t *testing.T) {
		f := newDepreciationFixture(t)
		a := f.newAsset(t, asset.MethodStraightLine, 12000, 0, 5)

		_, err := f.svc.PostMonthly(ctx, f.companyID, f.actor, a.ID,
			time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 0)
		require.Error(t, err)
		assert.Empty(t, f.journal.entries)
	})

	t.Run("rejects a second posting in the same month", func(t *testing.T) {
		f := newDepreciationFixture(t)
		a := f.newAsset(t, asset.MethodStraightLine, 12000, 0, 5)

		_, err := f.svc.PostMonthly(ctx, f.companyID, f.actor, a.ID, depToday, 0)
		require.NoError(t, err)

		_, err = f.svc.PostMonthly(ctx, f.companyID, f.actor, a.ID, depToday.AddDate(0, 0, 10), 0)
		require.ErrorIs(t, err, shared.ErrAlreadyPosted)
		assert.Len(t, f.journal.entries, 1)
	})

	t.Run("caps the charge at salvage value", func(t *testing.T) {
		f := newDepreciationFixture(t)
		// Nearly fully depreciated: 30 of headroom left.
		a := f.newAsset(t, asset.MethodStraightLine, 12000, 2000, 5)
		f.entries.entries = append(f.entries.entries, asset.NewDepreciationEntry(
			f.companyID, a.ID, uuid.New(),
			time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
			decimal.NewFromInt(9970), 1, 0))

		entry, err := f.svc.PostMonthly(ctx, f.companyID, f.actor, a.ID, depToday, 0)
		require.NoError(t, err)
		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(30)), "got %s", entry.Amount)
	})

	t.Run("fully depreciated asset returns at salvage", func(t *testing.T) {
		f := newDepreciationFixture(t)
		a := f.newAsset(t, asset.MethodStraightLine, 12000, 2000, 5)
		f.entries.entries = append(f.entries.entries, asset.NewDepreciationEntry(
			f.companyID, a.ID, uuid.New(),
			time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
			decimal.NewFromInt(10000), 1, 0))

		_, err := f.svc.PostMonthly(ctx, f.companyID, f.actor, a.ID, depToday, 0)
		require.ErrorIs(t, err, shared.ErrAtSalvage)
	})

	t.Run("non-depreciable assets are rejected", func(t *testing.T) {
		f := newDepreciationFixture(t)
		a := f.newAsset(t, asset.MethodNone, 5000, 0, 0)

		_, err := f.svc.PostMonthly(ctx, f.companyID, f.actor, a.ID, depToday, 0)
		require.ErrorIs(t, err, shared.ErrNotDepreciable)
	})

	t.Run("double declining uses book value", func(t *testing.T) {
		f := newDepreciationFixture(t)
		a := f.newAsset(t, asset.MethodDoubleDeclined, 12000, 0, 5)

		entry, err := f.svc.PostMonthly(ctx, f.companyID, f.actor, a.ID, depToday, 0)
		require.NoError(t, err)
		// 12000 * 0.4 / 12 = 400
		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(400)), "got %s", entry.Amount)
	})

	t.Run("units of production scales with units", func(t *testing.T) {
		f := newDepreciationFixture(t)
		a := f.newAsset(t, asset.MethodUnitsOfProd, 12000, 0, 5)
		a.EstimatedTotalUnits = 10000

		entry, err := f.svc.PostMonthly(ctx, f.companyID, f.actor, a.ID, depToday, 500)
		require.NoError(t, err)
		// 12000/10000 * 500 / 12 = 50
		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(50)), "got %s", entry.Amount)
		assert.Equal(t, int64(500), entry.UnitsProduced)
	})
}

func TestRunMonthly(t *testing.T) {
	ctx := context.Background()

	f := newDepreciationFixture(t)
	f.newAsset(t, asset.MethodStraightLine, 12000, 0, 5)
	f.newAsset(t, asset.MethodStraightLine, 6000, 0, 5)
	disposed := f.newAsset(t, asset.MethodStraightLine, 9000, 0, 5)
	disposed.IsDisposed = true

	results, err := f.svc.RunMonthly(ctx, f.companyID, f.actor, depToday)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.True(t, r.Amount.IsPositive())
	}
	assert.Len(t, f.journal.entries, 2)
}

func TestAssetService(t *testing.T) {
	ctx := context.Background()

	t.Run("create validates salvage and account links", func(t *testing.T) {
		assets := newFakeAssetRepo()
		svc := NewAssetService(assets, &fakeMaintenanceRepo{}, zap.NewNop())
		companyID := uuid.New()

		input := CreateAssetInput{
			Name:            "Lathe",
			PurchaseDate:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			PurchasePrice:   decimal.NewFromInt(20000),
			SalvageValue:    decimal.NewFromInt(25000),
			UsefulLifeYears: 10,
			Method:          asset.MethodStraightLine,
		}
		_, err := svc.Create(ctx, companyID, input)
		require.Error(t, err)

		input.SalvageValue = decimal.NewFromInt(2000)
		_, err = svc.Create(ctx, companyID, input)
		require.ErrorIs(t, err, shared.ErrAccountMissing)

		input.AssetAccountID = uuid.New()
		input.AccumDepAccountID = uuid.New()
		input.DepExpenseAccountID = uuid.New()
		a, err := svc.Create(ctx, companyID, input)
		require.NoError(t, err)
		assert.True(t, a.SalvageValue.Equal(decimal.NewFromInt(2000)))
	})

	t.Run("tracks maintenance spend", func(t *testing.T) {
		assets := newFakeAssetRepo()
		maintenance := &fakeMaintenanceRepo{}
		svc := NewAssetService(assets, maintenance, zap.NewNop())
		companyID := uuid.New()

		a, err := asset.NewAsset(companyID, "Forklift",
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			decimal.NewFromInt(15000), 8, asset.MethodStraightLine)
		require.NoError(t, err)
		require.NoError(t, assets.Save(ctx, a))

		_, err = svc.RecordMaintenance(ctx, companyID, a.ID, depToday, asset.MaintenanceRepair, "Hydraulic seal", decimal.NewFromInt(350))
		require.NoError(t, err)
		_, err = svc.RecordMaintenance(ctx, companyID, a.ID, depToday, asset.MaintenanceRoutine, "Annual service", decimal.NewFromInt(150))
		require.NoError(t, err)

		total, err := svc.MaintenanceCost(ctx, companyID, a.ID)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(500)))
	})
}
