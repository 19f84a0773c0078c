package asset

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appaccounting "github.com/ledgerly/backend/internal/application/accounting"
	"github.com/ledgerly/backend/internal/domain/accounting"
	"github.com/ledgerly/backend/internal/domain/asset"
	"github.com/ledgerly/backend/internal/domain/shared"
)

// DepreciationService posts periodic depreciation for fixed assets. One
// atomic operation per asset per month.
type DepreciationService struct {
	assets  asset.Repository
	entries asset.DepreciationEntryRepository
	journal accounting.JournalRepository
	guard   *appaccounting.PeriodGuard
	uow     shared.UnitOfWork
	logger  *zap.Logger
}

// NewDepreciationService creates a new DepreciationService
func NewDepreciationService(
	assets asset.Repository,
	entries asset.DepreciationEntryRepository,
	journal accounting.JournalRepository,
	guard *appaccounting.PeriodGuard,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *DepreciationService {
	return &DepreciationService{
		assets:  assets,
		entries: entries,
		journal: journal,
		guard:   guard,
		uow:     uow,
		logger:  logger,
	}
}

// PostMonthly computes and posts one month of depreciation for the asset.
// unitsProduced only matters for units-of-production assets.
func (s *DepreciationService) PostMonthly(ctx context.Context, companyID uuid.UUID, actor appaccounting.Actor, assetID uuid.UUID, postDate time.Time, unitsProduced int64) (*asset.DepreciationEntry, error) {
	a, err := s.assets.FindByIDForCompany(ctx, companyID, assetID)
	if err != nil {
		return nil, err
	}
	if a.IsDisposed || a.Method == asset.MethodNone {
		return nil, shared.ErrNotDepreciable
	}
	if postDate.Before(a.PurchaseDate) {
		return nil, shared.NewDomainError("INVALID_DATE", "Cannot depreciate before the purchase date")
	}
	if err := s.guard.Check(ctx, companyID, postDate, actor); err != nil {
		return nil, err
	}

	exists, err := s.entries.ExistsForMonth(ctx, assetID, postDate.Year(), int(postDate.Month()))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyPosted
	}

	accumulated, err := s.entries.AccumulatedForAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	yearNumber := a.YearNumber(postDate)
	annual := a.AnnualDepreciation(yearNumber, accumulated, unitsProduced)
	monthly := shared.RoundMoney(annual.Div(decimal.NewFromInt(12)))

	// Never depreciate below salvage value.
	bookValue := a.BookValue(accumulated)
	if bookValue.Sub(monthly).LessThan(a.SalvageValue) {
		monthly = bookValue.Sub(a.SalvageValue)
	}
	if !monthly.IsPositive() {
		return nil, shared.ErrAtSalvage
	}

	var entry *asset.DepreciationEntry
	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		journalEntry, err := accounting.NewJournalEntry(companyID, postDate,
			"Depreciation: "+a.Name, []accounting.LineInput{
				{AccountID: a.DepExpenseAccountID, Debit: monthly, Description: a.Name + " depreciation expense"},
				{AccountID: a.AccumDepAccountID, Credit: monthly, Description: a.Name + " accumulated depreciation"},
			})
		if err != nil {
			return err
		}
		journalEntry.SetCreatedBy(actor.UserID)
		if err := s.journal.Save(ctx, journalEntry); err != nil {
			return err
		}

		entry = asset.NewDepreciationEntry(companyID, a.ID, journalEntry.ID, postDate, monthly, yearNumber, unitsProduced)
		return s.entries.Save(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("depreciation posted",
		zap.String("asset_id", a.ID.String()),
		zap.String("amount", monthly.String()),
		zap.Int("year_number", yearNumber))
	return entry, nil
}

// RunResult summarizes one asset's outcome in a monthly batch run
type RunResult struct {
	AssetID uuid.UUID
	Amount  decimal.Decimal
	Err     error
}

// RunMonthly posts one month of depreciation for every active asset of
// the company. Assets at salvage or already posted are skipped; other
// failures are collected, never aborting the rest of the run.
func (s *DepreciationService) RunMonthly(ctx context.Context, companyID uuid.UUID, actor appaccounting.Actor, postDate time.Time) ([]RunResult, error) {
	assets, err := s.assets.FindActive(ctx, companyID)
	if err != nil {
		return nil, err
	}

	results := make([]RunResult, 0, len(assets))
	for i := range assets {
		a := &assets[i]
		if a.Method == asset.MethodNone {
			continue
		}
		entry, err := s.PostMonthly(ctx, companyID, actor, a.ID, postDate, 0)
		result := RunResult{AssetID: a.ID, Err: err}
		if err == nil {
			result.Amount = entry.Amount
		}
		results = append(results, result)
	}
	return results, nil
}

// BookValue returns the asset's current book value from posted entries
func (s *DepreciationService) BookValue(ctx context.Context, companyID, assetID uuid.UUID) (decimal.Decimal, error) {
	a, err := s.assets.FindByIDForCompany(ctx, companyID, assetID)
	if err != nil {
		return decimal.Zero, err
	}
	accumulated, err := s.entries.AccumulatedForAsset(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}
	return a.BookValue(accumulated), nil
}
