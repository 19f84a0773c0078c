package asset

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// Repository persists assets
type Repository interface {
	shared.TenantRepository[Asset]
	FindActive(ctx context.Context, companyID uuid.UUID) ([]Asset, error)
}

// DepreciationEntryRepository persists posted depreciation periods
type DepreciationEntryRepository interface {
	Save(ctx context.Context, entry *DepreciationEntry) error
	// ExistsForMonth reports whether depreciation was already posted for
	// the asset in the given calendar month.
	ExistsForMonth(ctx context.Context, assetID uuid.UUID, year int, month int) (bool, error)
	// AccumulatedForAsset sums all posted depreciation for the asset.
	AccumulatedForAsset(ctx context.Context, assetID uuid.UUID) (decimal.Decimal, error)
	FindForAsset(ctx context.Context, assetID uuid.UUID) ([]DepreciationEntry, error)
}

// MaintenanceRepository persists maintenance records
type MaintenanceRepository interface {
	Save(ctx context.Context, record *Maintenance) error
	FindForAsset(ctx context.Context, assetID uuid.UUID) ([]Maintenance, error)
	TotalCostForAsset(ctx context.Context, assetID uuid.UUID) (decimal.Decimal, error)
}
