package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// ItemRepository persists inventory items
type ItemRepository interface {
	shared.TenantRepository[InventoryItem]
	FindBySKU(ctx context.Context, companyID uuid.UUID, sku string) (*InventoryItem, error)
	FindBelowReorderLevel(ctx context.Context, companyID uuid.UUID) ([]InventoryItem, error)
}

// CostLayerRepository persists cost layers
type CostLayerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CostLayer, error)
	// FindOpenForItem returns layers with remaining quantity, ordered by
	// (acquired on, created at) ascending.
	FindOpenForItem(ctx context.Context, companyID, itemID uuid.UUID) ([]CostLayer, error)
	Save(ctx context.Context, layer *CostLayer) error
	SaveAll(ctx context.Context, layers []*CostLayer) error
}

// BatchRepository persists batches
type BatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)
	FindByNumber(ctx context.Context, companyID, itemID uuid.UUID, batchNumber string) (*Batch, error)
	FindOpenForItem(ctx context.Context, companyID, itemID uuid.UUID) ([]Batch, error)
	// FindExpiring returns open batches whose expiry falls on or before
	// the horizon date.
	FindExpiring(ctx context.Context, companyID uuid.UUID, horizon time.Time) ([]Batch, error)
	Save(ctx context.Context, batch *Batch) error
}

// MovementRepository persists stock movements
type MovementRepository interface {
	shared.TenantRepository[Movement]
	FindForItem(ctx context.Context, companyID, itemID uuid.UUID, filter shared.Filter) ([]Movement, error)
	// SignedQuantitySum returns the item's stock on hand as derived from
	// its movements, the drift guard for the cached quantity.
	SignedQuantitySum(ctx context.Context, companyID, itemID uuid.UUID) (decimal.Decimal, error)
}

// PriceAdjustmentRepository persists cost restatements
type PriceAdjustmentRepository interface {
	Save(ctx context.Context, adjustment *PriceAdjustment) error
	// LatestForItem returns the most recent adjustment, or nil.
	LatestForItem(ctx context.Context, companyID, itemID uuid.UUID) (*PriceAdjustment, error)
}
