package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ledgerly/backend/internal/domain/inventory"
	"github.com/ledgerly/backend/internal/domain/shared"
)

// GormItemRepository implements inventory.ItemRepository using GORM
type GormItemRepository struct {
	repo[inventory.InventoryItem]
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{repo: newRepo[inventory.InventoryItem](db, ItemSortFields)}
}

// FindBySKU finds an item by its SKU within a company
func (r *GormItemRepository) FindBySKU(ctx context.Context, companyID uuid.UUID, sku string) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.conn(ctx).
		Where("company_id = ? AND sku = ?", companyID, sku).
		First(&item).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

// FindBelowReorderLevel finds active stocked items at or under their
// reorder level
func (r *GormItemRepository) FindBelowReorderLevel(ctx context.Context, companyID uuid.UUID) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	if err := r.conn(ctx).
		Where("company_id = ? AND is_active = ? AND type <> ?", companyID, true, inventory.ItemTypeService).
		Where("reorder_level > 0 AND quantity_on_hand <= reorder_level").
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GormCostLayerRepository implements inventory.CostLayerRepository using GORM
type GormCostLayerRepository struct {
	db *gorm.DB
}

// NewGormCostLayerRepository creates a new GormCostLayerRepository
func NewGormCostLayerRepository(db *gorm.DB) *GormCostLayerRepository {
	return &GormCostLayerRepository{db: db}
}

func (r *GormCostLayerRepository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := TxFrom(ctx); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// FindByID finds a cost layer by its ID
func (r *GormCostLayerRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.CostLayer, error) {
	var layer inventory.CostLayer
	if err := r.conn(ctx).First(&layer, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &layer, nil
}

// FindOpenForItem returns layers with remaining quantity, oldest first
func (r *GormCostLayerRepository) FindOpenForItem(ctx context.Context, companyID, itemID uuid.UUID) ([]inventory.CostLayer, error) {
	var layers []inventory.CostLayer
	if err := r.conn(ctx).
		Where("company_id = ? AND item_id = ? AND quantity_remaining > 0", companyID, itemID).
		Order("acquired_on ASC, created_at ASC").
		Find(&layers).Error; err != nil {
		return nil, err
	}
	return layers, nil
}

// Save persists the layer
func (r *GormCostLayerRepository) Save(ctx context.Context, layer *inventory.CostLayer) error {
	return translateError(r.conn(ctx).Save(layer).Error)
}

// SaveAll persists the layers together
func (r *GormCostLayerRepository) SaveAll(ctx context.Context, layers []*inventory.CostLayer) error {
	db := r.conn(ctx)
	for _, layer := range layers {
		if err := db.Save(layer).Error; err != nil {
			return translateError(err)
		}
	}
	return nil
}

// GormBatchRepository implements inventory.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

func (r *GormBatchRepository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := TxFrom(ctx); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Batch, error) {
	var batch inventory.Batch
	if err := r.conn(ctx).First(&batch, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &batch, nil
}

// FindByNumber finds an item's batch by its batch number
func (r *GormBatchRepository) FindByNumber(ctx context.Context, companyID, itemID uuid.UUID, batchNumber string) (*inventory.Batch, error) {
	var batch inventory.Batch
	if err := r.conn(ctx).
		Where("company_id = ? AND item_id = ? AND batch_number = ?", companyID, itemID, batchNumber).
		First(&batch).Error; err != nil {
		return nil, translateError(err)
	}
	return &batch, nil
}

// FindOpenForItem returns batches with remaining stock, oldest first
func (r *GormBatchRepository) FindOpenForItem(ctx context.Context, companyID, itemID uuid.UUID) ([]inventory.Batch, error) {
	var batches []inventory.Batch
	if err := r.conn(ctx).
		Where("company_id = ? AND item_id = ? AND quantity_remaining > 0", companyID, itemID).
		Order("created_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindExpiring returns open batches whose expiry falls on or before the
// horizon date
func (r *GormBatchRepository) FindExpiring(ctx context.Context, companyID uuid.UUID, horizon time.Time) ([]inventory.Batch, error) {
	var batches []inventory.Batch
	if err := r.conn(ctx).
		Where("company_id = ? AND quantity_remaining > 0 AND expiry_date IS NOT NULL AND expiry_date <= ?", companyID, horizon).
		Order("expiry_date ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Save persists the batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *inventory.Batch) error {
	return translateError(r.conn(ctx).Save(batch).Error)
}

// GormMovementRepository implements inventory.MovementRepository using GORM
type GormMovementRepository struct {
	repo[inventory.Movement]
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{repo: newRepo[inventory.Movement](db, MovementSortFields)}
}

// FindForItem finds an item's movements
func (r *GormMovementRepository) FindForItem(ctx context.Context, companyID, itemID uuid.UUID, filter shared.Filter) ([]inventory.Movement, error) {
	var movements []inventory.Movement
	query := r.applyFilter(r.conn(ctx).
		Model(&inventory.Movement{}).
		Where("company_id = ? AND item_id = ?", companyID, itemID), filter)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// SignedQuantitySum derives the item's stock on hand from its movements,
// the drift guard behind the cached quantity.
func (r *GormMovementRepository) SignedQuantitySum(ctx context.Context, companyID, itemID uuid.UUID) (decimal.Decimal, error) {
	inflows := []inventory.MovementType{
		inventory.MovementOpeningStock,
		inventory.MovementPurchase,
		inventory.MovementSalesReturn,
		inventory.MovementAdjustmentIn,
	}

	var sum decimal.Decimal
	err := r.conn(ctx).
		Table("inventory_movements").
		Select("COALESCE(SUM(CASE WHEN type IN ? THEN quantity ELSE -quantity END), 0)", inflows).
		Where("company_id = ? AND item_id = ?", companyID, itemID).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// GormPriceAdjustmentRepository implements inventory.PriceAdjustmentRepository using GORM
type GormPriceAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormPriceAdjustmentRepository creates a new GormPriceAdjustmentRepository
func NewGormPriceAdjustmentRepository(db *gorm.DB) *GormPriceAdjustmentRepository {
	return &GormPriceAdjustmentRepository{db: db}
}

func (r *GormPriceAdjustmentRepository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := TxFrom(ctx); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// Save persists the adjustment
func (r *GormPriceAdjustmentRepository) Save(ctx context.Context, adjustment *inventory.PriceAdjustment) error {
	return translateError(r.conn(ctx).Save(adjustment).Error)
}

// LatestForItem returns the most recent adjustment, or ErrNotFound
func (r *GormPriceAdjustmentRepository) LatestForItem(ctx context.Context, companyID, itemID uuid.UUID) (*inventory.PriceAdjustment, error) {
	var adjustment inventory.PriceAdjustment
	if err := r.conn(ctx).
		Where("company_id = ? AND item_id = ?", companyID, itemID).
		Order("date DESC, created_at DESC").
		First(&adjustment).Error; err != nil {
		return nil, translateError(err)
	}
	return &adjustment, nil
}
