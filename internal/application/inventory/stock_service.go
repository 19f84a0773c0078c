package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ledgerly/backend/internal/application/validation"
	"github.com/ledgerly/backend/internal/domain/accounting"
	"github.com/ledgerly/backend/internal/domain/inventory"
	"github.com/ledgerly/backend/internal/domain/shared"
)

// StockInReason distinguishes how stock arrived. Fair-value reasons
// require a caller-supplied unit value and produce a companion journal
// entry against an income account.
type StockInReason string

const (
	ReasonPurchase       StockInReason = "purchase"
	ReasonOpeningStock   StockInReason = "opening_stock"
	ReasonGift           StockInReason = "gift"
	ReasonCustomerReturn StockInReason = "customer_return"
	ReasonCorrection     StockInReason = "correction"
)

// movementType maps the reason onto the recorded movement type
func (r StockInReason) movementType() inventory.MovementType {
	switch r {
	case ReasonOpeningStock:
		return inventory.MovementOpeningStock
	case ReasonCustomerReturn:
		return inventory.MovementSalesReturn
	case ReasonGift, ReasonCorrection:
		return inventory.MovementAdjustmentIn
	default:
		return inventory.MovementPurchase
	}
}

// incomeAccountNumber returns the account credited by the companion
// entry of a fair-value inflow, or "" for ordinary inflows.
func (r StockInReason) incomeAccountNumber() string {
	switch r {
	case ReasonGift:
		return "4900" // Donation Income
	case ReasonCustomerReturn:
		return "4910" // Customer Returns
	case ReasonCorrection:
		return "4920" // Inventory Adjustments
	}
	return ""
}

// StockService maintains cost layers, batches and movements for items.
type StockService struct {
	items       inventory.ItemRepository
	layers      inventory.CostLayerRepository
	batches     inventory.BatchRepository
	movements   inventory.MovementRepository
	adjustments inventory.PriceAdjustmentRepository
	accounts    accounting.AccountRepository
	journal     accounting.JournalRepository
	uow         shared.UnitOfWork
	logger      *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	items inventory.ItemRepository,
	layers inventory.CostLayerRepository,
	batches inventory.BatchRepository,
	movements inventory.MovementRepository,
	adjustments inventory.PriceAdjustmentRepository,
	accounts accounting.AccountRepository,
	journal accounting.JournalRepository,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		items:       items,
		layers:      layers,
		batches:     batches,
		movements:   movements,
		adjustments: adjustments,
		accounts:    accounts,
		journal:     journal,
		uow:         uow,
		logger:      logger,
	}
}

// CreateItemInput carries the fields for a new inventory item
type CreateItemInput struct {
	Name            string `validate:"required,max=255"`
	SKU             string `validate:"max=64"`
	Type            inventory.ItemType
	CostingMethod   inventory.CostingMethod
	UnitOfMeasure   string `validate:"max=20"`
	SalePrice       decimal.Decimal
	ReorderLevel    decimal.Decimal
	AllowFractional bool
	BatchTracking   bool
	TrackExpiry     bool
	Description     string `validate:"max=500"`
}

// CreateItem registers a new item. SKUs are unique per company; batch
// tracking forces specific identification costing.
func (s *StockService) CreateItem(ctx context.Context, companyID uuid.UUID, input CreateItemInput) (*inventory.InventoryItem, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if input.SKU != "" {
		existing, err := s.items.FindBySKU(ctx, companyID, input.SKU)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("DUPLICATE_SKU", "An item with this SKU already exists")
		}
	}

	item, err := inventory.NewInventoryItem(companyID, input.Name, input.SKU, input.Type, input.CostingMethod)
	if err != nil {
		return nil, err
	}
	if input.UnitOfMeasure != "" {
		item.UnitOfMeasure = input.UnitOfMeasure
	}
	item.SalePrice = shared.RoundMoney(input.SalePrice)
	item.ReorderLevel = shared.RoundQuantity(input.ReorderLevel)
	item.AllowFractional = input.AllowFractional
	item.Description = input.Description
	if input.BatchTracking {
		if err := item.EnableBatchTracking(input.TrackExpiry); err != nil {
			return nil, err
		}
	}

	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("inventory item created",
		zap.String("item_id", item.ID.String()),
		zap.String("sku", item.SKU))
	return item, nil
}

// InflowInput describes stock arriving
type InflowInput struct {
	ItemID      uuid.UUID
	Reason      StockInReason
	Date        time.Time
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	BatchNumber string
	ExpiryDate  *time.Time
	Notes       string
}

// RecordInflow adds stock: a new cost layer (or batch) plus the movement.
// Fair-value reasons also post the companion journal entry.
func (s *StockService) RecordInflow(ctx context.Context, companyID uuid.UUID, input InflowInput) (*inventory.Movement, error) {
	item, err := s.items.FindByIDForCompany(ctx, companyID, input.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Type.IsProduct() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Services carry no stock")
	}
	if err := item.ValidateQuantity(input.Quantity); err != nil {
		return nil, err
	}
	if input.UnitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	movementType := input.Reason.movementType()
	movement, err := inventory.NewInflowMovement(companyID, item.ID, movementType, input.Date, input.Quantity, input.UnitCost, input.Notes)
	if err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		if item.BatchTracking {
			if input.BatchNumber == "" {
				return shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch tracked items need a batch number on inflow")
			}
			batch, err := s.batches.FindByNumber(ctx, companyID, item.ID, input.BatchNumber)
			switch {
			case err == nil:
				if err := batch.AddStock(input.Quantity); err != nil {
					return err
				}
			case errors.Is(err, shared.ErrNotFound):
				batch, err = inventory.NewBatch(companyID, item.ID, input.BatchNumber, input.Quantity, input.UnitCost)
				if err != nil {
					return err
				}
				batch.ExpiryDate = input.ExpiryDate
			default:
				return err
			}
			movement.BatchID = &batch.ID
			if err := s.batches.Save(ctx, batch); err != nil {
				return err
			}
		} else {
			layer, err := inventory.NewCostLayer(companyID, item.ID, input.Date, input.Quantity, input.UnitCost)
			if err != nil {
				return err
			}
			if err := s.layers.Save(ctx, layer); err != nil {
				return err
			}
		}

		if err := s.movements.Save(ctx, movement); err != nil {
			return err
		}

		item.AdjustQuantityOnHand(input.Quantity)
		if err := s.items.Save(ctx, item); err != nil {
			return err
		}

		if number := input.Reason.incomeAccountNumber(); number != "" {
			if err := s.postFairValueEntry(ctx, companyID, item, input, number); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock inflow recorded",
		zap.String("item_id", item.ID.String()),
		zap.String("reason", string(input.Reason)),
		zap.String("quantity", input.Quantity.String()))
	return movement, nil
}

// postFairValueEntry debits the inventory asset and credits the income
// account matching the inflow reason.
func (s *StockService) postFairValueEntry(ctx context.Context, companyID uuid.UUID, item *inventory.InventoryItem, input InflowInput, incomeNumber string) error {
	inventoryAsset, err := s.accounts.FindBySystemTag(ctx, companyID, accounting.TagInventoryAsset)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrAccountMissing
		}
		return err
	}
	income, err := s.accounts.FindByNumber(ctx, companyID, incomeNumber)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrAccountMissing
		}
		return err
	}

	value := shared.RoundMoney(input.Quantity.Mul(input.UnitCost))
	entry, err := accounting.NewJournalEntry(companyID, input.Date, "Stock in at fair value: "+item.Name, []accounting.LineInput{
		{AccountID: inventoryAsset.ID, Debit: value, Description: item.Name + " received"},
		{AccountID: income.ID, Credit: value, Description: string(input.Reason)},
	})
	if err != nil {
		return err
	}
	return s.journal.Save(ctx, entry)
}

// OutflowInput describes stock leaving
type OutflowInput struct {
	ItemID      uuid.UUID
	Type        inventory.MovementType
	Date        time.Time
	Quantity    decimal.Decimal
	BatchNumber string
	Notes       string
}

// maxOutflowAttempts bounds retries when concurrent outflows deadlock
// over the same layers.
const maxOutflowAttempts = 3

// isLockConflict recognizes database lock failures worth retrying
func isLockConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") || strings.Contains(msg, "database is locked")
}

// RecordOutflow removes stock, costing it per the item's method, and
// returns the movement carrying total cost and the layer audit trail.
// Lock conflicts between concurrent outflows are retried with fresh
// state before surfacing.
func (s *StockService) RecordOutflow(ctx context.Context, companyID uuid.UUID, input OutflowInput) (*inventory.Movement, error) {
	var movement *inventory.Movement
	var err error
	for attempt := 1; ; attempt++ {
		movement, err = s.recordOutflowOnce(ctx, companyID, input)
		if err == nil || !isLockConflict(err) || attempt == maxOutflowAttempts {
			break
		}
		s.logger.Warn("retrying stock outflow after lock conflict",
			zap.String("item_id", input.ItemID.String()),
			zap.Int("attempt", attempt))
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock outflow recorded",
		zap.String("item_id", input.ItemID.String()),
		zap.String("type", string(input.Type)),
		zap.String("total_cost", movement.TotalCost.String()))
	return movement, nil
}

func (s *StockService) recordOutflowOnce(ctx context.Context, companyID uuid.UUID, input OutflowInput) (*inventory.Movement, error) {
	item, err := s.items.FindByIDForCompany(ctx, companyID, input.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Type.IsProduct() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Services carry no stock")
	}
	if !input.Type.IsOutflow() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Movement type is not an outflow")
	}
	if err := item.ValidateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	var movement *inventory.Movement
	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		var innerErr error
		if item.CostingMethod == inventory.CostingSpecificID {
			movement, innerErr = s.consumeBatch(ctx, companyID, item, input)
		} else {
			movement, innerErr = s.consumeLayers(ctx, companyID, item, input)
		}
		if innerErr != nil {
			return innerErr
		}

		if err := s.movements.Save(ctx, movement); err != nil {
			return err
		}
		item.AdjustQuantityOnHand(input.Quantity.Neg())
		return s.items.Save(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// consumeBatch serves a specific-identification outflow from one batch
func (s *StockService) consumeBatch(ctx context.Context, companyID uuid.UUID, item *inventory.InventoryItem, input OutflowInput) (*inventory.Movement, error) {
	if input.BatchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Specific identification needs a batch reference")
	}
	batch, err := s.batches.FindByNumber(ctx, companyID, item.ID, input.BatchNumber)
	if err != nil {
		return nil, err
	}
	if err := batch.Consume(input.Quantity); err != nil {
		return nil, err
	}
	if err := s.batches.Save(ctx, batch); err != nil {
		return nil, err
	}

	result := &inventory.ConsumptionResult{
		Uses: []inventory.LayerUse{{
			LayerID:          batch.ID,
			Quantity:         input.Quantity,
			UnitCost:         batch.UnitCost,
			TotalCost:        input.Quantity.Mul(batch.UnitCost),
			RemainingInLayer: batch.QuantityRemaining,
			FullyConsumed:    !batch.HasRemaining(),
		}},
		TotalConsumed:  input.Quantity,
		TotalCost:      input.Quantity.Mul(batch.UnitCost),
		UnitCost:       batch.UnitCost,
		FullyFulfilled: true,
	}
	movement, err := inventory.NewOutflowMovement(companyID, item.ID, input.Type, input.Date, input.Quantity, result, input.Notes)
	if err != nil {
		return nil, err
	}
	movement.BatchID = &batch.ID
	return movement, nil
}

// consumeLayers serves an outflow from cost layers per costing method
func (s *StockService) consumeLayers(ctx context.Context, companyID uuid.UUID, item *inventory.InventoryItem, input OutflowInput) (*inventory.Movement, error) {
	layers, err := s.layers.FindOpenForItem(ctx, companyID, item.ID)
	if err != nil {
		return nil, err
	}

	adjustedCost := decimal.Zero
	if item.CostingMethod == inventory.CostingPriceAdjustment {
		latest, err := s.adjustments.LatestForItem(ctx, companyID, item.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if latest != nil {
			adjustedCost = latest.NewUnitCost
		}
	}

	strategy, err := inventory.StrategyForMethod(item.CostingMethod, adjustedCost)
	if err != nil {
		return nil, err
	}
	result, err := strategy.Consume(input.Quantity, layers)
	if err != nil {
		return nil, err
	}
	if !result.FullyFulfilled {
		return nil, shared.ErrInsufficientStock
	}

	// Apply the computed uses back onto the layers.
	byID := make(map[uuid.UUID]*inventory.CostLayer, len(layers))
	for i := range layers {
		byID[layers[i].ID] = &layers[i]
	}
	updated := make([]*inventory.CostLayer, 0, len(result.Uses))
	for _, use := range result.Uses {
		layer, ok := byID[use.LayerID]
		if !ok {
			return nil, shared.NewDomainError("LAYER_MISSING", "Consumed layer disappeared during costing")
		}
		if err := layer.Consume(use.Quantity); err != nil {
			return nil, err
		}
		updated = append(updated, layer)
	}
	if err := s.layers.SaveAll(ctx, updated); err != nil {
		return nil, err
	}

	return inventory.NewOutflowMovement(companyID, item.ID, input.Type, input.Date, input.Quantity, result, input.Notes)
}

// CurrentAverageCost reports the item's present unit cost: the weighted
// average over open layers or batches, or the latest adjusted cost under
// price adjustment. Zero when nothing remains.
func (s *StockService) CurrentAverageCost(ctx context.Context, companyID, itemID uuid.UUID) (decimal.Decimal, error) {
	item, err := s.items.FindByIDForCompany(ctx, companyID, itemID)
	if err != nil {
		return decimal.Zero, err
	}

	switch item.CostingMethod {
	case inventory.CostingPriceAdjustment:
		latest, err := s.adjustments.LatestForItem(ctx, companyID, itemID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, err
		}
		if latest != nil {
			return latest.NewUnitCost, nil
		}
		layers, err := s.layers.FindOpenForItem(ctx, companyID, itemID)
		if err != nil {
			return decimal.Zero, err
		}
		return inventory.AverageCostOfLayers(layers), nil

	case inventory.CostingSpecificID:
		batches, err := s.batches.FindOpenForItem(ctx, companyID, itemID)
		if err != nil {
			return decimal.Zero, err
		}
		totalQty, totalValue := decimal.Zero, decimal.Zero
		for _, b := range batches {
			totalQty = totalQty.Add(b.QuantityRemaining)
			totalValue = totalValue.Add(b.QuantityRemaining.Mul(b.UnitCost))
		}
		if !totalQty.IsPositive() {
			return decimal.Zero, nil
		}
		return totalValue.Div(totalQty).Round(shared.QuantityPlaces), nil

	default:
		layers, err := s.layers.FindOpenForItem(ctx, companyID, itemID)
		if err != nil {
			return decimal.Zero, err
		}
		return inventory.AverageCostOfLayers(layers), nil
	}
}

// PostPriceAdjustment restates the item's unit cost. Open layers take
// the new cost; movements already posted keep theirs.
func (s *StockService) PostPriceAdjustment(ctx context.Context, companyID, itemID uuid.UUID, date time.Time, newUnitCost decimal.Decimal, reason string) (*inventory.PriceAdjustment, error) {
	item, err := s.items.FindByIDForCompany(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}

	oldCost, err := s.CurrentAverageCost(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}

	adjustment, err := inventory.NewPriceAdjustment(companyID, item.ID, date, oldCost, newUnitCost, reason)
	if err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		layers, err := s.layers.FindOpenForItem(ctx, companyID, itemID)
		if err != nil {
			return err
		}
		updated := make([]*inventory.CostLayer, 0, len(layers))
		for i := range layers {
			layers[i].Restate(newUnitCost)
			updated = append(updated, &layers[i])
		}
		if err := s.layers.SaveAll(ctx, updated); err != nil {
			return err
		}
		return s.adjustments.Save(ctx, adjustment)
	})
	if err != nil {
		return nil, err
	}
	return adjustment, nil
}

// ExpiringBatches lists open batches expiring within the horizon in days
func (s *StockService) ExpiringBatches(ctx context.Context, companyID uuid.UUID, today time.Time, days int) ([]inventory.Batch, error) {
	return s.batches.FindExpiring(ctx, companyID, today.AddDate(0, 0, days))
}

// RecomputeQuantityOnHand rebuilds the cached quantity from movements
// and returns the corrected value; the drift guard for the cache.
func (s *StockService) RecomputeQuantityOnHand(ctx context.Context, companyID, itemID uuid.UUID) (decimal.Decimal, error) {
	item, err := s.items.FindByIDForCompany(ctx, companyID, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	derived, err := s.movements.SignedQuantitySum(ctx, companyID, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	if !item.QuantityOnHand.Equal(derived) {
		s.logger.Warn("quantity on hand drift corrected",
			zap.String("item_id", itemID.String()),
			zap.String("cached", item.QuantityOnHand.String()),
			zap.String("derived", derived.String()))
		item.QuantityOnHand = derived
		if err := s.items.Save(ctx, item); err != nil {
			return decimal.Zero, err
		}
	}
	return derived, nil
}
