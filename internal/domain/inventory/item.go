package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// ItemType classifies an inventory item
type ItemType string

const (
	ItemTypeStock    ItemType = "stock_item"
	ItemTypeFinished ItemType = "finished_good"
	ItemTypeService  ItemType = "service"
)

// IsValid checks whether the item type is one of the known types
func (t ItemType) IsValid() bool {
	return t == ItemTypeStock || t == ItemTypeFinished || t == ItemTypeService
}

// IsProduct reports whether the item carries physical stock
func (t ItemType) IsProduct() bool {
	return t == ItemTypeStock || t == ItemTypeFinished
}

// CostingMethod determines how outflow cost is computed
type CostingMethod string

const (
	CostingFIFO            CostingMethod = "FIFO"
	CostingLIFO            CostingMethod = "LIFO"
	CostingWeightedAverage CostingMethod = "WEIGHTED_AVG"
	CostingSpecificID      CostingMethod = "SPECIFIC_ID"
	CostingPriceAdjustment CostingMethod = "PRICE_ADJUSTMENT"
)

// IsValid checks whether the costing method is one of the known methods
func (m CostingMethod) IsValid() bool {
	switch m {
	case CostingFIFO, CostingLIFO, CostingWeightedAverage, CostingSpecificID, CostingPriceAdjustment:
		return true
	}
	return false
}

// InventoryItem is a product or service the company sells or consumes.
// QuantityOnHand is a cache over the signed sum of the item's movements.
type InventoryItem struct {
	shared.TenantAggregateRoot
	Name             string          `gorm:"size:255;not null"`
	SKU              string          `gorm:"size:100;uniqueIndex:idx_items_company_sku,priority:2"`
	Type             ItemType        `gorm:"size:20;not null;default:'stock_item'"`
	UnitOfMeasure    string          `gorm:"size:50;default:'unit'"`
	SalePrice        decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	ReorderLevel     decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	CostingMethod    CostingMethod   `gorm:"size:20;not null;default:'FIFO'"`
	BatchTracking    bool            `gorm:"not null;default:false"`
	AllowFractional  bool            `gorm:"not null;default:false"`
	TrackExpiry      bool            `gorm:"not null;default:false"`
	QuantityOnHand   decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	IncomeAccountID  *uuid.UUID      `gorm:"type:uuid"`
	ExpenseAccountID *uuid.UUID      `gorm:"type:uuid"`
	AssetAccountID   *uuid.UUID      `gorm:"type:uuid"`
	IsActive         bool            `gorm:"not null;default:true"`
	Description      string          `gorm:"size:500"`
}

// TableName specifies the database table name
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates a new item
func NewInventoryItem(companyID uuid.UUID, name, sku string, itemType ItemType, method CostingMethod) (*InventoryItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Unknown item type")
	}
	if itemType.IsProduct() && !method.IsValid() {
		return nil, shared.ErrCostingMethodMissing
	}

	item := &InventoryItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		Name:                name,
		SKU:                 strings.TrimSpace(sku),
		Type:                itemType,
		UnitOfMeasure:       "unit",
		CostingMethod:       method,
		SalePrice:           decimal.Zero,
		ReorderLevel:        decimal.Zero,
		QuantityOnHand:      decimal.Zero,
		IsActive:            true,
	}
	return item, nil
}

// EnableBatchTracking turns on batch tracking. Batch-tracked items are
// always costed by specific identification.
func (i *InventoryItem) EnableBatchTracking(trackExpiry bool) error {
	if !i.Type.IsProduct() {
		return shared.NewDomainError("INVALID_ITEM_TYPE", "Services cannot be batch tracked")
	}
	i.BatchTracking = true
	i.TrackExpiry = trackExpiry
	i.CostingMethod = CostingSpecificID
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// SetCostingMethod changes the costing method
func (i *InventoryItem) SetCostingMethod(method CostingMethod) error {
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_COSTING_METHOD", "Unknown costing method")
	}
	if i.BatchTracking && method != CostingSpecificID {
		return shared.NewDomainError("INVALID_COSTING_METHOD", "Batch tracked items must use specific identification")
	}
	i.CostingMethod = method
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// SetAccounts links the ledger accounts used when posting this item
func (i *InventoryItem) SetAccounts(income, expense, asset *uuid.UUID) error {
	if !i.Type.IsProduct() && asset != nil {
		return shared.NewDomainError("INVALID_ACCOUNT", "Services do not carry an asset account")
	}
	i.IncomeAccountID = income
	i.ExpenseAccountID = expense
	i.AssetAccountID = asset
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// ValidateQuantity checks a movement quantity against the item's rules
func (i *InventoryItem) ValidateQuantity(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !i.AllowFractional && !quantity.Equal(quantity.Truncate(0)) {
		return shared.ErrFractionalQuantity
	}
	return nil
}

// AdjustQuantityOnHand applies a signed delta to the cached quantity
func (i *InventoryItem) AdjustQuantityOnHand(delta decimal.Decimal) {
	i.QuantityOnHand = shared.RoundQuantity(i.QuantityOnHand.Add(delta))
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// IsBelowReorderLevel reports whether stock has fallen to the reorder point
func (i *InventoryItem) IsBelowReorderLevel() bool {
	return i.Type.IsProduct() && i.ReorderLevel.IsPositive() &&
		i.QuantityOnHand.LessThanOrEqual(i.ReorderLevel)
}
