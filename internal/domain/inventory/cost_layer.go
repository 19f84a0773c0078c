package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// CostLayer is one purchase-sized bucket of stock carrying its own unit
// cost. Layers are consumed by the costing strategies.
type CostLayer struct {
	shared.BaseEntity
	CompanyID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	AcquiredOn        time.Time       `gorm:"type:date;not null;index"`
	Quantity          decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	QuantityRemaining decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	UnitCost          decimal.Decimal `gorm:"type:numeric(18,4);not null"`
}

// TableName specifies the database table name
func (CostLayer) TableName() string {
	return "inventory_cost_layers"
}

// NewCostLayer creates a full layer from an inflow
func NewCostLayer(companyID, itemID uuid.UUID, acquiredOn time.Time, quantity, unitCost decimal.Decimal) (*CostLayer, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Layer quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	return &CostLayer{
		BaseEntity:        shared.NewBaseEntity(),
		CompanyID:         companyID,
		ItemID:            itemID,
		AcquiredOn:        acquiredOn,
		Quantity:          shared.RoundQuantity(quantity),
		QuantityRemaining: shared.RoundQuantity(quantity),
		UnitCost:          shared.RoundQuantity(unitCost),
	}, nil
}

// HasRemaining reports whether the layer still holds stock
func (l *CostLayer) HasRemaining() bool {
	return l.QuantityRemaining.IsPositive()
}

// Consume removes quantity from the layer
func (l *CostLayer) Consume(quantity decimal.Decimal) error {
	if quantity.GreaterThan(l.QuantityRemaining) {
		return shared.ErrInsufficientStock
	}
	l.QuantityRemaining = shared.RoundQuantity(l.QuantityRemaining.Sub(quantity))
	l.UpdatedAt = time.Now()
	return nil
}

// Restate changes the layer's unit cost without touching quantities.
// Used by posted price adjustments, which affect future outflows only.
func (l *CostLayer) Restate(newUnitCost decimal.Decimal) {
	l.UnitCost = shared.RoundQuantity(newUnitCost)
	l.UpdatedAt = time.Now()
}
