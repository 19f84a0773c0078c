package inventory

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// MovementType is the reason for a stock movement. Quantities are stored
// positive; the sign is inferred from the type.
type MovementType string

const (
	MovementOpeningStock   MovementType = "OPENING_STOCK"
	MovementPurchase       MovementType = "PURCHASE"
	MovementSalesReturn    MovementType = "SALES_RETURN"
	MovementAdjustmentIn   MovementType = "ADJUSTMENT_IN"
	MovementSale           MovementType = "SALE"
	MovementPurchaseReturn MovementType = "PURCHASE_RETURN"
	MovementDamaged        MovementType = "DAMAGED"
	MovementGift           MovementType = "GIFT"
	MovementAdjustmentOut  MovementType = "ADJUSTMENT_OUT"
	MovementExpired        MovementType = "EXPIRED"
)

// IsInflow reports whether the movement adds stock
func (t MovementType) IsInflow() bool {
	switch t {
	case MovementOpeningStock, MovementPurchase, MovementSalesReturn, MovementAdjustmentIn:
		return true
	}
	return false
}

// IsOutflow reports whether the movement removes stock
func (t MovementType) IsOutflow() bool {
	switch t {
	case MovementSale, MovementPurchaseReturn, MovementDamaged, MovementGift, MovementAdjustmentOut, MovementExpired:
		return true
	}
	return false
}

// IsValid checks whether the movement type is known
func (t MovementType) IsValid() bool {
	return t.IsInflow() || t.IsOutflow()
}

// Sign returns +1 for inflows and -1 for outflows
func (t MovementType) Sign() int {
	if t.IsInflow() {
		return 1
	}
	return -1
}

// Movement is one signed stock transaction of an item.
type Movement struct {
	shared.TenantAggregateRoot
	ItemID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type     MovementType    `gorm:"size:20;not null;index"`
	Date     time.Time       `gorm:"type:date;not null;index"`
	Quantity decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	BatchID  *uuid.UUID      `gorm:"type:uuid;index"`
	// UnitCost is the inflow cost, or the averaged outflow cost.
	UnitCost  decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	TotalCost decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	// CostLayersUsed is the audit record of which layers or batches an
	// outflow consumed, serialized as JSON.
	CostLayersUsed string `gorm:"type:jsonb"`
	Notes          string `gorm:"size:500"`
}

// TableName specifies the database table name
func (Movement) TableName() string {
	return "inventory_movements"
}

// SignedQuantity returns the quantity with the movement's direction applied
func (m *Movement) SignedQuantity() decimal.Decimal {
	if m.Type.Sign() < 0 {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// NewInflowMovement records stock entering at a known unit cost
func NewInflowMovement(companyID, itemID uuid.UUID, movementType MovementType, date time.Time, quantity, unitCost decimal.Decimal, notes string) (*Movement, error) {
	if !movementType.IsInflow() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Movement type is not an inflow")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return &Movement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		ItemID:              itemID,
		Type:                movementType,
		Date:                date,
		Quantity:            shared.RoundQuantity(quantity),
		UnitCost:            shared.RoundQuantity(unitCost),
		TotalCost:           shared.RoundMoney(quantity.Mul(unitCost)),
		Notes:               notes,
	}, nil
}

// NewOutflowMovement records stock leaving, costed by a consumption result
func NewOutflowMovement(companyID, itemID uuid.UUID, movementType MovementType, date time.Time, quantity decimal.Decimal, result *ConsumptionResult, notes string) (*Movement, error) {
	if !movementType.IsOutflow() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Movement type is not an outflow")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	audit, err := json.Marshal(result.Uses)
	if err != nil {
		return nil, shared.NewDomainError("SERIALIZATION_ERROR", "Failed to serialize cost layer usage")
	}
	return &Movement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		ItemID:              itemID,
		Type:                movementType,
		Date:                date,
		Quantity:            shared.RoundQuantity(quantity),
		UnitCost:            result.UnitCost,
		TotalCost:           shared.RoundMoney(result.TotalCost),
		CostLayersUsed:      string(audit),
		Notes:               notes,
	}, nil
}

// ParseCostLayersUsed returns the deserialized audit trail
func (m *Movement) ParseCostLayersUsed() ([]LayerUse, error) {
	if m.CostLayersUsed == "" {
		return nil, nil
	}
	var uses []LayerUse
	if err := json.Unmarshal([]byte(m.CostLayersUsed), &uses); err != nil {
		return nil, err
	}
	return uses, nil
}
