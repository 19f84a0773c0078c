package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// PriceAdjustment is a posted restatement of an item's unit cost. Open
// layers are restated when it posts; outflows already recorded keep
// their original cost.
type PriceAdjustment struct {
	shared.TenantAggregateRoot
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date        time.Time       `gorm:"type:date;not null;index"`
	OldUnitCost decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	NewUnitCost decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Reason      string          `gorm:"size:500"`
}

// TableName specifies the database table name
func (PriceAdjustment) TableName() string {
	return "inventory_price_adjustments"
}

// NewPriceAdjustment records a cost restatement for an item
func NewPriceAdjustment(companyID, itemID uuid.UUID, date time.Time, oldCost, newCost decimal.Decimal, reason string) (*PriceAdjustment, error) {
	if !newCost.IsPositive() {
		return nil, shared.NewDomainError("INVALID_COST", "Adjusted unit cost must be positive")
	}
	return &PriceAdjustment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		ItemID:              itemID,
		Date:                date,
		OldUnitCost:         shared.RoundQuantity(oldCost),
		NewUnitCost:         shared.RoundQuantity(newCost),
		Reason:              reason,
	}, nil
}
