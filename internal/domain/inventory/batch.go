package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// Batch is a traceable lot of a batch-tracked item with its own unit
// cost and optional expiry.
type Batch struct {
	shared.BaseEntity
	CompanyID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_batches_item_number,priority:1"`
	BatchNumber       string          `gorm:"size:100;not null;uniqueIndex:idx_batches_item_number,priority:2"`
	Quantity          decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	QuantityRemaining decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	UnitCost          decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	ManufactureDate   *time.Time      `gorm:"type:date"`
	ExpiryDate        *time.Time      `gorm:"type:date;index"`
}

// TableName specifies the database table name
func (Batch) TableName() string {
	return "inventory_batches"
}

// NewBatch creates a batch from an inflow
func NewBatch(companyID, itemID uuid.UUID, batchNumber string, quantity, unitCost decimal.Decimal) (*Batch, error) {
	batchNumber = strings.TrimSpace(batchNumber)
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	return &Batch{
		BaseEntity:        shared.NewBaseEntity(),
		CompanyID:         companyID,
		ItemID:            itemID,
		BatchNumber:       batchNumber,
		Quantity:          shared.RoundQuantity(quantity),
		QuantityRemaining: shared.RoundQuantity(quantity),
		UnitCost:          shared.RoundQuantity(unitCost),
	}, nil
}

// AddStock grows the batch by a further inflow at the same unit cost
func (b *Batch) AddStock(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	b.Quantity = shared.RoundQuantity(b.Quantity.Add(quantity))
	b.QuantityRemaining = shared.RoundQuantity(b.QuantityRemaining.Add(quantity))
	b.UpdatedAt = time.Now()
	return nil
}

// Consume removes quantity from the batch
func (b *Batch) Consume(quantity decimal.Decimal) error {
	if quantity.GreaterThan(b.QuantityRemaining) {
		return shared.ErrInsufficientBatch
	}
	b.QuantityRemaining = shared.RoundQuantity(b.QuantityRemaining.Sub(quantity))
	b.UpdatedAt = time.Now()
	return nil
}

// HasRemaining reports whether the batch still holds stock
func (b *Batch) HasRemaining() bool {
	return b.QuantityRemaining.IsPositive()
}

// IsExpired reports whether the batch has passed its expiry date
func (b *Batch) IsExpired(today time.Time) bool {
	return b.ExpiryDate != nil && b.ExpiryDate.Before(today)
}

// ExpiresWithin reports whether the batch expires inside the window
func (b *Batch) ExpiresWithin(today time.Time, days int) bool {
	if b.ExpiryDate == nil {
		return false
	}
	limit := today.AddDate(0, 0, days)
	return !b.ExpiryDate.After(limit) && !b.IsExpired(today)
}
