package asset

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// DepreciationEntry records one posted period of depreciation. The
// (asset, date) unique index is the at-most-once-per-period guard.
type DepreciationEntry struct {
	shared.BaseEntity
	CompanyID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	AssetID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_dep_asset_date,priority:1"`
	JournalEntryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date           time.Time       `gorm:"type:date;not null;uniqueIndex:idx_dep_asset_date,priority:2"`
	Amount         decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	YearNumber     int             `gorm:"not null;default:1"`
	UnitsProduced  int64           `gorm:"not null;default:0"`
}

// TableName specifies the database table name
func (DepreciationEntry) TableName() string {
	return "depreciation_entries"
}

// NewDepreciationEntry records a posted depreciation period
func NewDepreciationEntry(companyID, assetID, journalEntryID uuid.UUID, date time.Time, amount decimal.Decimal, yearNumber int, unitsProduced int64) *DepreciationEntry {
	return &DepreciationEntry{
		BaseEntity:     shared.NewBaseEntity(),
		CompanyID:      companyID,
		AssetID:        assetID,
		JournalEntryID: journalEntryID,
		Date:           date,
		Amount:         shared.RoundMoney(amount),
		YearNumber:     yearNumber,
		UnitsProduced:  unitsProduced,
	}
}
