package asset

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// MaintenanceType classifies maintenance work on an asset
type MaintenanceType string

const (
	MaintenanceRepair  MaintenanceType = "REPAIR"
	MaintenanceRoutine MaintenanceType = "ROUTINE"
	MaintenanceUpgrade MaintenanceType = "UPGRADE"
)

// IsValid checks whether the maintenance type is known
func (t MaintenanceType) IsValid() bool {
	return t == MaintenanceRepair || t == MaintenanceRoutine || t == MaintenanceUpgrade
}

// Maintenance records work done on an asset and what it cost.
type Maintenance struct {
	shared.BaseEntity
	CompanyID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	AssetID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date        time.Time       `gorm:"type:date;not null"`
	Type        MaintenanceType `gorm:"size:10;not null"`
	Description string          `gorm:"type:text;not null"`
	Cost        decimal.Decimal `gorm:"type:numeric(18,2);not null"`
}

// TableName specifies the database table name
func (Maintenance) TableName() string {
	return "asset_maintenance_records"
}

// NewMaintenance records maintenance work on an asset
func NewMaintenance(companyID, assetID uuid.UUID, date time.Time, maintenanceType MaintenanceType, description string, cost decimal.Decimal) (*Maintenance, error) {
	if !maintenanceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MAINTENANCE_TYPE", "Unknown maintenance type")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Maintenance description cannot be empty")
	}
	if cost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Maintenance cost cannot be negative")
	}
	return &Maintenance{
		BaseEntity:  shared.NewBaseEntity(),
		CompanyID:   companyID,
		AssetID:     assetID,
		Date:        date,
		Type:        maintenanceType,
		Description: description,
		Cost:        shared.RoundMoney(cost),
	}, nil
}
