package asset

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ledgerly/backend/internal/application/validation"
	"github.com/ledgerly/backend/internal/domain/asset"
	"github.com/ledgerly/backend/internal/domain/shared"
)

// AssetService manages the fixed asset register.
type AssetService struct {
	assets      asset.Repository
	maintenance asset.MaintenanceRepository
	logger      *zap.Logger
}

// NewAssetService creates a new AssetService
func NewAssetService(assets asset.Repository, maintenance asset.MaintenanceRepository, logger *zap.Logger) *AssetService {
	return &AssetService{assets: assets, maintenance: maintenance, logger: logger}
}

// CreateAssetInput carries the fields for a new fixed asset
type CreateAssetInput struct {
	Name                string `validate:"required,max=255"`
	PurchaseDate        time.Time
	PurchasePrice       decimal.Decimal
	SalvageValue        decimal.Decimal
	UsefulLifeYears     int
	Method              asset.DepreciationMethod
	EstimatedTotalUnits int64
	AssetAccountID      uuid.UUID
	AccumDepAccountID   uuid.UUID
	DepExpenseAccountID uuid.UUID
	Description         string `validate:"max=500"`
}

// Create registers a fixed asset with its ledger account links
func (s *AssetService) Create(ctx context.Context, companyID uuid.UUID, input CreateAssetInput) (*asset.Asset, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	a, err := asset.NewAsset(companyID, input.Name, input.PurchaseDate, input.PurchasePrice, input.UsefulLifeYears, input.Method)
	if err != nil {
		return nil, err
	}
	if input.SalvageValue.IsNegative() || input.SalvageValue.GreaterThan(input.PurchasePrice) {
		return nil, shared.NewDomainError("INVALID_SALVAGE", "Salvage value must be between zero and the purchase price")
	}
	if input.Method == asset.MethodUnitsOfProd && input.EstimatedTotalUnits <= 0 {
		return nil, shared.NewDomainError("INVALID_UNITS", "Units of production needs an estimated total")
	}
	if input.Method != asset.MethodNone {
		if input.AssetAccountID == uuid.Nil || input.AccumDepAccountID == uuid.Nil || input.DepExpenseAccountID == uuid.Nil {
			return nil, shared.ErrAccountMissing
		}
	}

	a.SalvageValue = shared.RoundMoney(input.SalvageValue)
	a.EstimatedTotalUnits = input.EstimatedTotalUnits
	a.AssetAccountID = input.AssetAccountID
	a.AccumDepAccountID = input.AccumDepAccountID
	a.DepExpenseAccountID = input.DepExpenseAccountID
	a.Description = input.Description

	if err := s.assets.Save(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info("asset registered",
		zap.String("asset_id", a.ID.String()),
		zap.String("method", string(a.Method)))
	return a, nil
}

// RecordMaintenance logs maintenance work against an asset
func (s *AssetService) RecordMaintenance(ctx context.Context, companyID, assetID uuid.UUID, date time.Time, maintenanceType asset.MaintenanceType, description string, cost decimal.Decimal) (*asset.Maintenance, error) {
	a, err := s.assets.FindByIDForCompany(ctx, companyID, assetID)
	if err != nil {
		return nil, err
	}
	record, err := asset.NewMaintenance(companyID, a.ID, date, maintenanceType, description, cost)
	if err != nil {
		return nil, err
	}
	if err := s.maintenance.Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// MaintenanceCost returns the lifetime maintenance spend of an asset
func (s *AssetService) MaintenanceCost(ctx context.Context, companyID, assetID uuid.UUID) (decimal.Decimal, error) {
	if _, err := s.assets.FindByIDForCompany(ctx, companyID, assetID); err != nil {
		return decimal.Zero, err
	}
	return s.maintenance.TotalCostForAsset(ctx, assetID)
}
