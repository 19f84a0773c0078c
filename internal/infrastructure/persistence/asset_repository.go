package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ledgerly/backend/internal/domain/asset"
)

// GormAssetRepository implements asset.Repository using GORM
type GormAssetRepository struct {
	repo[asset.Asset]
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{repo: newRepo[asset.Asset](db, AssetSortFields)}
}

// FindActive finds the company's assets that have not been disposed
func (r *GormAssetRepository) FindActive(ctx context.Context, companyID uuid.UUID) ([]asset.Asset, error) {
	var assets []asset.Asset
	if err := r.conn(ctx).
		Where("company_id = ? AND is_disposed = ?", companyID, false).
		Order("purchase_date ASC").
		Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// GormDepreciationEntryRepository implements asset.DepreciationEntryRepository using GORM
type GormDepreciationEntryRepository struct {
	db *gorm.DB
}

// NewGormDepreciationEntryRepository creates a new GormDepreciationEntryRepository
func NewGormDepreciationEntryRepository(db *gorm.DB) *GormDepreciationEntryRepository {
	return &GormDepreciationEntryRepository{db: db}
}

func (r *GormDepreciationEntryRepository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := TxFrom(ctx); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// Save persists the depreciation entry
func (r *GormDepreciationEntryRepository) Save(ctx context.Context, entry *asset.DepreciationEntry) error {
	return translateError(r.conn(ctx).Save(entry).Error)
}

// ExistsForMonth reports whether depreciation was already posted for the
// asset in the given calendar month
func (r *GormDepreciationEntryRepository) ExistsForMonth(ctx context.Context, assetID uuid.UUID, year int, month int) (bool, error) {
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	var count int64
	err := r.conn(ctx).
		Model(&asset.DepreciationEntry{}).
		Where("asset_id = ? AND date >= ? AND date < ?", assetID, monthStart, nextMonth).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AccumulatedForAsset sums all posted depreciation for the asset
func (r *GormDepreciationEntryRepository) AccumulatedForAsset(ctx context.Context, assetID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.conn(ctx).
		Model(&asset.DepreciationEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("asset_id = ?", assetID).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// FindForAsset returns the asset's posted periods in date order
func (r *GormDepreciationEntryRepository) FindForAsset(ctx context.Context, assetID uuid.UUID) ([]asset.DepreciationEntry, error) {
	var entries []asset.DepreciationEntry
	if err := r.conn(ctx).
		Where("asset_id = ?", assetID).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// GormMaintenanceRepository implements asset.MaintenanceRepository using GORM
type GormMaintenanceRepository struct {
	db *gorm.DB
}

// NewGormMaintenanceRepository creates a new GormMaintenanceRepository
func NewGormMaintenanceRepository(db *gorm.DB) *GormMaintenanceRepository {
	return &GormMaintenanceRepository{db: db}
}

func (r *GormMaintenanceRepository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := TxFrom(ctx); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// Save persists the maintenance record
func (r *GormMaintenanceRepository) Save(ctx context.Context, record *asset.Maintenance) error {
	return translateError(r.conn(ctx).Save(record).Error)
}

// FindForAsset returns the asset's maintenance history in date order
func (r *GormMaintenanceRepository) FindForAsset(ctx context.Context, assetID uuid.UUID) ([]asset.Maintenance, error) {
	var records []asset.Maintenance
	if err := r.conn(ctx).
		Where("asset_id = ?", assetID).
		Order("date ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// TotalCostForAsset sums what the asset's maintenance has cost
func (r *GormMaintenanceRepository) TotalCostForAsset(ctx context.Context, assetID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.conn(ctx).
		Model(&asset.Maintenance{}).
		Select("COALESCE(SUM(cost), 0)").
		Where("asset_id = ?", assetID).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}
