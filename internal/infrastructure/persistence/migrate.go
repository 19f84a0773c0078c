package persistence

import (
	"gorm.io/gorm"

	"github.com/ledgerly/backend/internal/domain/accounting"
	"github.com/ledgerly/backend/internal/domain/asset"
	"github.com/ledgerly/backend/internal/domain/billing"
	"github.com/ledgerly/backend/internal/domain/identity"
	"github.com/ledgerly/backend/internal/domain/inventory"
	"github.com/ledgerly/backend/internal/domain/partner"
	"github.com/ledgerly/backend/internal/domain/tenant"
	"github.com/ledgerly/backend/internal/domain/trade"
)

// Models returns every persisted aggregate in dependency order
func Models() []any {
	return []any{
		&tenant.Company{},
		&identity.User{},
		&billing.Subscription{},
		&accounting.AccountType{},
		&accounting.Account{},
		&accounting.JournalEntry{},
		&accounting.JournalEntryLine{},
		&partner.Customer{},
		&trade.Category{},
		&trade.Transaction{},
		&trade.TransactionItem{},
		&trade.ExpenseLine{},
		&inventory.InventoryItem{},
		&inventory.CostLayer{},
		&inventory.Batch{},
		&inventory.Movement{},
		&inventory.PriceAdjustment{},
		&asset.Asset{},
		&asset.DepreciationEntry{},
		&asset.Maintenance{},
	}
}

// AutoMigrate creates or updates the schema for every model
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
