package asset

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// DepreciationMethod selects the annual depreciation formula.
type DepreciationMethod string

const (
	MethodStraightLine   DepreciationMethod = "SL"
	MethodDecliningBal   DepreciationMethod = "DB" // legacy alias of DD
	MethodDoubleDeclined DepreciationMethod = "DD"
	MethodDeclining150   DepreciationMethod = "DB150"
	MethodSumOfYears     DepreciationMethod = "SYD"
	MethodUnitsOfProd    DepreciationMethod = "UOP"
	MethodMACRS          DepreciationMethod = "MACRS"
	MethodNone           DepreciationMethod = "NONE"
)

// IsValid checks whether the method is one of the known methods
func (m DepreciationMethod) IsValid() bool {
	switch m {
	case MethodStraightLine, MethodDecliningBal, MethodDoubleDeclined, MethodDeclining150,
		MethodSumOfYears, MethodUnitsOfProd, MethodMACRS, MethodNone:
		return true
	}
	return false
}

// macrsRates is the simplified 5-year property schedule. Rates apply to
// the purchase price, not the depreciable base.
var macrsRates = map[int]decimal.Decimal{
	1: decimal.NewFromFloat(0.20),
	2: decimal.NewFromFloat(0.32),
	3: decimal.NewFromFloat(0.192),
	4: decimal.NewFromFloat(0.1152),
	5: decimal.NewFromFloat(0.1152),
	6: decimal.NewFromFloat(0.0576),
}

// Asset is a depreciable fixed asset.
type Asset struct {
	shared.TenantAggregateRoot
	Name          string             `gorm:"size:255;not null"`
	PurchaseDate  time.Time          `gorm:"type:date;not null"`
	PurchasePrice decimal.Decimal    `gorm:"type:numeric(18,2);not null"`
	SalvageValue  decimal.Decimal    `gorm:"type:numeric(18,2);not null;default:0"`
	UsefulLife    int                `gorm:"not null"`
	Method        DepreciationMethod `gorm:"size:10;not null;default:'SL'"`
	// Units-of-production counters.
	EstimatedTotalUnits int64 `gorm:"not null;default:0"`
	// Linked ledger accounts.
	AssetAccountID      uuid.UUID `gorm:"type:uuid;not null"`
	AccumDepAccountID   uuid.UUID `gorm:"type:uuid;not null"`
	DepExpenseAccountID uuid.UUID `gorm:"type:uuid;not null"`
	Description         string    `gorm:"size:500"`
	IsDisposed          bool      `gorm:"not null;default:false"`
}

// TableName specifies the database table name
func (Asset) TableName() string {
	return "assets"
}

// NewAsset creates a new fixed asset
func NewAsset(companyID uuid.UUID, name string, purchaseDate time.Time, purchasePrice decimal.Decimal, usefulLifeYears int, method DepreciationMethod) (*Asset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Asset name cannot be empty")
	}
	if !purchasePrice.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Purchase price must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Unknown depreciation method")
	}
	if method != MethodNone && usefulLifeYears <= 0 {
		return nil, shared.NewDomainError("INVALID_LIFE", "Useful life must be positive")
	}

	return &Asset{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		Name:                name,
		PurchaseDate:        purchaseDate,
		PurchasePrice:       shared.RoundMoney(purchasePrice),
		SalvageValue:        decimal.Zero,
		UsefulLife:          usefulLifeYears,
		Method:              method,
	}, nil
}

// DepreciableBase is the portion of the cost that depreciates
func (a *Asset) DepreciableBase() decimal.Decimal {
	return a.PurchasePrice.Sub(a.SalvageValue)
}

// BookValue is the purchase price less accumulated depreciation
func (a *Asset) BookValue(accumulated decimal.Decimal) decimal.Decimal {
	return a.PurchasePrice.Sub(accumulated)
}

// YearNumber returns which year of the asset's life a date falls in,
// counting from the purchase anniversary (1-based).
func (a *Asset) YearNumber(date time.Time) int {
	if date.Before(a.PurchaseDate) {
		return 0
	}
	years := date.Year() - a.PurchaseDate.Year()
	anniversary := a.PurchaseDate.AddDate(years, 0, 0)
	if date.Before(anniversary) {
		years--
	}
	return years + 1
}

// AnnualDepreciation computes one year's depreciation for the asset.
// accumulated is the depreciation already posted (needed by the
// declining-balance family); unitsProduced only matters under UOP.
func (a *Asset) AnnualDepreciation(yearNumber int, accumulated decimal.Decimal, unitsProduced int64) decimal.Decimal {
	if a.Method == MethodNone {
		return decimal.Zero
	}

	base := a.DepreciableBase()
	if !base.IsPositive() || a.UsefulLife == 0 {
		return decimal.Zero
	}
	life := decimal.NewFromInt(int64(a.UsefulLife))

	switch a.Method {
	case MethodStraightLine:
		return base.Div(life)

	case MethodDecliningBal, MethodDoubleDeclined:
		rate := decimal.NewFromInt(2).Div(life)
		return a.decliningAnnual(rate, accumulated)

	case MethodDeclining150:
		rate := decimal.NewFromFloat(1.5).Div(life)
		return a.decliningAnnual(rate, accumulated)

	case MethodSumOfYears:
		n := a.UsefulLife
		sumOfYears := decimal.NewFromInt(int64(n * (n + 1) / 2))
		remainingYears := n - yearNumber + 1
		if remainingYears <= 0 {
			return decimal.Zero
		}
		return decimal.NewFromInt(int64(remainingYears)).Div(sumOfYears).Mul(base)

	case MethodUnitsOfProd:
		if a.EstimatedTotalUnits == 0 {
			return decimal.Zero
		}
		perUnit := base.Div(decimal.NewFromInt(a.EstimatedTotalUnits))
		return perUnit.Mul(decimal.NewFromInt(unitsProduced))

	case MethodMACRS:
		if rate, ok := macrsRates[yearNumber]; ok {
			return a.PurchasePrice.Mul(rate)
		}
		return decimal.Zero
	}

	return decimal.Zero
}

// decliningAnnual applies a declining-balance rate to the current book
// value, capped so book value never falls below salvage.
func (a *Asset) decliningAnnual(rate, accumulated decimal.Decimal) decimal.Decimal {
	bookValue := a.BookValue(accumulated)
	annual := bookValue.Mul(rate)
	cap := bookValue.Sub(a.SalvageValue)
	return decimal.Min(annual, cap)
}
