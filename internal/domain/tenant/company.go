package tenant

import (
	"context"
	"time"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// Company is the tenant root. Every business record in the system belongs
// to exactly one company, and all books are kept in its single currency.
type Company struct {
	shared.BaseAggregateRoot
	Name               string    `gorm:"size:255;not null"`
	CurrencyCode       string    `gorm:"size:3;not null;default:'USD'"`
	Industry           string    `gorm:"size:100"`
	RegistrationNumber string    `gorm:"size:50"`
	TaxNumber          string    `gorm:"size:50"`
	Email              string    `gorm:"size:255"`
	Phone              string    `gorm:"size:50"`
	Address            string    `gorm:"size:500"`
	FiscalYearStart    time.Time `gorm:"type:date;not null"`
	// ClosingGraceMonths is how long after a fiscal year ends that its
	// books stay open for adjusting entries.
	ClosingGraceMonths int  `gorm:"not null;default:3"`
	IsActive           bool `gorm:"not null;default:true"`
}

// TableName specifies the database table name
func (Company) TableName() string {
	return "companies"
}

// NewCompany creates a new company with a default calendar fiscal year
func NewCompany(name, currencyCode string) *Company {
	now := time.Now()
	return &Company{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Name:               name,
		CurrencyCode:       currencyCode,
		FiscalYearStart:    time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
		ClosingGraceMonths: 3,
		IsActive:           true,
	}
}

// CurrentFiscalYearStart returns the start of the fiscal year containing
// today, advancing the configured start date in whole 12-month steps.
func (c *Company) CurrentFiscalYearStart(today time.Time) time.Time {
	start := c.FiscalYearStart
	for !start.AddDate(1, 0, 0).After(today) {
		start = start.AddDate(1, 0, 0)
	}
	return start
}

// HardCloseDate returns the latest date locked against regular postings:
// the previous fiscal year end plus the closing grace period.
func (c *Company) HardCloseDate(today time.Time) time.Time {
	currentStart := c.CurrentFiscalYearStart(today)
	previousYearEnd := currentStart.AddDate(0, 0, -1)
	return previousYearEnd.AddDate(0, c.ClosingGraceMonths, 0)
}

// IsPeriodClosed reports whether a posting dated on the given day falls
// in a closed period as of today.
func (c *Company) IsPeriodClosed(postingDate, today time.Time) bool {
	return !postingDate.After(c.HardCloseDate(today))
}

// Repository persists companies
type Repository interface {
	shared.Repository[Company]
	FindByName(ctx context.Context, name string) (*Company, error)
}

var _ shared.AggregateRoot = (*Company)(nil)
