package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// EntityType marks which side of the books a counter-party sits on.
type EntityType string

const (
	EntityCustomer EntityType = "customer"
	EntityVendor   EntityType = "vendor"
	EntityBoth     EntityType = "both"
)

// IsValid checks whether the entity type is one of the known types
func (t EntityType) IsValid() bool {
	return t == EntityCustomer || t == EntityVendor || t == EntityBoth
}

// CanSellTo reports whether sales and payment receipts against this
// counter-party are allowed.
func (t EntityType) CanSellTo() bool {
	return t == EntityCustomer || t == EntityBoth
}

// CanBuyFrom reports whether purchases and expenses against this
// counter-party are allowed.
func (t EntityType) CanBuyFrom() bool {
	return t == EntityVendor || t == EntityBoth
}

// CustomerStatus represents the status of a counter-party
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// Customer is a counter-party: a customer, a vendor, or both. Receivable
// and payable balances are cached here and maintained inside the same
// transaction that posts the business event.
type Customer struct {
	shared.TenantAggregateRoot
	Name              string          `gorm:"size:200;not null;uniqueIndex:idx_customers_company_name,priority:2"`
	EntityType        EntityType      `gorm:"size:20;not null;default:'customer'"`
	Status            CustomerStatus  `gorm:"size:20;not null;default:'active'"`
	ContactName       string          `gorm:"size:100"`
	Phone             string          `gorm:"size:50;index"`
	Email             string          `gorm:"size:200;index"`
	Address           string          `gorm:"type:text"`
	TaxID             string          `gorm:"size:50"`
	CreditLimit       decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	ReceivableBalance decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	PayableBalance    decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	// Optional sub-ledger accounts beneath the company's AR/AP controls.
	ReceivableAccountID *uuid.UUID `gorm:"type:uuid"`
	PayableAccountID    *uuid.UUID `gorm:"type:uuid"`
	Notes               string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new counter-party with required fields
func NewCustomer(companyID uuid.UUID, name string, entityType EntityType) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if !entityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Entity type must be customer, vendor or both")
	}

	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		Name:                strings.TrimSpace(name),
		EntityType:          entityType,
		Status:              CustomerStatusActive,
		CreditLimit:         decimal.Zero,
		ReceivableBalance:   decimal.Zero,
		PayableBalance:      decimal.Zero,
	}, nil
}

// SetContact sets the contact information
func (c *Customer) SetContact(contactName, phone, email string) error {
	if email != "" && !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	c.ContactName = strings.TrimSpace(contactName)
	c.Phone = strings.TrimSpace(phone)
	c.Email = strings.ToLower(strings.TrimSpace(email))
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetEntityType changes the counter-party's role. Dropping a side is only
// allowed once that side's balance is zero.
func (c *Customer) SetEntityType(entityType EntityType) error {
	if !entityType.IsValid() {
		return shared.NewDomainError("INVALID_ENTITY_TYPE", "Entity type must be customer, vendor or both")
	}
	if !entityType.CanSellTo() && !c.ReceivableBalance.IsZero() {
		return shared.NewDomainError("OPEN_RECEIVABLE", "Cannot remove the customer role while receivables are outstanding")
	}
	if !entityType.CanBuyFrom() && !c.PayableBalance.IsZero() {
		return shared.NewDomainError("OPEN_PAYABLE", "Cannot remove the vendor role while payables are outstanding")
	}

	c.EntityType = entityType
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetCreditLimit sets the maximum open receivable allowed
func (c *Customer) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}

	c.CreditLimit = limit
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetBalances overwrites both cached balances. Used by posting code and
// by the drift-guard recompute.
func (c *Customer) SetBalances(receivable, payable decimal.Decimal) {
	c.ReceivableBalance = shared.RoundMoney(receivable)
	c.PayableBalance = shared.RoundMoney(payable)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// AttachReceivableAccount records a dedicated A/R sub-ledger account
func (c *Customer) AttachReceivableAccount(accountID uuid.UUID) {
	c.ReceivableAccountID = &accountID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// AttachPayableAccount records a dedicated A/P sub-ledger account
func (c *Customer) AttachPayableAccount(accountID uuid.UUID) {
	c.PayableAccountID = &accountID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// DetachReceivableAccount drops the A/R sub-ledger link
func (c *Customer) DetachReceivableAccount() {
	c.ReceivableAccountID = nil
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// DetachPayableAccount drops the A/P sub-ledger link
func (c *Customer) DetachPayableAccount() {
	c.PayableAccountID = nil
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Deactivate marks the counter-party inactive
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Counter-party is already inactive")
	}

	c.Status = CustomerStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IsActive checks if the counter-party is active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validateCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}
