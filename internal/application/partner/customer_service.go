package partner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ledgerly/backend/internal/application/validation"
	"github.com/ledgerly/backend/internal/domain/accounting"
	"github.com/ledgerly/backend/internal/domain/partner"
	"github.com/ledgerly/backend/internal/domain/shared"
)

// CustomerService manages the counter-party directory and the optional
// per-customer sub-ledger accounts beneath the AR/AP controls.
type CustomerService struct {
	customers partner.CustomerRepository
	accounts  accounting.AccountRepository
	uow       shared.UnitOfWork
	logger    *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customers partner.CustomerRepository,
	accounts accounting.AccountRepository,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customers: customers,
		accounts:  accounts,
		uow:       uow,
		logger:    logger,
	}
}

// CreateCustomerInput carries the fields for a new counter-party
type CreateCustomerInput struct {
	Name        string `validate:"required,max=200"`
	EntityType  partner.EntityType
	ContactName string `validate:"max=100"`
	Phone       string `validate:"max=50"`
	Email       string `validate:"omitempty,email,max=200"`
	Address     string
	TaxID       string `validate:"max=50"`
	CreditLimit decimal.Decimal
	Notes       string
	// SubLedger creates dedicated accounts beneath the AR/AP controls
	// for each role the counter-party holds.
	SubLedger bool
}

// Create registers a counter-party. Name, email and phone are each
// unique within the company when non-empty.
func (s *CustomerService) Create(ctx context.Context, companyID uuid.UUID, input CreateCustomerInput) (*partner.Customer, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	customer, err := partner.NewCustomer(companyID, input.Name, input.EntityType)
	if err != nil {
		return nil, err
	}
	if err := customer.SetContact(input.ContactName, input.Phone, input.Email); err != nil {
		return nil, err
	}
	if err := customer.SetCreditLimit(input.CreditLimit); err != nil {
		return nil, err
	}
	customer.Address = input.Address
	customer.TaxID = input.TaxID
	customer.Notes = input.Notes

	if err := s.checkUnique(ctx, customer); err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		if input.SubLedger {
			if err := s.syncSubLedger(ctx, customer); err != nil {
				return err
			}
		}
		return s.customers.Save(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("counter-party created",
		zap.String("company_id", companyID.String()),
		zap.String("customer_id", customer.ID.String()),
		zap.String("entity_type", string(customer.EntityType)))
	return customer, nil
}

// UpdateContact replaces the counter-party's contact details
func (s *CustomerService) UpdateContact(ctx context.Context, companyID, customerID uuid.UUID, contactName, phone, email string) (*partner.Customer, error) {
	customer, err := s.customers.FindByIDForCompany(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.SetContact(contactName, phone, email); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, customer); err != nil {
		return nil, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// SetCreditLimit caps the counter-party's open receivable
func (s *CustomerService) SetCreditLimit(ctx context.Context, companyID, customerID uuid.UUID, limit decimal.Decimal) (*partner.Customer, error) {
	customer, err := s.customers.FindByIDForCompany(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.SetCreditLimit(limit); err != nil {
		return nil, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// ChangeEntityType switches the counter-party's role. Gaining a role
// creates its sub-ledger account when the counter-party keeps one;
// dropping a role deletes that side's sub-ledger account, which the
// domain only permits at zero balance.
func (s *CustomerService) ChangeEntityType(ctx context.Context, companyID, customerID uuid.UUID, entityType partner.EntityType) (*partner.Customer, error) {
	var customer *partner.Customer
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		customer, err = s.customers.FindByIDForCompany(ctx, companyID, customerID)
		if err != nil {
			return err
		}

		hadSubLedger := customer.ReceivableAccountID != nil || customer.PayableAccountID != nil
		if err := customer.SetEntityType(entityType); err != nil {
			return err
		}

		if !entityType.CanSellTo() && customer.ReceivableAccountID != nil {
			if err := s.accounts.Delete(ctx, *customer.ReceivableAccountID); err != nil {
				return err
			}
			customer.DetachReceivableAccount()
		}
		if !entityType.CanBuyFrom() && customer.PayableAccountID != nil {
			if err := s.accounts.Delete(ctx, *customer.PayableAccountID); err != nil {
				return err
			}
			customer.DetachPayableAccount()
		}
		if hadSubLedger {
			if err := s.syncSubLedger(ctx, customer); err != nil {
				return err
			}
		}
		return s.customers.Save(ctx, customer)
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// Deactivate marks the counter-party inactive
func (s *CustomerService) Deactivate(ctx context.Context, companyID, customerID uuid.UUID) error {
	customer, err := s.customers.FindByIDForCompany(ctx, companyID, customerID)
	if err != nil {
		return err
	}
	if err := customer.Deactivate(); err != nil {
		return err
	}
	return s.customers.Save(ctx, customer)
}

// Get returns one counter-party
func (s *CustomerService) Get(ctx context.Context, companyID, customerID uuid.UUID) (*partner.Customer, error) {
	return s.customers.FindByIDForCompany(ctx, companyID, customerID)
}

// List returns the company's counter-parties
func (s *CustomerService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	return s.customers.FindAllForCompany(ctx, companyID, filter)
}

// checkUnique enforces per-company uniqueness of name, email and phone.
// Matches against the customer itself are fine; it is being updated.
func (s *CustomerService) checkUnique(ctx context.Context, customer *partner.Customer) error {
	existing, err := s.customers.FindByName(ctx, customer.CompanyID, customer.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if existing != nil && existing.ID != customer.ID {
		return shared.NewDomainError("DUPLICATE_NAME", "A counter-party with this name already exists")
	}

	if customer.Email != "" {
		existing, err = s.customers.FindByEmail(ctx, customer.CompanyID, customer.Email)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil && existing.ID != customer.ID {
			return shared.NewDomainError("DUPLICATE_EMAIL", "A counter-party with this email already exists")
		}
	}

	if customer.Phone != "" {
		existing, err = s.customers.FindByPhone(ctx, customer.CompanyID, customer.Phone)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil && existing.ID != customer.ID {
			return shared.NewDomainError("DUPLICATE_PHONE", "A counter-party with this phone already exists")
		}
	}
	return nil
}

// syncSubLedger makes sure each role the counter-party holds has its
// sub-ledger account.
func (s *CustomerService) syncSubLedger(ctx context.Context, customer *partner.Customer) error {
	if customer.EntityType.CanSellTo() && customer.ReceivableAccountID == nil {
		account, err := s.createSubAccount(ctx, customer, accounting.TagAR, "A/R")
		if err != nil {
			return err
		}
		customer.AttachReceivableAccount(account.ID)
	}
	if customer.EntityType.CanBuyFrom() && customer.PayableAccountID == nil {
		account, err := s.createSubAccount(ctx, customer, accounting.TagAP, "A/P")
		if err != nil {
			return err
		}
		customer.AttachPayableAccount(account.ID)
	}
	return nil
}

// createSubAccount adds a child account beneath the tagged control
// account, numbered control-NNN after the highest existing child.
func (s *CustomerService) createSubAccount(ctx context.Context, customer *partner.Customer, tag accounting.SystemTag, side string) (*accounting.Account, error) {
	control, err := s.accounts.FindBySystemTag(ctx, customer.CompanyID, tag)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrAccountMissing
		}
		return nil, err
	}

	children, err := s.accounts.FindChildren(ctx, customer.CompanyID, control.ID)
	if err != nil {
		return nil, err
	}
	next := 1
	for _, child := range children {
		var seq int
		if _, err := fmt.Sscanf(child.Number, control.Number+"-%d", &seq); err == nil && seq >= next {
			next = seq + 1
		}
	}

	number := fmt.Sprintf("%s-%03d", control.Number, next)
	account, err := accounting.NewAccount(customer.CompanyID, number, customer.Name+" "+side, control.AccountTypeID)
	if err != nil {
		return nil, err
	}
	account.SetParent(&control.ID)
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("sub-ledger account created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("number", number))
	return account, nil
}
