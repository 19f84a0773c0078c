package accounting

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ledgerly/backend/internal/application/validation"
	"github.com/ledgerly/backend/internal/domain/accounting"
	"github.com/ledgerly/backend/internal/domain/shared"
)

// ChartService manages the chart of accounts and derives balances.
type ChartService struct {
	accounts     accounting.AccountRepository
	accountTypes accounting.AccountTypeRepository
	journal      accounting.JournalRepository
	logger       *zap.Logger
}

// NewChartService creates a new ChartService
func NewChartService(
	accounts accounting.AccountRepository,
	accountTypes accounting.AccountTypeRepository,
	journal accounting.JournalRepository,
	logger *zap.Logger,
) *ChartService {
	return &ChartService{
		accounts:     accounts,
		accountTypes: accountTypes,
		journal:      journal,
		logger:       logger,
	}
}

// CreateAccountInput carries the fields for a new account
type CreateAccountInput struct {
	Number    string `validate:"required,max=20"`
	Name      string `validate:"required,max=255"`
	TypeName  string `validate:"required"`
	ParentID  *uuid.UUID
	SystemTag *accounting.SystemTag
	IsControl bool
}

// CreateAccount adds an account to the company's chart
func (s *ChartService) CreateAccount(ctx context.Context, companyID uuid.UUID, input CreateAccountInput) (*accounting.Account, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if existing, err := s.accounts.FindByNumber(ctx, companyID, input.Number); err == nil && existing != nil {
		return nil, shared.ErrDuplicateNumber
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if input.SystemTag != nil {
		if tagged, err := s.accounts.FindBySystemTag(ctx, companyID, *input.SystemTag); err == nil && tagged != nil {
			return nil, shared.ErrDuplicateTag
		} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	accountType, err := s.accountTypes.FindByName(ctx, input.TypeName)
	if err != nil {
		return nil, err
	}

	account, err := accounting.NewAccount(companyID, input.Number, input.Name, accountType.ID)
	if err != nil {
		return nil, err
	}
	account.IsControlAccount = input.IsControl
	if input.SystemTag != nil {
		account.SetSystemTag(*input.SystemTag)
	}

	if input.ParentID != nil {
		if err := s.validateParent(ctx, companyID, account.ID, *input.ParentID); err != nil {
			return nil, err
		}
		account.SetParent(input.ParentID)
	}

	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("account created",
		zap.String("company_id", companyID.String()),
		zap.String("number", account.Number),
		zap.String("name", account.Name))
	return account, nil
}

// validateParent rejects cross-company parents and parent cycles
func (s *ChartService) validateParent(ctx context.Context, companyID, accountID, parentID uuid.UUID) error {
	seen := map[uuid.UUID]bool{accountID: true}
	current := parentID
	for {
		if seen[current] {
			return shared.NewDomainError("INVALID_PARENT", "Account parent chain forms a cycle")
		}
		seen[current] = true

		parent, err := s.accounts.FindByIDForCompany(ctx, companyID, current)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_PARENT", "Parent account does not belong to this company")
			}
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
}

// DeactivateAccount hides an account from new postings
func (s *ChartService) DeactivateAccount(ctx context.Context, companyID, accountID uuid.UUID) error {
	account, err := s.accounts.FindByIDForCompany(ctx, companyID, accountID)
	if err != nil {
		return err
	}
	account.Deactivate()
	return s.accounts.Save(ctx, account)
}

// Descendants returns the subtree rooted at the account, excluding it
func (s *ChartService) Descendants(ctx context.Context, companyID, accountID uuid.UUID) ([]accounting.Account, error) {
	var result []accounting.Account
	queue := []uuid.UUID{accountID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := s.accounts.FindChildren(ctx, companyID, current)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			result = append(result, child)
			queue = append(queue, child.ID)
		}
	}
	return result, nil
}

// GetBalance computes the account's balance including all descendants,
// interpreted on the category's natural side and rounded to two places.
func (s *ChartService) GetBalance(ctx context.Context, companyID, accountID uuid.UUID, asOf *time.Time) (decimal.Decimal, error) {
	account, err := s.accounts.FindByIDForCompany(ctx, companyID, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	descendants, err := s.Descendants(ctx, companyID, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	ids := make([]uuid.UUID, 0, len(descendants)+1)
	ids = append(ids, accountID)
	for _, a := range descendants {
		ids = append(ids, a.ID)
	}

	sumDebit, sumCredit, err := s.journal.SumForAccounts(ctx, companyID, ids, accounting.DateRange{To: asOf})
	if err != nil {
		return decimal.Zero, err
	}
	return shared.RoundMoney(account.Category().NetBalance(sumDebit, sumCredit)), nil
}

// SeedChart installs the canonical account types and chart for a new
// company. Accounts that already exist are left untouched.
func (s *ChartService) SeedChart(ctx context.Context, companyID uuid.UUID) error {
	typeIDs := make(map[string]uuid.UUID)
	for _, st := range accounting.CanonicalAccountTypes() {
		existing, err := s.accountTypes.FindByName(ctx, st.Name)
		if err == nil {
			typeIDs[st.Name] = existing.ID
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		accountType, err := accounting.NewAccountType(st.Name, st.Category)
		if err != nil {
			return err
		}
		if err := s.accountTypes.Save(ctx, accountType); err != nil {
			return err
		}
		typeIDs[st.Name] = accountType.ID
	}

	byNumber := make(map[string]uuid.UUID)
	for _, sa := range accounting.CanonicalChart() {
		if existing, err := s.accounts.FindByNumber(ctx, companyID, sa.Number); err == nil {
			byNumber[sa.Number] = existing.ID
			continue
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		account, err := accounting.NewAccount(companyID, sa.Number, sa.Name, typeIDs[sa.TypeName])
		if err != nil {
			return err
		}
		account.IsControlAccount = sa.IsControl
		if sa.SystemTag != nil {
			account.SetSystemTag(*sa.SystemTag)
		}
		if sa.ParentNumber != "" {
			parentID, ok := byNumber[sa.ParentNumber]
			if !ok {
				return shared.NewDomainError("INVALID_PARENT", "Seed parent "+sa.ParentNumber+" missing")
			}
			account.SetParent(&parentID)
		}
		if err := s.accounts.Save(ctx, account); err != nil {
			return err
		}
		byNumber[sa.Number] = account.ID
	}

	s.logger.Info("chart of accounts seeded", zap.String("company_id", companyID.String()))
	return nil
}
