package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/accounting"
	"github.com/ledgerly/backend/internal/domain/shared"
	"github.com/ledgerly/backend/internal/domain/tenant"
)

// In-memory fakes. Only the methods the services under test reach are
// implemented; the embedded interface panics on anything else.

type fakeCompanyRepo struct {
	tenant.Repository
	companies map[uuid.UUID]*tenant.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: make(map[uuid.UUID]*tenant.Company)}
}

func (r *fakeCompanyRepo) FindByID(_ context.Context, id uuid.UUID) (*tenant.Company, error) {
	if c, ok := r.companies[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCompanyRepo) Save(_ context.Context, c *tenant.Company) error {
	r.companies[c.ID] = c
	return nil
}

type fakeAccountTypeRepo struct {
	accounting.AccountTypeRepository
	types map[string]*accounting.AccountType
}

func newFakeAccountTypeRepo() *fakeAccountTypeRepo {
	return &fakeAccountTypeRepo{types: make(map[string]*accounting.AccountType)}
}

func (r *fakeAccountTypeRepo) FindByName(_ context.Context, name string) (*accounting.AccountType, error) {
	if t, ok := r.types[name]; ok {
		return t, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAccountTypeRepo) Save(_ context.Context, t *accounting.AccountType) error {
	r.types[t.Name] = t
	return nil
}

type fakeAccountRepo struct {
	accounting.AccountRepository
	accounts  map[uuid.UUID]*accounting.Account
	typesByID map[uuid.UUID]*accounting.AccountType
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		accounts:  make(map[uuid.UUID]*accounting.Account),
		typesByID: make(map[uuid.UUID]*accounting.AccountType),
	}
}

func (r *fakeAccountRepo) attachType(a *accounting.Account) *accounting.Account {
	if t, ok := r.typesByID[a.AccountTypeID]; ok {
		a.AccountType = t
	}
	return a
}

func (r *fakeAccountRepo) FindByIDForCompany(_ context.Context, companyID, id uuid.UUID) (*accounting.Account, error) {
	if a, ok := r.accounts[id]; ok && a.CompanyID == companyID {
		return r.attachType(a), nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAccountRepo) FindByNumber(_ context.Context, companyID uuid.UUID, number string) (*accounting.Account, error) {
	for _, a := range r.accounts {
		if a.CompanyID == companyID && a.Number == number {
			return r.attachType(a), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAccountRepo) FindBySystemTag(_ context.Context, companyID uuid.UUID, tag accounting.SystemTag) (*accounting.Account, error) {
	for _, a := range r.accounts {
		if a.CompanyID == companyID && a.SystemTag != nil && *a.SystemTag == tag {
			return r.attachType(a), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAccountRepo) FindChildren(_ context.Context, companyID, parentID uuid.UUID) ([]accounting.Account, error) {
	var children []accounting.Account
	for _, a := range r.accounts {
		if a.CompanyID == companyID && a.ParentID != nil && *a.ParentID == parentID {
			children = append(children, *r.attachType(a))
		}
	}
	return children, nil
}

func (r *fakeAccountRepo) Save(_ context.Context, a *accounting.Account) error {
	r.accounts[a.ID] = a
	return nil
}

type fakeJournalRepo struct {
	accounting.JournalRepository
	entries map[uuid.UUID]*accounting.JournalEntry
}

func newFakeJournalRepo() *fakeJournalRepo {
	return &fakeJournalRepo{entries: make(map[uuid.UUID]*accounting.JournalEntry)}
}

func (r *fakeJournalRepo) Save(_ context.Context, e *accounting.JournalEntry) error {
	r.entries[e.ID] = e
	return nil
}

func (r *fakeJournalRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.entries, id)
	return nil
}

func (r *fakeJournalRepo) FindByIDForCompany(_ context.Context, companyID, id uuid.UUID) (*accounting.JournalEntry, error) {
	if e, ok := r.entries[id]; ok && e.CompanyID == companyID {
		return e, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeJournalRepo) inRange(e *accounting.JournalEntry, dr accounting.DateRange) bool {
	if dr.From != nil && e.Date.Before(*dr.From) {
		return false
	}
	if dr.To != nil && e.Date.After(*dr.To) {
		return false
	}
	return true
}

func (r *fakeJournalRepo) SumForAccounts(_ context.Context, companyID uuid.UUID, accountIDs []uuid.UUID, dr accounting.DateRange) (decimal.Decimal, decimal.Decimal, error) {
	ids := make(map[uuid.UUID]bool, len(accountIDs))
	for _, id := range accountIDs {
		ids[id] = true
	}
	debit, credit := decimal.Zero, decimal.Zero
	for _, e := range r.entries {
		if e.CompanyID != companyID || !r.inRange(e, dr) {
			continue
		}
		for _, l := range e.Lines {
			if ids[l.AccountID] {
				debit = debit.Add(l.Debit)
				credit = credit.Add(l.Credit)
			}
		}
	}
	return debit, credit, nil
}

func (r *fakeJournalRepo) ActivityTotals(_ context.Context, companyID uuid.UUID, dr accounting.DateRange) ([]accounting.AccountActivity, error) {
	totals := make(map[uuid.UUID]*accounting.AccountActivity)
	for _, e := range r.entries {
		if e.CompanyID != companyID || !r.inRange(e, dr) {
			continue
		}
		for _, l := range e.Lines {
			t, ok := totals[l.AccountID]
			if !ok {
				t = &accounting.AccountActivity{AccountID: l.AccountID, Debit: decimal.Zero, Credit: decimal.Zero}
				totals[l.AccountID] = t
			}
			t.Debit = t.Debit.Add(l.Debit)
			t.Credit = t.Credit.Add(l.Credit)
		}
	}
	result := make([]accounting.AccountActivity, 0, len(totals))
	for _, t := range totals {
		result = append(result, *t)
	}
	return result, nil
}

func (r *fakeJournalRepo) LinesForAccount(_ context.Context, companyID, accountID uuid.UUID, dr accounting.DateRange) ([]accounting.LedgerLine, error) {
	var lines []accounting.LedgerLine
	for _, e := range r.entries {
		if e.CompanyID != companyID || !r.inRange(e, dr) {
			continue
		}
		for _, l := range e.Lines {
			if l.AccountID != accountID {
				continue
			}
			lines = append(lines, accounting.LedgerLine{
				EntryID:          e.ID,
				Date:             e.Date,
				EntryDescription: e.Description,
				LineDescription:  l.Description,
				AccountID:        l.AccountID,
				Debit:            l.Debit,
				Credit:           l.Credit,
			})
		}
	}
	// Date ascending, matching the repository contract.
	for i := 0; i < len(lines); i++ {
		for j := i + 1; j < len(lines); j++ {
			if lines[j].Date.Before(lines[i].Date) {
				lines[i], lines[j] = lines[j], lines[i]
			}
		}
	}
	return lines, nil
}

// fakeUnitOfWork runs the function directly; fakes are already "atomic".
type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func fixedClock(t time.Time) shared.Clock {
	return func() time.Time { return t }
}

// seedTestChart installs the canonical chart and returns accounts by number
func seedTestChart(ctx context.Context, svc *ChartService, accounts *fakeAccountRepo, types *fakeAccountTypeRepo, companyID uuid.UUID) (map[string]*accounting.Account, error) {
	if err := svc.SeedChart(ctx, companyID); err != nil {
		return nil, err
	}
	for _, t := range types.types {
		accounts.typesByID[t.ID] = t
	}
	byNumber := make(map[string]*accounting.Account)
	for _, a := range accounts.accounts {
		byNumber[a.Number] = a
	}
	return byNumber, nil
}
