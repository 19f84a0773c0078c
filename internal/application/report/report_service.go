package report

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ledgerly/backend/internal/domain/accounting"
	"github.com/ledgerly/backend/internal/domain/shared"
)

// Cache stores rendered reports. Keys are scoped per company so a
// posting invalidates exactly that tenant's reports.
type Cache interface {
	// Get returns the cached payload or shared.ErrNotFound.
	Get(ctx context.Context, companyID uuid.UUID, key string) ([]byte, error)
	Set(ctx context.Context, companyID uuid.UUID, key string, payload []byte, ttl time.Duration) error
	InvalidateCompany(ctx context.Context, companyID uuid.UUID) error
}

// cacheTTL bounds staleness for reports served between postings
const cacheTTL = 15 * time.Minute

// Row is one account line of a financial report.
type Row struct {
	AccountID uuid.UUID       `json:"account_id"`
	Number    string          `json:"number"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// TrialBalanceRow is one account line of the trial balance.
type TrialBalanceRow struct {
	AccountID uuid.UUID       `json:"account_id"`
	Number    string          `json:"number"`
	Name      string          `json:"name"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// TrialBalance lists every account with direct activity on its natural
// side. Total debits always equal total credits.
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
}

// IncomeStatement reports revenue against expenses over a period.
type IncomeStatement struct {
	Revenue      []Row           `json:"revenue"`
	Expenses     []Row           `json:"expenses"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	NetIncome    decimal.Decimal `json:"net_income"`
}

// BalanceSheet reports the financial position built from leaf activity
// accounts, with the period's net income folded into equity.
type BalanceSheet struct {
	Assets           []Row           `json:"assets"`
	Liabilities      []Row           `json:"liabilities"`
	Equity           []Row           `json:"equity"`
	RetainedEarnings decimal.Decimal `json:"retained_earnings"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalEquity      decimal.Decimal `json:"total_equity"`
}

// Balanced reports whether assets equal liabilities plus equity
func (b *BalanceSheet) Balanced() bool {
	return shared.WithinTolerance(b.TotalAssets, b.TotalLiabilities.Add(b.TotalEquity))
}

// LedgerRow is one journal line of an account's ledger with the running
// balance after it.
type LedgerRow struct {
	Date        time.Time       `json:"date"`
	EntryID     uuid.UUID       `json:"entry_id"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// GeneralLedger is one account's lines in date order. OpeningBalance is
// the account's balance at the start of the reported window.
type GeneralLedger struct {
	AccountID      uuid.UUID       `json:"account_id"`
	Number         string          `json:"number"`
	Name           string          `json:"name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Rows           []LedgerRow     `json:"rows"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// Service computes financial reports from journal lines and accounts.
type Service struct {
	accounts accounting.AccountRepository
	journal  accounting.JournalRepository
	cache    Cache
	logger   *zap.Logger
}

// NewService creates a reporting service. The cache may be nil, in which
// case every report is computed fresh.
func NewService(accounts accounting.AccountRepository, journal accounting.JournalRepository, cache Cache, logger *zap.Logger) *Service {
	return &Service{accounts: accounts, journal: journal, cache: cache, logger: logger}
}

// Invalidate drops every cached report of the company. Call after any
// posting for the tenant.
func (s *Service) Invalidate(ctx context.Context, companyID uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.InvalidateCompany(ctx, companyID)
}

// activityAccount pairs an account with its direct-line totals
type activityAccount struct {
	account *accounting.Account
	debit   decimal.Decimal
	credit  decimal.Decimal
}

// activityAccounts returns every account with direct journal lines in
// the range, with its totals, ordered by account number.
func (s *Service) activityAccounts(ctx context.Context, companyID uuid.UUID, r accounting.DateRange) ([]activityAccount, error) {
	totals, err := s.journal.ActivityTotals(ctx, companyID, r)
	if err != nil {
		return nil, err
	}

	rows := make([]activityAccount, 0, len(totals))
	for _, t := range totals {
		account, err := s.accounts.FindByIDForCompany(ctx, companyID, t.AccountID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, activityAccount{account: account, debit: t.Debit, credit: t.Credit})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].account.Number < rows[j].account.Number
	})
	return rows, nil
}

// TrialBalance lists the natural-side balance of every account with
// direct activity in the range.
func (s *Service) TrialBalance(ctx context.Context, companyID uuid.UUID, r accounting.DateRange) (*TrialBalance, error) {
	if cached, ok := s.fromCache(ctx, companyID, cacheKey("trial_balance", r), &TrialBalance{}); ok {
		return cached.(*TrialBalance), nil
	}

	activity, err := s.activityAccounts(ctx, companyID, r)
	if err != nil {
		return nil, err
	}

	result := &TrialBalance{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, a := range activity {
		row := TrialBalanceRow{
			AccountID: a.account.ID,
			Number:    a.account.Number,
			Name:      a.account.Name,
			Debit:     decimal.Zero,
			Credit:    decimal.Zero,
		}
		balance := shared.RoundMoney(a.account.Category().NetBalance(a.debit, a.credit))

		// Natural side for non-negative balances; negatives flip sides.
		debitSide := a.account.Category().IsDebitNatural()
		if balance.IsNegative() {
			debitSide = !debitSide
			balance = balance.Neg()
		}
		if debitSide {
			row.Debit = balance
		} else {
			row.Credit = balance
		}
		result.TotalDebit = result.TotalDebit.Add(row.Debit)
		result.TotalCredit = result.TotalCredit.Add(row.Credit)
		result.Rows = append(result.Rows, row)
	}

	s.toCache(ctx, companyID, cacheKey("trial_balance", r), result)
	return result, nil
}

// IncomeStatement reports revenue and expense activity over the period
func (s *Service) IncomeStatement(ctx context.Context, companyID uuid.UUID, r accounting.DateRange) (*IncomeStatement, error) {
	if cached, ok := s.fromCache(ctx, companyID, cacheKey("income_statement", r), &IncomeStatement{}); ok {
		return cached.(*IncomeStatement), nil
	}

	activity, err := s.activityAccounts(ctx, companyID, r)
	if err != nil {
		return nil, err
	}

	result := &IncomeStatement{
		TotalRevenue: decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, a := range activity {
		switch a.account.Category() {
		case accounting.CategoryRevenue:
			amount := shared.RoundMoney(a.credit.Sub(a.debit))
			result.Revenue = append(result.Revenue, Row{AccountID: a.account.ID, Number: a.account.Number, Name: a.account.Name, Amount: amount})
			result.TotalRevenue = result.TotalRevenue.Add(amount)
		case accounting.CategoryExpense:
			amount := shared.RoundMoney(a.debit.Sub(a.credit))
			result.Expenses = append(result.Expenses, Row{AccountID: a.account.ID, Number: a.account.Number, Name: a.account.Name, Amount: amount})
			result.TotalExpense = result.TotalExpense.Add(amount)
		}
	}
	result.NetIncome = result.TotalRevenue.Sub(result.TotalExpense)

	s.toCache(ctx, companyID, cacheKey("income_statement", r), result)
	return result, nil
}

// BalanceSheet reports the financial position. Only accounts with direct
// journal lines contribute; aggregating a parent together with its
// children would count activity twice.
func (s *Service) BalanceSheet(ctx context.Context, companyID uuid.UUID, r accounting.DateRange) (*BalanceSheet, error) {
	if cached, ok := s.fromCache(ctx, companyID, cacheKey("balance_sheet", r), &BalanceSheet{}); ok {
		return cached.(*BalanceSheet), nil
	}

	activity, err := s.activityAccounts(ctx, companyID, r)
	if err != nil {
		return nil, err
	}

	result := &BalanceSheet{
		RetainedEarnings: decimal.Zero,
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	for _, a := range activity {
		balance := shared.RoundMoney(a.account.Category().NetBalance(a.debit, a.credit))
		row := Row{AccountID: a.account.ID, Number: a.account.Number, Name: a.account.Name, Amount: balance}

		switch a.account.Category() {
		case accounting.CategoryAsset:
			result.Assets = append(result.Assets, row)
			result.TotalAssets = result.TotalAssets.Add(balance)
		case accounting.CategoryLiability:
			result.Liabilities = append(result.Liabilities, row)
			result.TotalLiabilities = result.TotalLiabilities.Add(balance)
		case accounting.CategoryEquity:
			result.Equity = append(result.Equity, row)
			result.TotalEquity = result.TotalEquity.Add(balance)
		case accounting.CategoryRevenue:
			result.RetainedEarnings = result.RetainedEarnings.Add(a.credit.Sub(a.debit))
		case accounting.CategoryExpense:
			result.RetainedEarnings = result.RetainedEarnings.Sub(a.debit.Sub(a.credit))
		}
	}
	result.RetainedEarnings = shared.RoundMoney(result.RetainedEarnings)
	result.TotalEquity = result.TotalEquity.Add(result.RetainedEarnings)

	s.toCache(ctx, companyID, cacheKey("balance_sheet", r), result)
	return result, nil
}

// GeneralLedger returns one account's lines in date order with running
// balances on the account's natural side. The opening balance is the
// account's position at the start of the window.
func (s *Service) GeneralLedger(ctx context.Context, companyID, accountID uuid.UUID, r accounting.DateRange) (*GeneralLedger, error) {
	account, err := s.accounts.FindByIDForCompany(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	opening := decimal.Zero
	if r.From != nil {
		before := *r.From
		priorDebit, priorCredit, err := s.journal.SumForAccounts(ctx, companyID, []uuid.UUID{accountID},
			accounting.DateRange{To: dayBefore(before)})
		if err != nil {
			return nil, err
		}
		opening = shared.RoundMoney(account.Category().NetBalance(priorDebit, priorCredit))
	}

	lines, err := s.journal.LinesForAccount(ctx, companyID, accountID, r)
	if err != nil {
		return nil, err
	}

	result := &GeneralLedger{
		AccountID:      account.ID,
		Number:         account.Number,
		Name:           account.Name,
		OpeningBalance: opening,
		ClosingBalance: opening,
	}
	running := opening
	debitNatural := account.Category().IsDebitNatural()
	for _, l := range lines {
		delta := l.Debit.Sub(l.Credit)
		if !debitNatural {
			delta = l.Credit.Sub(l.Debit)
		}
		running = shared.RoundMoney(running.Add(delta))

		description := l.LineDescription
		if description == "" {
			description = l.EntryDescription
		}
		result.Rows = append(result.Rows, LedgerRow{
			Date:        l.Date,
			EntryID:     l.EntryID,
			Description: description,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Balance:     running,
		})
	}
	result.ClosingBalance = running
	return result, nil
}

func (s *Service) fromCache(ctx context.Context, companyID uuid.UUID, key string, target interface{}) (interface{}, bool) {
	if s.cache == nil {
		return nil, false
	}
	payload, err := s.cache.Get(ctx, companyID, key)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal(payload, target); err != nil {
		s.logger.Warn("discarding unreadable cached report",
			zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return target, true
}

func (s *Service) toCache(ctx context.Context, companyID uuid.UUID, key string, report interface{}) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, companyID, key, payload, cacheTTL); err != nil {
		s.logger.Warn("report cache write failed",
			zap.String("key", key), zap.Error(err))
	}
}

func cacheKey(report string, r accounting.DateRange) string {
	const layout = "2006-01-02"
	from, to := "", ""
	if r.From != nil {
		from = r.From.Format(layout)
	}
	if r.To != nil {
		to = r.To.Format(layout)
	}
	return report + ":" + from + ":" + to
}

func dayBefore(t time.Time) *time.Time {
	d := t.AddDate(0, 0, -1)
	return &d
}
