package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appaccounting "github.com/ledgerly/backend/internal/application/accounting"
	appinventory "github.com/ledgerly/backend/internal/application/inventory"
	"github.com/ledgerly/backend/internal/application/validation"
	"github.com/ledgerly/backend/internal/domain/accounting"
	"github.com/ledgerly/backend/internal/domain/inventory"
	"github.com/ledgerly/backend/internal/domain/partner"
	"github.com/ledgerly/backend/internal/domain/shared"
	"github.com/ledgerly/backend/internal/domain/trade"
)

// fallbackRevenueNumber is the tenant revenue account credited when an
// item carries no income account of its own.
const fallbackRevenueNumber = "4000"

// PostingService turns business transactions into balanced journal
// entries, keeping counter-party balances, inventory quantities and cost
// layers in sync. Each post is one atomic unit of work.
type PostingService struct {
	transactions trade.TransactionRepository
	categories   trade.CategoryRepository
	customers    partner.CustomerRepository
	items        inventory.ItemRepository
	accounts     accounting.AccountRepository
	journal      accounting.JournalRepository
	stock        *appinventory.StockService
	guard        *appaccounting.PeriodGuard
	uow          shared.UnitOfWork
	logger       *zap.Logger
}

// NewPostingService creates a new PostingService
func NewPostingService(
	transactions trade.TransactionRepository,
	categories trade.CategoryRepository,
	customers partner.CustomerRepository,
	items inventory.ItemRepository,
	accounts accounting.AccountRepository,
	journal accounting.JournalRepository,
	stock *appinventory.StockService,
	guard *appaccounting.PeriodGuard,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *PostingService {
	return &PostingService{
		transactions: transactions,
		categories:   categories,
		customers:    customers,
		items:        items,
		accounts:     accounts,
		journal:      journal,
		stock:        stock,
		guard:        guard,
		uow:          uow,
		logger:       logger,
	}
}

// ItemLineInput is one inventory line of a sale or purchase
type ItemLineInput struct {
	ItemID      uuid.UUID
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	BatchNumber string
	Description string
}

// ExpenseLineInput is one account split
type ExpenseLineInput struct {
	AccountID   uuid.UUID
	Amount      decimal.Decimal
	Description string
}

// CreateTransactionInput carries everything needed to record and post a
// business transaction.
type CreateTransactionInput struct {
	Type         trade.TransactionType
	Date         time.Time
	DueDate      *time.Time
	CustomerID   *uuid.UUID
	CategoryID   *uuid.UUID
	Description  string `validate:"max=500"`
	Reference    string `validate:"max=100"`
	ManualTotal  decimal.Decimal
	AmountPaid   decimal.Decimal
	Items        []ItemLineInput
	ExpenseLines []ExpenseLineInput
}

// Create records a transaction and posts it in one atomic operation. On
// any failure nothing persists: no journal entry, no stock movement, no
// balance change.
func (s *PostingService) Create(ctx context.Context, companyID uuid.UUID, actor appaccounting.Actor, input CreateTransactionInput) (*trade.Transaction, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	txn, err := trade.NewTransaction(companyID, input.Type, input.Date, input.Description)
	if err != nil {
		return nil, err
	}
	txn.DueDate = input.DueDate
	txn.CustomerID = input.CustomerID
	txn.CategoryID = input.CategoryID
	txn.Reference = input.Reference
	txn.SetCreatedBy(actor.UserID)

	for _, line := range input.Items {
		if err := txn.AddItem(line.ItemID, line.Quantity, line.UnitPrice, nil, line.Description); err != nil {
			return nil, err
		}
	}
	for _, line := range input.ExpenseLines {
		if err := txn.AddExpenseLine(line.AccountID, line.Amount, line.Description); err != nil {
			return nil, err
		}
	}
	if len(txn.Items) == 0 && len(txn.ExpenseLines) == 0 && input.ManualTotal.IsPositive() {
		if err := txn.SetManualTotal(input.ManualTotal); err != nil {
			return nil, err
		}
	}
	if input.AmountPaid.IsPositive() {
		if err := txn.RecordPayment(input.AmountPaid); err != nil {
			return nil, err
		}
	}

	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		return s.post(ctx, txn, actor, input.Items, true)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transaction posted",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("type", string(txn.Type)),
		zap.String("total", txn.TotalAmount.String()))
	return txn, nil
}

// Repost re-derives the journal entry of an edited transaction: the
// previously linked entry is deleted and a fresh one emitted. Stock
// movements recorded at creation stand; the cost of goods carried by the
// prior entry carries over.
func (s *PostingService) Repost(ctx context.Context, companyID uuid.UUID, actor appaccounting.Actor, transactionID uuid.UUID) (*trade.Transaction, error) {
	txn, err := s.transactions.FindByIDForCompany(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		return s.post(ctx, txn, actor, nil, false)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transaction re-posted",
		zap.String("transaction_id", txn.ID.String()))
	return txn, nil
}

// post runs preflight, re-derives the journal entry and refreshes the
// counter-party balance cache. Must run inside a unit of work.
func (s *PostingService) post(ctx context.Context, txn *trade.Transaction, actor appaccounting.Actor, stockLines []ItemLineInput, moveStock bool) error {
	if err := s.guard.Check(ctx, txn.CompanyID, txn.Date, actor); err != nil {
		return err
	}
	if !txn.HasLines() {
		return shared.NewDomainError("EMPTY_TRANSACTION", "Transaction has no lines and no total")
	}

	customer, err := s.checkCounterparty(ctx, txn)
	if err != nil {
		return err
	}
	category, err := s.checkCategory(ctx, txn)
	if err != nil {
		return err
	}

	// Idempotent re-post: drop the previously derived entry.
	priorCOGS := decimal.Zero
	if txn.JournalEntryID != nil {
		prior, err := s.journal.FindByIDForCompany(ctx, txn.CompanyID, *txn.JournalEntryID)
		if err == nil {
			priorCOGS, _ = s.cogsOfEntry(ctx, txn.CompanyID, prior)
			if err := s.journal.Delete(ctx, prior.ID); err != nil {
				return err
			}
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		txn.UnlinkJournalEntry()
	}

	var lines []accounting.LineInput
	switch txn.Type {
	case trade.TypeSale:
		lines, err = s.saleLines(ctx, txn, customer, category, stockLines, moveStock, priorCOGS)
	case trade.TypePurchase:
		lines, err = s.purchaseLines(ctx, txn, customer, stockLines, moveStock)
	case trade.TypeExpense:
		lines, err = s.expenseLines(ctx, txn, category, stockLines, moveStock)
	case trade.TypePayment:
		lines, err = s.paymentLines(ctx, txn)
	default:
		err = shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Unknown transaction type")
	}
	if err != nil {
		return err
	}

	entry, err := accounting.NewJournalEntry(txn.CompanyID, txn.Date, txn.Description, lines)
	if err != nil {
		return err
	}
	entry.SetCreatedBy(actor.UserID)
	if err := s.journal.Save(ctx, entry); err != nil {
		return err
	}
	txn.LinkJournalEntry(entry.ID)

	if err := s.transactions.Save(ctx, txn); err != nil {
		return err
	}

	if customer != nil {
		if err := s.refreshBalances(ctx, customer); err != nil {
			return err
		}
	}
	return nil
}

// checkCounterparty loads and validates the counter-party when one is
// required or referenced.
func (s *PostingService) checkCounterparty(ctx context.Context, txn *trade.Transaction) (*partner.Customer, error) {
	if txn.CustomerID == nil {
		if txn.Type == trade.TypeSale || txn.Type == trade.TypePayment {
			return nil, shared.NewDomainError("MISSING_COUNTERPARTY", "Sales and payments need a counter-party")
		}
		return nil, nil
	}
	customer, err := s.customers.FindByIDForCompany(ctx, txn.CompanyID, *txn.CustomerID)
	if err != nil {
		return nil, err
	}
	if txn.Type.NeedsCustomerRole() && !customer.EntityType.CanSellTo() {
		return nil, shared.ErrIncompatibleCounterparty
	}
	if txn.Type.NeedsVendorRole() && !customer.EntityType.CanBuyFrom() {
		return nil, shared.ErrIncompatibleCounterparty
	}
	return customer, nil
}

// checkCategory validates the category against the transaction type
func (s *PostingService) checkCategory(ctx context.Context, txn *trade.Transaction) (*trade.Category, error) {
	if txn.CategoryID == nil {
		return nil, nil
	}
	category, err := s.categories.FindByIDForCompany(ctx, txn.CompanyID, *txn.CategoryID)
	if err != nil {
		return nil, err
	}
	if !category.Allows(txn.Type) {
		return nil, shared.ErrIncompatibleCategory
	}
	return category, nil
}

// saleLines emits the SALE recipe: cash and receivable debits against
// per-line revenue credits, plus the cost-of-goods pair when product
// lines consumed stock.
func (s *PostingService) saleLines(ctx context.Context, txn *trade.Transaction, customer *partner.Customer, category *trade.Category, stockLines []ItemLineInput, moveStock bool, priorCOGS decimal.Decimal) ([]accounting.LineInput, error) {
	var lines []accounting.LineInput

	if txn.AmountPaid.IsPositive() {
		cash, err := s.systemAccount(ctx, txn.CompanyID, accounting.TagCash)
		if err != nil {
			return nil, err
		}
		lines = append(lines, accounting.LineInput{AccountID: cash.ID, Debit: txn.AmountPaid, Description: "Cash received"})
	}
	if due := txn.BalanceDue(); due.IsPositive() {
		receivable, err := s.receivableAccount(ctx, txn.CompanyID, customer)
		if err != nil {
			return nil, err
		}
		lines = append(lines, accounting.LineInput{AccountID: receivable.ID, Debit: due, Description: "Amount receivable from " + customer.Name})
	}

	if len(txn.Items) > 0 {
		batchNumbers := batchNumbersByItem(stockLines)
		totalCOGS := priorCOGS
		for _, line := range txn.Items {
			item, err := s.items.FindByIDForCompany(ctx, txn.CompanyID, line.ItemID)
			if err != nil {
				return nil, err
			}
			revenue, err := s.incomeAccount(ctx, txn.CompanyID, item)
			if err != nil {
				return nil, err
			}
			lines = append(lines, accounting.LineInput{AccountID: revenue.ID, Credit: line.Amount(), Description: "Sale of " + item.Name})

			if moveStock && item.Type.IsProduct() {
				movement, err := s.stock.RecordOutflow(ctx, txn.CompanyID, appinventory.OutflowInput{
					ItemID:      item.ID,
					Type:        inventory.MovementSale,
					Date:        txn.Date,
					Quantity:    line.Quantity,
					BatchNumber: batchNumbers[item.ID],
					Notes:       txn.Reference,
				})
				if err != nil {
					return nil, err
				}
				totalCOGS = totalCOGS.Add(movement.TotalCost)
			}
		}

		if totalCOGS.IsPositive() {
			cogs, err := s.systemAccount(ctx, txn.CompanyID, accounting.TagCOGS)
			if err != nil {
				return nil, err
			}
			inventoryAsset, err := s.systemAccount(ctx, txn.CompanyID, accounting.TagInventoryAsset)
			if err != nil {
				return nil, err
			}
			lines = append(lines,
				accounting.LineInput{AccountID: cogs.ID, Debit: totalCOGS, Description: "Cost of goods sold"},
				accounting.LineInput{AccountID: inventoryAsset.ID, Credit: totalCOGS, Description: "Inventory consumed"},
			)
		}
		return lines, nil
	}

	// Simple-total path: credit the category's default account.
	revenue, err := s.categoryDefaultAccount(ctx, txn.CompanyID, category)
	if err != nil {
		return nil, err
	}
	lines = append(lines, accounting.LineInput{AccountID: revenue.ID, Credit: txn.TotalAmount, Description: txn.Description})
	return lines, nil
}

// purchaseLines emits the PURCHASE recipe: per-line asset or expense
// debits against cash and payable credits, recording the stock inflows.
func (s *PostingService) purchaseLines(ctx context.Context, txn *trade.Transaction, customer *partner.Customer, stockLines []ItemLineInput, moveStock bool) ([]accounting.LineInput, error) {
	var lines []accounting.LineInput

	if len(txn.Items) > 0 {
		batchNumbers := batchNumbersByItem(stockLines)
		for _, line := range txn.Items {
			item, err := s.items.FindByIDForCompany(ctx, txn.CompanyID, line.ItemID)
			if err != nil {
				return nil, err
			}
			if item.Type.IsProduct() {
				asset, err := s.assetAccount(ctx, txn.CompanyID, item)
				if err != nil {
					return nil, err
				}
				lines = append(lines, accounting.LineInput{AccountID: asset.ID, Debit: line.Amount(), Description: "Purchase of " + item.Name})
				if moveStock {
					_, err := s.stock.RecordInflow(ctx, txn.CompanyID, appinventory.InflowInput{
						ItemID:      item.ID,
						Reason:      appinventory.ReasonPurchase,
						Date:        txn.Date,
						Quantity:    line.Quantity,
						UnitCost:    line.UnitPrice,
						BatchNumber: batchNumbers[item.ID],
						Notes:       txn.Reference,
					})
					if err != nil {
						return nil, err
					}
				}
			} else {
				if item.ExpenseAccountID == nil {
					return nil, shared.ErrAccountMissing
				}
				lines = append(lines, accounting.LineInput{AccountID: *item.ExpenseAccountID, Debit: line.Amount(), Description: item.Name})
			}
		}
	} else {
		for _, split := range txn.ExpenseLines {
			lines = append(lines, accounting.LineInput{AccountID: split.AccountID, Debit: split.Amount, Description: split.Description})
		}
	}

	if txn.AmountPaid.IsPositive() {
		cash, err := s.systemAccount(ctx, txn.CompanyID, accounting.TagCash)
		if err != nil {
			return nil, err
		}
		lines = append(lines, accounting.LineInput{AccountID: cash.ID, Credit: txn.AmountPaid, Description: "Cash paid"})
	}
	if due := txn.BalanceDue(); due.IsPositive() {
		payable, err := s.payableAccount(ctx, txn.CompanyID, customer)
		if err != nil {
			return nil, err
		}
		description := "Amount payable"
		if customer != nil {
			description = "Amount payable to " + customer.Name
		}
		lines = append(lines, accounting.LineInput{AccountID: payable.ID, Credit: due, Description: description})
	}
	return lines, nil
}

// expenseLines emits the EXPENSE recipe: expense debits against a cash
// credit for the full amount.
func (s *PostingService) expenseLines(ctx context.Context, txn *trade.Transaction, category *trade.Category, stockLines []ItemLineInput, moveStock bool) ([]accounting.LineInput, error) {
	var lines []accounting.LineInput

	switch {
	case len(txn.Items) > 0:
		batchNumbers := batchNumbersByItem(stockLines)
		for _, line := range txn.Items {
			item, err := s.items.FindByIDForCompany(ctx, txn.CompanyID, line.ItemID)
			if err != nil {
				return nil, err
			}
			if item.ExpenseAccountID == nil {
				return nil, shared.ErrAccountMissing
			}
			lines = append(lines, accounting.LineInput{AccountID: *item.ExpenseAccountID, Debit: line.Amount(), Description: item.Name})

			if moveStock && item.Type.IsProduct() {
				_, err := s.stock.RecordOutflow(ctx, txn.CompanyID, appinventory.OutflowInput{
					ItemID:      item.ID,
					Type:        inventory.MovementAdjustmentOut,
					Date:        txn.Date,
					Quantity:    line.Quantity,
					BatchNumber: batchNumbers[item.ID],
					Notes:       txn.Reference,
				})
				if err != nil {
					return nil, err
				}
			}
		}
	case len(txn.ExpenseLines) > 0:
		for _, split := range txn.ExpenseLines {
			lines = append(lines, accounting.LineInput{AccountID: split.AccountID, Debit: split.Amount, Description: split.Description})
		}
	default:
		expense, err := s.categoryDefaultAccount(ctx, txn.CompanyID, category)
		if err != nil {
			return nil, err
		}
		lines = append(lines, accounting.LineInput{AccountID: expense.ID, Debit: txn.TotalAmount, Description: txn.Description})
	}

	cash, err := s.systemAccount(ctx, txn.CompanyID, accounting.TagCash)
	if err != nil {
		return nil, err
	}
	lines = append(lines, accounting.LineInput{AccountID: cash.ID, Credit: txn.TotalAmount, Description: "Cash paid"})
	return lines, nil
}

// paymentLines emits the PAYMENT recipe. The credit always lands on the
// receivable control account; settlement of a specific invoice happens
// through ApplyPayment.
func (s *PostingService) paymentLines(ctx context.Context, txn *trade.Transaction) ([]accounting.LineInput, error) {
	cash, err := s.systemAccount(ctx, txn.CompanyID, accounting.TagCash)
	if err != nil {
		return nil, err
	}
	receivable, err := s.systemAccount(ctx, txn.CompanyID, accounting.TagAR)
	if err != nil {
		return nil, err
	}
	return []accounting.LineInput{
		{AccountID: cash.ID, Debit: txn.TotalAmount, Description: "Payment received"},
		{AccountID: receivable.ID, Credit: txn.TotalAmount, Description: "Applied to receivables"},
	}, nil
}

// ApplyPayment settles part of an open transaction: amount_paid grows
// and the corresponding cash entry posts.
func (s *PostingService) ApplyPayment(ctx context.Context, companyID uuid.UUID, actor appaccounting.Actor, transactionID uuid.UUID, date time.Time, amount decimal.Decimal) (*trade.Transaction, error) {
	if err := s.guard.Check(ctx, companyID, date, actor); err != nil {
		return nil, err
	}
	txn, err := s.transactions.FindByIDForCompany(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := txn.RecordPayment(amount); err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		lines, err := s.settlementLines(ctx, txn, amount)
		if err != nil {
			return err
		}
		entry, err := accounting.NewJournalEntry(companyID, date, "Payment on "+string(txn.Type)+" "+txn.Reference, lines)
		if err != nil {
			return err
		}
		entry.SetCreatedBy(actor.UserID)
		if err := s.journal.Save(ctx, entry); err != nil {
			return err
		}
		if err := s.transactions.Save(ctx, txn); err != nil {
			return err
		}
		if txn.CustomerID != nil {
			customer, err := s.customers.FindByIDForCompany(ctx, companyID, *txn.CustomerID)
			if err != nil {
				return err
			}
			return s.refreshBalances(ctx, customer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment applied",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("amount", amount.String()),
		zap.String("status", string(txn.PaymentStatus())))
	return txn, nil
}

// settlementLines builds the cash movement of a payment application:
// money in against receivables for sales, money out against payables
// for purchases and expenses.
func (s *PostingService) settlementLines(ctx context.Context, txn *trade.Transaction, amount decimal.Decimal) ([]accounting.LineInput, error) {
	cash, err := s.systemAccount(ctx, txn.CompanyID, accounting.TagCash)
	if err != nil {
		return nil, err
	}
	if txn.Type == trade.TypeSale {
		receivable, err := s.systemAccount(ctx, txn.CompanyID, accounting.TagAR)
		if err != nil {
			return nil, err
		}
		return []accounting.LineInput{
			{AccountID: cash.ID, Debit: amount, Description: "Payment received"},
			{AccountID: receivable.ID, Credit: amount, Description: "Receivable settled"},
		}, nil
	}
	payable, err := s.systemAccount(ctx, txn.CompanyID, accounting.TagAP)
	if err != nil {
		return nil, err
	}
	return []accounting.LineInput{
		{AccountID: payable.ID, Debit: amount, Description: "Payable settled"},
		{AccountID: cash.ID, Credit: amount, Description: "Payment made"},
	}, nil
}

// RecomputeBalances rebuilds a counter-party's cached balances from its
// open transactions; the drift guard for the cache.
func (s *PostingService) RecomputeBalances(ctx context.Context, companyID, customerID uuid.UUID) (*partner.Customer, error) {
	customer, err := s.customers.FindByIDForCompany(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}
	if err := s.refreshBalances(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *PostingService) refreshBalances(ctx context.Context, customer *partner.Customer) error {
	receivable, payable, err := s.transactions.OpenBalancesForCustomer(ctx, customer.CompanyID, customer.ID)
	if err != nil {
		return err
	}
	customer.SetBalances(receivable, payable)
	return s.customers.Save(ctx, customer)
}

// cogsOfEntry extracts the cost-of-goods debit from a previously derived
// entry so a re-post can carry it without re-consuming stock.
func (s *PostingService) cogsOfEntry(ctx context.Context, companyID uuid.UUID, entry *accounting.JournalEntry) (decimal.Decimal, error) {
	cogs, err := s.accounts.FindBySystemTag(ctx, companyID, accounting.TagCOGS)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, line := range entry.Lines {
		if line.AccountID == cogs.ID {
			total = total.Add(line.Debit)
		}
	}
	return total, nil
}

func (s *PostingService) systemAccount(ctx context.Context, companyID uuid.UUID, tag accounting.SystemTag) (*accounting.Account, error) {
	account, err := s.accounts.FindBySystemTag(ctx, companyID, tag)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrAccountMissing
		}
		return nil, err
	}
	return account, nil
}

func (s *PostingService) receivableAccount(ctx context.Context, companyID uuid.UUID, customer *partner.Customer) (*accounting.Account, error) {
	if customer != nil && customer.ReceivableAccountID != nil {
		return s.accounts.FindByIDForCompany(ctx, companyID, *customer.ReceivableAccountID)
	}
	return s.systemAccount(ctx, companyID, accounting.TagAR)
}

func (s *PostingService) payableAccount(ctx context.Context, companyID uuid.UUID, customer *partner.Customer) (*accounting.Account, error) {
	if customer != nil && customer.PayableAccountID != nil {
		return s.accounts.FindByIDForCompany(ctx, companyID, *customer.PayableAccountID)
	}
	return s.systemAccount(ctx, companyID, accounting.TagAP)
}

func (s *PostingService) incomeAccount(ctx context.Context, companyID uuid.UUID, item *inventory.InventoryItem) (*accounting.Account, error) {
	if item.IncomeAccountID != nil {
		return s.accounts.FindByIDForCompany(ctx, companyID, *item.IncomeAccountID)
	}
	account, err := s.accounts.FindByNumber(ctx, companyID, fallbackRevenueNumber)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrAccountMissing
		}
		return nil, err
	}
	return account, nil
}

func (s *PostingService) assetAccount(ctx context.Context, companyID uuid.UUID, item *inventory.InventoryItem) (*accounting.Account, error) {
	if item.AssetAccountID != nil {
		return s.accounts.FindByIDForCompany(ctx, companyID, *item.AssetAccountID)
	}
	return s.systemAccount(ctx, companyID, accounting.TagInventoryAsset)
}

func (s *PostingService) categoryDefaultAccount(ctx context.Context, companyID uuid.UUID, category *trade.Category) (*accounting.Account, error) {
	if category == nil || category.DefaultAccountID == nil {
		return nil, shared.ErrAccountMissing
	}
	return s.accounts.FindByIDForCompany(ctx, companyID, *category.DefaultAccountID)
}

func batchNumbersByItem(lines []ItemLineInput) map[uuid.UUID]string {
	numbers := make(map[uuid.UUID]string, len(lines))
	for _, l := range lines {
		if l.BatchNumber != "" {
			numbers[l.ItemID] = l.BatchNumber
		}
	}
	return numbers
}
