package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/accounting"
	"github.com/ledgerly/backend/internal/domain/inventory"
	"github.com/ledgerly/backend/internal/domain/partner"
	"github.com/ledgerly/backend/internal/domain/shared"
	"github.com/ledgerly/backend/internal/domain/tenant"
	"github.com/ledgerly/backend/internal/domain/trade"
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

type fakeTransactionRepo struct {
	trade.TransactionRepository
	transactions map[uuid.UUID]*trade.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{transactions: make(map[uuid.UUID]*trade.Transaction)}
}

func (r *fakeTransactionRepo) Save(_ context.Context, t *trade.Transaction) error {
	r.transactions[t.ID] = t
	return nil
}

func (r *fakeTransactionRepo) FindByIDForCompany(_ context.Context, companyID, id uuid.UUID) (*trade.Transaction, error) {
	if t, ok := r.transactions[id]; ok && t.CompanyID == companyID {
		return t, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTransactionRepo) OpenBalancesForCustomer(_ context.Context, companyID, customerID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	receivable, payable := decimal.Zero, decimal.Zero
	for _, t := range r.transactions {
		if t.CompanyID != companyID || t.CustomerID == nil || *t.CustomerID != customerID {
			continue
		}
		switch t.Type {
		case trade.TypeSale:
			receivable = receivable.Add(t.BalanceDue())
		case trade.TypePurchase, trade.TypeExpense:
			payable = payable.Add(t.BalanceDue())
		}
	}
	return receivable, payable, nil
}

type fakeCategoryRepo struct {
	trade.CategoryRepository
	categories map[uuid.UUID]*trade.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]*trade.Category)}
}

func (r *fakeCategoryRepo) Save(_ context.Context, c *trade.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *fakeCategoryRepo) FindByIDForCompany(_ context.Context, companyID, id uuid.UUID) (*trade.Category, error) {
	if c, ok := r.categories[id]; ok && c.CompanyID == companyID {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

type fakeCustomerRepo struct {
	partner.CustomerRepository
	customers map[uuid.UUID]*partner.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*partner.Customer)}
}

func (r *fakeCustomerRepo) Save(_ context.Context, c *partner.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) FindByIDForCompany(_ context.Context, companyID, id uuid.UUID) (*partner.Customer, error) {
	if c, ok := r.customers[id]; ok && c.CompanyID == companyID {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

type fakeItemRepo struct {
	inventory.ItemRepository
	items map[uuid.UUID]*inventory.InventoryItem
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*inventory.InventoryItem)}
}

func (r *fakeItemRepo) Save(_ context.Context, i *inventory.InventoryItem) error {
	r.items[i.ID] = i
	return nil
}

func (r *fakeItemRepo) FindByIDForCompany(_ context.Context, companyID, id uuid.UUID) (*inventory.InventoryItem, error) {
	if i, ok := r.items[id]; ok && i.CompanyID == companyID {
		return i, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeItemRepo) FindBySKU(_ context.Context, companyID uuid.UUID, sku string) (*inventory.InventoryItem, error) {
	for _, i := range r.items {
		if i.CompanyID == companyID && i.SKU == sku {
			return i, nil
		}
	}
	return nil, shared.ErrNotFound
}

type fakeLayerRepo struct {
	inventory.CostLayerRepository
	layers map[uuid.UUID]*inventory.CostLayer
}

func newFakeLayerRepo() *fakeLayerRepo {
	return &fakeLayerRepo{layers: make(map[uuid.UUID]*inventory.CostLayer)}
}

func (r *fakeLayerRepo) FindOpenForItem(_ context.Context, companyID, itemID uuid.UUID) ([]inventory.CostLayer, error) {
	var open []inventory.CostLayer
	for _, l := range r.layers {
		if l.CompanyID == companyID && l.ItemID == itemID && l.HasRemaining() {
			open = append(open, *l)
		}
	}
	for i := 0; i < len(open); i++ {
		for j := i + 1; j < len(open); j++ {
			if open[j].AcquiredOn.Before(open[i].AcquiredOn) ||
				(open[j].AcquiredOn.Equal(open[i].AcquiredOn) && open[j].CreatedAt.Before(open[i].CreatedAt)) {
				open[i], open[j] = open[j], open[i]
			}
		}
	}
	return open, nil
}

func (r *fakeLayerRepo) Save(_ context.Context, l *inventory.CostLayer) error {
	copied := *l
	r.layers[l.ID] = &copied
	return nil
}

func (r *fakeLayerRepo) SaveAll(ctx context.Context, layers []*inventory.CostLayer) error {
	for _, l := range layers {
		if err := r.Save(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

type fakeBatchRepo struct {
	inventory.BatchRepository
	batches map[uuid.UUID]*inventory.Batch
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{batches: make(map[uuid.UUID]*inventory.Batch)}
}

func (r *fakeBatchRepo) FindByNumber(_ context.Context, companyID, itemID uuid.UUID, number string) (*inventory.Batch, error) {
	for _, b := range r.batches {
		if b.CompanyID == companyID && b.ItemID == itemID && b.BatchNumber == number {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBatchRepo) Save(_ context.Context, b *inventory.Batch) error {
	r.batches[b.ID] = b
	return nil
}

type fakeMovementRepo struct {
	inventory.MovementRepository
	movements []*inventory.Movement
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{}
}

func (r *fakeMovementRepo) Save(_ context.Context, m *inventory.Movement) error {
	r.movements = append(r.movements, m)
	return nil
}

type fakeAdjustmentRepo struct {
	inventory.PriceAdjustmentRepository
}

func (fakeAdjustmentRepo) LatestForItem(_ context.Context, _, _ uuid.UUID) (*inventory.PriceAdjustment, error) {
	return nil, shared.ErrNotFound
}

type fakeAccountRepo struct {
	accounting.AccountRepository
	accounts map[uuid.UUID]*accounting.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*accounting.Account)}
}

func (r *fakeAccountRepo) add(a *accounting.Account) {
	r.accounts[a.ID] = a
}

func (r *fakeAccountRepo) FindByIDForCompany(_ context.Context, companyID, id uuid.UUID) (*accounting.Account, error) {
	if a, ok := r.accounts[id]; ok && a.CompanyID == companyID {
		return a, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAccountRepo) FindByNumber(_ context.Context, companyID uuid.UUID, number string) (*accounting.Account, error) {
	for _, a := range r.accounts {
		if a.CompanyID == companyID && a.Number == number {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAccountRepo) FindBySystemTag(_ context.Context, companyID uuid.UUID, tag accounting.SystemTag) (*accounting.Account, error) {
	for _, a := range r.accounts {
		if a.CompanyID == companyID && a.SystemTag != nil && *a.SystemTag == tag {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
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

// fakeUnitOfWork runs the function directly; fakes are already "atomic".
type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func fixedClock(t time.Time) shared.Clock {
	return func() time.Time { return t }
}
