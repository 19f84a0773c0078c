package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/accounting"
	"github.com/ledgerly/backend/internal/domain/inventory"
	"github.com/ledgerly/backend/internal/domain/shared"
)

// In-memory fakes. Only the methods the services under test reach are
// implemented; the embedded interface panics on anything else.

type fakeItemRepo struct {
	inventory.ItemRepository
	items map[uuid.UUID]*inventory.InventoryItem
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*inventory.InventoryItem)}
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

func (r *fakeItemRepo) Save(_ context.Context, i *inventory.InventoryItem) error {
	r.items[i.ID] = i
	return nil
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
	// Oldest first, matching the repository contract.
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

func (r *fakeBatchRepo) FindOpenForItem(_ context.Context, companyID, itemID uuid.UUID) ([]inventory.Batch, error) {
	var open []inventory.Batch
	for _, b := range r.batches {
		if b.CompanyID == companyID && b.ItemID == itemID && b.HasRemaining() {
			open = append(open, *b)
		}
	}
	return open, nil
}

func (r *fakeBatchRepo) FindExpiring(_ context.Context, companyID uuid.UUID, horizon time.Time) ([]inventory.Batch, error) {
	var expiring []inventory.Batch
	for _, b := range r.batches {
		if b.CompanyID == companyID && b.HasRemaining() && b.ExpiryDate != nil && !b.ExpiryDate.After(horizon) {
			expiring = append(expiring, *b)
		}
	}
	return expiring, nil
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

func (r *fakeMovementRepo) SignedQuantitySum(_ context.Context, companyID, itemID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.movements {
		if m.CompanyID == companyID && m.ItemID == itemID {
			sum = sum.Add(m.SignedQuantity())
		}
	}
	return sum, nil
}

type fakeAdjustmentRepo struct {
	inventory.PriceAdjustmentRepository
	adjustments []*inventory.PriceAdjustment
}

func newFakeAdjustmentRepo() *fakeAdjustmentRepo {
	return &fakeAdjustmentRepo{}
}

func (r *fakeAdjustmentRepo) Save(_ context.Context, a *inventory.PriceAdjustment) error {
	r.adjustments = append(r.adjustments, a)
	return nil
}

func (r *fakeAdjustmentRepo) LatestForItem(_ context.Context, companyID, itemID uuid.UUID) (*inventory.PriceAdjustment, error) {
	var latest *inventory.PriceAdjustment
	for _, a := range r.adjustments {
		if a.CompanyID != companyID || a.ItemID != itemID {
			continue
		}
		if latest == nil || a.Date.After(latest.Date) ||
			(a.Date.Equal(latest.Date) && a.CreatedAt.After(latest.CreatedAt)) {
			latest = a
		}
	}
	if latest == nil {
		return nil, shared.ErrNotFound
	}
	return latest, nil
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
	entries []*accounting.JournalEntry
}

func newFakeJournalRepo() *fakeJournalRepo {
	return &fakeJournalRepo{}
}

func (r *fakeJournalRepo) Save(_ context.Context, e *accounting.JournalEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

// fakeUnitOfWork runs the function directly; fakes are already "atomic".
type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
