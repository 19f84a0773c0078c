package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerly/backend/internal/domain/inventory"
	"github.com/ledgerly/backend/internal/domain/shared"
)

func TestGormCostLayerRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormCostLayerRepository(db)

	companyID := uuid.New()
	itemID := uuid.New()

	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	older, err := inventory.NewCostLayer(companyID, itemID, march, decimal.NewFromInt(10), decimal.NewFromInt(30))
	require.NoError(t, err)
	newer, err := inventory.NewCostLayer(companyID, itemID, april, decimal.NewFromInt(10), decimal.NewFromInt(50))
	require.NoError(t, err)

	// Insert newest first to prove ordering comes from the query.
	require.NoError(t, repo.Save(ctx, newer))
	require.NoError(t, repo.Save(ctx, older))

	t.Run("FindOpenForItem returns oldest first", func(t *testing.T) {
		layers, err := repo.FindOpenForItem(ctx, companyID, itemID)
		require.NoError(t, err)
		require.Len(t, layers, 2)
		assert.Equal(t, older.ID, layers[0].ID)
		assert.Equal(t, newer.ID, layers[1].ID)
	})

	t.Run("consumed layers drop out", func(t *testing.T) {
		require.NoError(t, older.Consume(decimal.NewFromInt(10)))
		require.NoError(t, repo.Save(ctx, older))

		layers, err := repo.FindOpenForItem(ctx, companyID, itemID)
		require.NoError(t, err)
		require.Len(t, layers, 1)
		assert.Equal(t, newer.ID, layers[0].ID)
	})
}

func TestGormMovementRepository_SignedQuantitySum(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormMovementRepository(db)

	companyID := uuid.New()
	itemID := uuid.New()
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	inflow, err := inventory.NewInflowMovement(companyID, itemID, inventory.MovementPurchase, day, decimal.NewFromInt(20), decimal.NewFromInt(30), "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, inflow))

	consumed := &inventory.ConsumptionResult{
		TotalConsumed:  decimal.NewFromInt(8),
		TotalCost:      decimal.NewFromInt(240),
		UnitCost:       decimal.NewFromInt(30),
		FullyFulfilled: true,
	}
	outflow, err := inventory.NewOutflowMovement(companyID, itemID, inventory.MovementSale, day, decimal.NewFromInt(8), consumed, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, outflow))

	sum, err := repo.SignedQuantitySum(ctx, companyID, itemID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(12)), "sum %s", sum)
}

func TestGormBatchRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormBatchRepository(db)

	companyID := uuid.New()
	itemID := uuid.New()

	soon := time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC)
	farOff := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)

	expiring, err := inventory.NewBatch(companyID, itemID, "LOT-A", decimal.NewFromInt(10), decimal.NewFromInt(4))
	require.NoError(t, err)
	expiring.ExpiryDate = &soon
	require.NoError(t, repo.Save(ctx, expiring))

	fresh, err := inventory.NewBatch(companyID, itemID, "LOT-B", decimal.NewFromInt(10), decimal.NewFromInt(4))
	require.NoError(t, err)
	fresh.ExpiryDate = &farOff
	require.NoError(t, repo.Save(ctx, fresh))

	t.Run("FindByNumber", func(t *testing.T) {
		found, err := repo.FindByNumber(ctx, companyID, itemID, "LOT-A")
		require.NoError(t, err)
		assert.Equal(t, expiring.ID, found.ID)

		_, err = repo.FindByNumber(ctx, companyID, itemID, "LOT-X")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("FindExpiring honors the horizon", func(t *testing.T) {
		horizon := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
		batches, err := repo.FindExpiring(ctx, companyID, horizon)
		require.NoError(t, err)
		require.Len(t, batches, 1)
		assert.Equal(t, "LOT-A", batches[0].BatchNumber)
	})
}
