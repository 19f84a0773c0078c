package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qty(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func layer(acquired time.Time, quantity, unitCost string) CostLayer {
	l, err := NewCostLayer(uuid.New(), uuid.New(), acquired, qty(quantity), qty(unitCost))
	if err != nil {
		panic(err)
	}
	return *l
}

var (
	jan = time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	feb = time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
	mar = time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
)

func TestFIFOStrategy_Consume(t *testing.T) {
	layers := []CostLayer{
		layer(feb, "10", "50"),
		layer(jan, "10", "30"),
	}

	t.Run("consumes oldest layer first", func(t *testing.T) {
		result, err := NewFIFOStrategy().Consume(qty("1"), layers)
		require.NoError(t, err)

		require.Len(t, result.Uses, 1)
		assert.True(t, result.Uses[0].UnitCost.Equal(qty("30")))
		assert.True(t, result.TotalCost.Equal(qty("30")))
		assert.True(t, result.FullyFulfilled)
	})

	t.Run("spans layers when the first runs out", func(t *testing.T) {
		result, err := NewFIFOStrategy().Consume(qty("15"), layers)
		require.NoError(t, err)

		require.Len(t, result.Uses, 2)
		assert.True(t, result.Uses[0].Quantity.Equal(qty("10")))
		assert.True(t, result.Uses[0].FullyConsumed)
		assert.True(t, result.Uses[1].Quantity.Equal(qty("5")))
		assert.True(t, result.TotalCost.Equal(qty("550"))) // 10*30 + 5*50
		assert.True(t, result.UnitCost.Equal(qty("36.6667")))
	})

	t.Run("reports unfulfilled remainder", func(t *testing.T) {
		result, err := NewFIFOStrategy().Consume(qty("25"), layers)
		require.NoError(t, err)

		assert.False(t, result.FullyFulfilled)
		assert.True(t, result.RemainingQuantity.Equal(qty("5")))
		assert.True(t, result.TotalConsumed.Equal(qty("20")))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewFIFOStrategy().Consume(decimal.Zero, layers)
		assert.Error(t, err)
	})
}

func TestLIFOStrategy_Consume(t *testing.T) {
	layers := []CostLayer{
		layer(jan, "10", "30"),
		layer(feb, "10", "50"),
	}

	result, err := NewLIFOStrategy().Consume(qty("12"), layers)
	require.NoError(t, err)

	require.Len(t, result.Uses, 2)
	assert.True(t, result.Uses[0].UnitCost.Equal(qty("50")), "newest layer first")
	assert.True(t, result.Uses[0].Quantity.Equal(qty("10")))
	assert.True(t, result.Uses[1].UnitCost.Equal(qty("30")))
	assert.True(t, result.Uses[1].Quantity.Equal(qty("2")))
	assert.True(t, result.TotalCost.Equal(qty("560"))) // 10*50 + 2*30
}

func TestWeightedAverageStrategy_Consume(t *testing.T) {
	t.Run("mixed layers give blended cost and proportional reduction", func(t *testing.T) {
		layers := []CostLayer{
			layer(jan, "10", "30"),
			layer(feb, "10", "50"),
		}

		assert.True(t, AverageCostOfLayers(layers).Equal(qty("40")))

		result, err := NewWeightedAverageStrategy().Consume(qty("5"), layers)
		require.NoError(t, err)

		assert.True(t, result.UnitCost.Equal(qty("40")))
		assert.True(t, result.TotalCost.Equal(qty("200")))
		require.Len(t, result.Uses, 2)
		assert.True(t, result.Uses[0].Quantity.Equal(qty("2.5")))
		assert.True(t, result.Uses[1].Quantity.Equal(qty("2.5")))
		assert.True(t, result.Uses[0].RemainingInLayer.Equal(qty("7.5")))
		assert.True(t, result.Uses[1].RemainingInLayer.Equal(qty("7.5")))
	})

	t.Run("allocated quantities always sum to the request", func(t *testing.T) {
		layers := []CostLayer{
			layer(jan, "3", "10"),
			layer(feb, "3", "10"),
			layer(mar, "3", "10"),
		}

		result, err := NewWeightedAverageStrategy().Consume(qty("7"), layers)
		require.NoError(t, err)

		total := decimal.Zero
		for _, u := range result.Uses {
			total = total.Add(u.Quantity)
		}
		assert.True(t, total.Equal(qty("7")))
	})

	t.Run("consumes everything on shortfall", func(t *testing.T) {
		layers := []CostLayer{layer(jan, "4", "25")}

		result, err := NewWeightedAverageStrategy().Consume(qty("10"), layers)
		require.NoError(t, err)

		assert.False(t, result.FullyFulfilled)
		assert.True(t, result.TotalConsumed.Equal(qty("4")))
		assert.True(t, result.RemainingQuantity.Equal(qty("6")))
	})
}

func TestPriceAdjustmentStrategy_Consume(t *testing.T) {
	layers := []CostLayer{
		layer(jan, "10", "30"),
		layer(feb, "10", "50"),
	}

	t.Run("charges the adjusted cost", func(t *testing.T) {
		result, err := NewPriceAdjustmentStrategy(qty("45")).Consume(qty("4"), layers)
		require.NoError(t, err)

		assert.True(t, result.UnitCost.Equal(qty("45")))
		assert.True(t, result.TotalCost.Equal(qty("180")))
		assert.True(t, result.FullyFulfilled)
	})

	t.Run("falls back to average when no adjustment posted", func(t *testing.T) {
		result, err := NewPriceAdjustmentStrategy(decimal.Zero).Consume(qty("4"), layers)
		require.NoError(t, err)

		assert.True(t, result.UnitCost.Equal(qty("40")))
	})
}

func TestStrategyForMethod(t *testing.T) {
	for _, method := range []CostingMethod{CostingFIFO, CostingLIFO, CostingWeightedAverage, CostingPriceAdjustment} {
		s, err := StrategyForMethod(method, decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, method, s.Method())
	}

	_, err := StrategyForMethod(CostingSpecificID, decimal.Zero)
	assert.Error(t, err, "specific identification is batch based")
}

func TestAverageCostOfLayers_Empty(t *testing.T) {
	assert.True(t, AverageCostOfLayers(nil).IsZero())

	exhausted := layer(jan, "10", "30")
	require.NoError(t, exhausted.Consume(qty("10")))
	assert.True(t, AverageCostOfLayers([]CostLayer{exhausted}).IsZero())
}
