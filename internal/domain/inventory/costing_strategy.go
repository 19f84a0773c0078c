package inventory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// LayerUse records one layer's contribution to an outflow, kept for audit
// on the resulting movement.
type LayerUse struct {
	LayerID          uuid.UUID       `json:"layer_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	RemainingInLayer decimal.Decimal `json:"remaining_in_layer"`
	FullyConsumed    bool            `json:"fully_consumed"`
}

// ConsumptionResult is the complete outcome of costing one outflow.
type ConsumptionResult struct {
	Uses              []LayerUse
	TotalConsumed     decimal.Decimal
	TotalCost         decimal.Decimal
	UnitCost          decimal.Decimal // TotalCost / TotalConsumed
	RemainingQuantity decimal.Decimal // quantity that could not be fulfilled
	FullyFulfilled    bool
}

// CostingStrategy computes which layers an outflow consumes and at what
// cost. Strategies only calculate; callers apply the uses to the layers.
type CostingStrategy interface {
	Method() CostingMethod
	Consume(quantity decimal.Decimal, layers []CostLayer) (*ConsumptionResult, error)
}

// StrategyForMethod returns the strategy for a layer-based costing method.
// Specific identification is batch-based and does not go through layers.
func StrategyForMethod(method CostingMethod, latestAdjustedCost decimal.Decimal) (CostingStrategy, error) {
	switch method {
	case CostingFIFO:
		return NewFIFOStrategy(), nil
	case CostingLIFO:
		return NewLIFOStrategy(), nil
	case CostingWeightedAverage:
		return NewWeightedAverageStrategy(), nil
	case CostingPriceAdjustment:
		return NewPriceAdjustmentStrategy(latestAdjustedCost), nil
	default:
		return nil, shared.NewDomainError("INVALID_COSTING_METHOD", "No layer strategy for costing method "+string(method))
	}
}

// AverageCostOfLayers returns the remaining-quantity weighted average
// unit cost across layers, zero when nothing remains.
func AverageCostOfLayers(layers []CostLayer) decimal.Decimal {
	totalQty := decimal.Zero
	totalValue := decimal.Zero
	for _, l := range layers {
		if !l.HasRemaining() {
			continue
		}
		totalQty = totalQty.Add(l.QuantityRemaining)
		totalValue = totalValue.Add(l.QuantityRemaining.Mul(l.UnitCost))
	}
	if !totalQty.IsPositive() {
		return decimal.Zero
	}
	return totalValue.Div(totalQty).Round(shared.QuantityPlaces)
}

// FIFOStrategy consumes the oldest layers first
type FIFOStrategy struct{}

// NewFIFOStrategy creates a new FIFO costing strategy
func NewFIFOStrategy() *FIFOStrategy { return &FIFOStrategy{} }

// Method returns the costing method
func (s *FIFOStrategy) Method() CostingMethod { return CostingFIFO }

// Consume selects layers in (acquired on, created at) ascending order
func (s *FIFOStrategy) Consume(quantity decimal.Decimal, layers []CostLayer) (*ConsumptionResult, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}
	sorted := sortLayers(layers, false)
	return consumeInOrder(quantity, sorted)
}

// LIFOStrategy consumes the newest layers first
type LIFOStrategy struct{}

// NewLIFOStrategy creates a new LIFO costing strategy
func NewLIFOStrategy() *LIFOStrategy { return &LIFOStrategy{} }

// Method returns the costing method
func (s *LIFOStrategy) Method() CostingMethod { return CostingLIFO }

// Consume selects layers in (acquired on, created at) descending order
func (s *LIFOStrategy) Consume(quantity decimal.Decimal, layers []CostLayer) (*ConsumptionResult, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}
	sorted := sortLayers(layers, true)
	return consumeInOrder(quantity, sorted)
}

// WeightedAverageStrategy charges the current average cost and reduces
// every layer proportionally.
type WeightedAverageStrategy struct{}

// NewWeightedAverageStrategy creates a new weighted average costing strategy
func NewWeightedAverageStrategy() *WeightedAverageStrategy { return &WeightedAverageStrategy{} }

// Method returns the costing method
func (s *WeightedAverageStrategy) Method() CostingMethod { return CostingWeightedAverage }

// Consume charges the remaining-quantity weighted average for the full
// outflow and spreads the reduction across layers by their share.
func (s *WeightedAverageStrategy) Consume(quantity decimal.Decimal, layers []CostLayer) (*ConsumptionResult, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}
	avg := AverageCostOfLayers(layers)
	return consumeProportionally(quantity, layers, avg)
}

// PriceAdjustmentStrategy charges the latest posted adjusted unit cost
// and reduces layers proportionally. Prior outflows keep their original
// cost; only future outflows see the adjustment.
type PriceAdjustmentStrategy struct {
	adjustedCost decimal.Decimal
}

// NewPriceAdjustmentStrategy creates a strategy charging the given cost
func NewPriceAdjustmentStrategy(adjustedCost decimal.Decimal) *PriceAdjustmentStrategy {
	return &PriceAdjustmentStrategy{adjustedCost: adjustedCost}
}

// Method returns the costing method
func (s *PriceAdjustmentStrategy) Method() CostingMethod { return CostingPriceAdjustment }

// Consume charges the adjusted cost for the full outflow
func (s *PriceAdjustmentStrategy) Consume(quantity decimal.Decimal, layers []CostLayer) (*ConsumptionResult, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}
	if !s.adjustedCost.IsPositive() {
		// No adjustment was ever posted; fall back to the running average.
		return consumeProportionally(quantity, layers, AverageCostOfLayers(layers))
	}
	return consumeProportionally(quantity, layers, s.adjustedCost)
}

// sortLayers orders layers by acquisition date then creation time,
// oldest first or newest first.
func sortLayers(layers []CostLayer, newestFirst bool) []CostLayer {
	sorted := make([]CostLayer, 0, len(layers))
	for _, l := range layers {
		if l.HasRemaining() {
			sorted = append(sorted, l)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].AcquiredOn.Equal(sorted[j].AcquiredOn) {
			if newestFirst {
				return sorted[i].AcquiredOn.After(sorted[j].AcquiredOn)
			}
			return sorted[i].AcquiredOn.Before(sorted[j].AcquiredOn)
		}
		if newestFirst {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// consumeInOrder takes layers head to tail until the quantity is covered
func consumeInOrder(quantity decimal.Decimal, sorted []CostLayer) (*ConsumptionResult, error) {
	uses := make([]LayerUse, 0)
	remaining := quantity
	totalCost := decimal.Zero

	for _, layer := range sorted {
		if remaining.IsZero() {
			break
		}
		take := decimal.Min(remaining, layer.QuantityRemaining)
		left := layer.QuantityRemaining.Sub(take)
		cost := take.Mul(layer.UnitCost)

		uses = append(uses, LayerUse{
			LayerID:          layer.ID,
			Quantity:         take,
			UnitCost:         layer.UnitCost,
			TotalCost:        cost,
			RemainingInLayer: left,
			FullyConsumed:    left.IsZero(),
		})
		totalCost = totalCost.Add(cost)
		remaining = remaining.Sub(take)
	}

	return buildResult(quantity, remaining, totalCost, uses), nil
}

// consumeProportionally reduces every layer by its share of the outflow
// and charges a single unit cost for the whole quantity.
func consumeProportionally(quantity decimal.Decimal, layers []CostLayer, unitCost decimal.Decimal) (*ConsumptionResult, error) {
	available := make([]CostLayer, 0, len(layers))
	totalRemaining := decimal.Zero
	for _, l := range layers {
		if l.HasRemaining() {
			available = append(available, l)
			totalRemaining = totalRemaining.Add(l.QuantityRemaining)
		}
	}

	if totalRemaining.LessThan(quantity) {
		// Partial fulfilment: consume everything available.
		uses := make([]LayerUse, 0, len(available))
		totalCost := decimal.Zero
		for _, layer := range available {
			cost := layer.QuantityRemaining.Mul(unitCost)
			uses = append(uses, LayerUse{
				LayerID:          layer.ID,
				Quantity:         layer.QuantityRemaining,
				UnitCost:         unitCost,
				TotalCost:        cost,
				RemainingInLayer: decimal.Zero,
				FullyConsumed:    true,
			})
			totalCost = totalCost.Add(cost)
		}
		return buildResult(quantity, quantity.Sub(totalRemaining), totalCost, uses), nil
	}

	factor := quantity.Div(totalRemaining)
	uses := make([]LayerUse, 0, len(available))
	allocated := decimal.Zero
	totalCost := decimal.Zero

	for idx, layer := range available {
		var take decimal.Decimal
		if idx == len(available)-1 {
			// The last layer absorbs any rounding remainder so the
			// allocated total matches the requested quantity exactly.
			take = quantity.Sub(allocated)
		} else {
			take = shared.RoundQuantity(layer.QuantityRemaining.Mul(factor))
		}
		left := layer.QuantityRemaining.Sub(take)
		cost := take.Mul(unitCost)

		uses = append(uses, LayerUse{
			LayerID:          layer.ID,
			Quantity:         take,
			UnitCost:         unitCost,
			TotalCost:        cost,
			RemainingInLayer: left,
			FullyConsumed:    left.IsZero(),
		})
		allocated = allocated.Add(take)
		totalCost = totalCost.Add(cost)
	}

	return buildResult(quantity, decimal.Zero, totalCost, uses), nil
}

func buildResult(requested, remaining, totalCost decimal.Decimal, uses []LayerUse) *ConsumptionResult {
	consumed := requested.Sub(remaining)
	var unitCost decimal.Decimal
	if consumed.IsPositive() {
		unitCost = totalCost.Div(consumed).Round(shared.QuantityPlaces)
	}
	return &ConsumptionResult{
		Uses:              uses,
		TotalConsumed:     consumed,
		TotalCost:         totalCost,
		UnitCost:          unitCost,
		RemainingQuantity: remaining,
		FullyFulfilled:    remaining.IsZero(),
	}
}
