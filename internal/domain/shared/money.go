package shared

import "github.com/shopspring/decimal"

// Monetary amounts are stored to two decimal places, physical quantities
// and unit costs to four.
const (
	MoneyPlaces    = 2
	QuantityPlaces = 4
)

// BalanceTolerance is the largest debit/credit difference still treated
// as balanced, absorbing accumulated rounding across entry lines.
var BalanceTolerance = decimal.New(1, -2) // 0.01

// RoundMoney rounds an amount to monetary precision.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// RoundQuantity rounds a quantity or unit cost to quantity precision.
func RoundQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityPlaces)
}

// WithinTolerance reports whether two amounts differ by no more than
// the balance tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(BalanceTolerance)
}
