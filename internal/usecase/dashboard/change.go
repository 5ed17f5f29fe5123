package dashboard

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ChangePercent is the relative change from previous to current in percent, rounded to 2 places
// A zero previous value yields 100 when current is positive and 0 otherwise
func ChangePercent(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}

	change := current.Sub(previous).Div(previous).Mul(hundred)
	return change.Round(2).InexactFloat64()
}

// SharePercent is part's share of total in percent, rounded to 2 places
// A zero total yields 0
func SharePercent(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Div(total).Mul(hundred).Round(2).InexactFloat64()
}

// formatAmount renders an amount with the storage precision of 4 fractional digits
func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(4)
}
