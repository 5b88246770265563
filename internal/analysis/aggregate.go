package analysis

import (
	"math"

	"wealthsage/internal/core"
)

// weeksPerMonth is the conventional factor for normalizing weekly income to
// a monthly figure.
const weeksPerMonth = 4.33

// Budget is the aggregated view of one batch against the configured income.
type Budget struct {
	PerCategory   map[core.Category]core.Money `json:"per_category"`
	TotalSpend    core.Money                   `json:"total_spend"`
	MonthlyIncome core.Money                   `json:"monthly_income"`
	Remaining     core.Money                   `json:"remaining"`
	Overspent     bool                         `json:"overspent"`
	Shortfall     core.Money                   `json:"shortfall"`
}

// Aggregate sums amounts per category and overall, and compares total spend
// with the monthly-equivalent income. Overspend is a reported value, not an
// error: Shortfall carries the absolute deficit when Remaining is negative.
func Aggregate(txs []core.Transaction, income core.Money, freq core.Frequency) Budget {
	perCategory := make(map[core.Category]core.Money, len(core.Categories))
	for _, c := range core.Categories {
		perCategory[c] = core.Money{}
	}

	var total int64
	for _, tx := range txs {
		c := Classify(tx)
		perCategory[c] = core.Money{Cents: perCategory[c].Cents + tx.Amount.Cents}
		total += tx.Amount.Cents
	}

	monthly := MonthlyIncome(income, freq)
	remaining := monthly.Cents - total

	b := Budget{
		PerCategory:   perCategory,
		TotalSpend:    core.Money{Cents: total},
		MonthlyIncome: monthly,
		Remaining:     core.Money{Cents: remaining},
	}
	if remaining < 0 {
		b.Overspent = true
		b.Shortfall = core.Money{Cents: -remaining}
	}
	return b
}

// MonthlyIncome normalizes an income figure to its monthly equivalent:
// weekly incomes are scaled by 4.33, yearly divided by 12, monthly returned
// unchanged.
func MonthlyIncome(income core.Money, freq core.Frequency) core.Money {
	switch freq {
	case core.Weekly:
		return core.Money{Cents: int64(math.Round(float64(income.Cents) * weeksPerMonth))}
	case core.Yearly:
		return core.Money{Cents: int64(math.Round(float64(income.Cents) / 12))}
	default:
		return income
	}
}
