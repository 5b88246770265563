package analysis

import (
	"fmt"
	"math"
	"strings"

	"wealthsage/internal/core"
)

// Spend-to-income ratio thresholds for tagged category tips.
const (
	ratioHigh   = 0.30
	ratioMedium = 0.15
)

var foodDeliveryKeywords = []string{"deliveroo", "just eat", "justeat", "uber eats", "ubereats"}

// reinvestTips is the static advisory block appended to every run,
// independent of the analyzed data.
var reinvestTips = []string{
	"Reinvest what you free up: move spare cash into your savings goal first.",
	"Consider an easy-access savings account or a cash ISA for your monthly surplus.",
}

// Recommend derives an ordered list of human-readable tips from the
// aggregated budget and the recurring candidates. Output order is
// deterministic: ratio tips in category order, then recurring-cluster tips,
// then the static reinvestment block.
func Recommend(budget Budget, recurring []RecurringCandidate, mode core.SavingsMode) []string {
	var tips []string

	if budget.MonthlyIncome.Cents > 0 {
		for _, c := range core.Categories {
			spend := budget.PerCategory[c]
			if spend.Cents == 0 {
				continue
			}
			ratio := float64(spend.Cents) / float64(budget.MonthlyIncome.Cents)
			switch {
			case ratio > ratioHigh:
				tips = append(tips, fmt.Sprintf("[high] %s takes %.0f%% of your monthly income (%s) - look for cheaper alternatives.",
					c, ratio*100, core.FormatGBP(spend.Cents)))
			case ratio > ratioMedium:
				tips = append(tips, fmt.Sprintf("[medium] %s is a noticeable share of your monthly income (%s) - worth keeping an eye on.",
					c, core.FormatGBP(spend.Cents)))
			}
		}
	}

	cut := mode.CutFraction()

	// Food delivery is split out of the subscription cluster so the two
	// tips never double count the same spend.
	isSubscriptionOnly := func(desc string) bool {
		return IsSubscriptionLike(desc) && !isFoodDelivery(desc)
	}

	if subTotal := clusterTotal(recurring, isSubscriptionOnly); subTotal > 0 {
		freed := int64(math.Round(float64(subTotal) * cut))
		tips = append(tips, fmt.Sprintf("Recurring subscriptions add up to %s - trimming them could free up %s/month.",
			core.FormatGBP(subTotal), core.FormatGBP(freed)))
	}

	if foodTotal := clusterTotal(recurring, isFoodDelivery); foodTotal > 0 {
		freed := int64(math.Round(float64(foodTotal) * cut))
		tips = append(tips, fmt.Sprintf("Food delivery orders add up to %s - cooking more often could free up %s/month.",
			core.FormatGBP(foodTotal), core.FormatGBP(freed)))
	}

	if budget.Overspent {
		tips = append(tips, fmt.Sprintf("You spent %s more than your monthly income - review the tips above before adding to savings.",
			core.FormatGBP(budget.Shortfall.Cents)))
	}

	tips = append(tips, reinvestTips...)
	return tips
}

func isFoodDelivery(description string) bool {
	for _, kw := range foodDeliveryKeywords {
		if strings.Contains(description, kw) {
			return true
		}
	}
	return false
}

func clusterTotal(recurring []RecurringCandidate, match func(string) bool) int64 {
	var total int64
	for _, cand := range recurring {
		if match(cand.Description) {
			total += cand.TotalAmount.Cents
		}
	}
	return total
}
