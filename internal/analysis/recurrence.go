package analysis

import "wealthsage/internal/core"

// RecurringCandidate is a description appearing more than once within one
// batch, or matching a known subscription keyword regardless of count.
// Derived per run, never persisted.
type RecurringCandidate struct {
	Description     string     `json:"description"`
	OccurrenceCount int        `json:"occurrence_count"`
	TotalAmount     core.Money `json:"total_amount"`
}

// DetectRecurring scans the current batch for repeated or subscription-like
// descriptions. Grouping is by exact normalized description; candidates are
// returned in first-seen order so output stays deterministic.
func DetectRecurring(txs []core.Transaction) []RecurringCandidate {
	type group struct {
		count int
		total int64
	}
	groups := make(map[string]*group)
	var order []string

	for _, tx := range txs {
		g, ok := groups[tx.Description]
		if !ok {
			g = &group{}
			groups[tx.Description] = g
			order = append(order, tx.Description)
		}
		g.count++
		g.total += tx.Amount.Cents
	}

	var candidates []RecurringCandidate
	for _, desc := range order {
		g := groups[desc]
		if g.count > 1 || IsSubscriptionLike(desc) {
			candidates = append(candidates, RecurringCandidate{
				Description:     desc,
				OccurrenceCount: g.count,
				TotalAmount:     core.Money{Cents: g.total},
			})
		}
	}
	return candidates
}
