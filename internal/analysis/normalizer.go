// Package analysis implements the budgeting-analysis pipeline: it turns raw
// statement records into categorized totals, recurring-payment candidates,
// goal progress and textual recommendations.
//
// Everything in this package is a pure function of its inputs; the only
// stateful collaborator (snapshot history) lives in the storage package.
package analysis

import (
	"strings"

	"wealthsage/internal/core"
)

// Normalize converts raw records into canonical transactions, preserving
// input order. Field defaults are centralized here: a blank description
// becomes "Other" (then lower-cased), an unparsable or missing amount
// becomes 0, and amounts are always absolute values. A record whose
// normalized description contains any exclusion keyword is dropped entirely
// and never reaches classification or totals.
func Normalize(records []core.RawRecord, exclusions []string) []core.Transaction {
	lowered := make([]string, 0, len(exclusions))
	for _, kw := range exclusions {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}

	txs := make([]core.Transaction, 0, len(records))
	for _, rec := range records {
		desc := core.NormalizeDescription(rec.Description)
		if containsAny(desc, lowered) {
			continue
		}
		cents, err := core.ParseAmount(rec.AmountText)
		if err != nil {
			cents = 0
		}
		txs = append(txs, core.Transaction{
			Description: desc,
			Amount:      core.Money{Cents: cents},
			SourceFile:  rec.SourceFile,
		})
	}
	return txs
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
