package analysis

import (
	"strings"

	"wealthsage/internal/core"
)

// keywordRule binds a category to the substrings that select it. The rule
// table is data: precedence is the slice order, and adding a merchant means
// adding a keyword, not touching Classify.
type keywordRule struct {
	category core.Category
	keywords []string
}

// classificationRules is evaluated top to bottom; the first matching rule
// wins and unmatched descriptions fall through to Other.
var classificationRules = []keywordRule{
	{core.CategoryGroceries, []string{"tesco", "asda", "sainsbury", "aldi", "lidl", "morrisons", "grocer"}},
	{core.CategoryTransport, []string{"uber", "train", "tfl", "bus", "petrol", "fuel", "rail"}},
	{core.CategorySubscriptions, subscriptionKeywords},
	{core.CategoryHousing, []string{"rent", "mortgage", "council tax"}},
	{core.CategoryHealth, []string{"gym", "fitness", "pharmacy", "dental", "optic"}},
}

// subscriptionKeywords is shared with the recurrence detector: a description
// matching any of these is treated as subscription-like even when it occurs
// only once in a batch.
var subscriptionKeywords = []string{
	"netflix", "spotify", "prime", "deliveroo", "disney", "audible",
	"subscription", "youtube premium", "apple.com/bill",
}

// Classify assigns exactly one category to a transaction by evaluating the
// ordered rule table against its normalized description.
func Classify(tx core.Transaction) core.Category {
	for _, rule := range classificationRules {
		for _, kw := range rule.keywords {
			if strings.Contains(tx.Description, kw) {
				return rule.category
			}
		}
	}
	return core.CategoryOther
}

// IsSubscriptionLike reports whether a normalized description matches a
// known subscription keyword.
func IsSubscriptionLike(description string) bool {
	return containsAny(description, subscriptionKeywords)
}
