package analysis

import (
	"testing"

	"wealthsage/internal/core"
)

func tx(desc string) core.Transaction {
	return core.Transaction{Description: core.NormalizeDescription(desc)}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		desc string
		want core.Category
	}{
		{"tesco store 123", core.CategoryGroceries},
		{"ASDA SUPERSTORE", core.CategoryGroceries},
		{"uber trip london", core.CategoryTransport},
		{"trainline tickets", core.CategoryTransport},
		{"netflix.com", core.CategorySubscriptions},
		{"spotify p2b4f8", core.CategorySubscriptions},
		{"amazon prime", core.CategorySubscriptions},
		{"deliveroo order", core.CategorySubscriptions},
		{"rent may", core.CategoryHousing},
		{"mortgage payment", core.CategoryHousing},
		{"puregym ltd", core.CategoryHealth},
		{"boots pharmacy", core.CategoryHealth},
		{"completely unknown merchant", core.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := Classify(tx(tt.desc)); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.desc, got, tt.want)
			}
		})
	}
}

// Precedence is part of the contract: the first matching rule in table
// order wins even when later rules would also match.
func TestClassify_Precedence(t *testing.T) {
	tests := []struct {
		desc string
		want core.Category
	}{
		{"tesco fuel station", core.CategoryGroceries},     // groceries before transport
		{"uber eats via prime", core.CategoryTransport},    // transport before subscriptions
		{"netflix rent-a-movie", core.CategorySubscriptions}, // subscriptions before housing
		{"rental gym equipment", core.CategoryHousing},     // housing before health
	}
	for _, tt := range tests {
		if got := Classify(tx(tt.desc)); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.desc, got, tt.want)
		}
	}
}

func TestIsSubscriptionLike(t *testing.T) {
	if !IsSubscriptionLike("netflix.com") {
		t.Error("netflix.com should be subscription-like")
	}
	if IsSubscriptionLike("tesco store") {
		t.Error("tesco store should not be subscription-like")
	}
}
