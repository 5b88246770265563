package analysis

import (
	"math"
	"time"

	"wealthsage/internal/core"
)

// MonthsUntil returns the calendar-month difference between now and the
// deadline, using year*12+month arithmetic rather than elapsed days. A
// deadline in the current month or the past yields zero or a negative
// value.
func MonthsUntil(deadline core.Date, now time.Time) int {
	return (deadline.Year()-now.Year())*12 + int(deadline.Month()) - int(now.Month())
}

// MonthlyTarget computes how much must be set aside each month to reach the
// goal by its deadline. When the deadline has passed or falls within the
// current month, the full target amount is due immediately.
func MonthlyTarget(goal core.Goal, now time.Time) core.Money {
	months := MonthsUntil(goal.Deadline, now)
	if months <= 0 {
		return goal.TargetAmount
	}
	return core.Money{Cents: int64(math.Round(float64(goal.TargetAmount.Cents) / float64(months)))}
}

// GoalProgress reports, per category, how much of the goal amount that
// category's spend represents, clamped to [0,100]. A zero target yields 0
// for every category.
func GoalProgress(perCategory map[core.Category]core.Money, target core.Money) map[core.Category]float64 {
	progress := make(map[core.Category]float64, len(core.Categories))
	for _, c := range core.Categories {
		progress[c] = 0
		if target.Cents <= 0 {
			continue
		}
		pct := float64(perCategory[c].Cents) / float64(target.Cents) * 100
		progress[c] = math.Min(100, pct)
	}
	return progress
}
