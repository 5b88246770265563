package analysis

import (
	"context"
	"time"

	"wealthsage/internal/core"
	"wealthsage/internal/log"
	"wealthsage/internal/parser"
)

// Result is the full output of one analysis run, consumed by the rendering
// layers and by snapshot history.
type Result struct {
	PerCategory     map[core.Category]core.Money `json:"per_category"`
	TotalSpend      core.Money                   `json:"total_spend"`
	MonthlyIncome   core.Money                   `json:"monthly_income"`
	Remaining       core.Money                   `json:"remaining"`
	OverspendAlert  string                       `json:"overspend_alert,omitempty"`
	Recurring       []RecurringCandidate         `json:"recurring"`
	Recommendations []string                     `json:"recommendations"`
	MonthlyTarget   core.Money                   `json:"monthly_target"`
	GoalProgress    map[core.Category]float64    `json:"goal_progress"`
	FileErrors      []string                     `json:"file_errors,omitempty"`
}

// Engine runs the statement-to-recommendations pipeline. It holds no state
// between runs: every Analyze call is a complete recomputation over the
// given files and settings.
type Engine struct {
	parser *parser.Parser
	logger *log.Logger
	now    func() time.Time
}

func NewEngine(logger *log.Logger) *Engine {
	return &Engine{
		parser: parser.New(),
		logger: logger.WithComponent(log.ComponentAnalysis),
		now:    time.Now,
	}
}

// Analyze is a pure function of (files, settings) apart from logging.
// Settings arrive by value, so a run is unaffected by concurrent settings
// updates. Per-file and per-row parse failures are carried in the result,
// never returned as an error; only a batch-level problem (too many files)
// fails the call.
func (e *Engine) Analyze(ctx context.Context, files []parser.File, settings core.Settings) (Result, error) {
	records, fileErrs, err := e.parser.ParseBatch(ctx, files)
	if err != nil {
		return Result{}, err
	}

	txs := Normalize(records, settings.Exclusions)
	budget := Aggregate(txs, settings.Income, settings.IncomeFrequency)
	recurring := DetectRecurring(txs)
	now := e.now()

	result := Result{
		PerCategory:     budget.PerCategory,
		TotalSpend:      budget.TotalSpend,
		MonthlyIncome:   budget.MonthlyIncome,
		Remaining:       budget.Remaining,
		Recurring:       recurring,
		Recommendations: Recommend(budget, recurring, settings.SavingsMode),
		MonthlyTarget:   MonthlyTarget(settings.Goal, now),
		GoalProgress:    GoalProgress(budget.PerCategory, settings.Goal.TargetAmount),
	}
	if budget.Overspent {
		result.OverspendAlert = "Over budget by " + core.FormatGBP(budget.Shortfall.Cents) + " this month"
	}
	for _, fe := range fileErrs {
		result.FileErrors = append(result.FileErrors, fe.Error())
	}

	e.logger.InfoContext(ctx, "Analysis run completed",
		log.FieldFileCount, len(files),
		log.FieldRecordCount, len(records),
		log.FieldTxCount, len(txs),
		log.FieldAmountCents, budget.TotalSpend.Cents,
		"file_errors", len(fileErrs))

	return result, nil
}

// Snapshot derives the immutable history record for a result.
func (r Result) Snapshot(id string, at time.Time) core.Snapshot {
	perCategory := make(map[core.Category]core.Money, len(r.PerCategory))
	for c, m := range r.PerCategory {
		perCategory[c] = m
	}
	return core.Snapshot{
		ID:          id,
		CreatedAt:   at,
		TotalSpend:  r.TotalSpend,
		PerCategory: perCategory,
	}
}
