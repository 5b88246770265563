package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"wealthsage/internal/core"
	"wealthsage/internal/log"
	"wealthsage/internal/parser"
)

func testEngine() *Engine {
	e := NewEngine(log.New(log.DefaultConfig()))
	e.now = func() time.Time { return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC) }
	return e
}

func testSettings() core.Settings {
	return core.Settings{
		Income:          core.Money{Cents: 300000},
		IncomeFrequency: core.Monthly,
		SavingsMode:     core.SavingsMedium,
		Goal: core.Goal{
			Name:         "house deposit",
			TargetAmount: core.Money{Cents: 120000},
			Deadline:     core.NewDate(2026, 9, 1),
		},
	}
}

func statementCSV() parser.File {
	return parser.File{
		Name: "statement.csv",
		Data: []byte("Description,Amount\n" +
			"TESCO STORE 123,-45.20\n" +
			"Netflix.com,9.99\n" +
			"Netflix.com,9.99\n" +
			"Rent May,£1200.00\n"),
	}
}

func TestEngine_Analyze(t *testing.T) {
	e := testEngine()

	res, err := e.Analyze(context.Background(), []parser.File{statementCSV()}, testSettings())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got := res.PerCategory[core.CategoryGroceries].Cents; got != 4520 {
		t.Errorf("groceries = %d, want 4520", got)
	}
	if got := res.PerCategory[core.CategorySubscriptions].Cents; got != 1998 {
		t.Errorf("subscriptions = %d, want 1998", got)
	}
	if got := res.PerCategory[core.CategoryHousing].Cents; got != 120000 {
		t.Errorf("housing = %d, want 120000", got)
	}
	if res.TotalSpend.Cents != 4520+1998+120000 {
		t.Errorf("total spend = %d", res.TotalSpend.Cents)
	}
	// 1200 goal over 6 calendar months
	if res.MonthlyTarget.Cents != 20000 {
		t.Errorf("monthly target = %d, want 20000", res.MonthlyTarget.Cents)
	}
	if res.OverspendAlert != "" {
		t.Errorf("unexpected overspend alert %q", res.OverspendAlert)
	}
	if len(res.Recurring) != 1 || res.Recurring[0].OccurrenceCount != 2 {
		t.Errorf("recurring = %+v", res.Recurring)
	}
	if len(res.FileErrors) != 0 {
		t.Errorf("file errors = %v", res.FileErrors)
	}
}

func TestEngine_AnalyzeIdempotent(t *testing.T) {
	e := testEngine()
	files := []parser.File{statementCSV()}
	settings := testSettings()

	first, err := e.Analyze(context.Background(), files, settings)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Analyze(context.Background(), files, settings)
	if err != nil {
		t.Fatal(err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Errorf("same inputs produced different results:\n%s\n%s", a, b)
	}
}

func TestEngine_ExclusionsNeverCounted(t *testing.T) {
	e := testEngine()
	settings := testSettings()
	settings.Exclusions = []string{"netflix"}

	res, err := e.Analyze(context.Background(), []parser.File{statementCSV()}, settings)
	if err != nil {
		t.Fatal(err)
	}

	if got := res.PerCategory[core.CategorySubscriptions].Cents; got != 0 {
		t.Errorf("excluded spend leaked into totals: %d", got)
	}
	for _, c := range res.Recurring {
		if c.Description == "netflix.com" {
			t.Error("excluded transaction surfaced as recurring candidate")
		}
	}
}

func TestEngine_BadFileDoesNotAbortBatch(t *testing.T) {
	e := testEngine()
	files := []parser.File{
		{Name: "statement.xlsx", Data: []byte("binary")},
		statementCSV(),
	}

	res, err := e.Analyze(context.Background(), files, testSettings())
	if err != nil {
		t.Fatalf("batch should survive one bad file: %v", err)
	}
	if len(res.FileErrors) != 1 {
		t.Errorf("file errors = %v, want exactly one", res.FileErrors)
	}
	if res.TotalSpend.Cents == 0 {
		t.Error("good file should still contribute totals")
	}
}

func TestEngine_TooManyFilesIsBatchFatal(t *testing.T) {
	e := testEngine()
	files := make([]parser.File, 4)
	for i := range files {
		files[i] = statementCSV()
	}

	_, err := e.Analyze(context.Background(), files, testSettings())
	if !errors.Is(err, parser.ErrTooManyFiles) {
		t.Errorf("err = %v, want ErrTooManyFiles", err)
	}
}

func TestResult_Snapshot(t *testing.T) {
	e := testEngine()
	res, err := e.Analyze(context.Background(), []parser.File{statementCSV()}, testSettings())
	if err != nil {
		t.Fatal(err)
	}

	at := time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC)
	snap := res.Snapshot("snap-1", at)

	if snap.ID != "snap-1" || !snap.CreatedAt.Equal(at) {
		t.Errorf("snapshot meta = %+v", snap)
	}
	if snap.TotalSpend != res.TotalSpend {
		t.Errorf("snapshot total = %d, want %d", snap.TotalSpend.Cents, res.TotalSpend.Cents)
	}
	// Mutating the snapshot copy must not touch the result.
	snap.PerCategory[core.CategoryGroceries] = core.Money{Cents: 1}
	if res.PerCategory[core.CategoryGroceries].Cents == 1 {
		t.Error("snapshot shares category map with result")
	}
}
