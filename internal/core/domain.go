package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	SavingsLow    SavingsMode = "low"
	SavingsMedium SavingsMode = "medium"
	SavingsHigh   SavingsMode = "high"
)

// Category labels, in classification precedence order. Groceries is checked
// before Transport, Transport before Subscriptions, and so on; a description
// matching nothing falls through to Other.
const (
	CategoryGroceries     Category = "Groceries"
	CategoryTransport     Category = "Transport"
	CategorySubscriptions Category = "Subscriptions"
	CategoryHousing       Category = "Housing"
	CategoryHealth        Category = "Health"
	CategoryOther         Category = "Other"
)

// Categories is the fixed classification set in evaluation and display order.
var Categories = []Category{
	CategoryGroceries,
	CategoryTransport,
	CategorySubscriptions,
	CategoryHousing,
	CategoryHealth,
	CategoryOther,
}

type (
	Frequency   string
	SavingsMode string
	Category    string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64 `json:"cents"`
	}

	// RawRecord is a pre-validation candidate row as emitted by the
	// statement parser. AmountText is whatever the source file carried.
	RawRecord struct {
		Description string
		AmountText  string
		SourceFile  string
	}

	// Transaction is a normalized spending record. Description is
	// lower-cased and trimmed; Amount is always the absolute value of the
	// parsed number, sign carries no meaning downstream.
	Transaction struct {
		Description string
		Amount      Money
		SourceFile  string
	}

	Goal struct {
		Name         string
		TargetAmount Money
		Deadline     Date
	}

	// Settings are the per-session inputs the analysis pipeline reads.
	// They are passed by value into Analyze so a run sees a consistent
	// snapshot even if the stored settings change mid-flight.
	Settings struct {
		Income          Money
		IncomeFrequency Frequency
		Goal            Goal
		Exclusions      []string
		SavingsMode     SavingsMode
	}

	// Snapshot is the immutable record of one analysis run, appended to
	// history and never mutated or deleted.
	Snapshot struct {
		ID          string
		CreatedAt   time.Time
		TotalSpend  Money
		PerCategory map[Category]Money
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidFrequency = errors.New("invalid income frequency")
	ErrInvalidMode      = errors.New("invalid savings mode")
	ErrNegativeIncome   = errors.New("income cannot be negative")
	ErrNegativeTarget   = errors.New("goal target cannot be negative")
)

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty reports whether the date was never set.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (f Frequency) Validate() error {
	switch f {
	case Weekly, Monthly, Yearly:
		return nil
	default:
		return ErrInvalidFrequency
	}
}

func (m SavingsMode) Validate() error {
	switch m {
	case SavingsLow, SavingsMedium, SavingsHigh:
		return nil
	default:
		return ErrInvalidMode
	}
}

// CutFraction maps a savings mode to the fraction of unnecessary spend the
// recommendation engine suggests cutting.
func (m SavingsMode) CutFraction() float64 {
	switch m {
	case SavingsHigh:
		return 0.75
	case SavingsMedium:
		return 0.5
	default:
		return 0.25
	}
}

func (s Settings) Validate() error {
	if s.Income.Cents < 0 {
		return ErrNegativeIncome
	}
	if err := s.IncomeFrequency.Validate(); err != nil {
		return err
	}
	if err := s.SavingsMode.Validate(); err != nil {
		return err
	}
	if s.Goal.TargetAmount.Cents < 0 {
		return ErrNegativeTarget
	}
	return nil
}

// DefaultSettings returns the settings a fresh session starts with.
func DefaultSettings() Settings {
	return Settings{
		IncomeFrequency: Monthly,
		SavingsMode:     SavingsMedium,
	}
}

// NormalizeDescription applies the canonical description form used across
// the pipeline: trimmed, lower-cased, blank defaulted to "Other".
func NormalizeDescription(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		s = "Other"
	}
	return strings.ToLower(s)
}
