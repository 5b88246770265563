// Package storage persists per-session settings and the append-only
// snapshot history on SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"wealthsage/internal/core"
)

// ErrNoSettings is returned when a session has never saved settings.
// Callers usually fall back to core.DefaultSettings.
var ErrNoSettings = errors.New("no settings stored for session")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// GetSettings returns the stored settings for a session, or ErrNoSettings.
func (r *SQLiteRepository) GetSettings(ctx context.Context, session string) (core.Settings, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT income_cents, income_frequency, goal_name, goal_target_cents,
		       goal_deadline, exclusions, savings_mode
		FROM settings WHERE session = ?`, session)

	var (
		s            core.Settings
		incomeCents  int64
		frequency    string
		goalName     string
		targetCents  int64
		deadlineText string
		exclusionsJS string
		mode         string
	)
	err := row.Scan(&incomeCents, &frequency, &goalName, &targetCents, &deadlineText, &exclusionsJS, &mode)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Settings{}, ErrNoSettings
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("query settings: %w", err)
	}

	s.Income = core.Money{Cents: incomeCents}
	s.IncomeFrequency = core.Frequency(frequency)
	s.SavingsMode = core.SavingsMode(mode)
	s.Goal = core.Goal{Name: goalName, TargetAmount: core.Money{Cents: targetCents}}
	if deadlineText != "" {
		t, err := time.Parse("2006-01-02", deadlineText)
		if err != nil {
			return core.Settings{}, fmt.Errorf("parse goal deadline %q: %w", deadlineText, err)
		}
		s.Goal.Deadline = core.Date{Time: t}
	}
	if err := json.Unmarshal([]byte(exclusionsJS), &s.Exclusions); err != nil {
		return core.Settings{}, fmt.Errorf("decode exclusions: %w", err)
	}
	return s, nil
}

// SaveSettings upserts the settings row for a session.
func (r *SQLiteRepository) SaveSettings(ctx context.Context, session string, s core.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	exclusions, err := json.Marshal(s.Exclusions)
	if err != nil {
		return fmt.Errorf("encode exclusions: %w", err)
	}
	if s.Exclusions == nil {
		exclusions = []byte("[]")
	}
	deadline := ""
	if !s.Goal.Deadline.IsEmpty() {
		deadline = s.Goal.Deadline.Format("2006-01-02")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings (session, income_cents, income_frequency, goal_name,
		                      goal_target_cents, goal_deadline, exclusions, savings_mode, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(session) DO UPDATE SET
		    income_cents = excluded.income_cents,
		    income_frequency = excluded.income_frequency,
		    goal_name = excluded.goal_name,
		    goal_target_cents = excluded.goal_target_cents,
		    goal_deadline = excluded.goal_deadline,
		    exclusions = excluded.exclusions,
		    savings_mode = excluded.savings_mode,
		    updated_at = CURRENT_TIMESTAMP`,
		session, s.Income.Cents, string(s.IncomeFrequency), s.Goal.Name,
		s.Goal.TargetAmount.Cents, deadline, string(exclusions), string(s.SavingsMode))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	slog.InfoContext(ctx, "Settings saved", "session", session)
	return nil
}

// AppendSnapshot adds a snapshot to the session's history. The operation is
// a single INSERT; nothing ever updates or deletes a snapshot row.
func (r *SQLiteRepository) AppendSnapshot(ctx context.Context, session string, snap core.Snapshot) error {
	perCategory, err := json.Marshal(snap.PerCategory)
	if err != nil {
		return fmt.Errorf("encode per-category totals: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, session, created_at, total_spend_cents, per_category)
		VALUES (?, ?, ?, ?, ?)`,
		snap.ID, session, snap.CreatedAt.UTC().Format(time.RFC3339Nano),
		snap.TotalSpend.Cents, string(perCategory))
	if err != nil {
		return fmt.Errorf("append snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot appended",
		"session", session,
		"snapshot_id", snap.ID,
		"total_spend_cents", snap.TotalSpend.Cents)
	return nil
}

// ListSnapshots returns the session's full snapshot sequence in append
// order, for trend rendering.
func (r *SQLiteRepository) ListSnapshots(ctx context.Context, session string) ([]core.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at, total_spend_cents, per_category
		FROM snapshots WHERE session = ? ORDER BY seq`, session)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []core.Snapshot
	for rows.Next() {
		var (
			snap        core.Snapshot
			createdAt   string
			totalCents  int64
			perCategory string
		)
		if err := rows.Scan(&snap.ID, &createdAt, &totalCents, &perCategory); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse snapshot timestamp %q: %w", createdAt, err)
		}
		snap.TotalSpend = core.Money{Cents: totalCents}
		if err := json.Unmarshal([]byte(perCategory), &snap.PerCategory); err != nil {
			return nil, fmt.Errorf("decode per-category totals: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}
