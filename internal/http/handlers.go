package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"wealthsage/internal/core"
	"wealthsage/internal/log"
	"wealthsage/internal/parser"
	"wealthsage/internal/storage"
)

// handleAnalyze runs the full pipeline over the uploaded statements using
// the session's stored settings, appends a history snapshot and caches the
// result for the dashboard.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := s.session(r)

	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart upload: "+err.Error())
		return
	}
	uploads := r.MultipartForm.File["files"]
	if len(uploads) == 0 {
		s.writeError(w, http.StatusBadRequest, "no files uploaded; use the 'files' form field")
		return
	}
	if len(uploads) > s.cfg.MaxUploadFiles {
		s.writeError(w, http.StatusBadRequest, "too many files; the batch is capped at 3")
		return
	}

	var files []parser.File
	for _, fh := range uploads {
		f, err := fh.Open()
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "cannot read upload "+fh.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "cannot read upload "+fh.Filename)
			return
		}
		files = append(files, parser.File{Name: fh.Filename, Data: data})
	}

	settings, err := s.repo.GetSettings(ctx, session)
	if errors.Is(err, storage.ErrNoSettings) {
		settings = core.DefaultSettings()
	} else if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load settings", log.FieldSession, session, log.FieldError, err)
		s.writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	result, err := s.engine.Analyze(ctx, files, settings)
	if errors.Is(err, parser.ErrTooManyFiles) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	} else if err != nil {
		s.logger.ErrorContext(ctx, "Analysis failed", log.FieldSession, session, log.FieldError, err)
		s.writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	snap := result.Snapshot(uuid.NewString(), time.Now().UTC())
	if err := s.repo.AppendSnapshot(ctx, session, snap); err != nil {
		s.logger.ErrorContext(ctx, "Failed to append snapshot", log.FieldSession, session, log.FieldError, err)
		s.writeError(w, http.StatusInternalServerError, "failed to record analysis history")
		return
	}

	if s.publisher != nil {
		// Best-effort: a broker outage must not fail the analysis.
		if err := s.publisher.PublishSnapshot(ctx, session, snap.ID, snap.TotalSpend.Cents); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish snapshot event",
				log.FieldSession, session,
				log.FieldSnapshotID, snap.ID,
				log.FieldError, err)
		}
	}

	s.results.SetDefault(session, result)
	s.writeJSON(w, http.StatusOK, result)
}

// handleLatestAnalysis serves the cached result of the session's most
// recent run, so the dashboard can re-render without re-uploading.
func (s *Server) handleLatestAnalysis(w http.ResponseWriter, r *http.Request) {
	if cached, ok := s.results.Get(s.session(r)); ok {
		s.writeJSON(w, http.StatusOK, cached)
		return
	}
	s.writeError(w, http.StatusNotFound, "no recent analysis for this session")
}

type settingsPayload struct {
	IncomeCents     int64    `json:"income_cents"`
	IncomeFrequency string   `json:"income_frequency"`
	GoalName        string   `json:"goal_name"`
	GoalTargetCents int64    `json:"goal_target_cents"`
	GoalDeadline    string   `json:"goal_deadline,omitempty"` // YYYY-MM-DD
	Exclusions      []string `json:"exclusions"`
	SavingsMode     string   `json:"savings_mode"`
}

func toPayload(s core.Settings) settingsPayload {
	p := settingsPayload{
		IncomeCents:     s.Income.Cents,
		IncomeFrequency: string(s.IncomeFrequency),
		GoalName:        s.Goal.Name,
		GoalTargetCents: s.Goal.TargetAmount.Cents,
		Exclusions:      s.Exclusions,
		SavingsMode:     string(s.SavingsMode),
	}
	if p.Exclusions == nil {
		p.Exclusions = []string{}
	}
	if !s.Goal.Deadline.IsEmpty() {
		p.GoalDeadline = s.Goal.Deadline.Format("2006-01-02")
	}
	return p
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.repo.GetSettings(r.Context(), s.session(r))
	if errors.Is(err, storage.ErrNoSettings) {
		settings = core.DefaultSettings()
	} else if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	s.writeJSON(w, http.StatusOK, toPayload(settings))
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var p settingsPayload
	if err := decodeJSON(r, &p); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid settings payload: "+err.Error())
		return
	}

	settings := core.Settings{
		Income:          core.Money{Cents: p.IncomeCents},
		IncomeFrequency: core.Frequency(p.IncomeFrequency),
		SavingsMode:     core.SavingsMode(p.SavingsMode),
		Exclusions:      p.Exclusions,
		Goal: core.Goal{
			Name:         p.GoalName,
			TargetAmount: core.Money{Cents: p.GoalTargetCents},
		},
	}
	if p.GoalDeadline != "" {
		t, err := time.Parse("2006-01-02", p.GoalDeadline)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid goal_deadline, want YYYY-MM-DD")
			return
		}
		settings.Goal.Deadline = core.Date{Time: t}
	}
	if err := settings.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.SaveSettings(r.Context(), s.session(r), settings); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	s.writeJSON(w, http.StatusOK, toPayload(settings))
}

// handleHistory returns the session's full snapshot sequence for the trend
// view.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.repo.ListSnapshots(r.Context(), s.session(r))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if snaps == nil {
		snaps = []core.Snapshot{}
	}
	s.writeJSON(w, http.StatusOK, snaps)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
