// Package http exposes the analysis engine as a small JSON API consumed by
// the dashboard, settings and trend views.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"wealthsage/internal/analysis"
	"wealthsage/internal/config"
	"wealthsage/internal/log"
	"wealthsage/internal/storage"
)

// SnapshotPublisher is the optional event sink notified after a snapshot is
// appended. A nil publisher disables events.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, session, snapshotID string, totalSpendCents int64) error
}

// Server holds the handler dependencies.
type Server struct {
	engine    *analysis.Engine
	repo      *storage.SQLiteRepository
	publisher SnapshotPublisher
	results   *gocache.Cache
	cfg       *config.Config
	logger    *log.Logger
}

// NewServer wires the API routes and returns a ready-to-run http.Server.
func NewServer(cfg *config.Config, engine *analysis.Engine, repo *storage.SQLiteRepository, publisher SnapshotPublisher, logger *log.Logger) *http.Server {
	s := &Server{
		engine:    engine,
		repo:      repo,
		publisher: publisher,
		results:   gocache.New(cfg.ResultCacheTTL, 2*cfg.ResultCacheTTL),
		cfg:       cfg,
		logger:    logger.WithComponent(log.ComponentHTTP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/analysis", s.handleLatestAnalysis)
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handlePutSettings)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s.logRequests(mux),
	}
}

// session resolves the caller's session key. All entities are owned by a
// session; there is no cross-session sharing.
func (s *Server) session(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("X-Session"))
	if v == "" {
		return "default"
	}
	return v
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.InfoContext(r.Context(), "Request handled",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rec.status,
			log.FieldDuration, time.Since(start).Milliseconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", log.FieldError, err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
