package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wealthsage/internal/analysis"
	"wealthsage/internal/config"
	"wealthsage/internal/core"
	"wealthsage/internal/log"
	"wealthsage/internal/storage"
)

func testServer(t *testing.T) http.Handler {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	cfg := &config.Config{
		Port:           "0",
		MaxUploadFiles: 3,
		MaxUploadBytes: 1 << 20,
		ResultCacheTTL: time.Minute,
	}
	logger := log.New(log.DefaultConfig())
	srv := NewServer(cfg, analysis.NewEngine(logger), repo, nil, logger)
	return srv.Handler
}

// multipartCSV builds a multipart body carrying one CSV statement.
func multipartCSV(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fw, err := writer.CreateFormFile("files", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	writer.Close()
	return &buf, writer.FormDataContentType()
}

const statementCSV = "Description,Amount\n" +
	"TESCO STORE 123,-45.20\n" +
	"Netflix.com,9.99\n" +
	"Netflix.com,9.99\n"

func TestAnalyzeEndpoint(t *testing.T) {
	handler := testServer(t)

	// Store settings first so the run uses a real income.
	settings := `{"income_cents":300000,"income_frequency":"monthly","goal_name":"deposit",` +
		`"goal_target_cents":120000,"goal_deadline":"2030-09-01","exclusions":[],"savings_mode":"medium"}`
	req := httptest.NewRequest("PUT", "/api/settings", strings.NewReader(settings))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT settings = %d: %s", w.Code, w.Body.String())
	}

	body, contentType := multipartCSV(t, "statement.csv", statementCSV)
	req = httptest.NewRequest("POST", "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("POST analyze = %d: %s", w.Code, w.Body.String())
	}
	var result analysis.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if got := result.PerCategory[core.CategoryGroceries].Cents; got != 4520 {
		t.Errorf("groceries = %d, want 4520", got)
	}
	if len(result.Recurring) != 1 || result.Recurring[0].Description != "netflix.com" {
		t.Errorf("recurring = %+v", result.Recurring)
	}
	if len(result.Recommendations) == 0 {
		t.Error("expected recommendations")
	}

	// The run must have appended exactly one history snapshot.
	req = httptest.NewRequest("GET", "/api/history", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET history = %d", w.Code)
	}
	var snaps []core.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snaps); err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 || snaps[0].TotalSpend != result.TotalSpend {
		t.Errorf("history = %+v", snaps)
	}

	// And the latest result is served from cache.
	req = httptest.NewRequest("GET", "/api/analysis", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("GET analysis = %d, want 200", w.Code)
	}
}

func TestAnalyzeEndpoint_NoFiles(t *testing.T) {
	handler := testServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.Close()

	req := httptest.NewRequest("POST", "/api/analyze", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnalyzeEndpoint_TooManyFiles(t *testing.T) {
	handler := testServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for i := 0; i < 4; i++ {
		fw, _ := writer.CreateFormFile("files", "s.csv")
		fw.Write([]byte(statementCSV))
	}
	writer.Close()

	req := httptest.NewRequest("POST", "/api/analyze", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLatestAnalysis_EmptySession(t *testing.T) {
	handler := testServer(t)

	req := httptest.NewRequest("GET", "/api/analysis", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestSettingsEndpoint(t *testing.T) {
	handler := testServer(t)

	// Defaults before anything is stored.
	req := httptest.NewRequest("GET", "/api/settings", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET settings = %d", w.Code)
	}
	var p settingsPayload
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.SavingsMode != string(core.SavingsMedium) {
		t.Errorf("default savings mode = %q", p.SavingsMode)
	}

	// Invalid payloads are rejected with details.
	bad := `{"income_cents":-5,"income_frequency":"monthly","savings_mode":"medium","exclusions":[]}`
	req = httptest.NewRequest("PUT", "/api/settings", strings.NewReader(bad))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("PUT invalid settings = %d, want 400", w.Code)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	handler := testServer(t)

	body, contentType := multipartCSV(t, "statement.csv", statementCSV)
	req := httptest.NewRequest("POST", "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Session", "alice")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("analyze = %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/history", nil)
	req.Header.Set("X-Session", "bob")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var snaps []core.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snaps); err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 0 {
		t.Errorf("bob sees alice's history: %+v", snaps)
	}
}
