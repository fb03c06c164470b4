package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pusula/internal/config"
	"pusula/internal/model"
)

func TestNewServer_Routes(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.DevMode = true
	cfg.Data.DataDir = t.TempDir()

	s, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["currentLoaded"] != false {
		t.Fatalf("unexpected status %v", body)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS header")
	}

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/tasks", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight = %d", w.Code)
	}

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("root = %d", w.Code)
	}
}

func TestSessionSummary(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.DevMode = true
	cfg.Data.DataDir = t.TempDir()

	s, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	if got := s.SessionSummary(); len(got) != 0 {
		t.Fatalf("empty session summary = %v", got)
	}

	s.session.SetCurrent(&model.Schedule{SourceName: "guncel.xlsx", Tasks: []*model.Task{{ID: "1"}, {ID: "2"}}})
	got := s.SessionSummary()
	if len(got) != 1 || got[0] != "Güncel plan: guncel.xlsx (2 aktivite)" {
		t.Fatalf("summary = %v", got)
	}

	s.session.SetBaseline(&model.Schedule{SourceName: "base.xlsx"})
	if got := s.SessionSummary(); len(got) != 2 || got[1] != "Baseline: base.xlsx (0 aktivite)" {
		t.Fatalf("summary = %v", got)
	}
}
