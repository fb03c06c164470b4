package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, info, err := LoadConfigFrom(filepath.Join(t.TempDir(), "yok.toml"))
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if info.PortSpecified {
		t.Error("port should not be marked as specified")
	}
	def := DefaultConfig()
	if cfg.Server.Port != def.Server.Port || cfg.Analysis.SlackThreshold != 30 || cfg.Analysis.TopN != 10 || cfg.Analysis.LookaheadDays != 7 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadConfigFrom_File(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9000
dev_mode = true

[analysis]
slack_threshold = 15
top_n = 0
due_only = true

[excel]
sheet_name = "Program"
`)
	cfg, info, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if !info.PortSpecified || cfg.Server.Port != 9000 || !cfg.Server.DevMode {
		t.Errorf("server = %+v, info = %+v", cfg.Server, info)
	}
	if cfg.Analysis.SlackThreshold != 15 || cfg.Analysis.TopN != 0 || !cfg.Analysis.DueOnly {
		t.Errorf("analysis = %+v", cfg.Analysis)
	}
	// 未出现的键保持默认值
	if cfg.Analysis.LookaheadDays != 7 || cfg.Analysis.SummaryTaskID != "1" {
		t.Errorf("defaults lost: %+v", cfg.Analysis)
	}
	if cfg.Excel.SheetName != "Program" {
		t.Errorf("sheet name = %q", cfg.Excel.SheetName)
	}

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	co := cfg.CompareOptions(now)
	if co.Limit != 0 || co.SlackThreshold != 15 || !co.DueOnly || !co.LeavesOnly || !co.Now.Equal(now) {
		t.Errorf("compare options = %+v", co)
	}
	ro := cfg.ReportOptions(now)
	if ro.LookaheadDays != 7 || ro.SlackThreshold != 15 {
		t.Errorf("report options = %+v", ro)
	}
}

func TestLoadConfigFrom_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)
	t.Setenv(EnvSlackThreshold, "12.5")

	cfg, _, err := LoadConfigFrom(writeConfig(t, "[analysis]\nslack_threshold = 40\n"))
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.Analysis.SlackThreshold != 12.5 {
		t.Errorf("slack threshold = %v, want 12.5", cfg.Analysis.SlackThreshold)
	}
	if cfg.DataDir() != dir {
		t.Errorf("data dir = %q, want %q", cfg.DataDir(), dir)
	}

	got, err := EnsureDataDir(cfg)
	if err != nil {
		t.Fatalf("EnsureDataDir: %v", err)
	}
	for _, sub := range []string{"uploads", "exports"} {
		if st, err := os.Stat(filepath.Join(got, sub)); err != nil || !st.IsDir() {
			t.Errorf("missing %s: %v", sub, err)
		}
	}
}

func TestLoadConfigFrom_InvalidEnv(t *testing.T) {
	t.Setenv(EnvSlackThreshold, "otuz")
	if _, _, err := LoadConfigFrom(filepath.Join(t.TempDir(), "yok.toml")); err == nil {
		t.Fatal("expected error for invalid slack threshold")
	}
}

func TestLoadConfigFrom_InvalidToml(t *testing.T) {
	if _, _, err := LoadConfigFrom(writeConfig(t, "[server\nport = ")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Excel.SheetName = "Görevler"
	cfg.Data.KeepUploads = true

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, info, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if !info.PortSpecified || got.Excel.SheetName != "Görevler" || !got.Data.KeepUploads {
		t.Fatalf("round trip = %+v", got)
	}
}
