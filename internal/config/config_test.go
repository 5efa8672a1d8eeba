package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBind != "" {
		t.Fatalf("APIBind = %q, want empty", cfg.APIBind)
	}
	if cfg.UsesAPI() {
		t.Fatalf("UsesAPI = true, want false without api_bind")
	}

	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
	if cfg.Database != filepath.Join(home, ".local/share/recgrid/records.db") {
		t.Fatalf("Database = %q, want it under HOME", cfg.Database)
	}
	if cfg.ViewStore != "toml" || cfg.ExportFormat != "csv" {
		t.Fatalf("ViewStore/ExportFormat = %q/%q, want toml/csv", cfg.ViewStore, cfg.ExportFormat)
	}
	if cfg.SaveDebounce != 500*time.Millisecond {
		t.Fatalf("SaveDebounce = %v, want 500ms", cfg.SaveDebounce)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Fatalf("PollInterval = %v, want 5s", cfg.PollInterval)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
database = "  ~/data/records.db  "
api_bind = "  10.0.0.5:9999  "
view_store = " SQLite "
view_store_path = "~/views.db"
log_dir = "  ~/.recgrid/logs  "
export_dir = "~/out"
export_format = "yaml"
save_debounce_ms = 250
poll_seconds = 10

[nav_keys]
p = "people"
x = "tasks"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBind != "10.0.0.5:9999" {
		t.Fatalf("APIBind = %q, want %q", cfg.APIBind, "10.0.0.5:9999")
	}
	if !cfg.UsesAPI() {
		t.Fatalf("UsesAPI = false, want true")
	}
	if cfg.Database != filepath.Join(home, "data/records.db") {
		t.Fatalf("Database = %q, want under HOME", cfg.Database)
	}
	if cfg.ViewStore != "sqlite" {
		t.Fatalf("ViewStore = %q, want sqlite", cfg.ViewStore)
	}
	if cfg.ViewStorePath != filepath.Join(home, "views.db") {
		t.Fatalf("ViewStorePath = %q, want under HOME", cfg.ViewStorePath)
	}
	if !strings.HasPrefix(cfg.LogDir, home) {
		t.Fatalf("LogDir = %q, want it under HOME %q", cfg.LogDir, home)
	}
	if cfg.ExportDir != filepath.Join(home, "out") || cfg.ExportFormat != "yaml" {
		t.Fatalf("ExportDir/ExportFormat = %q/%q", cfg.ExportDir, cfg.ExportFormat)
	}
	if cfg.SaveDebounce != 250*time.Millisecond {
		t.Fatalf("SaveDebounce = %v, want 250ms", cfg.SaveDebounce)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Fatalf("PollInterval = %v, want 10s", cfg.PollInterval)
	}
	if cfg.NavKeys["x"] != "tasks" || len(cfg.NavKeys) != 2 {
		t.Fatalf("NavKeys = %v, want p and x", cfg.NavKeys)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
api_bind = "   "
log_dir = ""
view_store = ""
save_debounce_ms = 0
poll_seconds = -3
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.UsesAPI() {
		t.Fatalf("UsesAPI = true, want false for blank api_bind")
	}
	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
	if cfg.ViewStore != defaultViewStore {
		t.Fatalf("ViewStore = %q, want %q", cfg.ViewStore, defaultViewStore)
	}
	if cfg.SaveDebounce != defaultSaveDebounce || cfg.PollInterval != defaultPollInterval {
		t.Fatalf("durations = %v/%v, want defaults", cfg.SaveDebounce, cfg.PollInterval)
	}
	if cfg.NavKeys != nil {
		t.Fatalf("NavKeys = %v, want nil", cfg.NavKeys)
	}
}

func TestLoad_RejectsUnknownChoices(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"view store", `view_store = "redis"`, "view_store"},
		{"export format", `export_format = "xlsx"`, "export_format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatalf("Load returned nil error, want %s error", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %q, want it to mention %s", err.Error(), tt.want)
			}
		})
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, `api_bind = [`))
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenLogDirEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/recgrid/logs")) {
		t.Fatalf("LogPath = %q, want it to end with /recgrid/logs", got)
	}
}
