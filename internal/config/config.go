package config

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings recgrid reads from config.toml.
type Config struct {
	Database      string
	APIBind       string
	ViewStore     string
	ViewStorePath string
	LogDir        string
	ExportDir     string
	ExportFormat  string
	SaveDebounce  time.Duration
	PollInterval  time.Duration
	// NavKeys maps single letters to table names. Nil keeps the catalog's
	// own letters.
	NavKeys map[string]string
}

const (
	defaultConfigPath    = "~/.config/recgrid/config.toml"
	defaultDatabase      = "~/.local/share/recgrid/records.db"
	defaultViewStore     = "toml"
	defaultViewStorePath = "~/.config/recgrid/views.toml"
	defaultLogDir        = "~/.local/share/recgrid/logs"
	defaultExportDir     = "~/recgrid-exports"
	defaultExportFormat  = "csv"
	defaultSaveDebounce  = 500 * time.Millisecond
	defaultPollInterval  = 5 * time.Second
)

var (
	validViewStores    = []string{"toml", "sqlite", "memory"}
	validExportFormats = []string{"csv", "yaml"}
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Database:      mustExpand(defaultDatabase),
		ViewStore:     defaultViewStore,
		ViewStorePath: mustExpand(defaultViewStorePath),
		LogDir:        mustExpand(defaultLogDir),
		ExportDir:     mustExpand(defaultExportDir),
		ExportFormat:  defaultExportFormat,
		SaveDebounce:  defaultSaveDebounce,
		PollInterval:  defaultPollInterval,
	}
}

// Load locates and parses the recgrid config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Database       string            `toml:"database"`
		APIBind        string            `toml:"api_bind"`
		ViewStore      string            `toml:"view_store"`
		ViewStorePath  string            `toml:"view_store_path"`
		LogDir         string            `toml:"log_dir"`
		ExportDir      string            `toml:"export_dir"`
		ExportFormat   string            `toml:"export_format"`
		SaveDebounceMS int               `toml:"save_debounce_ms"`
		PollSeconds    int               `toml:"poll_seconds"`
		NavKeys        map[string]string `toml:"nav_keys"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIBind = strings.TrimSpace(raw.APIBind)
	if v := strings.TrimSpace(raw.Database); v != "" {
		cfg.Database = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.ViewStorePath); v != "" {
		cfg.ViewStorePath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.ExportDir); v != "" {
		cfg.ExportDir = mustExpand(v)
	}

	if v := strings.ToLower(strings.TrimSpace(raw.ViewStore)); v != "" {
		if !contains(validViewStores, v) {
			return Config{}, fmt.Errorf("parse config: view_store %q: want one of %s", v, strings.Join(validViewStores, ", "))
		}
		cfg.ViewStore = v
	}
	if v := strings.ToLower(strings.TrimSpace(raw.ExportFormat)); v != "" {
		if !contains(validExportFormats, v) {
			return Config{}, fmt.Errorf("parse config: export_format %q: want one of %s", v, strings.Join(validExportFormats, ", "))
		}
		cfg.ExportFormat = v
	}

	if raw.SaveDebounceMS > 0 {
		cfg.SaveDebounce = time.Duration(raw.SaveDebounceMS) * time.Millisecond
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	if len(raw.NavKeys) > 0 {
		cfg.NavKeys = maps.Clone(raw.NavKeys)
	}

	return cfg, nil
}

// UsesAPI reports whether records come from the REST service instead of the
// local database.
func (c Config) UsesAPI() bool {
	return strings.TrimSpace(c.APIBind) != ""
}

// LogPath returns the directory log files are written to.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir)
	}
	return c.LogDir
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading tilde and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
