package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/recgrid/internal/config"
	"github.com/five82/recgrid/internal/logging"
	"github.com/five82/recgrid/internal/prefs"
	"github.com/five82/recgrid/internal/recordapi"
	"github.com/five82/recgrid/internal/records"
	"github.com/five82/recgrid/internal/state"
	"github.com/five82/recgrid/internal/ui"
	"github.com/five82/recgrid/internal/viewstore"
)

// Options configure the recgrid application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/recgrid/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
	Verbose    bool   // debug-level logging
}

// Run boots the recgrid TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logCloser, err := logging.Init(logging.Options{Enabled: true, LogDir: cfg.LogPath(), Level: level})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logCloser.Close()

	source, closeSource, err := OpenSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	views, err := viewstore.Open(cfg.ViewStore, cfg.ViewStorePath)
	if err != nil {
		return fmt.Errorf("open view store: %w", err)
	}
	if c, ok := views.(io.Closer); ok {
		defer c.Close()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		logging.Warn("load preferences", "error", err)
	}

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	store := &state.Store{}

	// Do initial refresh to populate store before UI starts
	if err := refresh(ctx, store, source); err != nil {
		logging.Warn("initial refresh failed", "error", err)
	}

	// Start background poller
	StartPoller(ctx, store, source, interval)

	logging.Info("starting ui", "api", cfg.UsesAPI(), "view_store", cfg.ViewStore, "poll", interval)
	err = ui.Run(ui.Options{
		Context:   ctx,
		Source:    source,
		Store:     store,
		Config:    &cfg,
		ViewStore: views,
		PollTick:  interval,
		ThemeName: userPrefs.Theme,
		PrefsPath: prefsPath,
		LogPath:   logging.FileName(cfg.LogPath(), time.Now()),
		LastPage:  userPrefs.LastPage,
		Logger:    logging.L,
	})
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// OpenSource returns the record source the config selects: the REST
// service when api_bind is set, the local SQLite database otherwise. A new
// database is seeded with demo rows.
func OpenSource(ctx context.Context, cfg config.Config) (records.Source, func(), error) {
	if cfg.UsesAPI() {
		client, err := recordapi.NewClient(cfg.APIBind, records.DefaultCatalog())
		if err != nil {
			return nil, nil, fmt.Errorf("init record api client: %w", err)
		}
		return client, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create database dir: %w", err)
	}
	db, err := records.OpenSQLite(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	n, err := records.Seed(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("seed database: %w", err)
	}
	if n > 0 {
		logging.Info("seeded database", "path", cfg.Database, "rows", n)
	}
	return db, func() {
		if err := db.Close(); err != nil {
			logging.Warn("close database", "error", err)
		}
	}, nil
}
