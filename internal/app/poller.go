package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/recgrid/internal/grid"
	"github.com/five82/recgrid/internal/logging"
	"github.com/five82/recgrid/internal/records"
	"github.com/five82/recgrid/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// calculateBackoff doubles the interval per consecutive failure up to maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for range failures {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

// StartPoller launches a background goroutine that refreshes the store,
// backing off while the source keeps failing. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, source records.Source, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			failures := 0
			if err := refresh(ctx, store, source); err != nil {
				failures = store.Snapshot().ConsecutiveFailures
			}
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

// refresh lists every catalog table. A failure on any table records the
// error and keeps the previous data.
func refresh(ctx context.Context, store *state.Store, source records.Source) error {
	tables := map[string][]grid.Record{}
	for _, name := range source.Catalog().Names() {
		rows, err := source.List(ctx, name)
		if err != nil {
			err = fmt.Errorf("list %s: %w", name, err)
			store.Update(nil, err)
			logging.Warn("record poll failed", "table", name, "error", err)
			return err
		}
		tables[name] = rows
	}
	store.Update(tables, nil)
	return nil
}
