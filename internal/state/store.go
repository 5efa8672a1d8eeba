package state

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/five82/recgrid/internal/grid"
)

// Snapshot represents the latest record data available to the UI.
type Snapshot struct {
	Tables              map[string][]grid.Record
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
	// Revision increases on every successful update.
	Revision uint64
}

// IsOffline returns true when the source has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Table returns the records of one table.
func (s Snapshot) Table(name string) ([]grid.Record, bool) {
	rows, ok := s.Tables[name]
	return rows, ok
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update merges fresh table data into the snapshot. Tables absent from the
// update keep their previous rows. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(tables map[string][]grid.Record, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if s.snapshot.Tables == nil {
		s.snapshot.Tables = make(map[string][]grid.Record, len(tables))
	}
	for name, rows := range tables {
		s.snapshot.Tables[name] = cloneRecords(rows)
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
	s.snapshot.Revision++
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.Tables != nil {
		snap.Tables = make(map[string][]grid.Record, len(s.snapshot.Tables))
		for name, rows := range s.snapshot.Tables {
			snap.Tables[name] = cloneRecords(rows)
		}
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Revision returns the current revision without copying the data.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Revision
}

// TableNames lists the tables held, sorted.
func (s *Store) TableNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.snapshot.Tables))
}

func cloneRecords(rows []grid.Record) []grid.Record {
	if len(rows) == 0 {
		return nil
	}
	dup := make([]grid.Record, len(rows))
	for i, r := range rows {
		dup[i] = r.Clone()
	}
	return dup
}
