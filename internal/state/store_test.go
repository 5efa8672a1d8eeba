package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/recgrid/internal/grid"
)

func people() map[string][]grid.Record {
	return map[string][]grid.Record{
		"people": {
			{ID: 1, Values: map[string]any{"name": "Ada"}},
			{ID: 2, Values: map[string]any{"name": "Grace"}},
		},
	}
}

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	s.Update(people(), nil)

	snap := s.Snapshot()
	rows, ok := snap.Table("people")
	if !ok || len(rows) != 2 || rows[0].ID != 1 {
		t.Fatalf("snapshot people = %#v, want 2 rows", rows)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}
	if snap.Revision != 1 {
		t.Fatalf("Revision = %d, want 1", snap.Revision)
	}

	// Returned snapshot should be independent of the stored one.
	rows[0].Values["name"] = "mutated"
	rows[0].ID = 999
	snap2 := s.Snapshot()
	if snap2.Tables["people"][0].ID != 1 || snap2.Tables["people"][0].Values["name"] != "Ada" {
		t.Fatalf("Snapshot should clone records; got %#v", snap2.Tables["people"][0])
	}
}

func TestStore_UpdateKeepsOtherTables(t *testing.T) {
	var s Store

	s.Update(people(), nil)
	s.Update(map[string][]grid.Record{"tasks": {{ID: 7}}}, nil)

	snap := s.Snapshot()
	if len(snap.Tables["people"]) != 2 {
		t.Fatalf("people rows = %d, want 2", len(snap.Tables["people"]))
	}
	if len(snap.Tables["tasks"]) != 1 {
		t.Fatalf("tasks rows = %d, want 1", len(snap.Tables["tasks"]))
	}
	if got := s.TableNames(); !reflect.DeepEqual(got, []string{"people", "tasks"}) {
		t.Fatalf("TableNames = %v, want [people tasks]", got)
	}
	if s.Revision() != 2 {
		t.Fatalf("Revision = %d, want 2", s.Revision())
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update(people(), nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if !reflect.DeepEqual(snap.Tables, prev.Tables) {
		t.Fatalf("tables changed on error: got %#v want %#v", snap.Tables, prev.Tables)
	}
	if snap.Revision != prev.Revision {
		t.Fatalf("Revision = %d, want %d", snap.Revision, prev.Revision)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0", snap.ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}

	s.Update(nil, errors.New("fail 1"))
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 1 {
		t.Fatalf("ConsecutiveFailures = %d, want 1", snap.ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false with 1 failure")
	}

	s.Update(nil, errors.New("fail 2"))
	snap = s.Snapshot()
	if !snap.IsOffline() {
		t.Fatal("IsOffline() = false, want true with 2 failures")
	}

	// Success resets counter
	s.Update(people(), nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", snap.ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false after success")
	}
}
