package grid

import (
	"time"

	"github.com/five82/recgrid/internal/viewstore"
)

type fakeTimer struct {
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// fakeScheduler records scheduled callbacks so tests decide when they run.
type fakeScheduler struct {
	timers []*fakeTimer
	delays []time.Duration
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{f: f}
	s.timers = append(s.timers, t)
	s.delays = append(s.delays, d)
	return t
}

func (s *fakeScheduler) active() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (s *fakeScheduler) fireAll() {
	for _, t := range s.timers {
		if t.stopped || t.fired {
			continue
		}
		t.fired = true
		t.f()
	}
}

func testColumns() []Column {
	return []Column{
		{Key: IDColumn, Header: "ID", Type: TypeNumber, Width: 60, Locked: true, ReadOnly: true},
		{Key: "name", Header: "Name", Type: TypeText},
		{Key: "age", Header: "Age", Type: TypeNumber, Width: 80},
		{Key: "joined", Header: "Joined", Type: TypeDate},
		{Key: "owner", Header: "Owner", Type: TypeForeignKey, ForeignKey: &ForeignKey{
			Entity: "people",
			Labels: map[int64]string{1: "Émile", 2: "anna", 3: "Zoe"},
		}},
	}
}

func testRecords() []Record {
	return []Record{
		{ID: 1, Values: map[string]any{"name": "Carol", "age": int64(30), "joined": "2024-01-05", "owner": int64(2)}},
		{ID: 2, Values: map[string]any{"name": "alice", "age": int64(25), "joined": "2023-03-01", "owner": int64(1)}},
		{ID: 3, Values: map[string]any{"name": "Bob", "age": nil, "joined": nil, "owner": int64(3)}},
		{ID: 4, Values: map[string]any{"name": "dave", "age": int64(41), "joined": "2022-11-11", "owner": nil}},
	}
}

func newTestGrid(opts Options) *Grid {
	g := New("people", testColumns(), opts)
	g.SetRecords(testRecords())
	return g
}

func rowIDs(rows []Record) []int64 {
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func persistedGrid(store viewstore.Store, sched *fakeScheduler) *Grid {
	g := newTestGrid(Options{Store: store, Scheduler: sched})
	g.Mount()
	return g
}
