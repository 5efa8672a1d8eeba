package ui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/recgrid/internal/config"
	"github.com/five82/recgrid/internal/grid"
	"github.com/five82/recgrid/internal/records"
	"github.com/five82/recgrid/internal/state"
	"github.com/five82/recgrid/internal/viewstore"
)

// fakeClock advances a fixed step on every read so repeated keys are never
// throttled and double clicks stay inside the interval.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

// manualScheduler never fires; view saves stay pending until Flush.
type manualScheduler struct{}

type manualTimer struct{}

func (manualTimer) Stop() bool { return true }

func (manualScheduler) AfterFunc(time.Duration, func()) grid.Timer { return manualTimer{} }

// testHelper drives a Model the way Bubble Tea would, without running
// commands it is not told to run.
type testHelper struct {
	t      *testing.T
	model  Model
	source *records.Memory
	views  *viewstore.MemoryStore
	copied string
	prefs  string
	export string
}

func newTestHelper(t *testing.T) *testHelper {
	t.Helper()
	src := records.NewMemory(records.DefaultCatalog())
	src.Load("people", []grid.Record{
		{ID: 1, Values: map[string]any{"name": "Grace", "email": "grace@example.com", "role": "engineer", "joined": "2020-02-01"}},
		{ID: 2, Values: map[string]any{"name": "Ada", "email": "ada@example.com", "role": "manager", "joined": "2019-05-10"}},
		{ID: 3, Values: map[string]any{"name": "Linus", "email": "linus@example.com", "role": "designer", "joined": "2021-09-15"}},
	})
	src.Load("projects", []grid.Record{
		{ID: 10, Values: map[string]any{"name": "Apollo", "owner_id": int64(3), "budget": 1200.5, "due": "2020-01-01", "status": "active"}},
		{ID: 11, Values: map[string]any{"name": "Borealis", "owner_id": int64(1), "budget": 300.0, "due": "2999-01-01", "status": "planned"}},
	})
	src.Load("tasks", []grid.Record{
		{ID: 100, Values: map[string]any{"title": "Write docs", "project_id": int64(10), "assignee_id": int64(2), "done": false}},
	})

	dir := t.TempDir()
	h := &testHelper{
		t:      t,
		source: src,
		views:  viewstore.NewMemory(),
		prefs:  filepath.Join(dir, "prefs.toml"),
		export: filepath.Join(dir, "exports"),
	}
	clock := &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), step: 100 * time.Millisecond}
	cfg := config.Default()
	cfg.ExportDir = h.export
	cfg.ExportFormat = "csv"

	h.model = New(Options{
		Source:    src,
		Config:    &cfg,
		ViewStore: h.views,
		PrefsPath: h.prefs,
		Now:       clock.Now,
		Scheduler: manualScheduler{},
		Clipboard: func(s string) error {
			h.copied = s
			return nil
		},
	})
	h.SendWindowSize(160, 30)
	h.loadSnapshot(1)
	return h
}

// loadSnapshot feeds the source's current tables to the model.
func (h *testHelper) loadSnapshot(revision uint64) *testHelper {
	h.t.Helper()
	tables := map[string][]grid.Record{}
	for _, name := range h.source.Catalog().Names() {
		rows, err := h.source.List(h.t.Context(), name)
		if err != nil {
			h.t.Fatalf("list %s: %v", name, err)
		}
		tables[name] = rows
	}
	h.Send(snapshotMsg(state.Snapshot{Tables: tables, Revision: revision, LastUpdated: time.Now()}))
	return h
}

// Send delivers msg and returns the command the model produced.
func (h *testHelper) Send(msg tea.Msg) tea.Cmd {
	updated, cmd := h.model.Update(msg)
	h.model = updated.(Model)
	return cmd
}

// SendKey simulates a special key press.
func (h *testHelper) SendKey(keyType tea.KeyType) tea.Cmd {
	return h.Send(tea.KeyMsg{Type: keyType})
}

// SendKeyRune simulates a character key press.
func (h *testHelper) SendKeyRune(r rune) tea.Cmd {
	return h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Type sends each rune of s.
func (h *testHelper) Type(s string) {
	for _, r := range s {
		h.SendKeyRune(r)
	}
}

// SendWindowSize simulates a window resize.
func (h *testHelper) SendWindowSize(width, height int) *testHelper {
	h.Send(tea.WindowSizeMsg{Width: width, Height: height})
	return h
}

// Click simulates a left click at screen cell (x, y).
func (h *testHelper) Click(x, y int) tea.Cmd {
	return h.Send(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
}

// Deliver runs cmd and feeds its message back. Only use it for commands
// that do not wait on a timer.
func (h *testHelper) Deliver(cmd tea.Cmd) tea.Cmd {
	h.t.Helper()
	if cmd == nil {
		h.t.Fatal("expected a command")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var last tea.Cmd
		for _, c := range batch {
			if c != nil {
				last = h.Deliver(c)
			}
		}
		return last
	}
	return h.Send(msg)
}

// Select moves the selection of the active page to (row, column).
func (h *testHelper) Select(row int, column string) {
	h.t.Helper()
	if err := h.page().grid.SelectCell(row, column); err != nil {
		h.t.Fatalf("select %d/%s: %v", row, column, err)
	}
}

func (h *testHelper) page() *page {
	return h.model.page()
}

func (h *testHelper) selected() grid.Record {
	h.t.Helper()
	rec, _, ok := h.page().grid.SelectedRecord()
	if !ok {
		h.t.Fatal("no cell selected")
	}
	return rec
}

// GetView returns the rendered view.
func (h *testHelper) GetView() string {
	return h.model.View()
}
