package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/recgrid/internal/viewstore"
)

func TestSavesAreSuppressedBeforeMount(t *testing.T) {
	store := viewstore.NewMemory()
	sched := &fakeScheduler{}
	g := newTestGrid(Options{Store: store, Scheduler: sched})

	g.Resize("name", 300)
	assert.Empty(t, sched.timers)

	g.Mount()
	assert.Empty(t, sched.timers, "mounting does not write the loaded state back")
	assert.False(t, g.HasStoredConfig())
}

func TestSavesAreDebounced(t *testing.T) {
	store := viewstore.NewMemory()
	sched := &fakeScheduler{}
	g := persistedGrid(store, sched)

	g.Resize("name", 300)
	g.Resize("name", 320)
	require.NoError(t, g.ToggleSort("age"))
	assert.Len(t, sched.timers, 3)
	assert.Equal(t, 1, sched.active())
	assert.Equal(t, DefaultSaveDelay, sched.delays[0])
	assert.False(t, g.HasStoredConfig())

	sched.fireAll()
	assert.True(t, g.HasStoredConfig())

	keys, err := store.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{StoreKey("people")}, keys)
}

func TestConfigRoundTrip(t *testing.T) {
	store := viewstore.NewMemory()
	sched := &fakeScheduler{}
	g := persistedGrid(store, sched)

	g.Resize("name", 320)
	g.ToggleVisibility("joined")
	g.Reorder(4, 1)
	require.NoError(t, g.SetFilter(Filter{ColumnKey: "age", Type: FilterNumber, Operator: OpGreater, Value: "26"}))
	require.NoError(t, g.SetSort("age", SortDesc))
	require.NoError(t, g.Flush())
	saved := g.Config()

	reloaded := persistedGrid(store, &fakeScheduler{})
	assert.Equal(t, saved, reloaded.Config())
	assert.Equal(t, []int64{4, 1}, rowIDs(reloaded.Rows()))
}

func TestConfigMergeHandlesSchemaDrift(t *testing.T) {
	store := viewstore.NewMemory()
	stored := ViewConfig{
		Version: ConfigVersion,
		PageID:  "people",
		Columns: []ColumnSetting{
			{Key: "legacy", Visible: true, Width: 100, Order: 0},
			{Key: "age", Visible: true, Width: 90, Order: 1},
			{Key: "name", Visible: false, Width: 200, Order: 2},
		},
		Filters: []Filter{
			{ColumnKey: "legacy", Type: FilterText, Operator: OpEquals, Value: "x"},
			{ColumnKey: "name", Type: FilterText, Operator: OpContains, Value: "a"},
		},
		SortColumn:    "legacy",
		SortDirection: SortAsc,
	}
	data, err := EncodeConfig(stored)
	require.NoError(t, err)
	require.NoError(t, store.Set(StoreKey("people"), data))

	g := persistedGrid(store, &fakeScheduler{})
	cfg := g.Config()

	var keys []string
	for _, st := range cfg.Columns {
		keys = append(keys, st.Key)
	}
	assert.Equal(t, []string{"age", "name", IDColumn, "joined", "owner"}, keys)
	for i, st := range cfg.Columns {
		assert.Equal(t, i, st.Order)
	}
	name, _ := g.Columns().Setting("name")
	assert.False(t, name.Visible)
	assert.Equal(t, 200, name.Width)

	require.Len(t, cfg.Filters, 1)
	assert.Equal(t, "name", cfg.Filters[0].ColumnKey)
	assert.False(t, g.Sort().Active())
}

func TestStaleVersionIsDiscarded(t *testing.T) {
	store := viewstore.NewMemory()
	require.NoError(t, store.Set(StoreKey("people"), []byte("version = 99\npage_id = \"people\"\n")))

	g := persistedGrid(store, &fakeScheduler{})
	assert.False(t, g.HasStoredConfig())
	assert.Equal(t, SortState{Column: "name", Direction: SortAsc}, g.Sort())
	keys, err := store.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestCorruptConfigFallsBackToDefaults(t *testing.T) {
	store := viewstore.NewMemory()
	require.NoError(t, store.Set(StoreKey("people"), []byte("columns = [")))

	g := persistedGrid(store, &fakeScheduler{})
	assert.False(t, g.HasStoredConfig())
	assert.Len(t, g.VisibleColumns(), 5)
}

func TestResetClearsStoredConfig(t *testing.T) {
	store := viewstore.NewMemory()
	sched := &fakeScheduler{}
	g := persistedGrid(store, sched)

	g.Resize("name", 300)
	require.NoError(t, g.SetFilter(Filter{ColumnKey: "name", Type: FilterText, Operator: OpContains, Value: "a"}))
	sched.fireAll()
	require.True(t, g.HasStoredConfig())

	g.Resize("age", 200)
	g.Reset()
	assert.Equal(t, 0, sched.active(), "reset cancels the pending write")
	assert.False(t, g.HasStoredConfig())
	assert.Empty(t, g.Filters())
	assert.False(t, g.Sort().Active())
	assert.Len(t, g.Rows(), 4)
}

func TestMergeConfigIgnoresDuplicates(t *testing.T) {
	defaults := []ColumnSetting{
		{Key: "a", Visible: true, Width: 100, Order: 0, SortDirection: SortNone},
		{Key: "b", Visible: true, Width: 100, Order: 1, SortDirection: SortNone},
	}
	got := MergeConfig(ViewConfig{Columns: []ColumnSetting{
		{Key: "b", Width: 60, Order: 5},
		{Key: "b", Width: 70, Order: 6},
	}}, defaults)
	require.Len(t, got.Columns, 2)
	assert.Equal(t, "b", got.Columns[0].Key)
	assert.Equal(t, 60, got.Columns[0].Width)
	assert.Equal(t, 0, got.Columns[0].Order)
	assert.Equal(t, "a", got.Columns[1].Key)
	assert.Equal(t, 1, got.Columns[1].Order)
}

// gatedStore holds the first Set until released.
type gatedStore struct {
	viewstore.Store
	entered chan struct{}
	release chan struct{}
}

func (s *gatedStore) Set(key string, value []byte) error {
	close(s.entered)
	<-s.release
	return s.Store.Set(key, value)
}

func TestClearWaitsForInFlightSave(t *testing.T) {
	store := &gatedStore{
		Store:   viewstore.NewMemory(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	sched := &fakeScheduler{}
	p := NewPersister("people", store, PersistOptions{Scheduler: sched})
	p.MarkMounted()
	p.Schedule(ViewConfig{Version: ConfigVersion, PageID: "people"})
	require.Len(t, sched.timers, 1)

	fired := make(chan struct{})
	go func() {
		sched.timers[0].f()
		close(fired)
	}()
	<-store.entered

	cleared := make(chan error, 1)
	go func() { cleared <- p.Clear() }()
	time.Sleep(20 * time.Millisecond)
	close(store.release)
	<-fired
	require.NoError(t, <-cleared)

	ok, err := store.Has(StoreKey("people"))
	require.NoError(t, err)
	assert.False(t, ok, "the reset wins over the save that fired before it")
}
