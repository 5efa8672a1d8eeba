package grid

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/text/language"

	"github.com/five82/recgrid/internal/viewstore"
)

var (
	ErrUnknownColumn  = errors.New("unknown column")
	ErrNoSelection    = errors.New("no cell selected")
	ErrOutOfBounds    = errors.New("cell out of bounds")
	ErrReadOnly       = errors.New("column is read-only")
	ErrNotEditing     = errors.New("no edit in progress")
	ErrEmptyClipboard = errors.New("clipboard is empty")
)

// Options configure a Grid.
type Options struct {
	MinWidth int
	MaxWidth int
	Locale   language.Tag

	// Store enables view configuration persistence when non-nil.
	Store     viewstore.Store
	SaveDelay time.Duration
	Scheduler Scheduler

	Logger *slog.Logger
}

type cellKey struct {
	rowID  int64
	column string
}

// Grid is the interaction state of one table view: column settings,
// filters, sort, selection, edit session, clipboard and pending commits.
// It is not safe for concurrent use; callers drive it from a single event
// loop.
type Grid struct {
	pageID  string
	columns *ColumnStore
	filters FilterSet
	sort    SortState
	cmp     *Comparator
	logger  *slog.Logger
	persist *Persister

	records   []Record
	rows      []Record
	rowByID   map[int64]int
	mounted   bool
	lastColIx int

	selected     *CellAddress
	rowSelection map[int64]struct{}

	edit      editSession
	clipboard *ClipboardSlot
	custom    map[cellKey]CellCustomization
	status    map[cellKey]CellStatus
	seq       int64
	fieldSeq  map[cellKey]int64
	pending   map[int64]Commit
}

// New builds a grid for pageID over the given column definitions. The
// default sort is applied until Mount restores a stored one.
func New(pageID string, columns []Column, opts Options) *Grid {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	locale := opts.Locale
	if locale == (language.Tag{}) {
		locale = language.Und
	}
	g := &Grid{
		pageID:       pageID,
		columns:      NewColumnStore(columns, opts.MinWidth, opts.MaxWidth),
		cmp:          NewComparator(locale),
		logger:       logger.With("page", pageID),
		rowByID:      map[int64]int{},
		rowSelection: map[int64]struct{}{},
		custom:       map[cellKey]CellCustomization{},
		status:       map[cellKey]CellStatus{},
		fieldSeq:     map[cellKey]int64{},
		pending:      map[int64]Commit{},
	}
	if opts.Store != nil && pageID != "" {
		g.persist = NewPersister(pageID, opts.Store, PersistOptions{
			Delay:     opts.SaveDelay,
			Scheduler: opts.Scheduler,
			Logger:    g.logger,
		})
	}
	g.setSort(DefaultSort(g.columns.VisibleColumns()))
	return g
}

// Mount restores the stored view configuration, if any, and enables
// persistence of later changes.
func (g *Grid) Mount() {
	if g.mounted {
		return
	}
	if g.persist != nil {
		if cfg, ok := g.persist.Load(g.columns.DefaultSettings()); ok {
			g.applyConfig(cfg)
		}
		g.persist.MarkMounted()
	}
	g.mounted = true
	g.refresh()
}

// PageID returns the view identifier used for persistence.
func (g *Grid) PageID() string {
	return g.pageID
}

// SetRecords replaces the host dataset and re-derives the visible rows.
func (g *Grid) SetRecords(records []Record) {
	g.records = make([]Record, len(records))
	for i, rec := range records {
		g.records[i] = rec.Clone()
	}
	g.refresh()
}

// Records returns the grid's local copy of the dataset.
func (g *Grid) Records() []Record {
	return g.records
}

// Rows returns the filtered and sorted row sequence. The slice must not be
// modified.
func (g *Grid) Rows() []Record {
	return g.rows
}

// Row returns the record at index i of the visible sequence.
func (g *Grid) Row(i int) (Record, bool) {
	if i < 0 || i >= len(g.rows) {
		return Record{}, false
	}
	return g.rows[i], true
}

// RowIndex returns the index of the record with id in the visible sequence.
func (g *Grid) RowIndex(id int64) int {
	if i, ok := g.rowByID[id]; ok {
		return i
	}
	return -1
}

// Columns exposes the column configuration store.
func (g *Grid) Columns() *ColumnStore {
	return g.columns
}

// Column returns the definition for key.
func (g *Grid) Column(key string) (Column, bool) {
	return g.columns.Column(key)
}

// VisibleColumns returns visible columns in render order.
func (g *Grid) VisibleColumns() []Column {
	return g.columns.VisibleColumns()
}

// ToggleVisibility shows or hides a column.
func (g *Grid) ToggleVisibility(key string) bool {
	if !g.columns.ToggleVisibility(key) {
		return false
	}
	g.clampSelection()
	g.save()
	return true
}

// Resize changes a column's width.
func (g *Grid) Resize(key string, width int) bool {
	if !g.columns.Resize(key, width) {
		return false
	}
	g.save()
	return true
}

// Reorder moves a column within the order-sorted column list.
func (g *Grid) Reorder(from, to int) bool {
	if !g.columns.Reorder(from, to) {
		return false
	}
	g.save()
	return true
}

// Reset restores default columns, clears sort and filters and removes the
// stored view configuration.
func (g *Grid) Reset() {
	g.columns.Reset()
	g.filters.Clear()
	g.setSort(SortState{})
	if g.persist != nil {
		if err := g.persist.Clear(); err != nil {
			g.logger.Warn("clear view config", "error", err)
		}
	}
	g.refresh()
}

// HasStoredConfig reports whether a view configuration is persisted.
func (g *Grid) HasStoredConfig() bool {
	return g.persist != nil && g.persist.HasStored()
}

// Flush writes any pending debounced configuration immediately.
func (g *Grid) Flush() error {
	if g.persist == nil {
		return nil
	}
	return g.persist.Flush()
}

// SetFilter adds or replaces the filter for f.ColumnKey.
func (g *Grid) SetFilter(f Filter) error {
	if _, ok := g.columns.Column(f.ColumnKey); !ok {
		return fmt.Errorf("filter %s: %w", f.ColumnKey, ErrUnknownColumn)
	}
	if err := g.filters.Set(f); err != nil {
		return err
	}
	g.refresh()
	g.save()
	return nil
}

// RemoveFilter drops the filter for key.
func (g *Grid) RemoveFilter(key string) bool {
	if !g.filters.Remove(key) {
		return false
	}
	g.refresh()
	g.save()
	return true
}

// ClearFilters removes all filters.
func (g *Grid) ClearFilters() {
	if g.filters.Len() == 0 {
		return
	}
	g.filters.Clear()
	g.refresh()
	g.save()
}

// Filters returns the active filters.
func (g *Grid) Filters() []Filter {
	return g.filters.All()
}

// Filter returns the active filter for key.
func (g *Grid) Filter(key string) (Filter, bool) {
	return g.filters.Get(key)
}

// Sort returns the active sort.
func (g *Grid) Sort() SortState {
	return g.sort
}

// ToggleSort cycles the sort on key through asc, desc and none.
func (g *Grid) ToggleSort(key string) error {
	if _, ok := g.columns.Column(key); !ok {
		return fmt.Errorf("sort %s: %w", key, ErrUnknownColumn)
	}
	g.setSort(g.sort.Toggle(key))
	g.refresh()
	g.save()
	return nil
}

// SetSort sorts by key in an explicit direction.
func (g *Grid) SetSort(key string, dir SortDirection) error {
	if _, ok := g.columns.Column(key); !ok {
		return fmt.Errorf("sort %s: %w", key, ErrUnknownColumn)
	}
	if dir == SortNone {
		g.setSort(SortState{})
	} else {
		g.setSort(SortState{Column: key, Direction: dir})
	}
	g.refresh()
	g.save()
	return nil
}

func (g *Grid) setSort(s SortState) {
	if !s.Active() {
		s = SortState{}
	}
	g.sort = s
	g.columns.SetSortMarker(s.Column, s.Direction)
}

// Config returns the current view configuration.
func (g *Grid) Config() ViewConfig {
	dir := g.sort.Direction
	if dir == "" {
		dir = SortNone
	}
	return ViewConfig{
		Version:       ConfigVersion,
		PageID:        g.pageID,
		Columns:       g.columns.Settings(),
		Filters:       g.filters.All(),
		SortColumn:    g.sort.Column,
		SortDirection: dir,
	}
}

func (g *Grid) applyConfig(cfg ViewConfig) {
	g.columns.Apply(cfg.Columns)
	g.filters.Clear()
	for _, f := range cfg.Filters {
		if _, ok := g.columns.Column(f.ColumnKey); !ok {
			continue
		}
		if err := g.filters.Set(f); err != nil {
			g.logger.Warn("dropping stored filter", "column", f.ColumnKey, "error", err)
		}
	}
	sort := SortState{Column: cfg.SortColumn, Direction: cfg.SortDirection}
	if _, ok := g.columns.Column(sort.Column); !ok {
		sort = SortState{}
	}
	g.setSort(sort)
}

func (g *Grid) save() {
	if g.persist == nil || !g.mounted {
		return
	}
	g.persist.Schedule(g.Config())
}

// refresh re-derives the visible rows and re-clamps the selection. The
// selected record keeps its selection when it is still visible.
func (g *Grid) refresh() {
	var selectedID int64
	hadSelection := false
	if g.selected != nil {
		if rec, ok := g.Row(g.selected.RowIndex); ok {
			selectedID = rec.ID
			hadSelection = true
		}
	}

	rows := g.filters.Apply(g.records)
	if g.sort.Active() {
		if col, ok := g.columns.Column(g.sort.Column); ok {
			rows = SortRecords(rows, col, g.sort.Direction, g.cmp)
		}
	}
	g.rows = rows
	g.rowByID = make(map[int64]int, len(rows))
	for i, rec := range rows {
		g.rowByID[rec.ID] = i
	}

	if hadSelection {
		if i, ok := g.rowByID[selectedID]; ok {
			g.selected.RowIndex = i
		}
	}
	g.clampSelection()
	g.reindexEdit()
}

// reindexEdit moves the open edit session to its record's new row. The
// session is cancelled when the record is no longer visible.
func (g *Grid) reindexEdit() {
	if !g.Editing() {
		return
	}
	i, ok := g.rowByID[g.edit.rowID]
	if !ok {
		g.logger.Info("edit cancelled, row no longer visible", "row", g.edit.rowID, "column", g.edit.column.Key)
		g.edit = editSession{}
		return
	}
	g.edit.address.RowIndex = i
}

// CellStatusOf reports the commit status of a cell.
func (g *Grid) CellStatusOf(rowID int64, column string) (CellStatus, bool) {
	st, ok := g.status[cellKey{rowID, column}]
	return st, ok
}

// SetCustomization decorates a cell.
func (g *Grid) SetCustomization(c CellCustomization) {
	g.custom[cellKey{c.RowID, c.ColumnKey}] = c
}

// Customization returns the decoration of a cell.
func (g *Grid) Customization(rowID int64, column string) (CellCustomization, bool) {
	c, ok := g.custom[cellKey{rowID, column}]
	return c, ok
}

// ClearCustomization removes a cell decoration.
func (g *Grid) ClearCustomization(rowID int64, column string) {
	delete(g.custom, cellKey{rowID, column})
}

// SelectedRowIDs returns the multi-selected record ids in ascending order.
func (g *Grid) SelectedRowIDs() []int64 {
	ids := make([]int64, 0, len(g.rowSelection))
	for id := range g.rowSelection {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// IsRowSelected reports whether id is in the multi-row selection.
func (g *Grid) IsRowSelected(id int64) bool {
	_, ok := g.rowSelection[id]
	return ok
}
