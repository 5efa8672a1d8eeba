package ui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/recgrid/internal/grid"
	"github.com/five82/recgrid/internal/keymap"
	"github.com/five82/recgrid/internal/records"
	"github.com/five82/recgrid/internal/viewstore"
)

// page is one tab: a table view or a single-record detail view.
type page struct {
	id         string
	title      string
	table      records.Table
	grid       *grid.Grid
	dispatcher *keymap.Dispatcher
	// fks shares the label maps with the grid's column definitions so label
	// refreshes reach sorting and rendering.
	fks map[string]*grid.ForeignKey

	detail   bool
	recordID int64

	rowOffset int
	colOffset int
}

type pageOptions struct {
	store     viewstore.Store
	saveDelay time.Duration
	scheduler grid.Scheduler
	logger    *slog.Logger
	navKeys   map[string]string
	now       func() time.Time
}

func newTablePage(t records.Table, labels map[string]map[int64]string, opts pageOptions) *page {
	p := buildPage(t.Name, t.Label, t, labels, opts, opts.store)
	p.grid.Mount()
	return p
}

// newDetailPage shows one record. Detail views are not persisted.
func newDetailPage(t records.Table, id int64, labels map[string]map[int64]string, opts pageOptions) *page {
	pageID := fmt.Sprintf("%s/%d", t.Name, id)
	p := buildPage(pageID, fmt.Sprintf("%s #%d", t.Label, id), t, labels, opts, nil)
	p.detail = true
	p.recordID = id
	p.grid.Mount()
	return p
}

func buildPage(id, title string, t records.Table, labels map[string]map[int64]string, opts pageOptions, store viewstore.Store) *page {
	cols := records.Columns(t, labels)
	fks := map[string]*grid.ForeignKey{}
	for i := range cols {
		if cols[i].ForeignKey != nil {
			fks[cols[i].Key] = cols[i].ForeignKey
		}
		if cols[i].Type == grid.TypeBool {
			cols[i].Render = renderBool
		}
	}

	gridOpts := grid.Options{
		Store:     store,
		SaveDelay: opts.saveDelay,
		Scheduler: opts.scheduler,
		Logger:    opts.logger,
	}

	dispatchOpts := []keymap.Option{keymap.WithNavigation(opts.navKeys)}
	if opts.now != nil {
		dispatchOpts = append(dispatchOpts, keymap.WithClock(opts.now))
	}

	return &page{
		id:         id,
		title:      title,
		table:      t,
		grid:       grid.New(id, cols, gridOpts),
		dispatcher: keymap.New(dispatchOpts...),
		fks:        fks,
	}
}

func renderBool(v any, _ grid.Record) string {
	switch b := v.(type) {
	case bool:
		if b {
			return "✓"
		}
		return "·"
	case nil:
		return ""
	default:
		return grid.FormatValue(v)
	}
}

// applyRecords refreshes labels and hands the page its rows from a full
// table set.
func (p *page) applyRecords(tables map[string][]grid.Record, catalog records.Catalog) {
	for _, fk := range p.fks {
		ref, ok := catalog.Table(fk.Entity)
		if !ok {
			continue
		}
		if rows, ok := tables[fk.Entity]; ok {
			fk.Labels = records.LabelIndex(ref, rows)
		}
	}
	rows, ok := tables[p.table.Name]
	if !ok {
		return
	}
	if p.detail {
		rows = filterByID(rows, p.recordID)
	}
	p.grid.SetRecords(rows)
}

func filterByID(rows []grid.Record, id int64) []grid.Record {
	for _, r := range rows {
		if r.ID == id {
			return []grid.Record{r}
		}
	}
	return nil
}

// dispatchContext describes the page state for the key dispatcher.
func (p *page) dispatchContext(overlayOpen bool) keymap.Context {
	_, col, selected := p.grid.SelectedRecord()
	return keymap.Context{
		CellSelected:       selected,
		EditableFocus:      p.grid.Editing() && !overlayOpen,
		DetailsContext:     p.detail,
		BlockNavigation:    p.detail,
		InlineEditHandler:  selected && col.Writable() && !col.Rich,
		OverlayOpen:        overlayOpen,
		ColumnIsForeignKey: selected && col.IsForeignKey(),
	}
}

// scrollTo keeps the selected cell inside a viewport of rows x width cells.
func (p *page) scrollTo(rows, width int) {
	addr, ok := p.grid.Selection()
	if !ok {
		p.rowOffset = min(p.rowOffset, max(0, len(p.grid.Rows())-rows))
		return
	}
	if rows > 0 {
		if addr.RowIndex < p.rowOffset {
			p.rowOffset = addr.RowIndex
		} else if addr.RowIndex >= p.rowOffset+rows {
			p.rowOffset = addr.RowIndex - rows + 1
		}
	}

	cols := p.grid.VisibleColumns()
	colIx := p.grid.Columns().VisibleIndex(addr.ColumnKey)
	if colIx < 0 {
		return
	}
	if colIx < p.colOffset {
		p.colOffset = colIx
		return
	}
	for p.colOffset < colIx && !fits(p.grid, cols[p.colOffset:colIx+1], width) {
		p.colOffset++
	}
}

func fits(g *grid.Grid, cols []grid.Column, width int) bool {
	used := 0
	for _, c := range cols {
		used += columnCells(g, c) + 1
	}
	return used <= width
}

func columnCells(g *grid.Grid, c grid.Column) int {
	if s, ok := g.Columns().Setting(c.Key); ok {
		return cellWidth(s.Width)
	}
	return cellWidth(c.Width)
}

const (
	dueColumn    = "due"
	overdueColor = "#e06c75"
)

// markOverdue highlights past due dates on rows that are not finished.
func (p *page) markOverdue(now time.Time) {
	if _, ok := p.grid.Column(dueColumn); !ok {
		return
	}
	today := now.Format(grid.DateLayout)
	for _, rec := range p.grid.Records() {
		if isOverdue(rec, today) {
			p.grid.SetCustomization(grid.CellCustomization{
				RowID:      rec.ID,
				ColumnKey:  dueColumn,
				TextColor:  overdueColor,
				FontWeight: "bold",
			})
			continue
		}
		p.grid.ClearCustomization(rec.ID, dueColumn)
	}
}

// isOverdue compares ISO dates as strings.
func isOverdue(rec grid.Record, today string) bool {
	due := grid.FormatValue(rec.Value(dueColumn))
	if due == "" {
		return false
	}
	if done, ok := rec.Value("done").(bool); ok && done {
		return false
	}
	if status, ok := rec.Value("status").(string); ok && status == "done" {
		return false
	}
	return due < today
}
