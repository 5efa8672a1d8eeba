package ui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/recgrid/internal/export"
	"github.com/five82/recgrid/internal/grid"
	"github.com/five82/recgrid/internal/keymap"
	"github.com/five82/recgrid/internal/logging"
	"github.com/five82/recgrid/internal/logtail"
)

// performAction carries out a dispatcher action on the active page.
func (m Model) performAction(act keymap.Action) (tea.Model, tea.Cmd) {
	p := m.page()
	g := p.grid
	var cmd tea.Cmd

	switch act.Kind {
	case keymap.ActionNavigate:
		g.Navigate(act.Direction)
	case keymap.ActionRowHome:
		g.RowHome()
	case keymap.ActionRowEnd:
		g.RowEnd()
	case keymap.ActionGridHome:
		g.GridHome()
	case keymap.ActionGridEnd:
		g.GridEnd()
	case keymap.ActionPage:
		g.Page(act.Pages)

	case keymap.ActionOpenViewer:
		if rec, col, ok := g.SelectedRecord(); ok {
			m.modal = newViewerModal(col.Header, grid.DisplayText(col, rec), m.width, m.height)
		}
	case keymap.ActionInlineEdit:
		cmd = m.startInlineEdit(p)
	case keymap.ActionEdit:
		cmd = m.startEdit(p)

	case keymap.ActionFollowReference:
		cmd = m.followReference(p)
	case keymap.ActionOpenDetail:
		if rec, _, ok := g.SelectedRecord(); ok {
			m.modal = newViewerModal(detailTitle(p, rec.ID), recordDetail(p, rec), m.width, m.height)
		}
	case keymap.ActionOpenDetailNew:
		cmd = m.openDetailPage(p)
	case keymap.ActionFullEdit:
		if rec, _, ok := g.SelectedRecord(); ok {
			m.modal = newRecordModal(p, rec)
		}

	case keymap.ActionToggleRow:
		if g.ToggleRowSelection() {
			cmd = m.showToast(fmt.Sprintf("%d rows marked", len(g.SelectedRowIDs())), toastInfo)
		}
	case keymap.ActionSelectAll:
		n := g.SelectAllRows()
		cmd = m.showToast(fmt.Sprintf("%d rows marked", n), toastInfo)

	case keymap.ActionCopy:
		cmd = m.copyCell(p)
	case keymap.ActionPaste:
		cmd = m.pasteCell(p)
	case keymap.ActionPrint:
		cmd = m.printPage(p)
	case keymap.ActionExport:
		cmd = m.exportCmd(p)

	case keymap.ActionToggleColumns:
		m.modal = newColumnPanel(p)
	case keymap.ActionResetConfig:
		g.Reset()
		cmd = m.showToast("View reset to defaults", toastInfo)
	case keymap.ActionClearSelection:
		g.ClearSelection()
	case keymap.ActionCloseOverlay:
		m.closeModal()
	case keymap.ActionNavigateView:
		cmd = m.switchPage(m.pageIndex(act.Target))
	}

	m.scroll()
	return m, cmd
}

// startInlineEdit opens the inline editor on the selected cell.
func (m *Model) startInlineEdit(p *page) tea.Cmd {
	if err := p.grid.StartEditSelected(); err != nil {
		return m.showToast(err.Error(), toastError)
	}
	m.editor.SetValue(p.grid.Draft())
	m.editor.CursorEnd()
	return m.editor.Focus()
}

// startEdit opens the editor that suits the selected column: the
// multi-line editor for rich columns, the inline editor otherwise.
func (m *Model) startEdit(p *page) tea.Cmd {
	_, col, ok := p.grid.SelectedRecord()
	if !ok {
		return nil
	}
	if !col.Rich {
		return m.startInlineEdit(p)
	}
	if err := p.grid.StartEditSelected(); err != nil {
		return m.showToast(err.Error(), toastError)
	}
	m.modal = newEditorModal("Edit "+col.Header, p.id, p.grid.Draft(), m.width, m.height)
	return nil
}

// commitEdit finalizes the open edit session. A coercion failure keeps the
// session open and reports the error.
func (m *Model) commitEdit(p *page) tea.Cmd {
	c, err := p.grid.CommitEdit()
	if err != nil {
		return m.showToast(err.Error(), toastError)
	}
	m.editor.Blur()
	if c == nil {
		return nil
	}
	return m.queueCommit(p, *c)
}

// resolveCommit sends the next queued commit for the table and applies the
// result to its page. The next commit comes first in the returned batch.
func (m *Model) resolveCommit(msg commitResultMsg) tea.Cmd {
	var cmds []tea.Cmd
	if next, ok := m.commits.done(msg.table); ok {
		cmds = append(cmds, m.sendCommit(next))
	}
	if p := m.pageByID(msg.pageID); p != nil {
		cmds = append(cmds, m.applyCommitResult(p, msg))
	}
	return tea.Batch(cmds...)
}

// applyCommitResult resolves the commit on the grid and schedules the saved
// marker to clear.
func (m *Model) applyCommitResult(p *page, msg commitResultMsg) tea.Cmd {
	p.grid.ResolveCommit(msg.commit.Seq, msg.record, msg.err)
	if msg.err != nil {
		return m.showToast("Save failed: "+msg.err.Error(), toastError)
	}
	p.markOverdue(m.now())

	fields := make([]string, 0, len(msg.commit.Fields))
	for f := range msg.commit.Fields {
		fields = append(fields, f)
	}
	done := clearStatusMsg{pageID: p.id, rowID: msg.commit.RowID, fields: fields, seq: msg.commit.Seq}
	return tea.Tick(grid.StatusClearDelay, func(time.Time) tea.Msg { return done })
}

// followReference jumps to the page of the record a foreign-key cell
// points at.
func (m *Model) followReference(p *page) tea.Cmd {
	rec, col, ok := p.grid.SelectedRecord()
	if !ok || col.ForeignKey == nil {
		return nil
	}
	id, ok := referenceID(rec.Value(col.Key))
	if !ok {
		return m.showToast(col.Header+" is empty", toastInfo)
	}
	target := m.pageIndex(col.ForeignKey.Entity)
	if target < 0 {
		return m.showToast("No page for "+col.ForeignKey.Entity, toastError)
	}
	cmd := m.switchPage(target)
	if m.current != target {
		return cmd
	}
	tp := m.pages[target]
	row := tp.grid.RowIndex(id)
	if row < 0 {
		return tea.Batch(cmd, m.showToast(fmt.Sprintf("%s #%d is hidden by filters", tp.title, id), toastInfo))
	}
	column := grid.IDColumn
	if addr, ok := tp.grid.Selection(); ok {
		column = addr.ColumnKey
	}
	if err := tp.grid.SelectCell(row, column); err != nil {
		if vis := tp.grid.VisibleColumns(); len(vis) > 0 {
			_ = tp.grid.SelectCell(row, vis[0].Key)
		}
	}
	return cmd
}

// referenceID reads a foreign-key value as a record id.
func referenceID(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		if n == math.Trunc(n) {
			return int64(n), true
		}
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return id, err == nil
	}
	return 0, false
}

func detailTitle(p *page, id int64) string {
	return fmt.Sprintf("%s #%d", p.table.Label, id)
}

// recordDetail lists every field of rec, hidden columns included.
func recordDetail(p *page, rec grid.Record) string {
	defs := p.grid.Columns().Definitions()
	labelWidth := 0
	for _, c := range defs {
		labelWidth = max(labelWidth, len([]rune(c.Header)))
	}
	var b strings.Builder
	for i, c := range defs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(padRight(c.Header, labelWidth+2))
		b.WriteString(grid.DisplayText(c, rec))
	}
	return b.String()
}

// openDetailPage opens the selected record in its own tab, or focuses the
// tab if it is already open.
func (m *Model) openDetailPage(p *page) tea.Cmd {
	rec, _, ok := p.grid.SelectedRecord()
	if !ok {
		return nil
	}
	id := fmt.Sprintf("%s/%d", p.table.Name, rec.ID)
	if i := m.pageIndex(id); i >= 0 {
		return m.switchPage(i)
	}
	dp := newDetailPage(p.table, rec.ID, m.labelMaps(), m.pageOpts)
	dp.applyRecords(m.tables, m.catalog)
	if len(dp.grid.Records()) == 0 {
		dp.grid.SetRecords([]grid.Record{rec})
	}
	dp.markOverdue(m.now())
	dp.grid.GridHome()
	m.pages = append(m.pages, dp)
	return m.switchPage(len(m.pages) - 1)
}

// copyCell stores the selected value and mirrors it to the OS clipboard.
func (m *Model) copyCell(p *page) tea.Cmd {
	slot, preview, err := p.grid.CopyCell()
	if err != nil {
		return m.showToast(err.Error(), toastError)
	}
	if err := m.copyText(grid.Draft(slot.Value)); err != nil {
		logging.Debug("system clipboard unavailable", "error", err)
	}
	return m.showToast("Copied: "+preview, toastSuccess)
}

// pasteCell writes the stored value into the selected cell.
func (m *Model) pasteCell(p *page) tea.Cmd {
	c, err := p.grid.PasteCell()
	if err != nil {
		return m.showToast("Paste: "+err.Error(), toastError)
	}
	if c == nil {
		return nil
	}
	return m.queueCommit(p, *c)
}

// exportRows snapshots the visible columns and rows of a page.
func exportRows(p *page) ([]grid.Column, []grid.Record) {
	cols := p.grid.VisibleColumns()
	rows := make([]grid.Record, len(p.grid.Rows()))
	for i, r := range p.grid.Rows() {
		rows[i] = r.Clone()
	}
	return cols, rows
}

// printPage shows the printable table and writes it to the export
// directory.
func (m *Model) printPage(p *page) tea.Cmd {
	cols, rows := exportRows(p)
	text := export.Print(p.title, cols, rows, 0)
	m.modal = newViewerModal("Print "+p.title, text, m.width, m.height)
	return m.writeExportCmd(p, export.FormatText, cols, rows)
}

// logLines bounds the log viewer.
const logLines = 300

// openLog shows the tail of the log file.
func (m *Model) openLog() {
	text := "No log file configured"
	if m.logPath != "" {
		lines, err := logtail.Tail(m.logPath, logLines)
		switch {
		case err != nil:
			text = "Cannot read log: " + err.Error()
		case len(lines) == 0:
			text = "No log entries yet"
		default:
			text = strings.Join(lines, "\n")
		}
	}
	v := newViewerModal("Log", text, m.width, m.height)
	v.vp.GotoBottom()
	m.modal = v
}

// exportCmd writes the visible rows in the configured format.
func (m *Model) exportCmd(p *page) tea.Cmd {
	format, err := export.ParseFormat(m.config.ExportFormat)
	if err != nil {
		return m.showToast(err.Error(), toastError)
	}
	cols, rows := exportRows(p)
	return m.writeExportCmd(p, format, cols, rows)
}

func (m Model) writeExportCmd(p *page, format export.Format, cols []grid.Column, rows []grid.Record) tea.Cmd {
	dir, name, pageID, now := m.config.ExportDir, p.table.Name, p.id, m.now()
	if p.detail {
		name = fmt.Sprintf("%s-%d", p.table.Name, p.recordID)
	}
	return func() tea.Msg {
		path, err := export.WriteFile(dir, name, format, cols, rows, now)
		return exportDoneMsg{pageID: pageID, path: path, err: err}
	}
}

// createRowCmd asks the source for a new empty row, or a copy of dup.
func (m Model) createRowCmd(p *page, dup *grid.Record) tea.Cmd {
	ctx, source, table, pageID := m.ctx, m.source, p.table.Name, p.id
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, CommitTimeout)
		defer cancel()
		if dup != nil {
			rec, err := source.Duplicate(ctx, table, dup.ID)
			return rowCreatedMsg{pageID: pageID, record: rec, duplicate: true, err: err}
		}
		rec, err := source.CreateEmpty(ctx, table)
		return rowCreatedMsg{pageID: pageID, record: rec, err: err}
	}
}

// handleRowCreated adds a created row locally and selects it.
func (m *Model) handleRowCreated(msg rowCreatedMsg) tea.Cmd {
	if msg.err != nil {
		logging.Warn("create row failed", "page", msg.pageID, "error", msg.err)
		return m.showToast("Create failed: "+msg.err.Error(), toastError)
	}
	p := m.pageByID(msg.pageID)
	if p == nil {
		return nil
	}
	rows := append(slices.Clone(p.grid.Records()), msg.record)
	m.tables[p.table.Name] = append(m.tables[p.table.Name], msg.record.Clone())
	p.grid.SetRecords(rows)

	verb := "Created"
	if msg.duplicate {
		verb = "Duplicated as"
	}
	label := fmt.Sprintf("%s #%d", verb, msg.record.ID)

	row := p.grid.RowIndex(msg.record.ID)
	if row < 0 {
		return m.showToast(label+" (hidden by filters)", toastInfo)
	}
	column := ""
	for _, c := range p.grid.VisibleColumns() {
		if c.Writable() {
			column = c.Key
			break
		}
	}
	if column == "" {
		if addr, ok := p.grid.Selection(); ok {
			column = addr.ColumnKey
		}
	}
	if column != "" {
		_ = p.grid.SelectCell(row, column)
	}
	m.scroll()
	return m.showToast(label, toastInfo)
}

// applyFilterInput sets or clears a filter from prompt input.
func (m *Model) applyFilterInput(msg promptSubmitMsg) tea.Cmd {
	p := m.pageByID(msg.pageID)
	if p == nil {
		return nil
	}
	if strings.TrimSpace(msg.value) == "" {
		p.grid.RemoveFilter(msg.column)
		m.scroll()
		return nil
	}
	col, ok := p.grid.Column(msg.column)
	if !ok {
		return nil
	}
	f, err := grid.ParseFilter(col, msg.value)
	if err == nil {
		err = p.grid.SetFilter(f)
	}
	if err != nil {
		return m.showToast("Filter: "+err.Error(), toastError)
	}
	m.scroll()
	return nil
}

// submitRecord commits every changed field of a full-record edit. Each
// field goes through the inline edit path, so coercion rules are shared.
func (m *Model) submitRecord(msg recordSubmitMsg) tea.Cmd {
	p := m.pageByID(msg.pageID)
	if p == nil {
		return nil
	}
	row := p.grid.RowIndex(msg.rowID)
	if row < 0 {
		return m.showToast(fmt.Sprintf("Record #%d is no longer visible", msg.rowID), toastError)
	}

	selection, hadSelection := p.grid.Selection()

	var cmds []tea.Cmd
	var failures []string
	for _, col := range p.grid.VisibleColumns() {
		draft, ok := msg.drafts[col.Key]
		if !ok {
			continue
		}
		if err := p.grid.StartEdit(grid.CellAddress{RowIndex: row, ColumnKey: col.Key}); err != nil {
			if !errors.Is(err, grid.ErrReadOnly) {
				failures = append(failures, col.Header+": "+err.Error())
			}
			continue
		}
		p.grid.SetDraft(draft)
		c, err := p.grid.CommitEdit()
		if err != nil {
			p.grid.CancelEdit()
			failures = append(failures, col.Header+": "+err.Error())
			continue
		}
		if c != nil {
			cmds = append(cmds, m.queueCommit(p, *c))
		}
	}

	if hadSelection {
		_ = p.grid.SelectCell(selection.RowIndex, selection.ColumnKey)
	}
	if len(failures) > 0 {
		cmds = append(cmds, m.showToast(strings.Join(failures, "; "), toastError))
	}
	return tea.Batch(cmds...)
}
