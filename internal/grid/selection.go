package grid

import "fmt"

// PageSize is the number of rows moved by page navigation.
const PageSize = 10

// Direction is a navigation direction.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Selection returns the selected cell.
func (g *Grid) Selection() (CellAddress, bool) {
	if g.selected == nil {
		return CellAddress{}, false
	}
	return *g.selected, true
}

// SelectedRecord returns the record and column under the selection.
func (g *Grid) SelectedRecord() (Record, Column, bool) {
	if g.selected == nil {
		return Record{}, Column{}, false
	}
	rec, ok := g.Row(g.selected.RowIndex)
	if !ok {
		return Record{}, Column{}, false
	}
	col, ok := g.columns.Column(g.selected.ColumnKey)
	if !ok {
		return Record{}, Column{}, false
	}
	return rec, col, true
}

// SelectCell jumps to an absolute address.
func (g *Grid) SelectCell(row int, column string) error {
	if row < 0 || row >= len(g.rows) {
		return fmt.Errorf("select row %d of %d: %w", row, len(g.rows), ErrOutOfBounds)
	}
	colIx := g.columns.VisibleIndex(column)
	if colIx < 0 {
		return fmt.Errorf("select column %s: %w", column, ErrUnknownColumn)
	}
	g.setSelection(row, colIx)
	return nil
}

// Navigate moves the selection one cell, clamping at the edges. With no
// selection the first cell is selected.
func (g *Grid) Navigate(dir Direction) bool {
	addr, colIx, ok := g.current()
	if !ok {
		return g.selectFirst()
	}
	row := addr.RowIndex
	switch dir {
	case Up:
		row--
	case Down:
		row++
	case Left:
		colIx--
	case Right:
		colIx++
	}
	return g.moveTo(row, colIx)
}

// RowHome selects the first visible column of the current row.
func (g *Grid) RowHome() bool {
	addr, _, ok := g.current()
	if !ok {
		return g.selectFirst()
	}
	return g.moveTo(addr.RowIndex, 0)
}

// RowEnd selects the last visible column of the current row.
func (g *Grid) RowEnd() bool {
	addr, _, ok := g.current()
	if !ok {
		return g.selectFirst()
	}
	return g.moveTo(addr.RowIndex, len(g.columns.VisibleColumns())-1)
}

// GridHome selects the first cell of the grid.
func (g *Grid) GridHome() bool {
	return g.selectFirst()
}

// GridEnd selects the last cell of the grid.
func (g *Grid) GridEnd() bool {
	if len(g.rows) == 0 || len(g.columns.VisibleColumns()) == 0 {
		return false
	}
	return g.moveTo(len(g.rows)-1, len(g.columns.VisibleColumns())-1)
}

// Page moves the selection by pages (negative is up), clamped to bounds.
func (g *Grid) Page(pages int) bool {
	addr, colIx, ok := g.current()
	if !ok {
		return g.selectFirst()
	}
	return g.moveTo(addr.RowIndex+pages*PageSize, colIx)
}

// ClearSelection drops the cell selection and the multi-row selection.
func (g *Grid) ClearSelection() {
	g.selected = nil
	clear(g.rowSelection)
}

// ToggleRowSelection adds or removes the selected row from the multi-row
// selection.
func (g *Grid) ToggleRowSelection() bool {
	rec, _, ok := g.SelectedRecord()
	if !ok {
		return false
	}
	if _, selected := g.rowSelection[rec.ID]; selected {
		delete(g.rowSelection, rec.ID)
	} else {
		g.rowSelection[rec.ID] = struct{}{}
	}
	return true
}

// SelectAllRows adds every visible row to the multi-row selection.
func (g *Grid) SelectAllRows() int {
	for _, rec := range g.rows {
		g.rowSelection[rec.ID] = struct{}{}
	}
	return len(g.rows)
}

func (g *Grid) current() (CellAddress, int, bool) {
	if g.selected == nil {
		return CellAddress{}, 0, false
	}
	colIx := g.columns.VisibleIndex(g.selected.ColumnKey)
	if colIx < 0 {
		return CellAddress{}, 0, false
	}
	return *g.selected, colIx, true
}

func (g *Grid) selectFirst() bool {
	if len(g.rows) == 0 || len(g.columns.VisibleColumns()) == 0 {
		return false
	}
	return g.moveTo(0, 0)
}

func (g *Grid) moveTo(row, colIx int) bool {
	cols := g.columns.VisibleColumns()
	if len(g.rows) == 0 || len(cols) == 0 {
		g.selected = nil
		return false
	}
	row = min(max(row, 0), len(g.rows)-1)
	colIx = min(max(colIx, 0), len(cols)-1)
	before := g.selected
	g.setSelection(row, colIx)
	return before == nil || *before != *g.selected
}

func (g *Grid) setSelection(row, colIx int) {
	cols := g.columns.VisibleColumns()
	g.selected = &CellAddress{RowIndex: row, ColumnKey: cols[colIx].Key}
	g.lastColIx = colIx
}

// clampSelection restores the address invariant after the row sequence or
// the visible columns changed.
func (g *Grid) clampSelection() {
	if g.selected == nil {
		return
	}
	cols := g.columns.VisibleColumns()
	if len(g.rows) == 0 || len(cols) == 0 {
		g.selected = nil
		return
	}
	colIx := g.columns.VisibleIndex(g.selected.ColumnKey)
	if colIx < 0 {
		colIx = min(g.lastColIx, len(cols)-1)
	}
	row := min(max(g.selected.RowIndex, 0), len(g.rows)-1)
	g.setSelection(row, colIx)
}
