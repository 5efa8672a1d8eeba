package grid

import (
	"fmt"
	"maps"
	"time"
)

// StatusClearDelay is how long a saved marker stays on a cell.
const StatusClearDelay = 2 * time.Second

// EditState is the phase of the inline edit session.
type EditState int

const (
	EditIdle EditState = iota
	EditEditing
)

// CommitState is the transient status shown on a committed cell.
type CommitState int

const (
	CommitSaving CommitState = iota + 1
	CommitSaved
	CommitFailed
)

func (s CommitState) String() string {
	switch s {
	case CommitSaving:
		return "saving"
	case CommitSaved:
		return "saved"
	case CommitFailed:
		return "error"
	default:
		return "idle"
	}
}

// CellStatus is the commit status of one cell.
type CellStatus struct {
	State CommitState
	Seq   int64
	Err   error
}

// Commit is one update issued to the host. Fields holds only the columns
// the edit changed.
type Commit struct {
	Seq     int64
	RowID   int64
	Address CellAddress
	Fields  map[string]any
}

type editSession struct {
	state    EditState
	address  CellAddress
	rowID    int64
	column   Column
	original any
	draft    string
}

// StartEdit opens an edit session at addr, capturing the raw value as the
// draft. The cell becomes the selection.
func (g *Grid) StartEdit(addr CellAddress) error {
	if err := g.SelectCell(addr.RowIndex, addr.ColumnKey); err != nil {
		return err
	}
	rec, col, _ := g.SelectedRecord()
	if !col.Writable() {
		return fmt.Errorf("edit %s: %w", col.Key, ErrReadOnly)
	}
	raw := rec.Value(col.Key)
	g.edit = editSession{
		state:    EditEditing,
		address:  *g.selected,
		rowID:    rec.ID,
		column:   col,
		original: raw,
		draft:    Draft(raw),
	}
	return nil
}

// StartEditSelected opens an edit session on the selected cell.
func (g *Grid) StartEditSelected() error {
	addr, ok := g.Selection()
	if !ok {
		return ErrNoSelection
	}
	return g.StartEdit(addr)
}

// Editing reports whether an edit session is open.
func (g *Grid) Editing() bool {
	return g.edit.state == EditEditing
}

// EditAddress returns the address and column of the open session.
func (g *Grid) EditAddress() (CellAddress, Column, bool) {
	if !g.Editing() {
		return CellAddress{}, Column{}, false
	}
	return g.edit.address, g.edit.column, true
}

// Draft returns the current edit buffer.
func (g *Grid) Draft() string {
	return g.edit.draft
}

// SetDraft replaces the edit buffer.
func (g *Grid) SetDraft(s string) {
	if g.Editing() {
		g.edit.draft = s
	}
}

// CancelEdit discards the draft.
func (g *Grid) CancelEdit() {
	g.edit = editSession{}
}

// CommitEdit finalizes the session. It returns a nil Commit when the coerced
// value equals the original. Coercion failures leave the session open and
// mark the cell failed.
func (g *Grid) CommitEdit() (*Commit, error) {
	if !g.Editing() {
		return nil, ErrNotEditing
	}
	session := g.edit
	value, err := Coerce(session.column, session.draft)
	if err != nil {
		g.status[cellKey{session.rowID, session.column.Key}] = CellStatus{State: CommitFailed, Err: err}
		return nil, err
	}
	g.edit = editSession{}
	if valuesEqual(value, session.original) {
		return nil, nil
	}
	c := g.issue(session.rowID, session.address, session.column.Key, value)
	return &c, nil
}

func (g *Grid) issue(rowID int64, addr CellAddress, column string, value any) Commit {
	g.seq++
	key := cellKey{rowID, column}
	g.fieldSeq[key] = g.seq
	g.status[key] = CellStatus{State: CommitSaving, Seq: g.seq}
	c := Commit{
		Seq:     g.seq,
		RowID:   rowID,
		Address: addr,
		Fields:  map[string]any{column: value},
	}
	g.pending[c.Seq] = c
	return c
}

// PendingCommits returns the number of commits awaiting a result.
func (g *Grid) PendingCommits() int {
	return len(g.pending)
}

// ResolveCommit applies the host's answer to commit seq. On success only the
// fields the commit changed are merged, and only when no newer commit for
// the same field was issued since. On failure local data is unchanged.
func (g *Grid) ResolveCommit(seq int64, updated Record, err error) {
	c, ok := g.pending[seq]
	if !ok {
		return
	}
	delete(g.pending, seq)

	if err != nil {
		for field := range c.Fields {
			key := cellKey{c.RowID, field}
			if g.fieldSeq[key] == seq {
				g.status[key] = CellStatus{State: CommitFailed, Seq: seq, Err: err}
			}
		}
		g.logger.Warn("row update failed", "row", c.RowID, "fields", fieldNames(c.Fields), "error", err)
		return
	}

	merged := false
	for field, sent := range c.Fields {
		key := cellKey{c.RowID, field}
		if g.fieldSeq[key] != seq {
			continue
		}
		value := sent
		if updated.Values != nil {
			if v, ok := updated.Values[field]; ok {
				value = v
			}
		}
		if g.mergeField(c.RowID, field, value) {
			merged = true
		}
		g.status[key] = CellStatus{State: CommitSaved, Seq: seq}
	}
	if merged {
		g.refresh()
	}
}

// ClearStatus removes a cell status set by commit seq. Newer statuses are
// left alone.
func (g *Grid) ClearStatus(rowID int64, column string, seq int64) {
	key := cellKey{rowID, column}
	if st, ok := g.status[key]; ok && st.Seq == seq {
		delete(g.status, key)
	}
}

func (g *Grid) mergeField(rowID int64, field string, value any) bool {
	for i := range g.records {
		if g.records[i].ID != rowID {
			continue
		}
		if g.records[i].Values == nil {
			g.records[i].Values = map[string]any{}
		}
		g.records[i].Values[field] = value
		return true
	}
	return false
}

func fieldNames(fields map[string]any) []string {
	names := make([]string, 0, len(fields))
	for k := range maps.Keys(fields) {
		names = append(names, k)
	}
	return names
}
