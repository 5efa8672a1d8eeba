package grid

import "fmt"

// previewLimit bounds the clipboard confirmation preview.
const previewLimit = 30

// CopyCell stores the selected cell's underlying value. It returns the slot
// and a truncated display preview for the confirmation toast.
func (g *Grid) CopyCell() (ClipboardSlot, string, error) {
	rec, col, ok := g.SelectedRecord()
	if !ok {
		return ClipboardSlot{}, "", ErrNoSelection
	}
	slot := ClipboardSlot{
		Value:     rec.Value(col.Key),
		ColumnKey: col.Key,
		RowIndex:  g.selected.RowIndex,
	}
	g.clipboard = &slot
	return slot, Preview(DisplayText(col, rec), previewLimit), nil
}

// Clipboard returns the stored slot.
func (g *Grid) Clipboard() (ClipboardSlot, bool) {
	if g.clipboard == nil {
		return ClipboardSlot{}, false
	}
	return *g.clipboard, true
}

// PasteCell writes the clipboard value into the selected cell through the
// same coercion and commit path as an inline edit. The identifier column and
// read-only columns refuse pastes.
func (g *Grid) PasteCell() (*Commit, error) {
	if g.clipboard == nil {
		return nil, ErrEmptyClipboard
	}
	rec, col, ok := g.SelectedRecord()
	if !ok {
		return nil, ErrNoSelection
	}
	if !col.Writable() {
		return nil, fmt.Errorf("paste into %s: %w", col.Key, ErrReadOnly)
	}
	value, err := Coerce(col, Draft(g.clipboard.Value))
	if err != nil {
		g.status[cellKey{rec.ID, col.Key}] = CellStatus{State: CommitFailed, Err: err}
		return nil, err
	}
	if valuesEqual(value, rec.Value(col.Key)) {
		return nil, nil
	}
	c := g.issue(rec.ID, *g.selected, col.Key, value)
	return &c, nil
}

// Preview shortens s to limit runes with a trailing ellipsis.
func Preview(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}
