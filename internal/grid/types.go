package grid

import (
	"maps"
	"strconv"
)

// IDColumn is the key of the structural identifier column. It is never
// pasted into and is always read-only.
const IDColumn = "id"

// ColumnType describes how a column's raw values are interpreted.
type ColumnType string

const (
	TypeText       ColumnType = "text"
	TypeLongText   ColumnType = "long_text"
	TypeNumber     ColumnType = "number"
	TypeDate       ColumnType = "date"
	TypeSelect     ColumnType = "select"
	TypeBool       ColumnType = "bool"
	TypeForeignKey ColumnType = "foreign_key"
	TypeActions    ColumnType = "actions"
)

// IsNumeric reports whether values of this type coerce to numbers.
func (t ColumnType) IsNumeric() bool {
	return t == TypeNumber || t == TypeForeignKey
}

// Record is one row of host data. ID is stable across sort and filter.
type Record struct {
	ID     int64
	Values map[string]any
}

// Value returns the raw field value; the id column resolves to ID.
func (r Record) Value(key string) any {
	if key == IDColumn {
		return r.ID
	}
	if r.Values == nil {
		return nil
	}
	return r.Values[key]
}

// Clone returns a copy whose Values map can be mutated independently.
func (r Record) Clone() Record {
	return Record{ID: r.ID, Values: maps.Clone(r.Values)}
}

// ForeignKey resolves identifiers of another entity set to labels.
type ForeignKey struct {
	Entity string
	Labels map[int64]string
}

// Label returns the human-readable label for a raw foreign-key value.
func (fk *ForeignKey) Label(raw any) (string, bool) {
	if fk == nil || raw == nil {
		return "", false
	}
	id, ok := asInt64(raw)
	if !ok {
		return "", false
	}
	label, ok := fk.Labels[id]
	return label, ok
}

// Column is a host-supplied column definition.
type Column struct {
	Key      string
	Header   string
	Type     ColumnType
	Width    int
	Locked   bool
	ReadOnly bool
	// Rich marks columns edited with the multi-line editor.
	Rich bool

	// DisplayValue derives the text shown for a row. When set, sorting uses
	// the normalized display text instead of the raw value.
	DisplayValue func(rec Record) string
	// Render formats a raw value for display. It is ignored when DisplayValue
	// is set.
	Render     func(value any, rec Record) string
	ForeignKey *ForeignKey
}

// IsForeignKey reports whether the column references another entity.
func (c Column) IsForeignKey() bool {
	return c.Type == TypeForeignKey || c.ForeignKey != nil
}

// HasDisplayValue reports whether the column derives its display text from a
// function rather than the raw value.
func (c Column) HasDisplayValue() bool {
	return c.DisplayValue != nil || c.ForeignKey != nil
}

// Writable reports whether the column accepts edits and pastes.
func (c Column) Writable() bool {
	return !c.ReadOnly && c.Key != IDColumn && c.Type != TypeActions
}

// DisplayText returns the text rendered for rec in column c.
func DisplayText(c Column, rec Record) string {
	if c.DisplayValue != nil {
		return c.DisplayValue(rec)
	}
	raw := rec.Value(c.Key)
	if c.ForeignKey != nil {
		if label, ok := c.ForeignKey.Label(raw); ok {
			return label
		}
	}
	if c.Render != nil {
		return c.Render(raw, rec)
	}
	return FormatValue(raw)
}

// FormatValue renders a raw value as plain text.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		if t, ok := asTime(v); ok {
			return t.Format(DateLayout)
		}
		return toString(v)
	}
}

// SortDirection is the sort marker of a column.
type SortDirection string

const (
	SortNone SortDirection = "none"
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ColumnSetting is the per-column view state.
type ColumnSetting struct {
	Key           string        `toml:"key"`
	Visible       bool          `toml:"visible"`
	Width         int           `toml:"width"`
	Order         int           `toml:"order"`
	SortDirection SortDirection `toml:"sort_direction"`
	Locked        bool          `toml:"locked"`
}

// CellAddress identifies a cell by its index in the filtered and sorted row
// sequence and its column key.
type CellAddress struct {
	RowIndex  int
	ColumnKey string
}

// CellCustomization decorates a single cell, keyed by record id.
type CellCustomization struct {
	RowID           int64
	ColumnKey       string
	BackgroundColor string
	TextColor       string
	FontWeight      string
}

// ClipboardSlot holds the most recently copied underlying value.
type ClipboardSlot struct {
	Value     any
	ColumnKey string
	RowIndex  int
}

// ViewConfig is the persisted, versioned view state for one page.
type ViewConfig struct {
	Version       int             `toml:"version"`
	PageID        string          `toml:"page_id"`
	Columns       []ColumnSetting `toml:"columns"`
	Filters       []Filter        `toml:"filters"`
	SortColumn    string          `toml:"sort_column"`
	SortDirection SortDirection   `toml:"sort_direction"`
}
