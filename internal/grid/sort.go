package grid

import "slices"

// SortState is the single active (column, direction) pair.
type SortState struct {
	Column    string
	Direction SortDirection
}

// Active reports whether rows are sorted.
func (s SortState) Active() bool {
	return s.Column != "" && s.Direction != SortNone && s.Direction != ""
}

// Toggle advances the sort for key: a different column starts ascending,
// the same column cycles asc → desc → none.
func (s SortState) Toggle(key string) SortState {
	if s.Column != key || !s.Active() {
		return SortState{Column: key, Direction: SortAsc}
	}
	switch s.Direction {
	case SortAsc:
		return SortState{Column: key, Direction: SortDesc}
	default:
		return SortState{}
	}
}

// DefaultSort picks the first visible column that is not an actions,
// numeric or date column and sorts it ascending. The id column is never
// picked, even when the host types it as text.
func DefaultSort(visible []Column) SortState {
	for _, c := range visible {
		switch c.Type {
		case TypeActions, TypeNumber, TypeDate:
			continue
		}
		if c.Key == IDColumn {
			continue
		}
		return SortState{Column: c.Key, Direction: SortAsc}
	}
	return SortState{}
}

// sortKey is the precomputed comparison key for one row.
type sortKey struct {
	text  string
	raw   any
	isNil bool
}

// SortRecords returns rows ordered by state. The sort is stable and nil
// values sort last in either direction.
func SortRecords(rows []Record, col Column, dir SortDirection, cmp *Comparator) []Record {
	out := slices.Clone(rows)
	if dir != SortAsc && dir != SortDesc {
		return out
	}
	keys := make(map[int64]sortKey, len(out))
	for _, rec := range out {
		keys[rec.ID] = keyFor(col, rec)
	}
	slices.SortStableFunc(out, func(a, b Record) int {
		ka, kb := keys[a.ID], keys[b.ID]
		switch {
		case ka.isNil && kb.isNil:
			return 0
		case ka.isNil:
			return 1
		case kb.isNil:
			return -1
		}
		var c int
		if col.HasDisplayValue() {
			c = cmp.Strings(ka.text, kb.text)
		} else {
			c = cmp.Values(ka.raw, kb.raw)
		}
		if dir == SortDesc {
			c = -c
		}
		return c
	})
	return out
}

func keyFor(col Column, rec Record) sortKey {
	raw := rec.Value(col.Key)
	if col.HasDisplayValue() {
		text := NormalizeText(DisplayText(col, rec))
		if raw == nil && text == "" {
			return sortKey{isNil: true}
		}
		return sortKey{text: text, raw: raw}
	}
	if raw == nil {
		return sortKey{isNil: true}
	}
	return sortKey{raw: raw}
}
