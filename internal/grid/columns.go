package grid

import (
	"slices"
	"sort"
)

const (
	DefaultMinWidth = 50
	DefaultMaxWidth = 500
	// DefaultColumnWidth applies when a definition has no width.
	DefaultColumnWidth = 150
)

// ColumnStore owns the per-column view settings for one grid.
type ColumnStore struct {
	defs     []Column
	byKey    map[string]int
	settings []ColumnSetting // parallel to defs
	minWidth int
	maxWidth int

	visible      []Column
	visibleValid bool
}

// NewColumnStore builds a store with definition defaults.
func NewColumnStore(defs []Column, minWidth, maxWidth int) *ColumnStore {
	if minWidth <= 0 {
		minWidth = DefaultMinWidth
	}
	if maxWidth < minWidth {
		maxWidth = max(DefaultMaxWidth, minWidth)
	}
	s := &ColumnStore{
		defs:     slices.Clone(defs),
		byKey:    make(map[string]int, len(defs)),
		minWidth: minWidth,
		maxWidth: maxWidth,
	}
	for i, def := range s.defs {
		s.byKey[def.Key] = i
	}
	s.settings = s.DefaultSettings()
	return s
}

// DefaultSettings returns the definition-supplied settings.
func (s *ColumnStore) DefaultSettings() []ColumnSetting {
	out := make([]ColumnSetting, len(s.defs))
	for i, def := range s.defs {
		out[i] = s.defaultSetting(def, i)
	}
	return out
}

func (s *ColumnStore) defaultSetting(def Column, order int) ColumnSetting {
	width := def.Width
	if width <= 0 {
		width = DefaultColumnWidth
	}
	return ColumnSetting{
		Key:           def.Key,
		Visible:       true,
		Width:         s.clamp(width),
		Order:         order,
		SortDirection: SortNone,
		Locked:        def.Locked,
	}
}

func (s *ColumnStore) clamp(width int) int {
	return min(max(width, s.minWidth), s.maxWidth)
}

// Definitions returns the column definitions in definition order.
func (s *ColumnStore) Definitions() []Column {
	return s.defs
}

// Column returns the definition for key.
func (s *ColumnStore) Column(key string) (Column, bool) {
	i, ok := s.byKey[key]
	if !ok {
		return Column{}, false
	}
	return s.defs[i], true
}

// Setting returns the current setting for key.
func (s *ColumnStore) Setting(key string) (ColumnSetting, bool) {
	i, ok := s.byKey[key]
	if !ok {
		return ColumnSetting{}, false
	}
	return s.settings[i], true
}

// Settings returns a copy of all settings sorted by order.
func (s *ColumnStore) Settings() []ColumnSetting {
	out := slices.Clone(s.settings)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// ToggleVisibility flips visibility unless the column is locked.
func (s *ColumnStore) ToggleVisibility(key string) bool {
	i, ok := s.byKey[key]
	if !ok || s.settings[i].Locked {
		return false
	}
	s.settings[i].Visible = !s.settings[i].Visible
	s.invalidate()
	return true
}

// Resize stores a width clamped to [minWidth, maxWidth]. Locked columns are
// left unchanged.
func (s *ColumnStore) Resize(key string, width int) bool {
	i, ok := s.byKey[key]
	if !ok || s.settings[i].Locked {
		return false
	}
	s.settings[i].Width = s.clamp(width)
	s.invalidate()
	return true
}

// Reorder moves the column at fromIndex of the order-sorted list to toIndex
// and renumbers every column densely.
func (s *ColumnStore) Reorder(fromIndex, toIndex int) bool {
	n := len(s.settings)
	if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n || fromIndex == toIndex {
		return false
	}
	ordered := s.orderedIndexes()
	moved := ordered[fromIndex]
	ordered = slices.Delete(ordered, fromIndex, fromIndex+1)
	ordered = slices.Insert(ordered, toIndex, moved)
	for pos, idx := range ordered {
		s.settings[idx].Order = pos
	}
	s.invalidate()
	return true
}

// Reset restores definition defaults.
func (s *ColumnStore) Reset() {
	s.settings = s.DefaultSettings()
	s.invalidate()
}

// SetSortMarker records the sort direction on the sorted column and clears it
// everywhere else.
func (s *ColumnStore) SetSortMarker(key string, dir SortDirection) {
	for i := range s.settings {
		if s.settings[i].Key == key {
			s.settings[i].SortDirection = dir
		} else {
			s.settings[i].SortDirection = SortNone
		}
	}
}

// Apply replaces the settings with already merged ones. Settings for unknown
// keys are ignored and missing keys keep their defaults; order is renumbered
// densely afterwards.
func (s *ColumnStore) Apply(settings []ColumnSetting) {
	next := s.DefaultSettings()
	seen := make(map[string]bool, len(settings))
	for _, st := range settings {
		i, ok := s.byKey[st.Key]
		if !ok || seen[st.Key] {
			continue
		}
		seen[st.Key] = true
		st.Width = s.clamp(st.Width)
		st.Locked = s.defs[i].Locked
		if st.Locked {
			st.Visible = true
		}
		if st.SortDirection == "" {
			st.SortDirection = SortNone
		}
		next[i] = st
	}
	for i := range next {
		if !seen[next[i].Key] {
			next[i].Order = len(settings) + i
		}
	}
	s.settings = next
	s.renumber()
	s.invalidate()
}

// VisibleColumns returns visible columns sorted by order. The result is
// cached until the next mutation and must not be modified.
func (s *ColumnStore) VisibleColumns() []Column {
	if s.visibleValid {
		return s.visible
	}
	ordered := s.orderedIndexes()
	visible := make([]Column, 0, len(ordered))
	for _, idx := range ordered {
		if s.settings[idx].Visible {
			visible = append(visible, s.defs[idx])
		}
	}
	s.visible = visible
	s.visibleValid = true
	return visible
}

// VisibleIndex returns the position of key among visible columns.
func (s *ColumnStore) VisibleIndex(key string) int {
	for i, c := range s.VisibleColumns() {
		if c.Key == key {
			return i
		}
	}
	return -1
}

func (s *ColumnStore) orderedIndexes() []int {
	idx := make([]int, len(s.settings))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return s.settings[idx[a]].Order < s.settings[idx[b]].Order
	})
	return idx
}

func (s *ColumnStore) renumber() {
	for pos, idx := range s.orderedIndexes() {
		s.settings[idx].Order = pos
	}
}

func (s *ColumnStore) invalidate() {
	s.visibleValid = false
	s.visible = nil
}
