package grid

import "sort"

// MergeConfig reconciles a stored configuration with the current column
// definitions. Settings for columns that no longer exist are dropped,
// restored settings keep their relative order, and columns missing from the
// stored set are appended after them with default settings. Filters and the
// sort column are dropped when their column is gone.
func MergeConfig(stored ViewConfig, defaults []ColumnSetting) ViewConfig {
	known := make(map[string]ColumnSetting, len(defaults))
	for _, d := range defaults {
		known[d.Key] = d
	}

	restored := make([]ColumnSetting, 0, len(stored.Columns))
	seen := make(map[string]bool, len(stored.Columns))
	for _, st := range stored.Columns {
		def, ok := known[st.Key]
		if !ok || seen[st.Key] {
			continue
		}
		seen[st.Key] = true
		st.Locked = def.Locked
		if st.SortDirection == "" {
			st.SortDirection = SortNone
		}
		restored = append(restored, st)
	}
	sort.SliceStable(restored, func(i, j int) bool { return restored[i].Order < restored[j].Order })
	for i := range restored {
		restored[i].Order = i
	}

	next := len(restored)
	for _, d := range defaults {
		if seen[d.Key] {
			continue
		}
		d.Order = next
		next++
		restored = append(restored, d)
	}

	out := ViewConfig{
		Version:       stored.Version,
		PageID:        stored.PageID,
		Columns:       restored,
		SortColumn:    stored.SortColumn,
		SortDirection: stored.SortDirection,
	}
	for _, f := range stored.Filters {
		if _, ok := known[f.ColumnKey]; ok {
			out.Filters = append(out.Filters, f)
		}
	}
	if _, ok := known[stored.SortColumn]; !ok {
		out.SortColumn = ""
		out.SortDirection = SortNone
	}
	if out.SortDirection == "" {
		out.SortDirection = SortNone
	}
	return out
}
