package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the application bindings that sit above the grid
// dispatcher. Grid keys live in the keymap package.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	ViewLog    key.Binding

	// Pages
	PrevPage  key.Binding
	NextPage  key.Binding
	ClosePage key.Binding

	// Rows
	NewRow    key.Binding
	Duplicate key.Binding
	Filter    key.Binding
	Sort      key.Binding

	// Overlays and inline edit
	Confirm   key.Binding
	Save      key.Binding
	NextField key.Binding
	PrevField key.Binding
	Up        key.Binding
	Down      key.Binding

	// Column panel
	ToggleVisible key.Binding
	Wider         key.Binding
	Narrower      key.Binding
	MoveUp        key.Binding
	MoveDown      key.Binding
	CycleSort     key.Binding
	EditFilter    key.Binding
	ClearFilter   key.Binding
	ClearFilters  key.Binding
}

// DefaultKeyMap returns the default application bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("ctrl+q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		ViewLog: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Show log"),
		),

		PrevPage: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Previous tab"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Next tab"),
		),
		ClosePage: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "Close detail tab"),
		),

		NewRow: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New row"),
		),
		Duplicate: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Duplicate row"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Filter column"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Sort by column"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Save"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "Up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "Down"),
		),

		ToggleVisible: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Show/hide"),
		),
		Wider: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Wider"),
		),
		Narrower: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Narrower"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "Move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "Move down"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Cycle sort"),
		),
		EditFilter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Edit filter"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear filter"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Clear all filters"),
		),
	}
}

// appLetters returns the single letters bound at application level. They
// are withheld from view navigation.
func (k keyMap) appLetters() map[string]bool {
	out := map[string]bool{}
	for _, b := range []key.Binding{k.Help, k.CycleTheme, k.ViewLog, k.PrevPage, k.NextPage, k.NewRow, k.Duplicate, k.Filter, k.Sort} {
		for _, s := range b.Keys() {
			if len([]rune(s)) == 1 {
				out[s] = true
			}
		}
	}
	return out
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.NewRow, k.Filter, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevPage, k.NextPage, k.ClosePage},
		{k.NewRow, k.Duplicate, k.Filter, k.Sort},
		{k.CycleTheme, k.ViewLog, k.Help, k.Quit},
	}
}

// ColumnPanelHelp returns the column panel bindings.
func (k keyMap) ColumnPanelHelp() []key.Binding {
	return []key.Binding{k.ToggleVisible, k.Wider, k.Narrower, k.MoveUp, k.MoveDown, k.CycleSort, k.EditFilter, k.ClearFilter, k.ClearFilters}
}
