package keymap

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the grid bindings. Keys are spelled as KeyEvent.String
// renders them.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Home     key.Binding
	End      key.Binding
	GridHome key.Binding
	GridEnd  key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	Open        key.Binding
	Edit        key.Binding
	Inspect     key.Binding
	InspectNew  key.Binding
	FullEdit    key.Binding
	ToggleRow   key.Binding
	SelectAll   key.Binding
	Copy        key.Binding
	Paste       key.Binding
	Print       key.Binding
	Export      key.Binding
	Columns     key.Binding
	ResetConfig key.Binding
	Escape      key.Binding
}

// DefaultKeyMap returns the default grid bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "shift+tab"),
			key.WithHelp("←/shift+tab", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "tab"),
			key.WithHelp("→/tab", "move right"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "first column"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "last column"),
		),
		GridHome: key.NewBinding(
			key.WithKeys("ctrl+home"),
			key.WithHelp("ctrl+home", "first cell"),
		),
		GridEnd: key.NewBinding(
			key.WithKeys("ctrl+end"),
			key.WithHelp("ctrl+end", "last cell"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "up 10 rows"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "down 10 rows"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "view cell"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit cell"),
		),
		Inspect: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "details / follow reference"),
		),
		InspectNew: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "details in new tab"),
		),
		FullEdit: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "edit record"),
		),
		ToggleRow: key.NewBinding(
			key.WithKeys("shift+space", "ctrl+space"),
			key.WithHelp("shift+space", "toggle row"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "select all rows"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "copy"),
		),
		Paste: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("ctrl+v", "paste"),
		),
		Print: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "print"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "export"),
		),
		Columns: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "columns & filters"),
		),
		ResetConfig: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reset view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close / clear selection"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Edit, k.Inspect, k.Columns, k.Escape}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Home, k.End, k.GridHome, k.GridEnd, k.PageUp, k.PageDown},
		{k.Open, k.Edit, k.Inspect, k.InspectNew, k.FullEdit},
		{k.ToggleRow, k.SelectAll, k.Copy, k.Paste},
		{k.Print, k.Export, k.Columns, k.ResetConfig, k.Escape},
	}
}
