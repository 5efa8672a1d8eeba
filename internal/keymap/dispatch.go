package keymap

import (
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/key"

	"github.com/five82/recgrid/internal/grid"
)

// RepeatInterval coalesces key repeats of the same action.
const RepeatInterval = 50 * time.Millisecond

// ActionKind names what the host should do in response to a key.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionNavigate
	ActionRowHome
	ActionRowEnd
	ActionGridHome
	ActionGridEnd
	ActionPage
	ActionOpenViewer
	ActionInlineEdit
	ActionEdit
	ActionFollowReference
	ActionOpenDetail
	ActionOpenDetailNew
	ActionFullEdit
	ActionToggleRow
	ActionSelectAll
	ActionCopy
	ActionPaste
	ActionPrint
	ActionExport
	ActionToggleColumns
	ActionResetConfig
	ActionCloseOverlay
	ActionClearSelection
	ActionNavigateView
)

var actionNames = map[ActionKind]string{
	ActionNone:            "none",
	ActionNavigate:        "navigate",
	ActionRowHome:         "row-home",
	ActionRowEnd:          "row-end",
	ActionGridHome:        "grid-home",
	ActionGridEnd:         "grid-end",
	ActionPage:            "page",
	ActionOpenViewer:      "open-viewer",
	ActionInlineEdit:      "inline-edit",
	ActionEdit:            "edit",
	ActionFollowReference: "follow-reference",
	ActionOpenDetail:      "open-detail",
	ActionOpenDetailNew:   "open-detail-new",
	ActionFullEdit:        "full-edit",
	ActionToggleRow:       "toggle-row",
	ActionSelectAll:       "select-all",
	ActionCopy:            "copy",
	ActionPaste:           "paste",
	ActionPrint:           "print",
	ActionExport:          "export",
	ActionToggleColumns:   "toggle-columns",
	ActionResetConfig:     "reset-config",
	ActionCloseOverlay:    "close-overlay",
	ActionClearSelection:  "clear-selection",
	ActionNavigateView:    "navigate-view",
}

func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return "unknown"
}

// Action is the outcome of a key press. Direction is set for navigation,
// Pages for paging and Target for view navigation.
type Action struct {
	Kind      ActionKind
	Direction grid.Direction
	Pages     int
	Target    string
}

// Context is the engine and host state the dispatcher consults.
type Context struct {
	// CellSelected is true when the grid has a selected cell.
	CellSelected bool
	// EditableFocus is true while a text-entry element has focus.
	EditableFocus bool
	// DetailsContext permits full-record edit.
	DetailsContext bool
	// BlockNavigation suppresses cross-view navigation keys.
	BlockNavigation bool
	// InlineEditHandler makes Enter start an inline edit instead of opening
	// the viewer.
	InlineEditHandler bool
	// OverlayOpen is true while a viewer or panel covers the grid.
	OverlayOpen bool
	// ColumnIsForeignKey describes the selected cell's column.
	ColumnIsForeignKey bool
}

// Dispatcher maps key events to actions. Resolve is pure; Dispatch adds
// repeat throttling.
type Dispatcher struct {
	keys     KeyMap
	navKeys  map[rune]string
	interval time.Duration
	now      func() time.Time

	last   Action
	lastAt time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithKeyMap replaces the default bindings.
func WithKeyMap(k KeyMap) Option {
	return func(d *Dispatcher) { d.keys = k }
}

// WithNavigation sets the single lowercase letters that navigate to other
// views. Letters bound to grid actions are ignored.
func WithNavigation(targets map[string]string) Option {
	return func(d *Dispatcher) {
		d.navKeys = map[rune]string{}
		for letter, target := range targets {
			runes := []rune(letter)
			if len(runes) != 1 || !unicode.IsLower(runes[0]) {
				continue
			}
			if d.boundToGrid(KeyEvent{Key: letter}) {
				continue
			}
			d.navKeys[runes[0]] = target
		}
	}
}

// WithClock overrides the time source used for throttling.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithRepeatInterval overrides RepeatInterval.
func WithRepeatInterval(iv time.Duration) Option {
	return func(d *Dispatcher) { d.interval = iv }
}

// New builds a dispatcher. Options apply in order, so WithKeyMap must come
// before WithNavigation when both are used.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		keys:     DefaultKeyMap(),
		navKeys:  map[rune]string{},
		interval: RepeatInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// KeyMap returns the bindings in use.
func (d *Dispatcher) KeyMap() KeyMap {
	return d.keys
}

// NavigationTargets returns the letter to view mapping.
func (d *Dispatcher) NavigationTargets() map[rune]string {
	return d.navKeys
}

func (d *Dispatcher) boundToGrid(ev KeyEvent) bool {
	k := d.keys
	for _, b := range []key.Binding{
		k.Up, k.Down, k.Left, k.Right, k.Home, k.End, k.GridHome, k.GridEnd,
		k.PageUp, k.PageDown, k.Open, k.Edit, k.Inspect, k.InspectNew,
		k.FullEdit, k.ToggleRow, k.SelectAll, k.Copy, k.Paste, k.Print,
		k.Export, k.Columns, k.ResetConfig, k.Escape,
	} {
		if key.Matches(ev, b) {
			return true
		}
	}
	return false
}

// Resolve maps ev to an action without side effects.
func (d *Dispatcher) Resolve(ev KeyEvent, ctx Context) (Action, bool) {
	k := d.keys

	// From a text field only the row-selection pair passes through.
	if ctx.EditableFocus {
		if !ctx.CellSelected {
			return Action{}, false
		}
		switch {
		case key.Matches(ev, k.SelectAll):
			return Action{Kind: ActionSelectAll}, true
		case key.Matches(ev, k.ToggleRow):
			return Action{Kind: ActionToggleRow}, true
		}
		return Action{}, false
	}

	if key.Matches(ev, k.Escape) {
		switch {
		case ctx.OverlayOpen:
			return Action{Kind: ActionCloseOverlay}, true
		case ctx.CellSelected:
			return Action{Kind: ActionClearSelection}, true
		}
		return Action{}, false
	}
	if ctx.OverlayOpen {
		return Action{}, false
	}

	switch {
	case key.Matches(ev, k.Up):
		return Action{Kind: ActionNavigate, Direction: grid.Up}, true
	case key.Matches(ev, k.Down):
		return Action{Kind: ActionNavigate, Direction: grid.Down}, true
	case key.Matches(ev, k.Left):
		return Action{Kind: ActionNavigate, Direction: grid.Left}, true
	case key.Matches(ev, k.Right):
		return Action{Kind: ActionNavigate, Direction: grid.Right}, true
	case key.Matches(ev, k.GridHome):
		return Action{Kind: ActionGridHome}, true
	case key.Matches(ev, k.GridEnd):
		return Action{Kind: ActionGridEnd}, true
	case key.Matches(ev, k.Home):
		return Action{Kind: ActionRowHome}, true
	case key.Matches(ev, k.End):
		return Action{Kind: ActionRowEnd}, true
	case key.Matches(ev, k.PageUp):
		return Action{Kind: ActionPage, Pages: -1}, true
	case key.Matches(ev, k.PageDown):
		return Action{Kind: ActionPage, Pages: 1}, true
	case key.Matches(ev, k.Print):
		return Action{Kind: ActionPrint}, true
	case key.Matches(ev, k.Export):
		return Action{Kind: ActionExport}, true
	case key.Matches(ev, k.Columns):
		return Action{Kind: ActionToggleColumns}, true
	case key.Matches(ev, k.ResetConfig):
		return Action{Kind: ActionResetConfig}, true
	}

	if r, ok := ev.Rune(); ok && !ctx.BlockNavigation {
		if target, ok := d.navKeys[r]; ok {
			return Action{Kind: ActionNavigateView, Target: target}, true
		}
	}

	if !ctx.CellSelected {
		return Action{}, false
	}
	switch {
	case key.Matches(ev, k.Open):
		if ctx.InlineEditHandler {
			return Action{Kind: ActionInlineEdit}, true
		}
		return Action{Kind: ActionOpenViewer}, true
	case key.Matches(ev, k.Edit):
		return Action{Kind: ActionEdit}, true
	case key.Matches(ev, k.Inspect):
		if ctx.ColumnIsForeignKey {
			return Action{Kind: ActionFollowReference}, true
		}
		return Action{Kind: ActionOpenDetail}, true
	case key.Matches(ev, k.InspectNew):
		return Action{Kind: ActionOpenDetailNew}, true
	case key.Matches(ev, k.FullEdit):
		if ctx.DetailsContext {
			return Action{Kind: ActionFullEdit}, true
		}
	case key.Matches(ev, k.ToggleRow):
		return Action{Kind: ActionToggleRow}, true
	case key.Matches(ev, k.SelectAll):
		return Action{Kind: ActionSelectAll}, true
	case key.Matches(ev, k.Copy):
		return Action{Kind: ActionCopy}, true
	case key.Matches(ev, k.Paste):
		return Action{Kind: ActionPaste}, true
	}
	return Action{}, false
}

// Dispatch resolves ev and drops repeats of the previous action that arrive
// within the repeat interval.
func (d *Dispatcher) Dispatch(ev KeyEvent, ctx Context) (Action, bool) {
	act, ok := d.Resolve(ev, ctx)
	if !ok {
		return Action{}, false
	}
	now := d.now()
	if act == d.last && !d.lastAt.IsZero() && now.Sub(d.lastAt) < d.interval {
		return Action{}, false
	}
	d.last = act
	d.lastAt = now
	return act, true
}
