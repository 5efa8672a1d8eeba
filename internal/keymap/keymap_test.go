package keymap

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/recgrid/internal/grid"
)

func TestFromTea(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want KeyEvent
		str  string
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, KeyEvent{Key: "up"}, "up"},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, KeyEvent{Key: "tab", Shift: true}, "shift+tab"},
		{tea.KeyMsg{Type: tea.KeyCtrlHome}, KeyEvent{Key: "home", Ctrl: true}, "ctrl+home"},
		{tea.KeyMsg{Type: tea.KeyCtrlA}, KeyEvent{Key: "a", Ctrl: true}, "ctrl+a"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("E")}, KeyEvent{Key: "e", Shift: true}, "E"},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, KeyEvent{Key: "space"}, " "},
		{tea.KeyMsg{Type: tea.KeyCtrlAt}, KeyEvent{Key: "space", Ctrl: true}, "ctrl+space"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true}, KeyEvent{Key: "x", Alt: true}, "alt+x"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			got := FromTea(tt.msg)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.str, got.String())
		})
	}
}

func TestShiftSpaceSpelling(t *testing.T) {
	assert.Equal(t, "shift+space", KeyEvent{Key: "space", Shift: true}.String())
}

func selected() Context {
	return Context{CellSelected: true}
}

func TestResolveBindingTable(t *testing.T) {
	d := New()
	tests := []struct {
		name string
		ev   KeyEvent
		want Action
	}{
		{"up", KeyEvent{Key: "up"}, Action{Kind: ActionNavigate, Direction: grid.Up}},
		{"tab", KeyEvent{Key: "tab"}, Action{Kind: ActionNavigate, Direction: grid.Right}},
		{"shift tab", KeyEvent{Key: "tab", Shift: true}, Action{Kind: ActionNavigate, Direction: grid.Left}},
		{"home", KeyEvent{Key: "home"}, Action{Kind: ActionRowHome}},
		{"ctrl end", KeyEvent{Key: "end", Ctrl: true}, Action{Kind: ActionGridEnd}},
		{"page down", KeyEvent{Key: "pgdown"}, Action{Kind: ActionPage, Pages: 1}},
		{"page up", KeyEvent{Key: "pgup"}, Action{Kind: ActionPage, Pages: -1}},
		{"enter", KeyEvent{Key: "enter"}, Action{Kind: ActionOpenViewer}},
		{"edit", KeyEvent{Key: "e"}, Action{Kind: ActionEdit}},
		{"inspect", KeyEvent{Key: "i"}, Action{Kind: ActionOpenDetail}},
		{"inspect new", KeyEvent{Key: "i", Shift: true}, Action{Kind: ActionOpenDetailNew}},
		{"shift space", KeyEvent{Key: "space", Shift: true}, Action{Kind: ActionToggleRow}},
		{"select all", KeyEvent{Key: "a", Ctrl: true}, Action{Kind: ActionSelectAll}},
		{"copy", KeyEvent{Key: "c", Ctrl: true}, Action{Kind: ActionCopy}},
		{"paste", KeyEvent{Key: "v", Ctrl: true}, Action{Kind: ActionPaste}},
		{"print", KeyEvent{Key: "p", Ctrl: true}, Action{Kind: ActionPrint}},
		{"export", KeyEvent{Key: "s", Ctrl: true}, Action{Kind: ActionExport}},
		{"columns", KeyEvent{Key: "f", Ctrl: true}, Action{Kind: ActionToggleColumns}},
		{"reset", KeyEvent{Key: "r", Ctrl: true}, Action{Kind: ActionResetConfig}},
		{"escape", KeyEvent{Key: "esc"}, Action{Kind: ActionClearSelection}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Resolve(tt.ev, selected())
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveContextGates(t *testing.T) {
	d := New()

	_, ok := d.Resolve(KeyEvent{Key: "e", Shift: true}, selected())
	assert.False(t, ok, "full edit needs a details context")
	act, ok := d.Resolve(KeyEvent{Key: "e", Shift: true}, Context{CellSelected: true, DetailsContext: true})
	require.True(t, ok)
	assert.Equal(t, ActionFullEdit, act.Kind)

	act, _ = d.Resolve(KeyEvent{Key: "enter"}, Context{CellSelected: true, InlineEditHandler: true})
	assert.Equal(t, ActionInlineEdit, act.Kind)

	act, _ = d.Resolve(KeyEvent{Key: "i"}, Context{CellSelected: true, ColumnIsForeignKey: true})
	assert.Equal(t, ActionFollowReference, act.Kind)

	act, _ = d.Resolve(KeyEvent{Key: "esc"}, Context{CellSelected: true, OverlayOpen: true})
	assert.Equal(t, ActionCloseOverlay, act.Kind)

	_, ok = d.Resolve(KeyEvent{Key: "down"}, Context{CellSelected: true, OverlayOpen: true})
	assert.False(t, ok)

	_, ok = d.Resolve(KeyEvent{Key: "e"}, Context{})
	assert.False(t, ok, "cell actions need a selection")
	_, ok = d.Resolve(KeyEvent{Key: "esc"}, Context{})
	assert.False(t, ok)

	act, ok = d.Resolve(KeyEvent{Key: "down"}, Context{})
	require.True(t, ok, "arrows select the first cell")
	assert.Equal(t, ActionNavigate, act.Kind)
}

func TestResolveFromEditableFocus(t *testing.T) {
	d := New()
	ctx := Context{CellSelected: true, EditableFocus: true}

	act, ok := d.Resolve(KeyEvent{Key: "a", Ctrl: true}, ctx)
	require.True(t, ok)
	assert.Equal(t, ActionSelectAll, act.Kind)

	act, ok = d.Resolve(KeyEvent{Key: "space", Shift: true}, ctx)
	require.True(t, ok)
	assert.Equal(t, ActionToggleRow, act.Kind)

	for _, ev := range []KeyEvent{{Key: "up"}, {Key: "e"}, {Key: "c", Ctrl: true}, {Key: "esc"}} {
		_, ok := d.Resolve(ev, ctx)
		assert.False(t, ok, ev.String())
	}

	_, ok = d.Resolve(KeyEvent{Key: "a", Ctrl: true}, Context{EditableFocus: true})
	assert.False(t, ok, "allow-list still needs a selection")
}

func TestNavigationKeys(t *testing.T) {
	d := New(WithNavigation(map[string]string{"p": "people", "t": "tasks", "e": "shadowed", "Q": "upper"}))
	assert.Equal(t, map[rune]string{'p': "people", 't': "tasks"}, d.NavigationTargets())

	act, ok := d.Resolve(KeyEvent{Key: "t"}, Context{})
	require.True(t, ok)
	assert.Equal(t, Action{Kind: ActionNavigateView, Target: "tasks"}, act)

	_, ok = d.Resolve(KeyEvent{Key: "t"}, Context{BlockNavigation: true})
	assert.False(t, ok)

	act, _ = d.Resolve(KeyEvent{Key: "e"}, selected())
	assert.Equal(t, ActionEdit, act.Kind)
}

func TestDispatchThrottlesRepeats(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	d := New(WithClock(func() time.Time { return now }))
	down := KeyEvent{Key: "down"}

	_, ok := d.Dispatch(down, selected())
	require.True(t, ok)

	now = now.Add(20 * time.Millisecond)
	_, ok = d.Dispatch(down, selected())
	assert.False(t, ok, "repeat within 50ms is dropped")

	_, ok = d.Dispatch(KeyEvent{Key: "right"}, selected())
	assert.True(t, ok, "a different action is not throttled")

	now = now.Add(10 * time.Millisecond)
	_, ok = d.Dispatch(down, selected())
	assert.True(t, ok)

	now = now.Add(RepeatInterval)
	_, ok = d.Dispatch(down, selected())
	assert.True(t, ok)
}

func TestRouterSingleActiveDispatcher(t *testing.T) {
	var r Router
	_, ok := r.Route(KeyEvent{Key: "down"}, selected())
	assert.False(t, ok)

	people := New()
	tasks := New()
	r.Activate("people", people)
	r.Activate("tasks", tasks)
	owner, ok := r.Active()
	require.True(t, ok)
	assert.Equal(t, "tasks", owner)

	r.Deactivate("people")
	owner, _ = r.Active()
	assert.Equal(t, "tasks", owner, "stale owner cannot deactivate the current one")

	_, ok = r.Route(KeyEvent{Key: "down"}, selected())
	assert.True(t, ok)

	r.Deactivate("tasks")
	_, ok = r.Active()
	assert.False(t, ok)
}

func TestClickTracker(t *testing.T) {
	var c ClickTracker
	t0 := time.Unix(0, 0)
	assert.Equal(t, 1, c.Click(2, "name", t0))
	assert.Equal(t, 2, c.Click(2, "name", t0.Add(200*time.Millisecond)))
	assert.Equal(t, 1, c.Click(2, "name", t0.Add(300*time.Millisecond)), "third click starts over")
	assert.Equal(t, 1, c.Click(3, "name", t0.Add(400*time.Millisecond)))
	assert.Equal(t, 1, c.Click(3, "name", t0.Add(time.Second)))
}

func TestActionKindString(t *testing.T) {
	assert.Equal(t, "toggle-row", ActionToggleRow.String())
	assert.Equal(t, "unknown", ActionKind(999).String())
}
