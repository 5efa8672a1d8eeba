package ui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/recgrid/internal/keymap"
)

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

func bindingItems(bindings ...key.Binding) []helpItem {
	items := make([]helpItem, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		items = append(items, helpItem{h.Key, h.Desc})
	}
	return items
}

// helpModal lists every binding. Any key closes it.
type helpModal struct {
	sections []helpSection
}

func newHelpModal(app keyMap, grid keymap.KeyMap, nav map[rune]string) *helpModal {
	navItems := make([]helpItem, 0, len(nav))
	for r, target := range nav {
		navItems = append(navItems, helpItem{string(r), "Go to " + target})
	}
	slices.SortFunc(navItems, func(a, b helpItem) int { return strings.Compare(a.key, b.key) })

	sections := []helpSection{
		{
			title: "Grid",
			items: bindingItems(grid.Up, grid.Down, grid.Left, grid.Right, grid.Home, grid.End,
				grid.GridHome, grid.GridEnd, grid.PageUp, grid.PageDown),
		},
		{
			title: "Cell",
			items: bindingItems(grid.Open, grid.Edit, grid.Inspect, grid.InspectNew, grid.FullEdit,
				grid.Copy, grid.Paste),
		},
		{
			title: "Rows & view",
			items: bindingItems(grid.ToggleRow, grid.SelectAll, app.NewRow, app.Duplicate, app.Filter, app.Sort,
				grid.Columns, grid.ResetConfig, grid.Print, grid.Export, grid.Escape),
		},
		{
			title: "Tabs",
			items: append(bindingItems(app.PrevPage, app.NextPage, app.ClosePage), navItems...),
		},
		{
			title: "General",
			items: bindingItems(app.CycleTheme, app.ViewLog, app.Help, app.Quit),
		},
	}
	return &helpModal{sections: sections}
}

func (h *helpModal) Update(tea.KeyMsg, keyMap) (Modal, tea.Cmd, bool) {
	return h, nil, true
}

func (h *helpModal) View(theme Theme, width, _ int) string {
	styles := theme.Styles()
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Warning)).
		Width(14)

	columns := make([]string, 0, 2)
	var b strings.Builder
	for i, section := range h.sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}
		if i == 1 {
			columns = append(columns, b.String())
			b.Reset()
			continue
		}
		if i < len(h.sections)-1 {
			b.WriteString("\n")
		}
	}
	columns = append(columns, b.String())

	w := modalWidth(width, 90)
	col := lipgloss.NewStyle().Width((w - 8) / 2)
	body := lipgloss.JoinHorizontal(lipgloss.Top, col.Render(columns[0]), col.Render(columns[1]))
	return modalFrame(theme, "Keyboard Shortcuts", body, w)
}
