package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/recgrid/internal/grid"
)

// handleMouse maps clicks and the wheel onto the grid. Mouse input is
// ignored while a modal is open.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil || !m.ready {
		return m, nil
	}
	p := m.page()
	if p == nil {
		return m, nil
	}

	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if !p.grid.Editing() {
			p.grid.Navigate(grid.Up)
			m.scroll()
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if !p.grid.Editing() {
			p.grid.Navigate(grid.Down)
			m.scroll()
		}
		return m, nil
	case tea.MouseButtonLeft:
		return m.handleClick(msg.X, msg.Y)
	}
	return m, nil
}

// handleClick selects the clicked cell. A second click on the same cell
// within the double-click interval starts an edit. Clicking a column
// header toggles its sort and clicking a tab switches to it.
func (m Model) handleClick(x, y int) (tea.Model, tea.Cmd) {
	p := m.page()

	if y < headerLines {
		for i, span := range m.tabSpans() {
			if x >= span.start && x < span.end {
				cmd := m.switchPage(i)
				return m, cmd
			}
		}
		return m, nil
	}

	column := m.columnAt(p, x)
	if column == "" {
		return m, nil
	}

	if y < headerLines+columnLines {
		if p.grid.Editing() {
			return m, nil
		}
		if err := p.grid.ToggleSort(column); err != nil {
			cmd := m.showToast(err.Error(), toastError)
			return m, cmd
		}
		m.scroll()
		return m, nil
	}

	row := y - headerLines - columnLines + p.rowOffset
	if y >= m.height-footerLines || row >= len(p.grid.Rows()) {
		return m, nil
	}

	var cmds []tea.Cmd
	if p.grid.Editing() {
		if addr, _, _ := p.grid.EditAddress(); addr.RowIndex == row && addr.ColumnKey == column {
			return m, nil
		}
		cmds = append(cmds, m.commitEdit(p))
		if p.grid.Editing() {
			return m, tea.Batch(cmds...)
		}
	}

	if err := p.grid.SelectCell(row, column); err != nil {
		return m, tea.Batch(cmds...)
	}
	if m.clicks.Click(row, column, m.now()) == 2 {
		if col, ok := p.grid.Column(column); ok && col.Writable() {
			cmds = append(cmds, m.startEdit(p))
		}
	}
	m.scroll()
	return m, tea.Batch(cmds...)
}

// columnAt returns the key of the visible column under screen column x.
func (m Model) columnAt(p *page, x int) string {
	pos := rowGutter
	for _, c := range visibleSpan(p, m.width-rowGutter) {
		w := columnCells(p.grid, c)
		if x >= pos && x < pos+w+1 {
			return c.Key
		}
		pos += w + 1
	}
	return ""
}
