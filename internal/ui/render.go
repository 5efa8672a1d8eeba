package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/recgrid/internal/grid"
)

// rowGutter is the marker column left of the cells.
const rowGutter = 2

// statusMarks are drawn in the last cell position while a commit is in
// flight or after it finished.
var statusMarks = map[grid.CommitState]string{
	grid.CommitSaving: "…",
	grid.CommitSaved:  "✓",
	grid.CommitFailed: "!",
}

// renderMain renders header, grid and footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderGrid(m.page(), m.gridRows()))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// visibleSpan returns the columns that fit from the page's column offset.
func visibleSpan(p *page, width int) []grid.Column {
	cols := p.grid.VisibleColumns()
	if p.colOffset >= len(cols) {
		return nil
	}
	var out []grid.Column
	used := 0
	for _, c := range cols[p.colOffset:] {
		w := columnCells(p.grid, c) + 1
		if used+w > width && len(out) > 0 {
			break
		}
		used += w
		out = append(out, c)
	}
	return out
}

// renderGrid renders the column header and height data rows.
func (m Model) renderGrid(p *page, height int) string {
	styles := m.theme.Styles()
	if p == nil {
		return padLines("", height+columnLines)
	}
	cols := visibleSpan(p, m.width-rowGutter)

	lines := make([]string, 0, height+columnLines)
	lines = append(lines, m.renderColumnHeader(p, cols))

	rows := p.grid.Rows()
	if len(rows) == 0 {
		msg := "No rows"
		if n := len(p.grid.Filters()); n > 0 {
			msg = fmt.Sprintf("No rows match %d filter(s)", n)
		}
		lines = append(lines, styles.MutedText.Render(strings.Repeat(" ", rowGutter)+msg))
	}

	addr, selected := p.grid.Selection()
	editAddr, _, editing := p.grid.EditAddress()
	end := min(len(rows), p.rowOffset+height)
	for i := p.rowOffset; i < end; i++ {
		rec := rows[i]
		marked := p.grid.IsRowSelected(rec.ID)

		var b strings.Builder
		if marked {
			b.WriteString(styles.AccentText.Render("▌ "))
		} else {
			b.WriteString(strings.Repeat(" ", rowGutter))
		}
		for _, col := range cols {
			w := columnCells(p.grid, col)
			isSelected := selected && addr.RowIndex == i && addr.ColumnKey == col.Key
			isEditing := editing && editAddr.RowIndex == i && editAddr.ColumnKey == col.Key
			b.WriteString(m.renderCell(p, rec, col, w, i, isSelected, isEditing, marked))
			b.WriteString(" ")
		}
		lines = append(lines, b.String())
	}
	return strings.Join(padSlice(lines, height+columnLines), "\n")
}

func (m Model) renderColumnHeader(p *page, cols []grid.Column) string {
	styles := m.theme.Styles()
	sortState := p.grid.Sort()

	var b strings.Builder
	b.WriteString(styles.ColumnHeader.Render(strings.Repeat(" ", rowGutter)))
	for _, col := range cols {
		w := columnCells(p.grid, col)
		label := col.Header
		if sortState.Active() && sortState.Column == col.Key {
			label += " " + sortArrow(sortState.Direction)
		}
		if _, ok := p.grid.Filter(col.Key); ok {
			label += " ⚑"
		}
		b.WriteString(styles.ColumnHeader.Render(fitCell(label, w) + " "))
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Surface)).Width(m.width).Render(b.String())
}

// renderCell draws one cell with its decorations. Precedence from low to
// high: alternating row, customization, marked row, selection.
func (m Model) renderCell(p *page, rec grid.Record, col grid.Column, width, row int, selected, editing, marked bool) string {
	styles := m.theme.Styles()

	if editing {
		m.editor.Width = max(1, width-1)
		return styles.Editing.Render(padRight(truncate(m.editor.View(), width), width))
	}

	text := grid.DisplayText(col, rec)
	mark := ""
	st, hasStatus := p.grid.CellStatusOf(rec.ID, col.Key)
	if hasStatus {
		mark = statusMarks[st.State]
	}

	var body string
	if mark != "" {
		body = fitCell(text, width-1)
	} else {
		body = fitCell(text, width)
	}

	style := rowStyle(m.theme, styles, row)
	if col.Type == grid.TypeSelect {
		if color, ok := m.theme.StatusColors[text]; ok {
			style = style.Foreground(lipgloss.Color(color))
		}
	}
	if c, ok := p.grid.Customization(rec.ID, col.Key); ok {
		if c.TextColor != "" {
			style = style.Foreground(lipgloss.Color(c.TextColor))
		}
		if c.BackgroundColor != "" {
			style = style.Background(lipgloss.Color(c.BackgroundColor))
		}
		if c.FontWeight == "bold" {
			style = style.Bold(true)
		}
	}
	if marked {
		style = style.Inherit(styles.MarkedRow).Background(lipgloss.Color(m.theme.FocusBg))
	}
	if selected {
		style = styles.Selected
	}

	out := style.Render(body)
	if mark != "" {
		markStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(styles.StatusColor(st.State.String())))
		if selected {
			markStyle = markStyle.Background(lipgloss.Color(m.theme.SelectionBg))
		}
		out += markStyle.Render(mark)
	}
	return out
}

// rowStyle is the undecorated cell style; odd rows use the alternate surface.
func rowStyle(theme Theme, styles Styles, row int) lipgloss.Style {
	if row%2 == 1 {
		return styles.SurfaceAlt
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Text))
}

func padSlice(lines []string, n int) []string {
	for len(lines) < n {
		lines = append(lines, "")
	}
	return lines[:n]
}

func padLines(s string, n int) string {
	return strings.Join(padSlice([]string{s}, n), "\n")
}
