package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/recgrid/internal/grid"
)

// viewerModal shows read-only content in a scrollable viewport.
type viewerModal struct {
	title string
	vp    viewport.Model
}

func newViewerModal(title, content string, width, height int) *viewerModal {
	w := modalWidth(width, 100)
	h := max(3, min(lipgloss.Height(content), height-10))
	vp := viewport.New(w-4, h)
	vp.SetContent(content)
	return &viewerModal{title: title, vp: vp}
}

func (v *viewerModal) Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	if key.Matches(msg, keys.Confirm) {
		return v, nil, true
	}
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd, false
}

func (v *viewerModal) View(theme Theme, width, _ int) string {
	content := v.vp.View()
	if !v.vp.AtBottom() || !v.vp.AtTop() {
		content += "\n" + theme.Styles().FaintText.Render(fmt.Sprintf("%3.0f%%", v.vp.ScrollPercent()*100))
	}
	return modalFrame(theme, v.title, content, modalWidth(width, 100))
}

// editorSubmitMsg carries the rich editor's text back to the open edit
// session.
type editorSubmitMsg struct {
	pageID string
	value  string
}

// editorModal edits long text in a multi-line area. The grid's edit
// session stays open while it is shown.
type editorModal struct {
	title  string
	pageID string
	area   textarea.Model
}

func newEditorModal(title, pageID, draft string, width, height int) *editorModal {
	area := textarea.New()
	area.ShowLineNumbers = false
	area.CharLimit = 0
	area.SetWidth(modalWidth(width, 80) - 4)
	area.SetHeight(max(3, min(12, height-12)))
	area.SetValue(draft)
	area.Focus()
	return &editorModal{title: title, pageID: pageID, area: area}
}

func (e *editorModal) Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	if key.Matches(msg, keys.Save) {
		submit := editorSubmitMsg{pageID: e.pageID, value: e.area.Value()}
		return e, func() tea.Msg { return submit }, true
	}
	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)
	return e, cmd, false
}

func (e *editorModal) View(theme Theme, width, _ int) string {
	hint := theme.Styles().FaintText.Render("ctrl+s save · esc cancel")
	return modalFrame(theme, e.title, e.area.View()+"\n\n"+hint, modalWidth(width, 80))
}

func (e *editorModal) Dismiss(m *Model) {
	if p := m.pageByID(e.pageID); p != nil {
		p.grid.CancelEdit()
	}
}

// promptSubmitMsg is sent when a one-line prompt is confirmed.
type promptSubmitMsg struct {
	pageID string
	column string
	value  string
}

// promptModal asks for one line of input about a column.
type promptModal struct {
	title  string
	pageID string
	column string
	hint   string
	input  textinput.Model
}

func newPromptModal(title, pageID, column, value, hint string) *promptModal {
	in := textinput.New()
	in.Prompt = "› "
	in.SetValue(value)
	in.CursorEnd()
	in.Focus()
	return &promptModal{title: title, pageID: pageID, column: column, hint: hint, input: in}
}

func (p *promptModal) Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	if key.Matches(msg, keys.Confirm) {
		submit := promptSubmitMsg{pageID: p.pageID, column: p.column, value: p.input.Value()}
		return p, func() tea.Msg { return submit }, true
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd, false
}

func (p *promptModal) View(theme Theme, width, _ int) string {
	w := modalWidth(width, 60)
	p.input.Width = w - 8
	body := p.input.View()
	if p.hint != "" {
		body += "\n\n" + theme.Styles().FaintText.Render(p.hint)
	}
	return modalFrame(theme, p.title, body, w)
}

// filterHint lists the operators a column's filter accepts.
func filterHint(col grid.Column) string {
	ops := grid.Operators(grid.FilterTypeFor(col.Type))
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return "operator value · operators: " + strings.Join(names, ", ") + " · empty clears"
}

// columnPanel edits visibility, width, order, sort and filters of a page.
type columnPanel struct {
	page   *page
	cursor int
	filter *textinput.Model
	err    string
}

func newColumnPanel(p *page) *columnPanel {
	return &columnPanel{page: p}
}

func (c *columnPanel) settings() []grid.ColumnSetting {
	return c.page.grid.Columns().Settings()
}

func (c *columnPanel) Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	settings := c.settings()
	if len(settings) == 0 {
		return c, nil, true
	}
	c.cursor = min(max(c.cursor, 0), len(settings)-1)
	current := settings[c.cursor]
	g := c.page.grid

	if c.filter != nil {
		if key.Matches(msg, keys.Confirm) {
			c.applyFilter(current.Key, c.filter.Value())
			c.filter = nil
			return c, nil, false
		}
		in, cmd := c.filter.Update(msg)
		c.filter = &in
		return c, cmd, false
	}

	c.err = ""
	switch {
	case key.Matches(msg, keys.Up):
		c.cursor = max(0, c.cursor-1)
	case key.Matches(msg, keys.Down):
		c.cursor = min(len(settings)-1, c.cursor+1)
	case key.Matches(msg, keys.ToggleVisible):
		if !g.ToggleVisibility(current.Key) {
			c.err = current.Key + " is locked"
		}
	case key.Matches(msg, keys.Wider):
		g.Resize(current.Key, current.Width+resizeStep)
	case key.Matches(msg, keys.Narrower):
		g.Resize(current.Key, current.Width-resizeStep)
	case key.Matches(msg, keys.MoveUp):
		if g.Reorder(c.cursor, c.cursor-1) {
			c.cursor--
		}
	case key.Matches(msg, keys.MoveDown):
		if g.Reorder(c.cursor, c.cursor+1) {
			c.cursor++
		}
	case key.Matches(msg, keys.CycleSort):
		if err := g.ToggleSort(current.Key); err != nil {
			c.err = err.Error()
		}
	case key.Matches(msg, keys.EditFilter):
		in := textinput.New()
		in.Prompt = "filter › "
		if f, ok := g.Filter(current.Key); ok {
			in.SetValue(string(f.Operator) + " " + f.Value)
			in.CursorEnd()
		}
		in.Focus()
		c.filter = &in
	case key.Matches(msg, keys.ClearFilter):
		g.RemoveFilter(current.Key)
	case key.Matches(msg, keys.ClearFilters):
		g.ClearFilters()
	}
	return c, nil, false
}

func (c *columnPanel) applyFilter(column, input string) {
	g := c.page.grid
	if strings.TrimSpace(input) == "" {
		g.RemoveFilter(column)
		return
	}
	col, ok := g.Column(column)
	if !ok {
		c.err = "unknown column " + column
		return
	}
	f, err := grid.ParseFilter(col, input)
	if err == nil {
		err = g.SetFilter(f)
	}
	if err != nil {
		c.err = err.Error()
	}
}

func (c *columnPanel) View(theme Theme, width, _ int) string {
	styles := theme.Styles()
	g := c.page.grid
	sortState := g.Sort()
	w := modalWidth(width, 72)

	var b strings.Builder
	for i, s := range c.settings() {
		col, _ := g.Column(s.Key)
		check := "[ ]"
		if s.Visible {
			check = "[x]"
		}
		if s.Locked {
			check = "[=]"
		}
		sortMark := " "
		if sortState.Active() && sortState.Column == s.Key {
			sortMark = sortArrow(sortState.Direction)
		}
		line := fmt.Sprintf("%s %s %s %4d", check, padRight(truncate(col.Header, 18), 18), sortMark, s.Width)
		if f, ok := g.Filter(s.Key); ok {
			line += "  " + styles.StatusStyle("filter").Render(string(f.Operator)+" "+truncate(f.Value, 16))
		}
		if i == c.cursor {
			line = styles.Selected.Render(padRight(line, w-6))
		} else {
			line = styles.Text.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if c.filter != nil {
		col, _ := g.Column(c.settings()[c.cursor].Key)
		b.WriteString("\n")
		b.WriteString(c.filter.View())
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(filterHint(col)))
		b.WriteString("\n")
	}
	if c.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(c.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	var hints []string
	for _, binding := range DefaultKeyMap().ColumnPanelHelp() {
		h := binding.Help()
		hints = append(hints, h.Key+" "+strings.ToLower(h.Desc))
	}
	b.WriteString(styles.FaintText.Width(w - 6).Render(strings.Join(hints, " · ")))
	return modalFrame(theme, "Columns & filters", b.String(), w)
}

// recordSubmitMsg carries the drafts of a full-record edit.
type recordSubmitMsg struct {
	pageID string
	rowID  int64
	drafts map[string]string
}

type recordField struct {
	column grid.Column
	input  textinput.Model
}

// recordModal edits every writable field of one record.
type recordModal struct {
	title  string
	pageID string
	rowID  int64
	fields []recordField
	focus  int
}

func newRecordModal(p *page, rec grid.Record) *recordModal {
	m := &recordModal{
		title:  p.title,
		pageID: p.id,
		rowID:  rec.ID,
	}
	for _, col := range p.grid.VisibleColumns() {
		if !col.Writable() {
			continue
		}
		in := textinput.New()
		in.Prompt = ""
		in.SetValue(grid.Draft(rec.Value(col.Key)))
		m.fields = append(m.fields, recordField{column: col, input: in})
	}
	if len(m.fields) > 0 {
		m.fields[0].input.Focus()
	}
	return m
}

func (r *recordModal) Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	if len(r.fields) == 0 {
		return r, nil, true
	}
	switch {
	case key.Matches(msg, keys.Save):
		submit := recordSubmitMsg{pageID: r.pageID, rowID: r.rowID, drafts: map[string]string{}}
		for _, f := range r.fields {
			submit.drafts[f.column.Key] = f.input.Value()
		}
		return r, func() tea.Msg { return submit }, true
	case key.Matches(msg, keys.NextField):
		r.setFocus(r.focus + 1)
		return r, nil, false
	case key.Matches(msg, keys.PrevField):
		r.setFocus(r.focus - 1)
		return r, nil, false
	}
	var cmd tea.Cmd
	r.fields[r.focus].input, cmd = r.fields[r.focus].input.Update(msg)
	return r, cmd, false
}

func (r *recordModal) setFocus(i int) {
	n := len(r.fields)
	i = (i%n + n) % n
	r.fields[r.focus].input.Blur()
	r.focus = i
	r.fields[r.focus].input.Focus()
}

func (r *recordModal) View(theme Theme, width, _ int) string {
	styles := theme.Styles()
	w := modalWidth(width, 80)
	labelWidth := 14
	var b strings.Builder
	for i, f := range r.fields {
		label := styles.MutedText.Render(padRight(truncate(f.column.Header, labelWidth), labelWidth))
		if i == r.focus {
			label = styles.AccentText.Bold(true).Render(padRight(truncate(f.column.Header, labelWidth), labelWidth))
		}
		f.input.Width = w - labelWidth - 8
		b.WriteString(label + " " + f.input.View() + "\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("tab next · shift+tab previous · ctrl+s save · esc cancel"))
	return modalFrame(theme, "Edit "+r.title, b.String(), w)
}

// sortArrow renders a sort direction marker.
func sortArrow(d grid.SortDirection) string {
	switch d {
	case grid.SortAsc:
		return "▲"
	case grid.SortDesc:
		return "▼"
	default:
		return " "
	}
}
