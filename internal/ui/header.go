package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const logoText = "recgrid"

// tabSpan is the horizontal extent of one tab label in the header.
type tabSpan struct {
	start, end int
}

// tabSpans mirrors the layout of renderHeader: one padding cell, the logo,
// two spaces, then tabs separated by one space.
func (m Model) tabSpans() []tabSpan {
	x := 1 + len(logoText) + 2
	spans := make([]tabSpan, len(m.pages))
	for i, p := range m.pages {
		w := ansi.StringWidth(tabLabel(p))
		spans[i] = tabSpan{start: x, end: x + w}
		x += w + 1
	}
	return spans
}

func tabLabel(p *page) string {
	return " " + p.title + " "
}

// renderHeader renders the tab bar and the data status.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newBarStyle(m.theme.Surface)

	tabs := make([]string, len(m.pages))
	for i, p := range m.pages {
		if i == m.current {
			tabs[i] = styles.Selected.Bold(true).Render(tabLabel(p))
		} else {
			tabs[i] = bg.Render(tabLabel(p), styles.MutedText)
		}
	}
	left := bg.Render(logoText, styles.Logo) + bg.Spaces(2) + bg.Join(tabs, " ")

	right := bg.Join(m.statusParts(styles, bg), "  ")
	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		right = ""
		gap = 0
	}
	return styles.Header.Width(m.width).Render(left + bg.Spaces(gap) + right)
}

// statusParts describes the active page and the data feed.
func (m Model) statusParts(styles Styles, bg barStyle) []string {
	var parts []string
	p := m.page()
	if p != nil {
		rows, total := len(p.grid.Rows()), len(p.grid.Records())
		count := fmt.Sprintf("%d rows", total)
		if rows != total {
			count = fmt.Sprintf("%d/%d rows", rows, total)
		}
		parts = append(parts, bg.Render(count, styles.Text))

		if n := len(p.grid.Filters()); n > 0 {
			parts = append(parts, bg.Render(fmt.Sprintf("⚑ %d", n), lipgloss.NewStyle().Foreground(lipgloss.Color(styles.StatusColor("filter")))))
		}
		if s := p.grid.Sort(); s.Active() {
			label := s.Column
			if col, ok := p.grid.Column(s.Column); ok {
				label = col.Header
			}
			parts = append(parts, bg.Render(sortArrow(s.Direction)+" "+label, lipgloss.NewStyle().Foreground(lipgloss.Color(styles.StatusColor("sort")))))
		}
		if n := len(p.grid.SelectedRowIDs()); n > 0 {
			parts = append(parts, bg.Render(fmt.Sprintf("%d marked", n), styles.AccentText))
		}
		if n := p.grid.PendingCommits(); n > 0 {
			parts = append(parts, bg.Render(fmt.Sprintf("saving %d", n), styles.WarningText))
		}
	}

	switch {
	case m.snapshot.IsOffline():
		errText := ""
		if m.snapshot.LastError != nil {
			errText = truncate(m.snapshot.LastError.Error(), 40)
		}
		parts = append(parts, bg.Render("OFFLINE", styles.DangerText)+bg.Spaces(1)+bg.Render(errText, styles.DangerText))
	case !m.snapshot.LastUpdated.IsZero():
		parts = append(parts, bg.Render(m.formatTimestamp(), styles.MutedText))
	default:
		parts = append(parts, bg.Render("Loading...", styles.WarningText))
	}
	return parts
}

// formatTimestamp formats the last update time with relative indicator.
func (m Model) formatTimestamp() string {
	updated := m.snapshot.LastUpdated
	since := m.now().Sub(updated)
	out := updated.Format("15:04:05")
	switch {
	case since < time.Minute:
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	default:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}

// renderFooter renders the toast, the edit hint or the short help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newBarStyle(m.theme.Surface)

	var content string
	switch {
	case m.toast.text != "":
		content = bg.Render(truncate(strings.ReplaceAll(m.toast.text, "\n", " "), m.width-4), styles.toastStyle(m.toast.kind))
	case m.page() != nil && m.page().grid.Editing():
		content = bg.Hint("enter", "save", styles.AccentText, styles.MutedText) + bg.Spaces(2) +
			bg.Hint("esc", "cancel", styles.AccentText, styles.MutedText)
	default:
		bindings := m.shortHelp()
		h := m.help
		h.Styles.ShortKey = styles.AccentText
		h.Styles.ShortDesc = styles.MutedText
		h.Styles.ShortSeparator = styles.FaintText
		h.ShortSeparator = bg.Spaces(2)
		h.Width = max(0, m.width-lipgloss.Width(m.theme.Name)-8)
		content = h.ShortHelpView(bindings)
		content += bg.Spaces(2) + bg.Hint("T", m.theme.Name, styles.AccentText, styles.FaintText)
	}
	return styles.Footer.Width(m.width).Render(content)
}

// shortHelp combines the grid and application bindings shown in the footer.
func (m Model) shortHelp() []key.Binding {
	var out []key.Binding
	if p := m.page(); p != nil {
		out = append(out, p.dispatcher.KeyMap().ShortHelp()...)
	}
	return append(out, m.keys.ShortHelp()...)
}
