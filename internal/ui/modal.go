package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// Modal is the interface for dialogs drawn over the grid. Update returns
// the updated modal, a command, and whether the modal should close. Escape
// never reaches a modal; the dispatcher turns it into a close.
type Modal interface {
	Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// modalCloser is implemented by modals that need to undo state when they
// are dismissed without submitting.
type modalCloser interface {
	Dismiss(m *Model)
}

// rendered adapts a finished view string to tea.Model for overlay composition.
type rendered string

func (r rendered) Init() tea.Cmd                       { return nil }
func (r rendered) Update(tea.Msg) (tea.Model, tea.Cmd) { return r, nil }
func (r rendered) View() string                        { return string(r) }

// placeModal draws fg centered over bg.
func placeModal(fg, bg string) string {
	return overlay.New(rendered(fg), rendered(bg), overlay.Center, overlay.Center, 0, 0).View()
}

// modalFrame wraps content in the standard modal border.
func modalFrame(theme Theme, title, content string, width int) string {
	styles := theme.Styles()
	var body string
	if title != "" {
		body = styles.AccentText.Bold(true).Render(title) + "\n\n" + content
	} else {
		body = content
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.BorderFocus)).
		Background(lipgloss.Color(theme.Surface)).
		Foreground(lipgloss.Color(theme.Text)).
		Padding(1, 2).
		Width(width).
		Render(body)
}

// modalWidth picks a modal width for a screen of the given width.
func modalWidth(screen, preferred int) int {
	return max(20, min(preferred, screen-4))
}
