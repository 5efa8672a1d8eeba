package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// barStyle renders header and footer segments on one solid background.
// lipgloss resets the background after each styled segment, so every space
// between segments is rendered with the bar color explicitly.
type barStyle struct {
	bg   lipgloss.Color
	fill lipgloss.Style
}

func newBarStyle(color string) barStyle {
	bg := lipgloss.Color(color)
	return barStyle{bg: bg, fill: lipgloss.NewStyle().Background(bg)}
}

// Render styles text word by word so inner spaces keep the bar color.
func (b barStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	style = style.Background(b.bg)
	var out strings.Builder
	for i, word := range strings.Split(text, " ") {
		if i > 0 {
			out.WriteString(b.fill.Render(" "))
		}
		if word != "" {
			out.WriteString(style.Render(word))
		}
	}
	return out.String()
}

// Spaces returns n spaces in the bar color.
func (b barStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return b.fill.Render(strings.Repeat(" ", n))
}

// Sep renders a separator in the bar color.
func (b barStyle) Sep(sep string) string {
	return b.fill.Render(sep)
}

// Join joins rendered parts with a separator in the bar color.
func (b barStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.Sep(sep))
}

// Hint renders a "key:description" pair.
func (b barStyle) Hint(key, desc string, keyStyle, descStyle lipgloss.Style) string {
	return b.Render(key, keyStyle) + b.Sep(":") + b.Render(desc, descStyle)
}
