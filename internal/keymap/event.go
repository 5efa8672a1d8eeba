package keymap

import (
	"strings"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyEvent is a key press with its modifier flags. Key is the base key name
// as Bubble Tea spells it ("a", "up", "home", "tab", "pgdown") or "space".
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Alt   bool
	Shift bool
}

// String renders the event the way Bubble Tea names key messages, so it can
// be matched against key.Binding values.
func (e KeyEvent) String() string {
	var b strings.Builder
	if e.Alt {
		b.WriteString("alt+")
	}
	if e.Ctrl {
		b.WriteString("ctrl+")
	}
	name := e.Key
	if e.Shift {
		if r, size := utf8.DecodeRuneInString(name); size == len(name) && unicode.IsLetter(r) {
			name = string(unicode.ToUpper(r))
		} else {
			b.WriteString("shift+")
		}
	}
	if name == "space" && !e.Ctrl && !e.Shift {
		name = " "
	}
	b.WriteString(name)
	return b.String()
}

// FromTea converts a Bubble Tea key message.
func FromTea(msg tea.KeyMsg) KeyEvent {
	s := msg.String()
	var ev KeyEvent
	if rest, ok := strings.CutPrefix(s, "alt+"); ok && s != "alt+" {
		ev.Alt = true
		s = rest
	}
	if s == "ctrl+@" {
		return KeyEvent{Key: "space", Ctrl: true, Alt: ev.Alt}
	}
	for {
		if rest, ok := strings.CutPrefix(s, "ctrl+"); ok && rest != "" {
			ev.Ctrl = true
			s = rest
			continue
		}
		if rest, ok := strings.CutPrefix(s, "shift+"); ok && rest != "" {
			ev.Shift = true
			s = rest
			continue
		}
		break
	}
	switch {
	case s == " " || s == "space":
		s = "space"
	case utf8.RuneCountInString(s) == 1:
		r, _ := utf8.DecodeRuneInString(s)
		if unicode.IsUpper(r) {
			ev.Shift = true
			s = string(unicode.ToLower(r))
		}
	}
	ev.Key = s
	return ev
}

// Rune reports the single printable rune of an unmodified key, if any.
func (e KeyEvent) Rune() (rune, bool) {
	if e.Ctrl || e.Alt || utf8.RuneCountInString(e.Key) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(e.Key)
	if e.Shift {
		r = unicode.ToUpper(r)
	}
	return r, true
}
