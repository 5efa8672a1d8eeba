package grid

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Comparator orders raw cell values. Collators are not safe for concurrent
// use, so each grid owns one.
type Comparator struct {
	collator *collate.Collator
}

// NewComparator returns a case-insensitive comparator for the given locale.
func NewComparator(tag language.Tag) *Comparator {
	return &Comparator{collator: collate.New(tag, collate.IgnoreCase)}
}

// NormalizeText lower-cases s and strips combining diacritics and any ANSI
// styling left over from rendering.
func NormalizeText(s string) string {
	s = ansi.Strip(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}

// Strings compares two strings with the locale collator.
func (c *Comparator) Strings(a, b string) int {
	return c.collator.CompareString(a, b)
}

// Values compares two non-nil raw values. Numbers and dates compare
// numerically; everything else as collated strings.
func (c *Comparator) Values(a, b any) int {
	if fa, ok := asNumber(a); ok {
		if fb, ok := asNumber(b); ok {
			return cmpFloat(fa, fb)
		}
	}
	if ta, ok := asTime(a); ok {
		if tb, ok := asTime(b); ok {
			return ta.Compare(tb)
		}
	}
	return c.Strings(FormatValue(a), FormatValue(b))
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
