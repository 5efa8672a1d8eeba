package grid

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical date format for display and storage.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
}

var (
	ErrInvalidNumber = errors.New("not a number")
	ErrInvalidDate   = errors.New("not a date")
	ErrInvalidBool   = errors.New("not a boolean")
)

// Coerce converts an edit draft into the value committed for column c.
// Numeric and foreign-key columns map the empty string to nil and reject
// anything that does not parse; other types pass the text through, except
// dates and booleans which must parse.
func Coerce(c Column, draft string) (any, error) {
	trimmed := strings.TrimSpace(draft)
	switch c.Type {
	case TypeNumber:
		if trimmed == "" {
			return nil, nil
		}
		n, err := parseNumber(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%s: %q: %w", c.Key, draft, ErrInvalidNumber)
		}
		return n, nil
	case TypeForeignKey:
		if trimmed == "" {
			return nil, nil
		}
		id, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q: %w", c.Key, draft, ErrInvalidNumber)
		}
		return id, nil
	case TypeDate:
		if trimmed == "" {
			return nil, nil
		}
		t, ok := parseDate(trimmed)
		if !ok {
			return nil, fmt.Errorf("%s: %q: %w", c.Key, draft, ErrInvalidDate)
		}
		return t.Format(DateLayout), nil
	case TypeBool:
		if trimmed == "" {
			return nil, nil
		}
		b, err := strconv.ParseBool(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%s: %q: %w", c.Key, draft, ErrInvalidBool)
		}
		return b, nil
	default:
		return draft, nil
	}
}

// Draft renders a raw value as the editable text that Coerce accepts back.
func Draft(v any) string {
	return FormatValue(v)
}

// parseNumber returns an int64 for integral input and a float64 otherwise.
func parseNumber(s string) (any, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, ErrInvalidNumber
	}
	return f, nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// asFloat converts numeric raw values and numeric strings.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	case string:
		return parseDate(t)
	default:
		return time.Time{}, false
	}
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}

// valuesEqual compares raw values, treating numerically equal integers and
// floats as the same value.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := asNumber(a); ok {
		if fb, ok := asNumber(b); ok {
			return fa == fb
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := asTime(b); ok {
			return ta.Equal(tb)
		}
	}
	return toString(a) == toString(b)
}

// asNumber is asFloat without string parsing.
func asNumber(v any) (float64, bool) {
	if _, ok := v.(string); ok {
		return 0, false
	}
	return asFloat(v)
}
