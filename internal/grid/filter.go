package grid

import (
	"errors"
	"fmt"
	"strings"
)

// FilterType selects the operator family used to evaluate a filter.
type FilterType string

const (
	FilterText   FilterType = "text"
	FilterNumber FilterType = "number"
	FilterDate   FilterType = "date"
	FilterSelect FilterType = "select"
)

// Operator is a comparison applied between a field value and a filter value.
type Operator string

const (
	OpEquals     Operator = "equals"
	OpContains   Operator = "contains"
	OpStartsWith Operator = "starts_with"
	OpGreater    Operator = "gt"
	OpLess       Operator = "lt"
)

var ErrUnsupportedOperator = errors.New("unsupported operator")

var operatorsByType = map[FilterType][]Operator{
	FilterText:   {OpEquals, OpContains, OpStartsWith},
	FilterNumber: {OpEquals, OpGreater, OpLess},
	FilterDate:   {OpEquals, OpGreater, OpLess},
	FilterSelect: {OpEquals},
}

// Filter is a single column-scoped predicate.
type Filter struct {
	ColumnKey string     `toml:"column_key"`
	Type      FilterType `toml:"type"`
	Operator  Operator   `toml:"operator"`
	Value     string     `toml:"value"`
}

// Operators returns the operators valid for t.
func Operators(t FilterType) []Operator {
	return operatorsByType[t]
}

// FilterTypeFor picks the filter family for a column type.
func FilterTypeFor(t ColumnType) FilterType {
	switch t {
	case TypeNumber:
		return FilterNumber
	case TypeDate:
		return FilterDate
	case TypeSelect, TypeBool:
		return FilterSelect
	default:
		return FilterText
	}
}

// Validate checks that the operator belongs to the filter's type.
func (f Filter) Validate() error {
	ops, ok := operatorsByType[f.Type]
	if !ok {
		return fmt.Errorf("filter %s: type %q: %w", f.ColumnKey, f.Type, ErrUnsupportedOperator)
	}
	for _, op := range ops {
		if op == f.Operator {
			return nil
		}
	}
	return fmt.Errorf("filter %s: %s on %s: %w", f.ColumnKey, f.Operator, f.Type, ErrUnsupportedOperator)
}

// Match evaluates the filter against a raw field value. Nil values never
// match.
func (f Filter) Match(raw any) bool {
	if raw == nil {
		return false
	}
	switch f.Type {
	case FilterText:
		field := strings.ToLower(FormatValue(raw))
		want := strings.ToLower(f.Value)
		switch f.Operator {
		case OpEquals:
			return field == want
		case OpContains:
			return strings.Contains(field, want)
		case OpStartsWith:
			return strings.HasPrefix(field, want)
		}
	case FilterSelect:
		return f.Operator == OpEquals && strings.EqualFold(FormatValue(raw), strings.TrimSpace(f.Value))
	case FilterNumber:
		field, ok := asFloat(raw)
		if !ok {
			return false
		}
		want, ok := asFloat(f.Value)
		if !ok {
			return false
		}
		switch f.Operator {
		case OpEquals:
			return field == want
		case OpGreater:
			return field > want
		case OpLess:
			return field < want
		}
	case FilterDate:
		field, ok := asTime(raw)
		if !ok {
			return false
		}
		want, ok := parseDate(f.Value)
		if !ok {
			return false
		}
		switch f.Operator {
		case OpEquals:
			return field.Equal(want)
		case OpGreater:
			return field.After(want)
		case OpLess:
			return field.Before(want)
		}
	}
	return false
}

// FilterSet is the conjunction of at most one filter per column, kept in
// insertion order.
type FilterSet struct {
	filters []Filter
}

// Set adds f, replacing any filter already present for its column.
func (s *FilterSet) Set(f Filter) error {
	if err := f.Validate(); err != nil {
		return err
	}
	for i := range s.filters {
		if s.filters[i].ColumnKey == f.ColumnKey {
			s.filters[i] = f
			return nil
		}
	}
	s.filters = append(s.filters, f)
	return nil
}

// Remove drops the filter for key and reports whether one existed.
func (s *FilterSet) Remove(key string) bool {
	for i := range s.filters {
		if s.filters[i].ColumnKey == key {
			s.filters = append(s.filters[:i], s.filters[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the filter for key.
func (s *FilterSet) Get(key string) (Filter, bool) {
	for _, f := range s.filters {
		if f.ColumnKey == key {
			return f, true
		}
	}
	return Filter{}, false
}

// Clear removes every filter.
func (s *FilterSet) Clear() {
	s.filters = nil
}

// Len returns the number of active filters.
func (s *FilterSet) Len() int {
	return len(s.filters)
}

// All returns a copy of the active filters.
func (s *FilterSet) All() []Filter {
	if len(s.filters) == 0 {
		return nil
	}
	return append([]Filter(nil), s.filters...)
}

// Matches reports whether rec satisfies every filter.
func (s *FilterSet) Matches(rec Record) bool {
	for _, f := range s.filters {
		if !f.Match(rec.Value(f.ColumnKey)) {
			return false
		}
	}
	return true
}

// Apply returns the records that satisfy every filter, preserving order.
func (s *FilterSet) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if s.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// ParseFilter reads "operator value" input typed by a user, e.g. "gt 5" or
// "contains acme". A bare value means equals for number, date and select
// filters and contains for text.
func ParseFilter(column Column, input string) (Filter, error) {
	ft := FilterTypeFor(column.Type)
	input = strings.TrimSpace(input)
	f := Filter{ColumnKey: column.Key, Type: ft}
	if op, rest, _ := strings.Cut(input, " "); isOperator(ft, op) {
		f.Operator = Operator(op)
		f.Value = strings.TrimSpace(rest)
		return f, f.Validate()
	}
	f.Value = input
	if ft == FilterText {
		f.Operator = OpContains
	} else {
		f.Operator = OpEquals
	}
	return f, f.Validate()
}

func isOperator(t FilterType, op string) bool {
	for _, candidate := range operatorsByType[t] {
		if string(candidate) == op {
			return true
		}
	}
	return false
}
