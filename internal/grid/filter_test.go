package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberFilterGreaterThan(t *testing.T) {
	records := []Record{
		{ID: 1, Values: map[string]any{"n": int64(3)}},
		{ID: 2, Values: map[string]any{"n": int64(5)}},
		{ID: 3, Values: map[string]any{"n": int64(7)}},
		{ID: 4, Values: map[string]any{"n": nil}},
	}
	var set FilterSet
	require.NoError(t, set.Set(Filter{ColumnKey: "n", Type: FilterNumber, Operator: OpGreater, Value: "5"}))
	assert.Equal(t, []int64{3}, rowIDs(set.Apply(records)))
}

func TestFilterConjunctionAndReplacement(t *testing.T) {
	g := newTestGrid(Options{})
	contains := Filter{ColumnKey: "name", Type: FilterText, Operator: OpContains, Value: "a"}
	older := Filter{ColumnKey: "age", Type: FilterNumber, Operator: OpGreater, Value: "26"}

	require.NoError(t, g.SetFilter(contains))
	require.NoError(t, g.SetFilter(older))
	both := rowIDs(g.Rows())
	assert.ElementsMatch(t, []int64{1, 4}, both)

	require.True(t, g.RemoveFilter("name"))
	require.NoError(t, g.SetFilter(contains))
	assert.Equal(t, both, rowIDs(g.Rows()))

	require.NoError(t, g.SetFilter(contains))
	assert.Len(t, g.Filters(), 2)
}

func TestFilterOperators(t *testing.T) {
	tests := []struct {
		name string
		f    Filter
		raw  any
		want bool
	}{
		{"text equals ignores case", Filter{Type: FilterText, Operator: OpEquals, Value: "ACME"}, "acme", true},
		{"text contains", Filter{Type: FilterText, Operator: OpContains, Value: "cm"}, "Acme", true},
		{"text starts with", Filter{Type: FilterText, Operator: OpStartsWith, Value: "ac"}, "Acme", true},
		{"text starts with miss", Filter{Type: FilterText, Operator: OpStartsWith, Value: "me"}, "Acme", false},
		{"number equals float", Filter{Type: FilterNumber, Operator: OpEquals, Value: "2.5"}, 2.5, true},
		{"number lt", Filter{Type: FilterNumber, Operator: OpLess, Value: "10"}, int64(3), true},
		{"number bad value", Filter{Type: FilterNumber, Operator: OpLess, Value: "ten"}, int64(3), false},
		{"date gt", Filter{Type: FilterDate, Operator: OpGreater, Value: "2024-01-01"}, "2024-02-01", true},
		{"date invalid field", Filter{Type: FilterDate, Operator: OpGreater, Value: "2024-01-01"}, "soon", false},
		{"date invalid value", Filter{Type: FilterDate, Operator: OpEquals, Value: "yesterday"}, "2024-02-01", false},
		{"select equals", Filter{Type: FilterSelect, Operator: OpEquals, Value: "open"}, "Open", true},
		{"nil never matches", Filter{Type: FilterText, Operator: OpContains, Value: ""}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.Match(tt.raw))
		})
	}
}

func TestFilterRejectsOperatorForType(t *testing.T) {
	var set FilterSet
	err := set.Set(Filter{ColumnKey: "name", Type: FilterText, Operator: OpGreater, Value: "5"})
	assert.ErrorIs(t, err, ErrUnsupportedOperator)
	assert.Equal(t, 0, set.Len())
}

func TestParseFilter(t *testing.T) {
	age := Column{Key: "age", Type: TypeNumber}
	name := Column{Key: "name", Type: TypeText}

	f, err := ParseFilter(age, "gt 5")
	require.NoError(t, err)
	assert.Equal(t, Filter{ColumnKey: "age", Type: FilterNumber, Operator: OpGreater, Value: "5"}, f)

	f, err = ParseFilter(age, "12")
	require.NoError(t, err)
	assert.Equal(t, OpEquals, f.Operator)

	f, err = ParseFilter(name, "acme corp")
	require.NoError(t, err)
	assert.Equal(t, OpContains, f.Operator)
	assert.Equal(t, "acme corp", f.Value)

	f, err = ParseFilter(name, "starts_with ac")
	require.NoError(t, err)
	assert.Equal(t, OpStartsWith, f.Operator)
	assert.Equal(t, "ac", f.Value)
}

func TestSetFilterUnknownColumn(t *testing.T) {
	g := newTestGrid(Options{})
	err := g.SetFilter(Filter{ColumnKey: "ghost", Type: FilterText, Operator: OpEquals})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}
