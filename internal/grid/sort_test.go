package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestDefaultSortSkipsNumericAndDate(t *testing.T) {
	g := newTestGrid(Options{})
	assert.Equal(t, SortState{Column: "name", Direction: SortAsc}, g.Sort())
	assert.Equal(t, []int64{2, 3, 1, 4}, rowIDs(g.Rows()))

	st, _ := g.Columns().Setting("name")
	assert.Equal(t, SortAsc, st.SortDirection)
}

func TestDefaultSortNone(t *testing.T) {
	got := DefaultSort([]Column{
		{Key: IDColumn, Type: TypeText},
		{Key: "n", Type: TypeNumber},
		{Key: "d", Type: TypeDate},
		{Key: "a", Type: TypeActions},
	})
	assert.False(t, got.Active())
}

func TestToggleSortCycles(t *testing.T) {
	g := newTestGrid(Options{})
	require.NoError(t, g.ToggleSort("age"))
	assert.Equal(t, SortState{Column: "age", Direction: SortAsc}, g.Sort())
	require.NoError(t, g.ToggleSort("age"))
	assert.Equal(t, SortState{Column: "age", Direction: SortDesc}, g.Sort())
	require.NoError(t, g.ToggleSort("age"))
	assert.False(t, g.Sort().Active())
	assert.Equal(t, []int64{1, 2, 3, 4}, rowIDs(g.Rows()))
}

func TestNilSortsLastBothDirections(t *testing.T) {
	g := newTestGrid(Options{})
	require.NoError(t, g.SetSort("age", SortAsc))
	assert.Equal(t, []int64{2, 1, 4, 3}, rowIDs(g.Rows()))
	require.NoError(t, g.SetSort("age", SortDesc))
	assert.Equal(t, []int64{4, 1, 2, 3}, rowIDs(g.Rows()))
}

func TestForeignKeySortsByLabel(t *testing.T) {
	g := newTestGrid(Options{})
	require.NoError(t, g.SetSort("owner", SortAsc))
	// anna(2) < Émile(1) < Zoe(3); the unset owner goes last.
	assert.Equal(t, []int64{1, 2, 3, 4}, rowIDs(g.Rows()))
	require.NoError(t, g.SetSort("owner", SortDesc))
	assert.Equal(t, []int64{3, 2, 1, 4}, rowIDs(g.Rows()))
}

func TestForeignKeyLabelBeatsID(t *testing.T) {
	col := Column{Key: "ref", Type: TypeForeignKey, ForeignKey: &ForeignKey{
		Labels: map[int64]string{42: "Alpha", 3: "Beta"},
	}}
	rows := []Record{
		{ID: 1, Values: map[string]any{"ref": int64(3)}},
		{ID: 2, Values: map[string]any{"ref": int64(42)}},
	}
	got := SortRecords(rows, col, SortAsc, NewComparator(language.English))
	assert.Equal(t, []int64{2, 1}, rowIDs(got))
}

func TestSortIsStable(t *testing.T) {
	col := Column{Key: "team", Type: TypeText}
	rows := []Record{
		{ID: 1, Values: map[string]any{"team": "red"}},
		{ID: 2, Values: map[string]any{"team": "blue"}},
		{ID: 3, Values: map[string]any{"team": "Red"}},
		{ID: 4, Values: map[string]any{"team": "BLUE"}},
	}
	got := SortRecords(rows, col, SortAsc, NewComparator(language.Und))
	assert.Equal(t, []int64{2, 4, 1, 3}, rowIDs(got))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "creme brulee", NormalizeText("  Crème Brûlée "))
	assert.Equal(t, "bold", NormalizeText("\x1b[1mBOLD\x1b[0m"))
}
