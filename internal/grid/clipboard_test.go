package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyStoresUnderlyingValue(t *testing.T) {
	g := newTestGrid(Options{})
	selectByID(t, g, 2, "owner")
	slot, preview, err := g.CopyCell()
	require.NoError(t, err)
	assert.Equal(t, int64(1), slot.Value)
	assert.Equal(t, "owner", slot.ColumnKey)
	assert.Equal(t, "Émile", preview)
}

func TestPasteCommitsThroughCoercion(t *testing.T) {
	g := newTestGrid(Options{})
	selectByID(t, g, 2, "age")
	_, _, err := g.CopyCell()
	require.NoError(t, err)

	selectByID(t, g, 4, "age")
	c, err := g.PasteCell()
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, map[string]any{"age": int64(25)}, c.Fields)
	assert.Equal(t, int64(4), c.RowID)
}

func TestPasteRefusals(t *testing.T) {
	g := newTestGrid(Options{})
	_, err := g.PasteCell()
	assert.ErrorIs(t, err, ErrEmptyClipboard)

	selectByID(t, g, 2, "name")
	_, _, err = g.CopyCell()
	require.NoError(t, err)

	selectByID(t, g, 1, IDColumn)
	_, err = g.PasteCell()
	assert.ErrorIs(t, err, ErrReadOnly)

	selectByID(t, g, 1, "age")
	_, err = g.PasteCell()
	assert.ErrorIs(t, err, ErrInvalidNumber)

	selectByID(t, g, 2, "name")
	c, err := g.PasteCell()
	require.NoError(t, err)
	assert.Nil(t, c, "pasting a value onto itself is a no-op")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", 30))
	assert.Equal(t, "abcd…", Preview("abcdefgh", 5))
	assert.Equal(t, "日本…", Preview("日本語テキスト", 3))
}
