package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/five82/recgrid/internal/grid"
)

func sample() ([]grid.Column, []grid.Record) {
	cols := []grid.Column{
		{Key: "id", Header: "ID", Type: grid.TypeNumber},
		{Key: "title", Header: "Title", Type: grid.TypeText},
		{Key: "owner", Header: "Owner", Type: grid.TypeForeignKey,
			ForeignKey: &grid.ForeignKey{Entity: "people", Labels: map[int64]string{1: "Émile"}}},
		{Key: "budget", Type: grid.TypeNumber},
	}
	rows := []grid.Record{
		{ID: 2, Values: map[string]any{"title": "Launch, phase 2", "owner": int64(1), "budget": 1500.5}},
		{ID: 1, Values: map[string]any{"title": "Audit", "owner": nil}},
	}
	return cols, rows
}

func TestCSVUsesDisplayValuesInRowOrder(t *testing.T) {
	cols, rows := sample()
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, cols, rows))

	want := "ID,Title,Owner,budget\n" +
		"2,\"Launch, phase 2\",Émile,1500.5\n" +
		"1,Audit,,\n"
	assert.Equal(t, want, buf.String())
}

func TestYAMLPreservesColumnOrder(t *testing.T) {
	cols, rows := sample()
	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, cols, rows))

	out := buf.String()
	assert.Less(t, strings.Index(out, "title:"), strings.Index(out, "owner:"))

	var decoded []map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Émile", decoded[0]["owner"])
	assert.Equal(t, "2", decoded[0]["id"])
	assert.Equal(t, "", decoded[1]["owner"])
}

func TestPrintRendersTable(t *testing.T) {
	cols, rows := sample()
	out := Print("Projects", cols, rows, 0)

	assert.True(t, strings.HasPrefix(out, "Projects\n"))
	assert.Contains(t, out, "Launch, phase 2")
	assert.Contains(t, out, "Émile")
	assert.Contains(t, out, "2 rows")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" YAML ")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	cols, rows := sample()
	dir := filepath.Join(t.TempDir(), "exports")
	now := time.Date(2024, 5, 1, 14, 3, 9, 0, time.UTC)

	path, err := WriteFile(dir, "projects", FormatCSV, cols, rows, now)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "projects-20240501-140309-"))
	assert.Equal(t, ".csv", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Émile")

	other, err := WriteFile(dir, "projects", FormatCSV, cols, rows, now)
	require.NoError(t, err)
	assert.NotEqual(t, path, other)
}
