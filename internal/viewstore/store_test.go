package viewstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	_, ok, err := s.Get("view/people")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("view/people", []byte("version = 1")))
	require.NoError(t, s.Set("view/tasks", []byte("version = 2")))

	got, ok, err := s.Get("view/people")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "version = 1", string(got))

	has, err := s.Has("view/tasks")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, s.Set("view/people", []byte("version = 3")))
	got, _, err = s.Get("view/people")
	require.NoError(t, err)
	assert.Equal(t, "version = 3", string(got))

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"view/people", "view/tasks"}, keys)

	require.NoError(t, s.Delete("view/people"))
	require.NoError(t, s.Delete("view/missing"))
	has, err = s.Has("view/people")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemory()
	buf := []byte("abc")
	require.NoError(t, s.Set("k", buf))
	buf[0] = 'x'
	got, _, _ := s.Get("k")
	assert.Equal(t, "abc", string(got))
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "views.toml")
	s, err := OpenFile(path)
	require.NoError(t, err)
	exerciseStore(t, s)

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	got, ok, err := reopened.Get("view/tasks")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "version = 2", string(got))
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "views.toml")
	require.NoError(t, os.WriteFile(path, []byte("views = ["), 0o644))
	_, err := OpenFile(path)
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "views.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	exerciseStore(t, s)
}

func TestOpenUnknownKind(t *testing.T) {
	_, err := Open("redis", "")
	assert.Error(t, err)

	s, err := Open(KindMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
}
