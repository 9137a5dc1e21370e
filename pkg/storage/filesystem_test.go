package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndOpen(t *testing.T) {
	st, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := st.Save("report.csv", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "report.csv", name)

	file, err := st.Open("report.csv")
	require.NoError(t, err)
	defer file.Close()

	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestOpenMissingFile(t *testing.T) {
	st, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = st.Open("missing.csv")
	assert.Error(t, err)
}

func TestDeleteIsIdempotent(t *testing.T) {
	st, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = st.Save("report.csv", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, st.Delete("report.csv"))
	require.NoError(t, st.Delete("report.csv"))
}

func TestCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	st, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = st.Save("old.csv", []byte("old"))
	require.NoError(t, err)
	_, err = st.Save("fresh.csv", []byte("fresh"))
	require.NoError(t, err)

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.csv"), stale, stale))

	deleted, err := st.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.csv"}, deleted)

	_, err = os.Stat(filepath.Join(dir, "fresh.csv"))
	assert.NoError(t, err)
}
