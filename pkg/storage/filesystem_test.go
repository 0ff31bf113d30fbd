package storage

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectPathLayout(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	path := store.ObjectPath(1, "released", "CS 101", "hw1", "assignment.tar.gz", now)

	rel, err := filepath.Rel(store.baseDir, path)
	require.NoError(t, err)
	parts := strings.Split(rel, string(filepath.Separator))
	require.Len(t, parts, 6)
	assert.Equal(t, "1", parts[0])
	assert.Equal(t, "released", parts[1])
	assert.Equal(t, "CS 101", parts[2])
	assert.Equal(t, "hw1", parts[3])
	assert.Equal(t, "1709294400", parts[4])
	assert.True(t, strings.HasSuffix(parts[5], ".gz"))
}

func TestObjectPathUnique(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	now := time.Now()
	first := store.ObjectPath(1, "released", "CS1", "hw1", "a.gz", now)
	second := store.ObjectPath(1, "released", "CS1", "hw1", "a.gz", now)
	assert.NotEqual(t, first, second)
}

func TestSaveRefusesOverwrite(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	path := store.ObjectPath(2, "submitted", "CS1", "hw1", "work.gz", time.Now())
	n, err := store.Save(path, bytes.NewReader([]byte("archive bytes")))
	require.NoError(t, err)
	assert.Equal(t, int64(13), n)

	_, err = store.Save(path, bytes.NewReader([]byte("other")))
	require.Error(t, err)

	data, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("archive bytes"), data)
}
