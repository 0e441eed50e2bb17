package search_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashdeck/internal/search"
)

func TestMemoryRecentStore_NewestFirst(t *testing.T) {
	store := search.NewMemoryRecentStore()

	require.NoError(t, store.Save("u1", "spanish"))
	require.NoError(t, store.Save("u1", "french"))

	recent, err := store.Recent("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"french", "spanish"}, recent)
}

func TestMemoryRecentStore_DedupesRepeats(t *testing.T) {
	store := search.NewMemoryRecentStore()

	require.NoError(t, store.Save("u1", "spanish"))
	require.NoError(t, store.Save("u1", "french"))
	require.NoError(t, store.Save("u1", "spanish"))

	recent, err := store.Recent("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"spanish", "french"}, recent, "repeat moves to the front without duplicating")
}

func TestMemoryRecentStore_CapsAtTen(t *testing.T) {
	store := search.NewMemoryRecentStore()

	queries := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	for _, q := range queries {
		require.NoError(t, store.Save("u1", q))
	}

	recent, err := store.Recent("u1")
	require.NoError(t, err)
	assert.Len(t, recent, 10)
	assert.Equal(t, "l", recent[0], "newest survives")
	assert.NotContains(t, recent, "a", "oldest entries fall off")
	assert.NotContains(t, recent, "b")
}

func TestMemoryRecentStore_IsolatesUsers(t *testing.T) {
	store := search.NewMemoryRecentStore()

	require.NoError(t, store.Save("u1", "spanish"))
	require.NoError(t, store.Save("u2", "chemistry"))

	recent, err := store.Recent("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"spanish"}, recent)
}

func TestMemoryRecentStore_Clear(t *testing.T) {
	store := search.NewMemoryRecentStore()

	require.NoError(t, store.Save("u1", "spanish"))
	require.NoError(t, store.Clear("u1"))

	recent, err := store.Recent("u1")
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestFileRecentStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recent.json")

	store := search.NewFileRecentStore(path)
	require.NoError(t, store.Save("u1", "spanish"))
	require.NoError(t, store.Save("u1", "french"))

	reopened := search.NewFileRecentStore(path)
	recent, err := reopened.Recent("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"french", "spanish"}, recent)
}

func TestFileRecentStore_MissingFileIsEmpty(t *testing.T) {
	store := search.NewFileRecentStore(filepath.Join(t.TempDir(), "nope.json"))

	recent, err := store.Recent("u1")
	require.NoError(t, err)
	assert.Empty(t, recent)
}
