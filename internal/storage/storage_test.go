package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/skillswap/internal/storage"
)

// stores under test share one contract; run every case against both.
func eachStore(t *testing.T, run func(t *testing.T, s storage.Store)) {
	t.Helper()

	t.Run("memory", func(t *testing.T) {
		run(t, storage.NewMemoryStore())
	})
	t.Run("filesystem", func(t *testing.T) {
		fs, err := storage.NewFileStore(t.TempDir())
		require.NoError(t, err)
		run(t, fs)
	})
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	eachStore(t, func(t *testing.T, s storage.Store) {
		_, ok, err := s.Get("db")
		require.NoError(t, err)
		assert.False(t, ok, "fresh store should have no value")

		require.NoError(t, s.Put("db", []byte("first")))

		data, ok, err := s.Get("db")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("first"), data)
	})
}

func TestStore_PutOverwrites(t *testing.T) {
	eachStore(t, func(t *testing.T, s storage.Store) {
		require.NoError(t, s.Put("db", []byte("old")))
		require.NoError(t, s.Put("db", []byte("new")))

		data, ok, err := s.Get("db")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("new"), data)
	})
}

func TestStore_Delete(t *testing.T) {
	eachStore(t, func(t *testing.T, s storage.Store) {
		require.NoError(t, s.Put("db", []byte("x")))
		require.NoError(t, s.Delete("db"))

		_, ok, err := s.Get("db")
		require.NoError(t, err)
		assert.False(t, ok)

		// deleting again is a no-op
		require.NoError(t, s.Delete("db"))
	})
}

func TestMemoryStore_CopiesData(t *testing.T) {
	s := storage.NewMemoryStore()

	buf := []byte("original")
	require.NoError(t, s.Put("db", buf))
	buf[0] = 'X'

	data, ok, err := s.Get("db")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("original"), data)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	fs, err := storage.NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, fs.Put("skillSwapperDB", []byte(`{"users":[]}`)))

	// new store instance over the same directory sees the value
	fs2, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	data, ok, err := fs2.Get("skillSwapperDB")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"users":[]}`), data)
}
