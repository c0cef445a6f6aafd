package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kvStore is the behaviour both backends share.
type kvStore interface {
	Load() (map[string]string, error)
	Save(values map[string]string) error
	Clear(keys ...string) error
}

func exerciseStore(t *testing.T, s kvStore) {
	t.Run("empty load", func(t *testing.T) {
		got, err := s.Load()
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("save then load", func(t *testing.T) {
		require.NoError(t, s.Save(map[string]string{"a_count": "10", "a_hold": "1"}))
		require.NoError(t, s.Save(map[string]string{"a_count": "11"}))

		got, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"a_count": "11", "a_hold": "1"}, got)
	})

	t.Run("clear removes only named keys", func(t *testing.T) {
		require.NoError(t, s.Clear("a_count", "missing"))

		got, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"a_hold": "1"}, got)
	})
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_Broken(t *testing.T) {
	s := NewMemoryStore()
	s.Set("k", "v")
	s.SetBroken(true)

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, s.Save(map[string]string{"k": "w"}), ErrUnavailable)
	assert.ErrorIs(t, s.Clear("k"), ErrUnavailable)

	s.SetBroken(false)
	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	s.Set("k", "v")

	got, err := s.Load()
	require.NoError(t, err)
	got["k"] = "changed"

	v, _ := s.Get("k")
	assert.Equal(t, "v", v)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pile.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(map[string]string{"poop_count": "1234"}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "1234", got["poop_count"])
}

func TestSQLiteStore_ClosedFails(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Load()
	assert.Error(t, err)
	assert.Error(t, s.Save(map[string]string{"k": "v"}))
}
