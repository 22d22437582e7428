package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaflens/leaflens-go/internal/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(t.TempDir())
	require.NoError(t, err, "opening store in temp dir should succeed")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteRoundTrip(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Set("greeting", []byte(`"hello"`)))

	got, found, err := s.Get("greeting")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`"hello"`), got)
}

func TestSQLiteOverwrite(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Set("k", []byte("one")))
	require.NoError(t, s.Set("k", []byte("two")))

	got, found, err := s.Get("k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("two"), got)
}

func TestSQLiteMissingKey(t *testing.T) {
	s := openTestStore(t)

	got, found, err := s.Get("never-written")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestSQLiteDelete(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Set("k", []byte("v")))
	require.NoError(t, s.Delete("k"))

	_, found, err := s.Get("k")
	require.NoError(t, err)
	assert.False(t, found)

	// deleting again is a no-op
	assert.NoError(t, s.Delete("k"))
}

func TestJSONRoundTrip(t *testing.T) {
	s := NewMemoryStore()

	in := []model.CapturedPhoto{
		{ID: "a", URI: "/photos/a.jpg", Timestamp: "2024-05-01T10:00:00Z", Selected: true},
		{ID: "b", URI: "/photos/b.jpg", Timestamp: "2024-05-02T11:30:00Z"},
	}
	require.NoError(t, WriteJSON(s, KeyCapturedPhotos, in))

	out, found := ReadJSON[[]model.CapturedPhoto](s, KeyCapturedPhotos)
	require.True(t, found)
	assert.Equal(t, in, out)
}

func TestReadJSONAbsentKeyReturnsZeroValue(t *testing.T) {
	s := NewMemoryStore()

	out, found := ReadJSON[[]model.PlantPhoto](s, KeyPlantPhotos)
	assert.False(t, found)
	assert.Nil(t, out)
}

func TestReadJSONCorruptValueDegradesToZeroValue(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set(KeyUserData, []byte("{not json")))

	out, found := ReadJSON[model.Session](s, KeyUserData)
	assert.False(t, found)
	assert.Equal(t, model.Session{}, out)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore()

	buf := []byte("original")
	require.NoError(t, s.Set("k", buf))
	buf[0] = 'X'

	got, found, err := s.Get("k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("original"), got)
}
