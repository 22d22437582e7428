package gallery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaflens/leaflens-go/internal/kvstore"
	"github.com/leaflens/leaflens-go/internal/model"
)

func newTestRoll(t *testing.T) (*Roll, kvstore.Store) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	return NewRoll(store, t.TempDir()), store
}

func captureTestPhoto(t *testing.T, roll *Roll) model.CapturedPhoto {
	t.Helper()
	src := filepath.Join(t.TempDir(), "capture.jpg")
	require.NoError(t, os.WriteFile(src, []byte("jpeg"), 0o644))
	photo, err := roll.Add(src)
	require.NoError(t, err)
	return photo
}

func TestRollAddCopiesFile(t *testing.T) {
	roll, _ := newTestRoll(t)

	src := filepath.Join(t.TempDir(), "capture.jpg")
	require.NoError(t, os.WriteFile(src, []byte("jpeg"), 0o644))

	photo, err := roll.Add(src)
	require.NoError(t, err)
	assert.NotEqual(t, src, photo.URI)
	assert.FileExists(t, photo.URI)

	// the roll survives removal of the transient source
	require.NoError(t, os.Remove(src))
	assert.FileExists(t, photo.URI)

	list := roll.List()
	require.Len(t, list, 1)
	assert.Equal(t, photo.ID, list[0].ID)
}

func TestRollRemoveDeletesFile(t *testing.T) {
	roll, _ := newTestRoll(t)
	photo := captureTestPhoto(t, roll)

	require.NoError(t, roll.Remove(photo.ID))
	assert.Empty(t, roll.List())
	assert.NoFileExists(t, photo.URI)
}

func TestRollRemoveUnknownIDIsNoop(t *testing.T) {
	roll, _ := newTestRoll(t)
	captureTestPhoto(t, roll)

	require.NoError(t, roll.Remove("nope"))
	assert.Len(t, roll.List(), 1)
}

func TestRollClear(t *testing.T) {
	roll, _ := newTestRoll(t)
	a := captureTestPhoto(t, roll)
	b := captureTestPhoto(t, roll)

	require.NoError(t, roll.Clear())
	assert.Empty(t, roll.List())
	assert.NoFileExists(t, a.URI)
	assert.NoFileExists(t, b.URI)
}

func TestRollToggleSelected(t *testing.T) {
	roll, _ := newTestRoll(t)
	photo := captureTestPhoto(t, roll)

	require.NoError(t, roll.ToggleSelected(photo.ID))
	selected := roll.Selected()
	require.Len(t, selected, 1)
	assert.Equal(t, photo.ID, selected[0].ID)

	require.NoError(t, roll.ToggleSelected(photo.ID))
	assert.Empty(t, roll.Selected())

	assert.Error(t, roll.ToggleSelected("nope"))
}

func TestPlantAddToEmptySelects(t *testing.T) {
	g := NewPlantGalleries(kvstore.NewMemoryStore())

	photo, err := g.AddPhoto(1, "/photos/a.jpg")
	require.NoError(t, err)
	assert.True(t, photo.IsSelected)

	second, err := g.AddPhoto(1, "/photos/b.jpg")
	require.NoError(t, err)
	assert.False(t, second.IsSelected)

	assert.Equal(t, 1, countSelected(g.Photos(1)))
}

func TestPlantRemoveSelectedPromotesFirst(t *testing.T) {
	g := NewPlantGalleries(kvstore.NewMemoryStore())

	first, err := g.AddPhoto(1, "/photos/a.jpg")
	require.NoError(t, err)
	second, err := g.AddPhoto(1, "/photos/b.jpg")
	require.NoError(t, err)

	require.NoError(t, g.RemovePhoto(1, first.ID))

	photos := g.Photos(1)
	require.Len(t, photos, 1)
	assert.Equal(t, second.ID, photos[0].ID)
	assert.True(t, photos[0].IsSelected)
}

func TestPlantRemoveLastPhotoClearsGallery(t *testing.T) {
	g := NewPlantGalleries(kvstore.NewMemoryStore())

	photo, err := g.AddPhoto(1, "/photos/a.jpg")
	require.NoError(t, err)
	require.NoError(t, g.RemovePhoto(1, photo.ID))

	assert.Empty(t, g.Photos(1))
}

func TestPlantSelectPhotoIsExclusive(t *testing.T) {
	g := NewPlantGalleries(kvstore.NewMemoryStore())

	_, err := g.AddPhoto(1, "/photos/a.jpg")
	require.NoError(t, err)
	second, err := g.AddPhoto(1, "/photos/b.jpg")
	require.NoError(t, err)

	require.NoError(t, g.SelectPhoto(1, second.ID))

	photos := g.Photos(1)
	assert.Equal(t, 1, countSelected(photos))
	for _, p := range photos {
		assert.Equal(t, p.ID == second.ID, p.IsSelected)
	}

	assert.Error(t, g.SelectPhoto(1, "nope"))
}

func TestAssignWholeRoll(t *testing.T) {
	roll, store := newTestRoll(t)
	captureTestPhoto(t, roll)
	captureTestPhoto(t, roll)

	g := NewPlantGalleries(store)
	moved, err := g.Assign(roll, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, moved)

	assert.Empty(t, roll.List())
	photos := g.Photos(5)
	require.Len(t, photos, 2)
	assert.Equal(t, 1, countSelected(photos))
}

func TestAssignSubsetLeavesRest(t *testing.T) {
	roll, store := newTestRoll(t)
	a := captureTestPhoto(t, roll)
	b := captureTestPhoto(t, roll)

	g := NewPlantGalleries(store)
	moved, err := g.Assign(roll, 5, []string{a.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	remaining := roll.List()
	require.Len(t, remaining, 1)
	assert.Equal(t, b.ID, remaining[0].ID)
	assert.Len(t, g.Photos(5), 1)
}

func TestAssignEmptyRoll(t *testing.T) {
	roll, store := newTestRoll(t)
	g := NewPlantGalleries(store)

	moved, err := g.Assign(roll, 5, nil)
	require.NoError(t, err)
	assert.Zero(t, moved)
}

func TestProfilePicture(t *testing.T) {
	p := NewProfilePicture(kvstore.NewMemoryStore())

	assert.Empty(t, p.Get())
	require.NoError(t, p.Set("/photos/me.jpg"))
	assert.Equal(t, "/photos/me.jpg", p.Get())
	require.NoError(t, p.Clear())
	assert.Empty(t, p.Get())
}

func countSelected(photos []model.PlantPhoto) int {
	n := 0
	for _, p := range photos {
		if p.IsSelected {
			n++
		}
	}
	return n
}
