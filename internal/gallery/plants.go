package gallery

import (
	"strconv"
	"time"

	"github.com/leaflens/leaflens-go/internal/errors"
	"github.com/leaflens/leaflens-go/internal/kvstore"
	"github.com/leaflens/leaflens-go/internal/model"
)

// PlantGalleries manages the per-plant photo lists, persisted together
// as one plant-id keyed blob. Selection invariant: a non-empty list has
// at most one photo with IsSelected set; adding to an empty list selects
// the new photo, and removing the selected photo promotes the first
// remaining one.
type PlantGalleries struct {
	store kvstore.Store
}

func NewPlantGalleries(store kvstore.Store) *PlantGalleries {
	return &PlantGalleries{store: store}
}

func (g *PlantGalleries) load() map[int][]model.PlantPhoto {
	m, _ := kvstore.ReadJSON[map[int][]model.PlantPhoto](g.store, kvstore.KeyPlantPhotos)
	if m == nil {
		m = make(map[int][]model.PlantPhoto)
	}
	return m
}

func (g *PlantGalleries) save(m map[int][]model.PlantPhoto) error {
	return kvstore.WriteJSON(g.store, kvstore.KeyPlantPhotos, m)
}

// Photos returns a plant's gallery in insertion order. Storage failures
// degrade to an empty list.
func (g *PlantGalleries) Photos(plantID int) []model.PlantPhoto {
	return g.load()[plantID]
}

// AddPhoto appends a photo to a plant's gallery. The first photo of a
// gallery with no current selection becomes the selected one.
func (g *PlantGalleries) AddPhoto(plantID int, uri string) (model.PlantPhoto, error) {
	m := g.load()
	photos := m[plantID]

	photo := model.PlantPhoto{
		ID:        strconv.FormatInt(time.Now().UnixNano(), 10),
		URI:       uri,
		Timestamp: time.Now().Format("1/2/2006, 3:04:05 PM"),
	}
	if !hasSelected(photos) {
		photo.IsSelected = true
	}

	m[plantID] = append(photos, photo)
	if err := g.save(m); err != nil {
		return model.PlantPhoto{}, err
	}
	serviceLogger().Info("photo added to plant", "plant_id", plantID, "photo_id", photo.ID)
	return photo, nil
}

// RemovePhoto deletes a photo from a plant's gallery and removes its
// file. Removing the selected photo promotes the first remaining one.
func (g *PlantGalleries) RemovePhoto(plantID int, photoID string) error {
	m := g.load()
	photos := m[plantID]

	kept := photos[:0:0]
	var removed *model.PlantPhoto
	for _, p := range photos {
		if p.ID == photoID {
			removed = &p
			continue
		}
		kept = append(kept, p)
	}
	if removed == nil {
		return errors.Newf("photo not found in plant gallery: %s", photoID).
			Category(errors.CategoryNotFound).
			Context("plant_id", plantID).
			Context("photo_id", photoID).
			Component("gallery").
			Build()
	}

	if removed.IsSelected && len(kept) > 0 {
		kept[0].IsSelected = true
	}

	if len(kept) == 0 {
		delete(m, plantID)
	} else {
		m[plantID] = kept
	}
	if err := g.save(m); err != nil {
		return err
	}
	removePhotoFile(removed.URI)
	return nil
}

// SelectPhoto marks photoID as the plant's cover photo, clearing any
// previous selection.
func (g *PlantGalleries) SelectPhoto(plantID int, photoID string) error {
	m := g.load()
	photos := m[plantID]

	found := false
	for i := range photos {
		photos[i].IsSelected = photos[i].ID == photoID
		if photos[i].IsSelected {
			found = true
		}
	}
	if !found {
		return errors.Newf("photo not found in plant gallery: %s", photoID).
			Category(errors.CategoryNotFound).
			Context("plant_id", plantID).
			Context("photo_id", photoID).
			Component("gallery").
			Build()
	}

	m[plantID] = photos
	return g.save(m)
}

// Assign transfers captured photos from the roll into a plant's
// gallery. photoIDs nil means the whole roll; otherwise only the named
// entries move. Transferred entries leave the roll; the files stay in
// place and are now owned by the plant gallery.
func (g *PlantGalleries) Assign(roll *Roll, plantID int, photoIDs []string) (int, error) {
	rollPhotos := roll.List()
	if len(rollPhotos) == 0 {
		return 0, nil
	}

	transfer := rollPhotos
	if photoIDs != nil {
		wanted := make(map[string]bool, len(photoIDs))
		for _, id := range photoIDs {
			wanted[id] = true
		}
		transfer = nil
		for _, p := range rollPhotos {
			if wanted[p.ID] {
				transfer = append(transfer, p)
			}
		}
	}
	if len(transfer) == 0 {
		return 0, nil
	}

	m := g.load()
	photos := m[plantID]
	selected := hasSelected(photos)
	for i, p := range transfer {
		photo := model.PlantPhoto{
			ID:        strconv.FormatInt(time.Now().UnixNano()+int64(i), 10),
			URI:       p.URI,
			Timestamp: p.Timestamp,
		}
		if !selected {
			photo.IsSelected = true
			selected = true
		}
		photos = append(photos, photo)
	}
	m[plantID] = photos
	if err := g.save(m); err != nil {
		return 0, err
	}

	moved := make(map[string]bool, len(transfer))
	for _, p := range transfer {
		moved[p.ID] = true
	}
	remaining := rollPhotos[:0:0]
	for _, p := range rollPhotos {
		if !moved[p.ID] {
			remaining = append(remaining, p)
		}
	}
	var err error
	if len(remaining) == 0 {
		err = roll.store.Delete(kvstore.KeyCapturedPhotos)
	} else {
		err = kvstore.WriteJSON(roll.store, kvstore.KeyCapturedPhotos, remaining)
	}
	if err != nil {
		serviceLogger().Warn("failed to prune roll after assignment", "error", err)
	}

	serviceLogger().Info("photos assigned to plant",
		"plant_id", plantID, "count", len(transfer))
	return len(transfer), nil
}

func hasSelected(photos []model.PlantPhoto) bool {
	for _, p := range photos {
		if p.IsSelected {
			return true
		}
	}
	return false
}
