package gallery

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/leaflens/leaflens-go/internal/errors"
	"github.com/leaflens/leaflens-go/internal/kvstore"
	"github.com/leaflens/leaflens-go/internal/model"
)

// Roll is the captured-photo roll: photos taken but not yet assigned to
// a plant or analyzed.
type Roll struct {
	store    kvstore.Store
	photoDir string
}

// NewRoll creates a roll persisting under store, with photo files kept
// in photoDir.
func NewRoll(store kvstore.Store, photoDir string) *Roll {
	return &Roll{store: store, photoDir: photoDir}
}

// List returns the roll in capture order. Storage failures degrade to
// an empty roll.
func (r *Roll) List() []model.CapturedPhoto {
	photos, _ := kvstore.ReadJSON[[]model.CapturedPhoto](r.store, kvstore.KeyCapturedPhotos)
	return photos
}

// Add copies the file at srcPath into the photo directory under a fresh
// name and appends an entry to the roll. The source may be a transient
// camera buffer; the durable copy is made before anything is recorded.
func (r *Roll) Add(srcPath string) (model.CapturedPhoto, error) {
	var zero model.CapturedPhoto

	if err := os.MkdirAll(r.photoDir, 0o755); err != nil {
		return zero, errors.Newf("failed to create photo directory: %w", err).
			Category(errors.CategoryFileIO).
			Context("photo_dir", r.photoDir).
			Component("gallery").
			Build()
	}

	dstPath := filepath.Join(r.photoDir, uuid.New().String()+filepath.Ext(srcPath))
	if err := copyFile(srcPath, dstPath); err != nil {
		return zero, err
	}

	now := time.Now()
	photo := model.CapturedPhoto{
		ID:        strconv.FormatInt(now.UnixNano(), 10),
		URI:       dstPath,
		Timestamp: now.Format("1/2/2006, 3:04:05 PM"),
		Date:      now.UTC().Format(time.RFC3339),
	}

	photos := r.List()
	photos = append(photos, photo)
	if err := kvstore.WriteJSON(r.store, kvstore.KeyCapturedPhotos, photos); err != nil {
		// the copied file would be orphaned otherwise
		if rmErr := os.Remove(dstPath); rmErr != nil {
			serviceLogger().Warn("failed to remove orphaned photo file",
				"path", dstPath, "error", rmErr)
		}
		return zero, err
	}

	serviceLogger().Info("photo added to roll", "id", photo.ID, "uri", photo.URI)
	return photo, nil
}

// Remove deletes the entry with id from the roll along with its file.
// An unknown id is a no-op.
func (r *Roll) Remove(id string) error {
	photos := r.List()
	kept := photos[:0:0]
	var removed *model.CapturedPhoto
	for _, p := range photos {
		if p.ID == id {
			removed = &p
			continue
		}
		kept = append(kept, p)
	}
	if removed == nil {
		return nil
	}
	if err := kvstore.WriteJSON(r.store, kvstore.KeyCapturedPhotos, kept); err != nil {
		return err
	}
	removePhotoFile(removed.URI)
	return nil
}

// Clear empties the roll and deletes every referenced file.
func (r *Roll) Clear() error {
	photos := r.List()
	if err := r.store.Delete(kvstore.KeyCapturedPhotos); err != nil {
		return errors.Newf("failed to clear photo roll: %w", err).
			Category(errors.CategoryStorage).
			Component("gallery").
			Build()
	}
	for _, p := range photos {
		removePhotoFile(p.URI)
	}
	serviceLogger().Info("photo roll cleared", "removed", len(photos))
	return nil
}

// ToggleSelected flips the selection mark used when assigning a subset
// of the roll to a plant.
func (r *Roll) ToggleSelected(id string) error {
	photos := r.List()
	found := false
	for i := range photos {
		if photos[i].ID == id {
			photos[i].Selected = !photos[i].Selected
			found = true
			break
		}
	}
	if !found {
		return errors.Newf("photo not found in roll: %s", id).
			Category(errors.CategoryNotFound).
			Context("photo_id", id).
			Component("gallery").
			Build()
	}
	return kvstore.WriteJSON(r.store, kvstore.KeyCapturedPhotos, photos)
}

// Selected returns the marked subset of the roll.
func (r *Roll) Selected() []model.CapturedPhoto {
	var out []model.CapturedPhoto
	for _, p := range r.List() {
		if p.Selected {
			out = append(out, p)
		}
	}
	return out
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Newf("failed to open source photo: %w", err).
			Category(errors.CategoryFileIO).
			Context("path", src).
			Component("gallery").
			Build()
	}
	defer func() {
		if err := in.Close(); err != nil {
			serviceLogger().Warn("failed to close source photo", "path", src, "error", err)
		}
	}()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Newf("failed to create photo copy: %w", err).
			Category(errors.CategoryFileIO).
			Context("path", dst).
			Component("gallery").
			Build()
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return errors.Newf("failed to copy photo: %w", err).
			Category(errors.CategoryFileIO).
			Context("src", src).
			Context("dst", dst).
			Component("gallery").
			Build()
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return errors.Newf("failed to finalize photo copy: %w", err).
			Category(errors.CategoryFileIO).
			Context("path", dst).
			Component("gallery").
			Build()
	}
	return nil
}

// removePhotoFile best-effort deletes a photo file; a missing file is
// fine, anything else is logged.
func removePhotoFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		serviceLogger().Warn("failed to remove photo file", "path", path, "error", err)
	}
}
