// Package kvstore provides the local key-value persistence adapter: whole
// JSON blobs read and written under fixed string keys. It offers no locking
// across callers; two concurrent writers to the same key are last-write-wins.
package kvstore

import (
	"encoding/json"
	"log/slog"

	"github.com/leaflens/leaflens-go/internal/errors"
	"github.com/leaflens/leaflens-go/internal/logging"
)

// Well-known keys. The key names are implementation details but their
// blob semantics are part of the client contract.
const (
	KeyUserData       = "user_data"          // Session blob
	KeyUserToken      = "user_token"         // bearer token string
	KeyCapturedPhotos = "captured_photos"    // []CapturedPhoto, capture order
	KeyPlantPhotos    = "plant_user_photos"  // map[plantID][]PlantPhoto
	KeyScanAnalysis   = "scan_analysis_data" // []AnalysisRecord, append-only
	KeyProfilePic     = "user_profile_pic"   // single file path string
)

// Store is the narrow persistence interface. All operations are
// whole-value; there is no partial update.
type Store interface {
	// Get returns the raw blob for key and whether it was present.
	Get(key string) ([]byte, bool, error)
	// Set writes the raw blob for key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Close releases the underlying storage.
	Close() error
}

var logger *slog.Logger

func serviceLogger() *slog.Logger {
	if logger == nil {
		if l := logging.ForService("kvstore"); l != nil {
			logger = l
		} else {
			logger = slog.Default().With("service", "kvstore")
		}
	}
	return logger
}

// ReadJSON reads and decodes the blob at key into a value of type T.
// Absence, read failure, and decode failure all degrade to the zero value
// with found=false; storage problems are logged, never surfaced, so a
// broken blob is indistinguishable from "no data yet".
func ReadJSON[T any](s Store, key string) (value T, found bool) {
	raw, ok, err := s.Get(key)
	if err != nil {
		serviceLogger().Warn("storage read failed, using empty value",
			"key", key, "error", err)
		return value, false
	}
	if !ok {
		return value, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		serviceLogger().Warn("stored blob is not valid JSON, using empty value",
			"key", key, "size", len(raw), "error", err)
		var zero T
		return zero, false
	}
	return value, true
}

// WriteJSON encodes value and writes it under key.
func WriteJSON(s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Newf("failed to encode value for key %q: %w", key, err).
			Category(errors.CategoryStorage).
			Context("key", key).
			Component("kvstore").
			Build()
	}
	if err := s.Set(key, raw); err != nil {
		return errors.Newf("failed to write key %q: %w", key, err).
			Category(errors.CategoryStorage).
			Context("key", key).
			Context("size", len(raw)).
			Component("kvstore").
			Build()
	}
	return nil
}
