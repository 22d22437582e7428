// Package gallery manages the locally stored photo collections: the
// captured-photo roll, the per-plant galleries, and the cached profile
// picture. Photo files live under the configured photo directory; the
// lists referencing them are JSON blobs in the key-value store.
package gallery

import (
	"log/slog"

	"github.com/leaflens/leaflens-go/internal/logging"
)

var logger *slog.Logger

func serviceLogger() *slog.Logger {
	if logger == nil {
		if l := logging.ForService("gallery"); l != nil {
			logger = l
		} else {
			logger = slog.Default().With("service", "gallery")
		}
	}
	return logger
}
