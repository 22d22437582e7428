// conf/utils.go path helpers for the configuration package
package conf

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/leaflens/leaflens-go/internal/errors"
)

const (
	osWindows = "windows"
	osDarwin  = "darwin"
)

// GetDefaultConfigPaths returns the list of directories searched for
// config.yaml, in priority order, based on OS conventions.
func GetDefaultConfigPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "get-home-directory").
			Component("conf").
			Build()
	}

	var configPaths []string
	switch runtime.GOOS {
	case osWindows:
		configPaths = []string{
			filepath.Join(homeDir, "AppData", "Roaming", "leaflens-go"),
		}
	case osDarwin:
		configPaths = []string{
			filepath.Join(homeDir, "Library", "Application Support", "leaflens-go"),
		}
	default:
		configPaths = []string{
			filepath.Join(homeDir, ".config", "leaflens-go"),
		}
	}

	// Working directory is always the last fallback.
	configPaths = append(configPaths, ".")

	return configPaths, nil
}

// GetDefaultDataDir returns the OS-conventional directory for the local
// key-value database and photo storage.
func GetDefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "get-home-directory").
			Component("conf").
			Build()
	}

	switch runtime.GOOS {
	case osWindows:
		return filepath.Join(homeDir, "AppData", "Local", "leaflens-go"), nil
	case osDarwin:
		return filepath.Join(homeDir, "Library", "Application Support", "leaflens-go", "data"), nil
	default:
		return filepath.Join(homeDir, ".local", "share", "leaflens-go"), nil
	}
}

// PhotoDir resolves the configured photo directory, defaulting to a
// subdirectory of the data directory when unset.
func (s *Settings) PhotoDirResolved() string {
	if s.Storage.PhotoDir != "" {
		return s.Storage.PhotoDir
	}
	return filepath.Join(s.Storage.DataDir, "photos")
}
