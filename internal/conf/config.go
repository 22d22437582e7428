// Package conf loads and holds the application settings, backed by viper.
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/leaflens/leaflens-go/internal/errors"
	"github.com/spf13/viper"
)

//go:embed config.yaml
var configFiles embed.FS

// BackendSettings holds the remote LeafLens API configuration.
type BackendSettings struct {
	BaseURL  string        `yaml:"baseurl" mapstructure:"baseurl"`   // Remote API base URL
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`   // Per-request timeout
	CacheTTL time.Duration `yaml:"cachettl" mapstructure:"cachettl"` // TTL for cached GET collections
}

// StorageSettings holds local persistence paths.
type StorageSettings struct {
	DataDir  string `yaml:"datadir" mapstructure:"datadir"`   // Directory for the local key-value database
	PhotoDir string `yaml:"photodir" mapstructure:"photodir"` // Directory for durable photo copies
}

// LogSettings holds file logging configuration.
type LogSettings struct {
	Path string `yaml:"path" mapstructure:"path"` // Directory for service log files
}

// Settings is the top-level application configuration.
type Settings struct {
	Debug   bool            `yaml:"debug" mapstructure:"debug"`
	Backend BackendSettings `yaml:"backend" mapstructure:"backend"`
	Storage StorageSettings `yaml:"storage" mapstructure:"storage"`
	Log     LogSettings     `yaml:"log" mapstructure:"log"`
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment into a Settings
// instance, creating a default config file on first run.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if settings.Storage.DataDir == "" {
		dataDir, err := GetDefaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("error resolving data directory: %w", err)
		}
		settings.Storage.DataDir = dataDir
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Defaults defined in defaults.go
	setDefaultConfig()

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create config with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes the embedded default config to the primary config path.
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(getDefaultConfig()), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	return string(data)
}

// GetSettings returns the current settings instance, or nil before Load.
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Setting is a convenience alias for GetSettings kept for call-site brevity.
func Setting() *Settings {
	return GetSettings()
}

// ValidateSettings checks that loaded settings are usable.
func ValidateSettings(settings *Settings) error {
	if settings.Backend.BaseURL == "" {
		return errors.Newf("backend base URL must not be empty").
			Category(errors.CategoryConfiguration).
			Component("conf").
			Build()
	}
	if settings.Backend.Timeout <= 0 {
		return errors.Newf("backend timeout must be positive, got %s", settings.Backend.Timeout).
			Category(errors.CategoryConfiguration).
			Component("conf").
			Build()
	}
	return nil
}
