package conf

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaultConfig sets default values for each configuration parameter.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("backend.baseurl", "https://leaflens-16s1.onrender.com")
	viper.SetDefault("backend.timeout", 30*time.Second)
	viper.SetDefault("backend.cachettl", 5*time.Minute)

	// Empty means "resolve the OS default at load time"
	viper.SetDefault("storage.datadir", "")
	viper.SetDefault("storage.photodir", "")

	viper.SetDefault("log.path", "logs")
}
