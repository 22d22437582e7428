package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leaflens/leaflens-go/cmd/analyze"
	"github.com/leaflens/leaflens-go/cmd/auth"
	"github.com/leaflens/leaflens-go/cmd/capture"
	"github.com/leaflens/leaflens-go/cmd/forum"
	"github.com/leaflens/leaflens-go/cmd/plants"
	"github.com/leaflens/leaflens-go/cmd/profile"
	"github.com/leaflens/leaflens-go/cmd/scans"
	"github.com/leaflens/leaflens-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leaflens",
		Short: "LeafLens CLI, plant identification and disease diagnosis client",
	}

	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		auth.Command(settings),
		capture.Command(settings),
		analyze.Command(settings),
		plants.Command(settings),
		scans.Command(settings),
		forum.Command(settings),
		profile.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags configures the global flags for the root command.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVar(&settings.Debug, "debug", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Backend.BaseURL, "baseurl", viper.GetString("backend.baseurl"), "Backend API base URL")
	rootCmd.PersistentFlags().StringVar(&settings.Storage.DataDir, "datadir", viper.GetString("storage.datadir"), "Directory for local data")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
}
