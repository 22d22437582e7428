// Package scans implements the scan history commands.
package scans

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leaflens/leaflens-go/internal/api"
	"github.com/leaflens/leaflens-go/internal/app"
	"github.com/leaflens/leaflens-go/internal/conf"
	"github.com/leaflens/leaflens-go/internal/errors"
	"github.com/leaflens/leaflens-go/internal/reconcile"
)

// Command creates the scans command tree.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scans",
		Short: "Browse and manage the scan history",
	}

	cmd.AddCommand(
		historyCommand(settings),
		deleteCommand(settings),
	)
	return cmd
}

func historyCommand(settings *conf.Settings) *cobra.Command {
	var plantID int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the signed-in user's scans, newest first",
		Long:  "Fetches the remote scan list and enriches it with locally cached species and disease results.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			s := a.Sessions.Current()
			if s == nil {
				return errors.Newf("sign in to view scan history").
					Category(errors.CategoryValidation).
					Component("session").
					Build()
			}

			scans, err := a.Client.ListScans(cmd.Context(), api.ScanFilter{
				UserID:  s.UserID,
				PlantID: plantID,
			})
			if err != nil {
				return err
			}

			enriched := reconcile.SortByRecency(reconcile.EnrichScans(scans, a.Analyzer.Records()))
			if len(enriched) == 0 {
				fmt.Println("No scans")
				return nil
			}
			for _, e := range enriched {
				when := e.Date
				if when == "" {
					when = e.Timestamp
				}
				if when == "" {
					when = e.CreatedAt
				}
				fmt.Printf("%d  %s  %s (%.1f%%)  %s (%.1f%%)\n",
					e.ScanID, when,
					e.Species, e.SpeciesConfidence,
					e.Disease, e.DiseaseConfidence)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&plantID, "plant", viper.GetInt("scans.plant"), "Filter by plant id")
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
	return cmd
}

func deleteCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <scan id>",
		Short: "Delete a scan record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scanID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid scan id %q", args[0])
			}

			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Client.DeleteScan(cmd.Context(), scanID); err != nil {
				return err
			}
			fmt.Printf("Deleted scan %d\n", scanID)
			return nil
		},
	}
}
