// Package analyze implements the batch photo analysis command.
package analyze

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leaflens/leaflens-go/internal/app"
	"github.com/leaflens/leaflens-go/internal/conf"
	"github.com/leaflens/leaflens-go/internal/errors"
)

// Command creates the analyze command.
func Command(settings *conf.Settings) *cobra.Command {
	var plantID int
	var selectedOnly bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run species and disease identification on the photo roll",
		Long:  "Uploads each photo on the roll for identification. A failed photo does not stop the rest of the batch.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			s := a.Sessions.Current()
			if s == nil {
				return errors.Newf("sign in before analyzing photos").
					Category(errors.CategoryValidation).
					Component("analysis").
					Build()
			}

			photos := a.Roll.List()
			if selectedOnly {
				photos = a.Roll.Selected()
			}
			if len(photos) == 0 {
				fmt.Println("No photos to analyze")
				return nil
			}

			results := a.Analyzer.AnalyzeBatch(cmd.Context(), photos, s.UserID, plantID)
			failed := 0
			for _, res := range results {
				if res.Err != nil {
					failed++
					fmt.Printf("%s: failed: %v\n", res.Photo.ID, res.Err)
					continue
				}
				fmt.Printf("%s: scan %d, %s (%.1f%%), %s (%.1f%%)\n",
					res.Photo.ID, res.Record.ScanID,
					res.Record.Species, res.Record.SpeciesConfidence,
					res.Record.Disease, res.Record.DiseaseConfidence)
			}
			fmt.Printf("%d analyzed, %d failed\n", len(results)-failed, failed)
			return nil
		},
	}

	cmd.Flags().IntVar(&plantID, "plant", viper.GetInt("analyze.plant"), "Associate results with a plant id")
	cmd.Flags().BoolVar(&selectedOnly, "selected", false, "Analyze only selection-marked photos")
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
	return cmd
}
