// Package plants implements the plant catalogue and gallery commands.
package plants

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leaflens/leaflens-go/internal/app"
	"github.com/leaflens/leaflens-go/internal/conf"
	"github.com/leaflens/leaflens-go/internal/model"
	"github.com/leaflens/leaflens-go/internal/reconcile"
)

// Command creates the plants command tree.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plants",
		Short: "Browse plants and manage their photo galleries",
	}

	cmd.AddCommand(
		listCommand(settings),
		addCommand(settings),
		assignCommand(settings),
		photosCommand(settings),
		selectCoverCommand(settings),
		removePhotoCommand(settings),
		diseasesCommand(settings),
	)
	return cmd
}

func listCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the plant catalogue with local cover photos",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			plants, err := a.Client.ListPlants(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range plants {
				line := fmt.Sprintf("%d  %s", p.PlantID, p.Name)
				if p.Species != "" {
					line += "  (" + p.Species + ")"
				}
				if cover, ok := reconcile.CoverPhoto(a.Galleries.Photos(p.PlantID)); ok {
					line += "  cover: " + cover.URI
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

func addCommand(settings *conf.Settings) *cobra.Command {
	var name, commonName, species string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a plant to the catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			created, err := a.Client.CreatePlant(cmd.Context(), model.Plant{
				Name:       name,
				CommonName: commonName,
				Species:    species,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created plant %d: %s\n", created.PlantID, created.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Plant name")
	cmd.Flags().StringVar(&commonName, "common-name", "", "Common name")
	cmd.Flags().StringVar(&species, "species", "", "Scientific name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func assignCommand(settings *conf.Settings) *cobra.Command {
	var selectedOnly bool

	cmd := &cobra.Command{
		Use:   "assign <plant id> [photo id]...",
		Short: "Move photos from the roll into a plant's gallery",
		Long:  "Moves the whole roll, an explicit list of photo ids, or with --selected the selection-marked subset.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plantID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid plant id %q", args[0])
			}

			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			var photoIDs []string
			switch {
			case len(args) > 1:
				photoIDs = args[1:]
			case selectedOnly:
				for _, p := range a.Roll.Selected() {
					photoIDs = append(photoIDs, p.ID)
				}
				if photoIDs == nil {
					fmt.Println("No photos selected")
					return nil
				}
			}

			moved, err := a.Galleries.Assign(a.Roll, plantID, photoIDs)
			if err != nil {
				return err
			}
			fmt.Printf("Moved %d photo(s) to plant %d\n", moved, plantID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&selectedOnly, "selected", false, "Assign only selection-marked photos")
	return cmd
}

func photosCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "photos <plant id>",
		Short: "List a plant's gallery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plantID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid plant id %q", args[0])
			}

			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			photos := a.Galleries.Photos(plantID)
			if len(photos) == 0 {
				fmt.Println("No photos")
				return nil
			}
			for _, p := range photos {
				marker := " "
				if p.IsSelected {
					marker = "*"
				}
				fmt.Printf("%s %s  %s  %s\n", marker, p.ID, p.Timestamp, p.URI)
			}
			return nil
		},
	}
}

func selectCoverCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "select-cover <plant id> <photo id>",
		Short: "Set a plant's cover photo",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			plantID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid plant id %q", args[0])
			}

			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Galleries.SelectPhoto(plantID, args[1]); err != nil {
				return err
			}
			fmt.Printf("Cover photo for plant %d set to %s\n", plantID, args[1])
			return nil
		},
	}
}

func removePhotoCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-photo <plant id> <photo id>",
		Short: "Remove a photo from a plant's gallery",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			plantID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid plant id %q", args[0])
			}

			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Galleries.RemovePhoto(plantID, args[1]); err != nil {
				return err
			}
			fmt.Printf("Removed %s from plant %d\n", args[1], plantID)
			return nil
		},
	}
}

func diseasesCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "diseases",
		Short: "List the disease reference catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			diseases, err := a.Client.ListDiseases(cmd.Context())
			if err != nil {
				return err
			}
			for _, d := range diseases {
				fmt.Printf("%d  %s\n", d.DiseaseID, d.Name)
				if d.Symptoms != "" {
					fmt.Printf("    symptoms: %s\n", d.Symptoms)
				}
			}
			return nil
		},
	}
}
