// Package capture implements the photo roll commands.
package capture

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leaflens/leaflens-go/internal/app"
	"github.com/leaflens/leaflens-go/internal/conf"
)

// Command creates the capture command tree.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Manage the captured-photo roll",
	}

	cmd.AddCommand(
		addCommand(settings),
		listCommand(settings),
		removeCommand(settings),
		clearCommand(settings),
		selectCommand(settings),
	)
	return cmd
}

func addCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "add <photo file>...",
		Short: "Copy photo files into the roll",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, path := range args {
				photo, err := a.Roll.Add(path)
				if err != nil {
					return err
				}
				fmt.Printf("Added %s as %s\n", path, photo.ID)
			}
			return nil
		},
	}
}

func listCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the roll in capture order",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			photos := a.Roll.List()
			if len(photos) == 0 {
				fmt.Println("Roll is empty")
				return nil
			}
			for _, p := range photos {
				marker := " "
				if p.Selected {
					marker = "*"
				}
				fmt.Printf("%s %s  %s  %s\n", marker, p.ID, p.Timestamp, p.URI)
			}
			return nil
		},
	}
}

func removeCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <photo id>",
		Short: "Remove a photo from the roll",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Roll.Remove(args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", args[0])
			return nil
		},
	}
}

func clearCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every photo from the roll",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Roll.Clear(); err != nil {
				return err
			}
			fmt.Println("Roll cleared")
			return nil
		},
	}
}

func selectCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "select <photo id>",
		Short: "Toggle a photo's selection mark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Roll.ToggleSelected(args[0]); err != nil {
				return err
			}
			fmt.Printf("Toggled %s\n", args[0])
			return nil
		},
	}
}
