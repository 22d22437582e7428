// Package profile implements the account profile commands.
package profile

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leaflens/leaflens-go/internal/app"
	"github.com/leaflens/leaflens-go/internal/conf"
	"github.com/leaflens/leaflens-go/internal/errors"
)

// Command creates the profile command tree.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show account details and statistics",
	}

	cmd.AddCommand(
		showCommand(settings),
		statsCommand(settings),
		pictureCommand(settings),
	)
	return cmd
}

func currentOrErr(a *app.App) (int, error) {
	s := a.Sessions.Current()
	if s == nil {
		return 0, errors.Newf("not signed in").
			Category(errors.CategoryValidation).
			Component("session").
			Build()
	}
	return s.UserID, nil
}

func showCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cached profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			s := a.Sessions.Current()
			if s == nil {
				fmt.Println("Not signed in")
				return nil
			}
			fmt.Printf("%s <%s>\n", s.Name, s.Email)
			fmt.Printf("user id: %d, type: %s, since: %s\n", s.UserID, s.UserType, s.CreatedAt)
			if pic := a.Profile.Get(); pic != "" {
				fmt.Printf("picture: %s\n", pic)
			}
			return nil
		},
	}
}

func statsCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show scan, post and like totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			userID, err := currentOrErr(a)
			if err != nil {
				return err
			}

			stats, err := a.Client.GetUserStats(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Printf("scans: %d\nposts: %d\nlikes: %d\n",
				stats.TotalScans, stats.TotalPosts, stats.TotalLikes)
			return nil
		},
	}
}

func pictureCommand(settings *conf.Settings) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "picture [file]",
		Short: "Show, set or clear the cached profile picture",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			switch {
			case clear:
				if err := a.Profile.Clear(); err != nil {
					return err
				}
				fmt.Println("Profile picture cleared")
			case len(args) == 1:
				if err := a.Profile.Set(args[0]); err != nil {
					return err
				}
				fmt.Printf("Profile picture set to %s\n", args[0])
			default:
				if pic := a.Profile.Get(); pic != "" {
					fmt.Println(pic)
				} else {
					fmt.Println("No profile picture")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the cached picture")
	return cmd
}
