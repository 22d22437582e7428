// Package auth implements the signup, login, logout and whoami commands.
package auth

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leaflens/leaflens-go/internal/app"
	"github.com/leaflens/leaflens-go/internal/conf"
	"github.com/leaflens/leaflens-go/internal/model"
)

// Command creates the auth command tree.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the signed-in account",
	}

	cmd.AddCommand(
		signupCommand(settings),
		loginCommand(settings),
		logoutCommand(settings),
		whoamiCommand(settings),
	)
	return cmd
}

func signupCommand(settings *conf.Settings) *cobra.Command {
	var name, email, password, userType string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new account",
		Long:  "Registers an account with the backend. When the backend is unreachable a local-only account is created instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.Sessions.Register(cmd.Context(), name, email, password, userType)
			if err != nil {
				return err
			}
			if s.IsLocalOnly() {
				fmt.Printf("Backend unreachable, created local-only account %d for %s\n", s.UserID, s.Email)
				return nil
			}
			fmt.Printf("Registered %s (user %d)\n", s.Email, s.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", viper.GetString("auth.name"), "Display name")
	cmd.Flags().StringVar(&email, "email", viper.GetString("auth.email"), "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().StringVar(&userType, "type", "user", "Account type")
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
	return cmd
}

func loginCommand(settings *conf.Settings) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.Sessions.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Printf("Signed in as %s (user %d)\n", s.Email, s.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	return cmd
}

func logoutCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear local data",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Sessions.SignOut(); err != nil {
				return err
			}
			fmt.Println("Signed out")
			return nil
		},
	}
}

func whoamiCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the cached session",
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
			fmt.Printf("%s <%s> (user %d, %s)\n", s.Name, s.Email, s.UserID, s.UserType)
			if s.Kind == model.SessionLocalOnly {
				fmt.Println("Local-only account, not registered with the backend")
			}
			return nil
		},
	}
}
