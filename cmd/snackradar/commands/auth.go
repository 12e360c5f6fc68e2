package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/snackradar/snackradar/internal/model"
)

func newSignupCmd(app *App) *cobra.Command {
	var email, password, role string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := model.Role(role)
			if r != model.RoleStudent && r != model.RoleOrganizer {
				return fmt.Errorf("role must be %q or %q", model.RoleStudent, model.RoleOrganizer)
			}

			id, err := app.Provider.SignUp(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			if err := app.Session.CreateProfile(cmd.Context(), id, email, r); err != nil {
				return err
			}

			st := app.waitForMode(10 * time.Second)
			fmt.Printf("Signed up as %s (%s)\n", email, st.Mode)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&role, "role", string(model.RoleStudent), "student or organizer")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.Provider.SignIn(cmd.Context(), email, password); err != nil {
				return err
			}

			st := app.waitForMode(10 * time.Second)
			fmt.Printf("Signed in (%s)\n", st.Mode)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.Session.SignOut(cmd.Context())
			fmt.Println("Signed out")
			return nil
		},
	}
}

func newResetPasswordCmd(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Request a password reset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.Provider.ResetPassword(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Println("Password reset requested")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(_ *cobra.Command, _ []string) error {
			st := app.waitForMode(10 * time.Second)
			fmt.Printf("mode: %s\n", st.Mode)
			if st.Profile != nil {
				fmt.Printf("email: %s\nrole: %s\napproved: %t\n",
					st.Profile.Email, st.Profile.Role.DisplayName(), st.Profile.IsApproved)
			}
			if sel := app.Campus.Selected(); sel.CampusID != "" {
				if sel.Campus != nil {
					fmt.Printf("campus: %s (%s)\n", sel.Campus.Name, sel.CampusID)
				} else {
					fmt.Printf("campus: %s\n", sel.CampusID)
				}
			}
			if st.Fault != nil {
				fmt.Printf("error: %s\n", st.Fault.Message)
			}
			return nil
		},
	}
}
