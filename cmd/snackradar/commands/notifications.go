package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newNotificationsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Manage push notifications",
	}

	on := &cobra.Command{
		Use:   "on",
		Short: "Enable push notifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if st := app.waitForMode(10 * time.Second); st.Profile == nil {
				return fmt.Errorf("not signed in")
			}
			if err := app.Session.SetPushNotifications(cmd.Context(), true); err != nil {
				return err
			}
			fmt.Println("Notifications enabled")
			return nil
		},
	}

	off := &cobra.Command{
		Use:   "off",
		Short: "Disable push notifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if st := app.waitForMode(10 * time.Second); st.Profile == nil {
				return fmt.Errorf("not signed in")
			}
			if err := app.Session.SetPushNotifications(cmd.Context(), false); err != nil {
				return err
			}
			fmt.Println("Notifications disabled")
			return nil
		},
	}

	cmd.AddCommand(on, off)
	return cmd
}
