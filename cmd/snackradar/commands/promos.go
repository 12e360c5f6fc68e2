package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/snackradar/snackradar/internal/service"
)

func newPromosCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promos",
		Short: "Browse and manage promotional posts",
	}

	cmd.AddCommand(
		newPromosListCmd(app),
		newPromosCreateCmd(app),
		newPromosPinCmd(app),
	)

	return cmd
}

func newPromosListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List promos at the selected campus",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel := app.Campus.Selected()
			if sel.CampusID == "" {
				return fmt.Errorf("no campus selected, run select-campus first")
			}

			promos, err := app.Promos.ListCampusPromos(cmd.Context(), sel.CampusID)
			if err != nil {
				return err
			}

			for _, p := range promos {
				pin := ""
				if p.IsPinned {
					pin = "*"
				}
				fmt.Printf("%s\t%s%s\t%s\n", p.ID, pin, p.Title, p.OrganizerName)
			}
			return nil
		},
	}
}

func newPromosCreateCmd(app *App) *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a promo at the selected campus",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := app.waitForMode(10 * time.Second)
			if st.Profile == nil {
				return fmt.Errorf("not signed in")
			}

			sel := app.Campus.Selected()
			if sel.CampusID == "" {
				return fmt.Errorf("no campus selected, run select-campus first")
			}

			promo, err := app.Promos.CreatePromo(cmd.Context(), service.CreatePromoParams{
				OrganizerID: st.Profile.ID,
				CampusID:    sel.CampusID,
				Title:       title,
				Content:     content,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created promo %s\n", promo.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "promo title")
	cmd.Flags().StringVar(&content, "content", "", "promo body")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newPromosPinCmd(app *App) *cobra.Command {
	var unpin bool

	cmd := &cobra.Command{
		Use:   "pin <promo-id>",
		Short: "Pin or unpin one of your promos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.waitForMode(10 * time.Second)
			if st.Profile == nil {
				return fmt.Errorf("not signed in")
			}

			if _, err := app.Promos.SetPinned(cmd.Context(), st.Profile.ID, args[0], !unpin); err != nil {
				return err
			}

			if unpin {
				fmt.Println("Promo unpinned")
			} else {
				fmt.Println("Promo pinned")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unpin, "unpin", false, "unpin instead of pin")

	return cmd
}
