package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCampusesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "campuses",
		Short: "List active campuses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			campuses, err := app.Campuses.ListActive(cmd.Context())
			if err != nil {
				return err
			}

			for _, c := range campuses {
				fmt.Printf("%s\t%s\t%s\n", c.ID, c.Name, c.FullAddress())
			}
			return nil
		},
	}
}

func newSelectCampusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "select-campus <campus-id>",
		Short: "Scope listings to a campus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Campus.Select(cmd.Context(), args[0])

			sel := app.Campus.Selected()
			if sel.Campus != nil {
				fmt.Printf("Selected %s\n", sel.Campus.Name)
			} else {
				fmt.Printf("Selected %s\n", sel.CampusID)
			}
			return nil
		},
	}
}

func newClearCampusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-campus",
		Short: "Clear the campus selection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.Campus.Clear(cmd.Context())
			fmt.Println("Campus selection cleared")
			return nil
		},
	}
}
