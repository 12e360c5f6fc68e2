package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/snackradar/snackradar/internal/model"
	"github.com/snackradar/snackradar/internal/service"
)

func newEventsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Browse and manage campus food events",
	}

	cmd.AddCommand(
		newEventsListCmd(app),
		newEventsCreateCmd(app),
		newEventsAttachImageCmd(app),
		newEventsDeleteCmd(app),
	)

	return cmd
}

func newEventsListCmd(app *App) *cobra.Command {
	var statusFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events at the selected campus",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel := app.Campus.Selected()
			if sel.CampusID == "" {
				return fmt.Errorf("no campus selected, run select-campus first")
			}

			var status *model.EventStatus
			if statusFlag != "" {
				s := model.EventStatus(statusFlag)
				status = &s
			}

			events, err := app.Events.ListCampusEvents(cmd.Context(), sel.CampusID, status)
			if err != nil {
				return err
			}

			now := time.Now()
			for _, e := range events {
				fmt.Printf("%s\t%s\t%s\t%s\t%s\n",
					e.ID, e.Status(now).DisplayName(), e.Title, e.Location,
					e.StartTime.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "filter by status: upcoming, live or expired")

	return cmd
}

func newEventsCreateCmd(app *App) *cobra.Command {
	var title, description, location, foodType string
	var start, end string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event at the selected campus",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := app.waitForMode(10 * time.Second)
			if st.Profile == nil {
				return fmt.Errorf("not signed in")
			}

			sel := app.Campus.Selected()
			if sel.CampusID == "" {
				return fmt.Errorf("no campus selected, run select-campus first")
			}

			startTime, err := time.Parse(time.RFC3339, start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			endTime, err := time.Parse(time.RFC3339, end)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}

			event, err := app.Events.CreateEvent(cmd.Context(), service.CreateEventParams{
				OrganizerID: st.Profile.ID,
				CampusID:    sel.CampusID,
				Title:       title,
				Description: description,
				Location:    location,
				FoodType:    model.FoodType(foodType),
				StartTime:   startTime,
				EndTime:     endTime,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created event %s\n", event.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "event title")
	cmd.Flags().StringVar(&description, "description", "", "event description")
	cmd.Flags().StringVar(&location, "location", "", "where on campus")
	cmd.Flags().StringVar(&foodType, "food", string(model.FoodOther), "food type")
	cmd.Flags().StringVar(&start, "start", "", "start time (RFC3339)")
	cmd.Flags().StringVar(&end, "end", "", "end time (RFC3339)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newEventsAttachImageCmd(app *App) *cobra.Command {
	var imagePath, contentType string

	cmd := &cobra.Command{
		Use:   "attach-image <event-id>",
		Short: "Attach an image to an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.waitForMode(10 * time.Second)
			if st.Profile == nil {
				return fmt.Errorf("not signed in")
			}

			f, err := os.Open(imagePath)
			if err != nil {
				return fmt.Errorf("failed to open image: %w", err)
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("failed to stat image: %w", err)
			}

			event, err := app.Events.AttachImage(cmd.Context(), st.Profile.ID, args[0], f, info.Size(), contentType)
			if err != nil {
				return err
			}

			fmt.Printf("Image attached: %s\n", *event.ImageURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&imagePath, "file", "", "path to the image file")
	cmd.Flags().StringVar(&contentType, "content-type", "image/jpeg", "image content type")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newEventsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete one of your events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.waitForMode(10 * time.Second)
			if st.Profile == nil {
				return fmt.Errorf("not signed in")
			}

			if err := app.Events.DeleteEvent(cmd.Context(), st.Profile.ID, args[0]); err != nil {
				return err
			}

			fmt.Println("Event deleted")
			return nil
		},
	}
}
