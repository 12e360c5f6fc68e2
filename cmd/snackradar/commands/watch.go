package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snackradar/snackradar/internal/session"
)

func newWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow session and profile changes until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			remove := app.Session.Observe(func(st session.State) {
				line := fmt.Sprintf("mode=%s", st.Mode)
				if st.Profile != nil {
					line += fmt.Sprintf(" role=%s approved=%t campus=%s",
						st.Profile.Role, st.Profile.IsApproved, st.Profile.Campus())
				}
				if st.Fault != nil {
					line += fmt.Sprintf(" error=%q", st.Fault.Message)
				}
				fmt.Println(line)
			})
			defer remove()

			<-cmd.Context().Done()
			return nil
		},
	}
}
