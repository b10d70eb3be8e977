package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"shiftbook/internal/store"
)

// MineCmd lists the booked shifts.
func MineCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your booked shifts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := loadShifts(cmd.Context(), app)
			if err != nil {
				return err
			}

			now := app.now()
			view := store.MyShifts(snap, now)
			if view.TotalShifts == 0 {
				renderEmpty(app.Out, "No shifts booked")
				return nil
			}
			fmt.Fprintf(app.Out, "%s\n\n", headingStyle.Render(
				fmt.Sprintf("%d shifts · %gh", view.TotalShifts, view.TotalHours)))
			renderGroups(app.Out, view.Groups, now.Location())
			return nil
		},
	}
}
