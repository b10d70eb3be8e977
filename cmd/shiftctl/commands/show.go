package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"shiftbook/internal/shifts"
)

// ShowCmd prints one shift as the server currently reports it.
func ShowCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadShifts(cmd.Context(), app)
			if err != nil {
				return err
			}

			shift, err := app.Client.FetchOne(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch shift %s: %w", args[0], err)
			}

			now := app.now()
			meta := shifts.Enhance(shift, snap.Shifts, now)
			loc := now.Location()

			fmt.Fprintln(app.Out, headingStyle.Render(meta.ID))
			fmt.Fprintf(app.Out, "  Area:     %s\n", meta.Area)
			fmt.Fprintf(app.Out, "  Date:     %s (%s)\n", shifts.FormatDate(meta.StartTime, now), shifts.DateKey(meta.StartTime, loc))
			fmt.Fprintf(app.Out, "  Time:     %s\n", shifts.FormatTimeRange(meta.StartTime, meta.EndTime, loc))
			fmt.Fprintf(app.Out, "  Duration: %s\n", shifts.FormatDuration(meta.StartTime, meta.EndTime))
			fmt.Fprintf(app.Out, "  Status:   %s\n", shiftStatus(meta))
			if !meta.Booked {
				bookable := "yes"
				if !shifts.CanBook(meta) {
					bookable = "no"
				}
				fmt.Fprintf(app.Out, "  Bookable: %s\n", bookable)
			}
			return nil
		},
	}
}
