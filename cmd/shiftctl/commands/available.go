package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"shiftbook/internal/models"
	"shiftbook/internal/store"
)

// AvailableCmd lists shifts in an area grouped by day.
func AvailableCmd(app *AppContext) *cobra.Command {
	var area string

	cmd := &cobra.Command{
		Use:   "available",
		Short: "List shifts in an area grouped by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if area != "" {
				parsed, err := models.ParseArea(area)
				if err != nil {
					return err
				}
				if err := app.Store.SetSelectedArea(parsed); err != nil {
					return err
				}
			}

			snap, err := loadShifts(cmd.Context(), app)
			if err != nil {
				return err
			}

			now := app.now()
			view := store.Available(snap, now)
			renderAreaCounts(app.Out, view.AreaCounts, view.Area)
			fmt.Fprintln(app.Out)
			if len(view.Groups) == 0 {
				renderEmpty(app.Out, fmt.Sprintf("No shifts in %s", view.Area))
				return nil
			}
			renderGroups(app.Out, view.Groups, now.Location())
			return nil
		},
	}

	cmd.Flags().StringVarP(&area, "area", "a", "", "Area to list (Helsinki, Tampere, Turku or all)")
	return cmd
}
