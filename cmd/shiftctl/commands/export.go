package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"shiftbook/internal/export"
	"shiftbook/internal/models"
	"shiftbook/internal/store"
)

const (
	viewMine      = "mine"
	viewAvailable = "available"
	viewAll       = "all"
)

// ExportCmd writes grouped shift views to an xlsx workbook.
func ExportCmd(app *AppContext) *cobra.Command {
	var (
		out  string
		view string
		area string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export shifts to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if view != viewMine && view != viewAvailable && view != viewAll {
				return fmt.Errorf("invalid view %q; use mine, available or all", view)
			}
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
			var sheets []export.Sheet
			if view != viewAvailable {
				sheets = append(sheets, export.Sheet{Name: "My shifts", Groups: store.MyShifts(snap, now).Groups})
			}
			if view != viewMine {
				avail := store.Available(snap, now)
				sheets = append(sheets, export.Sheet{Name: "Available - " + string(avail.Area), Groups: avail.Groups})
			}

			if err := export.WriteFile(out, now.Location(), sheets...); err != nil {
				return fmt.Errorf("failed to export shifts: %w", err)
			}
			app.Logger.Info().Str("path", out).Int("sheets", len(sheets)).Msg("shifts exported")
			fmt.Fprintf(app.Out, "Exported %d sheet(s) to %s\n", len(sheets), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "shifts.xlsx", "Output file")
	cmd.Flags().StringVar(&view, "view", viewAll, "Which view to export: mine, available or all")
	cmd.Flags().StringVarP(&area, "area", "a", "", "Area for the available view")
	return cmd
}
