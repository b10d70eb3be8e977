package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"shiftbook/internal/shiftapi"
	"shiftbook/internal/store"
)

// maxParallelMutations bounds concurrent book/cancel requests per command.
const maxParallelMutations = 4

type mutationFunc func(s *store.Store, ctx context.Context, id string) error

// BookCmd books the given shifts.
func BookCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "book <id>...",
		Short: "Book one or more shifts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutations(cmd.Context(), app, args, "booked", (*store.Store).Book)
		},
	}
}

// CancelCmd cancels bookings of the given shifts.
func CancelCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>...",
		Short: "Cancel one or more booked shifts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutations(cmd.Context(), app, args, "cancelled", (*store.Store).Cancel)
		},
	}
}

func failureMessage(err error) string {
	if errors.Is(err, store.ErrMutationInFlight) {
		return err.Error()
	}
	return shiftapi.AsAPIError(err).Message
}

// runMutations issues one request per id concurrently. Repeated ids hit the
// store's in-flight guard. Results are printed in argument order.
func runMutations(ctx context.Context, app *AppContext, ids []string, verb string, fn mutationFunc) error {
	if _, err := loadShifts(ctx, app); err != nil {
		return err
	}

	results := make([]error, len(ids))
	var g errgroup.Group
	g.SetLimit(maxParallelMutations)
	for i, id := range ids {
		g.Go(func() error {
			results[i] = fn(app.Store, ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, id := range ids {
		if results[i] == nil {
			fmt.Fprintf(app.Out, "%s %s\n", okStyle.Render(verb), id)
			continue
		}
		failed++
		fmt.Fprintf(app.Out, "%s %s: %s\n", errorStyle.Render("failed"), id, failureMessage(results[i]))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(ids))
	}
	return nil
}
