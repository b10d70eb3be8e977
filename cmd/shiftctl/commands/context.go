package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"shiftbook/internal/config"
	"shiftbook/internal/shiftapi"
	"shiftbook/internal/store"
)

// AppContext holds the application dependencies shared across all commands.
// It is filled in before any command runs.
type AppContext struct {
	Cfg    *config.Config
	Client *shiftapi.Client
	Store  *store.Store
	Redis  *redis.Client
	Logger *zerolog.Logger
	Out    io.Writer
	Now    func() time.Time
}

func (app *AppContext) now() time.Time {
	if app.Now != nil {
		return app.Now()
	}
	return time.Now()
}

// loadShifts fetches the shift list into the store.
func loadShifts(ctx context.Context, app *AppContext) (store.Snapshot, error) {
	if err := app.Store.Fetch(ctx, false); err != nil {
		return store.Snapshot{}, fmt.Errorf("failed to fetch shifts: %w", err)
	}
	return app.Store.Snapshot(), nil
}
