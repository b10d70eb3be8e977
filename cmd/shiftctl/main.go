package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"shiftbook/cmd/shiftctl/commands"
	"shiftbook/internal/config"
	"shiftbook/internal/events"
	"shiftbook/internal/metrics"
	"shiftbook/internal/shiftapi"
	"shiftbook/internal/store"
)

func main() {
	app := &commands.AppContext{Out: os.Stdout, Now: time.Now}

	var (
		configPath string
		logLevel   string
		cleanup    func()
	)

	rootCmd := &cobra.Command{
		Use:           "shiftctl",
		Short:         "Browse, book and cancel work shifts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cleanup, err = initApp(app, configPath, logLevel)
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if cleanup != nil {
				cleanup()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (defaults to $SHIFTBOOK_CONFIG or configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(
		commands.AvailableCmd(app),
		commands.MineCmd(app),
		commands.ShowCmd(app),
		commands.BookCmd(app),
		commands.CancelCmd(app),
		commands.ExportCmd(app),
		commands.ServeCmd(app),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// initApp loads config and wires the logger, remote client, cache and store.
func initApp(app *commands.AppContext, configPath, logLevel string) (func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
	}

	client := shiftapi.NewClient(cfg.API.BaseURL, cfg.APITimeout(), &logger)
	client.SetHeaders(cfg.API.Headers)
	client.UseRateLimit(cfg.API.RequestsPerSecond, cfg.API.Burst)

	var rdb *redis.Client
	if ttl := cfg.CacheTTL(); ttl > 0 {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		client.UseRedisCache(rdb, ttl)
	}

	bus := events.NewEventBus(&logger)
	st := store.New(client, &logger,
		store.WithEventBus(bus),
		store.WithDefaults(cfg.DefaultTab(), cfg.DefaultArea()),
	)

	app.Cfg = cfg
	app.Logger = &logger
	app.Client = client
	app.Redis = rdb
	app.Store = st

	logger.Debug().
		Str("api", cfg.API.BaseURL).
		Dur("timeout", cfg.APITimeout()).
		Dur("cache_ttl", cfg.CacheTTL()).
		Msg("shiftctl initialised")

	return func() {
		if rdb != nil {
			_ = rdb.Close()
		}
	}, nil
}
