package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"shiftbook/internal/gateway"
)

// ServeCmd runs the HTTP gateway until interrupted.
func ServeCmd(app *AppContext) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the shift state and commands over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := app.Cfg
			if port == 0 {
				port = cfg.Gateway.Port
			}

			origins := cfg.AllowedOrigins()
			if cfg.IsProduction() && len(origins) == 0 {
				app.Logger.Warn().Msg("no allowed origins configured in production; cross-origin requests will be rejected")
			}

			gw := gateway.NewServer(app.Store, gateway.Options{
				AllowedOrigins:  origins,
				Production:      cfg.IsProduction(),
				RefreshInterval: cfg.RefreshInterval(),
				Redis:           app.Redis,
				MetricsEnabled:  cfg.Monitoring.PrometheusEnabled,
				Now:             app.Now,
			}, app.Logger)

			app.Logger.Info().
				Int("port", port).
				Str("environment", cfg.Environment).
				Strs("allowed_origins", origins).
				Msg("starting gateway")
			return gw.ListenAndServe(cmd.Context(), fmt.Sprintf(":%d", port))
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (defaults to gateway.port)")
	return cmd
}
