// Package gateway exposes the shift store over HTTP to an out-of-process
// presentation layer.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"shiftbook/internal/metrics"
	"shiftbook/internal/store"
)

const (
	shutdownTimeout = 3 * time.Second
	readyTimeout    = time.Second
	keepAlive       = 25 * time.Second
)

// Options configures a Server.
type Options struct {
	AllowedOrigins []string
	Production     bool
	// RefreshInterval enables a periodic silent refresh while serving.
	RefreshInterval time.Duration
	// Redis, when set, is pinged by /readyz.
	Redis          *redis.Client
	MetricsEnabled bool
	// Now overrides the clock used for derived views.
	Now func() time.Time
}

// Server serves the store state, views and commands.
type Server struct {
	store   *store.Store
	origins *originPolicy
	opts    Options
	now     func() time.Time
	log     zerolog.Logger
}

// NewServer constructs a gateway around st.
func NewServer(st *store.Store, opts Options, logger *zerolog.Logger) *Server {
	log := zerolog.Nop()
	if logger != nil {
		log = logger.With().Str("component", "gateway").Logger()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		store:   st,
		origins: newOriginPolicy(opts.AllowedOrigins, opts.Production),
		opts:    opts,
		now:     now,
		log:     log,
	}
}

// Handler returns the full HTTP handler including the origin policy.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.observe)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	if s.opts.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/views/my-shifts", s.handleMyShifts).Methods(http.MethodGet)
	api.HandleFunc("/views/available", s.handleAvailable).Methods(http.MethodGet)
	api.HandleFunc("/shifts/refresh", s.handleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/shifts/{id}/book", s.handleBook).Methods(http.MethodPost)
	api.HandleFunc("/shifts/{id}/cancel", s.handleCancel).Methods(http.MethodPost)
	api.HandleFunc("/tab", s.handleSetTab).Methods(http.MethodPut)
	api.HandleFunc("/area", s.handleSetArea).Methods(http.MethodPut)
	api.HandleFunc("/error", s.handleClearError).Methods(http.MethodDelete)
	api.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)

	return s.origins.wrap(r)
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve loads the shift list, then serves on ln until ctx is done. Open
// event streams are closed on shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("gateway listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctxShutdown)
	})
	g.Go(func() error {
		s.store.FetchShifts(gctx, false)
		if s.opts.RefreshInterval > 0 {
			s.refreshLoop(gctx, s.opts.RefreshInterval)
		}
		return nil
	})

	return g.Wait()
}

func (s *Server) refreshLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.store.RefreshShifts(ctx) {
				s.log.Warn().Msg("periodic refresh failed")
			}
		}
	}
}

// observe records metrics and a debug log line per request.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		metrics.IncGatewayRequest(route, strconv.Itoa(rec.status))
		s.log.Debug().
			Str("method", r.Method).
			Str("route", route).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("gateway request")
	})
}
