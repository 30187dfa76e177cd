package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chrisdamba/foodcloud/internal/api"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		go a.sessions.Janitor(ctx, cfg.SessionTTL)

		handler := &api.Handler{
			Catalog:   a.catalog,
			Sessions:  a.sessions,
			Orders:    a.orders,
			Checkout:  a.checkout,
			Trackers:  a.trackers,
			Dashboard: a.dashboard,
			QR:        api.TrackingQRGenerator{BaseURL: cfg.PublicBaseURL},
		}
		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           api.NewRouter(handler, cfg.CORSAllowedOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", cfg.HTTPAddr).Str("restaurant", cfg.RestaurantName).Msg("foodcloud starting")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "HTTP listen address")
	serveCmd.Flags().Duration("tick", time.Minute, "Live tracker tick interval")
	bindFlag(serveCmd, "http_addr", "addr")
	bindFlag(serveCmd, "tracker.tick_interval", "tick")
	rootCmd.AddCommand(serveCmd)
}
