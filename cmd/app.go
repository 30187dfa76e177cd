package cmd

import (
	"context"
	"fmt"

	"github.com/chrisdamba/foodcloud/internal/checkout"
	"github.com/chrisdamba/foodcloud/internal/dashboard"
	"github.com/chrisdamba/foodcloud/internal/factories"
	"github.com/chrisdamba/foodcloud/internal/menu"
	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/chrisdamba/foodcloud/internal/orders"
	"github.com/chrisdamba/foodcloud/internal/output"
	"github.com/chrisdamba/foodcloud/internal/session"
	"github.com/chrisdamba/foodcloud/internal/simulator"
	"github.com/rs/zerolog/log"
)

// app holds every long-lived component. Stores are created once here and
// injected into their consumers.
type app struct {
	cfg       *models.Config
	catalog   *menu.Catalog
	orders    *orders.Store
	sessions  *session.Registry
	checkout  *checkout.Service
	trackers  *simulator.Manager
	dashboard *dashboard.Dashboard

	cancel      context.CancelFunc
	menuCleanup func()
	feedDetach  func()
	feedDone    chan error
}

func newApp(ctx context.Context, cfg *models.Config) (*app, error) {
	catalog, menuCleanup, err := menu.Load(ctx, cfg)
	if err != nil {
		menuCleanup()
		return nil, fmt.Errorf("error loading menu: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	store := orders.NewStore(
		orders.WithRestaurant(cfg.RestaurantName),
		orders.WithDeliverySLA(cfg.DeliverySLA),
	)
	a := &app{
		cfg:         cfg,
		catalog:     catalog,
		orders:      store,
		sessions:    session.NewRegistry(),
		checkout:    checkout.NewService(store, cfg.DeliverySLA),
		trackers:    simulator.NewManager(ctx, store, simulator.SettingsFromConfig(cfg.Tracker)),
		dashboard:   dashboard.New(store, factories.New(cfg.Seed), nil),
		cancel:      cancel,
		menuCleanup: menuCleanup,
	}

	if cfg.Output.Format != "none" {
		dest, err := output.NewDestination(ctx, cfg)
		if err != nil {
			cancel()
			menuCleanup()
			return nil, fmt.Errorf("error creating %s output: %w", cfg.Output.Format, err)
		}
		feed := output.NewFeed(dest, cfg.Output)
		a.feedDetach = feed.Attach(store)
		a.feedDone = make(chan error, 1)
		go func() { a.feedDone <- feed.Run(ctx) }()
		log.Info().Str("format", cfg.Output.Format).Msg("order event feed started")
	}
	return a, nil
}

// Close stops trackers before anything they write to goes away, then
// drains the event feed.
func (a *app) Close() {
	a.trackers.StopAll()
	if a.feedDetach != nil {
		a.feedDetach()
	}
	a.cancel()
	if a.feedDone != nil {
		if err := <-a.feedDone; err != nil {
			log.Error().Err(err).Msg("error closing event output")
		}
	}
	a.menuCleanup()
}
