package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chrisdamba/foodcloud/internal/cart"
	"github.com/chrisdamba/foodcloud/internal/dashboard"
	"github.com/chrisdamba/foodcloud/internal/factories"
	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/chrisdamba/foodcloud/internal/simulator"
	"github.com/jaswdr/faker"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Place a few generated orders and watch them get delivered",
	Long: `demo fills carts for generated customers, checks them out, and runs the live
tracker for every order at an accelerated tick until all are delivered. When three
or more orders are placed the last one is cancelled from the restaurant dashboard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		tick, _ := cmd.Flags().GetDuration("tick")
		cfg.Tracker.TickInterval = tick
		if cfg.Demo.Orders <= 0 {
			cfg.Demo.Orders = 3
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		fake := factories.New(cfg.Seed)
		customers := factories.NewCustomerFactory(fake)
		placed := make([]models.Order, 0, cfg.Demo.Orders)
		for i := 0; i < cfg.Demo.Orders; i++ {
			c := cart.NewStore()
			fillCart(c, a.catalog.Items(), fake)
			res, err := a.checkout.PlaceOrder(c, customers.CreateCustomer())
			if err != nil {
				return err
			}
			fmt.Printf("%s %s (%s, total $%s)\n", res.Toast.Title, res.Toast.Description,
				res.Order.CustomerInfo.Name, res.Order.Total.StringFixed(2))
			placed = append(placed, res.Order)
		}

		if len(placed) >= 3 {
			last := placed[len(placed)-1]
			if _, err := a.dashboard.Cancel(last.ID); err != nil {
				return err
			}
			placed = placed[:len(placed)-1]
			fmt.Printf("Cancelled %s from the dashboard\n", last.ID)
		}

		settings := simulator.SettingsFromConfig(cfg.Tracker)
		bar := newTrackerBar(settings, placed[0].ID)
		trackers := make([]*simulator.Tracker, 0, len(placed))
		for i, o := range placed {
			t, err := a.trackers.Track(o.ID)
			if err != nil {
				return err
			}
			if i == 0 {
				t.OnChange(func(s models.TrackingSnapshot) { updateTrackerBar(bar, settings, s) })
			}
			trackers = append(trackers, t)
		}

		for _, t := range trackers {
			select {
			case <-t.Done():
			case <-ctx.Done():
				log.Warn().Msg("demo interrupted")
				return nil
			}
		}
		_ = bar.Finish()
		fmt.Println()

		printDashboard(a.dashboard.View())
		return nil
	},
}

func init() {
	demoCmd.Flags().Int("orders", 3, "Number of orders to place")
	demoCmd.Flags().Duration("tick", 50*time.Millisecond, "Tracker tick interval for the demo")
	bindFlag(demoCmd, "demo.orders", "orders")
	rootCmd.AddCommand(demoCmd)
}

func fillCart(c *cart.Store, items []models.MenuItem, fake faker.Faker) {
	lines := fake.IntBetween(1, 3)
	for i := 0; i < lines; i++ {
		item := items[fake.IntBetween(0, len(items)-1)]
		for n := fake.IntBetween(1, 2); n > 0; n-- {
			c.AddItem(item)
		}
	}
}

// trackerTotal is the length of the whole countdown in minutes.
func trackerTotal(s simulator.Settings) int {
	total := 0
	for _, m := range s.StageMinutes {
		total += m
	}
	return total
}

func newTrackerBar(s simulator.Settings, orderID string) *progressbar.ProgressBar {
	return progressbar.NewOptions(trackerTotal(s),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(orderID+" Order Placed"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
	)
}

func updateTrackerBar(bar *progressbar.ProgressBar, s simulator.Settings, snap models.TrackingSnapshot) {
	elapsed := 0
	for stage := models.StageOrderPlaced; stage < snap.Stage && stage < models.StageDelivered; stage++ {
		elapsed += s.StageMinutes[stage-1]
	}
	if snap.Stage >= models.StageOrderPlaced && snap.Stage < models.StageDelivered {
		elapsed += s.StageMinutes[snap.Stage-1] - snap.MinutesRemaining
	}
	bar.Describe(snap.OrderID + " " + snap.StageLabel)
	_ = bar.Set(elapsed)
}

func printDashboard(v dashboard.View) {
	for _, tile := range v.Tiles {
		fmt.Printf("%-16s %10s  %s\n", tile.Title, tile.Value, tile.Change)
	}
	fmt.Printf("\n%-16s %-20s %-16s %8s  %s\n", "ORDER", "CUSTOMER", "STATUS", "AMOUNT", "ITEMS")
	for _, o := range v.Orders {
		fmt.Printf("%-16s %-20s %-16s %8s  %s\n", o.ID, o.Customer, o.Status, o.Amount.StringFixed(2), o.Items)
	}
}
