// Package dashboard is the restaurant-side view over the Order Store.
package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/jaswdr/faker"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrNoAction      = errors.New("no dashboard action for order status")
)

type OrderBoard interface {
	UserOrders() []models.Order
	GetOrderByID(orderID string) (models.Order, bool)
	UpdateOrderStatus(orderID string, status models.OrderStatus) error
	UpdateOrderStatusFrom(orderID string, from, to models.OrderStatus) error
}

// Action is the single forward button shown next to an order.
type Action struct {
	Label string             `json:"label"`
	Next  models.OrderStatus `json:"next"`
}

var actions = map[models.OrderStatus]Action{
	models.OrderStatusPending:        {Label: "Confirm", Next: models.OrderStatusConfirmed},
	models.OrderStatusConfirmed:      {Label: "Start Preparing", Next: models.OrderStatusPreparing},
	models.OrderStatusPreparing:      {Label: "Mark Ready", Next: models.OrderStatusOutForDelivery},
	models.OrderStatusOutForDelivery: {Label: "Mark Delivered", Next: models.OrderStatusDelivered},
}

func NextAction(status models.OrderStatus) (Action, bool) {
	a, ok := actions[status]
	return a, ok
}

type Tile struct {
	Title  string `json:"title"`
	Value  string `json:"value"`
	Change string `json:"change"`
}

type OrderRow struct {
	ID        string             `json:"id"`
	Customer  string             `json:"customer"`
	Items     string             `json:"items"`
	Amount    decimal.Decimal    `json:"amount"`
	Status    models.OrderStatus `json:"status"`
	Age       string             `json:"time"`
	Action    *Action            `json:"action,omitempty"`
	CanCancel bool               `json:"canCancel"`
}

type View struct {
	Tiles        []Tile     `json:"stats"`
	Orders       []OrderRow `json:"orders"`
	ActiveOrders int        `json:"activeOrders"`
}

// mockStats are the figures the store cannot derive. They are drawn once so
// the dashboard does not flicker between requests.
type mockStats struct {
	prepMinutes   int
	prepChange    int
	rating        decimal.Decimal
	ratingChange  decimal.Decimal
	revenueChange int
	activeChange  int
}

type Dashboard struct {
	board OrderBoard
	now   func() time.Time
	mock  mockStats
}

func New(board OrderBoard, fake faker.Faker, now func() time.Time) *Dashboard {
	if now == nil {
		now = time.Now
	}
	return &Dashboard{
		board: board,
		now:   now,
		mock: mockStats{
			prepMinutes:   fake.IntBetween(12, 25),
			prepChange:    fake.IntBetween(-5, 2),
			rating:        decimal.New(int64(fake.IntBetween(42, 50)), -1),
			ratingChange:  decimal.New(int64(fake.IntBetween(-2, 3)), -1),
			revenueChange: fake.IntBetween(-5, 20),
			activeChange:  fake.IntBetween(-5, 10),
		},
	}
}

func (d *Dashboard) View() View {
	now := d.now()
	orders := d.board.UserOrders()

	rows := make([]OrderRow, 0, len(orders))
	revenue := decimal.Zero
	active := 0
	y, m, day := now.Date()
	for _, o := range orders {
		if !o.Status.IsTerminal() {
			active++
		}
		oy, om, od := o.OrderTime.In(now.Location()).Date()
		if o.Status != models.OrderStatusCancelled && oy == y && om == m && od == day {
			revenue = revenue.Add(o.Total)
		}
		rows = append(rows, newRow(o, now))
	}

	return View{
		Tiles: []Tile{
			{Title: "Today's Revenue", Value: formatMoney(revenue), Change: signed(d.mock.revenueChange) + "%"},
			{Title: "Active Orders", Value: fmt.Sprintf("%d", active), Change: signed(d.mock.activeChange) + "%"},
			{Title: "Avg. Prep Time", Value: fmt.Sprintf("%d min", d.mock.prepMinutes), Change: signed(d.mock.prepChange) + " min"},
			{Title: "Customer Rating", Value: d.mock.rating.StringFixed(1), Change: signedDecimal(d.mock.ratingChange)},
		},
		Orders:       rows,
		ActiveOrders: active,
	}
}

// Advance applies the forward action for the order's current status. If
// the status moves on before the write, nothing changes and the store's
// ErrStatusChanged is returned.
func (d *Dashboard) Advance(orderID string) (models.Order, error) {
	order, ok := d.board.GetOrderByID(orderID)
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}
	action, ok := NextAction(order.Status)
	if !ok {
		return order, fmt.Errorf("%w: %s", ErrNoAction, order.Status)
	}
	if err := d.board.UpdateOrderStatusFrom(orderID, order.Status, action.Next); err != nil {
		return models.Order{}, err
	}
	return d.applied(orderID, action.Next)
}

// Cancel is offered for every order that has not yet finished.
func (d *Dashboard) Cancel(orderID string) (models.Order, error) {
	order, ok := d.board.GetOrderByID(orderID)
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}
	if order.Status.IsTerminal() {
		return order, fmt.Errorf("%w: %s", ErrNoAction, order.Status)
	}
	return d.set(orderID, models.OrderStatusCancelled)
}

func (d *Dashboard) set(orderID string, status models.OrderStatus) (models.Order, error) {
	if err := d.board.UpdateOrderStatus(orderID, status); err != nil {
		return models.Order{}, err
	}
	return d.applied(orderID, status)
}

func (d *Dashboard) applied(orderID string, status models.OrderStatus) (models.Order, error) {
	log.Info().Str("order_id", orderID).Str("status", string(status)).Msg("dashboard action applied")
	order, _ := d.board.GetOrderByID(orderID)
	return order, nil
}

func newRow(o models.Order, now time.Time) OrderRow {
	parts := make([]string, 0, len(o.Items))
	for _, l := range o.Items {
		parts = append(parts, fmt.Sprintf("%dx %s", l.Quantity, l.Name))
	}
	row := OrderRow{
		ID:        o.ID,
		Customer:  o.CustomerInfo.Name,
		Items:     strings.Join(parts, ", "),
		Amount:    o.Total,
		Status:    o.Status,
		Age:       age(now.Sub(o.OrderTime)),
		CanCancel: !o.Status.IsTerminal(),
	}
	if a, ok := NextAction(o.Status); ok {
		row.Action = &a
	}
	return row
}

func age(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	case d < 2*time.Hour:
		return "1 hour ago"
	}
	return fmt.Sprintf("%d hours ago", int(d.Hours()))
}

var moneyPrinter = message.NewPrinter(language.English)

// formatMoney renders d as dollars with thousands separators, e.g. $1,247.50.
func formatMoney(d decimal.Decimal) string {
	d = d.Round(2)
	amount := moneyPrinter.Sprintf("%.2f", d.Abs().InexactFloat64())
	if d.IsNegative() {
		return "-$" + amount
	}
	return "$" + amount
}

func signed(n int) string {
	if n >= 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

func signedDecimal(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.StringFixed(1)
	}
	return "+" + d.StringFixed(1)
}
