package dashboard

import (
	"testing"
	"time"

	"github.com/chrisdamba/foodcloud/internal/factories"
	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/chrisdamba/foodcloud/internal/orders"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func line(name, price string, qty int) models.CartLine {
	return models.CartLine{ID: len(name), Name: name, Price: decimal.RequireFromString(price), Quantity: qty}
}

type fixture struct {
	store *orders.Store
	clock time.Time
	dash  *Dashboard
}

func newFixture() *fixture {
	f := &fixture{clock: now}
	f.store = orders.NewStore(orders.WithClock(func() time.Time { return f.clock }))
	f.dash = New(f.store, factories.New(1), func() time.Time { return now })
	return f
}

func (f *fixture) place(at time.Time, lines ...models.CartLine) models.Order {
	f.clock = at
	return f.store.PlaceOrder(lines, models.CustomerInfo{Name: "Ana", Phone: "1", Address: "2"})
}

func TestViewRows(t *testing.T) {
	f := newFixture()
	older := f.place(now.Add(-90*time.Minute), line("Caesar Salad", "12.99", 1))
	newer := f.place(now.Add(-5*time.Minute), line("Beef Tacos", "16.99", 2), line("Chocolate Cake", "8.99", 1))

	v := f.dash.View()
	require.Len(t, v.Orders, 2)

	row := v.Orders[0]
	assert.Equal(t, newer.ID, row.ID)
	assert.Equal(t, "Ana", row.Customer)
	assert.Equal(t, "2x Beef Tacos, 1x Chocolate Cake", row.Items)
	assert.True(t, row.Amount.Equal(decimal.RequireFromString("42.97")))
	assert.Equal(t, "5 min ago", row.Age)
	require.NotNil(t, row.Action)
	assert.Equal(t, "Confirm", row.Action.Label)
	assert.True(t, row.CanCancel)

	assert.Equal(t, older.ID, v.Orders[1].ID)
	assert.Equal(t, "1 hour ago", v.Orders[1].Age)
}

func TestViewTiles(t *testing.T) {
	f := newFixture()
	f.place(now.Add(-time.Hour), line("Pad Thai", "15.99", 1))
	delivered := f.place(now.Add(-2*time.Hour), line("Margherita Pizza", "18.99", 2))
	cancelled := f.place(now.Add(-3*time.Hour), line("Chicken Burger", "14.99", 1))
	f.place(now.Add(-24*time.Hour), line("Caesar Salad", "12.99", 1))
	f.place(now.Add(-time.Minute), line("Bulk", "1209.50", 1))

	require.NoError(t, f.store.UpdateOrderStatus(delivered.ID, models.OrderStatusDelivered))
	require.NoError(t, f.store.UpdateOrderStatus(cancelled.ID, models.OrderStatusCancelled))

	v := f.dash.View()
	require.Len(t, v.Tiles, 4)
	assert.Equal(t, "Today's Revenue", v.Tiles[0].Title)
	assert.Equal(t, "$1,263.47", v.Tiles[0].Value)
	assert.Equal(t, "Active Orders", v.Tiles[1].Title)
	assert.Equal(t, "3", v.Tiles[1].Value)
	assert.Equal(t, 3, v.ActiveOrders)
	assert.Equal(t, "Avg. Prep Time", v.Tiles[2].Title)
	assert.Regexp(t, `^\d+ min$`, v.Tiles[2].Value)
	assert.Equal(t, "Customer Rating", v.Tiles[3].Title)
	assert.Regexp(t, `^[45]\.\d$`, v.Tiles[3].Value)

	again := f.dash.View()
	assert.Equal(t, v.Tiles, again.Tiles)
}

func TestViewEmpty(t *testing.T) {
	v := newFixture().dash.View()
	assert.Empty(t, v.Orders)
	assert.NotNil(t, v.Orders)
	assert.Equal(t, "$0.00", v.Tiles[0].Value)
	assert.Equal(t, 0, v.ActiveOrders)
}

func TestAdvanceWalksForward(t *testing.T) {
	f := newFixture()
	o := f.place(now, line("Pad Thai", "15.99", 1))

	want := []models.OrderStatus{
		models.OrderStatusConfirmed,
		models.OrderStatusPreparing,
		models.OrderStatusOutForDelivery,
		models.OrderStatusDelivered,
	}
	for _, status := range want {
		got, err := f.dash.Advance(o.ID)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}

	_, err := f.dash.Advance(o.ID)
	assert.ErrorIs(t, err, ErrNoAction)

	row := f.dash.View().Orders[0]
	assert.Nil(t, row.Action)
	assert.False(t, row.CanCancel)
}

func TestCancel(t *testing.T) {
	f := newFixture()
	o := f.place(now, line("Pad Thai", "15.99", 1))

	got, err := f.dash.Cancel(o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, got.Status)

	_, err = f.dash.Cancel(o.ID)
	assert.ErrorIs(t, err, ErrNoAction)
	_, err = f.dash.Advance(o.ID)
	assert.ErrorIs(t, err, ErrNoAction)
}

func TestUnknownOrder(t *testing.T) {
	f := newFixture()
	_, err := f.dash.Advance("ORD-NOPE")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = f.dash.Cancel("ORD-NOPE")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestNextAction(t *testing.T) {
	a, ok := NextAction(models.OrderStatusPreparing)
	require.True(t, ok)
	assert.Equal(t, Action{Label: "Mark Ready", Next: models.OrderStatusOutForDelivery}, a)

	_, ok = NextAction(models.OrderStatusCancelled)
	assert.False(t, ok)
}

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"0":          "$0.00",
		"9.5":        "$9.50",
		"1247.5":     "$1,247.50",
		"999999.99":  "$999,999.99",
		"1234567.89": "$1,234,567.89",
		"-12.5":      "-$12.50",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestAge(t *testing.T) {
	assert.Equal(t, "just now", age(30*time.Second))
	assert.Equal(t, "12 min ago", age(12*time.Minute))
	assert.Equal(t, "1 hour ago", age(100*time.Minute))
	assert.Equal(t, "3 hours ago", age(3*time.Hour+time.Minute))
}

// racingBoard moves the order forward right after the dashboard reads it,
// the way a live tracker tick can.
type racingBoard struct {
	*orders.Store
	moveTo models.OrderStatus
	moved  bool
}

func (b *racingBoard) GetOrderByID(id string) (models.Order, bool) {
	o, ok := b.Store.GetOrderByID(id)
	if ok && !b.moved {
		b.moved = true
		_ = b.Store.UpdateOrderStatus(id, b.moveTo)
	}
	return o, ok
}

func TestAdvanceDoesNotOverwriteNewerStatus(t *testing.T) {
	store := orders.NewStore()
	o := store.PlaceOrder([]models.CartLine{line("Pad Thai", "15.99", 1)}, models.CustomerInfo{Name: "Ana", Phone: "1", Address: "2"})
	board := &racingBoard{Store: store, moveTo: models.OrderStatusPreparing}
	dash := New(board, factories.New(1), func() time.Time { return now })

	_, err := dash.Advance(o.ID)
	assert.ErrorIs(t, err, orders.ErrStatusChanged)

	got, _ := store.GetOrderByID(o.ID)
	assert.Equal(t, models.OrderStatusPreparing, got.Status)
}
