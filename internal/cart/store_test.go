package cart

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pizza  = models.MenuItem{ID: 1, Name: "Margherita Pizza", Price: decimal.RequireFromString("18.99"), Category: "Pizza"}
	burger = models.MenuItem{ID: 2, Name: "Chicken Burger", Price: decimal.RequireFromString("14.99"), Category: "Burgers"}
)

func TestAddItem(t *testing.T) {
	s := NewStore()
	s.AddItem(pizza)
	s.AddItem(pizza)
	s.AddItem(burger)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, items[1].ID)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, 3, s.TotalItems())
	assert.True(t, decimal.RequireFromString("52.97").Equal(s.TotalPrice()))
}

func TestTotalPriceIsExact(t *testing.T) {
	s := NewStore()
	s.AddItem(pizza)
	s.AddItem(burger)
	assert.Equal(t, "33.98", s.TotalPrice().String())
}

func TestEmptyCart(t *testing.T) {
	s := NewStore()
	assert.True(t, s.IsEmpty())
	assert.True(t, s.TotalPrice().IsZero())
	assert.Equal(t, 0, s.TotalItems())
	assert.Empty(t, s.Items())
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name     string
		id       int
		quantity int
		want     []models.CartLine
	}{
		{"sets exact quantity", 1, 5, []models.CartLine{{ID: 1, Quantity: 5}, {ID: 2, Quantity: 1}}},
		{"zero removes", 1, 0, []models.CartLine{{ID: 2, Quantity: 1}}},
		{"negative removes", 2, -3, []models.CartLine{{ID: 1, Quantity: 1}}},
		{"unknown id is ignored", 99, 4, []models.CartLine{{ID: 1, Quantity: 1}, {ID: 2, Quantity: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			s.AddItem(pizza)
			s.AddItem(burger)
			s.UpdateQuantity(tt.id, tt.quantity)

			got := s.Items()
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].ID, got[i].ID)
				assert.Equal(t, tt.want[i].Quantity, got[i].Quantity)
			}
		})
	}
}

func TestUpdateQuantityZeroLeavesEmptyCart(t *testing.T) {
	s := NewStore()
	s.AddItem(pizza)
	s.UpdateQuantity(1, 0)

	assert.True(t, s.IsEmpty())
	assert.True(t, s.TotalPrice().IsZero())
}

func TestRemoveItem(t *testing.T) {
	s := NewStore()
	s.AddItem(pizza)
	s.AddItem(burger)

	s.RemoveItem(1)
	s.RemoveItem(42)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].ID)
	assert.Equal(t, 0, s.Quantity(1))
	assert.Equal(t, 1, s.Quantity(2))
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.AddItem(pizza)
	s.AddItem(burger)
	s.Clear()

	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.TotalItems())
}

func TestItemsReturnsCopy(t *testing.T) {
	s := NewStore()
	s.AddItem(pizza)

	items := s.Items()
	items[0].Quantity = 10

	assert.Equal(t, 1, s.Quantity(1))
}

func TestSubscribe(t *testing.T) {
	s := NewStore()
	var events []models.CartEvent
	cancel := s.Subscribe(func(ev models.CartEvent) { events = append(events, ev) })

	s.AddItem(pizza)
	s.AddItem(pizza)
	s.RemoveItem(99)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventCartUpdated, events[1].Type)
	assert.Equal(t, 2, events[1].TotalItems)

	cancel()
	cancel()
	s.Clear()
	assert.Len(t, events, 2)
}

func TestSubscriberCanReadStore(t *testing.T) {
	s := NewStore()
	var seen int
	s.Subscribe(func(models.CartEvent) { seen = s.TotalItems() })

	s.AddItem(burger)
	assert.Equal(t, 1, seen)
}

func TestConcurrentAdds(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddItem(pizza)
		}()
	}
	wg.Wait()

	assert.Len(t, s.Items(), 1)
	assert.Equal(t, 50, s.Quantity(1))
}

func TestTakeItems(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.TakeItems())

	var events []models.CartEvent
	s.Subscribe(func(ev models.CartEvent) { events = append(events, ev) })
	s.AddItem(pizza)
	s.AddItem(burger)

	taken := s.TakeItems()
	require.Len(t, taken, 2)
	assert.Equal(t, pizza.ID, taken[0].ID)
	assert.True(t, s.IsEmpty())
	require.Len(t, events, 3)
	assert.Empty(t, events[2].Lines)

	s.AddItem(pizza)
	assert.Equal(t, 1, taken[0].Quantity)
}

func TestRandomOperationSequences(t *testing.T) {
	menu := []models.MenuItem{
		pizza,
		burger,
		{ID: 3, Name: "Caesar Salad", Price: decimal.RequireFromString("12.99")},
		{ID: 5, Name: "Chocolate Cake", Price: decimal.RequireFromString("8.99")},
		{ID: 8, Name: "Tap Water", Price: decimal.Zero},
	}

	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		s := NewStore()
		for step := 0; step < 200; step++ {
			item := menu[rng.Intn(len(menu))]
			switch rng.Intn(3) {
			case 0:
				s.AddItem(item)
			case 1:
				s.RemoveItem(item.ID)
			case 2:
				s.UpdateQuantity(item.ID, rng.Intn(6)-1)
			}

			lines := s.Items()
			seen := make(map[int]bool, len(lines))
			want := decimal.Zero
			count := 0
			for _, l := range lines {
				require.False(t, seen[l.ID], "seed %d step %d: duplicate line %d", seed, step, l.ID)
				seen[l.ID] = true
				require.GreaterOrEqual(t, l.Quantity, 1, "seed %d step %d", seed, step)
				want = want.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
				count += l.Quantity
			}
			require.True(t, want.Equal(s.TotalPrice()), "seed %d step %d: total %s, want %s", seed, step, s.TotalPrice(), want)
			require.Equal(t, count, s.TotalItems())
		}
	}
}
