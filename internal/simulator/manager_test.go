package simulator

import (
	"context"
	"testing"
	"time"

	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/chrisdamba/foodcloud/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerTrack(t *testing.T) {
	store := orders.NewStore()
	o := placeOrder(t, store)
	m := NewManager(context.Background(), store, Settings{TickInterval: time.Hour, StageMinutes: [3]int{5, 20, 20}})
	defer m.StopAll()

	first, err := m.Track(o.ID)
	require.NoError(t, err)
	second, err := m.Track(o.ID)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, m.Len())
	assert.True(t, first.Snapshot().Running)

	got, ok := m.Get(o.ID)
	assert.True(t, ok)
	assert.Same(t, first, got)
}

func TestManagerTrackUnknownOrder(t *testing.T) {
	m := NewManager(context.Background(), orders.NewStore(), DefaultSettings())
	_, err := m.Track("ORD-NOPE")
	assert.ErrorIs(t, err, ErrUnknownOrder)
	assert.Equal(t, 0, m.Len())
}

func TestManagerUntrack(t *testing.T) {
	store := orders.NewStore()
	o := placeOrder(t, store)
	m := NewManager(context.Background(), store, Settings{TickInterval: time.Hour, StageMinutes: [3]int{5, 20, 20}})

	tr, err := m.Track(o.ID)
	require.NoError(t, err)

	assert.True(t, m.Untrack(o.ID))
	assert.False(t, m.Untrack(o.ID))
	assert.False(t, tr.Snapshot().Running)
	_, ok := m.Get(o.ID)
	assert.False(t, ok)
}

func TestManagerStopAll(t *testing.T) {
	store := orders.NewStore()
	m := NewManager(context.Background(), store, Settings{TickInterval: time.Hour, StageMinutes: [3]int{5, 20, 20}})

	var trackers []*Tracker
	for i := 0; i < 3; i++ {
		tr, err := m.Track(placeOrder(t, store).ID)
		require.NoError(t, err)
		trackers = append(trackers, tr)
	}

	m.StopAll()
	assert.Equal(t, 0, m.Len())
	for _, tr := range trackers {
		assert.False(t, tr.Snapshot().Running)
	}
}

func TestManagerSnapshotUntracked(t *testing.T) {
	store := orders.NewStore()
	o := placeOrder(t, store)
	require.NoError(t, store.UpdateOrderStatus(o.ID, models.OrderStatusPreparing))
	m := NewManager(context.Background(), store, Settings{TickInterval: time.Minute, StageMinutes: [3]int{5, 15, 25}})

	snap, err := m.Snapshot(o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StagePreparing, snap.Stage)
	assert.Equal(t, 15, snap.MinutesRemaining)
	assert.False(t, snap.Running)
	assert.Equal(t, 0, m.Len())

	_, err = m.Snapshot("ORD-NOPE")
	assert.ErrorIs(t, err, ErrUnknownOrder)
}
