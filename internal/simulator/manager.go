package simulator

import (
	"context"
	"sync"

	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/rs/zerolog/log"
)

// Manager owns at most one tracker per order. Trackers started through it
// live until the base context passed to NewManager is done, Untrack is
// called, or StopAll runs.
type Manager struct {
	ctx      context.Context
	store    OrderStatusStore
	settings Settings

	mu       sync.Mutex
	trackers map[string]*Tracker
}

func NewManager(ctx context.Context, store OrderStatusStore, settings Settings) *Manager {
	return &Manager{
		ctx:      ctx,
		store:    store,
		settings: settings,
		trackers: make(map[string]*Tracker),
	}
}

// Track returns the running tracker for orderID, starting one if needed.
// A tracker that stopped earlier is started again.
func (m *Manager) Track(orderID string) (*Tracker, error) {
	m.mu.Lock()
	t, ok := m.trackers[orderID]
	if !ok {
		var err error
		t, err = NewTracker(m.store, orderID, m.settings)
		if err != nil {
			m.mu.Unlock()
			return nil, err
		}
		m.trackers[orderID] = t
	}
	m.mu.Unlock()

	t.Start(m.ctx)
	return t, nil
}

func (m *Manager) Get(orderID string) (*Tracker, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trackers[orderID]
	return t, ok
}

// Untrack stops and forgets the tracker for orderID.
func (m *Manager) Untrack(orderID string) bool {
	m.mu.Lock()
	t, ok := m.trackers[orderID]
	delete(m.trackers, orderID)
	m.mu.Unlock()

	if !ok {
		return false
	}
	t.Stop()
	return true
}

// Snapshot reports the tracker state for orderID, or where an untracked
// order would start.
func (m *Manager) Snapshot(orderID string) (models.TrackingSnapshot, error) {
	if t, ok := m.Get(orderID); ok {
		return t.Snapshot(), nil
	}
	t, err := NewTracker(m.store, orderID, m.settings)
	if err != nil {
		return models.TrackingSnapshot{}, err
	}
	return t.Snapshot(), nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.trackers)
}

// StopAll stops every tracker and waits for their loops to exit.
func (m *Manager) StopAll() {
	m.mu.Lock()
	all := make([]*Tracker, 0, len(m.trackers))
	for _, t := range m.trackers {
		all = append(all, t)
	}
	m.trackers = make(map[string]*Tracker)
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, t := range all {
		wg.Add(1)
		go func(t *Tracker) {
			defer wg.Done()
			t.Stop()
		}(t)
	}
	wg.Wait()
	log.Info().Int("trackers", len(all)).Msg("all trackers stopped")
}
