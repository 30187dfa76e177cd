// Package simulator drives the live order tracker: a four stage countdown
// that advances orders through the Order Store on a fixed tick.
package simulator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/rs/zerolog/log"
)

var ErrUnknownOrder = errors.New("order not found")

// OrderStatusStore is the part of the Order Store a tracker needs.
type OrderStatusStore interface {
	GetOrderByID(orderID string) (models.Order, bool)
	UpdateOrderStatus(orderID string, status models.OrderStatus) error
}

// Settings controls tick period and the countdown of stages 1 to 3, in
// minutes. Stage 4 always holds at zero.
type Settings struct {
	TickInterval time.Duration
	StageMinutes [3]int
}

func DefaultSettings() Settings {
	return Settings{TickInterval: time.Minute, StageMinutes: [3]int{5, 20, 20}}
}

func SettingsFromConfig(cfg models.TrackerConfig) Settings {
	s := DefaultSettings()
	if cfg.TickInterval > 0 {
		s.TickInterval = cfg.TickInterval
	}
	if len(cfg.StageMinutes) == 3 {
		copy(s.StageMinutes[:], cfg.StageMinutes)
	}
	return s
}

func (s Settings) minutesFor(stage models.TrackingStage) int {
	if stage < models.StageOrderPlaced || stage >= models.StageDelivered {
		return 0
	}
	return s.StageMinutes[stage-1]
}

// Tracker follows one order. The Order Store stays the source of truth: the
// tracker re-reads the order before every tick and only moves it forward
// through UpdateOrderStatus.
type Tracker struct {
	orderID  string
	store    OrderStatusStore
	settings Settings

	mu        sync.Mutex
	stage     models.TrackingStage
	remaining int
	status    models.OrderStatus
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
	onChange  func(models.TrackingSnapshot)
}

func NewTracker(store OrderStatusStore, orderID string, settings Settings) (*Tracker, error) {
	order, ok := store.GetOrderByID(orderID)
	if !ok {
		return nil, ErrUnknownOrder
	}
	t := &Tracker{
		orderID:  orderID,
		store:    store,
		settings: settings,
	}
	t.adopt(order.Status)
	return t, nil
}

// OnChange registers fn to receive a snapshot after every tick and when the
// tracker stops. fn must not call Stop.
func (t *Tracker) OnChange(fn func(models.TrackingSnapshot)) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

func (t *Tracker) OrderID() string { return t.orderID }

func (t *Tracker) Snapshot() models.TrackingSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Start runs the tick loop until ctx is done, Stop is called, or the order
// reaches a point where it can no longer progress. Calling Start on a
// running tracker does nothing.
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})
	t.running = true
	done := t.done
	t.mu.Unlock()

	log.Debug().Str("order_id", t.orderID).Dur("interval", t.settings.TickInterval).Msg("tracker started")
	go t.run(ctx, done)
}

// Stop cancels the tick loop and waits for it to exit.
func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Done is closed when the current run exits. It is nil before Start.
func (t *Tracker) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *Tracker) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(t.settings.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.halt()
			return
		case <-ticker.C:
			if !t.Tick() {
				t.halt()
				return
			}
		}
	}
}

// Tick applies one countdown step and reports whether further ticks can
// change anything.
func (t *Tracker) Tick() bool {
	t.mu.Lock()
	more := t.tickLocked()
	snap, fn := t.snapshotLocked(), t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
	return more
}

func (t *Tracker) tickLocked() bool {
	order, ok := t.store.GetOrderByID(t.orderID)
	if !ok {
		log.Warn().Str("order_id", t.orderID).Msg("tracked order disappeared")
		return false
	}
	if order.Status != t.status {
		t.adopt(order.Status)
	}
	if t.status == models.OrderStatusCancelled {
		return false
	}
	if t.stage.IsFinal() {
		return false
	}

	if t.status == models.OrderStatusPending {
		if !t.write(models.OrderStatusConfirmed) {
			return false
		}
	}

	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining > 0 {
		return true
	}

	next := t.stage + 1
	if !t.write(next.Status()) {
		return false
	}
	t.stage = next
	t.remaining = t.settings.minutesFor(next)
	log.Info().
		Str("order_id", t.orderID).
		Str("stage", next.Label()).
		Int("minutes_remaining", t.remaining).
		Msg("tracker advanced")
	return !next.IsFinal()
}

func (t *Tracker) write(status models.OrderStatus) bool {
	if err := t.store.UpdateOrderStatus(t.orderID, status); err != nil {
		log.Warn().Err(err).Str("order_id", t.orderID).Str("status", string(status)).Msg("tracker update rejected")
		if order, ok := t.store.GetOrderByID(t.orderID); ok {
			t.adopt(order.Status)
		}
		return false
	}
	t.status = status
	return true
}

// adopt moves the display to whatever stage the store status implies and
// restarts that stage's countdown.
func (t *Tracker) adopt(status models.OrderStatus) {
	stage := models.StageForStatus(status)
	if stage != t.stage {
		t.stage = stage
		t.remaining = t.settings.minutesFor(stage)
	}
	t.status = status
}

func (t *Tracker) halt() {
	t.mu.Lock()
	t.running = false
	snap, fn := t.snapshotLocked(), t.onChange
	t.mu.Unlock()

	log.Debug().Str("order_id", t.orderID).Str("stage", snap.StageLabel).Msg("tracker stopped")
	if fn != nil {
		fn(snap)
	}
}

func (t *Tracker) snapshotLocked() models.TrackingSnapshot {
	label := t.stage.Label()
	if t.status == models.OrderStatusCancelled {
		label = t.status.Label()
	}
	return models.TrackingSnapshot{
		OrderID:          t.orderID,
		Stage:            t.stage,
		StageLabel:       label,
		MinutesRemaining: t.remaining,
		Status:           t.status,
		Running:          t.running,
	}
}
