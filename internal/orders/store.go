// Package orders owns every placed order for the lifetime of the process.
package orders

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/rs/zerolog/log"
)

var (
	// ErrTerminalStatus is returned when a delivered or cancelled order
	// would be moved to another status.
	ErrTerminalStatus = errors.New("order is in a terminal status")
	ErrInvalidStatus  = errors.New("invalid order status")
	// ErrStatusChanged is returned by UpdateOrderStatusFrom when the order
	// no longer has the expected status.
	ErrStatusChanged = errors.New("order status changed")
)

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) { s.newID = gen }
}

func WithRestaurant(name string) Option {
	return func(s *Store) { s.restaurant = name }
}

func WithDeliverySLA(sla time.Duration) Option {
	return func(s *Store) { s.sla = sla }
}

// Store keeps orders most recent first. Only PlaceOrder inserts and only
// UpdateOrderStatus mutates, and only the status field.
type Store struct {
	mu          sync.RWMutex
	orders      []models.Order
	byID        map[string]int // id -> position counted from the oldest order
	subscribers map[int]func(models.OrderEvent)
	nextSubID   int

	now        func() time.Time
	newID      IDGenerator
	restaurant string
	sla        time.Duration
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		orders:      make([]models.Order, 0),
		byID:        make(map[string]int),
		subscribers: make(map[int]func(models.OrderEvent)),
		now:         time.Now,
		newID:       NewOrderID,
		restaurant:  models.DefaultRestaurantName,
		sla:         models.DefaultDeliverySLA,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder freezes lines into a new pending order. Input is not
// validated here; checkout does that before calling.
func (s *Store) PlaceOrder(lines []models.CartLine, info models.CustomerInfo) models.Order {
	items := models.CopyLines(lines)
	orderTime := s.now()

	s.mu.Lock()
	id := s.newID(orderTime)
	for attempts := 1; s.exists(id); attempts++ {
		log.Warn().Str("order_id", id).Int("attempt", attempts).Msg("order id collision, regenerating")
		id = s.newID(orderTime)
	}
	order := models.Order{
		ID:                id,
		Items:             items,
		Total:             models.SumLines(items),
		Status:            models.OrderStatusPending,
		OrderTime:         orderTime,
		EstimatedDelivery: orderTime.Add(s.sla),
		CustomerInfo:      info,
		Restaurant:        s.restaurant,
	}
	s.byID[id] = len(s.orders)
	s.orders = append(s.orders, order)
	ev := s.eventLocked(models.OrderEvent{
		Type:  models.EventOrderPlaced,
		Order: order.Clone(),
		At:    orderTime,
	})
	s.mu.Unlock()

	log.Info().
		Str("order_id", id).
		Int("items", order.ItemCount()).
		Str("total", order.Total.String()).
		Msg("order placed")
	s.notify(ev)
	return order.Clone()
}

// UpdateOrderStatus replaces the status of orderID. Unknown ids are a
// no-op. Moving a delivered or cancelled order elsewhere returns
// ErrTerminalStatus.
func (s *Store) UpdateOrderStatus(orderID string, status models.OrderStatus) error {
	return s.update(orderID, "", status)
}

// UpdateOrderStatusFrom sets status only if the order is still in from,
// and returns ErrStatusChanged otherwise.
func (s *Store) UpdateOrderStatusFrom(orderID string, from, to models.OrderStatus) error {
	if !from.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, from)
	}
	return s.update(orderID, from, to)
}

// update applies status; an empty from skips the expected-status check.
func (s *Store) update(orderID string, from, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	pos, ok := s.byID[orderID]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	current := s.orders[pos].Status
	if from != "" && current != from {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s is %s, not %s", ErrStatusChanged, orderID, current, from)
	}
	if current == status {
		s.mu.Unlock()
		return nil
	}
	if current.IsTerminal() {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s is %s", ErrTerminalStatus, orderID, current)
	}
	s.orders[pos].Status = status
	ev := s.eventLocked(models.OrderEvent{
		Type:           models.EventOrderStatusChanged,
		Order:          s.orders[pos].Clone(),
		PreviousStatus: current,
		At:             s.now(),
	})
	s.mu.Unlock()

	log.Info().
		Str("order_id", orderID).
		Str("from", string(current)).
		Str("to", string(status)).
		Msg("order status updated")
	s.notify(ev)
	return nil
}

func (s *Store) GetOrderByID(orderID string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.byID[orderID]
	if !ok {
		return models.Order{}, false
	}
	return s.orders[pos].Clone(), true
}

// UserOrders returns every order, most recently placed first.
func (s *Store) UserOrders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, 0, len(s.orders))
	for i := len(s.orders) - 1; i >= 0; i-- {
		out = append(out, s.orders[i].Clone())
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

func (s *Store) Subscribe(fn func(models.OrderEvent)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

type pendingEvent struct {
	fns   []func(models.OrderEvent)
	event models.OrderEvent
}

func (s *Store) eventLocked(ev models.OrderEvent) pendingEvent {
	fns := make([]func(models.OrderEvent), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	return pendingEvent{fns: fns, event: ev}
}

// notify runs outside the lock so subscribers may call back into the store.
func (s *Store) notify(p pendingEvent) {
	for _, fn := range p.fns {
		fn(p.event)
	}
}
