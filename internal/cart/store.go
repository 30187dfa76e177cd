// Package cart holds the in-progress selection of a single session.
package cart

import (
	"sync"

	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/shopspring/decimal"
)

// Store is the cart of one session. Every method is a single atomic
// transition; none of them can fail.
type Store struct {
	mu          sync.RWMutex
	lines       []models.CartLine
	subscribers map[int]func(models.CartEvent)
	nextSubID   int
}

func NewStore() *Store {
	return &Store{
		lines:       make([]models.CartLine, 0),
		subscribers: make(map[int]func(models.CartEvent)),
	}
}

// AddItem increments the line for item.ID or inserts a new line with
// quantity 1.
func (s *Store) AddItem(item models.MenuItem) {
	s.mu.Lock()
	if i := s.indexOf(item.ID); i >= 0 {
		s.lines[i].Quantity++
	} else {
		s.lines = append(s.lines, item.CartLine())
	}
	ev := s.eventLocked()
	s.mu.Unlock()
	s.notify(ev)
}

func (s *Store) RemoveItem(id int) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	ev := s.eventLocked()
	s.mu.Unlock()
	s.notify(ev)
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero
// or less removes the line. Unknown ids are ignored.
func (s *Store) UpdateQuantity(id, quantity int) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	if quantity <= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	} else {
		s.lines[i].Quantity = quantity
	}
	ev := s.eventLocked()
	s.mu.Unlock()
	s.notify(ev)
}

// TakeItems empties the cart and returns what it held, in one step.
func (s *Store) TakeItems() []models.CartLine {
	s.mu.Lock()
	if len(s.lines) == 0 {
		s.mu.Unlock()
		return nil
	}
	taken := s.lines
	s.lines = make([]models.CartLine, 0)
	ev := s.eventLocked()
	s.mu.Unlock()
	s.notify(ev)
	return taken
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = make([]models.CartLine, 0)
	ev := s.eventLocked()
	s.mu.Unlock()
	s.notify(ev)
}

// TotalPrice is the exact sum of price*quantity. Rounding is left to
// whoever formats it.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.SumLines(s.lines)
}

func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalItemsLocked()
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []models.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CopyLines(s.lines)
}

// Quantity returns the quantity held for id, 0 when absent.
func (s *Store) Quantity(id int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.lines[i].Quantity
	}
	return 0
}

func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines) == 0
}

// Subscribe registers fn for change notifications. The returned func
// removes the subscription.
func (s *Store) Subscribe(fn func(models.CartEvent)) (cancel func()) {
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

func (s *Store) indexOf(id int) int {
	for i := range s.lines {
		if s.lines[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) totalItemsLocked() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// eventLocked snapshots the state together with the current subscribers.
func (s *Store) eventLocked() pendingEvent {
	if len(s.subscribers) == 0 {
		return pendingEvent{}
	}
	fns := make([]func(models.CartEvent), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	return pendingEvent{
		fns: fns,
		event: models.CartEvent{
			Type:       models.EventCartUpdated,
			Lines:      models.CopyLines(s.lines),
			TotalItems: s.totalItemsLocked(),
		},
	}
}

type pendingEvent struct {
	fns   []func(models.CartEvent)
	event models.CartEvent
}

func (s *Store) notify(p pendingEvent) {
	for _, fn := range p.fns {
		fn(p.event)
	}
}
