// Package session maps browser sessions to their own Cart Store.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/chrisdamba/foodcloud/internal/cart"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type entry struct {
	cart     *cart.Store
	lastSeen time.Time
}

type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// Cart returns the cart for id. Unknown or malformed ids get a fresh
// session; the id actually used is returned so callers can set it.
func (r *Registry) Cart(id string) (*cart.Store, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := uuid.Parse(id); err == nil {
		if e, ok := r.sessions[id]; ok {
			e.lastSeen = r.now()
			return e.cart, id
		}
	}
	id = uuid.NewString()
	e := &entry{cart: cart.NewStore(), lastSeen: r.now()}
	r.sessions[id] = e
	log.Debug().Str("session_id", id).Msg("session created")
	return e.cart, id
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Expire drops sessions idle for longer than ttl and returns how many.
func (r *Registry) Expire(ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-ttl)
	n := 0
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Janitor expires idle sessions every ttl/4 until ctx is done.
func (r *Registry) Janitor(ctx context.Context, ttl time.Duration) {
	ticker := time.NewTicker(max(ttl/4, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Expire(ttl); n > 0 {
				log.Debug().Int("sessions", n).Msg("expired idle sessions")
			}
		}
	}
}
