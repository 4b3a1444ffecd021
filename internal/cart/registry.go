package cart

import (
	"sync"
	"time"
)

type entry struct {
	cart    *Cart
	expires time.Time
}

// Registry holds at most one open cart per session. A cart is forgotten once
// its session's token has expired.
type Registry struct {
	mu      sync.Mutex
	catalog Catalog
	carts   map[string]entry
	now     func() time.Time
}

func NewRegistry(catalog Catalog) *Registry {
	return &Registry{catalog: catalog, carts: make(map[string]entry), now: time.Now}
}

func (r *Registry) Catalog() Catalog {
	return r.catalog
}

// Len reports how many carts are held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}

// Open returns the session's open cart, starting an empty one if needed.
// expires is when the session ends.
func (r *Registry) Open(sessionID string, expires time.Time) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, e := range r.carts {
		if now.After(e.expires) {
			delete(r.carts, id)
		}
	}

	if e, ok := r.carts[sessionID]; ok {
		if s := e.cart.State(); s != Completed && s != Discarded {
			return e.cart
		}
	}
	c := New(r.catalog)
	r.carts[sessionID] = entry{cart: c, expires: expires}
	return c
}

// Get returns the session's cart if one is open.
func (r *Registry) Get(sessionID string) (*Cart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.carts[sessionID]
	if !ok {
		return nil, false
	}
	if s := e.cart.State(); s == Completed || s == Discarded || r.now().After(e.expires) {
		delete(r.carts, sessionID)
		return nil, false
	}
	return e.cart, true
}

// Close forgets the session's cart, discarding it if still open.
func (r *Registry) Close(sessionID string) {
	r.mu.Lock()
	e, ok := r.carts[sessionID]
	delete(r.carts, sessionID)
	r.mu.Unlock()

	if ok {
		e.cart.Discard()
	}
}
