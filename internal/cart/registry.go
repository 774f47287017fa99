package cart

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/artyaffairs/storefront/internal/models"
)

type registryEntry struct {
	once  sync.Once
	store *Store
}

// Registry owns one Store per signed-in user.
type Registry struct {
	deps Deps

	mu      sync.Mutex
	entries map[string]*registryEntry
}

// NewRegistry returns a registry whose stores share deps.
func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, entries: make(map[string]*registryEntry)}
}

// For returns the store of user. On first use the persisted snapshot is
// restored and the user is set, which refetches the cart.
func (r *Registry) For(ctx context.Context, user models.User) *Store {
	r.mu.Lock()
	e, ok := r.entries[user.ID]
	if !ok {
		e = &registryEntry{store: NewStore(r.deps)}
		r.entries[user.ID] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		e.store.Restore(ctx, user.ID)
		if err := e.store.SetUser(ctx, &user); err != nil {
			log.Printf("cart: initial sync for %s failed: %v", user.ID, err)
		}
	})
	e.store.touch()
	return e.store
}

// SignOut clears the user's store and forgets it.
func (r *Registry) SignOut(ctx context.Context, userID string) {
	r.mu.Lock()
	e, ok := r.entries[userID]
	delete(r.entries, userID)
	r.mu.Unlock()

	if ok {
		if err := e.store.SetUser(ctx, nil); err != nil {
			log.Printf("cart: sign-out for %s: %v", userID, err)
		}
	}
}

// EvictIdle forgets stores untouched for longer than ttl. Their persisted
// snapshots stay in the cache. It returns how many were evicted.
func (r *Registry) EvictIdle(now time.Time, ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, e := range r.entries {
		if e.store.IdleSince(now) > ttl {
			delete(r.entries, id)
			evicted++
		}
	}
	return evicted
}

// Len reports how many stores are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
