package wishlist

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/artyaffairs/storefront/internal/cache"
	"github.com/artyaffairs/storefront/internal/media"
	"github.com/artyaffairs/storefront/internal/models"
)

type entry struct {
	once  sync.Once
	store *Store
}

// Registry owns one wishlist Store per signed-in user.
type Registry struct {
	remote Remote
	media  *media.Normalizer
	cache  cache.Cache

	mu      sync.Mutex
	entries map[string]*entry
}

// NewRegistry returns an empty registry.
func NewRegistry(remote Remote, normalizer *media.Normalizer, c cache.Cache) *Registry {
	return &Registry{remote: remote, media: normalizer, cache: c, entries: make(map[string]*entry)}
}

// For returns the user's wishlist, restoring and syncing it on first use.
func (r *Registry) For(ctx context.Context, user models.User) *Store {
	r.mu.Lock()
	e, ok := r.entries[user.ID]
	if !ok {
		e = &entry{store: NewStore(r.remote, r.media, r.cache)}
		r.entries[user.ID] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		e.store.Restore(ctx, user.ID)
		if err := e.store.SetUser(ctx, &user); err != nil {
			log.Printf("wishlist: initial sync for %s failed: %v", user.ID, err)
		}
	})
	e.store.touch()
	return e.store
}

// SignOut clears and forgets the user's wishlist store.
func (r *Registry) SignOut(ctx context.Context, userID string) {
	r.mu.Lock()
	e, ok := r.entries[userID]
	delete(r.entries, userID)
	r.mu.Unlock()
	if ok {
		_ = e.store.SetUser(ctx, nil)
	}
}

// EvictIdle forgets stores untouched for longer than ttl.
func (r *Registry) EvictIdle(now time.Time, ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, e := range r.entries {
		if e.store.idleSince(now) > ttl {
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
