// Package wishlist keeps a per-user, cached projection of the wishlist table.
// It follows the cart store: the database is authoritative and every mutation
// ends with a refetch.
package wishlist

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/artyaffairs/storefront/internal/cache"
	"github.com/artyaffairs/storefront/internal/cart"
	"github.com/artyaffairs/storefront/internal/media"
	"github.com/artyaffairs/storefront/internal/models"
)

// StorageKey names the persisted wishlist snapshot in the cache.
const StorageKey = "wishlist-storage"

// MsgAlreadyWished is returned when the artwork is already on the wishlist.
const MsgAlreadyWished = "Item already in wishlist"

// Remote is the slice of the database the wishlist needs.
type Remote interface {
	EnsureProfile(ctx context.Context, u models.User) error
	ListWishlist(ctx context.Context, userID string) ([]models.WishlistRow, error)
	InsertWishlistLine(ctx context.Context, line models.WishlistLine) error
	DeleteWishlistLine(ctx context.Context, userID, wishlistID string) error
	DeleteWishlist(ctx context.Context, userID string) error
}

// Store is the wishlist of one user.
type Store struct {
	remote Remote
	media  *media.Normalizer
	cache  cache.Cache

	now   func() time.Time
	newID func() string

	mu       sync.RWMutex
	items    []models.WishlistItem
	loading  bool
	user     *models.User
	lastUsed time.Time
}

type persisted struct {
	Items []models.WishlistItem `json:"items"`
}

// NewStore returns an empty wishlist with no user. c may be nil.
func NewStore(remote Remote, normalizer *media.Normalizer, c cache.Cache) *Store {
	if normalizer == nil {
		normalizer = media.NewNormalizer("")
	}
	return &Store{
		remote:   remote,
		media:    normalizer,
		cache:    c,
		now:      time.Now,
		newID:    uuid.NewString,
		lastUsed: time.Now(),
	}
}

// Restore loads the persisted items for userID verbatim.
func (s *Store) Restore(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	var p persisted
	found, err := s.cache.Get(ctx, cache.Key(StorageKey, userID), &p)
	if err != nil {
		log.Printf("wishlist: failed to restore snapshot for %s: %v", userID, err)
		return
	}
	if found {
		s.mu.Lock()
		s.items = p.Items
		s.mu.Unlock()
	}
}

// Items returns a copy of the current items.
func (s *Store) Items() []models.WishlistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.WishlistItem, len(s.items))
	copy(out, s.items)
	return out
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// TotalItems is the number of wished artworks.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// IsInWishlist reports whether artworkID is on the local wishlist.
func (s *Store) IsInWishlist(artworkID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ArtworkID == artworkID {
			return true
		}
	}
	return false
}

// SetUser switches users; nil signs out and drops the items without a remote call.
func (s *Store) SetUser(ctx context.Context, user *models.User) error {
	if user == nil {
		s.mu.Lock()
		prev := s.user
		s.user, s.items, s.loading = nil, nil, false
		s.mu.Unlock()
		if prev != nil && s.cache != nil {
			if err := s.cache.Delete(ctx, cache.Key(StorageKey, prev.ID)); err != nil {
				log.Printf("wishlist: failed to clear snapshot for %s: %v", prev.ID, err)
			}
		}
		return nil
	}

	u := *user
	s.mu.Lock()
	s.user = &u
	s.lastUsed = s.now()
	s.mu.Unlock()
	return s.FetchItems(ctx)
}

// FetchItems reloads the wishlist, dropping artworks that are gone or no
// longer available.
func (s *Store) FetchItems(ctx context.Context) error {
	user := s.currentUser()
	if user == nil {
		return nil
	}

	s.setLoading(true)
	rows, err := s.remote.ListWishlist(ctx, user.ID)
	if err != nil {
		log.Printf("wishlist: error fetching items for %s: %v", user.ID, err)
		s.setLoading(false)
		return &cart.Notice{Kind: cart.KindRemote, Message: "Failed to load your wishlist", Err: err}
	}

	items := make([]models.WishlistItem, 0, len(rows))
	for _, row := range rows {
		a := row.Artwork
		if a == nil || models.NormalizeStatus(a.Status) != models.NormalizeStatus(models.StatusAvailable) {
			continue
		}
		items = append(items, models.WishlistItem{
			WishlistID:        row.ID,
			ArtworkID:         row.ArtworkID,
			Title:             a.Title,
			ArtistName:        a.ArtistName,
			Category:          a.Category,
			Price:             a.Price,
			ImageURL:          s.media.PrimaryOrPlaceholder(a),
			QuantityAvailable: a.QuantityAvailable,
			Status:            a.Status,
		})
	}

	s.mu.Lock()
	if s.user == nil || s.user.ID != user.ID {
		s.loading = false
		s.mu.Unlock()
		return nil
	}
	s.items = items
	s.loading = false
	s.lastUsed = s.now()
	s.mu.Unlock()

	s.persist(ctx, user.ID, items)
	return nil
}

// AddItem wishes for artwork. A second add of the same artwork is rejected.
func (s *Store) AddItem(ctx context.Context, artwork *models.Artwork) error {
	user := s.currentUser()
	if user == nil {
		return &cart.Notice{Kind: cart.KindInput, Message: cart.MsgSignIn}
	}
	if artwork == nil || artwork.ID == "" {
		return &cart.Notice{Kind: cart.KindInput, Message: cart.MsgInvalidArtwork}
	}
	if s.IsInWishlist(artwork.ID) {
		return &cart.Notice{Kind: cart.KindInput, Message: MsgAlreadyWished}
	}

	line := models.WishlistLine{
		ID:        s.newID(),
		UserID:    user.ID,
		ArtworkID: artwork.ID,
		CreatedAt: s.now().UTC(),
	}
	err := s.remote.InsertWishlistLine(ctx, line)
	if errors.Is(err, models.ErrMissingReference) {
		if perr := s.remote.EnsureProfile(ctx, *user); perr == nil {
			err = s.remote.InsertWishlistLine(ctx, line)
		}
	}
	if errors.Is(err, models.ErrDuplicate) {
		s.resync(ctx)
		return &cart.Notice{Kind: cart.KindInput, Message: MsgAlreadyWished, Err: err}
	}
	if err != nil {
		log.Printf("wishlist: error adding artwork %s: %v", artwork.ID, err)
		s.resync(ctx)
		return &cart.Notice{Kind: cart.KindRemote, Message: "Failed to add item to wishlist", Err: err}
	}
	return s.FetchItems(ctx)
}

// RemoveItem deletes one of the user's wishlist rows.
func (s *Store) RemoveItem(ctx context.Context, wishlistID string) error {
	user := s.currentUser()
	if user == nil {
		return &cart.Notice{Kind: cart.KindInput, Message: cart.MsgSignIn}
	}
	if err := s.remote.DeleteWishlistLine(ctx, user.ID, wishlistID); err != nil {
		log.Printf("wishlist: error removing %s: %v", wishlistID, err)
		s.resync(ctx)
		return &cart.Notice{Kind: cart.KindRemote, Message: "Failed to remove item from wishlist", Err: err}
	}
	return s.FetchItems(ctx)
}

// ClearWishlist deletes every row of the user's wishlist.
func (s *Store) ClearWishlist(ctx context.Context) error {
	user := s.currentUser()
	if user == nil {
		return &cart.Notice{Kind: cart.KindInput, Message: cart.MsgSignIn}
	}
	if err := s.remote.DeleteWishlist(ctx, user.ID); err != nil {
		log.Printf("wishlist: error clearing for %s: %v", user.ID, err)
		s.resync(ctx)
		return &cart.Notice{Kind: cart.KindRemote, Message: "Failed to clear wishlist", Err: err}
	}
	s.mu.Lock()
	s.items = []models.WishlistItem{}
	s.mu.Unlock()
	s.persist(ctx, user.ID, nil)
	return nil
}

func (s *Store) resync(ctx context.Context) {
	if err := s.FetchItems(ctx); err != nil {
		log.Printf("wishlist: resync failed: %v", err)
	}
}

func (s *Store) persist(ctx context.Context, userID string, items []models.WishlistItem) {
	if s.cache == nil {
		return
	}
	if items == nil {
		items = []models.WishlistItem{}
	}
	if err := s.cache.Set(ctx, cache.Key(StorageKey, userID), persisted{Items: items}); err != nil {
		log.Printf("wishlist: failed to persist snapshot for %s: %v", userID, err)
	}
}

func (s *Store) currentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) idleSince(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.Sub(s.lastUsed)
}

func (s *Store) touch() {
	s.mu.Lock()
	s.lastUsed = s.now()
	s.mu.Unlock()
}
