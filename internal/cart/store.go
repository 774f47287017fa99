// Package cart keeps a per-user cache of cart line items in step with the
// remote cart table and runs checkout against a payment processor.
//
// The remote store is authoritative. Every mutation ends by refetching the
// cart, so local state is only ever a projection of what the database last
// reported.
package cart

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/artyaffairs/storefront/internal/cache"
	"github.com/artyaffairs/storefront/internal/media"
	"github.com/artyaffairs/storefront/internal/models"
)

// StorageKey names the persisted cart snapshot in the cache.
const StorageKey = "cart-storage"

// DefaultSessionTimeout bounds the direct session lookup used when the store
// has no user reference.
const DefaultSessionTimeout = 5 * time.Second

// Deps are the collaborators a Store is built from. Only Remote and Media are required.
type Deps struct {
	Remote         Remote
	Media          *media.Normalizer
	Cache          cache.Cache
	Session        SessionSource
	Receipts       ReceiptSender
	SessionTimeout time.Duration
}

// Snapshot is the observable state of a store.
type Snapshot struct {
	Items   []models.LineItem `json:"items"`
	Loading bool              `json:"loading"`
	User    *models.User      `json:"user"`
}

// persisted is the part of the state written to the cache.
type persisted struct {
	Items []models.LineItem `json:"items"`
}

// Store is the cart of one signed-in user.
//
// Operations are not serialized against each other: two concurrent mutations
// both reach the remote store and the last refetch to finish wins locally.
type Store struct {
	remote         Remote
	media          *media.Normalizer
	cache          cache.Cache
	session        SessionSource
	receipts       ReceiptSender
	sessionTimeout time.Duration

	now   func() time.Time
	newID func() string

	mu       sync.RWMutex
	items    []models.LineItem
	loading  bool
	user     *models.User
	lastUsed time.Time
}

// NewStore builds an empty store with no user.
func NewStore(d Deps) *Store {
	if d.Media == nil {
		d.Media = media.NewNormalizer("")
	}
	if d.SessionTimeout <= 0 {
		d.SessionTimeout = DefaultSessionTimeout
	}
	return &Store{
		remote:         d.Remote,
		media:          d.Media,
		cache:          d.Cache,
		session:        d.Session,
		receipts:       d.Receipts,
		sessionTimeout: d.SessionTimeout,
		now:            time.Now,
		newID:          uuid.NewString,
		lastUsed:       time.Now(),
	}
}

// Restore loads the persisted items for userID verbatim. A missing or
// unreadable snapshot leaves the store empty.
func (s *Store) Restore(ctx context.Context, userID string) {
	if s.cache == nil || userID == "" {
		return
	}
	var p persisted
	found, err := s.cache.Get(ctx, cache.Key(StorageKey, userID), &p)
	if err != nil {
		log.Printf("cart: failed to restore snapshot for %s: %v", userID, err)
		return
	}
	if !found {
		return
	}
	s.mu.Lock()
	s.items = p.Items
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Items: s.copyItems(), Loading: s.loading}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Items returns a copy of the current line items.
func (s *Store) Items() []models.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyItems()
}

func (s *Store) copyItems() []models.LineItem {
	out := make([]models.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// TotalPrice sums price times quantity over the local items.
func (s *Store) TotalPrice() decimal.Decimal {
	return totalPrice(s.Items())
}

// TotalItems sums the quantities of the local items.
func (s *Store) TotalItems() int {
	total := 0
	for _, item := range s.Items() {
		total += item.Quantity
	}
	return total
}

func totalPrice(items []models.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// SetUser switches the store to user. A nil user signs out: items are
// dropped immediately with no remote call. Otherwise the user's profile row is
// ensured and the cart is refetched.
func (s *Store) SetUser(ctx context.Context, user *models.User) error {
	if user == nil {
		s.mu.Lock()
		prev := s.user
		s.user = nil
		s.items = nil
		s.loading = false
		s.mu.Unlock()

		if prev != nil && s.cache != nil {
			if err := s.cache.Delete(ctx, cache.Key(StorageKey, prev.ID)); err != nil {
				log.Printf("cart: failed to clear snapshot for %s: %v", prev.ID, err)
			}
		}
		return nil
	}

	u := *user
	s.mu.Lock()
	s.user = &u
	s.lastUsed = s.now()
	s.mu.Unlock()

	if err := s.remote.EnsureProfile(ctx, u); err != nil {
		log.Printf("cart: failed to ensure profile for %s: %v", u.ID, err)
	}
	return s.FetchCartItems(ctx)
}

// FetchCartItems replaces the local items with the remote cart. Rows whose
// artwork is gone, not available, or out of stock are dropped, and quantities
// are clamped to current stock.
func (s *Store) FetchCartItems(ctx context.Context) error {
	user := s.currentUser()
	if user == nil {
		return nil
	}

	s.setLoading(true)
	rows, err := s.remote.ListCart(ctx, user.ID)
	if err != nil {
		log.Printf("cart: error fetching cart items for %s: %v", user.ID, err)
		s.setLoading(false)
		return remoteNotice("Failed to load your cart", err)
	}
	items := s.lineItems(rows)

	s.mu.Lock()
	if s.user == nil || s.user.ID != user.ID {
		// signed out while the fetch was in flight
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

func (s *Store) lineItems(rows []models.CartRow) []models.LineItem {
	items := make([]models.LineItem, 0, len(rows))
	for _, row := range rows {
		a := row.Artwork
		if a == nil {
			continue
		}
		quantity := min(row.Quantity, a.QuantityAvailable)
		if !models.IsPurchasable(a.Status, a.QuantityAvailable) || quantity <= 0 {
			continue
		}
		items = append(items, models.LineItem{
			CartID:            row.ID,
			ArtworkID:         row.ArtworkID,
			Title:             a.Title,
			ArtistName:        a.ArtistName,
			Category:          a.Category,
			Price:             a.Price,
			ImageURL:          s.media.PrimaryOrPlaceholder(a),
			Quantity:          quantity,
			QuantityAvailable: a.QuantityAvailable,
			Status:            a.Status,
			AddedAt:           row.CreatedAt,
		})
	}
	return items
}

// AddItem puts quantity units of artwork in the cart, or raises the quantity
// of its existing line. Quantities below one are treated as one.
func (s *Store) AddItem(ctx context.Context, artwork *models.Artwork, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	user := s.currentUser()
	if user == nil {
		return inputNotice(MsgSignIn)
	}
	if artwork == nil || artwork.ID == "" {
		return inputNotice(MsgInvalidArtwork)
	}
	if !artwork.IsPurchasable() {
		return inputNotice(MsgUnavailable)
	}

	if existing, ok := s.findByArtwork(artwork.ID); ok {
		newQuantity := min(existing.Quantity+quantity, artwork.QuantityAvailable)
		if newQuantity <= existing.Quantity {
			return inputNotice(MsgNotEnoughQuantity)
		}
		if err := s.remote.UpdateCartQuantity(ctx, user.ID, existing.CartID, newQuantity); err != nil {
			log.Printf("cart: error updating line %s: %v", existing.CartID, err)
			s.resync(ctx)
			return remoteNotice("Failed to update cart", err)
		}
		return s.FetchCartItems(ctx)
	}

	if err := s.insertLine(ctx, *user, artwork, quantity); err != nil {
		s.resync(ctx)
		if n, ok := AsNotice(err); ok {
			return n
		}
		log.Printf("cart: error adding artwork %s: %v", artwork.ID, err)
		return remoteNotice("Failed to add item to cart", err)
	}
	return s.FetchCartItems(ctx)
}

// insertLine creates the cart row, recovering from a missing profile row and
// from a concurrent insert of the same (user, artwork) pair.
func (s *Store) insertLine(ctx context.Context, user models.User, artwork *models.Artwork, quantity int) error {
	line := models.CartLine{
		ID:        s.newID(),
		UserID:    user.ID,
		ArtworkID: artwork.ID,
		Quantity:  min(quantity, artwork.QuantityAvailable),
		CreatedAt: s.now().UTC(),
	}

	insert := func() error { return s.remote.InsertCartLine(ctx, line) }
	if up, ok := s.remote.(Upserter); ok {
		insert = func() error { return up.UpsertCartLine(ctx, line, artwork.QuantityAvailable) }
	}

	err := insert()
	if errors.Is(err, models.ErrMissingReference) {
		log.Printf("cart: profile for %s missing, creating it and retrying", user.ID)
		if perr := s.remote.EnsureProfile(ctx, user); perr != nil {
			return perr
		}
		err = insert()
	}
	if errors.Is(err, models.ErrDuplicate) {
		return s.mergeDuplicate(ctx, user.ID, artwork, line.Quantity)
	}
	return err
}

// mergeDuplicate folds quantity into a row another request created first.
func (s *Store) mergeDuplicate(ctx context.Context, userID string, artwork *models.Artwork, quantity int) error {
	found, err := s.remote.FindCartLine(ctx, userID, artwork.ID)
	if err != nil {
		return err
	}
	newQuantity := min(found.Quantity+quantity, artwork.QuantityAvailable)
	if newQuantity <= found.Quantity {
		return inputNotice(MsgNotEnoughQuantity)
	}
	return s.remote.UpdateCartQuantity(ctx, userID, found.ID, newQuantity)
}

// RemoveItem deletes one of the user's cart lines.
func (s *Store) RemoveItem(ctx context.Context, cartID string) error {
	user := s.currentUser()
	if user == nil {
		return inputNotice(MsgSignIn)
	}
	if err := s.remote.DeleteCartLine(ctx, user.ID, cartID); err != nil {
		log.Printf("cart: error removing line %s: %v", cartID, err)
		s.resync(ctx)
		return remoteNotice("Failed to remove item from cart", err)
	}
	return s.FetchCartItems(ctx)
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, cartID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, cartID)
	}
	user := s.currentUser()
	if user == nil {
		return inputNotice(MsgSignIn)
	}
	item, ok := s.findByCartID(cartID)
	if !ok {
		return inputNotice(MsgItemNotInCart)
	}
	if quantity > item.QuantityAvailable {
		return inputNotice(MsgNotEnoughQuantity)
	}
	if err := s.remote.UpdateCartQuantity(ctx, user.ID, cartID, quantity); err != nil {
		log.Printf("cart: error updating quantity of %s: %v", cartID, err)
		s.resync(ctx)
		return remoteNotice("Failed to update quantity", err)
	}
	return s.FetchCartItems(ctx)
}

// ClearCart deletes every line of the user's cart.
func (s *Store) ClearCart(ctx context.Context) error {
	user := s.currentUser()
	if user == nil {
		return inputNotice(MsgSignIn)
	}
	if err := s.remote.DeleteCart(ctx, user.ID); err != nil {
		log.Printf("cart: error clearing cart for %s: %v", user.ID, err)
		s.resync(ctx)
		return remoteNotice("Failed to clear cart", err)
	}
	s.emptyItems(ctx, user.ID)
	return nil
}

func (s *Store) emptyItems(ctx context.Context, userID string) {
	s.mu.Lock()
	s.items = []models.LineItem{}
	s.mu.Unlock()
	s.persist(ctx, userID, nil)
}

// resync refetches after a failed mutation; its own failure is only logged.
func (s *Store) resync(ctx context.Context) {
	if err := s.FetchCartItems(ctx); err != nil {
		log.Printf("cart: resync failed: %v", err)
	}
}

func (s *Store) persist(ctx context.Context, userID string, items []models.LineItem) {
	if s.cache == nil {
		return
	}
	if items == nil {
		items = []models.LineItem{}
	}
	if err := s.cache.Set(ctx, cache.Key(StorageKey, userID), persisted{Items: items}); err != nil {
		log.Printf("cart: failed to persist snapshot for %s: %v", userID, err)
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

// resolveUser falls back to the session when the store holds no user.
func (s *Store) resolveUser(ctx context.Context) *models.User {
	if u := s.currentUser(); u != nil {
		return u
	}
	if s.session == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.sessionTimeout)
	defer cancel()
	u, err := s.session.CurrentUser(ctx)
	if err != nil {
		log.Printf("cart: session lookup failed, treating as signed out: %v", err)
		return nil
	}
	if u == nil {
		return nil
	}

	copied := *u
	s.mu.Lock()
	if s.user == nil {
		s.user = &copied
	}
	s.mu.Unlock()
	return &copied
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) findByArtwork(artworkID string) (models.LineItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ArtworkID == artworkID {
			return item, true
		}
	}
	return models.LineItem{}, false
}

func (s *Store) findByCartID(cartID string) (models.LineItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.CartID == cartID {
			return item, true
		}
	}
	return models.LineItem{}, false
}

// IdleSince reports how long the store has gone without a sync.
func (s *Store) IdleSince(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.Sub(s.lastUsed)
}

func (s *Store) touch() {
	s.mu.Lock()
	s.lastUsed = s.now()
	s.mu.Unlock()
}
