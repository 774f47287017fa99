package cart

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/artyaffairs/storefront/internal/models"
	"github.com/artyaffairs/storefront/internal/payment"
)

// fakeRemote is an in-memory Remote enforcing the same uniqueness and
// foreign-key rules as the real schema.
type fakeRemote struct {
	mu       sync.Mutex
	users    map[string]models.User
	artworks map[string]*models.Artwork
	lines    map[string]models.CartLine
	orders   []models.Order

	// failures keyed by method name; consumed once
	fail map[string]error
	// failOrderAfter makes InsertOrder fail once this many orders exist
	failOrderAfter int

	calls map[string]int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		users:          map[string]models.User{},
		artworks:       map[string]*models.Artwork{},
		lines:          map[string]models.CartLine{},
		fail:           map[string]error{},
		failOrderAfter: -1,
		calls:          map[string]int{},
	}
}

func (f *fakeRemote) hit(name string) error {
	f.calls[name]++
	if err, ok := f.fail[name]; ok {
		delete(f.fail, name)
		return err
	}
	return nil
}

func (f *fakeRemote) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeRemote) addArtwork(id string, category models.Category, qty int, price int64) *models.Artwork {
	f.mu.Lock()
	defer f.mu.Unlock()
	img := id + ".jpg"
	a := &models.Artwork{
		ID:                id,
		Title:             "Art " + id,
		Category:          category,
		Price:             decimal.NewFromInt(price),
		QuantityAvailable: qty,
		Status:            models.StatusAvailable,
		ImageURL:          &img,
	}
	f.artworks[id] = a
	copied := *a
	return &copied
}

func (f *fakeRemote) artwork(id string) models.Artwork {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.artworks[id]
}

func (f *fakeRemote) setArtwork(id string, fn func(a *models.Artwork)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.artworks[id])
}

func (f *fakeRemote) remoteLines(userID string) []models.CartLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CartLine
	for _, l := range f.lines {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out
}

func (f *fakeRemote) EnsureProfile(_ context.Context, u models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("EnsureProfile"); err != nil {
		return err
	}
	if _, ok := f.users[u.ID]; !ok {
		f.users[u.ID] = u
	}
	return nil
}

func (f *fakeRemote) ListCart(_ context.Context, userID string) ([]models.CartRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("ListCart"); err != nil {
		return nil, err
	}
	var rows []models.CartRow
	for _, l := range f.lines {
		if l.UserID != userID {
			continue
		}
		row := models.CartRow{CartLine: l}
		if a, ok := f.artworks[l.ArtworkID]; ok {
			copied := *a
			row.Artwork = &copied
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })
	return rows, nil
}

func (f *fakeRemote) insertLocked(line models.CartLine) error {
	if _, ok := f.users[line.UserID]; !ok {
		return fmt.Errorf("%w: users", models.ErrMissingReference)
	}
	if _, ok := f.artworks[line.ArtworkID]; !ok {
		return fmt.Errorf("%w: artworks", models.ErrMissingReference)
	}
	for _, l := range f.lines {
		if l.UserID == line.UserID && l.ArtworkID == line.ArtworkID {
			return fmt.Errorf("%w: cart", models.ErrDuplicate)
		}
	}
	f.lines[line.ID] = line
	return nil
}

func (f *fakeRemote) InsertCartLine(_ context.Context, line models.CartLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("InsertCartLine"); err != nil {
		return err
	}
	return f.insertLocked(line)
}

func (f *fakeRemote) FindCartLine(_ context.Context, userID, artworkID string) (models.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("FindCartLine"); err != nil {
		return models.CartLine{}, err
	}
	for _, l := range f.lines {
		if l.UserID == userID && l.ArtworkID == artworkID {
			return l, nil
		}
	}
	return models.CartLine{}, models.ErrNotFound
}

func (f *fakeRemote) UpdateCartQuantity(_ context.Context, userID, cartID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("UpdateCartQuantity"); err != nil {
		return err
	}
	l, ok := f.lines[cartID]
	if !ok || l.UserID != userID {
		return models.ErrNotFound
	}
	l.Quantity = quantity
	f.lines[cartID] = l
	return nil
}

func (f *fakeRemote) DeleteCartLine(_ context.Context, userID, cartID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("DeleteCartLine"); err != nil {
		return err
	}
	if l, ok := f.lines[cartID]; ok && l.UserID == userID {
		delete(f.lines, cartID)
	}
	return nil
}

func (f *fakeRemote) DeleteCart(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("DeleteCart"); err != nil {
		return err
	}
	for id, l := range f.lines {
		if l.UserID == userID {
			delete(f.lines, id)
		}
	}
	return nil
}

func (f *fakeRemote) InsertOrder(_ context.Context, o models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("InsertOrder"); err != nil {
		return err
	}
	if f.failOrderAfter >= 0 && len(f.orders) >= f.failOrderAfter {
		return fmt.Errorf("orders table unavailable")
	}
	f.orders = append(f.orders, o)
	return nil
}

func (f *fakeRemote) recordedOrders() []models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Order(nil), f.orders...)
}

func (f *fakeRemote) GetStock(_ context.Context, artworkID string) (models.Stock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("GetStock"); err != nil {
		return models.Stock{}, err
	}
	a, ok := f.artworks[artworkID]
	if !ok {
		return models.Stock{}, models.ErrNotFound
	}
	return models.Stock{QuantityAvailable: a.QuantityAvailable, Category: a.Category}, nil
}

func (f *fakeRemote) UpdateStock(_ context.Context, artworkID string, quantity int, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("UpdateStock"); err != nil {
		return err
	}
	a, ok := f.artworks[artworkID]
	if !ok {
		return models.ErrNotFound
	}
	a.QuantityAvailable = quantity
	a.Status = status
	return nil
}

// upsertRemote adds the atomic insert-or-increment path.
type upsertRemote struct {
	*fakeRemote
}

func (u upsertRemote) UpsertCartLine(_ context.Context, line models.CartLine, limit int) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.hit("UpsertCartLine"); err != nil {
		return err
	}
	for id, l := range u.lines {
		if l.UserID == line.UserID && l.ArtworkID == line.ArtworkID {
			l.Quantity = min(l.Quantity+line.Quantity, limit)
			u.lines[id] = l
			return nil
		}
	}
	return u.insertLocked(line)
}

// fakeProcessor returns a canned payment outcome and counts calls.
type fakeProcessor struct {
	mu     sync.Mutex
	result payment.Result
	err    error
	calls  int
	last   payment.Request
}

func (p *fakeProcessor) ProcessPayment(_ context.Context, req payment.Request, _ models.User) (payment.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.last = req
	return p.result, p.err
}

func paid() *fakeProcessor {
	return &fakeProcessor{result: payment.Result{Success: true, PaymentID: "pay_1", OrderID: "order_1"}}
}

// fakeReceipts collects receipts sent by checkout.
type fakeReceipts struct {
	sent chan models.OrderReceipt
	err  error
}

func newFakeReceipts() *fakeReceipts {
	return &fakeReceipts{sent: make(chan models.OrderReceipt, 4)}
}

func (r *fakeReceipts) SendOrderReceipt(_ context.Context, rec models.OrderReceipt) error {
	r.sent <- rec
	return r.err
}

type sessionFunc func(ctx context.Context) (*models.User, error)

func (f sessionFunc) CurrentUser(ctx context.Context) (*models.User, error) { return f(ctx) }

// sequentialIDs yields line-1, line-2, ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("line-%d", n)
	}
}

// steppingClock advances one millisecond per call so rows sort by creation.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Millisecond)
		return t
	}
}
