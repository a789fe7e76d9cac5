package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/services/storefront/internal/domain"
	"github.com/utafrali/storefront/services/storefront/internal/notify"
)

// Wishlist is the persisted set of saved products of one session, keyed by
// ProductID.
type Wishlist struct {
	mu      sync.Mutex
	items   []domain.WishlistEntry
	persist persister[domain.WishlistEntry]
	notify  Notifier
	logger  *slog.Logger
}

// NewWishlist creates an empty wishlist. Call Load to restore persisted
// state.
func NewWishlist(opts Options) *Wishlist {
	opts = opts.withDefaults()
	return &Wishlist{
		persist: persister[domain.WishlistEntry]{storage: opts.Storage, key: WishlistKey, logger: opts.Logger},
		notify:  opts.Notifier,
		logger:  opts.Logger,
	}
}

// Load replaces the in-memory set with the persisted one, keeping the
// first entry of any duplicated product.
func (w *Wishlist) Load(ctx context.Context) {
	loaded := w.persist.load(ctx)

	seen := make(map[string]bool, len(loaded))
	items := make([]domain.WishlistEntry, 0, len(loaded))
	for _, e := range loaded {
		if e.ProductID == "" || seen[e.ProductID] {
			continue
		}
		seen[e.ProductID] = true
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		items = append(items, e)
	}

	w.mu.Lock()
	w.items = items
	w.mu.Unlock()
}

// AddItem saves entry unless its product is already present, in which case
// nothing happens and no notification is raised. It reports whether the
// entry was added.
func (w *Wishlist) AddItem(ctx context.Context, entry domain.WishlistEntry, origin notify.AnchorSource) bool {
	w.mu.Lock()
	if w.indexLocked(entry.ProductID) >= 0 {
		w.mu.Unlock()
		return false
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	w.items = append(w.items, entry)
	w.persist.save(ctx, w.items)
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "wishlist item added", slog.String("product_id", entry.ProductID))
	w.notify.AddedToWishlist(origin)
	return true
}

// RemoveItem deletes the entry for productID. Absent products are ignored.
func (w *Wishlist) RemoveItem(ctx context.Context, productID string) {
	w.mu.Lock()
	w.removeLocked(productID)
	w.persist.save(ctx, w.items)
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "wishlist item removed", slog.String("product_id", productID))
}

// IsInWishlist reports whether productID is saved.
func (w *Wishlist) IsInWishlist(productID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.indexLocked(productID) >= 0
}

// Get returns the entry for productID.
func (w *Wishlist) Get(productID string) (domain.WishlistEntry, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i := w.indexLocked(productID); i >= 0 {
		return w.items[i], true
	}
	return domain.WishlistEntry{}, false
}

// ClearWishlist removes every entry.
func (w *Wishlist) ClearWishlist(ctx context.Context) {
	w.mu.Lock()
	w.items = nil
	w.persist.save(ctx, w.items)
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "wishlist cleared")
}

// MoveToCart adds the saved product to cart and then removes it from the
// wishlist. It reports false when the product is not saved.
func (w *Wishlist) MoveToCart(ctx context.Context, productID string, cart *Cart, origin notify.AnchorSource) bool {
	entry, ok := w.Get(productID)
	if !ok {
		return false
	}
	cart.AddItem(ctx, entry.ToLineItem(), origin)
	w.RemoveItem(ctx, productID)
	return true
}

// Items returns a copy of the entries in insertion order.
func (w *Wishlist) Items() []domain.WishlistEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]domain.WishlistEntry, len(w.items))
	copy(out, w.items)
	return out
}

// Len returns the number of saved products.
func (w *Wishlist) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// Reset empties the wishlist without persisting.
func (w *Wishlist) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = nil
}

func (w *Wishlist) indexLocked(productID string) int {
	for i := range w.items {
		if w.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (w *Wishlist) removeLocked(productID string) {
	if i := w.indexLocked(productID); i >= 0 {
		w.items = append(w.items[:i], w.items[i+1:]...)
	}
}
