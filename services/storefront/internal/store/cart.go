package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/services/storefront/internal/domain"
	"github.com/utafrali/storefront/services/storefront/internal/notify"
)

// Cart is the persisted line-item collection of one session. At most one
// row exists per (ProductID, VariantID) and every row has Quantity >= 1.
type Cart struct {
	mu      sync.Mutex
	items   domain.LineItems
	open    bool
	persist persister[domain.LineItem]
	notify  Notifier
	logger  *slog.Logger
}

// NewCart creates an empty cart. Call Load to restore persisted state.
func NewCart(opts Options) *Cart {
	opts = opts.withDefaults()
	return &Cart{
		persist: persister[domain.LineItem]{storage: opts.Storage, key: CartKey, logger: opts.Logger},
		notify:  opts.Notifier,
		logger:  opts.Logger,
	}
}

// Load replaces the in-memory collection with the persisted one. Rows that
// break the collection invariants are dropped.
func (c *Cart) Load(ctx context.Context) {
	loaded := c.persist.load(ctx)

	items := make(domain.LineItems, 0, len(loaded))
	for _, it := range loaded {
		if it.Quantity < 1 || items.IndexOf(it.Key()) >= 0 {
			continue
		}
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		items = append(items, it)
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
}

// AddItem adds one unit of candidate. An existing row for the same key has
// its quantity incremented and keeps its other fields. The cart is
// persisted and a confirmation anchored at origin is raised.
func (c *Cart) AddItem(ctx context.Context, candidate domain.LineItem, origin notify.AnchorSource) domain.LineItem {
	c.mu.Lock()
	var row domain.LineItem
	if i := c.items.IndexOf(candidate.Key()); i >= 0 {
		c.items[i].Quantity++
		row = c.items[i]
	} else {
		row = candidate
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		row.Quantity = 1
		c.items = append(c.items, row)
	}
	c.persist.save(ctx, c.items)
	c.mu.Unlock()

	cartMutations.WithLabelValues("add").Inc()
	c.logger.InfoContext(ctx, "cart item added",
		slog.String("product_id", row.ProductID),
		slog.String("variant_id", row.VariantID),
		slog.Int("quantity", row.Quantity),
	)
	c.notify.AddedToCart(origin)
	return row
}

// Restore puts a previously removed row back. When a row with the same key
// exists its quantity grows by row.Quantity, capped at maxQuantity;
// otherwise row is re-inserted unless the cart already holds maxRows rows.
// Non-positive limits disable the check. No confirmation is raised. It
// reports false when nothing was restored.
func (c *Cart) Restore(ctx context.Context, row domain.LineItem, maxQuantity, maxRows int) (domain.LineItem, bool) {
	if row.Quantity < 1 {
		return domain.LineItem{}, false
	}
	capped := func(q int) int {
		if maxQuantity > 0 && q > maxQuantity {
			return maxQuantity
		}
		return q
	}

	c.mu.Lock()
	var out domain.LineItem
	if i := c.items.IndexOf(row.Key()); i >= 0 {
		c.items[i].Quantity = capped(c.items[i].Quantity + row.Quantity)
		out = c.items[i]
	} else {
		if maxRows > 0 && len(c.items) >= maxRows {
			c.mu.Unlock()
			return domain.LineItem{}, false
		}
		out = row
		if out.ID == "" {
			out.ID = uuid.NewString()
		}
		out.Quantity = capped(out.Quantity)
		c.items = append(c.items, out)
	}
	c.persist.save(ctx, c.items)
	c.mu.Unlock()

	cartMutations.WithLabelValues("restore").Inc()
	c.logger.InfoContext(ctx, "cart item restored",
		slog.String("product_id", out.ProductID),
		slog.String("variant_id", out.VariantID),
		slog.Int("quantity", out.Quantity),
	)
	return out, true
}

// RemoveItem deletes the row for (productID, variantID). Absent keys are
// ignored.
func (c *Cart) RemoveItem(ctx context.Context, productID, variantID string) {
	key := domain.ItemKey{ProductID: productID, VariantID: variantID}

	c.mu.Lock()
	c.removeLocked(key)
	c.persist.save(ctx, c.items)
	c.mu.Unlock()

	cartMutations.WithLabelValues("remove").Inc()
	c.logger.InfoContext(ctx, "cart item removed",
		slog.String("product_id", productID),
		slog.String("variant_id", variantID),
	)
}

// UpdateQuantity sets the quantity of an existing row. A quantity of zero or
// less removes the row; absent keys are ignored.
func (c *Cart) UpdateQuantity(ctx context.Context, productID string, quantity int, variantID string) {
	key := domain.ItemKey{ProductID: productID, VariantID: variantID}

	c.mu.Lock()
	if quantity <= 0 {
		c.removeLocked(key)
	} else if i := c.items.IndexOf(key); i >= 0 {
		c.items[i].Quantity = quantity
	}
	c.persist.save(ctx, c.items)
	c.mu.Unlock()

	cartMutations.WithLabelValues("update").Inc()
	c.logger.InfoContext(ctx, "cart quantity updated",
		slog.String("product_id", productID),
		slog.String("variant_id", variantID),
		slog.Int("quantity", quantity),
	)
}

// ClearCart removes every row.
func (c *Cart) ClearCart(ctx context.Context) {
	c.mu.Lock()
	c.items = nil
	c.persist.save(ctx, c.items)
	c.mu.Unlock()

	cartMutations.WithLabelValues("clear").Inc()
	c.logger.InfoContext(ctx, "cart cleared")
}

func (c *Cart) removeLocked(key domain.ItemKey) {
	if i := c.items.IndexOf(key); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

// Items returns a copy of the rows in insertion order.
func (c *Cart) Items() domain.LineItems {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(domain.LineItems, len(c.items))
	copy(out, c.items)
	return out
}

// TotalItems returns the number of units in the cart.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.TotalItems()
}

// TotalPrice returns the sum of price times quantity over all rows.
func (c *Cart) TotalPrice() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.TotalPrice()
}

// ToggleOpen flips the drawer flag and returns the new value. The flag is
// not persisted.
func (c *Cart) ToggleOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = !c.open
	return c.open
}

// SetOpen sets the drawer flag.
func (c *Cart) SetOpen(open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = open
}

// IsOpen reports the drawer flag.
func (c *Cart) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Reset empties the cart and closes the drawer without persisting.
func (c *Cart) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.open = false
}
