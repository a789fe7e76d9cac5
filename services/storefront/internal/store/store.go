// Package store holds the durable keyed collections of a shopper session:
// the cart and the wishlist. Every mutation persists the whole collection
// and successful additions raise a confirmation notification.
package store

import (
	"log/slog"

	"github.com/utafrali/storefront/services/storefront/internal/notify"
	"github.com/utafrali/storefront/services/storefront/internal/storage"
	"github.com/utafrali/storefront/services/storefront/internal/storage/memory"
)

// Storage keys of the persisted collections.
const (
	CartKey     = "cart-storage"
	WishlistKey = "wishlist-storage"
)

// Notifier is the subset of notify.Manager the stores call.
type Notifier interface {
	AddedToCart(origin notify.AnchorSource) string
	AddedToWishlist(origin notify.AnchorSource) string
}

// Options configure a store. A nil Storage keeps state in memory only and a
// nil Notifier drops confirmations.
type Options struct {
	Storage  storage.Storage
	Notifier Notifier
	Logger   *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Storage == nil {
		o.Storage = memory.New()
	}
	if o.Notifier == nil {
		o.Notifier = discardNotifier{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

type discardNotifier struct{}

func (discardNotifier) AddedToCart(notify.AnchorSource) string     { return "" }
func (discardNotifier) AddedToWishlist(notify.AnchorSource) string { return "" }
