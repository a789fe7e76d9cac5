package service

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/tracing"
	"github.com/utafrali/storefront/services/storefront/internal/catalog"
	"github.com/utafrali/storefront/services/storefront/internal/domain"
	"github.com/utafrali/storefront/services/storefront/internal/event"
	"github.com/utafrali/storefront/services/storefront/internal/notify"
	"github.com/utafrali/storefront/services/storefront/internal/query"
	"github.com/utafrali/storefront/services/storefront/internal/session"
)

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerItem is the maximum quantity allowed for a single cart row.
	MaxQuantityPerItem = 100
	// MaxItemsPerCart is the maximum number of distinct rows allowed in a cart.
	MaxItemsPerCart = 50
)

// AddToCartInput holds the parameters for adding a catalog product to the cart.
type AddToCartInput struct {
	ProductID string
	VariantID string
	Variant   *domain.Variant
	Origin    notify.AnchorSource
}

// CartView is the cart as presented to clients. Totals are derived on read.
type CartView struct {
	Items      domain.LineItems `json:"items"`
	TotalItems int              `json:"totalItems"`
	TotalPrice string           `json:"totalPrice"`
	IsOpen     bool             `json:"isOpen"`
}

// NotifyInput holds the parameters for a client-raised notification.
type NotifyInput struct {
	Kind       domain.NotificationKind
	Title      string
	Message    string
	DurationMs *int
}

// Storefront is the facade the HTTP layer calls. It resolves the session,
// runs the store operation and publishes a domain event on change.
type Storefront struct {
	catalog  *catalog.Catalog
	sessions *session.Registry
	producer *event.Producer
	logger   *slog.Logger
	tracer   trace.Tracer
}

// New creates a Storefront.
func New(cat *catalog.Catalog, sessions *session.Registry, producer *event.Producer, logger *slog.Logger) *Storefront {
	return &Storefront{
		catalog:  cat,
		sessions: sessions,
		producer: producer,
		logger:   logger,
		tracer:   tracing.Tracer("storefront/service"),
	}
}

func (s *Storefront) start(ctx context.Context, op, sessionID string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "Storefront."+op)
	if sessionID != "" {
		span.SetAttributes(attribute.String("session.id", sessionID))
	}
	return ctx, span
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// ListProducts filters and sorts the catalog.
func (s *Storefront) ListProducts(ctx context.Context, p query.Params) []domain.Product {
	_, span := s.start(ctx, "ListProducts", "")
	defer span.End()
	span.SetAttributes(
		attribute.String("query.category", p.Category),
		attribute.String("query.sort", string(p.Sort)),
	)

	out := query.Query(s.catalog.Products(), p)
	span.SetAttributes(attribute.Int("query.results", len(out)))
	return out
}

// GetProduct returns one catalog product.
func (s *Storefront) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	_, span := s.start(ctx, "GetProduct", "")
	defer span.End()

	p, ok := s.catalog.Lookup(id)
	if !ok {
		return domain.Product{}, fail(span, apperrors.NotFound("product", id))
	}
	return p, nil
}

// ---------------------------------------------------------------------------
// Cart
// ---------------------------------------------------------------------------

// GetCart returns the session's cart with derived totals.
func (s *Storefront) GetCart(ctx context.Context, sessionID string) CartView {
	ctx, span := s.start(ctx, "GetCart", sessionID)
	defer span.End()
	return s.cartView(s.sessions.Get(ctx, sessionID))
}

// AddToCart adds one unit of a catalog product to the session's cart.
func (s *Storefront) AddToCart(ctx context.Context, sessionID string, in AddToCartInput) (domain.LineItem, error) {
	ctx, span := s.start(ctx, "AddToCart", sessionID)
	defer span.End()

	p, ok := s.catalog.Lookup(in.ProductID)
	if !ok {
		return domain.LineItem{}, fail(span, apperrors.NotFound("product", in.ProductID))
	}
	if !p.InStock {
		return domain.LineItem{}, fail(span, apperrors.InvalidInput("product "+p.ID+" is out of stock"))
	}

	sess := s.sessions.Get(ctx, sessionID)
	items := sess.Cart.Items()
	candidate := p.ToLineItem()
	candidate.VariantID = in.VariantID
	candidate.Variant = in.Variant
	if i := items.IndexOf(candidate.Key()); i >= 0 {
		if items[i].Quantity >= MaxQuantityPerItem {
			return domain.LineItem{}, fail(span, apperrors.InvalidInput("quantity limit reached for this item"))
		}
	} else if len(items) >= MaxItemsPerCart {
		return domain.LineItem{}, fail(span, apperrors.InvalidInput("cart is full"))
	}

	row := sess.Cart.AddItem(ctx, candidate, in.Origin)
	s.publishCart(ctx, sess, "add")
	return row, nil
}

// UpdateQuantity sets the quantity of a cart row; zero or less removes it.
func (s *Storefront) UpdateQuantity(ctx context.Context, sessionID, productID, variantID string, quantity int) (CartView, error) {
	ctx, span := s.start(ctx, "UpdateQuantity", sessionID)
	defer span.End()

	if quantity > MaxQuantityPerItem {
		return CartView{}, fail(span, apperrors.InvalidInput("quantity exceeds the per-item limit"))
	}
	sess := s.sessions.Get(ctx, sessionID)
	sess.Cart.UpdateQuantity(ctx, productID, quantity, variantID)
	s.publishCart(ctx, sess, "update")
	return s.cartView(sess), nil
}

// RemoveFromCart deletes a cart row. When the row existed an info
// notification offering to undo the removal is raised.
func (s *Storefront) RemoveFromCart(ctx context.Context, sessionID, productID, variantID string) CartView {
	ctx, span := s.start(ctx, "RemoveFromCart", sessionID)
	defer span.End()

	sess := s.sessions.Get(ctx, sessionID)
	items := sess.Cart.Items()
	i := items.IndexOf(domain.ItemKey{ProductID: productID, VariantID: variantID})

	sess.Cart.RemoveItem(ctx, productID, variantID)
	s.publishCart(ctx, sess, "remove")

	if i >= 0 {
		removed := items[i]
		undoCtx := context.WithoutCancel(ctx)
		sess.Notifications.Info("Removed from cart", removed.Name, &domain.Action{
			Label: "Undo",
			Invoke: func() {
				if _, ok := sess.Cart.Restore(undoCtx, removed, MaxQuantityPerItem, MaxItemsPerCart); !ok {
					sess.Notifications.Warning("Could not restore item", "Your cart is full.", nil)
					return
				}
				s.publishCart(undoCtx, sess, "restore")
			},
		})
	}
	return s.cartView(sess)
}

// ClearCart removes every cart row.
func (s *Storefront) ClearCart(ctx context.Context, sessionID string) {
	ctx, span := s.start(ctx, "ClearCart", sessionID)
	defer span.End()

	sess := s.sessions.Get(ctx, sessionID)
	sess.Cart.ClearCart(ctx)
	s.publishCart(ctx, sess, "clear")
}

// ToggleCart flips the cart drawer and returns the new state.
func (s *Storefront) ToggleCart(ctx context.Context, sessionID string) bool {
	ctx, span := s.start(ctx, "ToggleCart", sessionID)
	defer span.End()
	return s.sessions.Get(ctx, sessionID).Cart.ToggleOpen()
}

func (s *Storefront) cartView(sess *session.Session) CartView {
	items := sess.Cart.Items()
	return CartView{
		Items:      items,
		TotalItems: items.TotalItems(),
		TotalPrice: items.TotalPrice().StringFixed(2),
		IsOpen:     sess.Cart.IsOpen(),
	}
}

func (s *Storefront) publishCart(ctx context.Context, sess *session.Session, op string) {
	if err := s.producer.PublishCartUpdated(ctx, sess.ID, op, sess.Cart.Items()); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart updated event",
			slog.String("session", sess.ID),
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
	}
}

// ---------------------------------------------------------------------------
// Wishlist
// ---------------------------------------------------------------------------

// GetWishlist returns the session's saved products.
func (s *Storefront) GetWishlist(ctx context.Context, sessionID string) []domain.WishlistEntry {
	ctx, span := s.start(ctx, "GetWishlist", sessionID)
	defer span.End()
	return s.sessions.Get(ctx, sessionID).Wishlist.Items()
}

// AddToWishlist saves a catalog product. It reports false when the product
// was already saved.
func (s *Storefront) AddToWishlist(ctx context.Context, sessionID, productID string, origin notify.AnchorSource) (bool, error) {
	ctx, span := s.start(ctx, "AddToWishlist", sessionID)
	defer span.End()

	p, ok := s.catalog.Lookup(productID)
	if !ok {
		return false, fail(span, apperrors.NotFound("product", productID))
	}
	sess := s.sessions.Get(ctx, sessionID)
	added := sess.Wishlist.AddItem(ctx, p.ToWishlistEntry(), origin)
	if added {
		s.publishWishlist(ctx, sess, "add")
	}
	return added, nil
}

// IsInWishlist reports whether the product is saved.
func (s *Storefront) IsInWishlist(ctx context.Context, sessionID, productID string) bool {
	ctx, span := s.start(ctx, "IsInWishlist", sessionID)
	defer span.End()
	return s.sessions.Get(ctx, sessionID).Wishlist.IsInWishlist(productID)
}

// RemoveFromWishlist deletes a saved product.
func (s *Storefront) RemoveFromWishlist(ctx context.Context, sessionID, productID string) {
	ctx, span := s.start(ctx, "RemoveFromWishlist", sessionID)
	defer span.End()

	sess := s.sessions.Get(ctx, sessionID)
	sess.Wishlist.RemoveItem(ctx, productID)
	s.publishWishlist(ctx, sess, "remove")
}

// ClearWishlist removes every saved product.
func (s *Storefront) ClearWishlist(ctx context.Context, sessionID string) {
	ctx, span := s.start(ctx, "ClearWishlist", sessionID)
	defer span.End()

	sess := s.sessions.Get(ctx, sessionID)
	sess.Wishlist.ClearWishlist(ctx)
	s.publishWishlist(ctx, sess, "clear")
}

// MoveToCart transfers a saved product into the cart.
func (s *Storefront) MoveToCart(ctx context.Context, sessionID, productID string, origin notify.AnchorSource) (CartView, error) {
	ctx, span := s.start(ctx, "MoveToCart", sessionID)
	defer span.End()

	sess := s.sessions.Get(ctx, sessionID)
	if !sess.Wishlist.MoveToCart(ctx, productID, sess.Cart, origin) {
		return CartView{}, fail(span, apperrors.NotFound("wishlist item", productID))
	}
	s.publishWishlist(ctx, sess, "move")
	s.publishCart(ctx, sess, "add")
	return s.cartView(sess), nil
}

func (s *Storefront) publishWishlist(ctx context.Context, sess *session.Session, op string) {
	if err := s.producer.PublishWishlistUpdated(ctx, sess.ID, op, sess.Wishlist.Items()); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist updated event",
			slog.String("session", sess.ID),
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
	}
}

// ---------------------------------------------------------------------------
// Notifications
// ---------------------------------------------------------------------------

// Notifications returns the session's live notifications split by placement.
func (s *Storefront) Notifications(ctx context.Context, sessionID string) notify.Partitioned {
	ctx, span := s.start(ctx, "Notifications", sessionID)
	defer span.End()
	return s.sessions.Get(ctx, sessionID).Notifications.Partition()
}

// Notify raises a notification on behalf of the client.
func (s *Storefront) Notify(ctx context.Context, sessionID string, in NotifyInput) (string, error) {
	ctx, span := s.start(ctx, "Notify", sessionID)
	defer span.End()

	if strings.TrimSpace(in.Title) == "" {
		return "", fail(span, apperrors.InvalidInput("title is required"))
	}
	m := s.sessions.Get(ctx, sessionID).Notifications
	if in.DurationMs != nil {
		return m.Add(notify.Spec{Kind: in.Kind, Title: in.Title, Message: in.Message, DurationMs: in.DurationMs}), nil
	}
	switch in.Kind {
	case domain.KindSuccess:
		return m.Success(in.Title, in.Message, nil), nil
	case domain.KindError:
		return m.Error(in.Title, in.Message, nil), nil
	case domain.KindWarning:
		return m.Warning(in.Title, in.Message, nil), nil
	default:
		return m.Info(in.Title, in.Message, nil), nil
	}
}

// InvokeAction runs a notification's action and dismisses it.
func (s *Storefront) InvokeAction(ctx context.Context, sessionID, id string) error {
	ctx, span := s.start(ctx, "InvokeAction", sessionID)
	defer span.End()

	if !s.sessions.Get(ctx, sessionID).Notifications.Invoke(id) {
		return fail(span, apperrors.NotFound("notification action", id))
	}
	return nil
}

// DismissNotification removes a notification. Unknown ids are ignored.
func (s *Storefront) DismissNotification(ctx context.Context, sessionID, id string) {
	ctx, span := s.start(ctx, "DismissNotification", sessionID)
	defer span.End()
	s.sessions.Get(ctx, sessionID).Notifications.Remove(id)
}

// ClearNotifications removes every notification of the session.
func (s *Storefront) ClearNotifications(ctx context.Context, sessionID string) {
	ctx, span := s.start(ctx, "ClearNotifications", sessionID)
	defer span.End()
	s.sessions.Get(ctx, sessionID).Notifications.ClearAll()
}
